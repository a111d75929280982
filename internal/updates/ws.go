package updates

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // OK for demo; restrict in production
	},
}

type welcomeFrame struct {
	Type      string `json:"type"`
	Transport string `json:"transport"`
}

// WSHandler upgrades the connection and subscribes it to chapter
// events. The welcome frame is written before the hub learns about the
// connection: from registration on, the hub's broadcast path is the
// only writer, so ingestion goroutines never race the handler on the
// same conn.
func WSHandler(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}

		welcome, _ := json.Marshal(welcomeFrame{Type: "welcome", Transport: "websocket"})
		if err := ws.WriteMessage(websocket.TextMessage, append(welcome, '\n')); err != nil {
			_ = ws.Close()
			return
		}

		hub.Add(ws)
		log.Println("[ws] client connected")

		// Reads only keep the connection alive; incoming frames are
		// ignored.
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				break
			}
		}

		hub.Remove(ws)
		log.Println("[ws] client disconnected")
	}
}
