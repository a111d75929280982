package updates

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubBroadcast(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := NewHub()

	router := gin.New()
	router.GET("/ws", WSHandler(hub))
	srv := httptest.NewServer(router)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// welcome frame arrives after the hub registered us
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(msg), "welcome")
	assert.Equal(t, 1, hub.Stats().WSClients)

	hub.BroadcastJSON(ChapterEvent{
		Type:      EventChapterNew,
		ContentID: "c1",
		Number:    42,
		At:        time.Now().UTC(),
	})

	_, msg, err = conn.ReadMessage()
	require.NoError(t, err)

	var ev ChapterEvent
	require.NoError(t, json.Unmarshal(msg, &ev))
	assert.Equal(t, EventChapterNew, ev.Type)
	assert.Equal(t, "c1", ev.ContentID)
	assert.Equal(t, 42.0, ev.Number)
}

// Broadcasts racing the connection handshake must never share the
// conn with the welcome write: the welcome always lands first, and
// only the hub writes afterwards.
func TestBroadcastWhileClientsConnect(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := NewHub()

	router := gin.New()
	router.GET("/ws", WSHandler(hub))
	srv := httptest.NewServer(router)
	defer srv.Close()

	done := make(chan struct{})
	broadcasting := make(chan struct{})
	go func() {
		defer close(broadcasting)
		for {
			select {
			case <-done:
				return
			default:
				hub.BroadcastJSON(ChapterEvent{Type: EventChapterNew, ContentID: "c1", Number: 1})
			}
		}
	}()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	for i := 0; i < 10; i++ {
		conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
		require.NoError(t, err)

		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		_, msg, err := conn.ReadMessage()
		require.NoError(t, err)
		assert.Contains(t, string(msg), "welcome", "first frame on every conn is the welcome")
		_ = conn.Close()
	}

	close(done)
	<-broadcasting
}

func TestBroadcastWithNoClients(t *testing.T) {
	hub := NewHub()
	// must not panic or block
	hub.BroadcastJSON(ChapterEvent{Type: EventChapterNew})
	assert.Equal(t, 0, hub.Stats().WSClients)
}
