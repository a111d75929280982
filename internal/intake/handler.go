package intake

import (
	"crypto/subtle"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Handler is the intake gateway: API-key gate, type dispatch, and the
// mapping from pipeline outcomes to the response envelope.
type Handler struct {
	Service *Service
	APIKey  string
	DB      *sql.DB // diagnostics only
}

func NewHandler(svc *Service, apiKey string, db *sql.DB) *Handler {
	return &Handler{Service: svc, APIKey: apiKey, DB: db}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/scraper", h.requireAPIKey(), h.ingest)
	rg.GET("/test", h.diagnostics)
}

// requireAPIKey gates the intake endpoint. It runs before the body is
// even read; an unset server key rejects everything.
func (h *Handler) requireAPIKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader("x-api-key")
		if h.APIKey == "" || subtle.ConstantTimeCompare([]byte(key), []byte(h.APIKey)) != 1 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}
		c.Next()
	}
}

func (h *Handler) ingest(c *gin.Context) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body", "details": err.Error()})
		return
	}
	if len(req.Data) == 0 {
		req.Data = json.RawMessage(`{}`)
	}

	switch req.Type {
	case TypeManhwa, TypeManga:
		h.ingestContent(c, req.Data, req.Type)
	case TypeChapter:
		h.ingestChapter(c, req.Data)
	case TypeBatch:
		h.ingestBatch(c, req.Data)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid type. Use: manhwa, manga, chapter, or batch"})
	}
}

func (h *Handler) ingestContent(c *gin.Context, data json.RawMessage, contentType string) {
	var rec ContentRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + contentType + " payload", "details": err.Error()})
		return
	}

	saved, err := h.Service.IngestContent(c.Request.Context(), rec, contentType)
	if err != nil {
		writeError(c, err, "Failed to save "+contentType+" data")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": titleCase(contentType) + " data saved successfully",
		"data":    saved,
	})
}

func (h *Handler) ingestChapter(c *gin.Context, data json.RawMessage) {
	var rec ChapterRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid chapter payload", "details": err.Error()})
		return
	}

	saved, err := h.Service.IngestChapter(c.Request.Context(), rec)
	if err != nil {
		writeError(c, err, "Failed to save chapter data")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Chapter data saved successfully",
		"data":    saved,
	})
}

func (h *Handler) ingestBatch(c *gin.Context, data json.RawMessage) {
	var batch BatchPayload
	if err := json.Unmarshal(data, &batch); err != nil {
		// the orchestrator itself could not start
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process batch data", "details": err.Error()})
		return
	}

	results := h.Service.IngestBatch(c.Request.Context(), batch)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Batch data processed",
		"results": results,
	})
}

// writeError maps pipeline error kinds onto the envelope: validation
// 400, missing parent 404, everything else a store failure 500 with
// the underlying cause in details.
func writeError(c *gin.Context, err error, msg string) {
	var vErr *ValidationError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields: " + strings.Join(vErr.Missing, ", ")})
	case errors.Is(err, ErrContentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Content not found. Please add the content first."})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg, "details": err.Error()})
	}
}

// diagnostics is operational tooling: config presence flags plus a
// reachability probe for the two tables the scrapers write to.
func (h *Handler) diagnostics(c *gin.Context) {
	status := gin.H{}
	for _, table := range []string{"content", "chapters"} {
		var n int
		if err := h.DB.QueryRowContext(c.Request.Context(), `SELECT COUNT(*) FROM `+table).Scan(&n); err != nil {
			status[table] = "Error: " + err.Error()
			continue
		}
		status[table] = "OK"
	}

	c.JSON(http.StatusOK, gin.H{
		"has_api_key":     h.APIKey != "",
		"database_status": status,
	})
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
