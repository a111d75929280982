package intake

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"manhwahub/pkg/database"
)

const testAPIKey = "test-key-123"

func newTestRouter(t *testing.T) (*gin.Engine, *sql.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	svc := NewService(NewRepo(db))
	h := NewHandler(svc, testAPIKey, db)

	router := gin.New()
	h.RegisterRoutes(router.Group("/api"))
	return router, db
}

func doPost(router *gin.Engine, apiKey string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/scraper", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("x-api-key", apiKey)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func countRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM `+table).Scan(&n))
	return n
}

func TestGatewayRejectsMissingKey(t *testing.T) {
	router, db := newTestRouter(t)

	w := doPost(router, "", `{"type":"manhwa","data":{"title":"t","author":"a","source_url":"s"}}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Zero(t, countRows(t, db, "content"), "401 must mean zero store mutations")
}

func TestGatewayRejectsWrongKey(t *testing.T) {
	router, db := newTestRouter(t)

	w := doPost(router, "wrong-key", `{"type":"batch","data":{"manhwa":[{"title":"t","author":"a","source_url":"s"}]}}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Zero(t, countRows(t, db, "content"))
}

func TestGatewayUnknownType(t *testing.T) {
	router, db := newTestRouter(t)

	w := doPost(router, testAPIKey, `{"type":"unknown","data":{}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "manhwa, manga, chapter, or batch")
	assert.Zero(t, countRows(t, db, "content"))
}

func TestGatewaySingleContent(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doPost(router, testAPIKey, `{"type":"manhwa","data":{
		"title":"Solo Leveling","author":"Chugong","source_url":"https://example.com/sl",
		"genres":["Action"],"rating":4.9}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Success bool            `json:"success"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "Manhwa data saved successfully", resp.Message)
	assert.Contains(t, string(resp.Data), `"id"`)
}

func TestGatewayValidationFailure(t *testing.T) {
	router, db := newTestRouter(t)

	w := doPost(router, testAPIKey, `{"type":"manga","data":{"title":"only a title"}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "author")
	assert.Contains(t, w.Body.String(), "source_url")
	assert.Zero(t, countRows(t, db, "content"))
}

func TestGatewayChapterParentNotFound(t *testing.T) {
	router, db := newTestRouter(t)

	w := doPost(router, testAPIKey, `{"type":"chapter","data":{
		"content_source_url":"https://example.com/missing","chapter_number":1,"pages":[]}}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "add the content first")
	assert.Zero(t, countRows(t, db, "chapters"))
}

func TestGatewayChapterRoundTrip(t *testing.T) {
	router, db := newTestRouter(t)

	w := doPost(router, testAPIKey, `{"type":"manhwa","data":{
		"title":"Solo Leveling","author":"Chugong","source_url":"https://example.com/sl"}}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = doPost(router, testAPIKey, `{"type":"chapter","data":{
		"content_source_url":"https://example.com/sl","chapter_number":1,
		"title":"Prologue","pages":["1.jpg","2.jpg"]}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "Chapter data saved successfully")
	assert.Equal(t, 1, countRows(t, db, "chapters"))
}

func TestGatewayBatch(t *testing.T) {
	router, db := newTestRouter(t)

	w := doPost(router, testAPIKey, `{"type":"batch","data":{
		"manhwa":[
			{"title":"A","author":"a","source_url":"https://example.com/a"},
			{"title":"B","author":"b","source_url":"https://example.com/b"},
			{"title":"C","author":"c","source_url":"https://example.com/c"},
			{"author":"no title","source_url":"https://example.com/d"}
		],
		"chapters":[
			{"content_source_url":"https://example.com/a","chapter_number":1,"pages":["1.jpg"]}
		]}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Success bool        `json:"success"`
		Message string      `json:"message"`
		Results BatchResult `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "Batch data processed", resp.Message)
	assert.Equal(t, Counter{Success: 3, Failed: 1}, resp.Results.Manhwa)
	assert.Equal(t, Counter{Success: 1, Failed: 0}, resp.Results.Chapters)
	assert.Equal(t, 3, countRows(t, db, "content"))
}

func TestGatewayEmptyBatch(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doPost(router, testAPIKey, `{"type":"batch","data":{}}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Results BatchResult `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, BatchResult{}, resp.Results)
}

func TestDiagnosticsEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		HasAPIKey      bool              `json:"has_api_key"`
		DatabaseStatus map[string]string `json:"database_status"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.HasAPIKey)
	assert.Equal(t, "OK", resp.DatabaseStatus["content"])
	assert.Equal(t, "OK", resp.DatabaseStatus["chapters"])
}
