package intake

import (
	"encoding/json"
	"log"
)

// Request is the envelope every scraper POST carries. Data stays raw
// until the type discriminator picks the shape to decode it into.
type Request struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	TypeManhwa  = "manhwa"
	TypeManga   = "manga"
	TypeChapter = "chapter"
	TypeBatch   = "batch"
)

// ContentRecord is one scraped catalog entry, manhwa or manga.
type ContentRecord struct {
	Title       string   `json:"title"`
	Author      string   `json:"author"`
	Artist      string   `json:"artist"`
	Description string   `json:"description"`
	CoverURL    string   `json:"cover_url"`
	Rating      float64  `json:"rating"`
	Status      string   `json:"status"`
	Genres      []string `json:"genres"`
	SourceURL   string   `json:"source_url"`
}

// ChapterRecord is one scraped chapter. Number is a pointer so that an
// explicit chapter 0 is distinguishable from an absent field, and Pages
// stays nil when absent (an empty array is a valid, present value).
type ChapterRecord struct {
	ContentSourceURL string   `json:"content_source_url"`
	Number           *float64 `json:"chapter_number"`
	Title            string   `json:"title"`
	Pages            []string `json:"pages"`
	ReleaseDate      string   `json:"release_date"`
	SourceURL        string   `json:"source_url"`
}

// BatchPayload keeps its collections raw so that one garbled collection
// (or even one garbled item) never takes the other collections down.
type BatchPayload struct {
	Manhwa   json.RawMessage `json:"manhwa"`
	Manga    json.RawMessage `json:"manga"`
	Chapters json.RawMessage `json:"chapters"`
}

// decodeItems splits a raw collection into raw items. Absent, null or
// non-array input yields zero items rather than an error.
func decodeItems(raw json.RawMessage, name string) []json.RawMessage {
	if len(raw) == 0 {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		log.Printf("[intake] batch collection %q is not an array, treating as empty", name)
		return nil
	}
	return items
}
