package models

import "time"

// Content is one catalog work (manhwa or manga). It is the normalized
// form every scraped record is reconciled into before it hits the DB,
// and the shape the read API serves back out.
type Content struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Artist      string    `json:"artist,omitempty"`
	Description string    `json:"description,omitempty"`
	CoverURL    string    `json:"cover_url,omitempty"`
	Rating      float64   `json:"rating"`
	Status      string    `json:"status"` // "ongoing", "completed", ...
	Genres      []string  `json:"genres"`
	ContentType string    `json:"content_type"` // "manhwa" or "manga"
	SourceURL   string    `json:"source_url"`   // natural dedup key, unique
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

const (
	ContentTypeManhwa = "manhwa"
	ContentTypeManga  = "manga"

	StatusOngoing = "ongoing"
)
