package models

import "time"

// Chapter is one readable unit of a Content entity.
// (ContentID, Number) is unique; Number is a float because sources
// publish half-chapters like 10.5.
type Chapter struct {
	ID          string    `json:"id"`
	ContentID   string    `json:"content_id"`
	Number      float64   `json:"chapter_number"`
	Title       string    `json:"title,omitempty"`
	Pages       []string  `json:"pages"`
	ReleaseDate string    `json:"release_date,omitempty"`
	SourceURL   string    `json:"source_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
