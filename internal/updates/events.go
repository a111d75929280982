package updates

import "time"

const EventChapterNew = "chapter.new"

// ChapterEvent is pushed to readers when a chapter lands in the store.
type ChapterEvent struct {
	Type      string    `json:"type"`
	ContentID string    `json:"content_id"`
	Number    float64   `json:"chapter_number"`
	At        time.Time `json:"at"`
}
