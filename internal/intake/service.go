package intake

import (
	"context"
	"fmt"
	"time"

	"manhwahub/internal/updates"
	"manhwahub/pkg/models"
)

// Broadcaster pushes events to connected readers. Satisfied by
// *updates.Hub; nil disables broadcasting.
type Broadcaster interface {
	BroadcastJSON(v any)
}

// Service runs the reconciliation pipeline: validate, resolve, upsert.
// It holds no state of its own; the store owns the data.
type Service struct {
	Store Store
	Hub   Broadcaster
	// Workers bounds batch parallelism. 1 (the default) processes
	// items strictly in input order.
	Workers int
}

func NewService(store Store) *Service {
	return &Service{Store: store, Workers: 1}
}

// IngestContent validates and upserts one catalog record keyed by its
// source_url. Returns the stored entity including its internal id.
func (s *Service) IngestContent(ctx context.Context, rec ContentRecord, contentType string) (*models.Content, error) {
	if err := rec.validate(); err != nil {
		return nil, err
	}

	saved, err := s.Store.UpsertContent(ctx, rec.toModel(contentType))
	if err != nil {
		return nil, fmt.Errorf("save %s %q: %w", contentType, rec.Title, err)
	}
	return saved, nil
}

// IngestChapter validates one chapter record, resolves its parent by
// source_url, and upserts it keyed by (parent, chapter_number). The
// parent must already exist; chapters are never created as orphans.
func (s *Service) IngestChapter(ctx context.Context, rec ChapterRecord) (*models.Chapter, error) {
	if err := rec.validate(); err != nil {
		return nil, err
	}

	contentID, err := s.Store.ContentIDBySourceURL(ctx, rec.ContentSourceURL)
	if err != nil {
		return nil, err
	}

	saved, err := s.Store.UpsertChapter(ctx, rec.toModel(contentID))
	if err != nil {
		return nil, fmt.Errorf("save chapter %q: %w", rec.ContentSourceURL, err)
	}

	if s.Hub != nil {
		s.Hub.BroadcastJSON(updates.ChapterEvent{
			Type:      updates.EventChapterNew,
			ContentID: saved.ContentID,
			Number:    saved.Number,
			At:        time.Now().UTC(),
		})
	}
	return saved, nil
}

// toModel applies ingestion defaults: full-replace semantics mean an
// omitted optional field resets the stored value to its default.
func (r ContentRecord) toModel(contentType string) models.Content {
	status := r.Status
	if status == "" {
		status = models.StatusOngoing
	}
	genres := r.Genres
	if genres == nil {
		genres = []string{}
	}
	return models.Content{
		Title:       r.Title,
		Author:      r.Author,
		Artist:      r.Artist,
		Description: r.Description,
		CoverURL:    r.CoverURL,
		Rating:      r.Rating,
		Status:      status,
		Genres:      genres,
		ContentType: contentType,
		SourceURL:   r.SourceURL,
	}
}

func (r ChapterRecord) toModel(contentID string) models.Chapter {
	pages := r.Pages
	if pages == nil {
		pages = []string{}
	}
	return models.Chapter{
		ContentID:   contentID,
		Number:      *r.Number,
		Title:       r.Title,
		Pages:       pages,
		ReleaseDate: r.ReleaseDate,
		SourceURL:   r.SourceURL,
	}
}
