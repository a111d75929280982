package intake

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"manhwahub/pkg/models"
)

// Store is the narrow contract the pipeline has with the persisted
// catalog. Reconcilers and the resolver get it injected so tests can
// swap in doubles.
type Store interface {
	UpsertContent(ctx context.Context, c models.Content) (*models.Content, error)
	ContentIDBySourceURL(ctx context.Context, sourceURL string) (string, error)
	UpsertChapter(ctx context.Context, ch models.Chapter) (*models.Chapter, error)
}

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

// UpsertContent inserts or fully replaces a content row keyed by its
// unique source_url, then reads back the canonical stored row. The id
// assigned on first insert survives every later conflict update.
func (r *Repo) UpsertContent(ctx context.Context, c models.Content) (*models.Content, error) {
	genresJSON, err := json.Marshal(c.Genres)
	if err != nil {
		return nil, fmt.Errorf("marshal genres: %w", err)
	}

	_, err = r.DB.ExecContext(ctx, `
		INSERT INTO content (id, title, author, artist, description, cover_url, rating, status, genres, content_type, source_url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(source_url) DO UPDATE SET
		  title = excluded.title,
		  author = excluded.author,
		  artist = excluded.artist,
		  description = excluded.description,
		  cover_url = excluded.cover_url,
		  rating = excluded.rating,
		  status = excluded.status,
		  genres = excluded.genres,
		  content_type = excluded.content_type,
		  updated_at = CURRENT_TIMESTAMP
	`, uuid.NewString(), c.Title, c.Author, c.Artist, c.Description, c.CoverURL,
		c.Rating, c.Status, string(genresJSON), c.ContentType, c.SourceURL)
	if err != nil {
		return nil, fmt.Errorf("upsert content %q: %w", c.SourceURL, err)
	}

	return r.contentBySourceURL(ctx, c.SourceURL)
}

func (r *Repo) contentBySourceURL(ctx context.Context, sourceURL string) (*models.Content, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT id, title, author, artist, description, cover_url, rating, status, genres, content_type, source_url, created_at, updated_at
		FROM content
		WHERE source_url = ?
	`, sourceURL)

	var (
		c           models.Content
		artist      sql.NullString
		description sql.NullString
		coverURL    sql.NullString
		genresJSON  string
	)
	if err := row.Scan(
		&c.ID, &c.Title, &c.Author, &artist, &description, &coverURL,
		&c.Rating, &c.Status, &genresJSON, &c.ContentType, &c.SourceURL,
		&c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("read back content %q: %w", sourceURL, err)
	}

	c.Artist = artist.String
	c.Description = description.String
	c.CoverURL = coverURL.String
	_ = json.Unmarshal([]byte(genresJSON), &c.Genres)
	return &c, nil
}

// ContentIDBySourceURL resolves a source_url to the internal content
// id. A missing row is ErrContentNotFound; anything else is a store
// failure and stays distinguishable from absence.
func (r *Repo) ContentIDBySourceURL(ctx context.Context, sourceURL string) (string, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT id FROM content WHERE source_url = ?
	`, sourceURL)

	var id string
	if err := row.Scan(&id); err != nil {
		if err == sql.ErrNoRows {
			return "", ErrContentNotFound
		}
		return "", fmt.Errorf("lookup content %q: %w", sourceURL, err)
	}
	return id, nil
}

// UpsertChapter inserts or fully replaces a chapter row keyed by
// (content_id, chapter_number), then reads back the stored row.
func (r *Repo) UpsertChapter(ctx context.Context, ch models.Chapter) (*models.Chapter, error) {
	pagesJSON, err := json.Marshal(ch.Pages)
	if err != nil {
		return nil, fmt.Errorf("marshal pages: %w", err)
	}

	_, err = r.DB.ExecContext(ctx, `
		INSERT INTO chapters (id, content_id, chapter_number, title, pages, release_date, source_url)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(content_id, chapter_number) DO UPDATE SET
		  title = excluded.title,
		  pages = excluded.pages,
		  release_date = excluded.release_date,
		  source_url = excluded.source_url,
		  updated_at = CURRENT_TIMESTAMP
	`, uuid.NewString(), ch.ContentID, ch.Number, ch.Title, string(pagesJSON),
		ch.ReleaseDate, ch.SourceURL)
	if err != nil {
		return nil, fmt.Errorf("upsert chapter %g of %s: %w", ch.Number, ch.ContentID, err)
	}

	row := r.DB.QueryRowContext(ctx, `
		SELECT id, content_id, chapter_number, title, pages, release_date, source_url, created_at, updated_at
		FROM chapters
		WHERE content_id = ? AND chapter_number = ?
	`, ch.ContentID, ch.Number)

	var (
		saved       models.Chapter
		title       sql.NullString
		pagesStored string
		releaseDate sql.NullString
		sourceURL   sql.NullString
	)
	if err := row.Scan(
		&saved.ID, &saved.ContentID, &saved.Number, &title, &pagesStored,
		&releaseDate, &sourceURL, &saved.CreatedAt, &saved.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("read back chapter %g of %s: %w", ch.Number, ch.ContentID, err)
	}

	saved.Title = title.String
	saved.ReleaseDate = releaseDate.String
	saved.SourceURL = sourceURL.String
	_ = json.Unmarshal([]byte(pagesStored), &saved.Pages)
	return &saved, nil
}
