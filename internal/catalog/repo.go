package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"manhwahub/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

type ListQuery struct {
	Q      string   // keyword search in title/author
	Genres []string // any-match
	Status string
	Type   string // "manhwa" or "manga", empty for both
	Limit  int
	Offset int
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

const contentColumns = `id, title, author, artist, description, cover_url, rating, status, genres, content_type, source_url, created_at, updated_at`

func (r *Repo) GetByID(ctx context.Context, id string) (*models.Content, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT `+contentColumns+`
		FROM content
		WHERE id = ?
	`, id)

	c, err := scanContent(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan getByID: %w", err)
	}
	return c, nil
}

func (r *Repo) Count(ctx context.Context, q ListQuery) (int, error) {
	sqlStr, args := buildListSQL(q, true)
	row := r.DB.QueryRowContext(ctx, sqlStr, args...)
	var total int
	if err := row.Scan(&total); err != nil {
		return 0, fmt.Errorf("count scan: %w", err)
	}
	return total, nil
}

func (r *Repo) List(ctx context.Context, q ListQuery) ([]models.Content, error) {
	sqlStr, args := buildListSQL(q, false)

	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("list query: %w", err)
	}
	defer rows.Close()

	out := make([]models.Content, 0, q.Limit)
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, fmt.Errorf("list scan: %w", err)
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

// ChapterSummary is a chapter row without its page list, for listings
// where the page payload would be dead weight. The reader fetches
// pages per chapter via GetChapter.
type ChapterSummary struct {
	ID          string    `json:"id"`
	ContentID   string    `json:"content_id"`
	Number      float64   `json:"chapter_number"`
	Title       string    `json:"title,omitempty"`
	ReleaseDate string    `json:"release_date,omitempty"`
	SourceURL   string    `json:"source_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ListChapters returns a content's chapters ordered by chapter number.
func (r *Repo) ListChapters(ctx context.Context, contentID string) ([]ChapterSummary, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, content_id, chapter_number, title, release_date, source_url, created_at, updated_at
		FROM chapters
		WHERE content_id = ?
		ORDER BY chapter_number ASC
	`, contentID)
	if err != nil {
		return nil, fmt.Errorf("list chapters: %w", err)
	}
	defer rows.Close()

	out := make([]ChapterSummary, 0, 16)
	for rows.Next() {
		var (
			ch          ChapterSummary
			title       sql.NullString
			releaseDate sql.NullString
			sourceURL   sql.NullString
		)
		if err := rows.Scan(
			&ch.ID, &ch.ContentID, &ch.Number, &title, &releaseDate, &sourceURL,
			&ch.CreatedAt, &ch.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan chapter row: %w", err)
		}
		ch.Title = title.String
		ch.ReleaseDate = releaseDate.String
		ch.SourceURL = sourceURL.String
		out = append(out, ch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

// GetChapter returns one chapter including its page list (reader view).
func (r *Repo) GetChapter(ctx context.Context, id string) (*models.Chapter, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT id, content_id, chapter_number, title, pages, release_date, source_url, created_at, updated_at
		FROM chapters
		WHERE id = ?
	`, id)

	var (
		ch          models.Chapter
		title       sql.NullString
		pagesJSON   string
		releaseDate sql.NullString
		sourceURL   sql.NullString
	)
	if err := row.Scan(
		&ch.ID, &ch.ContentID, &ch.Number, &title, &pagesJSON, &releaseDate, &sourceURL,
		&ch.CreatedAt, &ch.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan getChapter: %w", err)
	}

	ch.Title = title.String
	ch.ReleaseDate = releaseDate.String
	ch.SourceURL = sourceURL.String
	_ = json.Unmarshal([]byte(pagesJSON), &ch.Pages)
	return &ch, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContent(row rowScanner) (*models.Content, error) {
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
		return nil, err
	}

	c.Artist = artist.String
	c.Description = description.String
	c.CoverURL = coverURL.String
	_ = json.Unmarshal([]byte(genresJSON), &c.Genres)
	return &c, nil
}

// buildListSQL builds either COUNT(*) or SELECT list.
// genres filter is "any-match" by doing LIKE searches inside stored JSON text.
func buildListSQL(q ListQuery, countOnly bool) (string, []any) {
	baseSelect := `SELECT ` + contentColumns + ` FROM content`
	if countOnly {
		baseSelect = `SELECT COUNT(*) FROM content`
	}

	var where []string
	var args []any

	if strings.TrimSpace(q.Q) != "" {
		where = append(where, "(LOWER(title) LIKE ? OR LOWER(author) LIKE ?)")
		kw := "%" + strings.ToLower(strings.TrimSpace(q.Q)) + "%"
		args = append(args, kw, kw)
	}

	if strings.TrimSpace(q.Status) != "" {
		where = append(where, "LOWER(status) = ?")
		args = append(args, strings.ToLower(strings.TrimSpace(q.Status)))
	}

	if strings.TrimSpace(q.Type) != "" {
		where = append(where, "content_type = ?")
		args = append(args, strings.ToLower(strings.TrimSpace(q.Type)))
	}

	// any-match genre filter against JSON string
	if len(q.Genres) > 0 {
		var genreOr []string
		for _, g := range q.Genres {
			g = strings.TrimSpace(g)
			if g == "" {
				continue
			}
			genreOr = append(genreOr, "LOWER(genres) LIKE ?")
			args = append(args, `%`+strings.ToLower(g)+`%`)
		}
		if len(genreOr) > 0 {
			where = append(where, "("+strings.Join(genreOr, " OR ")+")")
		}
	}

	sqlStr := baseSelect
	if len(where) > 0 {
		sqlStr += " WHERE " + strings.Join(where, " AND ")
	}

	if !countOnly {
		sqlStr += " ORDER BY title ASC"
		sqlStr += " LIMIT ? OFFSET ?"
		limit := q.Limit
		if limit <= 0 || limit > 100 {
			limit = 20
		}
		offset := q.Offset
		if offset < 0 {
			offset = 0
		}
		args = append(args, limit, offset)
	}

	return sqlStr, args
}
