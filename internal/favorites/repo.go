package favorites

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"manhwahub/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

// Add marks a content entity as a favorite. Adding twice is a no-op.
func (r *Repo) Add(ctx context.Context, userID, contentID string) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO favorites (user_id, content_id)
		VALUES (?, ?)
		ON CONFLICT(user_id, content_id) DO NOTHING
	`, userID, contentID)
	if err != nil {
		return fmt.Errorf("add favorite: %w", err)
	}
	return nil
}

func (r *Repo) Remove(ctx context.Context, userID, contentID string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		DELETE FROM favorites
		WHERE user_id = ? AND content_id = ?
	`, userID, contentID)
	if err != nil {
		return false, fmt.Errorf("remove favorite: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// List returns the user's favorited content, newest favorite first.
func (r *Repo) List(ctx context.Context, userID string, limit, offset int) ([]models.Content, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var total int
	if err := r.DB.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM favorites WHERE user_id = ?
	`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count favorites: %w", err)
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT c.id, c.title, c.author, c.artist, c.description, c.cover_url, c.rating, c.status, c.genres, c.content_type, c.source_url, c.created_at, c.updated_at
		FROM favorites f
		JOIN content c ON c.id = f.content_id
		WHERE f.user_id = ?
		ORDER BY f.created_at DESC
		LIMIT ? OFFSET ?
	`, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list favorites: %w", err)
	}
	defer rows.Close()

	out := make([]models.Content, 0, limit)
	for rows.Next() {
		var (
			c           models.Content
			artist      sql.NullString
			description sql.NullString
			coverURL    sql.NullString
			genresJSON  string
		)
		if err := rows.Scan(
			&c.ID, &c.Title, &c.Author, &artist, &description, &coverURL,
			&c.Rating, &c.Status, &genresJSON, &c.ContentType, &c.SourceURL,
			&c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan favorite row: %w", err)
		}
		c.Artist = artist.String
		c.Description = description.String
		c.CoverURL = coverURL.String
		_ = json.Unmarshal([]byte(genresJSON), &c.Genres)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows err: %w", err)
	}

	return out, total, nil
}
