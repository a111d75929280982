package intake

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"manhwahub/pkg/models"
)

// A store lookup blowing up is not the same thing as the parent being
// absent; the repo must keep the two apart.
func TestContentLookupErrorIsNotNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	boom := errors.New("connection reset")
	mock.ExpectQuery("SELECT id FROM content").WillReturnError(boom)

	repo := NewRepo(db)
	_, err = repo.ContentIDBySourceURL(context.Background(), "https://example.com/x")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrContentNotFound)
	assert.ErrorIs(t, err, boom)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestContentLookupNoRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT id FROM content").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	repo := NewRepo(db)
	_, err = repo.ContentIDBySourceURL(context.Background(), "https://example.com/x")
	assert.ErrorIs(t, err, ErrContentNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertContentStoreFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO content").WillReturnError(errors.New("disk I/O error"))

	repo := NewRepo(db)
	_, err = repo.UpsertContent(context.Background(), models.Content{
		Title:       "x",
		Author:      "y",
		Genres:      []string{},
		Status:      models.StatusOngoing,
		ContentType: models.ContentTypeManga,
		SourceURL:   "https://example.com/x",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upsert content")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertChapterStoreFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO chapters").WillReturnError(errors.New("constraint failed"))

	repo := NewRepo(db)
	_, err = repo.UpsertChapter(context.Background(), models.Chapter{
		ContentID: "cid",
		Number:    3,
		Pages:     []string{},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upsert chapter")
	require.NoError(t, mock.ExpectationsWereMet())
}
