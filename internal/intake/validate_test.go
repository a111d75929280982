package intake

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentRecordMissingFields(t *testing.T) {
	rec := ContentRecord{}
	assert.Equal(t, []string{"title", "author", "source_url"}, rec.missingFields())

	rec = ContentRecord{Title: "Solo Leveling", Author: "Chugong", SourceURL: "https://example.com/solo-leveling"}
	assert.Empty(t, rec.missingFields())

	rec = ContentRecord{Title: "Solo Leveling", SourceURL: "https://example.com/solo-leveling"}
	assert.Equal(t, []string{"author"}, rec.missingFields())
}

func TestChapterRecordMissingFields(t *testing.T) {
	rec := ChapterRecord{}
	assert.Equal(t, []string{"content_source_url", "chapter_number", "pages"}, rec.missingFields())

	n := 1.0
	rec = ChapterRecord{ContentSourceURL: "https://example.com/x", Number: &n, Pages: []string{}}
	assert.Empty(t, rec.missingFields(), "empty pages array is present, not missing")
}

func TestChapterZeroIsPresent(t *testing.T) {
	zero := 0.0
	rec := ChapterRecord{ContentSourceURL: "https://example.com/x", Number: &zero, Pages: []string{"p1"}}
	assert.Empty(t, rec.missingFields())
}

func TestValidateReturnsValidationError(t *testing.T) {
	err := ContentRecord{Author: "a", SourceURL: "s"}.validate()
	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
	assert.Equal(t, []string{"title"}, vErr.Missing)
	assert.Contains(t, vErr.Error(), "title")
}
