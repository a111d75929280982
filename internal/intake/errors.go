package intake

import (
	"errors"
	"strings"
)

// ErrContentNotFound means a chapter named a source_url no content row
// has. A genuine absence, not a store failure: callers must ingest the
// parent before its chapters.
var ErrContentNotFound = errors.New("content not found")

// ValidationError carries the exact set of required fields a record
// was missing.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Missing, ", ")
}
