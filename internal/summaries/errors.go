package summaries

import "errors"

var (
	ErrNotFound         = errors.New("summary not found")
	ErrDocumentNotFound = errors.New("document not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidRange     = errors.New("invalid length range")
	ErrNoTextAvailable  = errors.New("document has no extracted text")
)
