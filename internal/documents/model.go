package documents

import "time"

// Status tracks the extraction lifecycle of an uploaded document.
type Status string

const (
	// StatusUploaded is the transient state between upload and extraction.
	StatusUploaded Status = "uploaded"
	// StatusExtracted means text extraction succeeded and the derived text exists.
	StatusExtracted Status = "extracted"
	// StatusExtractionFailed means the file is stored but no text could be pulled
	// from it. The record is kept so the user sees what happened.
	StatusExtractionFailed Status = "extraction_failed"
)

// Document is an uploaded file owned by a single user. ExtractedTextKey is
// empty until extraction succeeds and is written at most once.
type Document struct {
	ID               string
	UserID           string
	FileName         string
	OriginalFilename string
	FileType         string
	MimeType         string
	SizeBytes        int64
	StorageKey       string
	ExtractedTextKey string
	WordCount        int
	Status           Status
	ExtractedAt      *time.Time
	CreatedAt        time.Time
}

// Stats aggregates a user's document collection.
type Stats struct {
	TotalDocuments int            `json:"total_documents"`
	TotalSizeBytes int64          `json:"total_size_bytes"`
	TotalWords     int            `json:"total_words"`
	ByFileType     map[string]int `json:"by_file_type"`
}
