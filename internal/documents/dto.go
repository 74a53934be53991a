package documents

import "time"

// DocumentResponse is the public view of a document record.
type DocumentResponse struct {
	ID               string     `json:"id"`
	OriginalFilename string     `json:"original_filename"`
	FileType         string     `json:"file_type"`
	MimeType         string     `json:"mime_type"`
	SizeBytes        int64      `json:"size_bytes"`
	WordCount        int        `json:"word_count"`
	Status           string     `json:"status"`
	ExtractedAt      *time.Time `json:"extracted_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// ListResponse wraps a page of documents.
type ListResponse struct {
	Documents []DocumentResponse `json:"documents"`
	Limit     int                `json:"limit"`
	Offset    int                `json:"offset"`
}

// ToResponse maps a Document to its public view. Storage keys stay internal.
func ToResponse(d Document) DocumentResponse {
	return DocumentResponse{
		ID:               d.ID,
		OriginalFilename: d.OriginalFilename,
		FileType:         d.FileType,
		MimeType:         d.MimeType,
		SizeBytes:        d.SizeBytes,
		WordCount:        d.WordCount,
		Status:           string(d.Status),
		ExtractedAt:      d.ExtractedAt,
		CreatedAt:        d.CreatedAt,
	}
}

// ToResponseList maps a slice of documents.
func ToResponseList(docs []Document) []DocumentResponse {
	out := make([]DocumentResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, ToResponse(d))
	}
	return out
}
