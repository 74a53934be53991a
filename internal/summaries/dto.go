package summaries

import "time"

// Default generation bounds, in tokens.
const (
	DefaultMinLength = 30
	DefaultMaxLength = 130
)

// GenerateRequest asks for a new summary of an owned document.
type GenerateRequest struct {
	DocumentID string `json:"document_id"`
	MinLength  int    `json:"min_length"`
	MaxLength  int    `json:"max_length"`
}

// SummaryResponse is the public view of a summary.
type SummaryResponse struct {
	ID               string    `json:"id"`
	DocumentID       string    `json:"document_id"`
	SummaryText      string    `json:"summary_text"`
	WordCount        int       `json:"word_count"`
	CompressionRatio float64   `json:"compression_ratio"`
	ModelName        string    `json:"model_name"`
	MinLength        int       `json:"min_length"`
	MaxLength        int       `json:"max_length"`
	GenerationTimeMs int64     `json:"generation_time_ms"`
	CreatedAt        time.Time `json:"created_at"`
}

// ListResponse wraps a page of summaries.
type ListResponse struct {
	Summaries []SummaryResponse `json:"summaries"`
	Limit     int               `json:"limit"`
	Offset    int               `json:"offset"`
}

// ToResponse maps a Summary to its public view.
func ToResponse(s Summary) SummaryResponse {
	return SummaryResponse{
		ID:               s.ID,
		DocumentID:       s.DocumentID,
		SummaryText:      s.SummaryText,
		WordCount:        s.WordCount,
		CompressionRatio: s.CompressionRatio,
		ModelName:        s.ModelName,
		MinLength:        s.MinLength,
		MaxLength:        s.MaxLength,
		GenerationTimeMs: s.GenerationTimeMs,
		CreatedAt:        s.CreatedAt,
	}
}

// ToResponseList maps a slice of summaries.
func ToResponseList(items []Summary) []SummaryResponse {
	out := make([]SummaryResponse, 0, len(items))
	for _, s := range items {
		out = append(out, ToResponse(s))
	}
	return out
}
