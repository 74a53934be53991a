package summaries

import "time"

// Summary is a generated summary of one document. CompressionRatio is the
// summary length as a fraction of the source word count.
type Summary struct {
	ID               string
	DocumentID       string
	UserID           string
	SummaryText      string
	WordCount        int
	CompressionRatio float64
	ModelName        string
	MinLength        int
	MaxLength        int
	GenerationTimeMs int64
	CreatedAt        time.Time
}
