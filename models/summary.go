package models

// SummaryRecord is the persisted result of summarizing one URL. There is at
// most one live record per URL; the ID stays stable when the record is
// overwritten by a later run.
type SummaryRecord struct {
	ID            string  `json:"id"`
	URL           string  `json:"url"`
	Timestamp     string  `json:"timestamp"`
	TimestampUnix float64 `json:"timestamp_unix"`
	// Preview holds the first ~200 characters of the summary with
	// newlines flattened, for listings.
	Preview  string `json:"preview"`
	Language string `json:"language,omitempty"`
	Content  string `json:"content,omitempty"`
}
