package domain

// UnknownFileType is the histogram key for records without a file type.
const UnknownFileType = "unknown"

// Stats is an aggregate over an owner's records. Character counts are
// UTF-8 byte lengths, matching ChunkRecord.TextLength.
type Stats struct {
	TotalDocs    int            `json:"total_documents" yaml:"total_documents"`
	TotalChars   int            `json:"total_characters" yaml:"total_characters"`
	AvgDocLength int            `json:"avg_document_length" yaml:"avg_document_length"`
	DocTypes     map[string]int `json:"document_types" yaml:"document_types"`
}

// UserStats couples the on-demand aggregate with the user's incremental counters.
type UserStats struct {
	Stats `yaml:",inline"`

	// DocumentCount is the user's incremental record counter.
	DocumentCount int `json:"document_count" yaml:"document_count"`

	// TotalCharacters is the user's incremental character counter, in bytes.
	TotalCharacters int `json:"counted_characters" yaml:"counted_characters"`
}

// Consistent reports whether the counters agree with the aggregate.
func (s UserStats) Consistent() bool {
	return s.DocumentCount == s.TotalDocs && s.TotalCharacters == s.TotalChars
}
