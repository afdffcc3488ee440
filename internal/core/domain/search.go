package domain

// ScoredMatch is a record that passed the similarity threshold.
type ScoredMatch struct {
	// RecordID identifies the matched record.
	RecordID string

	// Text is the record's chunk text.
	Text string

	// Metadata is the record's metadata.
	Metadata ChunkMetadata

	// Similarity is the cosine similarity to the query.
	Similarity float64
}

// DisplayName returns the source label for the match.
func (m ScoredMatch) DisplayName() string {
	return m.Metadata.DisplayName(m.RecordID)
}

// RankedMatch is a ScoredMatch with keyword signals fused in.
type RankedMatch struct {
	ScoredMatch

	// KeywordScore is the raw occurrence count of query tokens.
	KeywordScore int

	// CombinedScore is the weighted fusion used for ordering.
	CombinedScore float64

	// MatchedWords are the query tokens that occurred at least once.
	MatchedWords []string
}

// RetrievedContext is the text handed to the response generator.
type RetrievedContext struct {
	// Context is the assembled snippet text.
	Context string

	// SourceInfo describes which documents contributed.
	SourceInfo string

	// FromDocuments is false when nothing relevant was found.
	FromDocuments bool
}

// Answer is the outcome of a full question-answering request.
type Answer struct {
	// Query is the original question.
	Query string

	// Response is the generated or fallback answer.
	Response string

	// Matches are the ranked records that informed the answer.
	Matches []RankedMatch

	RetrievedContext
}
