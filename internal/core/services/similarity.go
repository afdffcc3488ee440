package services

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/custodia-labs/docvault/internal/core/domain"
	"github.com/custodia-labs/docvault/internal/core/ports/driven"
	"github.com/custodia-labs/docvault/internal/logger"
)

// Ensure LinearSearcher implements the interface.
var _ driven.SimilaritySearcher = (*LinearSearcher)(nil)

// CosineSimilarity returns dot(a, b) / (|a| * |b|).
// Vectors of different length or with zero norm score 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if math.IsNaN(sim) {
		return 0
	}
	return sim
}

// LinearSearcher scores every record of an owner against the query.
type LinearSearcher struct {
	records       driven.RecordStore
	minSimilarity float64
}

// NewLinearSearcher creates a searcher that keeps matches scoring
// strictly above minSimilarity.
func NewLinearSearcher(records driven.RecordStore, minSimilarity float64) *LinearSearcher {
	return &LinearSearcher{records: records, minSimilarity: minSimilarity}
}

// Search returns up to limit of the owner's records most similar to query.
// Ties keep store order. An owner with no records yields an empty slice.
func (s *LinearSearcher) Search(
	ctx context.Context, ownerID string, query []float32, limit int,
) ([]domain.ScoredMatch, error) {
	records, err := s.records.FindAll(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	logger.Debug("Scanning %d records for owner %s", len(records), ownerID)

	matches := make([]domain.ScoredMatch, 0, len(records))
	for i := range records {
		rec := &records[i]
		sim := CosineSimilarity(query, rec.Embedding)
		if sim <= s.minSimilarity {
			continue
		}
		matches = append(matches, domain.ScoredMatch{
			RecordID:   rec.ID,
			Text:       rec.Text,
			Metadata:   rec.Metadata,
			Similarity: sim,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	logger.Debug("Similarity search kept %d matches", len(matches))
	return matches, nil
}
