package services

import (
	"sort"
	"strings"

	"github.com/custodia-labs/docvault/internal/core/domain"
)

// RerankWeights controls how vector and keyword signals are fused.
type RerankWeights struct {
	Vector     float64
	Keyword    float64
	Saturation float64
}

// WeightsFrom extracts the fusion weights from retrieval settings.
func WeightsFrom(r domain.RetrievalSettings) RerankWeights {
	return RerankWeights{
		Vector:     r.VectorWeight,
		Keyword:    r.KeywordWeight,
		Saturation: r.KeywordSaturation,
	}
}

// CombinedScore fuses similarity with a keyword count saturated at w.Saturation.
func (w RerankWeights) CombinedScore(similarity float64, keywordScore int) float64 {
	normalized := 0.0
	if w.Saturation > 0 {
		normalized = float64(keywordScore) / w.Saturation
	}
	if normalized > 1 {
		normalized = 1
	}
	return w.Vector*similarity + w.Keyword*normalized
}

// Rerank adds keyword signals to candidates, orders them by combined
// score and keeps at most maxResults. Ties keep candidate order.
func Rerank(query string, candidates []domain.ScoredMatch, maxResults int, w RerankWeights) []domain.RankedMatch {
	if len(candidates) == 0 {
		return []domain.RankedMatch{}
	}

	tokens := QueryTokens(query)
	ranked := make([]domain.RankedMatch, len(candidates))
	for i, c := range candidates {
		score, matched := countTokens(strings.ToLower(c.Text), tokens)
		ranked[i] = domain.RankedMatch{
			ScoredMatch:   c,
			KeywordScore:  score,
			CombinedScore: w.CombinedScore(c.Similarity, score),
			MatchedWords:  matched,
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].CombinedScore > ranked[j].CombinedScore
	})

	if maxResults > 0 && len(ranked) > maxResults {
		ranked = ranked[:maxResults]
	}
	return ranked
}
