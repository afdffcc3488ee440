package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/docvault/internal/core/domain"
	"github.com/custodia-labs/docvault/internal/core/ports/driven"
	"github.com/custodia-labs/docvault/internal/core/ports/driving"
	"github.com/custodia-labs/docvault/internal/logger"
)

// Ensure QueryService implements the interface.
var _ driving.QueryService = (*QueryService)(nil)

// Fixed texts used when nothing relevant is stored or generation fails.
const (
	NoDocumentsContext    = "No relevant documents found in your personal database."
	NoDocumentsSourceInfo = "No relevant documents found - response generated using AI knowledge"
	GeneratorUnavailable  = "AI service is currently unavailable. Please try again later."
	GeneratorTrouble      = "I'm having trouble generating a response right now. Please try again later."

	fallbackContextChars = 300
	contextSeparator     = "\n\n"
)

// defaultAnswerSystemPrompt is the fallback when no PromptStore is configured.
const defaultAnswerSystemPrompt = `You are a helpful AI assistant that answers questions based on provided context from the user's personal document collection.

IMPORTANT INSTRUCTIONS:
1. If the context contains relevant information from documents, use it to answer the question and clearly specify that the information comes from the user's documents.
2. If the context is empty or doesn't contain relevant information, generate a helpful response using your knowledge but CLEARLY STATE that this information is generated by the AI and not from the user's documents.
3. Always be transparent about your information sources.
4. Keep responses concise and focused.
5. If you find specific information in the documents, quote it directly.`

// defaultAnswerUserPrompt is the fallback when no PromptStore is configured.
const defaultAnswerUserPrompt = `Query: %s

Context from user's documents: %s

Source Information: %s

Please answer the query based on the above context. Remember to clearly indicate whether your response is based on the user's documents or generated from your general knowledge.`

// QueryService retrieves ranked context for a question and generates an answer.
type QueryService struct {
	embedder    driven.EmbeddingService
	searcher    driven.SimilaritySearcher
	llm         driven.LLMService
	promptStore driven.PromptStore
	retrieval   domain.RetrievalSettings
	llmSettings domain.LLMSettings
}

// NewQueryService creates a query service.
// The llm parameter is optional (can be nil).
func NewQueryService(
	embedder driven.EmbeddingService,
	searcher driven.SimilaritySearcher,
	llm driven.LLMService,
	retrieval domain.RetrievalSettings,
) *QueryService {
	return &QueryService{
		embedder:  embedder,
		searcher:  searcher,
		llm:       llm,
		retrieval: retrieval,
		llmSettings: domain.LLMSettings{
			Temperature: 0.7,
			MaxTokens:   1000,
		},
	}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
// If not set, the service uses hardcoded default prompts.
func (s *QueryService) SetPromptStore(store driven.PromptStore) {
	s.promptStore = store
}

// SetGenerationOptions overrides the temperature and token limit for answers.
func (s *QueryService) SetGenerationOptions(settings domain.LLMSettings) {
	s.llmSettings = settings
}

// Retrieve embeds the query, runs the similarity search over a pool of
// twice maxResults, and reranks the pool with keyword signals.
// Embedding or store failures are logged and yield no matches.
func (s *QueryService) Retrieve(
	ctx context.Context, ownerID, query string, maxResults int,
) ([]domain.RankedMatch, error) {
	logger.Section("Retrieve")
	logger.Debug("Owner: %s, query: %q", ownerID, query)

	if ownerID == "" {
		return nil, fmt.Errorf("%w: owner is required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(query) == "" {
		return nil, domain.ErrEmptyQuery
	}
	if maxResults <= 0 {
		maxResults = s.retrieval.MaxResults
	}

	if s.embedder == nil {
		logger.Warn("No embedding service configured, returning no matches")
		return []domain.RankedMatch{}, nil
	}
	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		logger.Warn("Query embedding failed: %v", err)
		return []domain.RankedMatch{}, nil
	}

	candidates, err := s.searcher.Search(ctx, ownerID, vec, maxResults*2)
	if err != nil {
		logger.Warn("Similarity search failed: %v", err)
		return []domain.RankedMatch{}, nil
	}
	logger.Debug("Candidate pool: %d", len(candidates))

	ranked := Rerank(query, candidates, maxResults, WeightsFrom(s.retrieval))
	for i, m := range ranked {
		logger.Debug("  %d. %s sim=%.3f kw=%d combined=%.3f",
			i+1, m.DisplayName(), m.Similarity, m.KeywordScore, m.CombinedScore)
	}
	return ranked, nil
}

// BuildContext turns matches into generation context. Texts longer than
// the snippet window are reduced to their densest window. Matches are
// added in rank order until the context bound is reached; the first
// match is always included, cut to the bound if needed.
func (s *QueryService) BuildContext(query string, matches []domain.RankedMatch) domain.RetrievedContext {
	if len(matches) == 0 {
		return domain.RetrievedContext{
			Context:    NoDocumentsContext,
			SourceInfo: NoDocumentsSourceInfo,
		}
	}

	tokens := QueryTokens(query)
	maxChars := s.retrieval.MaxContextChars

	var (
		sb    strings.Builder
		names []string
		seen  = make(map[string]struct{})
	)
	for i, m := range matches {
		part := BestSnippet(m.Text, tokens, s.retrieval.SnippetWindow, s.retrieval.SnippetStep)

		sep := ""
		if i > 0 {
			sep = contextSeparator
		}
		if maxChars > 0 && sb.Len()+len(sep)+len(part) > maxChars {
			if i > 0 {
				break
			}
			part = truncate(part, maxChars)
		}
		sb.WriteString(sep)
		sb.WriteString(part)

		name := m.DisplayName()
		if _, ok := seen[name]; !ok {
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}

	return domain.RetrievedContext{
		Context: sb.String(),
		SourceInfo: fmt.Sprintf("Information retrieved from %d document(s): %s",
			len(names), strings.Join(names, ", ")),
		FromDocuments: true,
	}
}

// Ask answers a question from the owner's documents, falling back to
// general knowledge when nothing relevant is stored.
func (s *QueryService) Ask(ctx context.Context, ownerID, query string) (*domain.Answer, error) {
	matches, err := s.Retrieve(ctx, ownerID, query, 0)
	if err != nil {
		return nil, err
	}

	rc := s.BuildContext(query, matches)
	answer := &domain.Answer{
		Query:            query,
		Matches:          matches,
		RetrievedContext: rc,
	}
	answer.Response = s.generate(ctx, query, rc)
	logger.Info("Answered query for %s from %d matches", ownerID, len(matches))
	return answer, nil
}

func (s *QueryService) generate(ctx context.Context, query string, rc domain.RetrievedContext) string {
	if s.llm == nil {
		return GeneratorUnavailable
	}

	messages := []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: s.loadPrompt(driven.PromptAnswerSystem, defaultAnswerSystemPrompt)},
		{Role: driven.RoleUser, Content: fmt.Sprintf(
			s.loadPrompt(driven.PromptAnswerUser, defaultAnswerUserPrompt),
			query, rc.Context, rc.SourceInfo)},
	}
	resp, err := s.llm.Chat(ctx, messages, driven.ChatOptions{
		MaxTokens:   s.llmSettings.MaxTokens,
		Temperature: s.llmSettings.Temperature,
	})
	if err == nil && strings.TrimSpace(resp) != "" {
		return resp
	}

	logger.Warn("Response generation failed: %v", err)
	if rc.FromDocuments && strings.TrimSpace(rc.Context) != "" {
		return "Based on your documents: " + truncate(rc.Context, fallbackContextChars) + "..."
	}
	return GeneratorTrouble
}

func (s *QueryService) loadPrompt(name, fallback string) string {
	if s.promptStore == nil {
		return fallback
	}
	prompt, err := s.promptStore.Load(name)
	if err != nil || prompt == "" {
		return fallback
	}
	return prompt
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:alignEnd(s, n)]
}
