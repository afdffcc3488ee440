package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docvault/internal/core/domain"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	OwnerID string `json:"owner_id,omitempty" jsonschema:"ID or email of the user whose documents are searched"`
	Query   string `json:"query" jsonschema:"the search query to find documents"`
	Limit   int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default from settings)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single ranked match.
type SearchResultOutput struct {
	RecordID      string   `json:"record_id"`
	Filename      string   `json:"filename"`
	ChunkIndex    int      `json:"chunk_index"`
	Similarity    float64  `json:"similarity"`
	KeywordScore  int      `json:"keyword_score"`
	CombinedScore float64  `json:"combined_score"`
	MatchedWords  []string `json:"matched_words,omitempty"`
	Content       string   `json:"content"`
}

// AskInput is the input schema for the ask tool.
type AskInput struct {
	OwnerID string `json:"owner_id,omitempty" jsonschema:"ID or email of the user whose documents answer the question"`
	Query   string `json:"query" jsonschema:"the question to answer"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Response      string   `json:"response"`
	SourceInfo    string   `json:"source_info"`
	FromDocuments bool     `json:"from_documents"`
	Sources       []string `json:"sources,omitempty"`
}

// StatsInput is the input schema for the stats tool.
type StatsInput struct {
	OwnerID string `json:"owner_id,omitempty" jsonschema:"ID or email of the user whose corpus is summarised"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Rank an owner's stored document chunks against a query",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question from an owner's documents, falling back to general knowledge",
	}, s.handleAsk)

	if s.ports.Stats != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "stats",
			Description: "Summarise an owner's stored documents",
		}, s.handleStats)
	}
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	owner, err := s.owner(ctx, input.OwnerID)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	matches, err := s.ports.Query.Retrieve(ctx, owner, input.Query, input.Limit)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(matches)),
		Count:   len(matches),
	}
	for i := range matches {
		output.Results[i] = SearchResultOutput{
			RecordID:      matches[i].RecordID,
			Filename:      matches[i].DisplayName(),
			ChunkIndex:    matches[i].Metadata.ChunkIndex,
			Similarity:    matches[i].Similarity,
			KeywordScore:  matches[i].KeywordScore,
			CombinedScore: matches[i].CombinedScore,
			MatchedWords:  matches[i].MatchedWords,
			Content:       matches[i].Text,
		}
	}

	return nil, output, nil
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	owner, err := s.owner(ctx, input.OwnerID)
	if err != nil {
		return nil, AskOutput{}, err
	}

	answer, err := s.ports.Query.Ask(ctx, owner, input.Query)
	if err != nil {
		return nil, AskOutput{}, err
	}

	return nil, AskOutput{
		Response:      answer.Response,
		SourceInfo:    answer.SourceInfo,
		FromDocuments: answer.FromDocuments,
		Sources:       sourceNames(answer.Matches),
	}, nil
}

// handleStats handles the stats tool invocation.
func (s *Server) handleStats(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input StatsInput,
) (*mcp.CallToolResult, domain.UserStats, error) {
	owner, err := s.owner(ctx, input.OwnerID)
	if err != nil {
		return nil, domain.UserStats{}, err
	}

	stats, err := s.ports.Stats.Aggregate(ctx, owner)
	if err != nil {
		return nil, domain.UserStats{}, fmt.Errorf("aggregating stats: %w", err)
	}
	return nil, *stats, nil
}

// sourceNames returns the distinct display names of matches in rank order.
func sourceNames(matches []domain.RankedMatch) []string {
	seen := make(map[string]struct{}, len(matches))
	names := make([]string, 0, len(matches))
	for i := range matches {
		name := matches[i].DisplayName()
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}
