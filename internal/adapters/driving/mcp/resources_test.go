package mcp

import (
	"context"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docvault/internal/core/domain"
)

func TestExtractOwnerID(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		suffix   string
		expected string
	}{
		{"user URI", "docvault://users/u-123", "", "u-123"},
		{"stats URI", "docvault://users/u-123/stats", "/stats", "u-123"},
		{"stats URI without suffix", "docvault://users/u-123", "/stats", ""},
		{"nested path rejected", "docvault://users/u-123/stats", "", ""},
		{"invalid prefix", "file://users/u-123", "", ""},
		{"empty owner", "docvault://users/", "", ""},
		{"empty URI", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractOwnerID(tt.uri, tt.suffix))
		})
	}
}

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleUserResource(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("nil user service returns not found", func(t *testing.T) {
		server, err := NewServer(&Ports{Query: &mockQueryService{}})
		require.NoError(t, err)

		_, err = server.handleUserResource(ctx, makeReadResourceRequest("docvault://users/u1"))
		require.Error(t, err)
	})

	t.Run("returns the user profile", func(t *testing.T) {
		users := &mockUserService{users: map[string]*domain.User{
			"u1": {ID: "u1", Name: "Ada", Email: "ada@example.com", CreatedAt: created, DocumentCount: 4},
		}}
		server, err := NewServer(&Ports{Query: &mockQueryService{}, Users: users})
		require.NoError(t, err)

		result, err := server.handleUserResource(ctx, makeReadResourceRequest("docvault://users/u1"))
		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)
		assert.Contains(t, result.Contents[0].Text, `"email": "ada@example.com"`)
		assert.Contains(t, result.Contents[0].Text, `"document_count": 4`)
		assert.NotContains(t, result.Contents[0].Text, "last_login")
	})

	t.Run("unknown user returns error", func(t *testing.T) {
		server, err := NewServer(&Ports{Query: &mockQueryService{}, Users: &mockUserService{}})
		require.NoError(t, err)

		_, err = server.handleUserResource(ctx, makeReadResourceRequest("docvault://users/ghost"))
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestServer_handleStatsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("nil stats service returns not found", func(t *testing.T) {
		server, err := NewServer(&Ports{Query: &mockQueryService{}})
		require.NoError(t, err)

		_, err = server.handleStatsResource(ctx, makeReadResourceRequest("docvault://users/u1/stats"))
		require.Error(t, err)
	})

	t.Run("invalid URI returns not found", func(t *testing.T) {
		server, err := NewServer(&Ports{Query: &mockQueryService{}, Stats: &mockStatsService{}})
		require.NoError(t, err)

		_, err = server.handleStatsResource(ctx, makeReadResourceRequest("docvault://invalid/uri"))
		require.Error(t, err)
	})

	t.Run("returns stats JSON", func(t *testing.T) {
		stats := &mockStatsService{stats: &domain.UserStats{
			Stats: domain.Stats{TotalDocs: 3, TotalChars: 11, AvgDocLength: 3, DocTypes: map[string]int{"txt": 3}},
		}}
		server, err := NewServer(&Ports{Query: &mockQueryService{}, Stats: stats})
		require.NoError(t, err)

		result, err := server.handleStatsResource(ctx, makeReadResourceRequest("docvault://users/u1/stats"))
		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Contains(t, result.Contents[0].Text, `"total_documents": 3`)
		assert.Contains(t, result.Contents[0].Text, `"avg_document_length": 3`)
		assert.Contains(t, result.Contents[0].Text, `"txt": 3`)
	})
}
