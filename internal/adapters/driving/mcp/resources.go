package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for docvault resources.
	uriScheme = "docvault://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Template for an owner's profile and counters.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "users/{ownerId}",
		Name:        "user",
		Description: "Profile and document counters of a user",
		MIMEType:    "application/json",
	}, s.handleUserResource)

	// Template for an owner's corpus statistics.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "users/{ownerId}/stats",
		Name:        "user-stats",
		Description: "Aggregate statistics over a user's stored documents",
		MIMEType:    "application/json",
	}, s.handleStatsResource)
}

// handleUserResource returns a user's profile.
func (s *Server) handleUserResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Users == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	ownerID := extractOwnerID(req.Params.URI, "")
	if ownerID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	user, err := s.ports.Users.Get(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}

	type userInfo struct {
		ID              string     `json:"id"`
		Name            string     `json:"name"`
		Email           string     `json:"email"`
		CreatedAt       time.Time  `json:"created_at"`
		LastLogin       *time.Time `json:"last_login,omitempty"`
		DocumentCount   int        `json:"document_count"`
		TotalCharacters int        `json:"total_characters"`
	}

	return jsonResource(req.Params.URI, userInfo{
		ID:              user.ID,
		Name:            user.Name,
		Email:           user.Email,
		CreatedAt:       user.CreatedAt,
		LastLogin:       user.LastLogin,
		DocumentCount:   user.DocumentCount,
		TotalCharacters: user.TotalCharacters,
	})
}

// handleStatsResource returns an owner's corpus statistics.
func (s *Server) handleStatsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Stats == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	ownerID := extractOwnerID(req.Params.URI, "/stats")
	if ownerID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	stats, err := s.ports.Stats.Aggregate(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("aggregating stats: %w", err)
	}
	return jsonResource(req.Params.URI, stats)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractOwnerID extracts the owner ID from a URI like docvault://users/{ownerId}{suffix}.
func extractOwnerID(uri, suffix string) string {
	const prefix = uriScheme + "users/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	uri = strings.TrimPrefix(uri, prefix)
	if suffix != "" {
		if !strings.HasSuffix(uri, suffix) {
			return ""
		}
		uri = strings.TrimSuffix(uri, suffix)
	}

	if uri == "" || strings.Contains(uri, "/") {
		return ""
	}
	return uri
}
