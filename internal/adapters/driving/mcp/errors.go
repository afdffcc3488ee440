// Package mcp serves docvault's retrieval over the Model Context
// Protocol, so assistants can search and question a user's documents.
package mcp

import "errors"

var (
	// ErrMissingQueryService is returned by NewServer without a query port.
	ErrMissingQueryService = errors.New("mcp: query service is required")

	// ErrMissingOwner is returned when a call names no owner and the
	// server has no default.
	ErrMissingOwner = errors.New("mcp: owner_id is required")

	// ErrUnknownOwner is returned when owner_id matches no user.
	ErrUnknownOwner = errors.New("mcp: unknown owner")
)
