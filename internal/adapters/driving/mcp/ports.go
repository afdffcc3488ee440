package mcp

import (
	"github.com/custodia-labs/docvault/internal/core/ports/driving"
)

// Ports holds the services the MCP tools and resources call.
type Ports struct {
	// Query retrieves matches and answers questions.
	Query driving.QueryService

	// Stats reports on an owner's corpus.
	Stats driving.StatsService

	// Users resolves owners.
	Users driving.UserService
}

// Validate reports a missing query service. Without Stats or Users the
// matching tools and resources return errors and owners are passed
// through unresolved.
func (p *Ports) Validate() error {
	if p.Query == nil {
		return ErrMissingQueryService
	}
	return nil
}
