package mcp

import (
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Retrieval answers queries over the indexed collection.
	Retrieval driving.RetrievalService

	// Ingest manages the document collection.
	Ingest driving.IngestService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Retrieval == nil {
		return ErrMissingRetrievalService
	}
	// Ingest is optional; document tools are registered only when present
	return nil
}
