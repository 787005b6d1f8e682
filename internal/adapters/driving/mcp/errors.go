// Package mcp provides an MCP (Model Context Protocol) server adapter for
// askdoc. It lets AI assistants query and manage the local document index.
package mcp

import "errors"

// ErrMissingRetrievalService is returned when the retrieval service is not provided.
var ErrMissingRetrievalService = errors.New("mcp: retrieval service is required")
