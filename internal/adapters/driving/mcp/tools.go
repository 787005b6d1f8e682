package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
)

// RetrieveInput is the input schema for the retrieve tool.
type RetrieveInput struct {
	Query string   `json:"query" jsonschema:"the query to find relevant passages for"`
	Limit int      `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10)"`
	Alpha *float64 `json:"alpha,omitempty" jsonschema:"fusion weight in [0,1]: 1 = semantic only, 0 = keyword only (default: chosen from the query)"`
}

// RetrieveOutput is the output schema for the retrieve tool.
type RetrieveOutput struct {
	Results []RetrieveResultOutput `json:"results"`
	Count   int                    `json:"count"`
}

// RetrieveResultOutput represents a single retrieval result.
type RetrieveResultOutput struct {
	ChunkID     string  `json:"chunk_id"`
	DocumentID  string  `json:"document_id"`
	Page        int     `json:"page,omitempty"`
	Score       float64 `json:"score"`
	DenseScore  float64 `json:"dense_score"`
	SparseScore float64 `json:"sparse_score"`
	Content     string  `json:"content"`
}

// IngestInput is the input schema for the ingest_document tool.
type IngestInput struct {
	DocumentID string `json:"document_id" jsonschema:"unique document ID (must not contain underscores)"`
	Title      string `json:"title,omitempty" jsonschema:"human-readable title"`
	Text       string `json:"text" jsonschema:"full document text to index"`
}

// IngestOutput is the output schema for the ingest_document tool.
type IngestOutput struct {
	DocumentID string `json:"document_id"`
	Status     string `json:"status"`
}

// DeleteInput is the input schema for the delete_document tool.
type DeleteInput struct {
	DocumentID string `json:"document_id" jsonschema:"ID of the document to delete"`
}

// DeleteOutput is the output schema for the delete_document tool.
type DeleteOutput struct {
	DocumentID string `json:"document_id"`
	Status     string `json:"status"`
}

// ListInput is the input schema for the list_documents tool.
type ListInput struct{}

// ListOutput is the output schema for the list_documents tool.
type ListOutput struct {
	Documents []DocumentOutput `json:"documents"`
	Count     int              `json:"count"`
}

// DocumentOutput describes one ingested document.
type DocumentOutput struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	PageCount int    `json:"page_count,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "retrieve",
		Description: "Retrieve the most relevant passages for a query using hybrid (keyword + semantic) ranking",
	}, s.handleRetrieve)

	if s.ports.Ingest == nil {
		return
	}
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ingest_document",
		Description: "Chunk, embed, and index a document so it becomes retrievable",
	}, s.handleIngest)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "delete_document",
		Description: "Remove a document and all its index entries",
	}, s.handleDelete)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_documents",
		Description: "List all ingested documents",
	}, s.handleList)
}

// handleRetrieve handles the retrieve tool invocation.
func (s *Server) handleRetrieve(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RetrieveInput,
) (*mcp.CallToolResult, RetrieveOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 10
	}
	if input.Alpha != nil && (*input.Alpha < 0 || *input.Alpha > 1) {
		return nil, RetrieveOutput{}, fmt.Errorf("alpha must be in [0, 1], got %g", *input.Alpha)
	}

	opts := domain.RetrievalOptions{K: limit, Alpha: input.Alpha}
	results, err := s.ports.Retrieval.Retrieve(ctx, input.Query, opts)
	if err != nil {
		return nil, RetrieveOutput{}, err
	}

	output := RetrieveOutput{
		Results: make([]RetrieveResultOutput, len(results)),
		Count:   len(results),
	}

	for i := range results {
		output.Results[i] = RetrieveResultOutput{
			ChunkID:     results[i].Chunk.ID,
			DocumentID:  results[i].Chunk.DocumentID,
			Page:        results[i].Chunk.Page,
			Score:       results[i].Score,
			DenseScore:  results[i].DenseScore,
			SparseScore: results[i].SparseScore,
			Content:     results[i].Chunk.Content,
		}
	}

	return nil, output, nil
}

// handleIngest handles the ingest_document tool invocation.
func (s *Server) handleIngest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestInput,
) (*mcp.CallToolResult, IngestOutput, error) {
	if err := s.ports.Ingest.Ingest(ctx, input.DocumentID, input.Title, input.Text, nil); err != nil {
		return nil, IngestOutput{}, err
	}
	return nil, IngestOutput{DocumentID: input.DocumentID, Status: "ingested"}, nil
}

// handleDelete handles the delete_document tool invocation.
func (s *Server) handleDelete(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DeleteInput,
) (*mcp.CallToolResult, DeleteOutput, error) {
	if err := s.ports.Ingest.Delete(ctx, input.DocumentID); err != nil {
		return nil, DeleteOutput{}, err
	}
	return nil, DeleteOutput{DocumentID: input.DocumentID, Status: "deleted"}, nil
}

// handleList handles the list_documents tool invocation.
func (s *Server) handleList(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListInput,
) (*mcp.CallToolResult, ListOutput, error) {
	docs, err := s.ports.Ingest.Documents(ctx)
	if err != nil {
		return nil, ListOutput{}, err
	}

	output := ListOutput{
		Documents: make([]DocumentOutput, len(docs)),
		Count:     len(docs),
	}
	for i, doc := range docs {
		output.Documents[i] = DocumentOutput{
			ID:        doc.ID,
			Title:     doc.Title,
			PageCount: doc.PageCount,
		}
	}
	return nil, output, nil
}
