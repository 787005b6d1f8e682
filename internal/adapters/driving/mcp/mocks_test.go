package mcp

import (
	"context"

	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
)

// mockRetrievalService is a mock implementation of driving.RetrievalService.
type mockRetrievalService struct {
	results  []domain.RetrievalResult
	analysis domain.QueryAnalysis
	gotOpts  domain.RetrievalOptions
	err      error
}

func (m *mockRetrievalService) Retrieve(
	_ context.Context,
	_ string,
	opts domain.RetrievalOptions,
) ([]domain.RetrievalResult, error) {
	m.gotOpts = opts
	return m.results, m.err
}

func (m *mockRetrievalService) Analyze(_ context.Context, _ string) domain.QueryAnalysis {
	return m.analysis
}

// mockIngestService is a mock implementation of driving.IngestService.
type mockIngestService struct {
	documents []domain.Document
	ingested  []string
	deleted   []string
	err       error
}

func (m *mockIngestService) Ingest(_ context.Context, documentID, _, _ string, _ domain.PageMap) error {
	if m.err != nil {
		return m.err
	}
	m.ingested = append(m.ingested, documentID)
	return nil
}

func (m *mockIngestService) Delete(_ context.Context, documentID string) error {
	if m.err != nil {
		return m.err
	}
	m.deleted = append(m.deleted, documentID)
	return nil
}

func (m *mockIngestService) Rebuild(_ context.Context) error {
	return m.err
}

func (m *mockIngestService) Documents(_ context.Context) ([]domain.Document, error) {
	return m.documents, m.err
}
