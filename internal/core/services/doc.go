// Package services implements the core application services: query
// analysis, fusion ranking, hybrid retrieval, ingestion, chat, and quiz
// generation. Services depend only on domain types and ports, never on
// concrete adapters.
package services
