// Package driving provides interfaces exposed to callers
// (primary/inbound ports): retrieval, ingestion, chat, and quiz.
package driving
