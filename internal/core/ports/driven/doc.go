// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports): indexes, stores, and AI services.
package driven
