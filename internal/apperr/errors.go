// Package apperr defines the error kinds surfaced by the core engine.
// Handlers map these to HTTP statuses; everything else wraps them with
// fmt.Errorf("...: %w", ...).
package apperr

import "errors"

var (
	// ErrInvalidInput is returned when a required input is missing or malformed
	// (empty question, empty search query, missing title).
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound is returned when a referenced item or notebook does not exist.
	ErrNotFound = errors.New("not found")

	// ErrEmptyContent is returned when extraction yields no usable text.
	// Ingestion must abort before any embedding call is attempted.
	ErrEmptyContent = errors.New("no usable text content")

	// ErrEmbedding is returned when the embedding service fails or returns no
	// vector. Nothing partial is persisted.
	ErrEmbedding = errors.New("embedding failed")

	// ErrGeneration is returned when the language model call fails.
	ErrGeneration = errors.New("generation failed")
)
