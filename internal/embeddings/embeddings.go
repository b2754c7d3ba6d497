// Package embeddings provides interfaces and implementations for embedding
// providers. The pipeline treats providers as opaque text-in/vector-out
// services.
package embeddings

import (
	"context"
	"fmt"
)

// Provider defines the interface for embedding providers.
type Provider interface {
	// Embed generates an embedding for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts (more efficient).
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Name returns the provider name.
	Name() string

	// MaxBatchSize returns the maximum number of texts per batch.
	MaxBatchSize() int
}

// Config selects and configures the embedding provider.
type Config struct {
	Provider string `yaml:"provider"` // openai, ollama
	APIKey   string `yaml:"api_key"`
	BaseURL  string `yaml:"base_url"`
	Model    string `yaml:"model"`
}

// ProviderError is a structured error from an embedding service: unreachable
// endpoint, malformed output, or a rejected request.
type ProviderError struct {
	// Provider is the name of the provider (e.g., "openai", "ollama").
	Provider string

	// Status is the HTTP status code, if applicable.
	Status int

	// Cause is the underlying error.
	Cause error
}

// NewProviderError builds a ProviderError wrapping cause.
func NewProviderError(provider string, cause error) *ProviderError {
	return &ProviderError{Provider: provider, Cause: cause}
}

// WithStatus attaches an HTTP status code.
func (e *ProviderError) WithStatus(status int) *ProviderError {
	e.Status = status
	return e
}

func (e *ProviderError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("embedding provider %s: status %d: %v", e.Provider, e.Status, e.Cause)
	}
	return fmt.Sprintf("embedding provider %s: %v", e.Provider, e.Cause)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}
