// Package llm defines the text-generation interface the pipeline talks
// to, along with shared retry and error plumbing for its backends.
package llm

import "context"

// Generator produces a completion for a fully assembled prompt.
// Implementations must be safe for concurrent use.
type Generator interface {
	// Generate returns the model's answer for prompt. Blocking;
	// honors ctx cancellation and deadlines.
	Generate(ctx context.Context, prompt string) (string, error)

	// Name identifies the backend for logging ("openai", "ollama").
	Name() string
}

// Config carries the knobs common to all generation backends.
type Config struct {
	Model       string
	Temperature float32
	MaxTokens   int
}
