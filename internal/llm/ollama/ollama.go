// Package ollama provides a generation backend backed by a local Ollama server.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/spacebot-ai/spacebot/internal/llm"
)

// Config contains configuration for the Ollama generator.
type Config struct {
	BaseURL     string // Default: http://localhost:11434
	Model       string // Default: llama3.1
	Temperature float32
	Timeout     time.Duration
	MaxRetries  int
	RetryDelay  time.Duration
}

// Generator implements llm.Generator using the Ollama /api/chat endpoint.
type Generator struct {
	client      *http.Client
	baseURL     string
	model       string
	temperature float32
	retrier     llm.Retrier
}

var _ llm.Generator = (*Generator)(nil)

// New creates a new Ollama generator.
func New(cfg Config) *Generator {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = "llama3.1"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &Generator{
		client:      &http.Client{Timeout: timeout},
		baseURL:     baseURL,
		model:       model,
		temperature: cfg.Temperature,
		retrier:     llm.NewRetrier(cfg.MaxRetries, cfg.RetryDelay),
	}
}

// Name returns the backend name.
func (g *Generator) Name() string {
	return "ollama"
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string         `json:"model"`
	Messages []chatMessage  `json:"messages"`
	Stream   bool           `json:"stream"`
	Options  map[string]any `json:"options,omitempty"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
}

// Generate sends prompt as a single user message and returns the
// model's non-streamed reply.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	req := chatRequest{
		Model:    g.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
		Stream:   false,
	}
	if g.temperature > 0 {
		req.Options = map[string]any{"temperature": g.temperature}
	}

	var answer string
	err := g.retrier.Do(ctx, func() error {
		out, err := g.send(ctx, req)
		if err != nil {
			return err
		}
		answer = out
		return nil
	})
	if err != nil {
		return "", err
	}
	return answer, nil
}

func (g *Generator) send(ctx context.Context, req chatRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", llm.NewProviderError("ollama", g.model, fmt.Errorf("marshal request: %w", err))
	}

	url := g.baseURL + "/api/chat"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", llm.NewProviderError("ollama", g.model, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return "", llm.NewProviderError("ollama", g.model, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 8<<10))
		return "", llm.NewProviderError("ollama", g.model,
			fmt.Errorf("ollama status %d: %s", resp.StatusCode, strings.TrimSpace(string(errBody)))).
			WithStatus(resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", llm.NewProviderError("ollama", g.model, fmt.Errorf("decode response: %w", err))
	}

	return parsed.Message.Content, nil
}
