// Package openai provides a generation backend using OpenAI chat models.
package openai

import (
	"context"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/spacebot-ai/spacebot/internal/llm"
)

const defaultModel = "gpt-4o-mini"

// Generator implements llm.Generator using OpenAI's chat completion API.
type Generator struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	retrier     llm.Retrier
}

var _ llm.Generator = (*Generator)(nil)

// Config contains configuration for the OpenAI generator.
type Config struct {
	APIKey      string
	BaseURL     string // Optional custom base URL (proxies, compatible APIs)
	Model       string
	Temperature float32
	MaxTokens   int
	MaxRetries  int
	RetryDelay  time.Duration
}

// New creates a new OpenAI generator.
func New(cfg Config) (*Generator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Generator{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		retrier:     llm.NewRetrier(cfg.MaxRetries, cfg.RetryDelay),
	}, nil
}

// Name returns the backend name.
func (g *Generator) Name() string {
	return "openai"
}

// Generate sends prompt as a single user message and returns the
// model's reply. Transient failures are retried with linear backoff.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: g.temperature,
	}
	if g.maxTokens > 0 {
		req.MaxTokens = g.maxTokens
	}

	var answer string
	err := g.retrier.Do(ctx, func() error {
		resp, err := g.client.CreateChatCompletion(ctx, req)
		if err != nil {
			return llm.NewProviderError("openai", g.model, err)
		}
		if len(resp.Choices) == 0 {
			return llm.NewProviderError("openai", g.model, errors.New("no choices returned"))
		}
		answer = resp.Choices[0].Message.Content
		return nil
	})
	if err != nil {
		return "", err
	}
	return answer, nil
}
