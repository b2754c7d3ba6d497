// Package config loads and validates the application configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig wraps all validation failures.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the main configuration structure for SpaceBot.
type Config struct {
	Corpus    CorpusConfig    `yaml:"corpus"`
	Chunking  ChunkingConfig  `yaml:"chunking"`
	Embedding ProviderConfig  `yaml:"embedding"`
	LLM       ProviderConfig  `yaml:"llm"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Store     StoreConfig     `yaml:"store"`
	Cache     CacheConfig     `yaml:"cache"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// CorpusConfig locates the documents to index.
type CorpusConfig struct {
	Path string `yaml:"path"`
}

// ChunkingConfig controls how documents are split.
type ChunkingConfig struct {
	ChunkSize    int    `yaml:"chunk_size"`
	ChunkOverlap int    `yaml:"chunk_overlap"`
	Separator    string `yaml:"separator"`
}

// ProviderConfig selects and configures a model backend. APIKey values
// support ${VAR} expansion from the environment.
type ProviderConfig struct {
	Provider    string        `yaml:"provider"` // "openai" or "ollama"
	Model       string        `yaml:"model"`
	APIKey      string        `yaml:"api_key"`
	BaseURL     string        `yaml:"base_url"`
	Temperature float32       `yaml:"temperature"`
	MaxTokens   int           `yaml:"max_tokens"`
	Timeout     time.Duration `yaml:"timeout"`
}

// RetrievalConfig controls the retrieval stage.
type RetrievalConfig struct {
	K      int     `yaml:"k"`
	FetchK int     `yaml:"fetch_k"`
	Lambda float64 `yaml:"lambda"`
}

// StoreConfig selects a vector store backend.
type StoreConfig struct {
	Type       string `yaml:"type"` // "memory" or "sqlite"
	Path       string `yaml:"path"`
	Collection string `yaml:"collection"`
}

// CacheConfig bounds the response cache.
type CacheConfig struct {
	MaxSize int `yaml:"max_size"`
}

// LoggingConfig controls slog output.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads and parses the configuration file, expanding environment
// variables and applying defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	applyDefaults(&cfg)

	return &cfg, nil
}

// Default returns a Config with every default applied and no corpus
// path set.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Chunking.ChunkSize == 0 {
		cfg.Chunking.ChunkSize = 120
	}
	if cfg.Chunking.ChunkOverlap == 0 {
		cfg.Chunking.ChunkOverlap = 15
	}
	if cfg.Chunking.Separator == "" {
		cfg.Chunking.Separator = "\n"
	}
	if cfg.Embedding.Provider == "" {
		cfg.Embedding.Provider = "openai"
	}
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = "openai"
	}
	if cfg.LLM.Temperature == 0 {
		cfg.LLM.Temperature = 0.3
	}
	if cfg.LLM.Timeout == 0 {
		cfg.LLM.Timeout = 2 * time.Minute
	}
	if cfg.Embedding.Timeout == 0 {
		cfg.Embedding.Timeout = 2 * time.Minute
	}
	if cfg.Retrieval.K == 0 {
		cfg.Retrieval.K = 3
	}
	if cfg.Retrieval.FetchK == 0 {
		cfg.Retrieval.FetchK = 10
	}
	if cfg.Retrieval.Lambda == 0 {
		cfg.Retrieval.Lambda = 0.5
	}
	if cfg.Store.Type == "" {
		cfg.Store.Type = "memory"
	}
	if cfg.Store.Collection == "" {
		cfg.Store.Collection = "corpus"
	}
	if cfg.Cache.MaxSize == 0 {
		cfg.Cache.MaxSize = 50
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
}

// Validate checks the configuration for inconsistencies that would
// fail later in confusing ways. All errors wrap ErrInvalidConfig.
func (c *Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.Corpus.Path) == "" {
		problems = append(problems, "corpus.path is required")
	}
	if c.Chunking.ChunkSize <= 0 {
		problems = append(problems, "chunking.chunk_size must be positive")
	}
	if c.Chunking.ChunkOverlap >= c.Chunking.ChunkSize {
		problems = append(problems, "chunking.chunk_overlap must be smaller than chunk_size")
	}
	if c.Retrieval.K <= 0 {
		problems = append(problems, "retrieval.k must be positive")
	}
	if c.Retrieval.FetchK < c.Retrieval.K {
		problems = append(problems, "retrieval.fetch_k must be >= retrieval.k")
	}
	if c.Retrieval.Lambda < 0 || c.Retrieval.Lambda > 1 {
		problems = append(problems, "retrieval.lambda must be in [0, 1]")
	}
	if c.Cache.MaxSize <= 0 {
		problems = append(problems, "cache.max_size must be positive")
	}

	switch c.Embedding.Provider {
	case "openai":
		if c.Embedding.APIKey == "" {
			problems = append(problems, "embedding.api_key is required for the openai provider")
		}
	case "ollama":
	default:
		problems = append(problems, fmt.Sprintf("embedding.provider %q is not supported", c.Embedding.Provider))
	}

	switch c.LLM.Provider {
	case "openai":
		if c.LLM.APIKey == "" {
			problems = append(problems, "llm.api_key is required for the openai provider")
		}
	case "ollama":
	default:
		problems = append(problems, fmt.Sprintf("llm.provider %q is not supported", c.LLM.Provider))
	}

	switch c.Store.Type {
	case "memory":
	case "sqlite":
		if strings.TrimSpace(c.Store.Path) == "" {
			problems = append(problems, "store.path is required for the sqlite store")
		}
	default:
		problems = append(problems, fmt.Sprintf("store.type %q is not supported", c.Store.Type))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}
