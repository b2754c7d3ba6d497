package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/spacebot-ai/spacebot/internal/config"
	"github.com/spacebot-ai/spacebot/internal/embeddings"
	embedollama "github.com/spacebot-ai/spacebot/internal/embeddings/ollama"
	embedopenai "github.com/spacebot-ai/spacebot/internal/embeddings/openai"
	"github.com/spacebot-ai/spacebot/internal/llm"
	llmollama "github.com/spacebot-ai/spacebot/internal/llm/ollama"
	llmopenai "github.com/spacebot-ai/spacebot/internal/llm/openai"
	"github.com/spacebot-ai/spacebot/internal/pipeline"
	"github.com/spacebot-ai/spacebot/internal/prompt"
	"github.com/spacebot-ai/spacebot/internal/rag/chunker"
	"github.com/spacebot-ai/spacebot/internal/rag/index"
	"github.com/spacebot-ai/spacebot/internal/rag/store"
	"github.com/spacebot-ai/spacebot/internal/tui"
)

const defaultConfigPath = "spacebot.yaml"

// buildChatCmd creates the "chat" command: build the index, then run
// the interactive terminal session.
func buildChatCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			p, err := assemblePipeline(cfg)
			if err != nil {
				return err
			}
			defer p.Close()

			if err := p.Build(cmd.Context(), cfg.Corpus.Path); err != nil {
				return fmt.Errorf("index build failed: %w", err)
			}

			summary := fmt.Sprintf("Corpus: %s", cfg.Corpus.Path)
			program := tea.NewProgram(tui.New(p, summary), tea.WithAltScreen())
			_, err = program.Run()
			return err
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "Path to YAML configuration file")
	return cmd
}

// buildIndexCmd creates the "index" command: build the vector index
// and report what was ingested, without starting a chat.
func buildIndexCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Build the vector index and print corpus statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			p, err := assemblePipeline(cfg)
			if err != nil {
				return err
			}
			defer p.Close()

			if err := p.Build(cmd.Context(), cfg.Corpus.Path); err != nil {
				return fmt.Errorf("index build failed: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Index built from %s\n", cfg.Corpus.Path)
			fmt.Fprintf(out, "Store: %s\n", cfg.Store.Type)
			return nil
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "Path to YAML configuration file")
	return cmd
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	setupLogging(cfg.Logging.Level, cfg.Logging.Format)
	return cfg, nil
}

// assemblePipeline wires the configured backends into a traced pipeline.
func assemblePipeline(cfg *config.Config) (*pipeline.Traced, error) {
	embedder, err := buildEmbedder(cfg.Embedding)
	if err != nil {
		return nil, err
	}

	generator, err := buildGenerator(cfg.LLM)
	if err != nil {
		return nil, err
	}

	vectorStore, err := buildStore(cfg.Store)
	if err != nil {
		return nil, err
	}

	splitter, err := chunker.NewCharacterSplitter(chunker.Config{
		ChunkSize:    cfg.Chunking.ChunkSize,
		ChunkOverlap: cfg.Chunking.ChunkOverlap,
		Separator:    cfg.Chunking.Separator,
	})
	if err != nil {
		return nil, err
	}

	mgr := index.NewManager(vectorStore, embedder, index.Config{
		Lambda: cfg.Retrieval.Lambda,
	})

	p, err := pipeline.New(pipeline.Options{
		Splitter:        splitter,
		Index:           mgr,
		Assembler:       prompt.New(""),
		Generator:       generator,
		K:               cfg.Retrieval.K,
		FetchK:          cfg.Retrieval.FetchK,
		CacheSize:       cfg.Cache.MaxSize,
		GenerateTimeout: cfg.LLM.Timeout,
	})
	if err != nil {
		return nil, err
	}

	return pipeline.NewTraced(p), nil
}

func buildEmbedder(cfg config.ProviderConfig) (embeddings.Provider, error) {
	switch cfg.Provider {
	case "openai":
		return embedopenai.New(embedopenai.Config{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})
	case "ollama":
		return embedollama.New(embedollama.Config{
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			Timeout: cfg.Timeout,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Provider)
	}
}

func buildGenerator(cfg config.ProviderConfig) (llm.Generator, error) {
	switch cfg.Provider {
	case "openai":
		return llmopenai.New(llmopenai.Config{
			APIKey:      cfg.APIKey,
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
		})
	case "ollama":
		return llmollama.New(llmollama.Config{
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			Timeout:     cfg.Timeout,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.Provider)
	}
}

func buildStore(cfg config.StoreConfig) (store.VectorStore, error) {
	switch cfg.Type {
	case "memory":
		return store.NewMemoryStore(), nil
	case "sqlite":
		return store.NewSQLiteStore(store.SQLiteConfig{
			Path:       cfg.Path,
			Collection: cfg.Collection,
		})
	default:
		return nil, fmt.Errorf("unsupported store type: %s", cfg.Type)
	}
}
