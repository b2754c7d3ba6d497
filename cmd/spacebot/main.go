// Package main provides the CLI entry point for SpaceBot, a
// retrieval-augmented chatbot for space exploration corpora.
//
// # Basic Usage
//
// Start an interactive chat session:
//
//	spacebot chat --config spacebot.yaml
//
// Build the index and print corpus statistics without chatting:
//
//	spacebot index --config spacebot.yaml
//
// # Environment Variables
//
// Configuration values support ${VAR} expansion, so credentials are
// normally supplied via the environment (or a .env file):
//
//   - OPENAI_API_KEY: OpenAI API key for embeddings and generation
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Build information - populated by ldflags during build.
//
// Example build command:
//
//	go build -ldflags "-X main.version=v1.0.0 -X main.commit=$(git rev-parse HEAD) -X main.date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Credentials commonly live in a .env during development.
	_ = godotenv.Load()

	if err := buildRootCmd().Execute(); err != nil {
		slog.Error("command execution failed", "error", err)
		os.Exit(1)
	}
}

// buildRootCmd creates the root command with all subcommands attached.
// Separated from main() to facilitate testing.
func buildRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "spacebot",
		Short: "SpaceBot - retrieval-augmented space exploration chatbot",
		Long: `SpaceBot answers questions about space exploration by retrieving
relevant passages from a local document corpus and grounding a language
model's answers in them.

Supported model backends: OpenAI, Ollama
Supported vector stores: in-memory, SQLite`,
		Version:      fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		buildChatCmd(),
		buildIndexCmd(),
	)

	return rootCmd
}

// setupLogging configures the default slog logger from config values.
func setupLogging(level, format string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}
	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}
