// Package pipeline orchestrates ingestion and question answering:
// corpus loading, chunking, indexing, retrieval, prompt assembly,
// generation, caching, and conversation history.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/spacebot-ai/spacebot/internal/cache"
	"github.com/spacebot-ai/spacebot/internal/history"
	"github.com/spacebot-ai/spacebot/internal/llm"
	"github.com/spacebot-ai/spacebot/internal/prompt"
	"github.com/spacebot-ai/spacebot/internal/rag/chunker"
	"github.com/spacebot-ai/spacebot/internal/rag/index"
	"github.com/spacebot-ai/spacebot/pkg/models"
)

// State tracks the pipeline lifecycle. Build moves Uninitialized to
// Ready on success or Failed on any ingestion error; Failed is terminal.
type State int

const (
	StateUninitialized State = iota
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "uninitialized"
	}
}

// ErrNotReady indicates Ask was called before a successful Build.
var ErrNotReady = errors.New("pipeline is not ready")

const (
	// EmptyQueryReply is returned for blank input without touching
	// cache, retrieval, or history.
	EmptyQueryReply = "Please enter a question."

	// ClearedReply confirms a Clear call.
	ClearedReply = "Chat history cleared."

	// errorPrefix marks a recovered query-time failure rendered as
	// the assistant's reply.
	errorPrefix = "Error: "
)

// Options wires the pipeline's collaborators and retrieval parameters.
type Options struct {
	Splitter  *chunker.CharacterSplitter
	Index     *index.Manager
	Assembler *prompt.Assembler
	Generator llm.Generator

	// K and FetchK drive retrieval. Defaults: 3 and 10.
	K      int
	FetchK int

	// CacheSize bounds the response cache. Default: cache.DefaultMaxSize.
	CacheSize int

	// GenerateTimeout bounds a single retrieve+generate round trip.
	// Default: 2 minutes.
	GenerateTimeout time.Duration

	Logger *slog.Logger
}

// Pipeline is the sole entry point the UI talks to. All public methods
// serialize on one mutex; collaborators are never mutated concurrently.
type Pipeline struct {
	mu sync.Mutex

	state     State
	splitter  *chunker.CharacterSplitter
	index     *index.Manager
	assembler *prompt.Assembler
	generator llm.Generator
	cache     *cache.ResponseCache
	history   *history.Log

	k          int
	fetchK     int
	genTimeout time.Duration
	logger     *slog.Logger
}

// New creates a pipeline in the Uninitialized state.
func New(opts Options) (*Pipeline, error) {
	if opts.Splitter == nil {
		return nil, errors.New("pipeline requires a splitter")
	}
	if opts.Index == nil {
		return nil, errors.New("pipeline requires an index")
	}
	if opts.Generator == nil {
		return nil, errors.New("pipeline requires a generator")
	}
	if opts.Assembler == nil {
		opts.Assembler = prompt.New("")
	}
	if opts.K <= 0 {
		opts.K = 3
	}
	if opts.FetchK <= 0 {
		opts.FetchK = 10
	}
	if opts.FetchK < opts.K {
		return nil, fmt.Errorf("%w: k=%d, fetch_k=%d", index.ErrFetchKTooSmall, opts.K, opts.FetchK)
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = cache.DefaultMaxSize
	}
	if opts.GenerateTimeout <= 0 {
		opts.GenerateTimeout = 2 * time.Minute
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Pipeline{
		state:      StateUninitialized,
		splitter:   opts.Splitter,
		index:      opts.Index,
		assembler:  opts.Assembler,
		generator:  opts.Generator,
		cache:      cache.New(opts.CacheSize),
		history:    history.New(),
		k:          opts.K,
		fetchK:     opts.FetchK,
		genTimeout: opts.GenerateTimeout,
		logger:     opts.Logger,
	}, nil
}

// State reports the current lifecycle state.
func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Build loads the corpus at sourcePath, chunks it, and builds the
// vector index. Any failure is fatal: the pipeline lands in Failed and
// the error propagates to the caller.
func (p *Pipeline) Build(ctx context.Context, sourcePath string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	docs, err := LoadDocuments(sourcePath)
	if err != nil {
		p.state = StateFailed
		return err
	}

	chunks, err := p.splitter.Split(docs)
	if err != nil {
		p.state = StateFailed
		return fmt.Errorf("split corpus: %w", err)
	}

	if err := p.index.Build(ctx, chunks); err != nil {
		p.state = StateFailed
		return fmt.Errorf("build index: %w", err)
	}

	p.state = StateReady
	p.logger.Info("pipeline built",
		"documents", len(docs),
		"chunks", len(chunks),
		"generator", p.generator.Name())
	return nil
}

// Ask answers a user query. Empty input is rejected with a fixed reply
// and no side effects. Cache hits skip retrieval and generation but
// still record the exchange. Query-time failures are recovered: the
// error text becomes the assistant's reply instead of an error return.
func (p *Pipeline) Ask(ctx context.Context, query string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != StateReady {
		return "", fmt.Errorf("%w: state is %s", ErrNotReady, p.state)
	}

	if strings.TrimSpace(query) == "" {
		return EmptyQueryReply, nil
	}

	if cached, ok := p.cache.Get(query); ok {
		p.logger.Debug("cache hit", "query", query)
		p.recordExchange(query, cached)
		return cached, nil
	}

	response, err := p.answer(ctx, query)
	if err != nil {
		// Recovered: failures never crash a chat turn and are
		// never cached.
		p.logger.Warn("query failed", "query", query, "error", err)
		response = errorPrefix + err.Error()
		p.recordExchange(query, response)
		return response, nil
	}

	p.cache.Put(query, response)
	p.recordExchange(query, response)
	return response, nil
}

// answer runs the retrieve-assemble-generate path under a bounded
// timeout.
func (p *Pipeline) answer(ctx context.Context, query string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.genTimeout)
	defer cancel()

	chunks, err := p.index.Retrieve(ctx, query, p.k, p.fetchK)
	if err != nil {
		return "", fmt.Errorf("retrieve: %w", err)
	}

	assembled := p.assembler.Assemble(query, chunks)

	response, err := p.generator.Generate(ctx, assembled)
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	return response, nil
}

// recordExchange appends the strictly-paired user/assistant turns.
func (p *Pipeline) recordExchange(query, response string) {
	p.history.Append(models.RoleUser, query)
	p.history.Append(models.RoleAssistant, response)
}

// History returns the human-readable transcript.
func (p *Pipeline) History() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.history.Transcript()
}

// Clear wipes conversation history and the response cache, returning
// a status message. A cleared pipeline behaves like a fresh session.
func (p *Pipeline) Clear() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.history.Clear()
	p.cache.Clear()
	return ClearedReply
}

// Close releases the index's underlying store.
func (p *Pipeline) Close() error {
	return p.index.Close()
}
