// Package index provides the vector index for the RAG pipeline.
// The manager coordinates embedding, storage, and diversified retrieval.
package index

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spacebot-ai/spacebot/internal/embeddings"
	"github.com/spacebot-ai/spacebot/internal/rag/store"
	"github.com/spacebot-ai/spacebot/pkg/models"
)

// ErrFetchKTooSmall indicates retrieval was asked to select more results than
// it fetches candidates for.
var ErrFetchKTooSmall = errors.New("fetch_k must be at least k")

// ErrInvalidK indicates a non-positive k.
var ErrInvalidK = errors.New("k must be positive")

// Config contains configuration for the index manager.
type Config struct {
	// EmbeddingBatchSize is the maximum texts per embedding batch.
	// Default: 100
	EmbeddingBatchSize int `yaml:"embedding_batch_size"`

	// Lambda balances relevance against diversity in MMR selection.
	// 1 is pure relevance, 0 is pure diversity. Default: 0.5
	Lambda float64 `yaml:"lambda"`
}

// DefaultConfig returns the default manager configuration.
func DefaultConfig() Config {
	return Config{
		EmbeddingBatchSize: 100,
		Lambda:             0.5,
	}
}

// Manager embeds chunks into a VectorStore and answers retrieval queries
// with maximal-marginal-relevance selection.
type Manager struct {
	store    store.VectorStore
	embedder embeddings.Provider
	config   Config

	// vectors mirrors the store's embeddings keyed by chunk ID so MMR can
	// compare candidates against each other without a second embed pass.
	vectors map[string][]float32
}

// NewManager creates a new index manager.
func NewManager(vs store.VectorStore, embedder embeddings.Provider, cfg Config) *Manager {
	if cfg.EmbeddingBatchSize <= 0 {
		cfg.EmbeddingBatchSize = DefaultConfig().EmbeddingBatchSize
	}
	if cfg.Lambda <= 0 || cfg.Lambda > 1 {
		cfg.Lambda = DefaultConfig().Lambda
	}
	return &Manager{
		store:    vs,
		embedder: embedder,
		config:   cfg,
		vectors:  map[string][]float32{},
	}
}

// Build embeds every chunk and replaces the store's contents. Rebuilding is
// idempotent: prior state is dropped wholesale.
func (m *Manager) Build(ctx context.Context, chunks []models.DocumentChunk) error {
	vectors, err := m.embedChunks(ctx, chunks)
	if err != nil {
		return err
	}

	if err := m.store.Replace(ctx, chunks, vectors); err != nil {
		return fmt.Errorf("store chunks: %w", err)
	}

	m.vectors = make(map[string][]float32, len(chunks))
	for i, chunk := range chunks {
		m.vectors[chunk.ID] = vectors[i]
	}

	slog.Debug("index built", "chunks", len(chunks), "embedder", m.embedder.Name())
	return nil
}

// Retrieve embeds the query, fetches the fetchK nearest chunks by cosine
// similarity, and MMR-selects exactly k of them (fewer only when the index
// holds fewer candidates).
func (m *Manager) Retrieve(ctx context.Context, query string, k, fetchK int) ([]models.ScoredChunk, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidK, k)
	}
	if fetchK < k {
		return nil, fmt.Errorf("%w: k=%d, fetch_k=%d", ErrFetchKTooSmall, k, fetchK)
	}

	queryVec, err := m.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	candidates, err := m.store.Search(ctx, queryVec, fetchK)
	if err != nil {
		return nil, fmt.Errorf("search store: %w", err)
	}

	return m.selectMMR(candidates, k), nil
}

// selectMMR picks k results by maximal marginal relevance: each round takes
// the candidate maximizing
//
//	lambda*sim(query, c) - (1-lambda)*max sim(c, already selected)
//
// trading some relevance for reduced redundancy among the selected chunks.
// Scoring is deterministic; ties keep candidate order.
func (m *Manager) selectMMR(candidates []models.ScoredChunk, k int) []models.ScoredChunk {
	if len(candidates) <= k {
		return candidates
	}

	lambda := m.config.Lambda
	selected := make([]models.ScoredChunk, 0, k)
	remaining := make([]models.ScoredChunk, len(candidates))
	copy(remaining, candidates)

	for len(selected) < k && len(remaining) > 0 {
		bestIdx := 0
		bestScore := mmrScore(lambda, remaining[0], selected, m.vectors)
		for i := 1; i < len(remaining); i++ {
			if score := mmrScore(lambda, remaining[i], selected, m.vectors); score > bestScore {
				bestScore = score
				bestIdx = i
			}
		}
		selected = append(selected, remaining[bestIdx])
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}
	return selected
}

// mmrScore computes the marginal relevance of a candidate against the
// already-selected set.
func mmrScore(lambda float64, candidate models.ScoredChunk, selected []models.ScoredChunk, vectors map[string][]float32) float64 {
	maxRedundancy := 0.0
	candVec := vectors[candidate.Chunk.ID]
	for _, s := range selected {
		if sim := store.CosineSimilarity(candVec, vectors[s.Chunk.ID]); sim > maxRedundancy {
			maxRedundancy = sim
		}
	}
	return lambda*candidate.Score - (1-lambda)*maxRedundancy
}

// embedChunks generates embeddings for chunks in batches.
func (m *Manager) embedChunks(ctx context.Context, chunks []models.DocumentChunk) ([][]float32, error) {
	vectors := make([][]float32, 0, len(chunks))

	batchSize := m.embedder.MaxBatchSize()
	if m.config.EmbeddingBatchSize > 0 && m.config.EmbeddingBatchSize < batchSize {
		batchSize = m.config.EmbeddingBatchSize
	}

	for i := 0; i < len(chunks); i += batchSize {
		end := i + batchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[i:end]

		texts := make([]string, len(batch))
		for j, chunk := range batch {
			texts[j] = chunk.Text
		}

		batchVectors, err := m.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("embed batch %d: %w", i/batchSize, err)
		}
		if len(batchVectors) != len(batch) {
			return nil, embeddings.NewProviderError(m.embedder.Name(),
				fmt.Errorf("got %d vectors for %d chunks", len(batchVectors), len(batch)))
		}
		vectors = append(vectors, batchVectors...)
	}

	return vectors, nil
}

// Count reports the number of indexed chunks.
func (m *Manager) Count(ctx context.Context) (int, error) {
	return m.store.Count(ctx)
}

// Close releases the underlying store.
func (m *Manager) Close() error {
	return m.store.Close()
}
