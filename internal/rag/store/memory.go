package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/spacebot-ai/spacebot/pkg/models"
)

// MemoryStore is the default in-process VectorStore. State lives for the
// process lifetime only.
type MemoryStore struct {
	mu      sync.RWMutex
	chunks  []models.DocumentChunk
	vectors [][]float32
}

var _ VectorStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory vector store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Replace drops all prior state and stores the given chunks and vectors.
func (s *MemoryStore) Replace(ctx context.Context, chunks []models.DocumentChunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("chunk/vector count mismatch: %d vs %d", len(chunks), len(vectors))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.chunks = make([]models.DocumentChunk, len(chunks))
	copy(s.chunks, chunks)
	s.vectors = make([][]float32, len(vectors))
	for i, v := range vectors {
		vec := make([]float32, len(v))
		copy(vec, v)
		s.vectors[i] = vec
	}
	return nil
}

// Search scores every stored chunk against the query embedding and returns
// the top results by cosine similarity.
func (s *MemoryStore) Search(ctx context.Context, query []float32, limit int) ([]models.ScoredChunk, error) {
	if limit <= 0 {
		limit = 10
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]models.ScoredChunk, 0, len(s.chunks))
	for i, chunk := range s.chunks {
		results = append(results, models.ScoredChunk{
			Chunk: chunk,
			Score: CosineSimilarity(query, s.vectors[i]),
		})
	}

	sortByScoreDesc(results)
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// Count returns the number of stored chunks.
func (s *MemoryStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks), nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}
