// Package store provides vector storage for chunk embeddings with cosine
// similarity search.
package store

import (
	"context"
	"math"
	"sort"

	"github.com/spacebot-ai/spacebot/pkg/models"
)

// VectorStore holds chunk embeddings and supports nearest-neighbor search.
// Rebuilding is always a full replace; incremental update is out of scope.
type VectorStore interface {
	// Replace drops all prior state and stores the given chunks with their
	// embeddings. vectors[i] belongs to chunks[i].
	Replace(ctx context.Context, chunks []models.DocumentChunk, vectors [][]float32) error

	// Search returns up to limit chunks ordered by descending cosine
	// similarity to the query embedding. Ties keep insertion order.
	Search(ctx context.Context, query []float32, limit int) ([]models.ScoredChunk, error)

	// Count returns the number of stored chunks.
	Count(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}

// CosineSimilarity calculates the cosine similarity between two vectors.
// Mismatched or zero-norm vectors score 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// sortByScoreDesc orders results by score, highest first. The sort is stable
// so equal scores keep insertion order and search stays deterministic.
func sortByScoreDesc(results []models.ScoredChunk) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
}
