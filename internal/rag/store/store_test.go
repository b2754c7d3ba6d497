package store

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"github.com/spacebot-ai/spacebot/pkg/models"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 0, 0}, []float32{1, 0, 0}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"scaled", []float32{1, 2, 3}, []float32{2, 4, 6}, 1},
		{"length mismatch", []float32{1, 0}, []float32{1, 0, 0}, 0},
		{"zero vector", []float32{0, 0}, []float32{1, 1}, 0},
		{"empty", nil, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineSimilarity(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("CosineSimilarity() = %v, want %v", got, tt.want)
			}
		})
	}
}

// stores under test: the in-memory default and the on-disk SQLite collection.
func testStores(t *testing.T) map[string]VectorStore {
	t.Helper()
	sqlStore, err := NewSQLiteStore(SQLiteConfig{
		Path:       filepath.Join(t.TempDir(), "vectors.db"),
		Collection: "test",
	})
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	t.Cleanup(func() { sqlStore.Close() })
	return map[string]VectorStore{
		"memory": NewMemoryStore(),
		"sqlite": sqlStore,
	}
}

func seedChunks() ([]models.DocumentChunk, [][]float32) {
	chunks := []models.DocumentChunk{
		{ID: "c1", DocumentID: "d1", Index: 0, Text: "moon landing"},
		{ID: "c2", DocumentID: "d1", Index: 1, Text: "mars rover"},
		{ID: "c3", DocumentID: "d2", Index: 0, Text: "saturn rings"},
	}
	vectors := [][]float32{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
	return chunks, vectors
}

func TestVectorStore_SearchOrdering(t *testing.T) {
	ctx := context.Background()
	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			chunks, vectors := seedChunks()
			if err := s.Replace(ctx, chunks, vectors); err != nil {
				t.Fatalf("Replace() error = %v", err)
			}

			// Query closest to c2, then c1, then c3.
			results, err := s.Search(ctx, []float32{0.3, 1, 0.1}, 3)
			if err != nil {
				t.Fatalf("Search() error = %v", err)
			}
			if len(results) != 3 {
				t.Fatalf("len(results) = %d, want 3", len(results))
			}
			wantOrder := []string{"c2", "c1", "c3"}
			for i, want := range wantOrder {
				if results[i].Chunk.ID != want {
					t.Errorf("results[%d] = %s, want %s", i, results[i].Chunk.ID, want)
				}
			}
			for i := 1; i < len(results); i++ {
				if results[i].Score > results[i-1].Score {
					t.Errorf("scores not descending at %d", i)
				}
			}
		})
	}
}

func TestVectorStore_SearchLimit(t *testing.T) {
	ctx := context.Background()
	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			chunks, vectors := seedChunks()
			if err := s.Replace(ctx, chunks, vectors); err != nil {
				t.Fatalf("Replace() error = %v", err)
			}

			results, err := s.Search(ctx, []float32{1, 0, 0}, 2)
			if err != nil {
				t.Fatalf("Search() error = %v", err)
			}
			if len(results) != 2 {
				t.Errorf("len(results) = %d, want 2", len(results))
			}
			if results[0].Chunk.ID != "c1" {
				t.Errorf("top result = %s, want c1", results[0].Chunk.ID)
			}
		})
	}
}

func TestVectorStore_ReplaceIsFullRebuild(t *testing.T) {
	ctx := context.Background()
	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			chunks, vectors := seedChunks()
			if err := s.Replace(ctx, chunks, vectors); err != nil {
				t.Fatalf("Replace() error = %v", err)
			}

			// Rebuild with a single different chunk: old state must be gone.
			err := s.Replace(ctx,
				[]models.DocumentChunk{{ID: "n1", DocumentID: "d9", Index: 0, Text: "new"}},
				[][]float32{{0, 1, 0}},
			)
			if err != nil {
				t.Fatalf("second Replace() error = %v", err)
			}

			count, err := s.Count(ctx)
			if err != nil {
				t.Fatalf("Count() error = %v", err)
			}
			if count != 1 {
				t.Errorf("Count() = %d, want 1", count)
			}

			results, err := s.Search(ctx, []float32{0, 1, 0}, 10)
			if err != nil {
				t.Fatalf("Search() error = %v", err)
			}
			if len(results) != 1 || results[0].Chunk.ID != "n1" {
				t.Errorf("results = %+v, want only n1", results)
			}
		})
	}
}

func TestVectorStore_MismatchedVectors(t *testing.T) {
	ctx := context.Background()
	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			chunks, _ := seedChunks()
			if err := s.Replace(ctx, chunks, [][]float32{{1, 0, 0}}); err == nil {
				t.Error("Replace() with mismatched vectors should fail")
			}
		})
	}
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "vectors.db")

	first, err := NewSQLiteStore(SQLiteConfig{Path: path, Collection: "missions"})
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	chunks, vectors := seedChunks()
	if err := first.Replace(ctx, chunks, vectors); err != nil {
		t.Fatalf("Replace() error = %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	second, err := NewSQLiteStore(SQLiteConfig{Path: path, Collection: "missions"})
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer second.Close()

	count, err := second.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != len(chunks) {
		t.Errorf("Count() after reopen = %d, want %d", count, len(chunks))
	}

	results, err := second.Search(ctx, []float32{0, 0, 1}, 1)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 1 || results[0].Chunk.ID != "c3" {
		t.Errorf("top result after reopen = %+v, want c3", results)
	}
}

func TestEncodeDecodeEmbedding(t *testing.T) {
	vec := []float32{0.5, -1.25, 3.75, 0}
	got := decodeEmbedding(encodeEmbedding(vec))
	if len(got) != len(vec) {
		t.Fatalf("len = %d, want %d", len(got), len(vec))
	}
	for i := range vec {
		if got[i] != vec[i] {
			t.Errorf("got[%d] = %v, want %v", i, got[i], vec[i])
		}
	}

	if decodeEmbedding(nil) != nil {
		t.Error("decodeEmbedding(nil) should be nil")
	}
	if decodeEmbedding([]byte{1, 2, 3}) != nil {
		t.Error("decodeEmbedding with partial float should be nil")
	}
}
