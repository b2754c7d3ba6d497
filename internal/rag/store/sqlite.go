package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"

	"github.com/spacebot-ai/spacebot/pkg/models"
	_ "modernc.org/sqlite" // Pure-Go SQLite driver
)

// SQLiteStore persists chunk embeddings to a named collection in a SQLite
// database file. It is the optional on-disk store: rebuilding replaces the
// whole collection, so losing the file only costs a reindex.
type SQLiteStore struct {
	db         *sql.DB
	collection string
}

var _ VectorStore = (*SQLiteStore)(nil)

// SQLiteConfig contains configuration for the SQLite store.
type SQLiteConfig struct {
	Path       string // Path to the database file. Default: ":memory:"
	Collection string // Collection name. Default: "corpus"
}

// NewSQLiteStore opens (or creates) the database and its schema.
func NewSQLiteStore(cfg SQLiteConfig) (*SQLiteStore, error) {
	if cfg.Path == "" {
		cfg.Path = ":memory:"
	}
	if cfg.Collection == "" {
		cfg.Collection = "corpus"
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &SQLiteStore{db: db, collection: cfg.Collection}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) init() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS chunks (
			id TEXT PRIMARY KEY,
			collection TEXT NOT NULL,
			document_id TEXT NOT NULL,
			chunk_index INTEGER NOT NULL,
			content TEXT NOT NULL,
			embedding BLOB NOT NULL,
			position INTEGER NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("create chunks table: %w", err)
	}
	_, err = s.db.Exec("CREATE INDEX IF NOT EXISTS idx_chunks_collection ON chunks(collection, position)")
	if err != nil {
		return fmt.Errorf("create collection index: %w", err)
	}
	return nil
}

// Replace rewrites the collection inside a single transaction.
func (s *SQLiteStore) Replace(ctx context.Context, chunks []models.DocumentChunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("chunk/vector count mismatch: %d vs %d", len(chunks), len(vectors))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			_ = err
		}
	}()

	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks WHERE collection = ?", s.collection); err != nil {
		return fmt.Errorf("clear collection: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, collection, document_id, chunk_index, content, embedding, position)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, chunk := range chunks {
		_, err := stmt.ExecContext(ctx,
			chunk.ID,
			s.collection,
			chunk.DocumentID,
			chunk.Index,
			chunk.Text,
			encodeEmbedding(vectors[i]),
			i,
		)
		if err != nil {
			return fmt.Errorf("insert chunk %s: %w", chunk.ID, err)
		}
	}

	return tx.Commit()
}

// Search scans the collection, scoring each chunk in Go. Corpora are small
// enough (single-user, single document set) that a full scan is fine.
func (s *SQLiteStore) Search(ctx context.Context, query []float32, limit int) ([]models.ScoredChunk, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, document_id, chunk_index, content, embedding
		FROM chunks WHERE collection = ? ORDER BY position
	`, s.collection)
	if err != nil {
		return nil, fmt.Errorf("query chunks: %w", err)
	}
	defer rows.Close()

	var results []models.ScoredChunk
	for rows.Next() {
		var chunk models.DocumentChunk
		var blob []byte
		if err := rows.Scan(&chunk.ID, &chunk.DocumentID, &chunk.Index, &chunk.Text, &blob); err != nil {
			return nil, fmt.Errorf("scan chunk: %w", err)
		}
		results = append(results, models.ScoredChunk{
			Chunk: chunk,
			Score: CosineSimilarity(query, decodeEmbedding(blob)),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sortByScoreDesc(results)
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// Count returns the number of chunks in the collection.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM chunks WHERE collection = ?", s.collection).Scan(&count)
	return count, err
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// encodeEmbedding converts a vector to bytes, 4 bytes per float32 using
// IEEE 754 bits, little-endian.
func encodeEmbedding(embedding []float32) []byte {
	if len(embedding) == 0 {
		return nil
	}
	data := make([]byte, len(embedding)*4)
	for i, f := range embedding {
		bits := math.Float32bits(f)
		data[i*4] = byte(bits)
		data[i*4+1] = byte(bits >> 8)
		data[i*4+2] = byte(bits >> 16)
		data[i*4+3] = byte(bits >> 24)
	}
	return data
}

// decodeEmbedding converts bytes back to []float32.
func decodeEmbedding(data []byte) []float32 {
	if len(data) == 0 || len(data)%4 != 0 {
		return nil
	}
	embedding := make([]float32, len(data)/4)
	for i := range embedding {
		bits := uint32(data[i*4]) |
			uint32(data[i*4+1])<<8 |
			uint32(data[i*4+2])<<16 |
			uint32(data[i*4+3])<<24
		embedding[i] = math.Float32frombits(bits)
	}
	return embedding
}
