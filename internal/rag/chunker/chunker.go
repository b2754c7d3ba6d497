// Package chunker splits documents into fixed-size overlapping text segments
// for embedding and retrieval.
package chunker

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spacebot-ai/spacebot/pkg/models"
)

// ErrOverlapTooLarge indicates the configured overlap is not smaller than the
// chunk size, which would make the splitter loop without advancing.
var ErrOverlapTooLarge = errors.New("chunk overlap must be smaller than chunk size")

// ErrChunkSizeInvalid indicates a non-positive chunk size.
var ErrChunkSizeInvalid = errors.New("chunk size must be positive")

// Config contains configuration for the character splitter.
type Config struct {
	// ChunkSize is the target size of each chunk in characters.
	// Default: 120
	ChunkSize int `yaml:"chunk_size"`

	// ChunkOverlap is the number of characters consecutive chunks share.
	// Default: 15
	ChunkOverlap int `yaml:"chunk_overlap"`

	// Separator is the preferred boundary to cut on. A chunk may run past
	// ChunkSize by up to len(Separator) to finish on a boundary.
	// Default: "\n"
	Separator string `yaml:"separator"`
}

// DefaultConfig returns the default splitter configuration.
func DefaultConfig() Config {
	return Config{
		ChunkSize:    120,
		ChunkOverlap: 15,
		Separator:    "\n",
	}
}

// CharacterSplitter splits document text into chunks of at most ChunkSize
// characters (plus separator tolerance), cutting on the separator where one
// falls inside the window. Consecutive chunks from the same document overlap
// by exactly ChunkOverlap characters.
type CharacterSplitter struct {
	config Config
}

// NewCharacterSplitter creates a splitter, validating the configuration.
func NewCharacterSplitter(cfg Config) (*CharacterSplitter, error) {
	if cfg.ChunkSize <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrChunkSizeInvalid, cfg.ChunkSize)
	}
	if cfg.ChunkOverlap < 0 {
		cfg.ChunkOverlap = 0
	}
	if cfg.ChunkOverlap >= cfg.ChunkSize {
		return nil, fmt.Errorf("%w: overlap %d, size %d", ErrOverlapTooLarge, cfg.ChunkOverlap, cfg.ChunkSize)
	}
	return &CharacterSplitter{config: cfg}, nil
}

// Name returns the splitter name for logging.
func (s *CharacterSplitter) Name() string {
	return "character"
}

// Split chunks each document in order. Output chunks are non-empty and keep
// the source document order. No I/O is performed.
func (s *CharacterSplitter) Split(docs []models.Document) ([]models.DocumentChunk, error) {
	var chunks []models.DocumentChunk
	for _, doc := range docs {
		parts := s.splitText(doc.Text)
		for i, part := range parts {
			chunks = append(chunks, models.DocumentChunk{
				ID:         uuid.New().String(),
				DocumentID: doc.ID,
				Index:      i,
				Text:       part,
			})
		}
	}
	return chunks, nil
}

// splitText slices text into overlapping windows. Each window ends on the
// last separator inside it when that still advances the cursor; otherwise it
// is cut at exactly ChunkSize characters.
func (s *CharacterSplitter) splitText(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	size := s.config.ChunkSize
	overlap := s.config.ChunkOverlap
	sep := s.config.Separator

	if len(text) <= size {
		return []string{text}
	}

	var parts []string
	pos := 0
	for {
		end := pos + size
		if end >= len(text) {
			tail := text[pos:]
			if strings.TrimSpace(tail) != "" {
				parts = append(parts, tail)
			}
			break
		}

		// Prefer finishing the chunk on a separator boundary inside the
		// window, as long as the cut still moves past the overlap region.
		if sep != "" {
			if idx := strings.LastIndex(text[pos:end], sep); idx >= 0 {
				cut := pos + idx + len(sep)
				if cut-pos > overlap {
					end = cut
				}
			}
		}

		parts = append(parts, text[pos:end])
		pos = end - overlap
	}
	return parts
}
