package chunker

import (
	"strings"
	"testing"

	"github.com/spacebot-ai/spacebot/pkg/models"
)

func mustSplitter(t *testing.T, cfg Config) *CharacterSplitter {
	t.Helper()
	s, err := NewCharacterSplitter(cfg)
	if err != nil {
		t.Fatalf("NewCharacterSplitter() error = %v", err)
	}
	return s
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.ChunkSize != 120 {
		t.Errorf("ChunkSize = %d, want 120", cfg.ChunkSize)
	}
	if cfg.ChunkOverlap != 15 {
		t.Errorf("ChunkOverlap = %d, want 15", cfg.ChunkOverlap)
	}
	if cfg.Separator != "\n" {
		t.Errorf("Separator = %q, want \"\\n\"", cfg.Separator)
	}
}

func TestNewCharacterSplitter_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{"overlap equals size", Config{ChunkSize: 100, ChunkOverlap: 100}, ErrOverlapTooLarge},
		{"overlap exceeds size", Config{ChunkSize: 100, ChunkOverlap: 150}, ErrOverlapTooLarge},
		{"zero size", Config{ChunkSize: 0, ChunkOverlap: 0}, ErrChunkSizeInvalid},
		{"negative size", Config{ChunkSize: -5}, ErrChunkSizeInvalid},
		{"valid", Config{ChunkSize: 100, ChunkOverlap: 20}, nil},
		{"zero overlap", Config{ChunkSize: 100, ChunkOverlap: 0}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCharacterSplitter(tt.cfg)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr.Error()) {
				t.Errorf("error = %v, want wrapping %v", err, tt.wantErr)
			}
		})
	}
}

func TestSplit_ShortDocumentSingleChunk(t *testing.T) {
	s := mustSplitter(t, Config{ChunkSize: 120, ChunkOverlap: 15, Separator: "\n"})

	doc := models.Document{ID: "d1", Text: "The Apollo 11 mission landed on the Moon in 1969."}
	chunks, err := s.Split([]models.Document{doc})
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}

	if len(chunks) != 1 {
		t.Fatalf("len(chunks) = %d, want 1", len(chunks))
	}
	if chunks[0].Text != doc.Text {
		t.Errorf("chunk text = %q, want full document text", chunks[0].Text)
	}
	if chunks[0].DocumentID != "d1" {
		t.Errorf("DocumentID = %q, want d1", chunks[0].DocumentID)
	}
	if chunks[0].Index != 0 {
		t.Errorf("Index = %d, want 0", chunks[0].Index)
	}
}

// Adjacent chunks from the same document must share exactly ChunkOverlap
// characters: the suffix of one chunk is the prefix of the next.
func TestSplit_ExactOverlap(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		overlap int
		text    string
	}{
		{"no separator hit", 40, 10, strings.Repeat("abcdefghij", 20)},
		{"separator boundaries", 40, 10, strings.Repeat("one small step. ", 10) + "\n" + strings.Repeat("one giant leap. ", 10)},
		{"zero overlap", 32, 0, strings.Repeat("x", 200)},
		{"newline heavy", 30, 5, strings.Repeat("line one\nline two\n", 12)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := mustSplitter(t, Config{ChunkSize: tt.size, ChunkOverlap: tt.overlap, Separator: "\n"})
			chunks, err := s.Split([]models.Document{{ID: "d", Text: tt.text}})
			if err != nil {
				t.Fatalf("Split() error = %v", err)
			}
			if len(chunks) < 2 {
				t.Fatalf("len(chunks) = %d, want at least 2", len(chunks))
			}
			for i := 1; i < len(chunks); i++ {
				prev, cur := chunks[i-1].Text, chunks[i].Text
				if len(prev) < tt.overlap || len(cur) < tt.overlap {
					t.Fatalf("chunk %d too short for overlap check", i)
				}
				suffix := prev[len(prev)-tt.overlap:]
				prefix := cur[:tt.overlap]
				if suffix != prefix {
					t.Errorf("chunk %d overlap mismatch: suffix %q, prefix %q", i, suffix, prefix)
				}
			}
		})
	}
}

func TestSplit_ChunkSizeBound(t *testing.T) {
	const size, overlap = 50, 10
	s := mustSplitter(t, Config{ChunkSize: size, ChunkOverlap: overlap, Separator: "\n"})

	text := strings.Repeat("the quick brown fox jumps over the lazy dog\n", 20)
	chunks, err := s.Split([]models.Document{{ID: "d", Text: text}})
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}

	// Separator tolerance: a chunk may exceed ChunkSize by at most the
	// separator length.
	limit := size + len("\n")
	for i, c := range chunks {
		if c.Text == "" {
			t.Errorf("chunk %d is empty", i)
		}
		if len(c.Text) > limit {
			t.Errorf("chunk %d length = %d, want <= %d", i, len(c.Text), limit)
		}
	}
}

func TestSplit_OrderAndIndexing(t *testing.T) {
	s := mustSplitter(t, Config{ChunkSize: 30, ChunkOverlap: 5, Separator: "\n"})

	docs := []models.Document{
		{ID: "a", Text: strings.Repeat("first document text here\n", 4)},
		{ID: "b", Text: strings.Repeat("second document text here\n", 4)},
	}
	chunks, err := s.Split(docs)
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}

	seenB := false
	lastIndex := -1
	for _, c := range chunks {
		switch c.DocumentID {
		case "a":
			if seenB {
				t.Fatal("chunk order does not match source document order")
			}
		case "b":
			if !seenB {
				seenB = true
				lastIndex = -1
			}
		default:
			t.Fatalf("unexpected DocumentID %q", c.DocumentID)
		}
		if c.Index != lastIndex+1 {
			t.Errorf("doc %s chunk index = %d, want %d", c.DocumentID, c.Index, lastIndex+1)
		}
		lastIndex = c.Index
	}
	if !seenB {
		t.Fatal("no chunks for second document")
	}
}

func TestSplit_EmptyAndBlankDocuments(t *testing.T) {
	s := mustSplitter(t, Config{ChunkSize: 30, ChunkOverlap: 5, Separator: "\n"})

	chunks, err := s.Split([]models.Document{
		{ID: "empty", Text: ""},
		{ID: "blank", Text: "   \n\n  "},
	})
	if err != nil {
		t.Fatalf("Split() error = %v", err)
	}
	if len(chunks) != 0 {
		t.Errorf("len(chunks) = %d, want 0", len(chunks))
	}
}
