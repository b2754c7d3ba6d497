// Package models defines the core data types for Spacebot.
package models

// Document represents one page of source material loaded during ingestion.
// Documents are immutable once created; they exist only until chunking.
type Document struct {
	// ID is the unique identifier for the document.
	ID string `json:"id"`

	// SourcePath is the file the document was loaded from.
	SourcePath string `json:"source_path"`

	// PageIndex is the document's position within the corpus (0-based).
	PageIndex int `json:"page_index"`

	// Text is the raw text content of the document.
	Text string `json:"text"`
}

// DocumentChunk is a bounded contiguous segment of a document, the unit of
// indexing and retrieval.
type DocumentChunk struct {
	// ID is the unique identifier for this chunk.
	ID string `json:"id"`

	// DocumentID links this chunk back to its parent document.
	DocumentID string `json:"document_id"`

	// Index is the position of this chunk within the document (0-based).
	Index int `json:"index"`

	// Text is the chunk content.
	Text string `json:"text"`
}

// ScoredChunk is a retrieval hit: a chunk with its similarity to the query.
type ScoredChunk struct {
	Chunk DocumentChunk `json:"chunk"`

	// Score is cosine similarity to the query embedding (1 is identical).
	Score float64 `json:"score"`
}
