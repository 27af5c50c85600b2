package store

import (
	"fmt"
	"time"
)

// EmbeddedChunk is a single record in the vector store: a chunk of source
// text together with the embedding it was assigned at build time. Records are
// created once by the indexing pipeline and never mutated afterwards.
type EmbeddedChunk struct {
	ID         string    `json:"id"`
	Text       string    `json:"text"`
	Filename   string    `json:"filename"`
	ChunkIndex int       `json:"chunkIndex"`
	Title      string    `json:"title,omitempty"`
	Embedding  []float64 `json:"embedding"`
}

// Metadata describes how a snapshot was built.
type Metadata struct {
	TotalChunks    int      `json:"total_chunks"`
	Files          []string `json:"files"`
	EmbeddingModel string   `json:"embedding_model"`
	ChunkSize      int      `json:"chunk_size"`
	ChunkOverlap   int      `json:"chunk_overlap"`
}

// Snapshot is the whole persisted vector store. It is written as a unit by
// the build pipeline and loaded as a unit at query time; there is no
// incremental update path.
type Snapshot struct {
	CreatedAt time.Time       `json:"created_at"`
	Chunks    []EmbeddedChunk `json:"chunks"`
	Metadata  Metadata        `json:"metadata"`
}

// Validate checks the snapshot's internal consistency.
// Invariant: metadata.total_chunks must equal the number of chunk records.
func (s *Snapshot) Validate() error {
	if s.Metadata.TotalChunks != len(s.Chunks) {
		return fmt.Errorf("snapshot metadata reports %d chunks but %d are present",
			s.Metadata.TotalChunks, len(s.Chunks))
	}
	return nil
}
