package indexer

// Chunk is one bounded piece of a source document, ready for embedding.
type Chunk struct {
	Text       string // chunk text content
	Filename   string // source document path, relative to the corpus root
	ChunkIndex int    // zero-based position within the source document
	Title      string // source document title
}
