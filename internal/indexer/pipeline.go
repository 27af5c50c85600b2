package indexer

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"

	"ragchat/internal/contextutil"
	"ragchat/internal/docs"
	"ragchat/internal/store"
)

// Embedder turns chunk texts into embedding vectors, one per input text.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float64, error)
}

// ProgressFunc is called after each batch of chunks is embedded.
type ProgressFunc func(done, total int)

// Pipeline builds a vector store snapshot from a markdown corpus:
// walk, chunk, embed, save. Rebuilds are all-or-nothing; the existing
// snapshot file is only replaced once the new one is complete.
type Pipeline struct {
	walker       *docs.Walker
	embedder     Embedder
	fileStore    *store.FileStore
	model        string
	chunkSize    int
	chunkOverlap int
}

// NewPipeline creates a build pipeline. model is recorded in the snapshot
// metadata so query-time model drift can be diagnosed.
func NewPipeline(walker *docs.Walker, embedder Embedder, fileStore *store.FileStore, model string, chunkSize, chunkOverlap int) *Pipeline {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if chunkOverlap < 0 {
		chunkOverlap = DefaultChunkOverlap
	}
	return &Pipeline{
		walker:       walker,
		embedder:     embedder,
		fileStore:    fileStore,
		model:        model,
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
	}
}

// Build re-embeds every document under root and writes a fresh snapshot.
// progress may be nil.
func (p *Pipeline) Build(ctx context.Context, root string, progress ProgressFunc) (*store.Snapshot, error) {
	logger := contextutil.LoggerFromContext(ctx)

	files, err := p.walker.Walk(root)
	if err != nil {
		return nil, fmt.Errorf("failed to scan corpus: %w", err)
	}
	logger.InfoContext(ctx, "corpus scanned", "root", root, "files", len(files))

	// Chunk everything first so the total is known before embedding starts.
	type fileChunks struct {
		file   docs.File
		chunks []Chunk
	}
	var (
		byFile      []fileChunks
		totalChunks int
	)
	for _, file := range files {
		content, err := os.ReadFile(file.AbsPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file.RelPath, err)
		}

		title := ExtractTitle(content, file.RelPath)
		texts := SplitText(string(content), p.chunkSize, p.chunkOverlap)
		if len(texts) == 0 {
			logger.WarnContext(ctx, "document produced no chunks", "filename", file.RelPath)
			continue
		}

		chunks := make([]Chunk, len(texts))
		for i, text := range texts {
			chunks[i] = Chunk{
				Text:       text,
				Filename:   file.RelPath,
				ChunkIndex: i,
				Title:      title,
			}
		}
		byFile = append(byFile, fileChunks{file: file, chunks: chunks})
		totalChunks += len(chunks)

		logger.DebugContext(ctx, "document chunked", "filename", file.RelPath, "title", title, "chunks", len(chunks))
	}

	records := make([]store.EmbeddedChunk, 0, totalChunks)
	done := 0
	for _, fc := range byFile {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		texts := make([]string, len(fc.chunks))
		for i, c := range fc.chunks {
			texts[i] = c.Text
		}

		embeddings, err := p.embedder.EmbedTexts(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("failed to embed %s: %w", fc.file.RelPath, err)
		}
		if len(embeddings) != len(fc.chunks) {
			return nil, fmt.Errorf("embedding count mismatch for %s: expected %d, got %d",
				fc.file.RelPath, len(fc.chunks), len(embeddings))
		}

		for i, c := range fc.chunks {
			records = append(records, store.EmbeddedChunk{
				ID:         uuid.New().String(),
				Text:       c.Text,
				Filename:   c.Filename,
				ChunkIndex: c.ChunkIndex,
				Title:      c.Title,
				Embedding:  embeddings[i],
			})
		}

		done += len(fc.chunks)
		if progress != nil {
			progress(done, totalChunks)
		}
	}

	fileSet := make(map[string]struct{}, len(byFile))
	for _, fc := range byFile {
		fileSet[fc.file.RelPath] = struct{}{}
	}
	fileNames := make([]string, 0, len(fileSet))
	for name := range fileSet {
		fileNames = append(fileNames, name)
	}
	sort.Strings(fileNames)

	snap := &store.Snapshot{
		CreatedAt: time.Now().UTC(),
		Chunks:    records,
		Metadata: store.Metadata{
			TotalChunks:    len(records),
			Files:          fileNames,
			EmbeddingModel: p.model,
			ChunkSize:      p.chunkSize,
			ChunkOverlap:   p.chunkOverlap,
		},
	}

	if err := p.fileStore.Save(ctx, snap); err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "snapshot built",
		"files", len(fileNames),
		"chunks", len(records),
		"embedding_model", p.model,
	)
	return snap, nil
}
