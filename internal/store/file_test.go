package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func testSnapshot() *Snapshot {
	return &Snapshot{
		CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Chunks: []EmbeddedChunk{
			{ID: "c1", Text: "alpha", Filename: "a.md", ChunkIndex: 0, Title: "A", Embedding: []float64{1, 0}},
			{ID: "c2", Text: "beta", Filename: "a.md", ChunkIndex: 1, Title: "A", Embedding: []float64{0, 1}},
		},
		Metadata: Metadata{
			TotalChunks:    2,
			Files:          []string{"a.md"},
			EmbeddingModel: "test-model",
			ChunkSize:      2000,
			ChunkOverlap:   200,
		},
	}
}

func TestFileStore_SaveLoadRoundtrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "store.json")
	fs := NewFileStore(path)

	want := testSnapshot()
	if err := fs.Save(ctx, want); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	got, err := fs.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if !got.CreatedAt.Equal(want.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, want.CreatedAt)
	}
	if len(got.Chunks) != 2 {
		t.Fatalf("Load() returned %d chunks, want 2", len(got.Chunks))
	}
	if got.Chunks[0].Text != "alpha" || got.Chunks[1].ChunkIndex != 1 {
		t.Errorf("chunk records not preserved: %+v", got.Chunks)
	}
	if got.Metadata.EmbeddingModel != "test-model" {
		t.Errorf("Metadata.EmbeddingModel = %q, want test-model", got.Metadata.EmbeddingModel)
	}
}

func TestFileStore_LoadMissingFile(t *testing.T) {
	fs := NewFileStore(filepath.Join(t.TempDir(), "absent.json"))

	_, err := fs.Load(context.Background())
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("Load() error = %v, want ErrUnavailable", err)
	}
}

func TestFileStore_LoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, err := NewFileStore(path).Load(context.Background())
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("Load() error = %v, want ErrUnavailable", err)
	}
}

func TestFileStore_LoadRejectsInconsistentSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	// total_chunks disagrees with the chunk list
	data := `{"created_at":"2025-06-01T12:00:00Z","chunks":[],"metadata":{"total_chunks":3}}`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, err := NewFileStore(path).Load(context.Background())
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("Load() error = %v, want ErrUnavailable for invariant violation", err)
	}
}

func TestFileStore_SaveRejectsInconsistentSnapshot(t *testing.T) {
	snap := testSnapshot()
	snap.Metadata.TotalChunks = 99

	fs := NewFileStore(filepath.Join(t.TempDir(), "store.json"))
	if err := fs.Save(context.Background(), snap); err == nil {
		t.Error("Save() expected error for inconsistent snapshot, got nil")
	}
}

func TestFileStore_SaveReplacesWholeFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "store.json")
	fs := NewFileStore(path)

	if err := fs.Save(ctx, testSnapshot()); err != nil {
		t.Fatalf("first Save() error: %v", err)
	}

	rebuilt := testSnapshot()
	rebuilt.Chunks = rebuilt.Chunks[:1]
	rebuilt.Metadata.TotalChunks = 1
	if err := fs.Save(ctx, rebuilt); err != nil {
		t.Fatalf("second Save() error: %v", err)
	}

	got, err := fs.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(got.Chunks) != 1 {
		t.Errorf("Load() after rebuild returned %d chunks, want 1 (file must be replaced, not appended)", len(got.Chunks))
	}

	// No temp files left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("snapshot directory has %d entries, want 1", len(entries))
	}
}

func TestFileStore_Ping(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "store.json")
	fs := NewFileStore(path)

	if err := fs.Ping(ctx); !errors.Is(err, ErrUnavailable) {
		t.Errorf("Ping() before build = %v, want ErrUnavailable", err)
	}

	if err := fs.Save(ctx, testSnapshot()); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if err := fs.Ping(ctx); err != nil {
		t.Errorf("Ping() after build = %v, want nil", err)
	}
}
