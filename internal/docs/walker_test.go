package docs

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, root, relPath, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestWalker_DefaultsToMarkdown(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "intro.md", "# Intro")
	writeFile(t, root, "guides/setup.md", "# Setup")
	writeFile(t, root, "assets/logo.png", "binary")
	writeFile(t, root, "README.txt", "text")

	files, err := NewWalker(nil, nil).Walk(root)
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}

	got := make(map[string]bool, len(files))
	for _, f := range files {
		got[f.RelPath] = true
	}
	if len(files) != 2 || !got["intro.md"] || !got["guides/setup.md"] {
		t.Errorf("Walk() = %v, want intro.md and guides/setup.md only", files)
	}
}

func TestWalker_SkipsDotDirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "doc.md", "# Doc")
	writeFile(t, root, ".obsidian/config.md", "config")

	files, err := NewWalker(nil, nil).Walk(root)
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}
	if len(files) != 1 || files[0].RelPath != "doc.md" {
		t.Errorf("Walk() = %v, want only doc.md", files)
	}
}

func TestWalker_ExcludePatterns(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "keep.md", "keep")
	writeFile(t, root, "drafts/wip.md", "wip")

	files, err := NewWalker(nil, []string{"drafts/**"}).Walk(root)
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}
	if len(files) != 1 || files[0].RelPath != "keep.md" {
		t.Errorf("Walk() = %v, want only keep.md", files)
	}
}

func TestWalker_MissingRoot(t *testing.T) {
	if _, err := NewWalker(nil, nil).Walk(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("Walk() expected error for missing root, got nil")
	}
}
