package cli

import (
	"fmt"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"ragchat/internal/docs"
	"ragchat/internal/indexer"
	"ragchat/internal/llm"
	"ragchat/internal/store"
)

var buildCmd = &cobra.Command{
	Use:   "build [docs-dir]",
	Short: "Chunk, embed and snapshot the markdown corpus",
	Long: `Build rebuilds the vector store snapshot from scratch: every markdown
file under the docs directory is chunked, every chunk is embedded, and the
snapshot file is replaced atomically once the new one is complete.

Examples:
  ragctl build           # use DOCS_DIR from the environment
  ragctl build ./docs    # explicit corpus root`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	root := cfg.DocsDir
	if len(args) > 0 {
		var err error
		root, err = filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("invalid path: %w", err)
		}
	}

	embedder := llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.LLMAPIKey, cfg.EmbeddingModel)
	fileStore := store.NewFileStore(cfg.StorePath)
	walker := docs.NewWalker(cfg.Includes, cfg.Excludes)
	pipeline := indexer.NewPipeline(walker, embedder, fileStore, cfg.EmbeddingModel, cfg.ChunkSize, cfg.ChunkOverlap)

	fmt.Printf("Building snapshot from %s (model %s)...\n", root, cfg.EmbeddingModel)

	var bar *progressbar.ProgressBar
	progress := func(done, total int) {
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetDescription("Embedding"),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionOnCompletion(func() {
					fmt.Println()
				}),
			)
		}
		_ = bar.Set(done)
	}

	snap, err := pipeline.Build(cmd.Context(), root, progress)
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	fmt.Printf("Snapshot written to %s: %d chunks from %d files\n",
		cfg.StorePath, snap.Metadata.TotalChunks, len(snap.Metadata.Files))
	return nil
}
