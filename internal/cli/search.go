package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ragchat/internal/llm"
	"ragchat/internal/search"
	"ragchat/internal/store"
)

var searchK int

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Run a retrieval query against the snapshot",
	Long: `Search embeds the query and prints the top-K most similar chunks with
their scores, without calling the completion model. Useful for inspecting
what the chat endpoint would be grounded on.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchK, "top", "k", 0, "number of results (default from TOP_K)")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	ctx := cmd.Context()

	fileStore := store.NewFileStore(cfg.StorePath)
	snap, err := fileStore.Load(ctx)
	if err != nil {
		return err
	}

	embedder := llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.LLMAPIKey, cfg.EmbeddingModel)
	queryVector, err := embedder.EmbedQuery(ctx, query)
	if err != nil {
		return err
	}

	k := searchK
	if k <= 0 {
		k = cfg.TopK
	}

	results, err := search.TopK(queryVector, snap.Chunks, k)
	if err != nil {
		return err
	}

	if len(results) == 0 {
		fmt.Println("No results.")
		return nil
	}

	for i, r := range results {
		preview := r.Text
		if runes := []rune(preview); len(runes) > 120 {
			preview = string(runes[:120]) + "..."
		}
		preview = strings.ReplaceAll(preview, "\n", " ")
		fmt.Printf("%2d. %.4f  %s (chunk %d)\n    %s\n", i+1, r.Similarity, r.Filename, r.ChunkIndex, preview)
	}
	return nil
}
