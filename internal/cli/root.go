package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"ragchat/internal/config"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "ragctl",
	Short: "Build and inspect the ragchat vector store",
	Long: `ragctl manages the vector store snapshot that grounds the chat API.

Example usage:
  ragctl build ./docs              # chunk, embed and snapshot the corpus
  ragctl search "how do I deploy"  # inspect retrieval without the LLM`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if cfgFile != "" {
			if err := cfg.ApplyFile(cfgFile); err != nil {
				return err
			}
		}

		// Logs go to stderr so stdout stays clean for command output.
		handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})
		slog.SetDefault(slog.New(handler))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "YAML config file overriding build parameters")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
