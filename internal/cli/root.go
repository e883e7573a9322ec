// Package cli implements the askdocs command line interface: index building
// and an interactive, citation-grounded chat session.
package cli

import (
	"log"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"askdocs/internal/config"
)

var rootCmd = &cobra.Command{
	Use:           "askdocs",
	Short:         "askdocs: citation-grounded Q&A over your local documents",
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(chatCmd)
}

// loadConfig loads configuration and wires logging for CLI runs.
func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})
	slog.SetDefault(slog.New(handler))
	return cfg
}
