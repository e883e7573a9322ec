package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var ingestSourceDir string

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Build or rebuild the document index",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		if ingestSourceDir != "" {
			cfg.SourceDir = ingestSourceDir
		}

		a, err := newApp(cfg)
		if err != nil {
			return err
		}
		defer a.close()

		fmt.Printf("[askdocs] ingesting documents from %q ...\n", cfg.SourceDir)
		if err := a.pipeline.Rebuild(cmd.Context(), cfg.SourceDir); err != nil {
			return err
		}

		snap := a.manager.Current()
		fmt.Printf("[askdocs] index built: %d chunks (model %s, dim %d)\n",
			len(snap.Chunks), snap.Meta.ModelName, snap.Meta.Dimension)
		return nil
	},
}

func init() {
	ingestCmd.Flags().StringVar(&ingestSourceDir, "source-dir", "", "directory containing documents (default from config)")
}
