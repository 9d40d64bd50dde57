package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lancehart/blogvault/internal/config"
	"github.com/lancehart/blogvault/internal/export"
	"github.com/lancehart/blogvault/internal/logging"
)

// newExportCmd creates and configures the 'export' subcommand, which merges
// the archived records into one flat text corpus.
func newExportCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Concatenate archived posts into a single text corpus",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger, err := logging.New(cfg.Logging.Development)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			defer func() {
				_ = logger.Sync()
			}()

			count, err := export.New(cfg.Output.Dir, logger).Run(outPath)
			if err != nil {
				return fmt.Errorf("export corpus: %w", err)
			}
			fmt.Printf("Exported %d posts to %s\n", count, outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "corpus.txt", "output corpus file")
	return cmd
}
