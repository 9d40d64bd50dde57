// Package cmd defines and implements the CLI commands for the blogvault executable.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "blogvault",
		Short: "Archive a blog's published content via sitemap discovery.",
		Long: `blogvault archives a blog's entire published content. It discovers post
URLs from the site's sitemap index, fetches each post with a polite fixed
delay, extracts structured fields, and persists one JSON record per post
plus a resumable checkpoint and a consolidated index.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to config file")

	cmd.AddCommand(newCrawlCmd())
	cmd.AddCommand(newExportCmd())
	return cmd
}

// Execute runs the CLI and exits non-zero on error.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
