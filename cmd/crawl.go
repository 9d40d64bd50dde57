package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lancehart/blogvault/internal/archive"
	"github.com/lancehart/blogvault/internal/checkpoint"
	"github.com/lancehart/blogvault/internal/config"
	"github.com/lancehart/blogvault/internal/crawl"
	"github.com/lancehart/blogvault/internal/extract"
	collyfetcher "github.com/lancehart/blogvault/internal/fetcher/colly"
	"github.com/lancehart/blogvault/internal/indexer"
	"github.com/lancehart/blogvault/internal/logging"
	"github.com/lancehart/blogvault/internal/metrics"
	"github.com/lancehart/blogvault/internal/ratelimit"
	"github.com/lancehart/blogvault/internal/sitemap"
)

// newCrawlCmd creates and configures the 'crawl' subcommand, which runs the
// full discover-then-scrape pipeline.
func newCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Discover and archive every published post",
		Long: `Fetches the sitemap index, regenerates the post index, and scrapes every
post not yet recorded in the checkpoint. Interrupt with Ctrl+C at any time;
progress is saved and the next run resumes where this one stopped.`,
		RunE: runCrawlCommand,
	}
	return cmd
}

func runCrawlCommand(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.ValidateSource(); err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics.Init()
	if cfg.Metrics.Addr != "" {
		go metrics.Serve(ctx, cfg.Metrics.Addr, logger)
	}

	fetcher := ratelimit.Throttle(
		collyfetcher.New(collyfetcher.Config{
			UserAgent: cfg.HTTP.UserAgent,
			Timeout:   cfg.Timeout(),
			Headers:   collyfetcher.DefaultHeaders(),
		}),
		ratelimit.New(cfg.Delay()),
	)

	sink, err := archive.NewRecordSink(cfg.Output.Dir, logger)
	if err != nil {
		return fmt.Errorf("init archive dir: %w", err)
	}

	orchestrator := crawl.New(
		sitemap.New(fetcher, cfg.Source.SitemapIndexURL, cfg.Source.PostSitemapMarker, logger),
		fetcher,
		extract.New(),
		archive.NewPathResolver(cfg.Output.Dir),
		sink,
		checkpoint.NewStore(filepath.Join(cfg.Output.Dir, cfg.Output.CheckpointFile)),
		indexer.NewBuilder(cfg.Source.SitemapIndexURL),
		crawl.Config{
			IndexPath:  filepath.Join(cfg.Output.Dir, cfg.Output.IndexFile),
			FlushEvery: cfg.Crawl.FlushEvery,
			Delay:      cfg.Delay(),
		},
		logger,
	)

	summary, err := orchestrator.Run(ctx)
	if err != nil {
		return fmt.Errorf("run crawl: %w", err)
	}

	fmt.Printf("Scraped:        %d\n", summary.Scraped)
	fmt.Printf("Failed:         %d\n", summary.Failed)
	fmt.Printf("Total archived: %d\n", summary.TotalArchived)
	if summary.Interrupted {
		fmt.Println("Interrupted. Progress saved; run `blogvault crawl` again to resume.")
	}
	return nil
}
