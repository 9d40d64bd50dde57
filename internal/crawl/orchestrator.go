// Package crawl composes discovery, extraction, and persistence into the
// two-phase archive pipeline: discover every post, then scrape whatever the
// checkpoint says is still missing.
package crawl

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/lancehart/blogvault/internal/archive"
	"github.com/lancehart/blogvault/internal/extract"
	"github.com/lancehart/blogvault/internal/indexer"
	"github.com/lancehart/blogvault/internal/metrics"
)

// Discoverer produces the full set of post references for a run.
type Discoverer interface {
	DiscoverPosts(ctx context.Context) ([]archive.PostReference, error)
}

// Checkpoints loads and durably saves crawl state.
type Checkpoints interface {
	Load() (*archive.CrawlState, error)
	Save(state *archive.CrawlState) error
}

// Config holds the orchestrator's knobs.
type Config struct {
	// IndexPath is where the regenerated index artifact is written.
	IndexPath string
	// FlushEvery is the number of processed posts between checkpoint writes.
	FlushEvery int
	// Delay is the politeness interval, used only for the duration estimate
	// logged before scraping; the fetcher enforces the actual gate.
	Delay time.Duration
}

// Summary reports the outcome of a run.
type Summary struct {
	Discovered    int
	Skipped       int
	Scraped       int
	Failed        int
	TotalArchived int
	Interrupted   bool
}

// Orchestrator owns the crawl state for the duration of a run; it is the
// checkpoint's only writer.
type Orchestrator struct {
	discoverer  Discoverer
	fetcher     archive.Fetcher
	extractor   *extract.Extractor
	paths       *archive.PathResolver
	sink        *archive.RecordSink
	checkpoints Checkpoints
	indexer     *indexer.Builder
	cfg         Config
	logger      *zap.Logger
}

// New constructs an Orchestrator.
func New(
	discoverer Discoverer,
	fetcher archive.Fetcher,
	extractor *extract.Extractor,
	paths *archive.PathResolver,
	sink *archive.RecordSink,
	checkpoints Checkpoints,
	idx *indexer.Builder,
	cfg Config,
	logger *zap.Logger,
) *Orchestrator {
	if cfg.FlushEvery <= 0 {
		cfg.FlushEvery = 10
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		discoverer:  discoverer,
		fetcher:     fetcher,
		extractor:   extractor,
		paths:       paths,
		sink:        sink,
		checkpoints: checkpoints,
		indexer:     idx,
		cfg:         cfg,
		logger:      logger,
	}
}

type postResult int

const (
	postScraped postResult = iota
	postFailed
	postInterrupted
)

// Run executes one crawl: discovery, index regeneration, then the scrape
// loop. A sitemap-index failure aborts the run before anything is written;
// individual post failures are recorded and skipped. A canceled context
// stops the loop between posts and still performs the final checkpoint
// flush, so no more than one flush interval of successes is ever at risk.
func (o *Orchestrator) Run(ctx context.Context) (Summary, error) {
	var summary Summary

	state, err := o.checkpoints.Load()
	if err != nil {
		return summary, fmt.Errorf("load checkpoint: %w", err)
	}

	refs, err := o.discoverer.DiscoverPosts(ctx)
	if err != nil {
		return summary, fmt.Errorf("discover posts: %w", err)
	}
	summary.Discovered = len(refs)

	idx := o.indexer.Build(refs)
	if err := o.indexer.Write(o.cfg.IndexPath, idx); err != nil {
		return summary, fmt.Errorf("write index: %w", err)
	}
	o.logger.Info("index written",
		zap.String("path", o.cfg.IndexPath),
		zap.Int("total_posts", idx.TotalPosts),
	)

	toScrape := make([]archive.PostReference, 0, len(refs))
	for _, ref := range refs {
		if state.Scraped(ref.URL) {
			summary.Skipped++
			continue
		}
		toScrape = append(toScrape, ref)
	}
	if summary.Skipped > 0 {
		o.logger.Info("resuming crawl",
			zap.Int("already_scraped", summary.Skipped),
			zap.Int("remaining", len(toScrape)),
		)
	}
	o.logger.Info("scrape phase starting",
		zap.Int("posts", len(toScrape)),
		zap.Duration("estimated", time.Duration(len(toScrape))*o.cfg.Delay),
	)

	processed := 0
	total := len(toScrape)
	for i, ref := range toScrape {
		if ctx.Err() != nil {
			summary.Interrupted = true
			break
		}

		o.logger.Info("scraping post",
			zap.Int("n", i+1),
			zap.Int("total", total),
			zap.String("pct", fmt.Sprintf("%.1f%%", float64(i+1)/float64(total)*100)),
			zap.String("url", ref.URL),
		)

		switch o.processPost(ctx, state, ref) {
		case postScraped:
			summary.Scraped++
			processed++
		case postFailed:
			summary.Failed++
			processed++
		case postInterrupted:
			summary.Interrupted = true
		}
		if summary.Interrupted {
			break
		}

		if processed%o.cfg.FlushEvery == 0 {
			if err := o.flush(state); err != nil {
				return summary, err
			}
		}
	}

	// Tail flush; also the only flush an interrupted run can count on.
	if err := o.flush(state); err != nil {
		return summary, err
	}

	summary.TotalArchived = len(state.ScrapedURLs)
	o.logger.Info("crawl finished",
		zap.Int("scraped", summary.Scraped),
		zap.Int("failed", summary.Failed),
		zap.Int("total_archived", summary.TotalArchived),
		zap.Bool("interrupted", summary.Interrupted),
	)
	return summary, nil
}

// processPost runs fetch → extract → resolve → write for one post and
// records the outcome in the crawl state. One post's failure never touches
// its siblings.
func (o *Orchestrator) processPost(ctx context.Context, state *archive.CrawlState, ref archive.PostReference) postResult {
	body, err := o.fetcher.Fetch(ctx, ref.URL)
	if err != nil {
		// An in-flight fetch abandoned by cancellation is not a post
		// failure; the URL stays eligible for the next run.
		if ctx.Err() != nil {
			return postInterrupted
		}
		o.logger.Warn("fetch failed", zap.String("url", ref.URL), zap.Error(err))
		state.MarkFailed(ref.URL)
		metrics.ObservePost("failed")
		return postFailed
	}

	record, err := o.extractor.Extract(ref.URL, body, ref.LastMod)
	if err != nil {
		o.logger.Warn("extract failed", zap.String("url", ref.URL), zap.Error(err))
		state.MarkFailed(ref.URL)
		metrics.ObservePost("failed")
		return postFailed
	}

	target := o.paths.Resolve(ref.URL)
	if err := o.sink.Write(record, target); err != nil {
		o.logger.Error("record write failed", zap.String("url", ref.URL), zap.Error(err))
		state.MarkFailed(ref.URL)
		metrics.ObservePost("failed")
		return postFailed
	}

	state.MarkScraped(ref.URL)
	metrics.ObservePost("scraped")
	return postScraped
}

// flush persists the checkpoint. A failed flush is fatal: losing the
// checkpoint silently would defeat resumability.
func (o *Orchestrator) flush(state *archive.CrawlState) error {
	if err := o.checkpoints.Save(state); err != nil {
		return fmt.Errorf("checkpoint flush: %w", err)
	}
	metrics.ObserveCheckpointFlush()
	return nil
}
