package sitemap

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/lancehart/blogvault/internal/archive"
	"github.com/lancehart/blogvault/internal/metrics"
)

// Discoverer finds every published post by walking the sitemap index. The
// fetcher it is built with supplies the politeness delay, so discovery and
// scraping share one request budget.
type Discoverer struct {
	fetcher  archive.Fetcher
	indexURL string
	marker   string
	logger   *zap.Logger
}

// New builds a Discoverer for the given sitemap index URL. marker selects
// post sitemaps out of the index by substring match on their location.
func New(fetcher archive.Fetcher, indexURL, marker string, logger *zap.Logger) *Discoverer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Discoverer{
		fetcher:  fetcher,
		indexURL: indexURL,
		marker:   marker,
		logger:   logger,
	}
}

// PostSitemapURLs fetches the sitemap index and returns the post sitemap
// locations, sorted lexicographically for determinism. A failure here is
// fatal for the whole crawl: without the index no post list can be built.
func (d *Discoverer) PostSitemapURLs(ctx context.Context) ([]string, error) {
	body, err := d.fetcher.Fetch(ctx, d.indexURL)
	if err != nil {
		return nil, fmt.Errorf("fetch sitemap index %s: %w", d.indexURL, err)
	}
	locs, err := parseIndex(body)
	if err != nil {
		return nil, fmt.Errorf("sitemap index %s: %w", d.indexURL, err)
	}

	urls := make([]string, 0, len(locs))
	for _, loc := range locs {
		if strings.Contains(loc, d.marker) {
			urls = append(urls, loc)
		}
	}
	sort.Strings(urls)

	d.logger.Info("post sitemaps found", zap.Int("count", len(urls)))
	return urls, nil
}

// DiscoverPosts walks every post sitemap strictly sequentially and returns
// one reference per <url> entry. An individual sitemap failure, fetch or
// parse, drops that sitemap's posts and continues; only the sitemap index
// itself is load-bearing.
func (d *Discoverer) DiscoverPosts(ctx context.Context) ([]archive.PostReference, error) {
	sitemapURLs, err := d.PostSitemapURLs(ctx)
	if err != nil {
		return nil, err
	}

	var refs []archive.PostReference
	for i, sm := range sitemapURLs {
		d.logger.Info("fetching sitemap",
			zap.Int("n", i+1),
			zap.Int("total", len(sitemapURLs)),
			zap.String("url", sm),
		)

		entries, err := d.fetchEntries(ctx, sm)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("discovery canceled: %w", ctx.Err())
			}
			metrics.ObserveSitemap("failed")
			d.logger.Warn("sitemap skipped", zap.String("url", sm), zap.Error(err))
			continue
		}
		metrics.ObserveSitemap("ok")

		refs = append(refs, entries...)
		d.logger.Info("sitemap parsed",
			zap.String("url", sm),
			zap.Int("posts", len(entries)),
			zap.Int("total_posts", len(refs)),
		)
	}

	d.logger.Info("discovery complete", zap.Int("total_posts", len(refs)))
	return refs, nil
}

func (d *Discoverer) fetchEntries(ctx context.Context, sitemapURL string) ([]archive.PostReference, error) {
	body, err := d.fetcher.Fetch(ctx, sitemapURL)
	if err != nil {
		return nil, err
	}
	entries, err := parseURLSet(body)
	if err != nil {
		return nil, err
	}

	refs := make([]archive.PostReference, 0, len(entries))
	for _, e := range entries {
		if e.Loc == "" {
			continue
		}
		ref := archive.PostReference{
			URL:  e.Loc,
			Date: archive.DateFromURL(e.Loc),
		}
		if e.LastMod != "" {
			lastmod := e.LastMod
			ref.LastMod = &lastmod
		}
		refs = append(refs, ref)
	}
	return refs, nil
}
