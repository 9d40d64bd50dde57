// Package archive defines the core types and on-disk contracts shared across
// the crawl pipeline: discovered post references, persisted post records, the
// resumable crawl state, and the consolidated index artifact.
package archive

import (
	"time"
)

// PostReference is one entry discovered from a post sitemap. It is immutable
// once produced and is persisted verbatim into the index artifact.
type PostReference struct {
	// URL uniquely identifies the post across the whole crawl.
	URL string `json:"url"`
	// LastMod carries the sitemap's lastmod value when present.
	LastMod *string `json:"lastmod"`
	// Date is derived from the /YYYY/MM/DD/ segment of the URL path.
	Date *string `json:"date"`
}

// EffectiveDate returns the URL-derived date or the empty string, which is
// how undated references sort last in the descending index order.
func (r PostReference) EffectiveDate() string {
	if r.Date == nil {
		return ""
	}
	return *r.Date
}

// PostRecord is the persisted structured representation of one scraped post.
// Records are written once per successful fetch and never mutated; a record
// exists on disk iff its URL is in the checkpoint's scraped set.
type PostRecord struct {
	URL            string   `json:"url"`
	ScrapedAt      string   `json:"scraped_at"`
	Title          *string  `json:"title"`
	DateDisplay    *string  `json:"date_display,omitempty"`
	DateISO        *string  `json:"date_iso,omitempty"`
	DateFromURL    *string  `json:"date_from_url"`
	Author         string   `json:"author"`
	ContentHTML    *string  `json:"content_html,omitempty"`
	ContentText    *string  `json:"content_text,omitempty"`
	Tags           []string `json:"tags"`
	Categories     []string `json:"categories"`
	CommentsCount  *int     `json:"comments_count,omitempty"`
	SitemapLastMod *string  `json:"sitemap_lastmod"`
}

// Index is the consolidated discovery artifact, regenerated wholesale on
// every run and sorted by effective date descending.
type Index struct {
	GeneratedAt string          `json:"generated_at"`
	TotalPosts  int             `json:"total_posts"`
	Source      string          `json:"source"`
	Posts       []PostReference `json:"posts"`
}

// CrawlState tracks which URLs have been durably archived or have failed.
// The orchestrator is its only writer for the duration of a run. The scraped
// set only grows within a run; failed URLs may be re-attempted on a later
// run and are not purged when they eventually succeed.
type CrawlState struct {
	ScrapedURLs map[string]struct{}
	FailedURLs  map[string]struct{}
	LastRun     *time.Time
}

// NewCrawlState returns an empty state with initialized sets.
func NewCrawlState() *CrawlState {
	return &CrawlState{
		ScrapedURLs: make(map[string]struct{}),
		FailedURLs:  make(map[string]struct{}),
	}
}

// MarkScraped records a durably archived URL.
func (s *CrawlState) MarkScraped(url string) {
	s.ScrapedURLs[url] = struct{}{}
}

// MarkFailed records a URL whose fetch failed this run. Failed URLs stay
// eligible for retry because membership in ScrapedURLs is what gates a fetch.
func (s *CrawlState) MarkFailed(url string) {
	s.FailedURLs[url] = struct{}{}
}

// Scraped reports whether the URL has already been archived.
func (s *CrawlState) Scraped(url string) bool {
	_, ok := s.ScrapedURLs[url]
	return ok
}
