// Package extract parses fetched post HTML into structured archive records.
// Every field is resolved through an ordered fallback chain of selectors;
// a missing field degrades to its documented default instead of failing the
// record, so extraction cannot fail once the fetch has succeeded.
package extract

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/lancehart/blogvault/internal/archive"
)

// defaultAuthor is the sentinel recorded when no author markup is present.
const defaultAuthor = "unknown"

// Fallback chains, first match wins.
var (
	titleSelectors    = []string{"h1.entry-title", "h1"}
	dateSelectors     = []string{"time.entry-date", "time", ".posted-on"}
	authorSelectors   = []string{".author", "a[rel='author']"}
	bodySelectors     = []string{"div.entry-content", "article", ".post-content"}
	tagSelectors      = []string{".tags-links", ".post-tags"}
	categorySelectors = []string{".cat-links", ".post-categories"}
)

var digitsPattern = regexp.MustCompile(`\d+`)

// Extractor turns raw post HTML into archive.PostRecord values.
type Extractor struct {
	clock func() time.Time
}

// New builds an Extractor.
func New() *Extractor {
	return &Extractor{clock: time.Now}
}

// NewWithClock builds an Extractor with an injected clock for tests.
func NewWithClock(clock func() time.Time) *Extractor {
	return &Extractor{clock: clock}
}

// Extract parses one post document. sitemapLastMod is caller-supplied
// metadata copied into the record, never derived from the HTML. The only
// possible error is a document that cannot be parsed at all; per-field
// misses are not errors.
func (e *Extractor) Extract(url string, body []byte, sitemapLastMod *string) (*archive.PostRecord, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse post html: %w", err)
	}

	record := &archive.PostRecord{
		URL:            url,
		ScrapedAt:      e.clock().Format(time.RFC3339),
		DateFromURL:    archive.DateFromURL(url),
		Author:         defaultAuthor,
		Tags:           []string{},
		Categories:     []string{},
		SitemapLastMod: sitemapLastMod,
	}

	extractTitle(doc, record)
	extractDate(doc, record)
	extractAuthor(doc, record)
	extractBody(doc, record)
	record.Tags = linkTexts(doc, tagSelectors)
	record.Categories = linkTexts(doc, categorySelectors)
	extractCommentsCount(doc, record)

	return record, nil
}

// firstMatch evaluates the selector chain in order and returns the first
// selection with at least one node, or nil when nothing matches.
func firstMatch(doc *goquery.Document, selectors []string) *goquery.Selection {
	for _, sel := range selectors {
		if s := doc.Find(sel).First(); s.Length() > 0 {
			return s
		}
	}
	return nil
}

func extractTitle(doc *goquery.Document, record *archive.PostRecord) {
	sel := firstMatch(doc, titleSelectors)
	if sel == nil {
		return
	}
	title := strings.TrimSpace(sel.Text())
	record.Title = &title
}

func extractDate(doc *goquery.Document, record *archive.PostRecord) {
	sel := firstMatch(doc, dateSelectors)
	if sel == nil {
		return
	}
	display := strings.TrimSpace(sel.Text())
	record.DateDisplay = &display
	if iso, ok := sel.Attr("datetime"); ok {
		record.DateISO = &iso
	}
}

func extractAuthor(doc *goquery.Document, record *archive.PostRecord) {
	sel := firstMatch(doc, authorSelectors)
	if sel == nil {
		return
	}
	record.Author = strings.TrimSpace(sel.Text())
}

// extractBody captures the serialized HTML of the content element before
// script/style removal and the visible text after it. The raw HTML copy may
// therefore still contain script and style markup the text copy does not;
// downstream consumers rely on content_text being clean, not content_html.
func extractBody(doc *goquery.Document, record *archive.PostRecord) {
	sel := firstMatch(doc, bodySelectors)
	if sel == nil {
		return
	}

	if raw, err := goquery.OuterHtml(sel); err == nil {
		record.ContentHTML = &raw
	}

	sel.Find("script, style").Remove()
	text := visibleText(sel)
	record.ContentText = &text
}

// visibleText renders the selection's text content with one line per text
// run: each text node is trimmed, empty runs are dropped, and the remainder
// is joined with newlines.
func visibleText(sel *goquery.Selection) string {
	var parts []string
	for _, n := range sel.Nodes {
		collectText(n, &parts)
	}
	return strings.Join(parts, "\n")
}

func collectText(n *html.Node, parts *[]string) {
	if n.Type == html.TextNode {
		if t := strings.TrimSpace(n.Data); t != "" {
			*parts = append(*parts, t)
		}
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, parts)
	}
}

// linkTexts collects the text of every anchor inside the first matching
// container, in document order. No container means an empty slice, never nil.
func linkTexts(doc *goquery.Document, selectors []string) []string {
	out := []string{}
	container := firstMatch(doc, selectors)
	if container == nil {
		return out
	}
	container.Find("a").Each(func(_ int, a *goquery.Selection) {
		out = append(out, strings.TrimSpace(a.Text()))
	})
	return out
}

func extractCommentsCount(doc *goquery.Document, record *archive.PostRecord) {
	sel := doc.Find(".comments-link").First()
	if sel.Length() == 0 {
		return
	}
	count := 0
	if digits := digitsPattern.FindString(sel.Text()); digits != "" {
		if n, err := strconv.Atoi(digits); err == nil {
			count = n
		}
	}
	record.CommentsCount = &count
}
