package archive

import (
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
)

// maxSlugLen bounds the file name derived from a post slug. Two distinct
// slugs sharing a 100-character prefix map to the same file; this is a known
// limitation of the layout, exercised by a boundary test rather than fixed.
const maxSlugLen = 100

var (
	permalinkPattern = regexp.MustCompile(`/(\d{4})/(\d{2})/\d{2}/([^/]+)/?`)
	unsafeSlugChars  = regexp.MustCompile(`[^\w\-]`)
)

// PathResolver maps post URLs to deterministic record file paths under the
// archive root: year/month/slug.json for dated permalinks, a misc bucket for
// everything else.
type PathResolver struct {
	root string
}

// NewPathResolver returns a resolver rooted at dir.
func NewPathResolver(root string) *PathResolver {
	return &PathResolver{root: root}
}

// Resolve derives the record path for a post URL. The mapping is pure; the
// caller creates directories when writing.
func (r *PathResolver) Resolve(rawURL string) string {
	if m := permalinkPattern.FindStringSubmatch(rawURL); m != nil {
		year, month, slug := m[1], m[2], m[3]
		slug = truncate(unsafeSlugChars.ReplaceAllString(slug, "_"), maxSlugLen)
		return filepath.Join(r.root, year, month, slug+".json")
	}

	// Non-standard URL: flatten the whole path into the misc bucket.
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
	}
	slug := strings.ReplaceAll(strings.Trim(p, "/"), "/", "_")
	slug = truncate(slug, maxSlugLen)
	return filepath.Join(r.root, "misc", slug+".json")
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

// Root returns the archive root directory.
func (r *PathResolver) Root() string {
	return r.root
}
