// Package indexer builds and persists the consolidated discovery index.
package indexer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/lancehart/blogvault/internal/archive"
)

// Builder assembles the index artifact from a discovery pass.
type Builder struct {
	source string
	clock  func() time.Time
}

// NewBuilder returns a Builder stamping source as the index origin.
func NewBuilder(source string) *Builder {
	return &Builder{source: source, clock: time.Now}
}

// NewBuilderWithClock returns a Builder with an injected clock for tests.
func NewBuilderWithClock(source string, clock func() time.Time) *Builder {
	return &Builder{source: source, clock: clock}
}

// Build wraps the discovered references with generation metadata, sorted by
// effective date descending. The sort is stable so same-date posts keep
// their discovery order across runs; undated posts sort last.
func (b *Builder) Build(refs []archive.PostReference) archive.Index {
	posts := make([]archive.PostReference, len(refs))
	copy(posts, refs)
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].EffectiveDate() > posts[j].EffectiveDate()
	})

	return archive.Index{
		GeneratedAt: b.clock().Format(time.RFC3339),
		TotalPosts:  len(posts),
		Source:      b.source,
		Posts:       posts,
	}
}

// Write persists the index to path, overwriting any previous index in full.
func (b *Builder) Write(path string, idx archive.Index) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create index dir for %s: %w", path, err)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(idx); err != nil {
		return fmt.Errorf("marshal index: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("write index %s: %w", path, err)
	}
	return nil
}
