// Package checkpoint persists crawl progress so interrupted runs can resume
// without refetching anything already archived.
package checkpoint

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/lancehart/blogvault/internal/archive"
)

// fileState is the durable JSON shape of the checkpoint.
type fileState struct {
	ScrapedURLs []string `json:"scraped_urls"`
	FailedURLs  []string `json:"failed_urls"`
	LastRun     *string  `json:"last_run"`
}

// Store reads and writes the checkpoint file. Saves go through a temp file
// and rename so a crash mid-write never leaves a corrupt checkpoint behind.
type Store struct {
	path  string
	clock func() time.Time
}

// NewStore returns a Store persisting to path.
func NewStore(path string) *Store {
	return &Store{path: path, clock: time.Now}
}

// NewStoreWithClock returns a Store with an injected clock for tests.
func NewStoreWithClock(path string, clock func() time.Time) *Store {
	return &Store{path: path, clock: clock}
}

// Load reads the checkpoint from disk. An absent file yields an empty state;
// that is the normal first-run condition, not an error.
func (s *Store) Load() (*archive.CrawlState, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return archive.NewCrawlState(), nil
		}
		return nil, fmt.Errorf("read checkpoint %s: %w", s.path, err)
	}

	var fs fileState
	if err := json.Unmarshal(data, &fs); err != nil {
		return nil, fmt.Errorf("parse checkpoint %s: %w", s.path, err)
	}

	state := archive.NewCrawlState()
	for _, u := range fs.ScrapedURLs {
		state.ScrapedURLs[u] = struct{}{}
	}
	for _, u := range fs.FailedURLs {
		state.FailedURLs[u] = struct{}{}
	}
	if fs.LastRun != nil {
		if t, err := time.Parse(time.RFC3339, *fs.LastRun); err == nil {
			state.LastRun = &t
		}
	}
	return state, nil
}

// Save stamps the current time as last_run and overwrites the checkpoint in
// full. URL sets are serialized sorted so successive saves of the same state
// are byte-identical.
func (s *Store) Save(state *archive.CrawlState) error {
	now := s.clock()
	state.LastRun = &now

	lastRun := now.Format(time.RFC3339)
	fs := fileState{
		ScrapedURLs: sortedKeys(state.ScrapedURLs),
		FailedURLs:  sortedKeys(state.FailedURLs),
		LastRun:     &lastRun,
	}

	data, err := json.MarshalIndent(fs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal checkpoint: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create checkpoint dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".checkpoint-*")
	if err != nil {
		return fmt.Errorf("create checkpoint temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write checkpoint temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close checkpoint temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace checkpoint %s: %w", s.path, err)
	}
	return nil
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
