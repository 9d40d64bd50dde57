package checkpoint_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lancehart/blogvault/internal/archive"
	"github.com/lancehart/blogvault/internal/checkpoint"
)

func TestStore_Load(t *testing.T) {
	t.Run("AbsentFileYieldsEmptyState", func(t *testing.T) {
		store := checkpoint.NewStore(filepath.Join(t.TempDir(), "progress.json"))
		state, err := store.Load()
		require.NoError(t, err)
		assert.Empty(t, state.ScrapedURLs)
		assert.Empty(t, state.FailedURLs)
		assert.Nil(t, state.LastRun)
	})

	t.Run("CorruptFileIsAnError", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "progress.json")
		require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o600))
		_, err := checkpoint.NewStore(path).Load()
		require.Error(t, err)
	})
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.json")
	now := time.Date(2024, 3, 8, 10, 0, 0, 0, time.UTC)
	store := checkpoint.NewStoreWithClock(path, func() time.Time { return now })

	state := archive.NewCrawlState()
	state.MarkScraped("https://example.org/2024/03/07/b/")
	state.MarkScraped("https://example.org/2024/03/07/a/")
	state.MarkFailed("https://example.org/2024/03/07/c/")

	require.NoError(t, store.Save(state))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.True(t, loaded.Scraped("https://example.org/2024/03/07/a/"))
	assert.True(t, loaded.Scraped("https://example.org/2024/03/07/b/"))
	assert.Contains(t, loaded.FailedURLs, "https://example.org/2024/03/07/c/")
	require.NotNil(t, loaded.LastRun)
	assert.True(t, loaded.LastRun.Equal(now))
}

func TestStore_Save(t *testing.T) {
	t.Run("URLsSerializedSorted", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "progress.json")
		store := checkpoint.NewStore(path)

		state := archive.NewCrawlState()
		state.MarkScraped("https://example.org/z/")
		state.MarkScraped("https://example.org/a/")
		require.NoError(t, store.Save(state))

		var fs struct {
			ScrapedURLs []string `json:"scraped_urls"`
		}
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(data, &fs))
		assert.Equal(t, []string{"https://example.org/a/", "https://example.org/z/"}, fs.ScrapedURLs)
	})

	t.Run("NoTempFileLeftBehind", func(t *testing.T) {
		dir := t.TempDir()
		store := checkpoint.NewStore(filepath.Join(dir, "progress.json"))
		require.NoError(t, store.Save(archive.NewCrawlState()))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "progress.json", entries[0].Name())
	})

	t.Run("OverwritesInFull", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "progress.json")
		store := checkpoint.NewStore(path)

		first := archive.NewCrawlState()
		first.MarkScraped("https://example.org/old/")
		require.NoError(t, store.Save(first))

		second := archive.NewCrawlState()
		second.MarkScraped("https://example.org/new/")
		require.NoError(t, store.Save(second))

		loaded, err := store.Load()
		require.NoError(t, err)
		assert.False(t, loaded.Scraped("https://example.org/old/"))
		assert.True(t, loaded.Scraped("https://example.org/new/"))
	})
}
