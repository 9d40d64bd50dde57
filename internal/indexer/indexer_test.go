package indexer_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lancehart/blogvault/internal/archive"
	"github.com/lancehart/blogvault/internal/indexer"
)

func ref(url, date string) archive.PostReference {
	r := archive.PostReference{URL: url}
	if date != "" {
		r.Date = &date
	}
	return r
}

func testBuilder() *indexer.Builder {
	return indexer.NewBuilderWithClock("https://example.org/sitemap_index.xml", func() time.Time {
		return time.Date(2024, 3, 8, 10, 0, 0, 0, time.UTC)
	})
}

func TestBuilder_Build(t *testing.T) {
	t.Run("SortedByDateDescendingUndatedLast", func(t *testing.T) {
		idx := testBuilder().Build([]archive.PostReference{
			ref("https://example.org/2023/01/01/older/", "2023-01-01"),
			ref("https://example.org/undated/", ""),
			ref("https://example.org/2023/06/01/newer/", "2023-06-01"),
		})

		require.Equal(t, 3, idx.TotalPosts)
		assert.Equal(t, "https://example.org/2023/06/01/newer/", idx.Posts[0].URL)
		assert.Equal(t, "https://example.org/2023/01/01/older/", idx.Posts[1].URL)
		assert.Equal(t, "https://example.org/undated/", idx.Posts[2].URL)
	})

	t.Run("StableForSameDatePosts", func(t *testing.T) {
		idx := testBuilder().Build([]archive.PostReference{
			ref("https://example.org/2023/06/01/first-in-sitemap/", "2023-06-01"),
			ref("https://example.org/2023/06/01/second-in-sitemap/", "2023-06-01"),
			ref("https://example.org/2023/06/01/third-in-sitemap/", "2023-06-01"),
		})

		assert.Equal(t, "https://example.org/2023/06/01/first-in-sitemap/", idx.Posts[0].URL)
		assert.Equal(t, "https://example.org/2023/06/01/second-in-sitemap/", idx.Posts[1].URL)
		assert.Equal(t, "https://example.org/2023/06/01/third-in-sitemap/", idx.Posts[2].URL)
	})

	t.Run("InputOrderPreserved", func(t *testing.T) {
		refs := []archive.PostReference{
			ref("https://example.org/2023/01/01/a/", "2023-01-01"),
			ref("https://example.org/2023/06/01/b/", "2023-06-01"),
		}
		_ = testBuilder().Build(refs)
		assert.Equal(t, "https://example.org/2023/01/01/a/", refs[0].URL)
	})

	t.Run("Metadata", func(t *testing.T) {
		idx := testBuilder().Build(nil)
		assert.Equal(t, "https://example.org/sitemap_index.xml", idx.Source)
		assert.Equal(t, "2024-03-08T10:00:00Z", idx.GeneratedAt)
		assert.Zero(t, idx.TotalPosts)
	})
}

func TestBuilder_Write(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.json")
	b := testBuilder()
	idx := b.Build([]archive.PostReference{
		ref("https://example.org/2023/06/01/post/", "2023-06-01"),
	})
	require.NoError(t, b.Write(path, idx))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got archive.Index
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, idx.Source, got.Source)
	require.Len(t, got.Posts, 1)
	assert.Equal(t, "https://example.org/2023/06/01/post/", got.Posts[0].URL)

	t.Run("OverwritesPriorIndex", func(t *testing.T) {
		require.NoError(t, b.Write(path, b.Build(nil)))
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		var rewritten archive.Index
		require.NoError(t, json.Unmarshal(data, &rewritten))
		assert.Empty(t, rewritten.Posts)
	})
}
