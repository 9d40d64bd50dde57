package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lancehart/blogvault/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "post-sitemap", cfg.Source.PostSitemapMarker)
	assert.Equal(t, "./archive", cfg.Output.Dir)
	assert.Equal(t, "progress.json", cfg.Output.CheckpointFile)
	assert.Equal(t, "index.json", cfg.Output.IndexFile)
	assert.Equal(t, 30*time.Second, cfg.Timeout())
	assert.Equal(t, time.Second, cfg.Delay())
	assert.Equal(t, 10, cfg.Crawl.FlushEvery)
	assert.True(t, cfg.Logging.Development)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
source:
  sitemap_index_url: https://example.org/sitemap_index.xml
output:
  dir: /tmp/blog-archive
crawl:
  delay_ms: 250
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.ValidateSource())

	assert.Equal(t, "https://example.org/sitemap_index.xml", cfg.Source.SitemapIndexURL)
	assert.Equal(t, "/tmp/blog-archive", cfg.Output.Dir)
	assert.Equal(t, 250*time.Millisecond, cfg.Delay())
}

func TestValidate(t *testing.T) {
	base := func() config.Config {
		cfg, err := config.Load("")
		require.NoError(t, err)
		return cfg
	}

	t.Run("TimeoutMustBePositive", func(t *testing.T) {
		cfg := base()
		cfg.HTTP.TimeoutSeconds = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("NegativeDelayRejected", func(t *testing.T) {
		cfg := base()
		cfg.Crawl.DelayMs = -1
		assert.Error(t, cfg.Validate())
	})

	t.Run("FlushEveryMustBePositive", func(t *testing.T) {
		cfg := base()
		cfg.Crawl.FlushEvery = 0
		assert.Error(t, cfg.Validate())
	})
}

func TestValidateSource(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	t.Run("URLRequired", func(t *testing.T) {
		assert.Error(t, cfg.ValidateSource())
	})

	t.Run("RelativeURLRejected", func(t *testing.T) {
		c := cfg
		c.Source.SitemapIndexURL = "/sitemap_index.xml"
		assert.Error(t, c.ValidateSource())
	})

	t.Run("AbsoluteURLAccepted", func(t *testing.T) {
		c := cfg
		c.Source.SitemapIndexURL = "https://example.org/sitemap_index.xml"
		assert.NoError(t, c.ValidateSource())
	})
}
