// Package config loads and validates archiver configuration via Viper.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all archiver configuration knobs loaded via Viper.
type Config struct {
	Source  SourceConfig  `mapstructure:"source"`
	Output  OutputConfig  `mapstructure:"output"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	Crawl   CrawlConfig   `mapstructure:"crawl"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// SourceConfig identifies the site being archived.
type SourceConfig struct {
	// SitemapIndexURL is the top-level sitemap index of the blog.
	SitemapIndexURL string `mapstructure:"sitemap_index_url"`
	// PostSitemapMarker selects post sitemaps out of the index by substring.
	PostSitemapMarker string `mapstructure:"post_sitemap_marker"`
}

// OutputConfig sets the on-disk layout of the archive.
type OutputConfig struct {
	Dir            string `mapstructure:"dir"`
	CheckpointFile string `mapstructure:"checkpoint_file"`
	IndexFile      string `mapstructure:"index_file"`
}

// HTTPConfig controls outbound request behavior.
type HTTPConfig struct {
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	UserAgent      string `mapstructure:"user_agent"`
}

// CrawlConfig governs pipeline pacing and checkpoint cadence.
type CrawlConfig struct {
	// DelayMs is the uniform pause between outbound requests, sitemap and
	// post fetches alike.
	DelayMs int `mapstructure:"delay_ms"`
	// FlushEvery is the number of processed posts between checkpoint writes.
	FlushEvery int `mapstructure:"flush_every"`
}

// MetricsConfig enables the optional debug/metrics listener.
type MetricsConfig struct {
	// Addr is the listen address for /metrics and /healthz; empty disables it.
	Addr string `mapstructure:"addr"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("BLOGVAULT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("source.post_sitemap_marker", "post-sitemap")
	v.SetDefault("output.dir", "./archive")
	v.SetDefault("output.checkpoint_file", "progress.json")
	v.SetDefault("output.index_file", "index.json")
	v.SetDefault("http.timeout_seconds", 30)
	v.SetDefault("http.user_agent", "blogvault/1.0 (personal archive)")
	v.SetDefault("crawl.delay_ms", 1000)
	v.SetDefault("crawl.flush_every", 10)
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits. Source settings
// are checked separately by ValidateSource because only the crawl path needs
// them.
func (c Config) Validate() error {
	if c.Output.Dir == "" {
		return fmt.Errorf("output.dir is required")
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("http.timeout_seconds must be > 0")
	}
	if c.Crawl.DelayMs < 0 {
		return fmt.Errorf("crawl.delay_ms must be >= 0")
	}
	if c.Crawl.FlushEvery <= 0 {
		return fmt.Errorf("crawl.flush_every must be > 0")
	}
	return nil
}

// ValidateSource enforces the crawl-only source settings.
func (c Config) ValidateSource() error {
	if c.Source.SitemapIndexURL == "" {
		return fmt.Errorf("source.sitemap_index_url is required")
	}
	u, err := url.Parse(c.Source.SitemapIndexURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("source.sitemap_index_url must be an absolute URL")
	}
	if c.Source.PostSitemapMarker == "" {
		return fmt.Errorf("source.post_sitemap_marker must not be empty")
	}
	return nil
}

// Timeout converts the HTTP timeout config into a duration.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}

// Delay converts the crawl delay config into a duration.
func (c Config) Delay() time.Duration {
	return time.Duration(c.Crawl.DelayMs) * time.Millisecond
}
