// Package export flattens archived post records into a single text corpus.
// It is a consumer of the archive's on-disk layout, not part of the crawl
// engine: it reads every year/month record file and concatenates title,
// date, and body text with fixed delimiters.
package export

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
)

const (
	sectionRule = "--------------------"
	recordRule  = "================================================================================"

	unknownDate  = "Unknown Date"
	unknownTitle = "No Title"
)

// record is the subset of the post record schema the exporter depends on.
// The crawl engine guarantees these keys stay stable.
type record struct {
	Title       *string `json:"title"`
	DateISO     *string `json:"date_iso"`
	DateFromURL *string `json:"date_from_url"`
	DateDisplay *string `json:"date_display"`
	ContentText *string `json:"content_text"`
}

// Exporter walks an archive root and writes the flat corpus file.
type Exporter struct {
	root   string
	logger *zap.Logger
}

// New returns an Exporter over the archive rooted at dir.
func New(root string, logger *zap.Logger) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{root: root, logger: logger}
}

// Run concatenates every record under <root>/YYYY/MM/*.json into outPath,
// sorted lexicographically by file path, and returns the number of posts
// written. Unreadable or malformed files are logged and skipped.
func (e *Exporter) Run(outPath string) (int, error) {
	pattern := filepath.Join(e.root, "*", "*", "*.json")
	files, err := filepath.Glob(pattern)
	if err != nil {
		return 0, fmt.Errorf("glob records %s: %w", pattern, err)
	}
	sort.Strings(files)
	e.logger.Info("records found", zap.Int("count", len(files)))

	out, err := os.Create(outPath)
	if err != nil {
		return 0, fmt.Errorf("create corpus %s: %w", outPath, err)
	}
	defer out.Close()

	w := bufio.NewWriter(out)
	count := 0
	for _, path := range files {
		rec, err := readRecord(path)
		if err != nil {
			e.logger.Warn("record skipped", zap.String("path", path), zap.Error(err))
			continue
		}
		writeSection(w, rec)
		count++
	}
	if err := w.Flush(); err != nil {
		return count, fmt.Errorf("flush corpus %s: %w", outPath, err)
	}
	if err := out.Close(); err != nil {
		return count, fmt.Errorf("close corpus %s: %w", outPath, err)
	}

	e.logger.Info("corpus written", zap.String("path", outPath), zap.Int("posts", count))
	return count, nil
}

func readRecord(path string) (record, error) {
	var rec record
	data, err := os.ReadFile(path)
	if err != nil {
		return rec, fmt.Errorf("read record: %w", err)
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return rec, fmt.Errorf("parse record: %w", err)
	}
	return rec, nil
}

func writeSection(w *bufio.Writer, rec record) {
	fmt.Fprintf(w, "Title: %s\n", stringOr(rec.Title, unknownTitle))
	fmt.Fprintf(w, "Date: %s\n", effectiveDate(rec))
	fmt.Fprintln(w, sectionRule)
	fmt.Fprintln(w, stringOr(rec.ContentText, ""))
	fmt.Fprintln(w, sectionRule)
	fmt.Fprintln(w, recordRule)
	fmt.Fprintln(w)
}

// effectiveDate prefers the machine-readable ISO date, then the URL-derived
// date, then the displayed text.
func effectiveDate(rec record) string {
	for _, d := range []*string{rec.DateISO, rec.DateFromURL, rec.DateDisplay} {
		if d != nil && strings.TrimSpace(*d) != "" {
			return *d
		}
	}
	return unknownDate
}

func stringOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}
