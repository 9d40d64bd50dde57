package archive

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// RecordSink persists post records as indented UTF-8 JSON files. Non-ASCII
// characters are written literally and HTML characters are not escaped, so
// the files stay human-readable and stable for downstream consumers.
type RecordSink struct {
	root   string
	logger *zap.Logger
}

// NewRecordSink returns a sink rooted at dir, creating it if absent.
func NewRecordSink(root string, logger *zap.Logger) (*RecordSink, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("create archive root %s: %w", root, err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordSink{root: root, logger: logger}, nil
}

// Write serializes one record to target. Parent directories are created
// idempotently; an existing file is overwritten in full.
func (s *RecordSink) Write(record *PostRecord, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		return fmt.Errorf("create record dir for %s: %w", target, err)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(record); err != nil {
		return fmt.Errorf("marshal record %s: %w", record.URL, err)
	}

	if err := os.WriteFile(target, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("write record %s: %w", target, err)
	}
	s.logger.Debug("record written", zap.String("url", record.URL), zap.String("path", target))
	return nil
}
