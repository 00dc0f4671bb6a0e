// Package jsonfile writes snapshots as indented JSON documents.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/couchcryptid/storm-data-reliability/internal/domain"
)

// Writer persists each snapshot to a single file, replacing the previous one.
// The file is written to a temporary sibling and renamed into place so
// readers never observe a partial document.
type Writer struct {
	path   string
	logger *slog.Logger
}

// NewWriter creates a Writer targeting path.
func NewWriter(path string, logger *slog.Logger) *Writer {
	return &Writer{path: path, logger: logger}
}

// Load implements pipeline.Loader.
func (w *Writer) Load(ctx context.Context, snap domain.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(w.path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // no-op after a successful rename

	if err := Encode(tmp, snap); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), w.path); err != nil {
		return fmt.Errorf("replace %s: %w", w.path, err)
	}

	w.logger.Debug("snapshot written", "path", w.path, "profiles", len(snap.Profiles))
	return nil
}

// Encode writes snap to dst as indented JSON followed by a newline.
func Encode(dst io.Writer, snap domain.Snapshot) error {
	enc := json.NewEncoder(dst)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}

// ReadFile decodes a snapshot previously written by Writer or Encode.
func ReadFile(path string) (domain.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("read snapshot: %w", err)
	}
	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return domain.Snapshot{}, fmt.Errorf("parse snapshot: %w", err)
	}
	return snap, nil
}
