package writer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// TextWriter writes whole text files atomically: content goes to a temp
// file in the destination directory which is then renamed over the target.
// A reader never observes a partially written output.
type TextWriter struct {
	permFile os.FileMode
	permDir  os.FileMode
}

func NewTextWriter() *TextWriter {
	return &TextWriter{permFile: 0o644, permDir: 0o755}
}

func (w *TextWriter) Write(ctx context.Context, path, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, w.permDir); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}

	if _, err := tmp.WriteString(text); err != nil {
		cleanup()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("syncing %s: %w", path, err)
	}
	if err := tmp.Chmod(w.permFile); err != nil {
		cleanup()
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("closing %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("renaming into %s: %w", path, err)
	}
	return nil
}

// IsTemp reports whether name is an in-progress file created by Write.
func IsTemp(name string) bool {
	return strings.HasPrefix(filepath.Base(name), ".tmp-")
}
