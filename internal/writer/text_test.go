package writer

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestTextWriter_Write(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.txt")
	w := NewTextWriter()

	// Act
	err1 := w.Write(context.Background(), path, "v1")
	err2 := w.Write(context.Background(), path, "سلام")

	// Assert
	if err1 != nil || err2 != nil {
		t.Fatalf("write: %v, %v", err1, err2)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "سلام" {
		t.Errorf("expected replaced content, got %q", b)
	}
	entries, _ := os.ReadDir(filepath.Dir(path))
	for _, e := range entries {
		if IsTemp(e.Name()) {
			t.Errorf("temp file not cleaned: %s", e.Name())
		}
	}
}

func TestTextWriter_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	path := filepath.Join(t.TempDir(), "out.txt")

	if err := NewTextWriter().Write(ctx, path, "x"); err == nil {
		t.Fatal("expected error")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("expected no output file, stat: %v", err)
	}
}
