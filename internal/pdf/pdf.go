// Package pdf rasterises PDF pages for recognition.
package pdf

import (
	"context"
	"errors"
	"fmt"
	stdimage "image"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	rpdf "rsc.io/pdf"

	ocrimage "omniocr/internal/image"
	"omniocr/internal/logger"
)

const DefaultDPI = 300

// ErrCorrupt marks a file that cannot be parsed as a PDF.
var ErrCorrupt = errors.New("corrupt pdf")

// Rasterizer renders pages with poppler's pdftoppm. Each render uses its
// own temporary directory, so concurrent renders never share files.
type Rasterizer struct {
	Binary string
	DPI    int
}

func NewRasterizer(binary string, dpi int) *Rasterizer {
	if binary == "" {
		binary = "pdftoppm"
	}
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	return &Rasterizer{Binary: binary, DPI: dpi}
}

// Available reports whether the pdftoppm binary can be found.
func (r *Rasterizer) Available() bool {
	_, err := exec.LookPath(r.Binary)
	return err == nil
}

// PageCount returns the number of pages in the PDF at path.
func (r *Rasterizer) PageCount(path string) (n int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening pdf %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("stat pdf %s: %w", path, err)
	}

	// rsc.io/pdf panics on some malformed inputs
	defer func() {
		if p := recover(); p != nil {
			n, err = 0, fmt.Errorf("%w: %s: %v", ErrCorrupt, path, p)
		}
	}()
	doc, err := rpdf.NewReader(f, info.Size())
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrCorrupt, path, err)
	}
	return doc.NumPage(), nil
}

// RenderPage rasterises the 1-based page of the PDF at path.
func (r *Rasterizer) RenderPage(ctx context.Context, path string, page int) (stdimage.Image, error) {
	tmpDir, err := os.MkdirTemp("", "omniocr-page-*")
	if err != nil {
		return nil, fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	prefix := filepath.Join(tmpDir, "page")
	p := strconv.Itoa(page)
	cmd := exec.CommandContext(ctx, r.Binary,
		"-f", p, "-l", p,
		"-r", strconv.Itoa(r.DPI),
		"-png", "-singlefile",
		path, prefix)
	logger.DebugLog("[pdf]: rendering page %d of %s", page, path)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("pdftoppm page %d: %w: %s", page, err, out)
	}
	return ocrimage.Open(prefix + ".png")
}
