package pipeline

import (
	"context"
	"fmt"
	stdimage "image"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"omniocr/internal/image"
	"omniocr/internal/logger"
	"omniocr/internal/ocr"
	"omniocr/internal/writer"
)

const ManifestName = "manifest.csv"

// Recognizer is the part of ocr.Facade the batch needs.
type Recognizer interface {
	Recognize(ctx context.Context, req ocr.Request) (ocr.Result, error)
}

// PageRenderer rasterises PDF pages; pdf.Rasterizer implements it.
type PageRenderer interface {
	PageCount(path string) (int, error)
	RenderPage(ctx context.Context, path string, page int) (stdimage.Image, error)
}

type Clients struct {
	Recognizer Recognizer
	// Pages enables PDF inputs; nil means PDFs are skipped as unsupported.
	Pages PageRenderer
}

type Job struct {
	InputDir  string
	OutputDir string
	Lang      string
	// Workers bounds concurrent items; <= 0 means runtime.NumCPU().
	Workers    int
	Preprocess bool
	Threshold  uint8
	// Manifest writes manifest.csv with one row per item.
	Manifest bool
}

type Summary struct {
	Succeeded int
	Failed    int
	Skipped   int
}

// Outputs is the number of text files the run wrote.
func (s Summary) Outputs() int { return s.Succeeded + s.Failed }

type kind int

const (
	kindImage kind = iota
	kindPDF
)

type item struct {
	path   string
	output string
	kind   kind
}

type result struct {
	item item
	text string
	err  error
}

type summaryCounter struct {
	mu sync.Mutex
	Summary
}

func (s *summaryCounter) add(f func(*Summary)) {
	s.mu.Lock()
	f(&s.Summary)
	s.mu.Unlock()
}

func (s *summaryCounter) snapshot() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Summary
}

// Run recognises every accepted file in job.InputDir and writes one text
// file per file into job.OutputDir. A failing item gets an "ERROR: ..."
// marker in its own output and never stops the batch. Run only returns an
// error when the directories themselves are unusable or ctx is cancelled.
func Run(ctx context.Context, clients Clients, job Job) (Summary, error) {
	if clients.Recognizer == nil {
		return Summary{}, ocr.ConfigError("batch", fmt.Errorf("no recognizer"))
	}
	workers := job.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	logger.DebugLog("Pipeline started with directory=%s, output=%s, workers=%d", job.InputDir, job.OutputDir, workers)

	entries, err := os.ReadDir(job.InputDir)
	if err != nil {
		return Summary{}, fmt.Errorf("reading directory %s: %w", job.InputDir, err)
	}
	if err := os.MkdirAll(job.OutputDir, 0o755); err != nil {
		return Summary{}, fmt.Errorf("creating output directory %s: %w", job.OutputDir, err)
	}

	counter := &summaryCounter{}
	files := make(chan item)
	results := make(chan result, workers)
	processor := image.NewImageProcessor(job.Threshold)

	go func() {
		defer close(files)
		logger.DebugLog("Starting [walkFiles] goroutine")
		walkFiles(ctx, job, entries, clients.Pages != nil, files, counter)
		logger.DebugLog("[walkFiles] goroutine finished")
	}()

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		worker := i + 1
		g.Go(func() error {
			logger.DebugLog("Starting [performOcr] worker #%d", worker)
			performOcr(gctx, clients, job, processor, files, results)
			logger.DebugLog("[performOcr] worker #%d finished", worker)
			return nil
		})
	}
	go func() {
		g.Wait()
		logger.DebugLog("All [performOcr] workers finished, closing results")
		close(results)
	}()

	var manifest *writer.CSVWriter[manifestRow]
	if job.Manifest {
		manifest = writer.NewCSVWriter(mapManifestRow, manifestHeader)
		defer manifest.Close()
	}
	writeOutput(ctx, job, writer.NewTextWriter(), manifest, results, counter)

	summary := counter.snapshot()
	logger.DebugLog("Pipeline finished: %+v", summary)
	if err := ctx.Err(); err != nil {
		return summary, err
	}
	return summary, nil
}

func outputPath(outputDir, fileName string) string {
	base := fileName[:len(fileName)-len(filepath.Ext(fileName))]
	return filepath.Join(outputDir, base+".txt")
}
