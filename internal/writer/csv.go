package writer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

type WriteMode int

const (
	ModeReplace WriteMode = iota
	ModeAppend
)

var ErrClosed = errors.New("writer is shutting down")

type MapperFunc[T any] func(T) []string

type HeaderFunc func() []string

type writeRequest[T any] struct {
	rows       []T
	outputPath string
	mode       WriteMode
	responseCh chan error
}

// CSVWriter serialises every write through one goroutine, so rows from
// concurrent callers never interleave within a file.
type CSVWriter[T any] struct {
	queue    chan writeRequest[T]
	shutdown chan struct{}
	wg       sync.WaitGroup
	once     sync.Once
	// headers records which files already start with a header row; only
	// the worker goroutine touches it.
	headers map[string]bool
	mapper  MapperFunc[T]
	header  HeaderFunc
}

func NewCSVWriter[T any](mapper MapperFunc[T], header HeaderFunc) *CSVWriter[T] {
	cw := &CSVWriter[T]{
		queue:    make(chan writeRequest[T], 100),
		shutdown: make(chan struct{}),
		headers:  make(map[string]bool),
		mapper:   mapper,
		header:   header,
	}
	cw.startWorker()
	return cw
}

func (cw *CSVWriter[T]) startWorker() {
	cw.wg.Add(1)
	go func() {
		defer cw.wg.Done()
		for {
			select {
			case req := <-cw.queue:
				req.responseCh <- cw.write(req.rows, req.outputPath, req.mode)
			case <-cw.shutdown:
				return
			}
		}
	}()
}

func (cw *CSVWriter[T]) Close() {
	cw.once.Do(func() {
		close(cw.shutdown)
		cw.wg.Wait()
	})
}

// Append adds rows to outputPath, writing the header first if this writer
// has not written to the file yet.
func (cw *CSVWriter[T]) Append(rows []T, outputPath string) error {
	return cw.submit(rows, outputPath, ModeAppend)
}

// replace truncates outputPath and writes the header and rows.
func (cw *CSVWriter[T]) replace(rows []T, outputPath string) error {
	return cw.submit(rows, outputPath, ModeReplace)
}

func (cw *CSVWriter[T]) submit(rows []T, outputPath string, mode WriteMode) error {
	responseCh := make(chan error, 1)
	req := writeRequest[T]{
		rows:       rows,
		outputPath: outputPath,
		mode:       mode,
		responseCh: responseCh,
	}

	select {
	case <-cw.shutdown:
		return ErrClosed
	default:
	}
	select {
	case cw.queue <- req:
		return <-responseCh
	case <-cw.shutdown:
		return ErrClosed
	}
}

func (cw *CSVWriter[T]) write(rows []T, outputPath string, mode WriteMode) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	hasHeader := cw.headers[outputPath]
	var file *os.File
	var err error
	if mode == ModeAppend && hasHeader {
		file, err = os.OpenFile(outputPath, os.O_APPEND|os.O_WRONLY, 0o644)
	} else {
		file, err = os.Create(outputPath)
		hasHeader = false
		cw.headers[outputPath] = false
	}
	if err != nil {
		return fmt.Errorf("opening CSV file: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if !hasHeader && len(rows) > 0 {
		if err := w.Write(cw.header()); err != nil {
			return fmt.Errorf("writing CSV header: %w", err)
		}
		cw.headers[outputPath] = true
	}
	for _, row := range rows {
		if err := w.Write(cw.mapper(row)); err != nil {
			return fmt.Errorf("writing CSV record: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing CSV: %w", err)
	}
	return nil
}
