package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"omniocr/internal/logger"
)

var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true,
	".tif": true, ".tiff": true, ".bmp": true,
	".gif": true, ".webp": true,
}

// media the desktop batch recognised but this build does not process
var unsupportedMedia = map[string]bool{
	".mp4": true, ".avi": true, ".mov": true, ".mkv": true,
	".srt": true, ".sub": true, ".idx": true,
}

func walkFiles(ctx context.Context, job Job, entries []os.DirEntry, pdfEnabled bool, results chan<- item, counter *summaryCounter) {
	for _, entry := range entries {
		if ctx.Err() != nil {
			logger.DebugLog("[walkFiles]: context cancelled")
			return
		}

		fileName := entry.Name()
		if entry.IsDir() {
			continue
		}
		fullPath := filepath.Join(job.InputDir, fileName)

		k, ok := classify(fileName, pdfEnabled)
		if !ok {
			counter.add(func(s *Summary) { s.Skipped++ })
			if unsupportedMedia[strings.ToLower(filepath.Ext(fileName))] || isPDF(fileName) {
				logger.Infof("Skipped unsupported file: %s", fileName)
			} else {
				logger.DebugLog("[walkFiles]: skipping %s", fileName)
			}
			continue
		}

		it := item{path: fullPath, output: outputPath(job.OutputDir, fileName), kind: k}
		logger.DebugLog("[walkFiles]: sending file %s", fullPath)
		select {
		case results <- it:
		case <-ctx.Done():
			logger.DebugLog("[walkFiles]: context done while sending file %s", fullPath)
			return
		}
	}
}

func classify(fileName string, pdfEnabled bool) (kind, bool) {
	if strings.HasPrefix(fileName, ".") {
		return 0, false
	}
	ext := strings.ToLower(filepath.Ext(fileName))
	switch {
	case imageExtensions[ext]:
		return kindImage, true
	case ext == ".pdf" && pdfEnabled:
		return kindPDF, true
	default:
		return 0, false
	}
}

func isPDF(fileName string) bool {
	return strings.EqualFold(filepath.Ext(fileName), ".pdf")
}
