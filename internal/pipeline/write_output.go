package pipeline

import (
	"context"
	"errors"
	"path/filepath"

	"omniocr/internal/logger"
	"omniocr/internal/writer"
)

func writeOutput(ctx context.Context,
	job Job,
	text *writer.TextWriter,
	manifest *writer.CSVWriter[manifestRow],
	results <-chan result,
	counter *summaryCounter) {
	manifestPath := filepath.Join(job.OutputDir, ManifestName)

	for res := range results {
		if err := ctx.Err(); err != nil && errors.Is(res.err, err) {
			// interrupted, not failed: keep whatever output already exists
			logger.DebugLog("[writeOutput]: %s interrupted, not written", res.item.path)
			continue
		}

		content := res.text
		row := manifestRow{Input: res.item.path, Output: res.item.output, Status: "ok"}
		if res.err != nil {
			logger.Warnf("Error processing %s: %v", filepath.Base(res.item.path), res.err)
			content = errorContent(res.err)
			row.Status = "error"
			row.Error = res.err.Error()
		}

		// results finished before cancellation are still written
		if err := text.Write(context.WithoutCancel(ctx), res.item.output, content); err != nil {
			logger.Errorf("[writeOutput]: writing %s: %v", res.item.output, err)
			row.Status = "error"
			row.Error = err.Error()
		}

		counter.add(func(s *Summary) {
			if row.Status == "ok" {
				s.Succeeded++
			} else {
				s.Failed++
			}
		})

		if manifest != nil {
			if err := manifest.Append([]manifestRow{row}, manifestPath); err != nil {
				logger.Errorf("[writeOutput]: writing manifest: %v", err)
			}
		}
		logger.DebugLog("[writeOutput]: wrote %s (%s)", res.item.output, row.Status)
	}
}
