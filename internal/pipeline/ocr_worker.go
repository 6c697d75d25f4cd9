package pipeline

import (
	"context"
	"errors"
	"fmt"
	stdimage "image"
	"strings"

	"omniocr/internal/image"
	"omniocr/internal/logger"
	"omniocr/internal/ocr"
)

func performOcr(ctx context.Context, clients Clients, job Job, processor *image.ImageProcessor, files <-chan item, results chan<- result) {
	for it := range files {
		if ctx.Err() != nil {
			logger.DebugLog("[performOcr]: context cancelled")
			return
		}

		logger.DebugLog("[performOcr]: processing %s", it.path)
		text, err := processItem(ctx, clients, job, processor, it)

		select {
		case results <- result{item: it, text: text, err: err}:
		case <-ctx.Done():
			logger.DebugLog("[performOcr]: context done while sending result for %s", it.path)
			return
		}
	}
}

// processItem never panics out of a worker: a panic in a backend becomes
// this item's error.
func processItem(ctx context.Context, clients Clients, job Job, processor *image.ImageProcessor, it item) (text string, err error) {
	defer func() {
		if p := recover(); p != nil {
			text, err = "", ocr.BackendError(it.path, fmt.Errorf("panic: %v", p))
		}
	}()

	switch it.kind {
	case kindPDF:
		return recognizePDF(ctx, clients, job, processor, it.path)
	default:
		img, err := image.Open(it.path)
		if err != nil {
			return "", ocr.DecodeError("open", err)
		}
		return recognizeImage(ctx, clients.Recognizer, job, processor, img)
	}
}

func recognizeImage(ctx context.Context, rec Recognizer, job Job, processor *image.ImageProcessor, img stdimage.Image) (string, error) {
	if job.Preprocess {
		img = processor.EnhanceQuality(img)
	}
	res, err := rec.Recognize(ctx, ocr.Request{Image: img, Lang: job.Lang})
	if err != nil {
		return "", err
	}
	return postprocess(res.Text), nil
}

func recognizePDF(ctx context.Context, clients Clients, job Job, processor *image.ImageProcessor, path string) (string, error) {
	pages, err := clients.Pages.PageCount(path)
	if err != nil {
		return "", ocr.DecodeError("pdf", err)
	}
	if pages == 0 {
		return "", ocr.DecodeError("pdf", errors.New("document has no pages"))
	}

	texts := make([]string, 0, pages)
	for page := 1; page <= pages; page++ {
		img, err := clients.Pages.RenderPage(ctx, path, page)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			return "", ocr.DecodeError(fmt.Sprintf("render page %d", page), err)
		}
		text, err := recognizeImage(ctx, clients.Recognizer, job, processor, img)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", page, err)
		}
		texts = append(texts, text)
	}
	return strings.Join(texts, "\n"), nil
}
