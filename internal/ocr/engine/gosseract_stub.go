//go:build !cgo

package engine

import (
	"context"
	"fmt"
	stdimage "image"

	"omniocr/internal/config"
)

type GosseractEngine struct{}

func NewGosseractEngine(cfg config.TesseractConfig, fallbackLangs string) (*GosseractEngine, error) {
	return nil, fmt.Errorf("%w: tesseract support requires a cgo build", ErrUnavailable)
}

func (g *GosseractEngine) Name() string { return "tesseract" }

func (g *GosseractEngine) Recognize(ctx context.Context, img stdimage.Image, lang string) (string, error) {
	return "", fmt.Errorf("%w: tesseract support requires a cgo build", ErrUnavailable)
}

func (g *GosseractEngine) Close() error { return nil }
