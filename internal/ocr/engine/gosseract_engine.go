//go:build cgo

package engine

import (
	"context"
	"fmt"
	stdimage "image"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"omniocr/internal/config"
	ocrimage "omniocr/internal/image"
	"omniocr/internal/langhint"
)

type GosseractEngine struct {
	cfg      config.TesseractConfig
	fallback string
}

// NewGosseractEngine checks that libtesseract is linked and usable. A
// gosseract.Client is not safe for concurrent use, so Recognize creates one
// per call.
func NewGosseractEngine(cfg config.TesseractConfig, fallbackLangs string) (*GosseractEngine, error) {
	if v := gosseract.Version(); v == "" {
		return nil, fmt.Errorf("%w: tesseract library not found", ErrUnavailable)
	}
	return &GosseractEngine{cfg: cfg, fallback: fallbackLangs}, nil
}

func (g *GosseractEngine) Name() string { return "tesseract" }

func (g *GosseractEngine) Recognize(ctx context.Context, img stdimage.Image, lang string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := ocrimage.EncodePNG(img)
	if err != nil {
		return "", err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if g.cfg.TessdataPrefix != "" {
		if err := client.SetTessdataPrefix(g.cfg.TessdataPrefix); err != nil {
			return "", fmt.Errorf("setting tessdata prefix: %w", err)
		}
	}
	langs := strings.Split(langhint.Tesseract(lang, g.fallback), "+")
	if err := client.SetLanguage(langs...); err != nil {
		return "", fmt.Errorf("setting language %v: %w", langs, err)
	}
	if err := client.SetPageSegMode(gosseract.PageSegMode(g.cfg.PageSegMode)); err != nil {
		return "", fmt.Errorf("setting page segmentation mode: %w", err)
	}
	if g.cfg.Whitelist != "" {
		if err := client.SetWhitelist(g.cfg.Whitelist); err != nil {
			return "", fmt.Errorf("setting whitelist: %w", err)
		}
	}
	if err := client.SetImageFromBytes(data); err != nil {
		return "", fmt.Errorf("loading image into tesseract: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("failed to extract text from image: %w", err)
	}
	return text, nil
}

func (g *GosseractEngine) Close() error {
	return nil
}
