//go:build cgo

package engine

import (
	"context"
	"image/color"
	"strings"
	"testing"

	"github.com/disintegration/imaging"

	"omniocr/internal/config"
)

func TestGosseractEngine_BlankImage(t *testing.T) {
	// Arrange
	e, err := NewGosseractEngine(config.TesseractConfig{PageSegMode: 3}, "eng")
	if err != nil {
		t.Skipf("tesseract unavailable: %v", err)
	}
	defer e.Close()
	img := imaging.New(300, 100, color.White)

	// Act
	text, err := e.Recognize(context.Background(), img, "eng")

	// Assert
	if err != nil {
		t.Skipf("tesseract could not run (missing traineddata?): %v", err)
	}
	if strings.TrimSpace(text) != "" {
		t.Errorf("expected no text on a blank image, got %q", text)
	}
}
