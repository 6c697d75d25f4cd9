package ocr

import (
	"context"
	"image"
)

// Engine is a recognition backend. Implementations live in the engine
// package and are selected by tag through NewEngine.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, img image.Image, lang string) (string, error)
	Close() error
}

// Detector reports the language of a text as an ISO 639-1 tag, or "" when
// none can be determined.
type Detector interface {
	Detect(text string) string
}

type Corrector interface {
	Correct(ctx context.Context, text string) (string, error)
}

// Request is one recognition call. Lang is the hint handed to the engine.
type Request struct {
	Image image.Image
	Lang  string
}

type Result struct {
	Text      string
	Engine    string
	Language  string
	Corrected bool
}
