package ocr

import (
	"context"
	"errors"
	"fmt"

	"omniocr/internal/logger"
)

// DefaultCorrectionLanguage is the detected language that triggers the
// correction call.
const DefaultCorrectionLanguage = "fa"

// Facade hides which backend serves a recognition call and applies the
// single-language correction step to its output.
type Facade struct {
	engine     Engine
	detector   Detector
	corrector  Corrector
	correctFor string
}

type FacadeOption func(*Facade)

// WithCorrection sets the detector and corrector used after recognition.
// Text is corrected only when the detector returns lang.
func WithCorrection(d Detector, c Corrector, lang string) FacadeOption {
	return func(f *Facade) {
		f.detector = d
		f.corrector = c
		if lang != "" {
			f.correctFor = lang
		}
	}
}

func NewFacade(e Engine, opts ...FacadeOption) *Facade {
	f := &Facade{engine: e, correctFor: DefaultCorrectionLanguage}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Facade) Engine() string { return f.engine.Name() }

func (f *Facade) Recognize(ctx context.Context, req Request) (Result, error) {
	if req.Image == nil {
		return Result{}, DecodeError("recognize", errors.New("no image"))
	}
	res := Result{Engine: f.engine.Name()}

	text, err := f.engine.Recognize(ctx, req.Image, req.Lang)
	if err != nil {
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		return Result{}, BackendError(f.engine.Name(), err)
	}
	res.Text = text

	if f.detector == nil {
		return res, nil
	}
	res.Language = f.detector.Detect(text)
	if res.Language != f.correctFor || f.corrector == nil {
		return res, nil
	}

	logger.DebugLog("[facade]: correcting %d bytes of %s text", len(text), res.Language)
	corrected, err := f.corrector.Correct(ctx, text)
	if err != nil {
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		return Result{}, BackendError("correct", fmt.Errorf("correcting %s text: %w", res.Language, err))
	}
	res.Text = corrected
	res.Corrected = true
	return res, nil
}

func (f *Facade) Close() error {
	return f.engine.Close()
}
