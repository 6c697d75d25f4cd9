package ocr

import (
	"context"
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
)

type fakeEngine struct {
	text   string
	err    error
	closed bool
}

func (f *fakeEngine) Name() string { return "fake" }
func (f *fakeEngine) Recognize(ctx context.Context, img image.Image, lang string) (string, error) {
	return f.text, f.err
}
func (f *fakeEngine) Close() error { f.closed = true; return nil }

type fixedDetector string

func (d fixedDetector) Detect(string) string { return string(d) }

type recordingCorrector struct {
	calls int
	err   error
}

func (r *recordingCorrector) Correct(ctx context.Context, text string) (string, error) {
	r.calls++
	if r.err != nil {
		return "", r.err
	}
	return "corrected:" + text, nil
}

func blankImage() image.Image {
	return imaging.New(300, 100, color.White)
}

func TestFacade_CorrectsOnlyConfiguredLanguage(t *testing.T) {
	testCases := []struct {
		detected      string
		wantCorrected bool
	}{
		{detected: "fa", wantCorrected: true},
		{detected: "en", wantCorrected: false},
		{detected: "ar", wantCorrected: false},
		{detected: "", wantCorrected: false},
	}

	for _, tc := range testCases {
		t.Run("detected="+tc.detected, func(t *testing.T) {
			// Arrange
			corr := &recordingCorrector{}
			f := NewFacade(&fakeEngine{text: "raw"}, WithCorrection(fixedDetector(tc.detected), corr, ""))

			// Act
			res, err := f.Recognize(context.Background(), Request{Image: blankImage(), Lang: "auto"})

			// Assert
			if err != nil {
				t.Fatalf("recognize: %v", err)
			}
			if res.Corrected != tc.wantCorrected {
				t.Errorf("corrected = %v, expected %v", res.Corrected, tc.wantCorrected)
			}
			wantText := "raw"
			wantCalls := 0
			if tc.wantCorrected {
				wantText = "corrected:raw"
				wantCalls = 1
			}
			if res.Text != wantText || corr.calls != wantCalls {
				t.Errorf("text=%q calls=%d, expected %q and %d", res.Text, corr.calls, wantText, wantCalls)
			}
			if res.Language != tc.detected {
				t.Errorf("language = %q, expected %q", res.Language, tc.detected)
			}
		})
	}
}

func TestFacade_BlankTextPassesThrough(t *testing.T) {
	f := NewFacade(&fakeEngine{text: "  \n"}, WithCorrection(fixedDetector(""), &recordingCorrector{}, "fa"))

	res, err := f.Recognize(context.Background(), Request{Image: blankImage()})

	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(res.Text) != "" || res.Text != "  \n" {
		t.Errorf("facade altered blank output: %q", res.Text)
	}
}

func TestFacade_Errors(t *testing.T) {
	engineErr := NewFacade(&fakeEngine{err: errors.New("boom")})
	_, err := engineErr.Recognize(context.Background(), Request{Image: blankImage()})
	if !errors.Is(err, ErrBackend) || !Retryable(err) {
		t.Errorf("expected retryable backend error, got %v", err)
	}

	_, err = engineErr.Recognize(context.Background(), Request{})
	if !errors.Is(err, ErrDecode) {
		t.Errorf("expected decode error for missing image, got %v", err)
	}

	corrErr := NewFacade(&fakeEngine{text: "x"}, WithCorrection(fixedDetector("fa"), &recordingCorrector{err: errors.New("down")}, ""))
	_, err = corrErr.Recognize(context.Background(), Request{Image: blankImage()})
	if !errors.Is(err, ErrBackend) {
		t.Errorf("expected backend error from corrector, got %v", err)
	}
}

func TestFacade_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f := NewFacade(&fakeEngine{err: context.Canceled})

	_, err := f.Recognize(ctx, Request{Image: blankImage()})

	if !errors.Is(err, context.Canceled) || Retryable(err) {
		t.Errorf("expected non-retryable cancellation, got %v", err)
	}
}
