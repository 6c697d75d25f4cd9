package engine

import (
	"errors"
	"fmt"
	"strings"

	"omniocr/internal/langhint"
)

// ErrUnavailable marks an engine whose backing library or credentials are
// missing from this build or environment.
var ErrUnavailable = errors.New("engine unavailable")

func readerPrompt(lang string) string {
	var b strings.Builder
	b.WriteString("You are an OCR engine. Transcribe all text visible in this image exactly as written, ")
	b.WriteString("preserving line breaks and reading order. ")
	if names := langhint.Names(lang); len(names) > 0 {
		fmt.Fprintf(&b, "The text is written in %s. ", strings.Join(names, " and "))
	}
	b.WriteString("Return only the transcribed text with no commentary. If the image contains no text, return an empty response.")
	return b.String()
}
