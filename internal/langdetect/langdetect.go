// Package langdetect reports the language of recognised text as an
// ISO 639-1 tag.
package langdetect

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/pemistahl/lingua-go"
)

type Detector struct {
	detector lingua.LanguageDetector
}

// New builds a detector limited to the given ISO 639-1 codes. At least two
// languages are required.
func New(codes []string) (*Detector, error) {
	var langs []lingua.Language
	for _, code := range codes {
		iso := lingua.GetIsoCode639_1FromValue(strings.ToUpper(strings.TrimSpace(code)))
		lang := lingua.GetLanguageFromIsoCode639_1(iso)
		if lang == lingua.Unknown {
			return nil, fmt.Errorf("unknown detection language: %s", code)
		}
		langs = append(langs, lang)
	}
	if len(langs) < 2 {
		return nil, fmt.Errorf("language detection needs at least two languages, got %d", len(langs))
	}

	d := lingua.NewLanguageDetectorBuilder().
		FromLanguages(langs...).
		Build()
	return &Detector{detector: d}, nil
}

// Detect returns the language tag, or "" when text holds no letters or the
// language cannot be decided.
func (d *Detector) Detect(text string) string {
	if !hasLetter(text) {
		return ""
	}
	lang, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return ""
	}
	return strings.ToLower(lang.IsoCode639_1().String())
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
