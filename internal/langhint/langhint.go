// Package langhint turns user language hints ("auto", "fa", "eng+fas",
// "en,fa") into the forms each backend expects.
package langhint

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

const Auto = "auto"

// tesseract traineddata names that differ from ISO 639-3
var tesseractOverrides = map[string]string{
	"zho": "chi_sim",
}

func IsAuto(hint string) bool {
	h := strings.TrimSpace(strings.ToLower(hint))
	return h == "" || h == Auto
}

func split(hint string) []string {
	return strings.FieldsFunc(hint, func(r rune) bool {
		return r == '+' || r == ',' || r == ' '
	})
}

// Tesseract maps a hint to a "+"-joined list of tesseract language codes.
// Auto or empty hints return fallback unchanged. Parts that are not BCP 47
// tags (for example "chi_sim") are passed through as written.
func Tesseract(hint, fallback string) string {
	if IsAuto(hint) {
		return fallback
	}

	seen := make(map[string]bool)
	var codes []string
	for _, part := range split(hint) {
		code := tesseractCode(part)
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true
		codes = append(codes, code)
	}
	if len(codes) == 0 {
		return fallback
	}
	return strings.Join(codes, "+")
}

func tesseractCode(part string) string {
	if strings.Contains(part, "_") {
		return part
	}
	tag, err := language.Parse(part)
	if err != nil {
		return part
	}
	base, conf := tag.Base()
	if conf == language.No {
		return part
	}
	iso3 := base.ISO3()
	if override, ok := tesseractOverrides[iso3]; ok {
		return override
	}
	return iso3
}

// Names returns English language names for a hint, e.g. "fa" -> "Persian".
// Auto hints return nil.
func Names(hint string) []string {
	if IsAuto(hint) {
		return nil
	}
	namer := display.English.Languages()
	var names []string
	for _, part := range split(hint) {
		name := part
		if tag, err := language.Parse(strings.SplitN(part, "_", 2)[0]); err == nil {
			if n := namer.Name(tag); n != "" {
				name = n
			}
		}
		names = append(names, name)
	}
	return names
}
