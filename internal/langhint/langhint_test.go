package langhint

import (
	"reflect"
	"testing"
)

func TestTesseract(t *testing.T) {
	testCases := []struct {
		hint     string
		fallback string
		expected string
	}{
		{"auto", "eng+fas", "eng+fas"},
		{"", "eng", "eng"},
		{"fa", "eng", "fas"},
		{"en", "eng", "eng"},
		{"eng+fas", "eng", "eng+fas"},
		{"en,fa", "eng", "eng+fas"},
		{"en+eng", "fas", "eng"},
		{"chi_sim", "eng", "chi_sim"},
	}

	for _, tc := range testCases {
		t.Run(tc.hint, func(t *testing.T) {
			if got := Tesseract(tc.hint, tc.fallback); got != tc.expected {
				t.Errorf("Tesseract(%q, %q) = %q, expected %q", tc.hint, tc.fallback, got, tc.expected)
			}
		})
	}
}

func TestNames(t *testing.T) {
	if got := Names("auto"); got != nil {
		t.Errorf("expected nil for auto, got %v", got)
	}

	got := Names("fa+en")

	expected := []string{"Persian", "English"}
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("expected %v, got %v", expected, got)
	}
}
