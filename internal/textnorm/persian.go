// Package textnorm normalises recognised Persian text with a fixed
// character substitution table.
package textnorm

import "strings"

// None of the replacement values contain a source character, so applying
// the table once is the same as applying it any number of times, in any
// order.
var persianReplacements = [][2]string{
	{"ي", "ی"},  // Arabic yeh -> Farsi yeh
	{"ك", "ک"},  // Arabic kaf -> keheh
	{"ۀ", "ه"},  // heh with yeh above
	{"ﻻ", "لا"}, // lam-alef ligature
	{"ﺓ", "ة"},  // teh marbuta isolated form
	{"ـ", ""},  // tatweel
	{"ﺵ", "ش"},  // sheen isolated form
	{"ﺖ", "ت"},  // teh final form
	{"ﺅ", "ؤ"},  // waw with hamza isolated form
}

var persianReplacer = newReplacer(persianReplacements)

func newReplacer(pairs [][2]string) *strings.Replacer {
	oldnew := make([]string, 0, len(pairs)*2)
	for _, p := range pairs {
		oldnew = append(oldnew, p[0], p[1])
	}
	return strings.NewReplacer(oldnew...)
}

// NormalizePersian maps the nine known OCR confusions to their canonical
// Persian characters, collapses whitespace runs to one space and trims.
func NormalizePersian(text string) string {
	cleaned := persianReplacer.Replace(text)
	return strings.Join(strings.Fields(cleaned), " ")
}

// sources returns the characters the table rewrites.
func sources() []string {
	out := make([]string, len(persianReplacements))
	for i, p := range persianReplacements {
		out[i] = p[0]
	}
	return out
}
