package admission

import (
	"strings"
	"unicode"
)

// Normalize collapses every run of whitespace, newlines included, into a
// single space and trims both ends. Control characters count as whitespace
// and invalid UTF-8 is replaced, so the result is always storable text.
func Normalize(s string) string {
	s = strings.ToValidUTF8(s, "\uFFFD")
	return strings.Join(strings.FieldsFunc(s, isSeparator), " ")
}

func isSeparator(r rune) bool {
	return unicode.IsSpace(r) || unicode.IsControl(r) || r == '\uFEFF'
}
