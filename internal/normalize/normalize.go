// Package normalize folds player names for accent- and case-insensitive
// search ("José Muñoz" -> "jose munoz").
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// fold decomposes to NFD, strips combining marks, and recomposes.
var fold = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold returns the accent-free, lower-cased, whitespace-trimmed form of s.
func Fold(s string) string {
	out, _, err := transform.String(fold, s)
	if err != nil {
		// Transform only fails on invalid UTF-8; fall back to the input.
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}
