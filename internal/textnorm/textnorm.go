// Package textnorm applies Unicode canonical composition (NFC) to corpus
// lines and search terms so that precomposed and decomposed spellings of
// the same word compare equal.
package textnorm

import "golang.org/x/text/unicode/norm"

// NFC returns s in Unicode Normalization Form C.
func NFC(s string) string {
	if norm.NFC.IsNormalString(s) {
		return s
	}
	return norm.NFC.String(s)
}

// Term normalizes a search term when enabled is true and returns it
// unchanged otherwise.
func Term(s string, enabled bool) string {
	if !enabled {
		return s
	}
	return NFC(s)
}
