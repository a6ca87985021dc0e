package matcher

import "fmt"

// ExtractContext returns the inclusive line range shown around a match at
// lineIndex, clipped to a corpus of n lines. It panics on a negative radius
// or an index outside [0, n); callers validate requests beforehand.
func ExtractContext(lineIndex, radius, n int) (start, end int) {
	if radius < 0 {
		panic(fmt.Sprintf("matcher: negative context radius %d", radius))
	}
	if lineIndex < 0 || lineIndex >= n {
		panic(fmt.Sprintf("matcher: line index %d outside corpus of %d lines", lineIndex, n))
	}
	return max(0, lineIndex-radius), min(n-1, lineIndex+radius)
}
