// Package similarity provides the normalized edit-distance metric used to
// compare transaction descriptions during reconciliation.
package similarity

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// noiseTokens are merchant-name suffixes that carry no identity: domain
// parts and corporate boilerplate. "NETFLIX.COM" and "Netflix" normalize
// to the same string once these are dropped.
var noiseTokens = map[string]bool{
	"com": true,
	"net": true,
	"org": true,
	"www": true,
	"inc": true,
	"llc": true,
	"ltd": true,
}

// Normalize lowercases a description, replaces everything that is not a
// letter or digit with a space, collapses runs of whitespace and drops
// merchant noise tokens.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}

	fields := strings.Fields(b.String())
	kept := fields[:0]
	for _, f := range fields {
		if !noiseTokens[f] {
			kept = append(kept, f)
		}
	}
	return strings.Join(kept, " ")
}

// Score returns the similarity of two descriptions in [0, 1]: the
// Levenshtein distance of the normalized strings scaled by the longer
// length. Two empty strings are identical by definition. The metric is
// symmetric and Score(a, a) is always 1.
func Score(a, b string) float64 {
	a, b = Normalize(a), Normalize(b)

	maxLen := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > maxLen {
		maxLen = n
	}
	if maxLen == 0 {
		return 1.0
	}

	distance := levenshtein.ComputeDistance(a, b)
	return float64(maxLen-distance) / float64(maxLen)
}
