package lyrictopics

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// NormalizeText performs Unicode NFKC normalization, collapses whitespace
// and strips control characters.
func NormalizeText(text string) string {
	normed := norm.NFKC.String(text)
	normed = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return ' '
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, normed)
	return strings.Join(strings.Fields(normed), " ")
}

// NormalizeAll normalizes a slice of strings.
func NormalizeAll(texts []string) []string {
	out := make([]string, len(texts))
	for i, t := range texts {
		out[i] = NormalizeText(t)
	}
	return out
}

// uniqueNormalized normalizes labels, drops blanks and removes duplicates
// while preserving first-seen order.
func uniqueNormalized(labels []string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, len(labels))
	for _, lab := range labels {
		normed := NormalizeText(lab)
		if normed == "" {
			continue
		}
		if _, ok := seen[normed]; ok {
			continue
		}
		seen[normed] = struct{}{}
		out = append(out, normed)
	}
	return out
}
