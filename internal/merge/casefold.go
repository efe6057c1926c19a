package merge

import (
	"strings"
	"unicode"
)

// FoldTokens lowercases title-case tokens while leaving acronyms and
// already-lowercase tokens untouched. The rule applies independently to every
// space-separated token and, within each, to every hyphen-separated segment.
// Applying it twice yields the same result as applying it once.
func FoldTokens(s string) string {
	tokens := strings.Split(s, " ")
	for i, token := range tokens {
		segments := strings.Split(token, "-")
		for j, segment := range segments {
			segments[j] = foldSegment(segment)
		}
		tokens[i] = strings.Join(segments, "-")
	}
	return strings.Join(tokens, " ")
}

// foldSegment lowercases a segment only when its first rune is upper case and
// every following rune is lower case.
func foldSegment(segment string) string {
	runes := []rune(segment)
	if len(runes) == 0 || !unicode.IsUpper(runes[0]) {
		return segment
	}
	for _, r := range runes[1:] {
		if unicode.IsUpper(r) {
			return segment
		}
	}
	return strings.ToLower(segment)
}
