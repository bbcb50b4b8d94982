package narration

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripDecorative = runes.Remove(runes.Predicate(isDecorative))

// Sanitize removes emoji and other decorative glyphs so they are never read
// aloud, and collapses the whitespace they leave behind.
func Sanitize(text string) string {
	t := transform.Chain(norm.NFC, stripDecorative)
	out, _, err := transform.String(t, text)
	if err != nil {
		out = stripRunes(text)
	}
	return strings.Join(strings.Fields(out), " ")
}

// stripRunes drops decorative runes without normalizing.
func stripRunes(text string) string {
	return strings.Map(func(r rune) rune {
		if isDecorative(r) {
			return -1
		}
		return r
	}, text)
}

func isDecorative(r rune) bool {
	switch {
	case unicode.Is(unicode.So, r), unicode.Is(unicode.Sk, r):
		// Emoji and other pictographs, including skin-tone modifiers.
		return true
	case unicode.Is(unicode.Variation_Selector, r):
		return true
	case r == '\u200d', r == '\u20e3':
		// Zero-width joiner and combining keycap.
		return true
	case r >= 0x2190 && r <= 0x21ff:
		// Arrows.
		return true
	}
	switch r {
	case '*', '_', '#', '~', '•', '|', '`':
		return true
	}
	return false
}
