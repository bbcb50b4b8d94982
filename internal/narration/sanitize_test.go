package narration

import (
	"strings"
	"testing"
)

var sanitizeCases = []struct {
	name string
	in   string
	want string
}{
	{"plain", "Listen to the door.", "Listen to the door."},
	{"emoji", "🚀 Launch in ten seconds! 🔟", "Launch in ten seconds!"},
	{"zwj sequence", "Cadet 🧑‍🚀 ready", "Cadet ready"},
	{"variation selector", "Station 🛰️ ahead", "Station ahead"},
	{"markdown emphasis", "This is **very** important", "This is very important"},
	{"arrows and bullets", "• Step one → step two", "Step one step two"},
	{"keeps punctuation", "Yes, it's true: 2 + 2 = 4.", "Yes, it's true: 2 + 2 = 4."},
	{"keeps accents", "Café déjà vu", "Café déjà vu"},
	{"only glyphs", "✨🌟⭐", ""},
	{"empty", "", ""},
}

func TestSanitize(t *testing.T) {
	for _, tt := range sanitizeCases {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.in); got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// The transform fallback must still strip glyphs rather than return the
// raw text.
func TestStripRunesFallback(t *testing.T) {
	for _, tt := range sanitizeCases {
		t.Run(tt.name, func(t *testing.T) {
			got := strings.Join(strings.Fields(stripRunes(tt.in)), " ")
			if got != tt.want {
				t.Errorf("stripRunes(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
