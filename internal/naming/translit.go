package naming

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// romanizer returns the process-wide replacement table for characters that
// canonical decomposition cannot fold to ASCII. Construction is expensive
// relative to a single resolution call, so it happens once; a
// strings.Replacer is read-only after construction and safe for concurrent
// callers without locking.
var romanizer = sync.OnceValue(func() *strings.Replacer {
	pairs := []string{
		"ß", "ss", "ẞ", "SS",
		"æ", "ae", "Æ", "AE",
		"œ", "oe", "Œ", "OE",
		"ø", "o", "Ø", "O",
		"đ", "d", "Đ", "D",
		"ð", "d", "Ð", "D",
		"þ", "th", "Þ", "Th",
		"ł", "l", "Ł", "L",
		"ı", "i", "İ", "I",
		"ħ", "h", "Ħ", "H",
		"ŋ", "ng", "Ŋ", "Ng",
		"ĸ", "k",
		"“", `"`, "”", `"`, "„", `"`,
		"‘", "'", "’", "'",
		"–", "-", "—", "-", "―", "-",
		"…", "...",
		" ", " ",
	}
	return strings.NewReplacer(pairs...)
})

// Romanize folds accented and typographic characters toward ASCII: combining
// marks are stripped via canonical decomposition and the cached replacement
// table handles characters that do not decompose. Scripts with no Latin
// decomposition pass through unchanged. Display fields keep their original
// script; this runs only on text entering the path builder.
func Romanize(s string) string {
	s = romanizer().Replace(s)

	// Chain construction is cheap; only the replacement table above is
	// worth caching. Sharing a transformer across goroutines is not safe,
	// so each call builds its own.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
