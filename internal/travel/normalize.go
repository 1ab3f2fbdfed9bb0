package travel

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Normalize folds a team name for joining across differently-formatted
// sources: case folding, diacritic stripping via NFKD decomposition, and
// whitespace collapsing. Idempotent. A missing or blank input returns
// ok=false rather than an empty string, so absence stays explicit.
func Normalize(s string) (string, bool) {
	folded := cases.Fold().String(strings.TrimSpace(s))
	decomposed := norm.NFKD.String(folded)

	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue // combining mark left over from decomposition
		}
		b.WriteRune(r)
	}

	out := strings.Join(strings.Fields(b.String()), " ")
	if out == "" {
		return "", false
	}
	return out, true
}
