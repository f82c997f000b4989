package table

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeFieldName converts arbitrary header text into a lowercase ASCII
// identifier:
//  1. lowercase
//  2. strip accents (NFD → remove Mn → NFC)
//  3. keep [a-z0-9_]; convert space/dash/dot/slash/paren and similar
//     punctuation to a single underscore; spell out "+" as "plus"; drop
//     anything else
//  4. trim leading/trailing underscores
//
// The function is pure, total, and idempotent: normalizing an already
// canonical name returns it unchanged. Distinct raw headers can collapse to
// the same canonical name ("IMDb Rating" and "imdb-rating"); the loader
// documents what happens then.
func NormalizeFieldName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}

	// Decompose → remove nonspacing marks (accents) → recompose.
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
	)
	ascii, _, _ := transform.String(t, s)

	var b strings.Builder
	b.Grow(len(ascii))

	prevUnderscore := false
	for _, r := range ascii {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prevUnderscore = false
		case r == '+':
			b.WriteString("plus")
			prevUnderscore = false
		case r == '_' || r == ' ' || r == '-' || r == '.' || r == '/' ||
			r == '\\' || r == '(' || r == ')' || r == ':' || r == ';':
			if !prevUnderscore {
				b.WriteByte('_')
				prevUnderscore = true
			}
		default:
			// drop anything else
		}
	}

	return strings.Trim(b.String(), "_")
}
