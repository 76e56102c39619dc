// Package tags turns free-form recipe tags into canonical slugs.
// The slug is the source of truth for tag identity: "Gluten Free",
// "gluten_free" and "GLUTEN-FREE" are the same tag.
package tags

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// MaxTags caps how many tags one recipe may carry.
const MaxTags = 20

var (
	// Matches any run of characters that cannot appear in a slug.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
	// Matches whitespace runs, for Fold.
	whitespace = regexp.MustCompile(`\s+`)
)

// Slugify converts a string to a URL-safe slug.
//
//	"Gluten Free"  -> "gluten-free"
//	"crème brûlée" -> "creme-brulee"
//	"one_pot/easy" -> "one-pot-easy"
//	"🌶 Spicy!"    -> "spicy"
func Slugify(s string) string {
	s = stripNonASCII(norm.NFKD.String(s))
	s = strings.ToLower(s)
	s = nonAlphanumeric.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Normalize slugifies every tag, drops empties and duplicates, and keeps
// the first-seen order. The result is never nil.
func Normalize(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, raw := range in {
		slug := Slugify(raw)
		if slug == "" {
			continue
		}
		if _, dup := seen[slug]; dup {
			continue
		}
		seen[slug] = struct{}{}
		out = append(out, slug)
		if len(out) == MaxTags {
			break
		}
	}
	return out
}

// Fold lowercases s, strips accents and collapses whitespace, keeping word
// boundaries. Used to build accent-insensitive search fields.
func Fold(s string) string {
	s = stripNonASCII(norm.NFKD.String(s))
	s = strings.ToLower(strings.TrimSpace(s))
	return whitespace.ReplaceAllString(s, " ")
}

// stripNonASCII drops everything outside ASCII. After NFKD decomposition
// that removes combining accents and leaves the base letters.
func stripNonASCII(s string) string {
	return strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, s)
}
