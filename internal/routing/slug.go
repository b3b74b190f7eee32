// internal/routing/slug.go
//
// Slug and path helpers.
//
// • MakeSlug(title) ─ converts arbitrary text into a URL-safe slug restricted
//   to ASCII a-z, 0-9 and "-".
// • BuildPath(parent, slug) ─ joins parent path + slug with a single "/" and
//   guarantees exactly one leading slash.
// • ValidSlug(s) ─ reports whether s is already in MakeSlug's output form.
//
// Rules (MakeSlug)
// ----------------
// 1. Fold Latin diacritics (é → e) through NFD + mark removal.
// 2. Lower-case everything.
// 3. Convert any run of non-[a-z0-9] characters to one "-".
// 4. Trim leading / trailing "-".
// 5. If the result is empty, return "item".
//
// Arabic titles fold to "item"; editors supply an explicit slug for those.

package routing

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxSlugLen caps slug length in bytes (all bytes are ASCII).
const MaxSlugLen = 100

// MakeSlug converts title → lower-kebab ASCII.
func MakeSlug(title string) string {
	folded, _, err := transform.String(
		transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), title)
	if err != nil {
		folded = title
	}

	var b strings.Builder
	b.Grow(len(folded))

	lastWasDash := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastWasDash = false
		default:
			if !lastWasDash {
				b.WriteRune('-')
				lastWasDash = true
			}
		}
	}

	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		return "item"
	}
	if len(slug) > MaxSlugLen {
		slug = strings.TrimRight(slug[:MaxSlugLen], "-")
	}
	return slug
}

// ValidSlug reports whether s is non-empty, at most MaxSlugLen, and made of
// a-z, 0-9, and single inner dashes.
func ValidSlug(s string) bool {
	return s != "" && len(s) <= MaxSlugLen && MakeSlug(s) == s
}

// BuildPath joins parent + slug ensuring exactly one leading slash and no
// duplicate separators.
func BuildPath(parent, slug string) string {
	parent = strings.Trim(parent, "/")
	slug = strings.Trim(slug, "/")

	switch {
	case parent == "" && slug == "":
		return "/"
	case parent == "":
		return "/" + slug
	case slug == "":
		return "/" + parent
	default:
		return "/" + parent + "/" + slug
	}
}
