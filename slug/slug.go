package slug

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const maxSlugLength = 40
const suffixLength = 6

var nonAlphanumeric = regexp.MustCompile("[^a-z0-9-]+")
var hyphenRuns = regexp.MustCompile("-+")

// Generate creates a URL-friendly slug from a string.
func Generate(s string) string {
	if s == "" {
		return ""
	}

	s = strings.ToLower(s)
	s = transliterate(s)
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "_", "-")
	s = nonAlphanumeric.ReplaceAllString(s, "")
	s = hyphenRuns.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	if len(s) > maxSlugLength {
		s = strings.TrimRight(s[:maxSlugLength], "-")
	}

	return s
}

// GenerateWithFallback generates a slug, falling back to a default if the
// input produces an empty slug.
func GenerateWithFallback(s, fallback string) string {
	slug := Generate(s)
	if slug == "" {
		return Generate(fallback)
	}
	return slug
}

// NewToolID builds a catalog tool identifier from a display name: a "tool-"
// prefix, the name's slug, and a short random suffix. The suffix makes
// collisions statistically negligible; callers still guard inserts with a
// retry on duplicate key.
func NewToolID(name string) string {
	return "tool-" + GenerateWithFallback(name, "listing") + "-" + randomSuffix()
}

func randomSuffix() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:suffixLength]
}

// transliterate converts unicode characters to ASCII equivalents
func transliterate(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}

// isMn checks if a rune is a nonspacing mark (accents, diacritics)
func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
