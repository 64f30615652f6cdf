package slug

import (
	"regexp"
	"strings"
)

const maxLen = 200

var (
	invalidChars = regexp.MustCompile(`[^a-z0-9\s-]`)
	whitespace   = regexp.MustCompile(`\s+`)
	hyphenRuns   = regexp.MustCompile(`-+`)

	// Format accepted for explicitly supplied slugs.
	validSlug = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// Generate derives a URL slug from a title: lowercase, strip anything
// outside [a-z0-9 -], whitespace runs become single hyphens, hyphen
// runs collapse, capped at 200 characters.
func Generate(title string) string {
	s := strings.ToLower(title)
	s = invalidChars.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	s = whitespace.ReplaceAllString(s, "-")
	s = hyphenRuns.ReplaceAllString(s, "-")
	if len(s) > maxLen {
		s = s[:maxLen]
	}
	return s
}

// IsValid reports whether an explicitly supplied slug is acceptable.
func IsValid(s string) bool {
	return s != "" && len(s) <= maxLen && validSlug.MatchString(s)
}

// Ensure prefers a supplied slug (which must be well formed) over
// generation from the title.
func Ensure(title, supplied string) (string, bool) {
	if supplied != "" {
		if !IsValid(supplied) {
			return "", false
		}
		return supplied, true
	}
	return Generate(title), true
}
