package lib

import (
	"regexp"
	"strings"
)

var (
	whitespaceRun  = regexp.MustCompile(`\s+`)
	slugDisallowed = regexp.MustCompile(`[^\x{0590}-\x{05FF}a-z0-9-]`)
)

// Slugify keeps Hebrew letters, ASCII lower-case letters, digits and dashes.
// Whitespace runs collapse to a single dash. Other characters are dropped.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = whitespaceRun.ReplaceAllString(s, "-")
	return slugDisallowed.ReplaceAllString(s, "")
}
