package models

import (
	"regexp"
	"strings"
)

var (
	slugSpaces   = regexp.MustCompile(`\s+`)
	slugDisallow = regexp.MustCompile(`[^a-z0-9-_]`)
)

// Slugify derives a URL slug: lowercase, whitespace runs collapsed to a
// single hyphen, anything outside [a-z0-9-_] stripped. Idempotent.
// Collisions between projects with identical titles are not resolved.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = slugSpaces.ReplaceAllString(s, "-")
	return slugDisallow.ReplaceAllString(s, "")
}
