package generator

import (
	"regexp"
	"strings"
)

var nonSlugRun = regexp.MustCompile(`[^a-z0-9]+`)

// Slug lowercases name, collapses every run of characters outside [a-z0-9]
// into a single hyphen and trims hyphens from both ends.
func Slug(name string) string {
	slug := nonSlugRun.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(slug, "-")
}

// ClassName turns a slug into the PHP class name: each hyphen separated
// segment gets an upper case first letter and the segments are joined with
// underscores.
func ClassName(slug string) string {
	segments := strings.Split(slug, "-")
	for i, s := range segments {
		if len(s) > 0 {
			segments[i] = strings.ToUpper(s[:1]) + s[1:]
		}
	}
	return strings.Join(segments, "_")
}

// VarName is the PHP variable safe form of a slug.
func VarName(slug string) string {
	return strings.ReplaceAll(slug, "-", "_")
}
