package textutil

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// Fold case-folds s for caseless comparisons.
func Fold(s string) string {
	return cases.Fold().String(s)
}

// CollapseWhitespace trims s and replaces every run of whitespace with a
// single space.
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(s, " "))
}

// ContainsFold reports whether needle is a caseless substring of any of the
// haystacks. An empty needle is contained in everything.
func ContainsFold(needle string, haystacks ...string) bool {
	if needle == "" {
		return true
	}
	needle = Fold(needle)
	for _, h := range haystacks {
		if strings.Contains(Fold(h), needle) {
			return true
		}
	}
	return false
}

// HasAnyPrefixFold reports whether s starts with any of the prefixes,
// ignoring case.
func HasAnyPrefixFold(s string, prefixes []string) bool {
	s = Fold(s)
	for _, p := range prefixes {
		if strings.HasPrefix(s, Fold(p)) {
			return true
		}
	}
	return false
}
