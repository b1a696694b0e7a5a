package standings

import (
	"standings/lib/textutil"
	"strings"
)

var nameSuffixes = map[string]struct{}{
	"jr": {}, "jr.": {}, "sr": {}, "sr.": {},
	"ii": {}, "iii": {}, "iv": {}, "v": {},
	"2nd": {}, "3rd": {},
}

var surnamePrefixes = map[string]struct{}{
	"van": {}, "von": {}, "der": {}, "den": {}, "de": {}, "del": {},
	"della": {}, "di": {}, "da": {}, "du": {}, "la": {}, "le": {},
	"st": {}, "st.": {}, "mac": {}, "bin": {}, "al": {}, "ten": {},
	"ter": {}, "dos": {}, "das": {},
}

// SortKey returns the "last, first" collation key of a display name, in case
// folded form. Surname particles and a trailing generational suffix stay in
// the last name group, "John van der Berg Jr." becomes
// "van der berg jr., john".
func SortKey(name string) string {
	tokens := strings.Fields(textutil.Fold(name))
	if len(tokens) == 0 {
		return ""
	}

	end := len(tokens)
	if end > 1 {
		if _, ok := nameSuffixes[tokens[end-1]]; ok {
			end--
		}
	}

	start := end - 1
	for start >= 2 {
		if _, ok := surnamePrefixes[tokens[start-1]]; !ok {
			break
		}
		start--
	}

	last := strings.Join(tokens[start:], " ")
	rest := strings.Join(tokens[:start], " ")
	if rest == "" {
		return last
	}
	return last + ", " + rest
}
