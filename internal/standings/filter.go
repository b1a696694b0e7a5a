package standings

import (
	"standings/lib/textutil"
	"strings"
)

// DefaultMaxPlace does not limit anything on top-10 style leaderboards.
const DefaultMaxPlace = 99

// Criteria selects which divisions and entries survive Filter.
type Criteria struct {
	// Competitions keeps divisions whose title starts with one of these
	// competition names. Empty keeps every division.
	Competitions []string
	// KeepIf keeps divisions where at least one entry, before any entry is
	// filtered out, has one of these strings in its name or location.
	KeepIf []string
	// MaxPlace drops entries placed below it, DefaultMaxPlace when zero.
	MaxPlace int
	Search   string
	// PlaceOnly only applies MaxPlace, deferring every other predicate.
	PlaceOnly bool
	// SkipSearch leaves entries that do not match Search in place.
	SkipSearch bool
}

func (c Criteria) maxPlace() int {
	if c.MaxPlace <= 0 {
		return DefaultMaxPlace
	}
	return c.MaxPlace
}

func (c Criteria) keepDivision(r DivisionRecord) bool {
	if len(c.Competitions) > 0 && !textutil.HasAnyPrefixFold(r.Title, c.Competitions) {
		return false
	}
	targets := make([]string, 0, len(c.KeepIf))
	for _, target := range c.KeepIf {
		if strings.TrimSpace(target) != "" {
			targets = append(targets, target)
		}
	}
	if len(targets) == 0 {
		return true
	}
	for _, e := range r.Entries {
		for _, target := range targets {
			if e.Matches(target) {
				return true
			}
		}
	}
	return false
}

func (c Criteria) keepEntry(e ParticipantEntry) bool {
	if e.Place > c.maxPlace() {
		return false
	}
	if c.PlaceOnly || c.SkipSearch {
		return true
	}
	return e.Matches(c.Search)
}

// Filter returns the records that pass the criteria, with their entries
// filtered. Divisions left without entries are dropped. The input is never
// modified.
func Filter(records []DivisionRecord, c Criteria) []DivisionRecord {
	var out []DivisionRecord
	for _, r := range records {
		if !c.PlaceOnly && !c.keepDivision(r) {
			continue
		}

		entries := make([]ParticipantEntry, 0, len(r.Entries))
		for _, e := range r.Entries {
			if c.keepEntry(e) {
				entries = append(entries, e)
			}
		}
		if len(entries) == 0 {
			continue
		}

		r.Entries = entries
		out = append(out, r)
	}
	return out
}
