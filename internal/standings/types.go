package standings

import (
	"fmt"
	"net/url"
	"standings/lib/textutil"
	"strings"
)

// ParticipantEntry is one ranked row of a division leaderboard.
type ParticipantEntry struct {
	Place    int
	Name     string
	Points   int
	Location string
}

// Matches reports whether search is a caseless substring of the entry's name
// or location.
func (e ParticipantEntry) Matches(search string) bool {
	return textutil.ContainsFold(search, e.Name, e.Location)
}

// DivisionRecord is the leaderboard of one division as published by one
// source. Region is stamped by whoever fetched it.
type DivisionRecord struct {
	Code    string
	Title   string
	Region  string
	Entries []ParticipantEntry
}

// clone returns a copy of the record that does not share its entries.
func (r DivisionRecord) clone() DivisionRecord {
	entries := make([]ParticipantEntry, len(r.Entries))
	copy(entries, r.Entries)
	r.Entries = entries
	return r
}

// DivisionCode is one division listed in a scope's index page.
type DivisionCode struct {
	Code  string
	Title string
}

type ScopeKind int

const (
	SCOPE_GLOBAL ScopeKind = iota
	SCOPE_REGION
	SCOPE_DISTRICT
)

// Scope identifies where standings come from.
type Scope struct {
	Kind ScopeKind
	// Region is set for SCOPE_REGION.
	Region Region
	// District is set for SCOPE_DISTRICT.
	District District
}

func GlobalScope() Scope {
	return Scope{Kind: SCOPE_GLOBAL}
}

func RegionScope(r Region) Scope {
	return Scope{Kind: SCOPE_REGION, Region: r}
}

func DistrictScope(d District) Scope {
	return Scope{Kind: SCOPE_DISTRICT, District: d}
}

const GlobalLabel = "World"

// Label is the value stamped into DivisionRecord.Region for records fetched
// in this scope.
func (s Scope) Label() string {
	switch s.Kind {
	case SCOPE_REGION:
		return s.Region.Code
	case SCOPE_DISTRICT:
		return s.District.Name
	default:
		return GlobalLabel
	}
}

func (s Scope) String() string {
	switch s.Kind {
	case SCOPE_REGION:
		return fmt.Sprintf("region %s-%s", s.Region.Country, s.Region.Code)
	case SCOPE_DISTRICT:
		return fmt.Sprintf("district %s", s.District.Name)
	default:
		return "global"
	}
}

// ResourceKey identifies one fetchable document: the index page of a scope
// when Code is empty, otherwise the leaderboard of one division. District
// scopes have no documents of their own.
type ResourceKey struct {
	Code  string
	Scope Scope
}

// Locator returns the URL of the document relative to baseUrl.
func (k ResourceKey) Locator(baseUrl string) string {
	base := strings.TrimRight(baseUrl, "/")

	values := url.Values{}
	var path string
	switch k.Scope.Kind {
	case SCOPE_REGION:
		path = "/standings/state"
		values.Set("country", k.Scope.Region.Country)
		values.Set("state", k.Scope.Region.Code)
	case SCOPE_DISTRICT:
		panic("district scopes are not fetched directly")
	default:
		path = "/standings/world"
	}
	if k.Code != "" {
		values.Set("division", k.Code)
	}

	if len(values) == 0 {
		return base + path
	}
	return base + path + "?" + values.Encode()
}
