package standings

import (
	"sort"
	"strings"
)

// RegionPlaceLimit is how many places a regional leaderboard publishes.
const RegionPlaceLimit = 10

type Region struct {
	Country string
	Code    string
	Name    string
}

type District struct {
	// Key is the identifier accepted on the command line.
	Key     string
	Name    string
	Regions []string
}

var regions = []Region{
	{"US", "AL", "Alabama"}, {"US", "AK", "Alaska"}, {"US", "AZ", "Arizona"},
	{"US", "AR", "Arkansas"}, {"US", "CA", "California"}, {"US", "CO", "Colorado"},
	{"US", "CT", "Connecticut"}, {"US", "DE", "Delaware"}, {"US", "DC", "District of Columbia"},
	{"US", "FL", "Florida"}, {"US", "GA", "Georgia"}, {"US", "HI", "Hawaii"},
	{"US", "ID", "Idaho"}, {"US", "IL", "Illinois"}, {"US", "IN", "Indiana"},
	{"US", "IA", "Iowa"}, {"US", "KS", "Kansas"}, {"US", "KY", "Kentucky"},
	{"US", "LA", "Louisiana"}, {"US", "ME", "Maine"}, {"US", "MD", "Maryland"},
	{"US", "MA", "Massachusetts"}, {"US", "MI", "Michigan"}, {"US", "MN", "Minnesota"},
	{"US", "MS", "Mississippi"}, {"US", "MO", "Missouri"}, {"US", "MT", "Montana"},
	{"US", "NE", "Nebraska"}, {"US", "NV", "Nevada"}, {"US", "NH", "New Hampshire"},
	{"US", "NJ", "New Jersey"}, {"US", "NM", "New Mexico"}, {"US", "NY", "New York"},
	{"US", "NC", "North Carolina"}, {"US", "ND", "North Dakota"}, {"US", "OH", "Ohio"},
	{"US", "OK", "Oklahoma"}, {"US", "OR", "Oregon"}, {"US", "PA", "Pennsylvania"},
	{"US", "RI", "Rhode Island"}, {"US", "SC", "South Carolina"}, {"US", "SD", "South Dakota"},
	{"US", "TN", "Tennessee"}, {"US", "TX", "Texas"}, {"US", "UT", "Utah"},
	{"US", "VT", "Vermont"}, {"US", "VA", "Virginia"}, {"US", "WA", "Washington"},
	{"US", "WV", "West Virginia"}, {"US", "WI", "Wisconsin"}, {"US", "WY", "Wyoming"},

	{"CA", "AB", "Alberta"}, {"CA", "BC", "British Columbia"}, {"CA", "MB", "Manitoba"},
	{"CA", "NB", "New Brunswick"}, {"CA", "NL", "Newfoundland and Labrador"},
	{"CA", "NS", "Nova Scotia"}, {"CA", "NT", "Northwest Territories"}, {"CA", "NU", "Nunavut"},
	{"CA", "ON", "Ontario"}, {"CA", "PE", "Prince Edward Island"}, {"CA", "QC", "Quebec"},
	{"CA", "SK", "Saskatchewan"}, {"CA", "YT", "Yukon"},
}

var districts = []District{
	{Key: "pacific", Name: "Pacific", Regions: []string{"AK", "CA", "HI", "NV"}},
	{Key: "northwest", Name: "Northwest", Regions: []string{"ID", "MT", "OR", "WA", "WY"}},
	{Key: "mountain", Name: "Mountain", Regions: []string{"AZ", "CO", "NM", "UT"}},
	{Key: "south-central", Name: "South Central", Regions: []string{"AR", "LA", "OK", "TX"}},
	{Key: "plains", Name: "Plains", Regions: []string{"IA", "KS", "MN", "MO", "NE", "ND", "SD"}},
	{Key: "great-lakes", Name: "Great Lakes", Regions: []string{"IL", "IN", "MI", "OH", "WI"}},
	{Key: "southeast", Name: "Southeast", Regions: []string{"AL", "FL", "GA", "MS", "SC"}},
	{Key: "mid-south", Name: "Mid-South", Regions: []string{"KY", "NC", "TN", "VA", "WV"}},
	{Key: "mid-atlantic", Name: "Mid-Atlantic", Regions: []string{"DC", "DE", "MD", "NJ", "PA"}},
	{Key: "northeast", Name: "Northeast", Regions: []string{"CT", "MA", "ME", "NH", "NY", "RI", "VT"}},
	{Key: "canada-west", Name: "Canada West", Regions: []string{"AB", "BC", "MB", "NT", "NU", "SK", "YT"}},
	{Key: "canada-east", Name: "Canada East", Regions: []string{"NB", "NL", "NS", "ON", "PE", "QC"}},
}

// Competitions are the leading words of division titles that can be
// selected with a competition restriction.
var Competitions = []string{
	"forms",
	"weapons",
	"combat weapons",
	"sparring",
	"creative forms",
	"creative weapons",
	"xtreme forms",
	"xtreme weapons",
}

const (
	OMIT_LOCATION = "location"
	OMIT_REGION   = "region"
	OMIT_PLACE    = "place"
	OMIT_CODE     = "code"
	OMIT_DIVISION = "division"
	OMIT_POINTS   = "points"
)

// OmittableFields are the fields a view can be told to leave out.
var OmittableFields = []string{
	OMIT_LOCATION,
	OMIT_REGION,
	OMIT_PLACE,
	OMIT_CODE,
	OMIT_DIVISION,
	OMIT_POINTS,
}

// LookupRegion finds a region by its abbreviation, ignoring case. The
// abbreviation may be qualified by its country, as in "CA-ON".
func LookupRegion(code string) (Region, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	country, abbreviation, qualified := strings.Cut(code, "-")
	if !qualified {
		abbreviation = country
		country = ""
	}
	for _, r := range regions {
		if r.Code == abbreviation && (country == "" || r.Country == country) {
			return r, true
		}
	}
	return Region{}, false
}

// LookupDistrict finds a district by key or display name, ignoring case.
func LookupDistrict(name string) (District, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, d := range districts {
		if d.Key == name || strings.ToLower(d.Name) == name {
			return d, true
		}
	}
	return District{}, false
}

// RegionCodes lists every known region abbreviation in sorted order.
func RegionCodes() []string {
	codes := make([]string, len(regions))
	for i, r := range regions {
		codes[i] = r.Code
	}
	sort.Strings(codes)
	return codes
}

// DistrictKeys lists every district key.
func DistrictKeys() []string {
	keys := make([]string, len(districts))
	for i, d := range districts {
		keys[i] = d.Key
	}
	return keys
}

// NormalizeCompetition maps user input like "Combat-Weapons" to the
// canonical competition name.
func NormalizeCompetition(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, "-", " ")
	name = strings.ReplaceAll(name, "_", " ")
	return strings.Join(strings.Fields(name), " ")
}
