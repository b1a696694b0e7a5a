package standings

import (
	"context"
	"errors"
	"standings/internal/components/telemetry"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const testBaseUrl = "https://example.test"

func region(t *testing.T, code string) Region {
	r, ok := LookupRegion(code)
	require.True(t, ok)
	return r
}

func district(t *testing.T, key string) District {
	d, ok := LookupDistrict(key)
	require.True(t, ok)
	return d
}

func locator(scope Scope, code string) string {
	return ResourceKey{Code: code, Scope: scope}.Locator(testBaseUrl)
}

func newTestScraper(f Fetcher) (Scraper, *telemetry.Recorder) {
	tel := &telemetry.Recorder{}
	return NewScraper(f, testBaseUrl, 2, tel), tel
}

func TestStandingsRegion(t *testing.T) {
	texas := RegionScope(region(t, "TX"))

	f := newFakeFetcher()
	f.pages[locator(texas, "")] = indexPage(
		DivisionCode{Code: "1A", Title: "Forms Black Belt"},
		DivisionCode{Code: "2B", Title: "Weapons Black Belt"},
	)
	f.pages[locator(texas, "1A")] = divisionPage(
		"1A", "Forms Black Belt",
		ParticipantEntry{Place: 1, Name: "Alice Able", Points: 40, Location: "Austin, TX"},
		ParticipantEntry{Place: 2, Name: "Bob Baker", Points: 20, Location: "Dallas, TX"},
	)
	f.pages[locator(texas, "2B")] = divisionPage(
		"2B", "Weapons Black Belt",
		ParticipantEntry{Place: 1, Name: "Bob Baker", Points: 30, Location: "Dallas, TX"},
	)

	s, _ := newTestScraper(f)
	records, err := s.Standings(context.Background(), texas, Query{
		Criteria: Criteria{Search: "dallas"},
	})
	require.NoError(t, err)

	expected := []DivisionRecord{
		{
			Code:   "1A",
			Title:  "Forms Black Belt",
			Region: "TX",
			Entries: []ParticipantEntry{
				{Place: 2, Name: "Bob Baker", Points: 20, Location: "Dallas, TX"},
			},
		},
		{
			Code:   "2B",
			Title:  "Weapons Black Belt",
			Region: "TX",
			Entries: []ParticipantEntry{
				{Place: 1, Name: "Bob Baker", Points: 30, Location: "Dallas, TX"},
			},
		},
	}
	require.Empty(t, cmp.Diff(expected, records))
}

func TestStandingsRestrictsCodes(t *testing.T) {
	world := GlobalScope()

	f := newFakeFetcher()
	f.pages[locator(world, "")] = indexPage(
		DivisionCode{Code: "1A", Title: "Forms Black Belt"},
		DivisionCode{Code: "2B", Title: "Weapons Black Belt"},
	)
	f.pages[locator(world, "2B")] = divisionPage(
		"2B", "Weapons Black Belt",
		ParticipantEntry{Place: 1, Name: "Bob Baker", Points: 30},
	)

	s, _ := newTestScraper(f)
	records, err := s.Standings(context.Background(), world, Query{Codes: []string{"2b"}})
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, GlobalLabel, records[0].Region)
	require.Zero(t, f.calls[locator(world, "1A")])
}

func TestStandingsTransportFailure(t *testing.T) {
	world := GlobalScope()
	failure := errors.New("connection reset")

	f := newFakeFetcher()
	f.pages[locator(world, "")] = indexPage(DivisionCode{Code: "1A", Title: "Forms"})
	f.fail[locator(world, "1A")] = failure

	s, tel := newTestScraper(f)
	records, err := s.Standings(context.Background(), world, Query{})
	require.ErrorIs(t, err, failure)
	require.Nil(t, records)
	require.Len(t, tel.Reports("broken"), 1)
}

func southCentral(t *testing.T) (Scope, *fakeFetcher) {
	f := newFakeFetcher()
	for _, code := range []string{"AR", "LA"} {
		f.pages[locator(RegionScope(region(t, code)), "")] = indexPage()
	}

	texas := RegionScope(region(t, "TX"))
	f.pages[locator(texas, "")] = indexPage(DivisionCode{Code: "1A", Title: "Forms Black Belt"})
	f.pages[locator(texas, "1A")] = divisionPage(
		"1A", "Forms Black Belt",
		ParticipantEntry{Place: 1, Name: "Alice Able", Points: 40, Location: "Austin, TX"},
		ParticipantEntry{Place: 2, Name: "Bob Baker", Points: 20, Location: "Dallas, TX"},
	)

	oklahoma := RegionScope(region(t, "OK"))
	f.pages[locator(oklahoma, "")] = indexPage(
		DivisionCode{Code: "1A", Title: "Forms Black Belt"},
		DivisionCode{Code: "5E", Title: "Sparring Color Belt"},
	)
	f.pages[locator(oklahoma, "1A")] = divisionPage(
		"1A", "Forms Black Belt",
		ParticipantEntry{Place: 1, Name: "Cara Cole", Points: 40, Location: "Tulsa, OK"},
		ParticipantEntry{Place: 2, Name: "Dan Drake", Points: 10, Location: "Norman, OK"},
	)
	f.pages[locator(oklahoma, "5E")] = divisionPage(
		"5E", "Sparring Color Belt",
		ParticipantEntry{Place: 1, Name: "Eve Evans", Points: 8, Location: "Tulsa, OK"},
	)

	return DistrictScope(district(t, "south-central")), f
}

func TestStandingsDistrict(t *testing.T) {
	scope, f := southCentral(t)

	s, tel := newTestScraper(f)
	records, err := s.Standings(context.Background(), scope, Query{})
	require.NoError(t, err)

	expected := []DivisionRecord{
		{
			Code:   "1A",
			Title:  "Forms Black Belt",
			Region: "South Central",
			Entries: []ParticipantEntry{
				{Place: 1, Name: "Alice Able", Points: 40, Location: "Austin, TX"},
				{Place: 1, Name: "Cara Cole", Points: 40, Location: "Tulsa, OK"},
				{Place: 3, Name: "Bob Baker", Points: 20, Location: "Dallas, TX"},
				{Place: 4, Name: "Dan Drake", Points: 10, Location: "Norman, OK"},
			},
		},
		{
			Code:   "5E",
			Title:  "Sparring Color Belt",
			Region: "South Central",
			Entries: []ParticipantEntry{
				{Place: 1, Name: "Eve Evans", Points: 8, Location: "Tulsa, OK"},
			},
		},
	}
	require.Empty(t, cmp.Diff(expected, records))
	require.Len(t, tel.Reports("warning"), 2, "empty indexes of AR and LA")
}

func TestStandingsDistrictSearchesAfterMerge(t *testing.T) {
	scope, f := southCentral(t)

	s, _ := newTestScraper(f)
	records, err := s.Standings(context.Background(), scope, Query{
		Criteria: Criteria{Search: "dallas", KeepIf: []string{"tulsa"}},
	})
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, []ParticipantEntry{
		{Place: 3, Name: "Bob Baker", Points: 20, Location: "Dallas, TX"},
	}, records[0].Entries)
}

func TestStandingsDistrictFailsAsAWhole(t *testing.T) {
	scope, f := southCentral(t)
	f.fail[locator(RegionScope(region(t, "OK")), "5E")] = errors.New("timeout")

	s, _ := newTestScraper(f)
	records, err := s.Standings(context.Background(), scope, Query{})
	require.Error(t, err)
	require.Nil(t, records)
}

func TestCodes(t *testing.T) {
	scope, f := southCentral(t)
	texas := RegionScope(region(t, "TX"))

	s, _ := newTestScraper(f)

	codes, err := s.Codes(context.Background(), texas)
	require.NoError(t, err)
	require.Equal(t, []DivisionCode{{Code: "1A", Title: "Forms Black Belt"}}, codes)

	codes, err = s.Codes(context.Background(), scope)
	require.NoError(t, err)
	require.Equal(t, []DivisionCode{
		{Code: "1A", Title: "Forms Black Belt"},
		{Code: "5E", Title: "Sparring Color Belt"},
	}, codes)
}
