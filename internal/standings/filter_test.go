package standings

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func sampleRecords() []DivisionRecord {
	return []DivisionRecord{
		{
			Code:   "1A",
			Title:  "Forms 1st Degree Black Belt Women 18-29",
			Region: "TX",
			Entries: []ParticipantEntry{
				{Place: 1, Name: "Jane Doe", Points: 40, Location: "Aurora, CO"},
				{Place: 2, Name: "Ana Garcia", Points: 35, Location: "Dallas, TX"},
				{Place: 3, Name: "Lisa Aurora", Points: 20, Location: "Austin, TX"},
				{Place: 4, Name: "Kim Park", Points: 10, Location: "Denver, CO"},
			},
		},
		{
			Code:   "2B",
			Title:  "Sparring Color Belt Men 30-39",
			Region: "TX",
			Entries: []ParticipantEntry{
				{Place: 1, Name: "Bob Baker", Points: 30, Location: "El Paso, TX"},
				{Place: 2, Name: "Tom Aurora", Points: 30, Location: "Plano, TX"},
			},
		},
		{
			Code:   "3C",
			Title:  "Combat Weapons Black Belt",
			Region: "TX",
			Entries: []ParticipantEntry{
				{Place: 1, Name: "Sam Lee", Points: 12, Location: "Reno, NV"},
			},
		},
		{
			Code:    "4D",
			Title:   "Creative Forms Black Belt",
			Region:  "TX",
			Entries: []ParticipantEntry{},
		},
	}
}

func entrySet(records []DivisionRecord) map[string]struct{} {
	set := map[string]struct{}{}
	for _, r := range records {
		for _, e := range r.Entries {
			set[r.Code+"/"+e.Name] = struct{}{}
		}
	}
	return set
}

func codesOf(records []DivisionRecord) []string {
	var codes []string
	for _, r := range records {
		codes = append(codes, r.Code)
	}
	return codes
}

func TestFilterCompetitions(t *testing.T) {
	out := Filter(sampleRecords(), Criteria{Competitions: []string{"forms", "combat weapons"}})
	require.Equal(t, []string{"1A", "3C"}, codesOf(out))

	out = Filter(sampleRecords(), Criteria{})
	require.Equal(t, []string{"1A", "2B", "3C"}, codesOf(out), "empty divisions are dropped")
}

func TestFilterKeepIfUsesUnfilteredEntries(t *testing.T) {
	out := Filter(sampleRecords(), Criteria{KeepIf: []string{"DENVER"}, MaxPlace: 1})
	require.Equal(t, []string{"1A"}, codesOf(out))
	require.Equal(t, []ParticipantEntry{
		{Place: 1, Name: "Jane Doe", Points: 40, Location: "Aurora, CO"},
	}, out[0].Entries)
}

func TestFilterIgnoresBlankKeepIf(t *testing.T) {
	out := Filter(sampleRecords(), Criteria{KeepIf: []string{"", "  "}})
	require.Equal(t, []string{"1A", "2B", "3C"}, codesOf(out))

	out = Filter(sampleRecords(), Criteria{KeepIf: []string{"", "DENVER"}})
	require.Equal(t, []string{"1A"}, codesOf(out))
}

func TestFilterSearch(t *testing.T) {
	out := Filter(sampleRecords(), Criteria{Search: "aurora"})
	expected := map[string]struct{}{
		"1A/Jane Doe":    {},
		"1A/Lisa Aurora": {},
		"2B/Tom Aurora":  {},
	}
	require.Equal(t, expected, entrySet(out))

	bypassed := Filter(sampleRecords(), Criteria{Search: "aurora", SkipSearch: true})
	require.Len(t, entrySet(bypassed), 7)
}

func TestFilterPlaceOnly(t *testing.T) {
	out := Filter(sampleRecords(), Criteria{
		PlaceOnly:    true,
		MaxPlace:     1,
		Competitions: []string{"weapons"},
		KeepIf:       []string{"nobody"},
		Search:       "nobody",
	})
	require.Equal(t, []string{"1A", "2B", "3C"}, codesOf(out))
	for _, r := range out {
		for _, e := range r.Entries {
			require.Equal(t, 1, e.Place)
		}
	}
}

func TestFilterPlaceCeilingMonotonic(t *testing.T) {
	for m1 := 1; m1 <= 5; m1++ {
		for m2 := m1 + 1; m2 <= 6; m2++ {
			small := entrySet(Filter(sampleRecords(), Criteria{MaxPlace: m1}))
			large := entrySet(Filter(sampleRecords(), Criteria{MaxPlace: m2}))
			for key := range small {
				require.Contains(t, large, key, "max place %d vs %d", m1, m2)
			}
		}
	}
}

func TestFilterComposition(t *testing.T) {
	search := Criteria{Search: "aurora"}
	ceiling := Criteria{MaxPlace: 1}

	a := Filter(Filter(sampleRecords(), search), ceiling)
	b := Filter(Filter(sampleRecords(), ceiling), search)
	require.Equal(t, entrySet(a), entrySet(b))
	require.Empty(t, cmp.Diff(a, b))
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	input := sampleRecords()
	before := sampleRecords()

	Filter(input, Criteria{Search: "aurora", MaxPlace: 1, Competitions: []string{"forms"}})
	require.Empty(t, cmp.Diff(before, input))
}

func TestFilterDropsEmptyDivisions(t *testing.T) {
	out := Filter(sampleRecords(), Criteria{Search: "reno"})
	require.Equal(t, []string{"3C"}, codesOf(out))
	for _, r := range out {
		require.NotEmpty(t, r.Entries)
	}
}
