package standings

import (
	"sort"
)

// Rerank sorts entries by descending points, breaking ties by ascending
// SortKey, and assigns competition ranking places: tied entries share the
// place of the first entry of their group and the next group resumes at its
// 1-based position.
func Rerank(entries []ParticipantEntry) {
	keys := make(map[string]string, len(entries))
	for _, e := range entries {
		if _, ok := keys[e.Name]; !ok {
			keys[e.Name] = SortKey(e.Name)
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Points != entries[j].Points {
			return entries[i].Points > entries[j].Points
		}
		return keys[entries[i].Name] < keys[entries[j].Name]
	})

	for i := range entries {
		if i > 0 && entries[i].Points == entries[i-1].Points {
			entries[i].Place = entries[i-1].Place
			continue
		}
		entries[i].Place = i + 1
	}
}

// MergeByTitle combines records sharing the same title into one record per
// title, in order of first appearance. The first record of a title provides
// its code. Every merged record is stamped with label. Inputs are not
// modified.
func MergeByTitle(records []DivisionRecord, label string) []DivisionRecord {
	var merged []DivisionRecord
	index := map[string]int{}
	for _, r := range records {
		i, ok := index[r.Title]
		if !ok {
			combined := r.clone()
			combined.Region = label
			index[r.Title] = len(merged)
			merged = append(merged, combined)
			continue
		}
		merged[i].Entries = append(merged[i].Entries, r.Entries...)
	}
	return merged
}

// AggregateDistrict combines the leaderboards of every region of a district
// into one re-ranked leaderboard per division title, then applies the
// caller's criteria. Each region is first cut to its published top
// RegionPlaceLimit, and division level predicates only run after merging so
// that a division is judged on its combined entries.
func AggregateDistrict(label string, perRegion [][]DivisionRecord, c Criteria) []DivisionRecord {
	var limited []DivisionRecord
	for _, records := range perRegion {
		limited = append(limited, Filter(records, Criteria{
			PlaceOnly: true,
			MaxPlace:  RegionPlaceLimit,
		})...)
	}

	merged := MergeByTitle(limited, label)
	for i := range merged {
		Rerank(merged[i].Entries)
	}

	c.PlaceOnly = false
	c.SkipSearch = false
	return Filter(merged, c)
}
