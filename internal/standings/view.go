package standings

import (
	"sort"
	"strconv"
	"strings"

	"github.com/antzucaro/matchr"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// ViewOptions control how records are shaped for display.
type ViewOptions struct {
	// Omit holds OMIT_* field names to leave out.
	Omit map[string]bool
	// Minimize shows only the leading competition word of division titles.
	Minimize bool
	// WithDivisions lists every membership of a person in the by-person view.
	WithDivisions bool
}

// NewViewOptions builds ViewOptions from a list of OMIT_* field names.
func NewViewOptions(omit []string, minimize, withDivisions bool) ViewOptions {
	set := make(map[string]bool, len(omit))
	for _, o := range omit {
		set[strings.ToLower(strings.TrimSpace(o))] = true
	}
	return ViewOptions{Omit: set, Minimize: minimize, WithDivisions: withDivisions}
}

func (o ViewOptions) title(title string) string {
	if !o.Minimize {
		return title
	}
	tokens := strings.Fields(title)
	if len(tokens) == 0 {
		return title
	}
	return tokens[0]
}

// DivisionBlock is one division of the by-division view. Label holds the
// visible parts of region, code and title. Header and every row of Rows
// share the same columns.
type DivisionBlock struct {
	Label  []string
	Header []string
	Rows   [][]string
}

// AssembleDivisions shapes records into the by-division view, keeping record
// and entry order.
func AssembleDivisions(records []DivisionRecord, o ViewOptions) []DivisionBlock {
	header := []string{}
	if !o.Omit[OMIT_PLACE] {
		header = append(header, "Place")
	}
	header = append(header, "Name")
	if !o.Omit[OMIT_POINTS] {
		header = append(header, "Points")
	}
	if !o.Omit[OMIT_LOCATION] {
		header = append(header, "Location")
	}

	blocks := make([]DivisionBlock, 0, len(records))
	for _, r := range records {
		var label []string
		if !o.Omit[OMIT_REGION] {
			label = append(label, r.Region)
		}
		if !o.Omit[OMIT_CODE] {
			label = append(label, r.Code)
		}
		if !o.Omit[OMIT_DIVISION] {
			label = append(label, o.title(r.Title))
		}

		rows := make([][]string, 0, len(r.Entries))
		for _, e := range r.Entries {
			row := []string{}
			if !o.Omit[OMIT_PLACE] {
				row = append(row, strconv.Itoa(e.Place))
			}
			row = append(row, e.Name)
			if !o.Omit[OMIT_POINTS] {
				row = append(row, strconv.Itoa(e.Points))
			}
			if !o.Omit[OMIT_LOCATION] {
				row = append(row, e.Location)
			}
			rows = append(rows, row)
		}

		blocks = append(blocks, DivisionBlock{
			Label:  label,
			Header: header,
			Rows:   rows,
		})
	}
	return blocks
}

type Membership struct {
	Region        string
	DivisionCode  string
	DivisionTitle string
	Place         int
	Points        int
}

// PersonRecord gathers every division a person appears in.
type PersonRecord struct {
	SortKey     string
	DisplayName string
	Location    string
	Memberships []Membership
}

// AssemblePersons builds one PersonRecord per distinct SortKey, sorted by
// it. The first spelling and the first non-empty location seen are kept.
func AssemblePersons(records []DivisionRecord) []PersonRecord {
	index := map[string]int{}
	var persons []PersonRecord
	for _, r := range records {
		for _, e := range r.Entries {
			key := SortKey(e.Name)
			i, ok := index[key]
			if !ok {
				i = len(persons)
				index[key] = i
				persons = append(persons, PersonRecord{
					SortKey:     key,
					DisplayName: e.Name,
				})
			}
			if persons[i].Location == "" {
				persons[i].Location = e.Location
			}
			persons[i].Memberships = append(persons[i].Memberships, Membership{
				Region:        r.Region,
				DivisionCode:  r.Code,
				DivisionTitle: r.Title,
				Place:         e.Place,
				Points:        e.Points,
			})
		}
	}

	collator := collate.New(language.English)
	sort.SliceStable(persons, func(i, j int) bool {
		cmp := collator.CompareString(persons[i].SortKey, persons[j].SortKey)
		if cmp != 0 {
			return cmp < 0
		}
		return persons[i].SortKey < persons[j].SortKey
	})
	return persons
}

// PersonLine is one person of the by-person view: the visible person fields
// followed, when divisions are included, by one field list per membership.
type PersonLine struct {
	Fields      []string
	Memberships [][]string
}

// String renders the line with every membership as a pipe-delimited suffix.
func (l PersonLine) String() string {
	var out strings.Builder
	out.WriteString(strings.Join(l.Fields, ", "))
	for _, m := range l.Memberships {
		out.WriteString(" | ")
		out.WriteString(strings.Join(m, " "))
	}
	return out.String()
}

// AssemblePersonLines shapes persons for the by-person view.
func AssemblePersonLines(persons []PersonRecord, o ViewOptions) []PersonLine {
	lines := make([]PersonLine, 0, len(persons))
	for _, p := range persons {
		line := PersonLine{Fields: []string{p.DisplayName}}
		if !o.Omit[OMIT_LOCATION] && p.Location != "" {
			line.Fields = append(line.Fields, p.Location)
		}
		if o.WithDivisions {
			for _, m := range p.Memberships {
				var fields []string
				if !o.Omit[OMIT_REGION] {
					fields = append(fields, m.Region)
				}
				if !o.Omit[OMIT_CODE] {
					fields = append(fields, m.DivisionCode)
				}
				if !o.Omit[OMIT_DIVISION] {
					fields = append(fields, o.title(m.DivisionTitle))
				}
				if !o.Omit[OMIT_PLACE] {
					fields = append(fields, "#"+strconv.Itoa(m.Place))
				}
				if !o.Omit[OMIT_POINTS] {
					fields = append(fields, strconv.Itoa(m.Points)+"pts")
				}
				line.Memberships = append(line.Memberships, fields)
			}
		}
		lines = append(lines, line)
	}
	return lines
}

// SimilarityThreshold is the Jaro-Winkler similarity above which two sort
// keys are reported as likely spellings of the same person.
const SimilarityThreshold = 0.93

type SimilarPair struct {
	Left       string
	Right      string
	Similarity float64
}

// SimilarPersons reports pairs of distinct persons whose sort keys are
// suspiciously close. Persons are never merged because of it.
func SimilarPersons(persons []PersonRecord, threshold float64) []SimilarPair {
	var pairs []SimilarPair
	for i := 0; i < len(persons); i++ {
		for j := i + 1; j < len(persons); j++ {
			similarity := matchr.JaroWinkler(persons[i].SortKey, persons[j].SortKey, false)
			if similarity >= threshold {
				pairs = append(pairs, SimilarPair{
					Left:       persons[i].DisplayName,
					Right:      persons[j].DisplayName,
					Similarity: similarity,
				})
			}
		}
	}
	return pairs
}
