package standings

import (
	"standings/internal/components/telemetry"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const samplePage = `<html>
<head><title>Standings</title></head>
<body>
<nav>1|Not A Row|5|</nav>
<div class="standings-container">
<h3>2024 Season Standings</h3>
<div class="division-header" style="color:#7b0000">Division 1A Forms 1st Degree Black Belt Women 18-29</div>
<table>
<tr><th>Place</th><th>Name</th><th>Points</th><th>Location</th></tr>
<tr>
<td>1</td>
<td>Jane Doe</td>
<td>40</td>
<td>Aurora, CO</td>
</tr>
<tr><td>1</td><td>Ana Garc&iacute;a</td><td>40</td><td>Dallas, TX</td></tr>
<tr>
<td>3</td><td>Bob O&#39;Neil</td>
<td>20</td><td>Austin, TX</td>
</tr>
</table>
<p>Points are updated weekly.</p>
<div class="division-header">Division 2B Sparring Color Belt Men 30-39</div>
<table>
<tr><th>Place</th><th>Name</th><th>Points</th><th>Location</th></tr>
</table>
<div class="standings-container">
<div class="division-header">Division 9Z Forms Outside The Window</div>
<table><tr><td>1</td><td>Nobody</td><td>99</td><td>Nowhere</td></tr></table>
</div>
</body>
</html>
`

func newTestExtractor() Extractor {
	return NewExtractor(&telemetry.Recorder{})
}

func TestExtract(t *testing.T) {
	records := newTestExtractor().Extract(samplePage, "TX", "")

	expected := []DivisionRecord{
		{
			Code:   "1A",
			Title:  "Forms 1st Degree Black Belt Women 18-29",
			Region: "TX",
			Entries: []ParticipantEntry{
				{Place: 1, Name: "Jane Doe", Points: 40, Location: "Aurora, CO"},
				{Place: 1, Name: "Ana García", Points: 40, Location: "Dallas, TX"},
				{Place: 3, Name: "Bob O'Neil", Points: 20, Location: "Austin, TX"},
			},
		},
		{
			Code:    "2B",
			Title:   "Sparring Color Belt Men 30-39",
			Region:  "TX",
			Entries: []ParticipantEntry{},
		},
	}
	diff := cmp.Diff(expected, records)
	require.Empty(t, diff)
}

func TestExtractTiedPlaces(t *testing.T) {
	page := divisionPage("1A", "Forms Black Belt",
		ParticipantEntry{Place: 1, Name: "A", Points: 40},
		ParticipantEntry{Place: 1, Name: "B", Points: 40},
		ParticipantEntry{Place: 3, Name: "C", Points: 20},
	)
	records := newTestExtractor().Extract(page, "World", "")
	require.Len(t, records, 1)

	var places []int
	for _, e := range records[0].Entries {
		places = append(places, e.Place)
	}
	require.Equal(t, []int{1, 1, 3}, places)
}

func TestExtractSearch(t *testing.T) {
	records := newTestExtractor().Extract(samplePage, "TX", "AURORA")
	require.Len(t, records, 2)
	require.Equal(t, []ParticipantEntry{
		{Place: 1, Name: "Jane Doe", Points: 40, Location: "Aurora, CO"},
	}, records[0].Entries)
	require.Empty(t, records[1].Entries)
}

func TestExtractWindow(t *testing.T) {
	cases := []struct {
		name   string
		page   string
		expect []string
	}{
		{
			name:   "no boundary marker",
			page:   "<div class=\"division-header\">Division 1A Forms</div>\n<tr><td>1</td><td>A</td><td>1</td></tr>",
			expect: nil,
		},
		{
			name: "tournament list ends the window",
			page: "<div class=\"standings-container\">\n" +
				"<div class=\"division-header\">Division 1A Forms</div>\n" +
				"<h2 id=\"tournament-list\">Tournaments</h2>\n" +
				"<div class=\"division-header\">Division 1B Weapons</div>\n",
			expect: []string{"1A"},
		},
		{
			name: "marker never repeats",
			page: "<div class=\"standings-container\">\n" +
				"<div class=\"division-header\">Division 1A Forms</div>\n" +
				"<div class=\"division-header\">Division 1B Weapons</div>\n",
			expect: []string{"1A", "1B"},
		},
	}

	for _, test := range cases {
		records := newTestExtractor().Extract(test.page, "World", "")
		var codes []string
		for _, r := range records {
			codes = append(codes, r.Code)
		}
		require.Equal(t, test.expect, codes, test.name)
	}
}

func TestExtractCellsSplitAcrossLines(t *testing.T) {
	page := "<div class=\"standings-container\">\n" +
		"<div class=\"division-header\">Division 3C Weapons Black Belt</div>\n" +
		"<td>2</td>\n" +
		"<td>Sam\n" +
		"Lee</td>\n" +
		"<td>12</td>\n" +
		"<td>Reno, NV</td>\n" +
		"<div class=\"division-header\">Division 3D Weapons Color Belt</div>\n"

	records := newTestExtractor().Extract(page, "NV", "")
	require.Len(t, records, 2)
	require.Equal(t, []ParticipantEntry{
		{Place: 2, Name: "Sam Lee", Points: 12, Location: "Reno, NV"},
	}, records[0].Entries)
	require.Empty(t, records[1].Entries)
}

func TestExtractDropsRowsBeforeHeader(t *testing.T) {
	rec := &telemetry.Recorder{}
	page := "<div class=\"standings-container\">\n" +
		"<tr><td>1</td><td>Orphan</td><td>3</td><td>X</td></tr>\n" +
		"<div class=\"division-header\">Division 1A Forms</div>\n"

	records := NewExtractor(rec).Extract(page, "World", "")
	require.Len(t, records, 1)
	require.Empty(t, records[0].Entries)
	require.NotEmpty(t, rec.Reports("debug"))
	require.Empty(t, rec.Reports("broken"))
}

func TestExtractDropsRowsOfUnparsedHeader(t *testing.T) {
	rec := &telemetry.Recorder{}
	page := "<div class=\"standings-container\">\n" +
		"<div class=\"division-header\">Division 1A Forms</div>\n" +
		"<tr><td>1</td><td>Alice</td><td>40</td><td>X</td></tr>\n" +
		"<div class=\"division-header\">\n" +
		"Division 2B Weapons\n" +
		"</div>\n" +
		"<tr><td>1</td><td>Bob</td><td>90</td><td>Y</td></tr>\n" +
		"<div class=\"division-header\">Division 3C Forms</div>\n" +
		"<tr><td>1</td><td>Cara</td><td>20</td><td>Z</td></tr>\n"

	records := NewExtractor(rec).Extract(page, "World", "")
	require.Len(t, records, 2)
	require.Equal(t, "1A", records[0].Code)
	require.Equal(t, []ParticipantEntry{
		{Place: 1, Name: "Alice", Points: 40, Location: "X"},
	}, records[0].Entries)
	require.Equal(t, "3C", records[1].Code)
	require.Equal(t, []ParticipantEntry{
		{Place: 1, Name: "Cara", Points: 20, Location: "Z"},
	}, records[1].Entries)
	require.NotEmpty(t, rec.Reports("debug"))
}

func TestIsDivisionHeader(t *testing.T) {
	require.True(t, IsDivisionHeader(`<div class="division-header">Division 1A Forms</div>`))
	require.False(t, IsDivisionHeader(`<div class="division">Division 1A Forms</div>`))
	require.False(t, IsDivisionHeader(`<td>1</td>`))
}

func TestParseDivisionHeader(t *testing.T) {
	cases := []struct {
		line  string
		code  string
		title string
		ok    bool
	}{
		{
			line:  `<div class="division-header"><b>Division</b> 1A   Forms  Black&nbsp;Belt</div>`,
			code:  "1A",
			title: "Forms Black Belt",
			ok:    true,
		},
		{
			line:  `<div class="division-header">Division 7F</div>`,
			code:  "7F",
			title: "",
			ok:    true,
		},
		{line: `<div class="division-header">Division</div>`},
		{line: `<div>Division 1A Forms</div>`},
	}
	for _, test := range cases {
		code, title, ok := ParseDivisionHeader(test.line)
		require.Equal(t, test.ok, ok, test.line)
		require.Equal(t, test.code, code, test.line)
		require.Equal(t, test.title, title, test.line)
	}
}

func TestParseParticipantRow(t *testing.T) {
	cases := []struct {
		text   string
		expect ParticipantEntry
		ok     bool
	}{
		{
			text:   "1|Jane Doe|40|Dallas, TX",
			expect: ParticipantEntry{Place: 1, Name: "Jane Doe", Points: 40, Location: "Dallas, TX"},
			ok:     true,
		},
		{
			text:   " 3 |  Jane   Doe | 1,200 |",
			expect: ParticipantEntry{Place: 3, Name: "Jane Doe", Points: 1200},
			ok:     true,
		},
		{
			text:   "5|A &amp; B|7|X &lt;Y&gt;|",
			expect: ParticipantEntry{Place: 5, Name: "A & B", Points: 7, Location: "X <Y>"},
			ok:     true,
		},
		{text: "x|Jane|40|Dallas"},
		{text: "0|Jane|40|Dallas"},
		{text: "2|Jane|abc|Dallas"},
		{text: "2|Jane|-4|Dallas"},
		{text: "4||5|Dallas"},
		{text: "4|Jane"},
		{text: "Place|Name|Points|Location|"},
	}
	for _, test := range cases {
		entry, ok := ParseParticipantRow(test.text)
		require.Equal(t, test.ok, ok, test.text)
		require.Equal(t, test.expect, entry, test.text)
	}
}
