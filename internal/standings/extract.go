package standings

import (
	"regexp"
	"standings/internal/components/assert"
	"standings/internal/components/telemetry"
	"standings/lib/textutil"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

const (
	// BoundaryMarker opens the standings section of a page, its second
	// occurrence closes it.
	BoundaryMarker = `class="standings-container"`
	// TournamentListMarker starts the list of tournaments that follows the
	// standings, nothing after it is extracted.
	TournamentListMarker = `id="tournament-list"`
	// HeaderMarker marks the line that introduces a division.
	HeaderMarker    = `class="division-header"`
	ColumnDelimiter = "|"
)

const report_extract_anomaly = "unrecognized line"

var (
	tagRegex             = regexp.MustCompile(`<[^>]*>`)
	cellCloserRegex      = regexp.MustCompile(`(?i)</t[dh]\s*>`)
	trailingCellRegex    = regexp.MustCompile(`(?i)</t[dh]\s*>\s*$`)
	openCellRegex        = regexp.MustCompile(`(?i)<t[dh][\s>]`)
	openRowRegex         = regexp.MustCompile(`(?i)<(tr|li)[\s>]`)
	closeRowRegex        = regexp.MustCompile(`(?i)</(tr|li)\s*>`)
	headingFragmentRegex = regexp.MustCompile(`(?i)<(h[1-6]|th|caption)[\s>]`)
	participantRowRegex  = regexp.MustCompile(`^\s*(\d+)\s*\|(.*)$`)
)

// Extractor turns standings pages into division records. It never fails,
// anything it does not recognize is dropped.
type Extractor struct {
	tel telemetry.API
}

func NewExtractor(tel telemetry.API) Extractor {
	assert.NotNil(tel)
	return Extractor{tel: telemetry.NewScopedAPI("extractor", tel)}
}

// Extract parses the divisions of a standings page, stamping region on each
// of them. Only participant rows whose name or location contain search are
// kept, an empty search keeps every row.
func (e Extractor) Extract(raw, region, search string) []DivisionRecord {
	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")
	lines = contentWindow(lines)
	lines = coalesceRows(lines)

	var records []DivisionRecord
	current := -1
	fragments := 0
	dropped := 0

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		if IsDivisionHeader(line) {
			code, title, ok := ParseDivisionHeader(line)
			if !ok {
				e.tel.ReportDebug(report_extract_anomaly, region, "header without code", line)
				dropped++
				// rows up to the next header belong to the unparsed division
				current = -1
				continue
			}
			records = append(records, DivisionRecord{
				Code:    code,
				Title:   title,
				Region:  region,
				Entries: []ParticipantEntry{},
			})
			current = len(records) - 1
			continue
		}

		text := stripMarkup(line)
		if text == "" {
			continue
		}

		entry, ok := ParseParticipantRow(text)
		if ok {
			if current < 0 {
				e.tel.ReportDebug(report_extract_anomaly, region, "row before any division", text)
				dropped++
				continue
			}
			if entry.Matches(search) {
				records[current].Entries = append(records[current].Entries, entry)
			}
			continue
		}

		if headingFragmentRegex.MatchString(line) {
			fragments++
			e.tel.ReportDebug("header fragment", region, text)
			continue
		}

		dropped++
		e.tel.ReportDebug(report_extract_anomaly, region, text)
	}

	e.tel.ReportDebug("extracted", region, len(records), fragments, dropped)
	return records
}

// contentWindow keeps the lines from the first BoundaryMarker up to (but
// excluding) its second occurrence or the TournamentListMarker. A page
// without the marker has no standings.
func contentWindow(lines []string) []string {
	start := -1
	for i, l := range lines {
		if strings.Contains(l, BoundaryMarker) {
			start = i
			break
		}
	}
	if start < 0 {
		return nil
	}

	window := lines[start:]
	for i := 1; i < len(window); i++ {
		if strings.Contains(window[i], BoundaryMarker) ||
			strings.Contains(window[i], TournamentListMarker) {
			return window[:i]
		}
	}
	return window
}

// coalesceRows joins lines that belong to the same row: a line ending in a
// cell closer, or leaving a row, cell or list item open, is concatenated with
// the line that follows it. Division headers always start a new line.
func coalesceRows(lines []string) []string {
	var out []string
	var current strings.Builder
	rows := 0
	cells := 0
	pending := false

	flush := func() {
		if current.Len() > 0 {
			out = append(out, current.String())
		}
		current.Reset()
		rows = 0
		cells = 0
		pending = false
	}

	for _, line := range lines {
		if pending && IsDivisionHeader(line) {
			flush()
		}
		if pending {
			current.WriteString(" ")
		}
		current.WriteString(line)

		rows = max(0, rows+openCount(openRowRegex, closeRowRegex, line))
		cells = max(0, cells+openCount(openCellRegex, cellCloserRegex, line))

		if rows > 0 || cells > 0 || trailingCellRegex.MatchString(line) {
			pending = true
			continue
		}
		flush()
	}
	flush()

	return out
}

func openCount(open, close *regexp.Regexp, line string) int {
	return len(open.FindAllStringIndex(line, -1)) - len(close.FindAllStringIndex(line, -1))
}

// stripMarkup turns cell closers into column delimiters and removes every
// other tag.
func stripMarkup(line string) string {
	line = cellCloserRegex.ReplaceAllString(line, ColumnDelimiter)
	line = tagRegex.ReplaceAllString(line, "")
	return strings.TrimSpace(line)
}

// IsDivisionHeader reports whether a line of markup introduces a division.
func IsDivisionHeader(line string) bool {
	return strings.Contains(line, HeaderMarker)
}

// ParseDivisionHeader reads the code (second token) and title (every token
// after it) out of a division header line.
func ParseDivisionHeader(line string) (code, title string, ok bool) {
	if !IsDivisionHeader(line) {
		return "", "", false
	}
	text := html.UnescapeString(tagRegex.ReplaceAllString(line, " "))
	tokens := strings.Fields(text)
	if len(tokens) < 2 {
		return "", "", false
	}
	return tokens[1], strings.Join(tokens[2:], " "), true
}

// ParseParticipantRow parses stripped row text of the form
// "place|name|points|location".
func ParseParticipantRow(text string) (ParticipantEntry, bool) {
	groups := participantRowRegex.FindStringSubmatch(text)
	if groups == nil {
		return ParticipantEntry{}, false
	}

	place, err := strconv.Atoi(groups[1])
	if err != nil || place <= 0 {
		return ParticipantEntry{}, false
	}

	fields := strings.Split(groups[2], ColumnDelimiter)
	for i := range fields {
		fields[i] = textutil.CollapseWhitespace(fields[i])
	}
	for len(fields) > 0 && fields[len(fields)-1] == "" {
		fields = fields[:len(fields)-1]
	}
	if len(fields) < 2 || fields[0] == "" {
		return ParticipantEntry{}, false
	}

	points, err := strconv.Atoi(strings.ReplaceAll(fields[1], ",", ""))
	if err != nil || points < 0 {
		return ParticipantEntry{}, false
	}

	entry := ParticipantEntry{
		Place:  place,
		Name:   html.UnescapeString(fields[0]),
		Points: points,
	}
	if len(fields) > 2 {
		entry.Location = html.UnescapeString(strings.Join(fields[2:], ", "))
	}
	return entry, true
}
