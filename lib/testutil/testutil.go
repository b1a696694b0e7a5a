// Package testutil serves fake standings sites for tests.
package testutil

import (
	"fmt"
	"html"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

type Division struct {
	Code  string
	Title string
}

type Row struct {
	Place    int
	Name     string
	Points   int
	Location string
}

// IndexPage renders a scope index page listing divisions in its division
// picker, after a placeholder option.
func IndexPage(divisions ...Division) string {
	var out strings.Builder
	out.WriteString("<html><body>\n<form>\n<select name=\"division\" id=\"division-select\">\n")
	out.WriteString("<option value=\"\">Select a division</option>\n")
	for _, d := range divisions {
		fmt.Fprintf(&out, "<option value=\"%s\">%s - %s</option>\n", d.Code, d.Code, html.EscapeString(d.Title))
	}
	out.WriteString("</select>\n</form>\n</body></html>\n")
	return out.String()
}

// DivisionPage renders the leaderboard page of one division, one cell per
// line, followed by the tournament list that ends the standings.
func DivisionPage(code, title string, rows ...Row) string {
	var out strings.Builder
	out.WriteString("<html>\n<body>\n<div class=\"standings-container\">\n")
	fmt.Fprintf(&out, "<div class=\"division-header\">Division %s %s</div>\n", code, html.EscapeString(title))
	out.WriteString("<table>\n<tr><th>Place</th><th>Name</th><th>Points</th><th>Location</th></tr>\n")
	for _, r := range rows {
		fmt.Fprintf(
			&out,
			"<tr>\n<td>%d</td>\n<td>%s</td>\n<td>%d</td>\n<td>%s</td>\n</tr>\n",
			r.Place, html.EscapeString(r.Name), r.Points, html.EscapeString(r.Location),
		)
	}
	out.WriteString("</table>\n<div class=\"standings-container\">\n<div id=\"tournament-list\"></div>\n</div>\n</body>\n</html>\n")
	return out.String()
}

// Site is an HTTP server answering with fixed pages keyed by request URI
// (path and query). Unknown URIs answer 404.
type Site struct {
	URL string

	mutex  sync.Mutex
	pages  map[string]string
	status map[string]int
	hits   map[string]int
}

func NewSite(t testing.TB) *Site {
	t.Helper()
	s := &Site{
		pages:  map[string]string{},
		status: map[string]int{},
		hits:   map[string]int{},
	}
	server := httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(server.Close)
	s.URL = server.URL
	return s
}

func (s *Site) serve(w http.ResponseWriter, r *http.Request) {
	s.mutex.Lock()
	uri := r.URL.RequestURI()
	s.hits[uri]++
	page, ok := s.pages[uri]
	status, failing := s.status[uri]
	s.mutex.Unlock()

	if failing {
		w.WriteHeader(status)
		return
	}
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("content-type", "text/html; charset=utf-8")
	w.Write([]byte(page))
}

// Page serves body at uri, which must start with "/".
func (s *Site) Page(uri, body string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.pages[uri] = body
}

// Fail makes uri answer with an empty body and status.
func (s *Site) Fail(uri string, status int) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.status[uri] = status
}

// Hits returns how many requests uri received.
func (s *Site) Hits(uri string) int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.hits[uri]
}

// TotalHits returns how many requests the site received.
func (s *Site) TotalHits() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	total := 0
	for _, n := range s.hits {
		total += n
	}
	return total
}
