// Package render prints standings views to a terminal.
package render

import (
	"fmt"
	"io"
	"standings/internal/standings"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

type Renderer struct {
	out io.Writer
}

func New(out io.Writer) Renderer {
	return Renderer{out: out}
}

func (r Renderer) newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(r.out)
	return t
}

func row(fields []string) table.Row {
	out := make(table.Row, len(fields))
	for i, f := range fields {
		out[i] = f
	}
	return out
}

// Divisions prints one table per division, titled with its label.
func (r Renderer) Divisions(blocks []standings.DivisionBlock) {
	for _, b := range blocks {
		t := r.newTable()
		if len(b.Label) > 0 {
			t.SetTitle(strings.Join(b.Label, " "))
		}
		t.AppendHeader(row(b.Header))
		for _, fields := range b.Rows {
			t.AppendRow(row(fields))
		}
		t.Render()
	}
}

// Persons prints the by-person view, one line per person.
func (r Renderer) Persons(lines []standings.PersonLine) {
	for _, l := range lines {
		fmt.Fprintln(r.out, l.String())
	}
}

// Similar prints pairs of names that may belong to the same person.
func (r Renderer) Similar(pairs []standings.SimilarPair) {
	if len(pairs) == 0 {
		return
	}
	t := r.newTable()
	t.SetTitle("Possibly the same person")
	t.AppendHeader(table.Row{"Name", "Name", "Similarity"})
	for _, p := range pairs {
		t.AppendRow(table.Row{p.Left, p.Right, fmt.Sprintf("%.2f", p.Similarity)})
	}
	t.Render()
}

// Codes prints the divisions listed for a scope.
func (r Renderer) Codes(scope string, codes []standings.DivisionCode) {
	t := r.newTable()
	t.SetTitle(scope)
	t.AppendHeader(table.Row{"Code", "Division"})
	for _, c := range codes {
		t.AppendRow(table.Row{c.Code, c.Title})
	}
	t.Render()
}
