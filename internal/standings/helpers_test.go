package standings

import (
	"context"
	"fmt"
	"standings/lib/testutil"
	"sync"
)

func indexPage(codes ...DivisionCode) string {
	divisions := make([]testutil.Division, len(codes))
	for i, c := range codes {
		divisions[i] = testutil.Division{Code: c.Code, Title: c.Title}
	}
	return testutil.IndexPage(divisions...)
}

func divisionPage(code, title string, entries ...ParticipantEntry) string {
	rows := make([]testutil.Row, len(entries))
	for i, e := range entries {
		rows[i] = testutil.Row{Place: e.Place, Name: e.Name, Points: e.Points, Location: e.Location}
	}
	return testutil.DivisionPage(code, title, rows...)
}

type fakeFetcher struct {
	mutex sync.Mutex
	pages map[string]string
	fail  map[string]error
	calls map[string]int
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		pages: map[string]string{},
		fail:  map[string]error{},
		calls: map[string]int{},
	}
}

func (f *fakeFetcher) Fetch(ctx context.Context, locator string) (string, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.calls[locator]++
	if err, ok := f.fail[locator]; ok {
		return "", err
	}
	page, ok := f.pages[locator]
	if !ok {
		return "", fmt.Errorf("no page for %s", locator)
	}
	return page, nil
}
