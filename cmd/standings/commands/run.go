package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"standings/internal/components/chrono"
	"standings/internal/components/telemetry"
	"standings/internal/fetcher"
	"standings/internal/pagecache"
	"standings/internal/pseudonym"
	"standings/internal/render"
	"standings/internal/standings"
	"standings/lib/restyutil"
	"sync"

	"github.com/spf13/cobra"
)

var errNoScope = errors.New("no scope selected, use --global, --region or --district")

// app holds what a run needs from its environment.
type app struct {
	out        io.Writer
	errOut     io.Writer
	time       chrono.API
	tel        telemetry.API
	pseudonyms pseudonym.Strategy
	transport  fetcher.HttpOptions
}

func execute(cmd *cobra.Command) error {
	if dumpDir != "" {
		output, err := restyutil.NewFilesystemOutput(dumpDir)
		if err != nil {
			return err
		}
		transport.Dump = output
	}

	a := app{
		out:        cmd.OutOrStdout(),
		errOut:     cmd.ErrOrStderr(),
		time:       chrono.NewStandardImpl(),
		tel:        telemetry.SlogAPI{},
		pseudonyms: pseudonym.NewRandom(),
		transport:  transport,
	}
	return a.run(cmd.Context(), options)
}

func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "standings")
	}
	return filepath.Join(dir, "standings")
}

// progress prints a dot for every page fetched, and ends the line once a
// scope is done.
type progress struct {
	mutex sync.Mutex
	out   io.Writer
	dots  int
}

func (p *progress) tick() {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.dots++
	fmt.Fprint(p.out, ".")
}

func (p *progress) done() {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if p.dots > 0 {
		fmt.Fprintln(p.out)
	}
	p.dots = 0
}

// run validates o and then processes every scope in order. A failing scope
// prints nothing and does not stop the scopes after it.
func (a app) run(ctx context.Context, o standings.Options) error {
	err := o.Validate()
	if err != nil {
		return err
	}
	if o.CacheDir == "" {
		o.CacheDir = defaultCacheDir()
	}

	cache, err := pagecache.New(pagecache.Options{
		Dir:             o.CacheDir,
		IgnoreExisting:  o.IgnoreExisting,
		IgnoreStaleness: o.IgnoreStaleness,
		DoNotWrite:      o.DoNotWrite,
		Required:        o.RequireCache,
	}, a.time, a.tel)
	if err != nil {
		return err
	}

	if o.CleanCacheOnly {
		removed, err := cache.Purge()
		if err != nil {
			return err
		}
		fmt.Fprintf(a.errOut, "removed %d cached pages from %s\n", removed, o.CacheDir)
		return nil
	}

	scopes := o.Scopes()
	if len(scopes) == 0 {
		return errNoScope
	}

	dots := &progress{out: a.errOut}
	f := fetcher.New(cache, fetcher.NewHttpOrigin(a.transport, a.tel), a.tel, dots.tick)
	scraper := standings.NewScraper(f, o.BaseUrl, o.Concurrency, a.tel)
	renderer := render.New(a.out)

	failed := 0
	for _, scope := range scopes {
		err := a.scope(ctx, scraper, renderer, scope, o)
		dots.done()
		if err != nil {
			failed++
			fmt.Fprintf(a.errOut, "%s: %v\n", scope, err)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d scopes failed", failed, len(scopes))
	}
	return nil
}

func (a app) scope(ctx context.Context, s standings.Scraper, r render.Renderer, scope standings.Scope, o standings.Options) error {
	if o.ListCodes {
		codes, err := s.Codes(ctx, scope)
		if err != nil {
			return err
		}
		r.Codes(scope.Label(), standings.RestrictCodes(codes, o.Codes))
		return nil
	}

	records, err := s.Standings(ctx, scope, standings.Query{
		Codes:    o.Codes,
		Criteria: o.Criteria(),
	})
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintf(a.errOut, "%s: nothing matched\n", scope)
		return nil
	}
	if o.Pseudonymize {
		records, err = pseudonym.Apply(records, a.pseudonyms)
		if err != nil {
			return err
		}
	}

	view := o.ViewOptions()
	if !o.ByPerson && !o.ByPersonWithDivisions {
		r.Divisions(standings.AssembleDivisions(records, view))
		return nil
	}

	persons := standings.AssemblePersons(records)
	r.Persons(standings.AssemblePersonLines(persons, view))
	if o.Similar {
		r.Similar(standings.SimilarPersons(persons, standings.SimilarityThreshold))
	}
	return nil
}
