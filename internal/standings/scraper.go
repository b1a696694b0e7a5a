package standings

import (
	"context"
	"fmt"
	"standings/internal/components/assert"
	"standings/internal/components/telemetry"

	"golang.org/x/sync/errgroup"
)

const (
	report_scraper_codes     = "scraper.codes"
	report_scraper_standings = "scraper.standings"
)

// Fetcher resolves a locator to the document it points at.
type Fetcher interface {
	Fetch(ctx context.Context, locator string) (string, error)
}

// Query selects which divisions of a scope are fetched and how they are
// filtered.
type Query struct {
	// Codes restricts the divisions fetched, empty fetches every division.
	Codes    []string
	Criteria Criteria
}

// Scraper fetches and extracts the standings of a scope.
type Scraper struct {
	fetcher     Fetcher
	extractor   Extractor
	baseUrl     string
	concurrency int
	tel         telemetry.API
}

func NewScraper(fetcher Fetcher, baseUrl string, concurrency int, tel telemetry.API) Scraper {
	assert.NotNil(fetcher)
	assert.NotEmptyStr(baseUrl)
	assert.Positive(concurrency)
	assert.NotNil(tel)

	return Scraper{
		fetcher:     fetcher,
		extractor:   NewExtractor(tel),
		baseUrl:     baseUrl,
		concurrency: concurrency,
		tel:         telemetry.NewScopedAPI("scraper", tel),
	}
}

func districtRegions(d District) ([]Region, error) {
	regions := make([]Region, len(d.Regions))
	for i, code := range d.Regions {
		region, ok := LookupRegion(code)
		if !ok {
			return nil, fmt.Errorf("district %s: unknown region %s", d.Name, code)
		}
		regions[i] = region
	}
	return regions, nil
}

func (s Scraper) indexCodes(ctx context.Context, scope Scope) ([]DivisionCode, error) {
	locator := ResourceKey{Scope: scope}.Locator(s.baseUrl)
	body, err := s.fetcher.Fetch(ctx, locator)
	if err != nil {
		return nil, err
	}
	codes, err := ExtractCodes(body)
	if err != nil {
		s.tel.ReportBroken(report_scraper_codes, err, locator)
		return nil, err
	}
	if len(codes) == 0 {
		s.tel.ReportWarning(report_scraper_codes, "no divisions listed", locator)
	}
	return codes, nil
}

// Codes lists the divisions of a scope. The divisions of a district are
// those of its regions, deduplicated by title.
func (s Scraper) Codes(ctx context.Context, scope Scope) ([]DivisionCode, error) {
	if scope.Kind != SCOPE_DISTRICT {
		return s.indexCodes(ctx, scope)
	}

	regions, err := districtRegions(scope.District)
	if err != nil {
		return nil, err
	}

	perRegion := make([][]DivisionCode, len(regions))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, region := range regions {
		i, region := i, region
		g.Go(func() error {
			codes, err := s.indexCodes(gctx, RegionScope(region))
			if err != nil {
				return err
			}
			perRegion[i] = codes
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := map[string]struct{}{}
	var out []DivisionCode
	for _, codes := range perRegion {
		for _, c := range codes {
			if _, ok := seen[c.Title]; ok {
				continue
			}
			seen[c.Title] = struct{}{}
			out = append(out, c)
		}
	}
	return out, nil
}

// divisions fetches every division of a global or region scope concurrently,
// keeping index order. The first failure cancels the remaining fetches and
// fails the whole scope.
func (s Scraper) divisions(ctx context.Context, scope Scope, codes []string, search string) ([]DivisionRecord, error) {
	index, err := s.indexCodes(ctx, scope)
	if err != nil {
		return nil, err
	}
	index = RestrictCodes(index, codes)

	results := make([][]DivisionRecord, len(index))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, code := range index {
		i, code := i, code
		g.Go(func() error {
			locator := ResourceKey{Code: code.Code, Scope: scope}.Locator(s.baseUrl)
			body, err := s.fetcher.Fetch(gctx, locator)
			if err != nil {
				return err
			}
			results[i] = s.extractor.Extract(body, scope.Label(), search)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.tel.ReportBroken(report_scraper_standings, err, scope.String())
		return nil, err
	}

	var records []DivisionRecord
	for _, r := range results {
		records = append(records, r...)
	}
	return records, nil
}

// Standings fetches, extracts and filters the standings of a scope.
//
// Global and region scopes apply the search while extracting and filter
// immediately. District scopes fetch every region's top leaderboards
// without searching, merge and re-rank them, and only then filter.
func (s Scraper) Standings(ctx context.Context, scope Scope, q Query) ([]DivisionRecord, error) {
	if scope.Kind != SCOPE_DISTRICT {
		records, err := s.divisions(ctx, scope, q.Codes, q.Criteria.Search)
		if err != nil {
			return nil, err
		}
		return Filter(records, q.Criteria), nil
	}

	regions, err := districtRegions(scope.District)
	if err != nil {
		return nil, err
	}

	perRegion := make([][]DivisionRecord, len(regions))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, region := range regions {
		i, region := i, region
		g.Go(func() error {
			records, err := s.divisions(gctx, RegionScope(region), q.Codes, "")
			if err != nil {
				return err
			}
			perRegion[i] = records
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return AggregateDistrict(scope.Label(), perRegion, q.Criteria), nil
}
