// Package fetcher resolves locators to document bodies, going through the
// page cache before the origin.
package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"standings/internal/components/assert"
	"standings/internal/components/telemetry"
	"standings/internal/pagecache"
	"standings/lib/restyutil"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

var tracer = otel.Tracer("standings.internal.fetcher")

const (
	report_fetcher_fetch   = "fetcher.fetch"
	report_origin_retrieve = "origin.retrieve"
)

const (
	defaultUserAgent         = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"
	defaultRequestsPerSecond = 4
)

// TransportError is returned when the origin could not be reached or
// answered with a non-success status.
type TransportError struct {
	Locator string
	// Status is 0 when no response was received.
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %s", e.Locator, e.Err)
	}
	return fmt.Sprintf("fetch %s: status %d %s", e.Locator, e.Status, http.StatusText(e.Status))
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Origin retrieves a document from wherever it actually lives.
type Origin interface {
	Retrieve(ctx context.Context, locator string) (string, error)
}

type HttpOptions struct {
	Timeout time.Duration
	// RequestsPerSecond defaults to 4, bursts never drop requests.
	RequestsPerSecond float64
	CloudflareBypass  bool
	// Dump receives every HTTP exchange when set.
	Dump restyutil.Output
}

// HttpOrigin retrieves documents over HTTP using resty.
type HttpOrigin struct {
	http *resty.Client
	tel  telemetry.API
}

func NewHttpOrigin(opts HttpOptions, tel telemetry.API) *HttpOrigin {
	assert.NotNil(tel)
	tel = telemetry.NewScopedAPI("fetcher", tel)

	if opts.Timeout == 0 {
		opts.Timeout = time.Second * 30
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = defaultRequestsPerSecond
	}

	httpClient := resty.New()
	if opts.CloudflareBypass {
		httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)
	}
	httpClient.SetHeader("user-agent", defaultUserAgent)
	httpClient.SetTimeout(opts.Timeout)

	burst := int(opts.RequestsPerSecond)
	if burst < 1 {
		burst = 1
	}
	rateLimiter := rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return rateLimiter.Wait(req.Context())
	})

	telemetry.InstrumentResty(httpClient, tel)
	if opts.Dump != nil {
		restyutil.Dump(httpClient, opts.Dump)
	}

	return &HttpOrigin{http: httpClient, tel: tel}
}

func (o *HttpOrigin) Retrieve(ctx context.Context, locator string) (string, error) {
	res, err := o.http.R().
		SetContext(ctx).
		Get(locator)
	if err != nil {
		o.tel.ReportBroken(report_origin_retrieve, err, locator)
		return "", &TransportError{Locator: locator, Err: err}
	}
	if !res.IsSuccess() {
		o.tel.ReportBroken(report_origin_retrieve, locator, res.StatusCode())
		return "", &TransportError{Locator: locator, Status: res.StatusCode()}
	}
	return res.String(), nil
}

// Fetcher combines a cache and an origin. Concurrent fetches of the same
// locator share a single attempt.
type Fetcher struct {
	cache    *pagecache.Cache
	origin   Origin
	progress func()
	group    singleflight.Group
	tel      telemetry.API
}

// New creates a Fetcher, progress may be nil. When it is not, it is called
// once per fetch attempt whether the attempt hits the cache, the origin, or
// fails.
func New(cache *pagecache.Cache, origin Origin, tel telemetry.API, progress func()) *Fetcher {
	assert.NotNil(cache)
	assert.NotNil(origin)
	assert.NotNil(tel)

	if progress == nil {
		progress = func() {}
	}
	return &Fetcher{
		cache:    cache,
		origin:   origin,
		progress: progress,
		tel:      telemetry.NewScopedAPI("fetcher", tel),
	}
}

func (f *Fetcher) Fetch(ctx context.Context, locator string) (string, error) {
	body, err, _ := f.group.Do(locator, func() (any, error) {
		return f.fetch(ctx, locator)
	})
	if err != nil {
		return "", err
	}
	return body.(string), nil
}

func (f *Fetcher) fetch(ctx context.Context, locator string) (string, error) {
	ctx, span := tracer.Start(ctx, "fetcher:fetch")
	defer span.End()
	span.SetAttributes(attribute.String("custom.locator", locator))

	defer f.progress()

	body, ok, err := f.cache.Get(ctx, locator)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "cache read failed")
		return "", err
	}
	if ok {
		f.tel.ReportDebug("cache hit", locator)
		return body, nil
	}

	f.tel.ReportDebug("cache miss", locator)
	body, err = f.origin.Retrieve(ctx, locator)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "origin retrieval failed")
		f.tel.ReportBroken(report_fetcher_fetch, err)
		return "", err
	}

	err = f.cache.Put(ctx, locator, body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "cache write failed")
		return "", err
	}

	return body, nil
}
