// Package telemetry is how components report what happens to them. Components
// take an API instead of logging directly so tests can assert on reports.
package telemetry

import (
	"fmt"
)

type API interface {
	// ReportBroken reports a failure that someone should look at.
	//
	// id names the component and operation, like `fetcher.fetch`, and
	// nothing finer. Details go in params. Ids are lowercase, words are
	// joined with underscores and operations with dashes.
	ReportBroken(id string, params ...any)

	// ReportWarning reports something unexpected that was recovered from,
	// ids follow the rules of ReportBroken.
	ReportWarning(id string, params ...any)

	// ReportDebug reports information only shown with verbose logging.
	ReportDebug(msg string, params ...any)

	// ReportCount reports the value of a counter at this point in time.
	// Successive values are samples, not increments.
	ReportCount(id string, count int64)
}

// ScopedAPI prefixes every id (or debug message) with a namespace before
// passing it on.
type ScopedAPI struct {
	namespace string
	inner     API
}

func NewScopedAPI(namespace string, inner API) ScopedAPI {
	return ScopedAPI{namespace: namespace, inner: inner}
}

func (s ScopedAPI) scoped(id string) string {
	return fmt.Sprintf("%s: %s", s.namespace, id)
}

func (s ScopedAPI) ReportBroken(id string, params ...any) {
	s.inner.ReportBroken(s.scoped(id), params...)
}

func (s ScopedAPI) ReportWarning(id string, params ...any) {
	s.inner.ReportWarning(s.scoped(id), params...)
}

func (s ScopedAPI) ReportDebug(msg string, params ...any) {
	s.inner.ReportDebug(s.scoped(msg), params...)
}

func (s ScopedAPI) ReportCount(id string, count int64) {
	s.inner.ReportCount(s.scoped(id), count)
}
