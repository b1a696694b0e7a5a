package telemetry

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScopedAPI(t *testing.T) {
	rec := &Recorder{}
	scoped := NewScopedAPI("fetcher", rec)

	scoped.ReportBroken("fetch", "https://example.com", 500)
	scoped.ReportWarning("cache-write")
	scoped.ReportDebug("hit", "key")
	scoped.ReportCount("requests", 3)

	broken := rec.Reports("broken")
	require.Len(t, broken, 1)
	require.Equal(t, "fetcher: fetch", broken[0].Id)
	require.Equal(t, []any{"https://example.com", 500}, broken[0].Params)

	require.Equal(t, "fetcher: cache-write", rec.Reports("warning")[0].Id)
	require.Equal(t, "fetcher: hit", rec.Reports("debug")[0].Id)
	require.Equal(t, []any{int64(3)}, rec.Reports("count")[0].Params)
}
