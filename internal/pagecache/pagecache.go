// Package pagecache stores fetched documents as plain files in a cache
// directory, one file per locator, expiring after a fixed time-to-live.
package pagecache

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"standings/internal/components/assert"
	"standings/internal/components/chrono"
	"standings/internal/components/telemetry"
	"strings"
	"time"

	"github.com/coocood/freecache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("standings.internal.pagecache")

const (
	// FilePrefix is prepended to every cache file name, Purge only removes
	// files carrying it.
	FilePrefix = "standings"
	DefaultTTL = 24 * time.Hour
	// DefaultMemoryBytes sizes the in-memory layer, entries larger than
	// 1/1024 of it are only kept on disk.
	DefaultMemoryBytes = 64 * 1024 * 1024
)

const (
	report_cache_get   = "cache.get"
	report_cache_put   = "cache.put"
	report_cache_purge = "cache.purge"
)

// StorageError is returned when the cache directory cannot be read or
// written.
type StorageError struct {
	Path string
	Op   string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("cache %s %s: %s", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

type Options struct {
	Dir string
	// TTL defaults to DefaultTTL when zero.
	TTL time.Duration
	// IgnoreExisting never reads the cache, but still writes to it.
	IgnoreExisting bool
	// IgnoreStaleness serves entries regardless of their age.
	IgnoreStaleness bool
	DoNotWrite      bool
	// Required surfaces storage failures instead of degrading to refetching.
	Required bool
	// MemoryBytes defaults to DefaultMemoryBytes when zero, a negative value
	// disables the in-memory layer.
	MemoryBytes int
}

type Cache struct {
	opts   Options
	time   chrono.API
	tel    telemetry.API
	memory *freecache.Cache
}

// New creates the cache directory if writes are enabled. Failure to create
// it is only an error when opts.Required is set.
func New(opts Options, time chrono.API, tel telemetry.API) (*Cache, error) {
	assert.NotEmptyStr(opts.Dir)
	assert.NotNil(time)
	assert.NotNil(tel)

	if opts.TTL == 0 {
		opts.TTL = DefaultTTL
	}
	if opts.MemoryBytes == 0 {
		opts.MemoryBytes = DefaultMemoryBytes
	}
	c := &Cache{
		opts: opts,
		time: time,
		tel:  telemetry.NewScopedAPI("pagecache", tel),
	}
	if opts.MemoryBytes > 0 {
		c.memory = freecache.NewCache(opts.MemoryBytes)
	}

	if !opts.DoNotWrite {
		err := os.MkdirAll(opts.Dir, 0o755)
		if err != nil {
			serr := &StorageError{Path: opts.Dir, Op: "mkdir", Err: err}
			if opts.Required {
				return nil, serr
			}
			c.tel.ReportWarning(report_cache_put, serr)
		}
	}

	return c, nil
}

// FileName maps a locator to its cache file name by keeping only ASCII
// letters, digits and underscores. Distinct locators may collide.
func FileName(locator string) string {
	var sanitized strings.Builder
	for _, r := range locator {
		if r == '_' ||
			(r >= 'a' && r <= 'z') ||
			(r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') {
			sanitized.WriteRune(r)
		}
	}
	return FilePrefix + "." + sanitized.String()
}

// Path returns the path of the cache file for the locator.
func (c *Cache) Path(locator string) string {
	return filepath.Join(c.opts.Dir, FileName(locator))
}

// remember keeps the body in memory prefixed with the time it was stored,
// staleness is judged against the injected clock rather than freecache's own.
func (c *Cache) remember(name string, storedAt time.Time, body []byte) {
	if c.memory == nil {
		return
	}
	entry := make([]byte, 8+len(body))
	binary.BigEndian.PutUint64(entry, uint64(storedAt.UnixNano()))
	copy(entry[8:], body)
	err := c.memory.Set([]byte(name), entry, 0)
	if err != nil {
		c.tel.ReportDebug("entry kept on disk only", name, err.Error())
	}
}

// recall returns the body kept in memory, dropping it when stale.
func (c *Cache) recall(name string) (string, bool) {
	if c.memory == nil {
		return "", false
	}
	entry, err := c.memory.Get([]byte(name))
	if err != nil || len(entry) < 8 {
		return "", false
	}
	storedAt := time.Unix(0, int64(binary.BigEndian.Uint64(entry)))
	if c.time.Now().Sub(storedAt) > c.opts.TTL && !c.opts.IgnoreStaleness {
		c.memory.Del([]byte(name))
		return "", false
	}
	return string(entry[8:]), true
}

func (c *Cache) fail(id string, err *StorageError) error {
	if c.opts.Required {
		c.tel.ReportBroken(id, err)
		return err
	}
	c.tel.ReportWarning(id, err)
	return nil
}

// Get returns the cached body for the locator. A miss, a stale entry or a
// recoverable storage failure all report ok = false with a nil error.
func (c *Cache) Get(ctx context.Context, locator string) (body string, ok bool, err error) {
	_, span := tracer.Start(ctx, "cache:get")
	defer span.End()

	if c.opts.IgnoreExisting {
		return "", false, nil
	}

	path := c.Path(locator)
	span.SetAttributes(attribute.String("custom.cache_path", path))

	name := FileName(locator)
	if body, ok := c.recall(name); ok {
		span.SetAttributes(attribute.Bool("custom.memory_hit", true))
		return body, true, nil
	}

	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to stat cache file")
		return "", false, c.fail(report_cache_get, &StorageError{Path: path, Op: "stat", Err: err})
	}

	age := c.time.Now().Sub(info.ModTime())
	if age > c.opts.TTL && !c.opts.IgnoreStaleness {
		c.tel.ReportDebug("evicting stale entry", path, age.String())
		err = os.Remove(path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", false, c.fail(report_cache_get, &StorageError{Path: path, Op: "remove", Err: err})
		}
		return "", false, nil
	}

	contents, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		// evicted or replaced between stat and read
		return "", false, nil
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read cache file")
		return "", false, c.fail(report_cache_get, &StorageError{Path: path, Op: "read", Err: err})
	}

	span.SetAttributes(attribute.Int("custom.contentlength", len(contents)))
	c.remember(name, info.ModTime(), contents)
	return string(contents), true, nil
}

// Put writes the body to a temporary file and renames it over the cache
// file, readers never observe a partially written entry.
func (c *Cache) Put(ctx context.Context, locator, body string) error {
	_, span := tracer.Start(ctx, "cache:put")
	defer span.End()

	if c.opts.DoNotWrite {
		return nil
	}

	path := c.Path(locator)
	span.SetAttributes(attribute.String("custom.cache_path", path))

	tmp, err := os.CreateTemp(c.opts.Dir, "."+FilePrefix+"-*.tmp")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create temporary file")
		return c.fail(report_cache_put, &StorageError{Path: c.opts.Dir, Op: "create", Err: err})
	}
	tmpName := tmp.Name()
	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}

	_, err = tmp.WriteString(body)
	if err != nil {
		cleanup()
		return c.fail(report_cache_put, &StorageError{Path: tmpName, Op: "write", Err: err})
	}
	err = tmp.Close()
	if err != nil {
		os.Remove(tmpName)
		return c.fail(report_cache_put, &StorageError{Path: tmpName, Op: "close", Err: err})
	}

	now := c.time.Now()
	err = os.Chtimes(tmpName, now, now)
	if err != nil {
		os.Remove(tmpName)
		return c.fail(report_cache_put, &StorageError{Path: tmpName, Op: "chtimes", Err: err})
	}

	err = os.Rename(tmpName, path)
	if err != nil {
		os.Remove(tmpName)
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to rename cache file")
		return c.fail(report_cache_put, &StorageError{Path: path, Op: "rename", Err: err})
	}
	c.remember(FileName(locator), now, []byte(body))

	return nil
}

// Purge removes every cache file (and leftover temporary file) from the cache
// directory, returning how many were removed.
func (c *Cache) Purge() (int, error) {
	if c.memory != nil {
		c.memory.Clear()
	}

	entries, err := os.ReadDir(c.opts.Dir)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		serr := &StorageError{Path: c.opts.Dir, Op: "readdir", Err: err}
		c.tel.ReportBroken(report_cache_purge, serr)
		return 0, serr
	}

	removed := 0
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() {
			continue
		}
		if !strings.HasPrefix(name, FilePrefix+".") && !strings.HasPrefix(name, "."+FilePrefix+"-") {
			continue
		}
		path := filepath.Join(c.opts.Dir, name)
		err := os.Remove(path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			serr := &StorageError{Path: path, Op: "remove", Err: err}
			c.tel.ReportBroken(report_cache_purge, serr)
			return removed, serr
		}
		removed++
	}
	c.tel.ReportCount(report_cache_purge, int64(removed))

	return removed, nil
}
