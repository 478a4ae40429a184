// Package snapshot keeps the last fetched copy of a course website next to
// the course definition so that changes can be detected later.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kilianp07/school/core/course"
	"github.com/kilianp07/school/core/logger"
)

// DefaultFileName is the cache file stored in the course folder.
const DefaultFileName = ".school"

// ErrNoWebsite is returned for courses without a website.
var ErrNoWebsite = errors.New("the course has no website")

// Fetcher retrieves the current text of a web page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Snapshot is a cached page. Present is false when nothing was cached yet.
type Snapshot struct {
	Text    string
	ModTime time.Time
	Present bool
}

// Result compares the cached snapshot with a freshly fetched one.
type Result struct {
	Previous Snapshot
	Current  Snapshot
	Changed  bool
}

// Cache reads and writes website snapshots.
type Cache struct {
	Fetcher  Fetcher
	FileName string
	Logger   logger.Logger
}

// New returns a Cache using fetcher and the default file name.
func New(fetcher Fetcher, log logger.Logger) *Cache {
	return &Cache{Fetcher: fetcher, FileName: DefaultFileName, Logger: logger.OrNop(log)}
}

func (c *Cache) fileName() string {
	if c.FileName == "" {
		return DefaultFileName
	}
	return c.FileName
}

func (c *Cache) log() logger.Logger { return logger.OrNop(c.Logger) }

// Path returns the cache file of crs.
func (c *Cache) Path(crs *course.Course) string {
	return filepath.Join(crs.Path(false), c.fileName())
}

func (c *Cache) fetch(ctx context.Context, crs *course.Course) (string, error) {
	url := crs.PrimaryWebsite()
	if url == "" {
		return "", ErrNoWebsite
	}
	if c.Fetcher == nil {
		return "", errors.New("snapshot: no fetcher configured")
	}
	text, err := c.Fetcher.Fetch(ctx, url)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", url, err)
	}
	return text, nil
}

func (c *Cache) write(crs *course.Course, text string) (Snapshot, error) {
	path := c.Path(crs)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return Snapshot{}, fmt.Errorf("write snapshot: %w", err)
	}
	snap := Snapshot{Text: text, ModTime: time.Now(), Present: true}
	if fi, err := os.Stat(path); err == nil {
		snap.ModTime = fi.ModTime()
	}
	c.log().Debugw("snapshot written", map[string]any{"course": crs.String(), "path": path, "bytes": len(text)})
	return snap, nil
}

// Update fetches the website of crs and overwrites its snapshot.
func (c *Cache) Update(ctx context.Context, crs *course.Course) (Snapshot, error) {
	text, err := c.fetch(ctx, crs)
	if err != nil {
		return Snapshot{}, err
	}
	return c.write(crs, text)
}

// Read returns the cached snapshot of crs. A missing file is not an error.
func (c *Cache) Read(crs *course.Course) (Snapshot, error) {
	path := c.Path(crs)
	fi, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return Snapshot{}, nil
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("read snapshot: %w", err)
	}
	if fi.IsDir() {
		return Snapshot{}, fmt.Errorf("read snapshot: %s is a directory", path)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read snapshot: %w", err)
	}
	return Snapshot{Text: string(b), ModTime: fi.ModTime(), Present: true}, nil
}

// Check fetches the website, compares it with the cached snapshot and stores
// the fresh copy. Previous.Present is false on the first check.
func (c *Cache) Check(ctx context.Context, crs *course.Course) (Result, error) {
	text, err := c.fetch(ctx, crs)
	if err != nil {
		return Result{}, err
	}
	prev, err := c.Read(crs)
	if err != nil {
		return Result{}, err
	}
	cur, err := c.write(crs, text)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Previous: prev,
		Current:  cur,
		Changed:  prev.Present && prev.Text != cur.Text,
	}, nil
}
