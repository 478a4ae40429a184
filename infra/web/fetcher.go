// Package web fetches course websites.
package web

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/kilianp07/school/infra/logger"
)

// DefaultTimeout bounds a single page fetch.
const DefaultTimeout = 30 * time.Second

// maxBody caps how much of a page is kept.
const maxBody = 16 << 20

// StatusError is returned for non-2xx responses.
type StatusError struct {
	URL    string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %d %s", e.URL, e.Status, http.StatusText(e.Status))
}

// Fetcher downloads pages over HTTP.
type Fetcher struct {
	Client    *http.Client
	UserAgent string
	Logger    logger.Logger
}

// NewFetcher returns a Fetcher with the given timeout.
func NewFetcher(timeout time.Duration, log logger.Logger) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Fetcher{
		Client:    &http.Client{Timeout: timeout},
		UserAgent: "school/1.0",
		Logger:    log,
	}
}

// Fetch returns the body of url as text.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	if f.UserAgent != "" {
		req.Header.Set("User-Agent", f.UserAgent)
	}
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{URL: url, Status: resp.StatusCode}
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", url, err)
	}
	if f.Logger != nil {
		f.Logger.Debugw("fetched", map[string]any{"url": url, "bytes": len(body), "elapsed": time.Since(start).String()})
	}
	return string(body), nil
}

// Title returns the trimmed <title> of an HTML page, or "" when there is none.
func Title(page string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return ""
	}
	return strings.Join(strings.Fields(doc.Find("head title").First().Text()), " ")
}
