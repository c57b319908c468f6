package feed

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"noctua/internal/domain"
	"noctua/internal/ports"
)

const (
	fetchTimeout = 30 * time.Second
	userAgent    = "noctua/1.0 (RSS Feed Aggregator)"
)

// Fetcher downloads and parses one feed per call over a shared HTTP client.
// Every failure mode is absorbed into the returned Feed's fetch status; a
// fetch never fails past this boundary.
type Fetcher struct {
	client *http.Client
	logger *slog.Logger
}

var _ ports.FeedFetcher = (*Fetcher)(nil)

// NewHTTPClient builds the client shared by all concurrent fetches:
// redirects followed, one bounded-timeout attempt, no retries.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: fetchTimeout}
}

// NewFetcher wires the HTTP client; a nil client gets the default one.
func NewFetcher(client *http.Client, logger *slog.Logger) *Fetcher {
	if client == nil {
		client = NewHTTPClient()
	}
	return &Fetcher{client: client, logger: logger}
}

// Fetch performs a single request for the feed URL and normalizes every
// recoverable entry. Individually malformed entries are skipped with a
// warning; they never fail the feed.
func (f *Fetcher) Fetch(ctx context.Context, url, name, sectionID string) domain.Feed {
	result := domain.Feed{
		ID:          domain.HashID(url),
		Name:        name,
		URL:         url,
		SectionID:   sectionID,
		Articles:    []domain.Article{},
		FetchStatus: domain.StatusPending,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return f.fail(result, err.Error())
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return f.fail(result, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return f.fail(result, fmt.Sprintf("HTTP %d", resp.StatusCode))
	}

	parsed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return f.fail(result, err.Error())
	}

	result.Title = optional(parsed.Title)
	result.Description = optional(parsed.Description)
	result.Link = optional(parsed.Link)

	for _, item := range parsed.Items {
		article, err := NormalizeEntry(item, name, sectionID)
		if err != nil {
			f.warn("skipping malformed entry", "feed", name, "error", err)
			continue
		}
		result.Articles = append(result.Articles, article)
	}

	result.FetchStatus = domain.StatusSuccess
	now := time.Now()
	result.FetchedAt = &now
	return result
}

func (f *Fetcher) fail(result domain.Feed, reason string) domain.Feed {
	result.FetchStatus = domain.StatusError
	result.FetchError = &reason
	result.Articles = []domain.Article{}
	return result
}

func (f *Fetcher) warn(msg string, args ...any) {
	if f.logger != nil {
		f.logger.Warn(msg, args...)
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
