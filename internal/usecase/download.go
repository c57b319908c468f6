package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"noctua/internal/config"
	"noctua/internal/domain"
	"noctua/internal/ports"
)

// Downloader fans out feed fetches and assembles the download snapshot.
type Downloader struct {
	fetcher ports.FeedFetcher
	logger  *slog.Logger
}

// NewDownloader wires the fetcher adapter into the ingestion use case.
func NewDownloader(fetcher ports.FeedFetcher, logger *slog.Logger) *Downloader {
	return &Downloader{fetcher: fetcher, logger: logger}
}

// Run fetches every enabled feed of every enabled section. Feeds within a
// section are fetched concurrently; results are collected by configuration
// index so completion order never changes the snapshot layout. A failed or
// slow feed only affects its own entry, never its siblings or the run.
func (d *Downloader) Run(ctx context.Context, cfg config.Config) *domain.FeedData {
	data := &domain.FeedData{
		Sections:    []domain.Section{},
		ProcessedAt: time.Now(),
		Step:        domain.StepDownload,
	}

	for _, sc := range cfg.EnabledSections() {
		feeds := cfg.EnabledFeeds(sc.ID)
		if len(feeds) == 0 {
			continue
		}

		d.info("downloading section", "section", sc.ID, "feeds", len(feeds))

		section := domain.Section{
			ID:          sc.ID,
			Name:        sc.Name,
			Description: sc.Description,
			Icon:        sc.Icon,
			Feeds:       make([]domain.Feed, 0, len(feeds)),
		}

		results := make([]domain.Feed, len(feeds))
		var wg sync.WaitGroup
		for i, fc := range feeds {
			wg.Add(1)
			go func(i int, fc config.FeedConfig) {
				defer wg.Done()
				results[i] = d.fetcher.Fetch(ctx, fc.URL, fc.Name, sc.ID)
			}(i, fc)
		}
		wg.Wait()

		for _, f := range results {
			if f.FetchStatus == domain.StatusSuccess {
				d.info("fetched feed", "feed", f.Name, "articles", len(f.Articles))
			} else {
				d.warn("feed failed", "feed", f.Name, "error", errText(f))
			}
			section.Feeds = append(section.Feeds, f)
		}

		data.Sections = append(data.Sections, section)
	}

	return data
}

func errText(f domain.Feed) string {
	if f.FetchError != nil {
		return *f.FetchError
	}
	return ""
}

func (d *Downloader) info(msg string, args ...any) {
	if d.logger != nil {
		d.logger.Info(msg, args...)
	}
}

func (d *Downloader) warn(msg string, args ...any) {
	if d.logger != nil {
		d.logger.Warn(msg, args...)
	}
}
