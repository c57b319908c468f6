package ports

import (
	"context"

	"noctua/internal/domain"
)

// FeedFetcher performs one bounded fetch-and-parse attempt for a feed URL.
// Implementations convert every failure into the Feed's fetch status.
type FeedFetcher interface {
	Fetch(ctx context.Context, url, name, sectionID string) domain.Feed
}

// SnapshotStore persists the FeedData handed between pipeline stages.
type SnapshotStore interface {
	Save(data *domain.FeedData, step string) (string, error)
	Load(step string) (*domain.FeedData, error)
}
