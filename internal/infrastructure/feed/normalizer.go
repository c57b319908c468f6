package feed

import (
	"errors"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/mmcdole/gofeed"

	"noctua/internal/domain"
	"noctua/internal/infrastructure/sanitize"
)

var errEmptyEntry = errors.New("entry has neither link nor title")

// NormalizeEntry converts one raw feed entry into a canonical Article.
// This is the single boundary where the loosely-shaped upstream entry is
// consumed; everything past it works with fully-typed Articles. A returned
// error means the entry is defective and should be skipped, never that the
// whole feed failed.
func NormalizeEntry(item *gofeed.Item, feedName, sectionID string) (domain.Article, error) {
	if item == nil {
		return domain.Article{}, errors.New("nil entry")
	}

	url := strings.TrimSpace(item.Link)
	title := strings.TrimSpace(item.Title)
	if url == "" && title == "" {
		return domain.Article{}, errEmptyEntry
	}

	id := item.GUID
	if id == "" {
		id = domain.HashID(url, title)
	}

	rawSummary := item.Description
	rawContent := item.Content

	// Image extraction has to happen on the raw markup, before Clean
	// strips the tags it would search.
	imageURL := extractImage(item, rawContent, rawSummary)

	chosen := rawSummary
	if chosen == "" {
		chosen = rawContent
	}
	summary := sanitize.Clean(chosen)

	if title == "" {
		title = "Untitled"
	}

	tags := make([]string, 0, len(item.Categories))
	for _, c := range item.Categories {
		if c != "" {
			tags = append(tags, c)
		}
	}

	return domain.Article{
		ID:        id,
		Title:     title,
		URL:       url,
		Published: resolveTime(item.PublishedParsed, item.Published),
		Updated:   resolveTime(item.UpdatedParsed, item.Updated),
		Author:    resolveAuthor(item),
		Summary:   summary,
		ImageURL:  imageURL,
		FeedName:  feedName,
		SectionID: sectionID,
		Tags:      tags,
	}, nil
}

// extractImage picks a representative image in priority order: the media
// extension, then enclosures declared as images, then the first <img> in
// the entry body.
func extractImage(item *gofeed.Item, rawContent, rawSummary string) *string {
	for _, media := range item.Extensions["media"]["content"] {
		if media.Attrs["medium"] == "image" && media.Attrs["url"] != "" {
			url := media.Attrs["url"]
			return &url
		}
	}

	for _, enc := range item.Enclosures {
		if enc == nil {
			continue
		}
		if strings.HasPrefix(enc.Type, "image/") && enc.URL != "" {
			url := enc.URL
			return &url
		}
	}

	searchText := rawContent
	if searchText == "" {
		searchText = rawSummary
	}
	if src, ok := sanitize.FirstImage(searchText); ok {
		return &src
	}

	return nil
}

// resolveTime prefers the pre-parsed timestamp the feed parser supplies and
// falls back to free-text parsing of the raw date string. Unparsable dates
// yield nil rather than failing the entry.
func resolveTime(parsed *time.Time, raw string) *time.Time {
	if parsed != nil {
		t := *parsed
		return &t
	}
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	t, err := dateparse.ParseAny(raw)
	if err != nil {
		return nil
	}
	return &t
}

func resolveAuthor(item *gofeed.Item) *string {
	if item.Author != nil && item.Author.Name != "" {
		name := item.Author.Name
		return &name
	}
	if len(item.Authors) > 0 && item.Authors[0] != nil && item.Authors[0].Name != "" {
		name := item.Authors[0].Name
		return &name
	}
	return nil
}
