package usecase

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"noctua/internal/config"
	"noctua/internal/domain"
	"noctua/internal/policy"
)

// FilterEngine applies the resolved per-section policies plus deduplication
// to a snapshot, in place. Articles are flagged, not removed; dropping the
// flagged ones is a separate explicit step so filter decisions stay
// auditable.
type FilterEngine struct {
	logger *slog.Logger
	now    func() time.Time
}

// FilterStats aggregates the outcome of one filter run.
type FilterStats struct {
	Total    int
	Kept     int
	Filtered int
	Reasons  map[string]int
}

// NewFilterEngine builds the engine; the clock is overridable in tests.
func NewFilterEngine(logger *slog.Logger) *FilterEngine {
	return &FilterEngine{logger: logger, now: time.Now}
}

// Run marks every article in the snapshot against its section's effective
// policy, deduplicates survivors within each feed, and retags the snapshot
// as filter-stage output.
func (e *FilterEngine) Run(cfg config.Config, data *domain.FeedData) FilterStats {
	now := e.now().UTC()
	stats := FilterStats{Reasons: map[string]int{}}

	for si := range data.Sections {
		section := &data.Sections[si]
		pol := policy.ForSection(cfg, section.ID)
		e.debug("filtering section", "section", section.ID,
			"max_age_hours", pol.MaxAgeHours, "deduplicate", pol.Deduplicate)

		for fi := range section.Feeds {
			feed := &section.Feeds[fi]

			for ai := range feed.Articles {
				stats.Total++
				markArticle(&feed.Articles[ai], pol, now)
			}

			if pol.Deduplicate {
				dedupeFeed(feed)
			}

			for _, a := range feed.Articles {
				if !a.IsFiltered {
					stats.Kept++
					continue
				}
				stats.Filtered++
				reason := "Unknown"
				if a.FilterReason != nil {
					reason = *a.FilterReason
				}
				stats.Reasons[reason]++
			}
		}
	}

	data.Step = domain.StepFilter
	data.ProcessedAt = time.Now()
	return stats
}

func (e *FilterEngine) debug(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Debug(msg, args...)
	}
}

// RemoveFiltered drops every flagged article from the snapshot. Kept
// separate from Run so callers can inspect or report decisions first.
func RemoveFiltered(data *domain.FeedData) {
	for si := range data.Sections {
		for fi := range data.Sections[si].Feeds {
			feed := &data.Sections[si].Feeds[fi]
			kept := make([]domain.Article, 0, len(feed.Articles))
			for _, a := range feed.Articles {
				if !a.IsFiltered {
					kept = append(kept, a)
				}
			}
			feed.Articles = kept
		}
	}
}

// markArticle runs the policy pass. Checks run in a fixed order and the
// first failing check records the single filter reason. Articles without a
// publish time are exempt from the age check; this mirrors the upstream
// workflow's behavior and is deliberate, not an oversight.
func markArticle(a *domain.Article, pol policy.Policy, now time.Time) {
	if a.Published != nil {
		ageHours := now.Sub(a.Published.UTC()).Hours()
		if ageHours > float64(pol.MaxAgeHours) {
			flag(a, fmt.Sprintf("Too old (%.0fh > %dh)", ageHours, pol.MaxAgeHours))
			return
		}
	}

	text := strings.ToLower(a.Title + " " + a.Summary)

	for _, keyword := range pol.ExcludeKeywords {
		if keyword == "" {
			continue
		}
		if strings.Contains(text, strings.ToLower(keyword)) {
			flag(a, "Contains excluded keyword: "+keyword)
			return
		}
	}

	if len(pol.RequireKeywords) > 0 {
		found := false
		for _, keyword := range pol.RequireKeywords {
			if keyword != "" && strings.Contains(text, strings.ToLower(keyword)) {
				found = true
				break
			}
		}
		if !found {
			flag(a, "Missing required keywords")
			return
		}
	}

	lowerURL := strings.ToLower(a.URL)
	if pol.ExcludeURLPart != "" && strings.Contains(lowerURL, strings.ToLower(pol.ExcludeURLPart)) {
		flag(a, "URL contains excluded part: "+pol.ExcludeURLPart)
		return
	}
	if pol.RequireURLPart != "" && !strings.Contains(lowerURL, strings.ToLower(pol.RequireURLPart)) {
		flag(a, "URL missing required part: "+pol.RequireURLPart)
		return
	}

	if pol.MinContentLength > 0 {
		length := len([]rune(strings.TrimSpace(a.Summary)))
		if length < pol.MinContentLength {
			flag(a, fmt.Sprintf("Content too short (%d < %d)", length, pol.MinContentLength))
		}
	}
}

// dedupeFeed flags later occurrences of an already-seen URL or title.
// Scope is a single feed: identical articles in two different feeds are
// kept. Only articles that survived the policy pass participate.
func dedupeFeed(feed *domain.Feed) {
	seenURLs := make(map[string]struct{})
	seenTitles := make(map[string]struct{})

	for i := range feed.Articles {
		a := &feed.Articles[i]
		if a.IsFiltered {
			continue
		}

		urlKey := normalizeURL(a.URL)
		titleKey := normalizeTitle(a.Title)

		if _, ok := seenURLs[urlKey]; ok {
			flag(a, "Duplicate URL")
			continue
		}
		if _, ok := seenTitles[titleKey]; ok {
			flag(a, "Duplicate title")
			continue
		}

		seenURLs[urlKey] = struct{}{}
		seenTitles[titleKey] = struct{}{}
	}
}

var punctuationRe = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)

func normalizeURL(url string) string {
	return strings.TrimRight(strings.ToLower(url), "/")
}

func normalizeTitle(title string) string {
	stripped := punctuationRe.ReplaceAllString(strings.ToLower(title), "")
	return strings.Join(strings.Fields(stripped), " ")
}

func flag(a *domain.Article, reason string) {
	a.IsFiltered = true
	a.FilterReason = &reason
}
