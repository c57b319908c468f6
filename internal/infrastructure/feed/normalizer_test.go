package feed

import (
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"
)

func TestNormalizeEntryGUIDWins(t *testing.T) {
	t.Parallel()

	item := &gofeed.Item{
		GUID:  "upstream-guid",
		Title: "Some Title",
		Link:  "https://example.com/a",
	}

	article, err := NormalizeEntry(item, "Example", "tech")
	if err != nil {
		t.Fatalf("NormalizeEntry error: %v", err)
	}
	if article.ID != "upstream-guid" {
		t.Fatalf("unexpected id: %s", article.ID)
	}
}

func TestNormalizeEntryHashIsDeterministic(t *testing.T) {
	t.Parallel()

	newItem := func() *gofeed.Item {
		return &gofeed.Item{Title: "Some Title", Link: "https://example.com/a"}
	}

	first, err := NormalizeEntry(newItem(), "Example", "tech")
	if err != nil {
		t.Fatalf("NormalizeEntry error: %v", err)
	}
	second, err := NormalizeEntry(newItem(), "Example", "tech")
	if err != nil {
		t.Fatalf("NormalizeEntry error: %v", err)
	}

	if first.ID == "" || first.ID != second.ID {
		t.Fatalf("ids differ: %q vs %q", first.ID, second.ID)
	}

	other, err := NormalizeEntry(&gofeed.Item{Title: "Other Title", Link: "https://example.com/a"}, "Example", "tech")
	if err != nil {
		t.Fatalf("NormalizeEntry error: %v", err)
	}
	if other.ID == first.ID {
		t.Fatal("different titles must produce different ids")
	}
}

func TestNormalizeEntryPrefersSummaryText(t *testing.T) {
	t.Parallel()

	item := &gofeed.Item{
		Title:       "T",
		Link:        "https://example.com/a",
		Description: "<p>short <em>summary</em></p>",
		Content:     "<p>long content body</p>",
	}

	article, err := NormalizeEntry(item, "Example", "tech")
	if err != nil {
		t.Fatalf("NormalizeEntry error: %v", err)
	}
	if article.Summary != "short summary" {
		t.Fatalf("unexpected summary: %q", article.Summary)
	}
}

func TestNormalizeEntryContentFallback(t *testing.T) {
	t.Parallel()

	item := &gofeed.Item{
		Title:   "T",
		Link:    "https://example.com/a",
		Content: "<p>only content</p>",
	}

	article, err := NormalizeEntry(item, "Example", "tech")
	if err != nil {
		t.Fatalf("NormalizeEntry error: %v", err)
	}
	if article.Summary != "only content" {
		t.Fatalf("unexpected summary: %q", article.Summary)
	}
}

func TestNormalizeEntryImagePriority(t *testing.T) {
	t.Parallel()

	mediaExt := ext.Extensions{
		"media": {
			"content": []ext.Extension{
				{Name: "content", Attrs: map[string]string{"medium": "image", "url": "https://cdn.example.com/media.png"}},
			},
		},
	}
	enclosure := &gofeed.Enclosure{URL: "https://cdn.example.com/enclosure.jpg", Type: "image/jpeg"}
	body := `<p><img src="https://cdn.example.com/inline.gif"></p>`

	cases := []struct {
		name string
		item *gofeed.Item
		want string
	}{
		{
			name: "media extension wins",
			item: &gofeed.Item{Title: "T", Link: "https://x/a", Extensions: mediaExt,
				Enclosures: []*gofeed.Enclosure{enclosure}, Content: body},
			want: "https://cdn.example.com/media.png",
		},
		{
			name: "enclosure next",
			item: &gofeed.Item{Title: "T", Link: "https://x/a",
				Enclosures: []*gofeed.Enclosure{enclosure}, Content: body},
			want: "https://cdn.example.com/enclosure.jpg",
		},
		{
			name: "inline img last",
			item: &gofeed.Item{Title: "T", Link: "https://x/a", Content: body},
			want: "https://cdn.example.com/inline.gif",
		},
	}

	for _, tc := range cases {
		article, err := NormalizeEntry(tc.item, "Example", "tech")
		if err != nil {
			t.Fatalf("%s: NormalizeEntry error: %v", tc.name, err)
		}
		if article.ImageURL == nil || *article.ImageURL != tc.want {
			t.Fatalf("%s: unexpected image: %v", tc.name, article.ImageURL)
		}
	}
}

func TestNormalizeEntryNonImageEnclosureIgnored(t *testing.T) {
	t.Parallel()

	item := &gofeed.Item{
		Title:      "T",
		Link:       "https://x/a",
		Enclosures: []*gofeed.Enclosure{{URL: "https://cdn.example.com/ep.mp3", Type: "audio/mpeg"}},
	}

	article, err := NormalizeEntry(item, "Example", "tech")
	if err != nil {
		t.Fatalf("NormalizeEntry error: %v", err)
	}
	if article.ImageURL != nil {
		t.Fatalf("expected no image, got %v", *article.ImageURL)
	}
}

func TestNormalizeEntryDates(t *testing.T) {
	t.Parallel()

	parsed := time.Date(2026, time.August, 1, 12, 0, 0, 0, time.UTC)
	item := &gofeed.Item{
		Title:           "T",
		Link:            "https://x/a",
		Published:       "garbage that should be ignored",
		PublishedParsed: &parsed,
		Updated:         "2026-08-02 09:30:00",
	}

	article, err := NormalizeEntry(item, "Example", "tech")
	if err != nil {
		t.Fatalf("NormalizeEntry error: %v", err)
	}

	if article.Published == nil || !article.Published.Equal(parsed) {
		t.Fatalf("unexpected published: %v", article.Published)
	}
	if article.Updated == nil || article.Updated.Day() != 2 {
		t.Fatalf("expected updated fallback parse, got %v", article.Updated)
	}
}

func TestNormalizeEntryUnparsableDateYieldsNil(t *testing.T) {
	t.Parallel()

	item := &gofeed.Item{Title: "T", Link: "https://x/a", Published: "not a date at all ???"}

	article, err := NormalizeEntry(item, "Example", "tech")
	if err != nil {
		t.Fatalf("NormalizeEntry error: %v", err)
	}
	if article.Published != nil {
		t.Fatalf("expected nil published, got %v", article.Published)
	}
}

func TestNormalizeEntryAuthorFallback(t *testing.T) {
	t.Parallel()

	item := &gofeed.Item{
		Title:   "T",
		Link:    "https://x/a",
		Authors: []*gofeed.Person{{Name: "Second Choice"}},
	}

	article, err := NormalizeEntry(item, "Example", "tech")
	if err != nil {
		t.Fatalf("NormalizeEntry error: %v", err)
	}
	if article.Author == nil || *article.Author != "Second Choice" {
		t.Fatalf("unexpected author: %v", article.Author)
	}

	item.Author = &gofeed.Person{Name: "First Choice"}
	article, err = NormalizeEntry(item, "Example", "tech")
	if err != nil {
		t.Fatalf("NormalizeEntry error: %v", err)
	}
	if article.Author == nil || *article.Author != "First Choice" {
		t.Fatalf("unexpected author: %v", article.Author)
	}
}

func TestNormalizeEntryTags(t *testing.T) {
	t.Parallel()

	item := &gofeed.Item{
		Title:      "T",
		Link:       "https://x/a",
		Categories: []string{"go", "", "infra"},
	}

	article, err := NormalizeEntry(item, "Example", "tech")
	if err != nil {
		t.Fatalf("NormalizeEntry error: %v", err)
	}
	if len(article.Tags) != 2 || article.Tags[0] != "go" || article.Tags[1] != "infra" {
		t.Fatalf("unexpected tags: %v", article.Tags)
	}
}

func TestNormalizeEntryDefectiveEntry(t *testing.T) {
	t.Parallel()

	if _, err := NormalizeEntry(nil, "Example", "tech"); err == nil {
		t.Fatal("expected error for nil entry")
	}
	if _, err := NormalizeEntry(&gofeed.Item{}, "Example", "tech"); err == nil {
		t.Fatal("expected error for empty entry")
	}
}

func TestNormalizeEntryUntitledDefault(t *testing.T) {
	t.Parallel()

	article, err := NormalizeEntry(&gofeed.Item{Link: "https://x/a"}, "Example", "tech")
	if err != nil {
		t.Fatalf("NormalizeEntry error: %v", err)
	}
	if article.Title != "Untitled" {
		t.Fatalf("unexpected title: %q", article.Title)
	}
	if article.FeedName != "Example" || article.SectionID != "tech" {
		t.Fatalf("ownership fields not set: %+v", article)
	}
}
