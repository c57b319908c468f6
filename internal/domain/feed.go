package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Pipeline stage names; each stage writes its snapshot under this tag.
const (
	StepDownload = "download"
	StepFilter   = "filter"
)

// FetchStatus enumerates the outcome of a single feed download.
type FetchStatus string

const (
	StatusPending FetchStatus = "pending"
	StatusSuccess FetchStatus = "success"
	StatusError   FetchStatus = "error"
)

// Article is the canonical representation of one feed entry. Identity is the
// ID field alone; everything else is payload. Filter flags are the only fields
// mutated after normalization.
type Article struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	URL       string     `json:"url"`
	Published *time.Time `json:"published"`
	Updated   *time.Time `json:"updated"`
	Author    *string    `json:"author"`
	Summary   string     `json:"summary"`
	ImageURL  *string    `json:"image_url"`
	FeedName  string     `json:"feed_name"`
	SectionID string     `json:"section_id"`
	Tags      []string   `json:"tags"`

	IsFiltered   bool    `json:"is_filtered"`
	FilterReason *string `json:"filter_reason"`
}

// Feed is one syndicated source together with its fetched articles and the
// outcome of the fetch attempt. A feed with StatusError carries no articles.
type Feed struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	URL       string `json:"url"`
	SectionID string `json:"section_id"`

	Title       *string `json:"title"`
	Description *string `json:"description"`
	Link        *string `json:"link"`

	Articles []Article `json:"articles"`

	FetchStatus FetchStatus `json:"fetch_status"`
	FetchError  *string     `json:"fetch_error"`
	FetchedAt   *time.Time  `json:"fetched_at"`
}

// Section groups feeds sharing presentation and default filter policy.
type Section struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
	Feeds       []Feed  `json:"feeds"`
	AISummary   *string `json:"ai_summary"`
}

// TotalArticles counts articles across all feeds in the section.
func (s Section) TotalArticles() int {
	total := 0
	for _, f := range s.Feeds {
		total += len(f.Articles)
	}
	return total
}

// AllArticles flattens the section's feeds into one article sequence.
func (s Section) AllArticles() []Article {
	articles := make([]Article, 0, s.TotalArticles())
	for _, f := range s.Feeds {
		articles = append(articles, f.Articles...)
	}
	return articles
}

// FeedData is the snapshot handed between pipeline stages. Ownership is
// strictly tree-shaped: FeedData → Section → Feed → Article.
type FeedData struct {
	Sections       []Section `json:"sections"`
	ProcessedAt    time.Time `json:"processed_at"`
	Step           string    `json:"step"`
	OverallSummary *string   `json:"overall_summary"`
}

// TotalArticles counts articles across every section.
func (d FeedData) TotalArticles() int {
	total := 0
	for _, s := range d.Sections {
		total += s.TotalArticles()
	}
	return total
}

// AllArticles flattens the whole snapshot into one article sequence.
func (d FeedData) AllArticles() []Article {
	articles := make([]Article, 0, d.TotalArticles())
	for _, s := range d.Sections {
		articles = append(articles, s.AllArticles()...)
	}
	return articles
}

// SectionByID returns the section with the given id, or nil.
func (d *FeedData) SectionByID(id string) *Section {
	for i := range d.Sections {
		if d.Sections[i].ID == id {
			return &d.Sections[i]
		}
	}
	return nil
}

// HashID derives a short stable identifier from the given parts. Used for
// article IDs (url + title) and feed IDs (url).
func HashID(parts ...string) string {
	h := sha256.New()
	for i, p := range parts {
		if i > 0 {
			h.Write([]byte(":"))
		}
		h.Write([]byte(p))
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}
