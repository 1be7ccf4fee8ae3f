package domain

import (
	"strings"
	"time"
)

// DateLayout is the calendar-date format used by every date-scoped query.
const DateLayout = "2006-01-02"

type Article struct {
	ID          int64     `db:"id" json:"-"`
	Title       string    `db:"title" json:"title"`
	Description *string   `db:"description" json:"description"`
	URL         string    `db:"url" json:"url"`
	Source      string    `db:"source" json:"source"`
	PublishedAt time.Time `db:"published_at" json:"published_at"`
	Category    Category  `db:"category" json:"category"`
	CreatedAt   time.Time `db:"created_at" json:"-"`
}

// RawArticle is an upstream payload before the completeness gate.
// A zero PublishedAt means the provider sent no usable timestamp.
type RawArticle struct {
	Title       string
	Description *string
	URL         string
	Source      string
	PublishedAt time.Time
}

// Accept converts the payload into an Article tagged with the category of
// the request that produced it. Title, URL, Source and PublishedAt are
// required; Description is optional.
func (r RawArticle) Accept(category Category) (Article, bool) {
	title := strings.TrimSpace(r.Title)
	url := strings.TrimSpace(r.URL)
	source := strings.TrimSpace(r.Source)
	if title == "" || url == "" || source == "" || r.PublishedAt.IsZero() {
		return Article{}, false
	}

	return Article{
		Title:       title,
		Description: r.Description,
		URL:         url,
		Source:      source,
		PublishedAt: r.PublishedAt.UTC(),
		Category:    category,
	}, true
}

// Day truncates t to its UTC calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a YYYY-MM-DD string into a UTC calendar date.
func ParseDay(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}
