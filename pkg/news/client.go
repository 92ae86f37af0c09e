package news

import (
	"context"
	"time"
)

// Article is one news item as returned by a news source.
type Article struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Source      string    `json:"source"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"published_at"`
}

// Result carries the articles for one query. IsPlaceholder marks canned data
// served when the real source is unavailable; callers must treat it as a miss.
type Result struct {
	Articles      []Article `json:"articles"`
	IsPlaceholder bool      `json:"is_placeholder"`
}

func (r *Result) Empty() bool {
	return r == nil || len(r.Articles) == 0
}

// Client looks up news. An empty query asks for top headlines in the category.
type Client interface {
	Search(ctx context.Context, category, query string) (*Result, error)
}
