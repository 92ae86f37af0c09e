package classifier

import (
	"strings"
)

var newsTerms = []string{
	"news",
	"headline",
	"breaking",
	"current events",
	"latest on",
	"what's happening",
	"whats happening",
	"top stories",
}

// KeywordNewsDetector is the default NewsDetector.
type KeywordNewsDetector struct{}

func (KeywordNewsDetector) IsNewsQuery(text string) bool {
	lower := strings.ToLower(text)
	for _, term := range newsTerms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

// categoryTerms is checked in order; the first category with a hit wins.
var categoryTerms = []struct {
	category string
	terms    []string
}{
	{"technology", []string{"tech", "ai ", "artificial intelligence", "software", "gadget", "apple", "google", "microsoft", "startup", "crypto"}},
	{"business", []string{"business", "market", "stock", "economy", "finance", "earnings", "company", "trade"}},
	{"sports", []string{"sport", "football", "soccer", "basketball", "nba", "nfl", "tennis", "cricket", "olympic", "match"}},
	{"entertainment", []string{"entertainment", "movie", "film", "music", "celebrity", "tv ", "hollywood", "netflix"}},
	{"health", []string{"health", "medical", "covid", "virus", "disease", "vaccine", "fitness", "hospital"}},
	{"science", []string{"science", "space", "nasa", "climate", "research", "physics", "biology", "astronomy"}},
}

const DefaultCategory = "general"

// Category derives the news topic for a query, "general" when nothing matches.
func Category(query string) string {
	lower := strings.ToLower(query) + " "
	for _, c := range categoryTerms {
		for _, term := range c.terms {
			if strings.Contains(lower, term) {
				return c.category
			}
		}
	}
	return DefaultCategory
}
