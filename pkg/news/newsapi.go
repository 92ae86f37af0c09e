package news

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const DefaultBaseURL = "https://newsapi.org/v2"

// NewsAPIClient queries newsapi.org style endpoints.
type NewsAPIClient struct {
	BaseURL  string
	APIKey   string
	Country  string
	PageSize int
	Client   *http.Client
}

var _ Client = &NewsAPIClient{}

func NewNewsAPIClient(baseURL, apiKey string) *NewsAPIClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &NewsAPIClient{
		BaseURL:  baseURL,
		APIKey:   apiKey,
		Country:  "us",
		PageSize: 10,
		Client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type newsAPIResponse struct {
	Status   string `json:"status"`
	Code     string `json:"code,omitempty"`
	Message  string `json:"message,omitempty"`
	Articles []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Title       string    `json:"title"`
		Description string    `json:"description"`
		URL         string    `json:"url"`
		PublishedAt time.Time `json:"publishedAt"`
	} `json:"articles"`
}

// Search hits /everything when a query is given, otherwise /top-headlines.
// Without an API key it returns placeholder headlines instead of failing.
func (c *NewsAPIClient) Search(ctx context.Context, category, query string) (*Result, error) {
	if c.APIKey == "" {
		return placeholder(category), nil
	}

	params := url.Values{}
	params.Set("pageSize", strconv.Itoa(c.PageSize))

	endpoint := "/top-headlines"
	if query != "" {
		endpoint = "/everything"
		params.Set("q", query)
		params.Set("sortBy", "publishedAt")
		params.Set("language", "en")
	} else {
		params.Set("country", c.Country)
		if category != "" {
			params.Set("category", category)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.APIKey)

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("news request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var parsed newsAPIResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("unmarshal response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK || parsed.Status != "ok" {
		return nil, fmt.Errorf("news api error: status %d, code %s: %s", resp.StatusCode, parsed.Code, parsed.Message)
	}

	result := &Result{Articles: make([]Article, 0, len(parsed.Articles))}
	for _, a := range parsed.Articles {
		// removed articles come back as "[Removed]" stubs
		if a.Title == "" || a.Title == "[Removed]" {
			continue
		}
		result.Articles = append(result.Articles, Article{
			Title:       a.Title,
			Description: a.Description,
			Source:      a.Source.Name,
			URL:         a.URL,
			PublishedAt: a.PublishedAt,
		})
	}
	return result, nil
}

func placeholder(category string) *Result {
	if category == "" {
		category = "general"
	}
	return &Result{
		IsPlaceholder: true,
		Articles: []Article{
			{
				Title:       fmt.Sprintf("Top %s stories are unavailable right now", category),
				Description: "Configure a news API key to see live headlines.",
				Source:      "Assistant",
			},
		},
	}
}
