package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"stockpulse/internal/config"
)

// Client searches a community's public listing API for ticker mentions.
type Client struct {
	http *resty.Client
	base string
}

type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("community API error (%d): %s", e.Status, e.Body)
}

func NewClient(http *resty.Client, cfg config.RedditConfig) *Client {
	if http == nil {
		http = resty.New()
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	http.SetBaseURL(base)
	if cfg.Timeout > 0 {
		http.SetTimeout(cfg.Timeout)
	}
	if cfg.UserAgent != "" {
		http.SetHeader("User-Agent", cfg.UserAgent)
	}
	return &Client{http: http, base: base}
}

// Post is a normalized self-text post.
type Post struct {
	ID          string
	Subreddit   string
	Title       string
	Content     string
	Author      string
	Score       int
	NumComments int
	URL         string
	Timestamp   time.Time
}

type listingResponse struct {
	Data struct {
		Children []struct {
			Data struct {
				ID          string  `json:"id"`
				Subreddit   string  `json:"subreddit"`
				Title       string  `json:"title"`
				Selftext    string  `json:"selftext"`
				Author      string  `json:"author"`
				Score       int     `json:"score"`
				NumComments int     `json:"num_comments"`
				Permalink   string  `json:"permalink"`
				CreatedUTC  float64 `json:"created_utc"`
				IsSelf      bool    `json:"is_self"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// Search returns self-text posts mentioning the ticker in one subreddit
// within the lookback window ("hour", "day", "week", ...). Image and
// link-only posts are dropped. Zero matches is a valid empty result.
func (c *Client) Search(ctx context.Context, subreddit, ticker, lookback string) ([]Post, error) {
	if lookback == "" {
		lookback = "week"
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":           ticker,
			"restrict_sr": "1",
			"sort":        "new",
			"t":           lookback,
			"limit":       "100",
		}).
		Get(fmt.Sprintf("/r/%s/search.json", subreddit))
	if err != nil {
		return nil, fmt.Errorf("community search failed: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, &APIError{Status: resp.StatusCode(), Body: resp.String()}
	}

	var payload listingResponse
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return nil, fmt.Errorf("community search parse failed: %w", err)
	}

	posts := make([]Post, 0, len(payload.Data.Children))
	for _, child := range payload.Data.Children {
		data := child.Data
		if !data.IsSelf || strings.TrimSpace(data.Selftext) == "" {
			continue
		}
		posts = append(posts, Post{
			ID:          data.ID,
			Subreddit:   data.Subreddit,
			Title:       data.Title,
			Content:     data.Selftext,
			Author:      data.Author,
			Score:       data.Score,
			NumComments: data.NumComments,
			URL:         c.base + data.Permalink,
			Timestamp:   time.Unix(int64(data.CreatedUTC), 0).UTC(),
		})
	}
	return posts, nil
}
