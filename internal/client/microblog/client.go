package microblog

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"stockpulse/internal/config"
)

// Client issues cashtag keyword searches against a twitter-v2 style
// recent-search API.
type Client struct {
	http       *resty.Client
	lang       string
	maxResults int
}

type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("microblog API error (%d): %s", e.Status, e.Body)
}

func NewClient(http *resty.Client, cfg config.MicroblogConfig) *Client {
	if http == nil {
		http = resty.New()
	}
	http.SetBaseURL(strings.TrimRight(cfg.BaseURL, "/"))
	if cfg.Timeout > 0 {
		http.SetTimeout(cfg.Timeout)
	}
	if cfg.BearerToken != "" {
		http.SetAuthToken(cfg.BearerToken)
	}
	lang := cfg.Lang
	if lang == "" {
		lang = "en"
	}
	max := cfg.MaxResults
	if max <= 0 || max > 100 {
		max = 100
	}
	return &Client{http: http, lang: lang, maxResults: max}
}

// Tweet is a normalized microblog post. Content is already cleaned for
// sentiment classification; PublicityScore sums the engagement counters.
type Tweet struct {
	ID             string
	Content        string
	Author         string
	Retweets       int
	Replies        int
	Likes          int
	Quotes         int
	PublicityScore int
	Hashtags       string
	URL            string
	Timestamp      time.Time
}

type searchResponse struct {
	Data []struct {
		ID            string    `json:"id"`
		Text          string    `json:"text"`
		AuthorID      string    `json:"author_id"`
		CreatedAt     time.Time `json:"created_at"`
		PublicMetrics struct {
			RetweetCount int `json:"retweet_count"`
			ReplyCount   int `json:"reply_count"`
			LikeCount    int `json:"like_count"`
			QuoteCount   int `json:"quote_count"`
		} `json:"public_metrics"`
		Entities struct {
			Hashtags []struct {
				Tag string `json:"tag"`
			} `json:"hashtags"`
		} `json:"entities"`
	} `json:"data"`
	Includes struct {
		Users []struct {
			ID       string `json:"id"`
			Username string `json:"username"`
		} `json:"users"`
	} `json:"includes"`
}

// SearchRecent finds recent posts for the ticker's cashtag, capped at the
// configured result limit and restricted to the configured language.
func (c *Client) SearchRecent(ctx context.Context, ticker string) ([]Tweet, error) {
	query := fmt.Sprintf("$%s lang:%s -is:retweet", strings.ToUpper(ticker), c.lang)
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"query":        query,
			"max_results":  strconv.Itoa(c.maxResults),
			"tweet.fields": "created_at,public_metrics,entities,author_id",
			"expansions":   "author_id",
			"user.fields":  "username",
		}).
		Get("/2/tweets/search/recent")
	if err != nil {
		return nil, fmt.Errorf("microblog search failed: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, &APIError{Status: resp.StatusCode(), Body: resp.String()}
	}

	var payload searchResponse
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return nil, fmt.Errorf("microblog search parse failed: %w", err)
	}

	usernames := map[string]string{}
	for _, user := range payload.Includes.Users {
		usernames[user.ID] = user.Username
	}

	tweets := make([]Tweet, 0, len(payload.Data))
	for _, item := range payload.Data {
		author := usernames[item.AuthorID]
		if author == "" {
			author = item.AuthorID
		}
		metrics := item.PublicMetrics
		tags := make([]string, 0, len(item.Entities.Hashtags))
		for _, h := range item.Entities.Hashtags {
			tags = append(tags, h.Tag)
		}
		tweets = append(tweets, Tweet{
			ID:             item.ID,
			Content:        CleanText(item.Text),
			Author:         author,
			Retweets:       metrics.RetweetCount,
			Replies:        metrics.ReplyCount,
			Likes:          metrics.LikeCount,
			Quotes:         metrics.QuoteCount,
			PublicityScore: metrics.RetweetCount + metrics.ReplyCount + metrics.LikeCount + metrics.QuoteCount,
			Hashtags:       strings.Join(tags, " "),
			URL:            fmt.Sprintf("https://twitter.com/%s/status/%s", author, item.ID),
			Timestamp:      item.CreatedAt.UTC(),
		})
	}
	return tweets, nil
}
