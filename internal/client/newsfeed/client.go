package newsfeed

import (
	"context"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"stockpulse/internal/config"
)

// Client queries an RSS search feed for ticker headlines.
type Client struct {
	http *resty.Client
}

type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("news feed error (%d): %s", e.Status, e.Body)
}

func NewClient(http *resty.Client, cfg config.NewsConfig) *Client {
	if http == nil {
		http = resty.New()
	}
	http.SetBaseURL(strings.TrimRight(cfg.BaseURL, "/"))
	if cfg.Timeout > 0 {
		http.SetTimeout(cfg.Timeout)
	}
	return &Client{http: http}
}

// Item is one parsed feed entry. Items are returned in feed order,
// unsorted.
type Item struct {
	Headline    string
	URL         string
	Description string
	Source      string
	Timestamp   time.Time
}

type rssFeed struct {
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
	Source      struct {
		Name string `xml:",chardata"`
	} `xml:"source"`
}

// Search fetches feed items for the ticker, optionally narrowed by a
// recency filter. Zero items is a valid empty result, not an error.
func (c *Client) Search(ctx context.Context, ticker string, filter Filter) ([]Item, error) {
	query := ticker + " stock"
	if modifier := filter.queryModifier(); modifier != "" {
		query += " " + modifier
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":    query,
			"hl":   "en-US",
			"gl":   "US",
			"ceid": "US:en",
		}).
		Get("/rss/search")
	if err != nil {
		return nil, fmt.Errorf("news search failed: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, &APIError{Status: resp.StatusCode(), Body: resp.String()}
	}

	var feed rssFeed
	if err := xml.Unmarshal(resp.Body(), &feed); err != nil {
		return nil, fmt.Errorf("news feed parse failed: %w", err)
	}

	items := make([]Item, 0, len(feed.Channel.Items))
	for _, raw := range feed.Channel.Items {
		if strings.TrimSpace(raw.Title) == "" || strings.TrimSpace(raw.Link) == "" {
			continue
		}
		items = append(items, Item{
			Headline:    strings.TrimSpace(raw.Title),
			URL:         strings.TrimSpace(raw.Link),
			Description: strings.TrimSpace(raw.Description),
			Source:      strings.TrimSpace(raw.Source.Name),
			Timestamp:   parsePubDate(raw.PubDate),
		})
	}
	return items, nil
}

var pubDateLayouts = []string{
	time.RFC1123,
	time.RFC1123Z,
	time.RFC822,
	time.RFC3339,
}

func parsePubDate(value string) time.Time {
	value = strings.TrimSpace(value)
	for _, layout := range pubDateLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts.UTC()
		}
	}
	return time.Time{}
}

// Filter narrows a feed search by publish recency.
type Filter struct {
	kind string
	days int
}

var (
	FilterNone  = Filter{}
	FilterToday = Filter{kind: "today"}
	FilterWeek  = Filter{kind: "week"}
	FilterYear  = Filter{kind: "year"}
)

// FilterDays narrows to the last n days.
func FilterDays(n int) Filter {
	if n <= 0 {
		return FilterNone
	}
	return Filter{kind: "days", days: n}
}

// ParseFilter accepts today|week|year|days:N; anything else means
// unfiltered.
func ParseFilter(value string) Filter {
	value = strings.ToLower(strings.TrimSpace(value))
	switch value {
	case "today":
		return FilterToday
	case "week", "this-week":
		return FilterWeek
	case "year", "this-year":
		return FilterYear
	}
	if rest, ok := strings.CutPrefix(value, "days:"); ok {
		if n, err := strconv.Atoi(rest); err == nil {
			return FilterDays(n)
		}
	}
	return FilterNone
}

func (f Filter) queryModifier() string {
	switch f.kind {
	case "today":
		return "when:1d"
	case "week":
		return "when:7d"
	case "year":
		return "when:1y"
	case "days":
		return fmt.Sprintf("when:%dd", f.days)
	default:
		return ""
	}
}
