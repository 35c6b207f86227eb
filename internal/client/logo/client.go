package logo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"

	"stockpulse/internal/config"
)

// Client looks up company logos via a clearbit-style suggest API.
type Client struct {
	http *resty.Client
}

func NewClient(http *resty.Client, cfg config.LogoConfig) *Client {
	if http == nil {
		http = resty.New()
	}
	http.SetBaseURL(strings.TrimRight(cfg.BaseURL, "/"))
	if cfg.Timeout > 0 {
		http.SetTimeout(cfg.Timeout)
	}
	return &Client{http: http}
}

type suggestion struct {
	Name   string `json:"name"`
	Domain string `json:"domain"`
	Logo   string `json:"logo"`
}

// Lookup returns a logo URL for the company, preferring a suggestion whose
// domain matches the company website. An empty string means no logo was
// found; the caller treats that as optional data, never a failure.
func (c *Client) Lookup(ctx context.Context, name, website string) (string, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("query", name).
		Get("/v1/companies/suggest")
	if err != nil {
		return "", fmt.Errorf("logo lookup failed: %w", err)
	}
	if !resp.IsSuccess() {
		return "", fmt.Errorf("logo lookup status %d", resp.StatusCode())
	}

	var suggestions []suggestion
	if err := json.Unmarshal(resp.Body(), &suggestions); err != nil {
		return "", fmt.Errorf("logo lookup parse failed: %w", err)
	}
	if len(suggestions) == 0 {
		return "", nil
	}

	domain := domainOf(website)
	for _, s := range suggestions {
		if domain != "" && s.Domain == domain && s.Logo != "" {
			return s.Logo, nil
		}
	}
	return suggestions[0].Logo, nil
}

func domainOf(website string) string {
	if website == "" {
		return ""
	}
	u, err := url.Parse(website)
	if err != nil || u.Host == "" {
		return ""
	}
	return strings.TrimPrefix(u.Host, "www.")
}
