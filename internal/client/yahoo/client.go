package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"stockpulse/internal/config"
)

// Client talks to a yh-finance style quote API: symbol autocomplete,
// company summaries, and daily chart history.
type Client struct {
	http *resty.Client
}

type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("quote API error (%d): %s", e.Status, e.Body)
}

func NewClient(http *resty.Client, cfg config.QuoteConfig) *Client {
	if http == nil {
		http = resty.New()
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	http.SetBaseURL(base)
	if cfg.Timeout > 0 {
		http.SetTimeout(cfg.Timeout)
	}
	if cfg.APIKey != "" {
		http.SetHeader("X-RapidAPI-Key", cfg.APIKey)
		if u, err := url.Parse(base); err == nil {
			http.SetHeader("X-RapidAPI-Host", u.Host)
		}
	}
	return &Client{http: http}
}

// Autocomplete resolves free text to the provider's best symbol match.
// An empty symbol with a nil error means the provider knows no such ticker.
func (c *Client) Autocomplete(ctx context.Context, query string) (string, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("q", query).
		Get("/auto-complete")
	if err != nil {
		return "", fmt.Errorf("autocomplete request failed: %w", err)
	}
	if !resp.IsSuccess() {
		return "", &APIError{Status: resp.StatusCode(), Body: resp.String()}
	}

	var payload autocompleteResponse
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return "", fmt.Errorf("autocomplete parse failed: %w", err)
	}
	for _, quote := range payload.Quotes {
		if quote.Symbol != "" {
			return quote.Symbol, nil
		}
	}
	return "", nil
}

// Metadata fetches the company profile for a resolved ticker.
func (c *Client) Metadata(ctx context.Context, ticker string) (*Metadata, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("symbol", ticker).
		Get("/stock/v2/get-summary")
	if err != nil {
		return nil, fmt.Errorf("metadata request failed: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, &APIError{Status: resp.StatusCode(), Body: resp.String()}
	}

	var payload summaryResponse
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return nil, fmt.Errorf("metadata parse failed: %w", err)
	}
	if payload.Symbol == "" {
		return nil, fmt.Errorf("metadata response missing symbol for %s", ticker)
	}
	return &Metadata{
		Ticker:  payload.Symbol,
		Name:    payload.QuoteType.ShortName,
		Summary: payload.SummaryProfile.LongBusinessSummary,
		Website: payload.SummaryProfile.Website,
	}, nil
}

// DailyBars fetches daily OHLC history for the configured range. A chart
// error or empty result set is the provider's "no data" outcome and maps
// to (nil, nil), distinct from a transport failure.
func (c *Client) DailyBars(ctx context.Context, ticker, rng string) ([]Bar, error) {
	if rng == "" {
		rng = "2y"
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"interval":             "1d",
			"symbol":               ticker,
			"range":                rng,
			"includeAdjustedClose": "true",
		}).
		Get("/stock/v3/get-chart")
	if err != nil {
		return nil, fmt.Errorf("chart request failed: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, &APIError{Status: resp.StatusCode(), Body: resp.String()}
	}

	var payload chartResponse
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return nil, fmt.Errorf("chart parse failed: %w", err)
	}
	if payload.Chart.Error != nil || len(payload.Chart.Result) == 0 {
		return nil, nil
	}

	result := payload.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, nil
	}
	quote := result.Indicators.Quote[0]

	bars := make([]Bar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		open := at(quote.Open, i)
		high := at(quote.High, i)
		low := at(quote.Low, i)
		clos := at(quote.Close, i)
		if open == nil || high == nil || low == nil || clos == nil {
			continue
		}
		bars = append(bars, Bar{
			Timestamp: time.Unix(ts, 0).UTC(),
			Open:      *open,
			High:      *high,
			Low:       *low,
			Close:     *clos,
		})
	}
	return bars, nil
}

func at(values []*float64, i int) *float64 {
	if i < 0 || i >= len(values) {
		return nil
	}
	return values[i]
}
