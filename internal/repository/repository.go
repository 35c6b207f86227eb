package repository

import (
	"context"
	"time"

	"stockpulse/internal/models"
)

// SentimentSource selects one of the three statically-known sentiment
// aggregation queries.
type SentimentSource string

const (
	SourceTweet  SentimentSource = "tweet"
	SourceReddit SentimentSource = "reddit"
	SourceNews   SentimentSource = "news"
)

func ParseSentimentSource(v string) (SentimentSource, bool) {
	switch SentimentSource(v) {
	case SourceTweet, SourceReddit, SourceNews:
		return SentimentSource(v), true
	default:
		return "", false
	}
}

type PageParams struct {
	Limit  int
	Offset int
}

// SentimentCounts is the per-label tally for one source.
type SentimentCounts struct {
	Positive int64 `json:"positive"`
	Neutral  int64 `json:"neutral"`
	Negative int64 `json:"negative"`
}

// Store is the persistence boundary consumed by the ingestion
// orchestrator and the query service. Every write is an upsert keyed by
// the entity's natural key; re-ingestion never duplicates rows.
type Store interface {
	// Securities.
	UpsertSecurity(ctx context.Context, item *models.Security) error
	GetSecurityByTicker(ctx context.Context, ticker string) (*models.Security, error)
	ListSecurities(ctx context.Context, page PageParams) ([]models.Security, int64, error)
	SearchSecurities(ctx context.Context, query string, page PageParams) ([]models.Security, int64, error)
	ListTickers(ctx context.Context) ([]string, error)
	DeleteSecurity(ctx context.Context, ticker string) error

	// Price bars, upsert by (ticker, timestamp).
	UpsertPriceBars(ctx context.Context, items []models.PriceBar) error
	ListPriceBars(ctx context.Context, ticker string, limit int) ([]models.PriceBar, error)

	// Indicators, upsert by (ticker, name).
	UpsertIndicators(ctx context.Context, items []models.Indicator) error
	ListIndicators(ctx context.Context, ticker string) ([]models.Indicator, error)

	// Enrichment rows.
	UpsertSocialPosts(ctx context.Context, items []models.SocialPost) error
	ListSocialPosts(ctx context.Context, ticker string, page PageParams) ([]models.SocialPost, int64, error)
	UpsertMicroblogs(ctx context.Context, items []models.Microblog) error
	ListMicroblogs(ctx context.Context, ticker string, page PageParams) ([]models.Microblog, int64, error)
	UpsertNewsItems(ctx context.Context, items []models.NewsItem) error
	ListNewsItems(ctx context.Context, ticker string, page PageParams) ([]models.NewsItem, int64, error)

	// Sentiment aggregation, one static query per source.
	CountSentiment(ctx context.Context, ticker string, source SentimentSource) (SentimentCounts, error)

	// Ingestion bookkeeping.
	SaveIngestState(ctx context.Context, state *models.IngestState) error
	GetIngestState(ctx context.Context, ticker string) (*models.IngestState, error)
	ListIngestStatesStaleSince(ctx context.Context, cutoff time.Time) ([]models.IngestState, error)
}
