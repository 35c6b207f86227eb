package service

import (
	"context"

	"stockpulse/internal/client/microblog"
	"stockpulse/internal/client/newsfeed"
	"stockpulse/internal/client/reddit"
	"stockpulse/internal/client/yahoo"
)

// Source interfaces consumed by the orchestrator. The concrete clients in
// internal/client satisfy them; tests substitute in-memory stubs.

type QuoteSource interface {
	Autocomplete(ctx context.Context, query string) (string, error)
	Metadata(ctx context.Context, ticker string) (*yahoo.Metadata, error)
	DailyBars(ctx context.Context, ticker, rng string) ([]yahoo.Bar, error)
}

type LogoSource interface {
	Lookup(ctx context.Context, name, website string) (string, error)
}

type SocialSource interface {
	Search(ctx context.Context, subreddit, ticker, lookback string) ([]reddit.Post, error)
}

type MicroblogSource interface {
	SearchRecent(ctx context.Context, ticker string) ([]microblog.Tweet, error)
}

type NewsSource interface {
	Search(ctx context.Context, ticker string, filter newsfeed.Filter) ([]newsfeed.Item, error)
}
