package service

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"stockpulse/internal/client/newsfeed"
	"stockpulse/internal/indicator"
	"stockpulse/internal/models"
	"stockpulse/internal/repository"
	"stockpulse/internal/sentiment"
)

// IngestOptions carries the pipeline knobs from configuration.
type IngestOptions struct {
	PriceRange   string
	BarWindow    int
	Subreddits   []string
	Lookback     string
	NewsFilter   newsfeed.Filter
	StageTimeout time.Duration
}

// IngestService drives the ingestion pipeline for one ticker: resolve,
// create the security, then enrich it from every source. Stage failures
// are isolated; a security survives even when all enrichment fails.
type IngestService struct {
	Store     repository.Store
	Quote     QuoteSource
	Logo      LogoSource
	Social    SocialSource
	Microblog MicroblogSource
	News      NewsSource
	Logger    *zap.Logger
	Options   IngestOptions
}

// stageResult tallies one enrichment stage for the ingest state record.
type stageResult struct {
	rows int
	err  error
}

// Ingest resolves a free-text query upstream and, on first sight of the
// resolved ticker, creates and enriches the security. A ticker that
// already exists locally short-circuits without touching any adapter
// beyond autocomplete.
func (s *IngestService) Ingest(ctx context.Context, query string) (*models.Security, error) {
	symbol, err := s.Quote.Autocomplete(ctx, query)
	if err != nil {
		return nil, err
	}
	if symbol == "" {
		return nil, ErrTickerNotFound
	}

	existing, err := s.Store.GetSecurityByTicker(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	meta, err := s.Quote.Metadata(ctx, symbol)
	if err != nil {
		return nil, err
	}

	security := &models.Security{
		Ticker:  meta.Ticker,
		Name:    meta.Name,
		Summary: meta.Summary,
	}
	if s.Logo != nil {
		logoURL, err := s.Logo.Lookup(ctx, meta.Name, meta.Website)
		if err != nil {
			s.log().Warn("logo lookup failed", zap.String("ticker", symbol), zap.Error(err))
		} else if logoURL != "" {
			security.ImageURL = &logoURL
		}
	}
	if err := s.Store.UpsertSecurity(ctx, security); err != nil {
		return nil, err
	}

	s.Enrich(ctx, security.Ticker)
	return security, nil
}

// Enrich runs every enrichment stage for an existing security. The price
// stage runs first because indicator computation depends on persisted
// bars; the social, microblog, and news stages run concurrently since
// their upsert keys never overlap.
func (s *IngestService) Enrich(ctx context.Context, ticker string) {
	attempt := time.Now().UTC()
	results := map[string]stageResult{}
	var mu sync.Mutex
	record := func(stage string, res stageResult) {
		mu.Lock()
		results[stage] = res
		mu.Unlock()
		if res.err != nil {
			s.log().Warn("enrichment stage failed",
				zap.String("ticker", ticker),
				zap.String("stage", stage),
				zap.Error(res.err))
		}
	}

	bars, indicators := s.priceStage(ctx, ticker)
	record("price", bars)
	record("indicators", indicators)

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		record("reddit", s.socialStage(ctx, ticker))
	}()
	go func() {
		defer wg.Done()
		record("tweets", s.microblogStage(ctx, ticker))
	}()
	go func() {
		defer wg.Done()
		record("news", s.newsStage(ctx, ticker))
	}()
	wg.Wait()

	s.saveState(ctx, ticker, attempt, results)
}

// RefreshAll re-enriches every known security. Used by the scheduled
// refresh job and the manual refresh endpoint.
func (s *IngestService) RefreshAll(ctx context.Context) error {
	tickers, err := s.Store.ListTickers(ctx)
	if err != nil {
		return err
	}
	for _, ticker := range tickers {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		s.Enrich(ctx, ticker)
	}
	return nil
}

// RefreshStale re-enriches only the tickers whose last successful run is
// older than maxAge, falling back to a full refresh when maxAge is zero.
func (s *IngestService) RefreshStale(ctx context.Context, maxAge time.Duration) error {
	if maxAge <= 0 {
		return s.RefreshAll(ctx)
	}
	states, err := s.Store.ListIngestStatesStaleSince(ctx, time.Now().UTC().Add(-maxAge))
	if err != nil {
		return err
	}
	for _, state := range states {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		s.Enrich(ctx, state.Ticker)
	}
	return nil
}

func (s *IngestService) priceStage(ctx context.Context, ticker string) (price, indicators stageResult) {
	ctx, cancel := s.stageContext(ctx)
	defer cancel()

	fetched, err := s.Quote.DailyBars(ctx, ticker, s.Options.PriceRange)
	if err != nil {
		return stageResult{err: err}, stageResult{}
	}
	if len(fetched) == 0 {
		return stageResult{}, stageResult{}
	}

	bars := make([]models.PriceBar, 0, len(fetched))
	for _, bar := range fetched {
		bars = append(bars, models.PriceBar{
			Ticker:    ticker,
			Timestamp: bar.Timestamp,
			Open:      decimal.NewFromFloat(bar.Open),
			High:      decimal.NewFromFloat(bar.High),
			Low:       decimal.NewFromFloat(bar.Low),
			Close:     decimal.NewFromFloat(bar.Close),
		})
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Timestamp.Before(bars[j].Timestamp) })

	if err := s.Store.UpsertPriceBars(ctx, bars); err != nil {
		return stageResult{err: err}, stageResult{}
	}

	// Indicators are computed only after bars are persisted, from the
	// bounded window the chart endpoints also serve.
	window := bars
	if s.Options.BarWindow > 0 && len(window) > s.Options.BarWindow {
		window = window[len(window)-s.Options.BarWindow:]
	}
	values := indicator.Compute(window)
	for i := range values {
		values[i].Ticker = ticker
	}
	if err := s.Store.UpsertIndicators(ctx, values); err != nil {
		return stageResult{rows: len(bars)}, stageResult{err: err}
	}
	return stageResult{rows: len(bars)}, stageResult{rows: len(values)}
}

func (s *IngestService) socialStage(ctx context.Context, ticker string) stageResult {
	ctx, cancel := s.stageContext(ctx)
	defer cancel()

	var posts []models.SocialPost
	var lastErr error
	for _, subreddit := range s.Options.Subreddits {
		found, err := s.Social.Search(ctx, subreddit, ticker, s.Options.Lookback)
		if err != nil {
			lastErr = err
			continue
		}
		for _, post := range found {
			label := string(sentiment.Classify(post.Content))
			posts = append(posts, models.SocialPost{
				PostID:      post.ID,
				Ticker:      ticker,
				Subreddit:   post.Subreddit,
				Title:       post.Title,
				Content:     post.Content,
				Author:      post.Author,
				Score:       post.Score,
				NumComments: post.NumComments,
				URL:         post.URL,
				Timestamp:   post.Timestamp,
				Sentiment:   &label,
			})
		}
	}
	if err := s.Store.UpsertSocialPosts(ctx, posts); err != nil {
		return stageResult{err: err}
	}
	return stageResult{rows: len(posts), err: lastErr}
}

func (s *IngestService) microblogStage(ctx context.Context, ticker string) stageResult {
	ctx, cancel := s.stageContext(ctx)
	defer cancel()

	tweets, err := s.Microblog.SearchRecent(ctx, ticker)
	if err != nil {
		return stageResult{err: err}
	}

	items := make([]models.Microblog, 0, len(tweets))
	for _, tweet := range tweets {
		label := string(sentiment.Classify(tweet.Content))
		items = append(items, models.Microblog{
			TweetID:        tweet.ID,
			Ticker:         ticker,
			Content:        tweet.Content,
			Author:         tweet.Author,
			Retweets:       tweet.Retweets,
			Replies:        tweet.Replies,
			Likes:          tweet.Likes,
			Quotes:         tweet.Quotes,
			PublicityScore: tweet.PublicityScore,
			Hashtags:       tweet.Hashtags,
			URL:            tweet.URL,
			Timestamp:      tweet.Timestamp,
			Sentiment:      &label,
		})
	}
	if err := s.Store.UpsertMicroblogs(ctx, items); err != nil {
		return stageResult{err: err}
	}
	return stageResult{rows: len(items)}
}

func (s *IngestService) newsStage(ctx context.Context, ticker string) stageResult {
	ctx, cancel := s.stageContext(ctx)
	defer cancel()

	found, err := s.News.Search(ctx, ticker, s.Options.NewsFilter)
	if err != nil {
		return stageResult{err: err}
	}

	items := make([]models.NewsItem, 0, len(found))
	for _, item := range found {
		label := string(sentiment.Classify(item.Headline))
		items = append(items, models.NewsItem{
			Ticker:      ticker,
			URL:         item.URL,
			Headline:    item.Headline,
			Source:      item.Source,
			Description: item.Description,
			Timestamp:   item.Timestamp,
			Sentiment:   &label,
		})
	}
	if err := s.Store.UpsertNewsItems(ctx, items); err != nil {
		return stageResult{err: err}
	}
	return stageResult{rows: len(items)}
}

func (s *IngestService) saveState(ctx context.Context, ticker string, attempt time.Time, results map[string]stageResult) {
	stats := map[string]any{}
	var firstErr *string
	clean := true
	for stage, res := range results {
		stats[stage] = res.rows
		if res.err != nil {
			clean = false
			if firstErr == nil {
				msg := stage + ": " + res.err.Error()
				firstErr = &msg
			}
		}
	}

	state := &models.IngestState{
		Ticker:        ticker,
		LastAttemptAt: &attempt,
		LastError:     firstErr,
	}
	if clean {
		state.LastSuccessAt = &attempt
	}
	if raw, err := json.Marshal(stats); err == nil {
		state.StatsJSON = datatypes.JSON(raw)
	}
	if err := s.Store.SaveIngestState(ctx, state); err != nil {
		s.log().Warn("save ingest state failed", zap.String("ticker", ticker), zap.Error(err))
	}
}

func (s *IngestService) stageContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.Options.StageTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.Options.StageTimeout)
}

func (s *IngestService) log() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// normalizeQuery is shared by the resolver's coalescing map.
func normalizeQuery(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}
