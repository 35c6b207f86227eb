package gormrepository

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"stockpulse/internal/models"
	"stockpulse/internal/repository"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&models.Security{},
		&models.PriceBar{},
		&models.Indicator{},
		&models.SocialPost{},
		&models.Microblog{},
		&models.NewsItem{},
		&models.IngestState{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return New(db)
}

func seedSecurity(t *testing.T, store *Store, ticker, name string) {
	t.Helper()
	if err := store.UpsertSecurity(context.Background(), &models.Security{Ticker: ticker, Name: name, Summary: "s"}); err != nil {
		t.Fatalf("seed %s: %v", ticker, err)
	}
}

func TestUpsertSecurity_Idempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	seedSecurity(t, store, "AAPL", "Apple Inc.")
	if err := store.UpsertSecurity(ctx, &models.Security{Ticker: "AAPL", Name: "Apple Inc. (updated)", Summary: "s2"}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	_, total, err := store.ListSecurities(ctx, repository.PageParams{Limit: 10})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 {
		t.Fatalf("total=%d want 1", total)
	}
	got, err := store.GetSecurityByTicker(ctx, "AAPL")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Apple Inc. (updated)" {
		t.Fatalf("name=%q want updated", got.Name)
	}
}

func TestUpsertPriceBars_StableRowCount(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

	bars := []models.PriceBar{
		{Ticker: "AAPL", Timestamp: base, Open: decimal.NewFromInt(10), High: decimal.NewFromInt(11), Low: decimal.NewFromInt(9), Close: decimal.NewFromInt(10)},
		{Ticker: "AAPL", Timestamp: base.AddDate(0, 0, 1), Open: decimal.NewFromInt(10), High: decimal.NewFromInt(12), Low: decimal.NewFromInt(10), Close: decimal.NewFromInt(11)},
	}
	for run := 0; run < 3; run++ {
		if err := store.UpsertPriceBars(ctx, bars); err != nil {
			t.Fatalf("run %d: %v", run, err)
		}
	}

	got, err := store.ListPriceBars(ctx, "AAPL", 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("bars=%d want 2 after re-ingest", len(got))
	}
	if !got[0].Timestamp.Before(got[1].Timestamp) {
		t.Fatalf("bars not ascending: %v, %v", got[0].Timestamp, got[1].Timestamp)
	}
}

func TestListPriceBars_TrailingWindowAscending(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	var bars []models.PriceBar
	for i := 0; i < 10; i++ {
		bars = append(bars, models.PriceBar{
			Ticker:    "AAPL",
			Timestamp: base.AddDate(0, 0, i),
			Open:      decimal.NewFromInt(int64(i)),
			High:      decimal.NewFromInt(int64(i + 1)),
			Low:       decimal.NewFromInt(int64(i - 1)),
			Close:     decimal.NewFromInt(int64(i)),
		})
	}
	if err := store.UpsertPriceBars(ctx, bars); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := store.ListPriceBars(ctx, "AAPL", 3)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("bars=%d want 3", len(got))
	}
	// The three most recent days, oldest first.
	if !got[0].Timestamp.Equal(base.AddDate(0, 0, 7)) || !got[2].Timestamp.Equal(base.AddDate(0, 0, 9)) {
		t.Fatalf("window=%v..%v", got[0].Timestamp, got[2].Timestamp)
	}
}

func TestUpsertIndicators_OverwriteInPlace(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := []models.Indicator{{Ticker: "AAPL", Name: models.IndicatorRSI, Value: decimal.NewFromInt(40)}}
	if err := store.UpsertIndicators(ctx, first); err != nil {
		t.Fatalf("first: %v", err)
	}
	second := []models.Indicator{{Ticker: "AAPL", Name: models.IndicatorRSI, Value: decimal.NewFromInt(55)}}
	if err := store.UpsertIndicators(ctx, second); err != nil {
		t.Fatalf("second: %v", err)
	}

	got, err := store.ListIndicators(ctx, "AAPL")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("indicators=%d want 1", len(got))
	}
	if !got[0].Value.Equal(decimal.NewFromInt(55)) {
		t.Fatalf("value=%s want 55", got[0].Value)
	}
}

func TestUpsertSocialPosts_ReingestUpdatesInPlace(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	neu := models.SentimentNeutral
	pos := models.SentimentPositive

	first := []models.SocialPost{
		{PostID: "p1", Ticker: "AAPL", Subreddit: "stocks", Title: "Earnings thread", Content: "flat", Score: 3, NumComments: 1, Timestamp: now, Sentiment: &neu},
		{PostID: "p2", Ticker: "AAPL", Subreddit: "stocks", Title: "DD", Content: "long", Score: 1, Timestamp: now, Sentiment: &neu},
	}
	if err := store.UpsertSocialPosts(ctx, first); err != nil {
		t.Fatalf("first: %v", err)
	}
	second := []models.SocialPost{
		{PostID: "p1", Ticker: "AAPL", Subreddit: "stocks", Title: "Earnings thread", Content: "beat estimates", Score: 42, NumComments: 9, Timestamp: now, Sentiment: &pos},
	}
	if err := store.UpsertSocialPosts(ctx, second); err != nil {
		t.Fatalf("second: %v", err)
	}

	items, total, err := store.ListSocialPosts(ctx, "AAPL", repository.PageParams{Limit: 10})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Fatalf("total=%d items=%d want 2 after re-ingest", total, len(items))
	}
	for _, item := range items {
		if item.PostID != "p1" {
			continue
		}
		if item.Score != 42 || item.NumComments != 9 || item.Content != "beat estimates" {
			t.Fatalf("p1 not updated in place: %+v", item)
		}
		if item.Sentiment == nil || *item.Sentiment != models.SentimentPositive {
			t.Fatalf("p1 sentiment=%v want positive", item.Sentiment)
		}
	}
}

func TestUpsertMicroblogs_ReingestUpdatesInPlace(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	neu := models.SentimentNeutral

	seed := models.Microblog{TweetID: "t1", Ticker: "AAPL", Content: "watching $AAPL", Author: "trader", Likes: 2, PublicityScore: 4, Timestamp: now, Sentiment: &neu}
	if err := store.UpsertMicroblogs(ctx, []models.Microblog{seed}); err != nil {
		t.Fatalf("first: %v", err)
	}
	seed.Likes = 120
	seed.Retweets = 30
	seed.PublicityScore = 185
	if err := store.UpsertMicroblogs(ctx, []models.Microblog{seed}); err != nil {
		t.Fatalf("second: %v", err)
	}

	items, total, err := store.ListMicroblogs(ctx, "AAPL", repository.PageParams{Limit: 10})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || len(items) != 1 {
		t.Fatalf("total=%d items=%d want 1 after re-ingest", total, len(items))
	}
	if items[0].Likes != 120 || items[0].Retweets != 30 || items[0].PublicityScore != 185 {
		t.Fatalf("t1 not updated in place: %+v", items[0])
	}
}

func TestUpsertNewsItems_ReingestUpdatesInPlace(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)

	item := models.NewsItem{Ticker: "AAPL", URL: "https://news.example/a", Headline: "Apple rises", Source: "Wire", Timestamp: now}
	if err := store.UpsertNewsItems(ctx, []models.NewsItem{item}); err != nil {
		t.Fatalf("first: %v", err)
	}
	// Same url under a different ticker is a distinct row.
	other := item
	other.Ticker = "MSFT"
	if err := store.UpsertNewsItems(ctx, []models.NewsItem{other}); err != nil {
		t.Fatalf("other ticker: %v", err)
	}
	item.Headline = "Apple rises on earnings"
	item.Description = "updated wire copy"
	if err := store.UpsertNewsItems(ctx, []models.NewsItem{item}); err != nil {
		t.Fatalf("second: %v", err)
	}

	items, total, err := store.ListNewsItems(ctx, "AAPL", repository.PageParams{Limit: 10})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || len(items) != 1 {
		t.Fatalf("total=%d items=%d want 1 after re-ingest", total, len(items))
	}
	if items[0].Headline != "Apple rises on earnings" || items[0].Description != "updated wire copy" {
		t.Fatalf("news not updated in place: %+v", items[0])
	}
	if _, total, _ := store.ListNewsItems(ctx, "MSFT", repository.PageParams{Limit: 10}); total != 1 {
		t.Fatalf("msft row missing")
	}
}

func TestSearchSecurities_CaseInsensitive(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedSecurity(t, store, "AAPL", "Apple Inc.")
	seedSecurity(t, store, "MSFT", "Microsoft Corporation")

	items, total, err := store.SearchSecurities(ctx, "APPLE", repository.PageParams{Limit: 10})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if total != 1 || len(items) != 1 || items[0].Ticker != "AAPL" {
		t.Fatalf("total=%d items=%+v", total, items)
	}

	_, total, err = store.SearchSecurities(ctx, "zzzz", repository.PageParams{Limit: 10})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if total != 0 {
		t.Fatalf("total=%d want 0", total)
	}
}

func TestDeleteSecurity_Cascades(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()
	label := models.SentimentPositive

	seedSecurity(t, store, "AAPL", "Apple Inc.")
	seedSecurity(t, store, "MSFT", "Microsoft")
	if err := store.UpsertPriceBars(ctx, []models.PriceBar{
		{Ticker: "AAPL", Timestamp: now, Open: decimal.NewFromInt(1), High: decimal.NewFromInt(1), Low: decimal.NewFromInt(1), Close: decimal.NewFromInt(1)},
		{Ticker: "MSFT", Timestamp: now, Open: decimal.NewFromInt(1), High: decimal.NewFromInt(1), Low: decimal.NewFromInt(1), Close: decimal.NewFromInt(1)},
	}); err != nil {
		t.Fatalf("bars: %v", err)
	}
	if err := store.UpsertSocialPosts(ctx, []models.SocialPost{
		{PostID: "p1", Ticker: "AAPL", Timestamp: now, Sentiment: &label},
	}); err != nil {
		t.Fatalf("posts: %v", err)
	}
	if err := store.SaveIngestState(ctx, &models.IngestState{Ticker: "AAPL"}); err != nil {
		t.Fatalf("state: %v", err)
	}

	if err := store.DeleteSecurity(ctx, "AAPL"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if got, _ := store.GetSecurityByTicker(ctx, "AAPL"); got != nil {
		t.Fatalf("security survived delete")
	}
	if bars, _ := store.ListPriceBars(ctx, "AAPL", 10); len(bars) != 0 {
		t.Fatalf("bars survived delete")
	}
	if _, total, _ := store.ListSocialPosts(ctx, "AAPL", repository.PageParams{Limit: 10}); total != 0 {
		t.Fatalf("posts survived delete")
	}
	if state, _ := store.GetIngestState(ctx, "AAPL"); state != nil {
		t.Fatalf("ingest state survived delete")
	}
	// The sibling security is untouched.
	if bars, _ := store.ListPriceBars(ctx, "MSFT", 10); len(bars) != 1 {
		t.Fatalf("sibling bars lost")
	}
}

func TestCountSentiment(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()
	pos := models.SentimentPositive
	neg := models.SentimentNegative
	neu := models.SentimentNeutral

	if err := store.UpsertMicroblogs(ctx, []models.Microblog{
		{TweetID: "t1", Ticker: "AAPL", Timestamp: now, Sentiment: &pos},
		{TweetID: "t2", Ticker: "AAPL", Timestamp: now, Sentiment: &pos},
		{TweetID: "t3", Ticker: "AAPL", Timestamp: now, Sentiment: &neg},
		{TweetID: "t4", Ticker: "AAPL", Timestamp: now, Sentiment: &neu},
		{TweetID: "t5", Ticker: "MSFT", Timestamp: now, Sentiment: &pos},
	}); err != nil {
		t.Fatalf("tweets: %v", err)
	}

	counts, err := store.CountSentiment(ctx, "AAPL", repository.SourceTweet)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if counts.Positive != 2 || counts.Negative != 1 || counts.Neutral != 1 {
		t.Fatalf("counts=%+v", counts)
	}

	_, err = store.CountSentiment(ctx, "AAPL", repository.SentimentSource("bogus"))
	if err != repository.ErrUnknownSource {
		t.Fatalf("err=%v want ErrUnknownSource", err)
	}
}

func TestSaveIngestState_OneRowPerTicker(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	first := time.Date(2026, 8, 1, 6, 0, 0, 0, time.UTC)
	second := first.AddDate(0, 0, 1)

	if err := store.SaveIngestState(ctx, &models.IngestState{Ticker: "AAPL", LastAttemptAt: &first}); err != nil {
		t.Fatalf("first: %v", err)
	}
	if err := store.SaveIngestState(ctx, &models.IngestState{Ticker: "AAPL", LastAttemptAt: &second, LastSuccessAt: &second}); err != nil {
		t.Fatalf("second: %v", err)
	}

	state, err := store.GetIngestState(ctx, "AAPL")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if state == nil || state.LastSuccessAt == nil || !state.LastSuccessAt.Equal(second) {
		t.Fatalf("state=%+v", state)
	}

	stale, err := store.ListIngestStatesStaleSince(ctx, second.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("stale: %v", err)
	}
	if len(stale) != 1 {
		t.Fatalf("stale=%d want 1", len(stale))
	}
}

func TestSaveIngestState_FailedRunKeepsLastSuccess(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	success := time.Date(2026, 8, 1, 6, 0, 0, 0, time.UTC)
	failed := success.AddDate(0, 0, 1)
	errMsg := "tweets: upstream 429"

	if err := store.SaveIngestState(ctx, &models.IngestState{Ticker: "AAPL", LastAttemptAt: &success, LastSuccessAt: &success}); err != nil {
		t.Fatalf("clean run: %v", err)
	}
	if err := store.SaveIngestState(ctx, &models.IngestState{Ticker: "AAPL", LastAttemptAt: &failed, LastError: &errMsg}); err != nil {
		t.Fatalf("failed run: %v", err)
	}

	state, err := store.GetIngestState(ctx, "AAPL")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if state == nil || state.LastAttemptAt == nil || !state.LastAttemptAt.Equal(failed) {
		t.Fatalf("state=%+v", state)
	}
	if state.LastError == nil || *state.LastError != errMsg {
		t.Fatalf("last_error=%v want %q", state.LastError, errMsg)
	}
	if state.LastSuccessAt == nil || !state.LastSuccessAt.Equal(success) {
		t.Fatalf("last_success_at=%v want %v", state.LastSuccessAt, success)
	}
}
