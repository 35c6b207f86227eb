package service

import (
	"context"
	"sync/atomic"
	"time"

	"stockpulse/internal/client/microblog"
	"stockpulse/internal/client/newsfeed"
	"stockpulse/internal/client/reddit"
	"stockpulse/internal/client/yahoo"
)

type stubQuote struct {
	symbol        string
	meta          *yahoo.Metadata
	bars          []yahoo.Bar
	autoErr       error
	autoCalls     atomic.Int64
	metaCalls     atomic.Int64
	barsCalls     atomic.Int64
	autoBlockedOn chan struct{}
}

func (q *stubQuote) Autocomplete(_ context.Context, _ string) (string, error) {
	q.autoCalls.Add(1)
	if q.autoBlockedOn != nil {
		<-q.autoBlockedOn
	}
	return q.symbol, q.autoErr
}

func (q *stubQuote) Metadata(_ context.Context, _ string) (*yahoo.Metadata, error) {
	q.metaCalls.Add(1)
	return q.meta, nil
}

func (q *stubQuote) DailyBars(_ context.Context, _, _ string) ([]yahoo.Bar, error) {
	q.barsCalls.Add(1)
	return q.bars, nil
}

type stubLogo struct {
	url string
}

func (l *stubLogo) Lookup(_ context.Context, _, _ string) (string, error) {
	return l.url, nil
}

type stubSocial struct {
	posts []reddit.Post
	err   error
}

func (s *stubSocial) Search(_ context.Context, _, _, _ string) ([]reddit.Post, error) {
	return s.posts, s.err
}

type stubMicroblog struct {
	tweets []microblog.Tweet
	err    error
}

func (m *stubMicroblog) SearchRecent(_ context.Context, _ string) ([]microblog.Tweet, error) {
	return m.tweets, m.err
}

type stubNews struct {
	items []newsfeed.Item
	err   error
}

func (n *stubNews) Search(_ context.Context, _ string, _ newsfeed.Filter) ([]newsfeed.Item, error) {
	return n.items, n.err
}

var metaApple = yahoo.Metadata{Ticker: "AAPL", Name: "Apple Inc.", Summary: "Designs consumer electronics."}

func testBars(n int) []yahoo.Bar {
	bars := make([]yahoo.Bar, 0, n)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		level := 100.0 + float64(i)
		bars = append(bars, yahoo.Bar{
			Timestamp: base.AddDate(0, 0, i),
			Open:      level - 0.5,
			High:      level + 1,
			Low:       level - 1,
			Close:     level,
		})
	}
	return bars
}
