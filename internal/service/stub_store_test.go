package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"stockpulse/internal/models"
	"stockpulse/internal/repository"
)

// stubStore is an in-memory repository.Store that records the order of
// write operations. Safe for the concurrent enrichment stages.
type stubStore struct {
	mu         sync.Mutex
	calls      []string
	securities map[string]models.Security
	bars       map[string][]models.PriceBar
	indicators map[string][]models.Indicator
	posts      map[string][]models.SocialPost
	tweets     map[string][]models.Microblog
	news       map[string][]models.NewsItem
	states     map[string]models.IngestState
}

func newStubStore() *stubStore {
	return &stubStore{
		securities: map[string]models.Security{},
		bars:       map[string][]models.PriceBar{},
		indicators: map[string][]models.Indicator{},
		posts:      map[string][]models.SocialPost{},
		tweets:     map[string][]models.Microblog{},
		news:       map[string][]models.NewsItem{},
		states:     map[string]models.IngestState{},
	}
}

func (s *stubStore) record(op string) {
	s.mu.Lock()
	s.calls = append(s.calls, op)
	s.mu.Unlock()
}

func (s *stubStore) callIndex(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, call := range s.calls {
		if call == op {
			return i
		}
	}
	return -1
}

func (s *stubStore) UpsertSecurity(_ context.Context, item *models.Security) error {
	s.record("UpsertSecurity")
	s.mu.Lock()
	s.securities[item.Ticker] = *item
	s.mu.Unlock()
	return nil
}

func (s *stubStore) GetSecurityByTicker(_ context.Context, ticker string) (*models.Security, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if item, ok := s.securities[ticker]; ok {
		return &item, nil
	}
	return nil, nil
}

func (s *stubStore) ListSecurities(_ context.Context, _ repository.PageParams) ([]models.Security, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Security, 0, len(s.securities))
	for _, item := range s.securities {
		out = append(out, item)
	}
	return out, int64(len(out)), nil
}

func (s *stubStore) SearchSecurities(_ context.Context, query string, _ repository.PageParams) ([]models.Security, int64, error) {
	s.record("SearchSecurities")
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Security
	for _, item := range s.securities {
		if strings.Contains(strings.ToLower(item.Name), strings.ToLower(query)) ||
			strings.EqualFold(item.Ticker, query) {
			out = append(out, item)
		}
	}
	return out, int64(len(out)), nil
}

func (s *stubStore) ListTickers(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.securities))
	for ticker := range s.securities {
		out = append(out, ticker)
	}
	return out, nil
}

func (s *stubStore) DeleteSecurity(_ context.Context, ticker string) error {
	s.record("DeleteSecurity")
	s.mu.Lock()
	delete(s.securities, ticker)
	s.mu.Unlock()
	return nil
}

func (s *stubStore) UpsertPriceBars(_ context.Context, items []models.PriceBar) error {
	s.record("UpsertPriceBars")
	if len(items) == 0 {
		return nil
	}
	s.mu.Lock()
	s.bars[items[0].Ticker] = items
	s.mu.Unlock()
	return nil
}

func (s *stubStore) ListPriceBars(_ context.Context, ticker string, _ int) ([]models.PriceBar, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bars[ticker], nil
}

func (s *stubStore) UpsertIndicators(_ context.Context, items []models.Indicator) error {
	s.record("UpsertIndicators")
	if len(items) == 0 {
		return nil
	}
	s.mu.Lock()
	s.indicators[items[0].Ticker] = items
	s.mu.Unlock()
	return nil
}

func (s *stubStore) ListIndicators(_ context.Context, ticker string) ([]models.Indicator, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indicators[ticker], nil
}

func (s *stubStore) UpsertSocialPosts(_ context.Context, items []models.SocialPost) error {
	s.record("UpsertSocialPosts")
	if len(items) == 0 {
		return nil
	}
	s.mu.Lock()
	s.posts[items[0].Ticker] = items
	s.mu.Unlock()
	return nil
}

func (s *stubStore) ListSocialPosts(_ context.Context, ticker string, _ repository.PageParams) ([]models.SocialPost, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.posts[ticker], int64(len(s.posts[ticker])), nil
}

func (s *stubStore) UpsertMicroblogs(_ context.Context, items []models.Microblog) error {
	s.record("UpsertMicroblogs")
	if len(items) == 0 {
		return nil
	}
	s.mu.Lock()
	s.tweets[items[0].Ticker] = items
	s.mu.Unlock()
	return nil
}

func (s *stubStore) ListMicroblogs(_ context.Context, ticker string, _ repository.PageParams) ([]models.Microblog, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tweets[ticker], int64(len(s.tweets[ticker])), nil
}

func (s *stubStore) UpsertNewsItems(_ context.Context, items []models.NewsItem) error {
	s.record("UpsertNewsItems")
	if len(items) == 0 {
		return nil
	}
	s.mu.Lock()
	s.news[items[0].Ticker] = items
	s.mu.Unlock()
	return nil
}

func (s *stubStore) ListNewsItems(_ context.Context, ticker string, _ repository.PageParams) ([]models.NewsItem, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.news[ticker], int64(len(s.news[ticker])), nil
}

func (s *stubStore) CountSentiment(_ context.Context, _ string, _ repository.SentimentSource) (repository.SentimentCounts, error) {
	return repository.SentimentCounts{}, nil
}

func (s *stubStore) SaveIngestState(_ context.Context, state *models.IngestState) error {
	s.record("SaveIngestState")
	s.mu.Lock()
	next := *state
	if next.LastSuccessAt == nil {
		if prev, ok := s.states[state.Ticker]; ok {
			next.LastSuccessAt = prev.LastSuccessAt
		}
	}
	s.states[state.Ticker] = next
	s.mu.Unlock()
	return nil
}

func (s *stubStore) GetIngestState(_ context.Context, ticker string) (*models.IngestState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if state, ok := s.states[ticker]; ok {
		return &state, nil
	}
	return nil, nil
}

func (s *stubStore) ListIngestStatesStaleSince(_ context.Context, cutoff time.Time) ([]models.IngestState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.IngestState
	for _, state := range s.states {
		if state.LastSuccessAt == nil || state.LastSuccessAt.Before(cutoff) {
			out = append(out, state)
		}
	}
	return out, nil
}
