package service

import (
	"context"

	"stockpulse/internal/models"
	"stockpulse/internal/repository"
)

const defaultBarWindow = 252

// QueryService serves the read side of the API from persisted rows only.
// It never reaches out to an upstream provider.
type QueryService struct {
	Store repository.Store

	// BarWindow caps how many trailing daily bars a price query returns.
	BarWindow int
}

func (s *QueryService) ListSecurities(ctx context.Context, page repository.PageParams) ([]models.Security, int64, error) {
	return s.Store.ListSecurities(ctx, page)
}

func (s *QueryService) GetSecurity(ctx context.Context, ticker string) (*models.Security, error) {
	item, err := s.Store.GetSecurityByTicker(ctx, ticker)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrTickerNotFound
	}
	return item, nil
}

// PriceBars returns the trailing window of daily bars in ascending
// timestamp order.
func (s *QueryService) PriceBars(ctx context.Context, ticker string, limit int) ([]models.PriceBar, error) {
	if err := s.requireSecurity(ctx, ticker); err != nil {
		return nil, err
	}
	window := s.BarWindow
	if window <= 0 {
		window = defaultBarWindow
	}
	if limit <= 0 || limit > window {
		limit = window
	}
	return s.Store.ListPriceBars(ctx, ticker, limit)
}

func (s *QueryService) Indicators(ctx context.Context, ticker string) ([]models.Indicator, error) {
	if err := s.requireSecurity(ctx, ticker); err != nil {
		return nil, err
	}
	return s.Store.ListIndicators(ctx, ticker)
}

func (s *QueryService) SocialPosts(ctx context.Context, ticker string, page repository.PageParams) ([]models.SocialPost, int64, error) {
	if err := s.requireSecurity(ctx, ticker); err != nil {
		return nil, 0, err
	}
	return s.Store.ListSocialPosts(ctx, ticker, page)
}

func (s *QueryService) Microblogs(ctx context.Context, ticker string, page repository.PageParams) ([]models.Microblog, int64, error) {
	if err := s.requireSecurity(ctx, ticker); err != nil {
		return nil, 0, err
	}
	return s.Store.ListMicroblogs(ctx, ticker, page)
}

func (s *QueryService) NewsItems(ctx context.Context, ticker string, page repository.PageParams) ([]models.NewsItem, int64, error) {
	if err := s.requireSecurity(ctx, ticker); err != nil {
		return nil, 0, err
	}
	return s.Store.ListNewsItems(ctx, ticker, page)
}

func (s *QueryService) SentimentCounts(ctx context.Context, ticker string, source repository.SentimentSource) (repository.SentimentCounts, error) {
	if err := s.requireSecurity(ctx, ticker); err != nil {
		return repository.SentimentCounts{}, err
	}
	return s.Store.CountSentiment(ctx, ticker, source)
}

func (s *QueryService) IngestState(ctx context.Context, ticker string) (*models.IngestState, error) {
	if err := s.requireSecurity(ctx, ticker); err != nil {
		return nil, err
	}
	state, err := s.Store.GetIngestState(ctx, ticker)
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, ErrTickerNotFound
	}
	return state, nil
}

func (s *QueryService) DeleteSecurity(ctx context.Context, ticker string) error {
	if err := s.requireSecurity(ctx, ticker); err != nil {
		return err
	}
	return s.Store.DeleteSecurity(ctx, ticker)
}

func (s *QueryService) requireSecurity(ctx context.Context, ticker string) error {
	item, err := s.Store.GetSecurityByTicker(ctx, ticker)
	if err != nil {
		return err
	}
	if item == nil {
		return ErrTickerNotFound
	}
	return nil
}
