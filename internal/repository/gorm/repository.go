package gormrepository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"stockpulse/internal/models"
	"stockpulse/internal/repository"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// --- Securities -------------------------------------------------------------

func (s *Store) UpsertSecurity(ctx context.Context, item *models.Security) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	if strings.TrimSpace(item.Ticker) == "" {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "ticker"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name",
			"summary",
			"image_url",
			"updated_at",
		}),
	}).Create(item).Error
}

func (s *Store) GetSecurityByTicker(ctx context.Context, ticker string) (*models.Security, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Security
	err := s.db.WithContext(ctx).Where("ticker = ?", ticker).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListSecurities(ctx context.Context, page repository.PageParams) ([]models.Security, int64, error) {
	if s == nil || s.db == nil {
		return nil, 0, nil
	}
	query := s.db.WithContext(ctx).Model(&models.Security{})
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var items []models.Security
	err := query.Order("ticker asc").
		Limit(normalizeLimit(page.Limit, 10)).
		Offset(normalizeOffset(page.Offset)).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *Store) SearchSecurities(ctx context.Context, q string, page repository.PageParams) ([]models.Security, int64, error) {
	if s == nil || s.db == nil {
		return nil, 0, nil
	}
	pattern := "%" + strings.ToLower(strings.TrimSpace(q)) + "%"
	query := s.db.WithContext(ctx).Model(&models.Security{}).
		Where("LOWER(name) LIKE ? OR LOWER(ticker) LIKE ?", pattern, pattern)
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var items []models.Security
	err := query.Order("ticker asc").
		Limit(normalizeLimit(page.Limit, 10)).
		Offset(normalizeOffset(page.Offset)).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *Store) ListTickers(ctx context.Context) ([]string, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var tickers []string
	err := s.db.WithContext(ctx).Model(&models.Security{}).
		Order("ticker asc").
		Pluck("ticker", &tickers).Error
	if err != nil {
		return nil, err
	}
	return tickers, nil
}

// DeleteSecurity removes the security and everything it owns. The cascade
// is application-level since dependent rows are keyed by ticker.
func (s *Store) DeleteSecurity(ctx context.Context, ticker string) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{
			&models.PriceBar{},
			&models.Indicator{},
			&models.SocialPost{},
			&models.Microblog{},
			&models.NewsItem{},
			&models.IngestState{},
		} {
			if err := tx.Where("ticker = ?", ticker).Delete(model).Error; err != nil {
				return err
			}
		}
		return tx.Where("ticker = ?", ticker).Delete(&models.Security{}).Error
	})
}

// --- Price bars -------------------------------------------------------------

func (s *Store) UpsertPriceBars(ctx context.Context, items []models.PriceBar) error {
	if s == nil || s.db == nil || len(items) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "ticker"}, {Name: "timestamp"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"open",
			"high",
			"low",
			"close",
		}),
	}).CreateInBatches(items, 200).Error
}

// ListPriceBars returns the most recent limit bars in ascending timestamp
// order, which is what indicator computation and charting expect.
func (s *Store) ListPriceBars(ctx context.Context, ticker string, limit int) ([]models.PriceBar, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.PriceBar
	err := s.db.WithContext(ctx).
		Where("ticker = ?", ticker).
		Order("timestamp desc").
		Limit(normalizeLimit(limit, 252)).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
	return items, nil
}

// --- Indicators -------------------------------------------------------------

func (s *Store) UpsertIndicators(ctx context.Context, items []models.Indicator) error {
	if s == nil || s.db == nil || len(items) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "ticker"}, {Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"value",
			"updated_at",
		}),
	}).Create(&items).Error
}

func (s *Store) ListIndicators(ctx context.Context, ticker string) ([]models.Indicator, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.Indicator
	err := s.db.WithContext(ctx).
		Where("ticker = ?", ticker).
		Order("name asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// --- Social posts -----------------------------------------------------------

func (s *Store) UpsertSocialPosts(ctx context.Context, items []models.SocialPost) error {
	if s == nil || s.db == nil || len(items) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "post_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title",
			"content",
			"author",
			"score",
			"num_comments",
			"url",
			"timestamp",
			"sentiment",
		}),
	}).CreateInBatches(items, 100).Error
}

func (s *Store) ListSocialPosts(ctx context.Context, ticker string, page repository.PageParams) ([]models.SocialPost, int64, error) {
	if s == nil || s.db == nil {
		return nil, 0, nil
	}
	query := s.db.WithContext(ctx).Model(&models.SocialPost{}).Where("ticker = ?", ticker)
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var items []models.SocialPost
	err := query.Order("timestamp desc").
		Limit(normalizeLimit(page.Limit, 10)).
		Offset(normalizeOffset(page.Offset)).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// --- Microblogs -------------------------------------------------------------

func (s *Store) UpsertMicroblogs(ctx context.Context, items []models.Microblog) error {
	if s == nil || s.db == nil || len(items) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "tweet_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"content",
			"author",
			"retweets",
			"replies",
			"likes",
			"quotes",
			"publicity_score",
			"hashtags",
			"url",
			"timestamp",
			"sentiment",
		}),
	}).CreateInBatches(items, 100).Error
}

func (s *Store) ListMicroblogs(ctx context.Context, ticker string, page repository.PageParams) ([]models.Microblog, int64, error) {
	if s == nil || s.db == nil {
		return nil, 0, nil
	}
	query := s.db.WithContext(ctx).Model(&models.Microblog{}).Where("ticker = ?", ticker)
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var items []models.Microblog
	err := query.Order("publicity_score desc, timestamp desc").
		Limit(normalizeLimit(page.Limit, 10)).
		Offset(normalizeOffset(page.Offset)).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// --- News -------------------------------------------------------------------

func (s *Store) UpsertNewsItems(ctx context.Context, items []models.NewsItem) error {
	if s == nil || s.db == nil || len(items) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "ticker"}, {Name: "url"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"headline",
			"source",
			"description",
			"timestamp",
			"sentiment",
		}),
	}).CreateInBatches(items, 100).Error
}

func (s *Store) ListNewsItems(ctx context.Context, ticker string, page repository.PageParams) ([]models.NewsItem, int64, error) {
	if s == nil || s.db == nil {
		return nil, 0, nil
	}
	query := s.db.WithContext(ctx).Model(&models.NewsItem{}).Where("ticker = ?", ticker)
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var items []models.NewsItem
	err := query.Order("timestamp desc").
		Limit(normalizeLimit(page.Limit, 10)).
		Offset(normalizeOffset(page.Offset)).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// --- Sentiment aggregation --------------------------------------------------

func (s *Store) CountSentiment(ctx context.Context, ticker string, source repository.SentimentSource) (repository.SentimentCounts, error) {
	if s == nil || s.db == nil {
		return repository.SentimentCounts{}, nil
	}
	var query *gorm.DB
	switch source {
	case repository.SourceTweet:
		query = s.db.WithContext(ctx).Model(&models.Microblog{})
	case repository.SourceReddit:
		query = s.db.WithContext(ctx).Model(&models.SocialPost{})
	case repository.SourceNews:
		query = s.db.WithContext(ctx).Model(&models.NewsItem{})
	default:
		return repository.SentimentCounts{}, repository.ErrUnknownSource
	}

	rows := []struct {
		Sentiment *string
		N         int64
	}{}
	err := query.Select("sentiment, COUNT(*) as n").
		Where("ticker = ?", ticker).
		Group("sentiment").
		Scan(&rows).Error
	if err != nil {
		return repository.SentimentCounts{}, err
	}

	var counts repository.SentimentCounts
	for _, row := range rows {
		if row.Sentiment == nil {
			continue
		}
		switch *row.Sentiment {
		case models.SentimentPositive:
			counts.Positive = row.N
		case models.SentimentNegative:
			counts.Negative = row.N
		case models.SentimentNeutral:
			counts.Neutral = row.N
		}
	}
	return counts, nil
}

// --- Ingest state -----------------------------------------------------------

func (s *Store) SaveIngestState(ctx context.Context, state *models.IngestState) error {
	if s == nil || s.db == nil || state == nil {
		return nil
	}
	// A failed run carries a nil LastSuccessAt; the timestamp of the last
	// clean run must survive it.
	cols := []string{"last_attempt_at", "last_error", "stats_json"}
	if state.LastSuccessAt != nil {
		cols = append(cols, "last_success_at")
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "ticker"}},
		DoUpdates: clause.AssignmentColumns(cols),
	}).Create(state).Error
}

func (s *Store) GetIngestState(ctx context.Context, ticker string) (*models.IngestState, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var state models.IngestState
	err := s.db.WithContext(ctx).Where("ticker = ?", ticker).First(&state).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &state, nil
}

func (s *Store) ListIngestStatesStaleSince(ctx context.Context, cutoff time.Time) ([]models.IngestState, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.IngestState
	err := s.db.WithContext(ctx).
		Where("last_success_at IS NULL OR last_success_at < ?", cutoff).
		Order("ticker asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// --- helpers ----------------------------------------------------------------

func normalizeLimit(limit, def int) int {
	if limit <= 0 {
		return def
	}
	if limit > 500 {
		return 500
	}
	return limit
}

func normalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
