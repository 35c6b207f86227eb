package models

import (
	"time"
)

// NewsItem is one feed entry. Feeds carry no stable provider id, so the
// (ticker, url) pair is the best-effort dedup key.
type NewsItem struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	Ticker      string    `gorm:"type:text;index;not null;uniqueIndex:idx_news_ticker_url" json:"-"`
	URL         string    `gorm:"type:text;not null;uniqueIndex:idx_news_ticker_url" json:"url"`
	Headline    string    `gorm:"type:text;not null" json:"headline"`
	Source      string    `gorm:"type:text;not null" json:"source"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Timestamp   time.Time `gorm:"not null" json:"timestamp"`
	Sentiment   *string   `gorm:"type:text" json:"sentiment"`
}

func (NewsItem) TableName() string {
	return "news_items"
}
