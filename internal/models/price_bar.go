package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceBar is one daily OHLC bar. Natural key is (ticker, timestamp).
// Upstream data may be noisy; low <= open,close <= high is not enforced here.
type PriceBar struct {
	ID        uint            `gorm:"primaryKey" json:"-"`
	Ticker    string          `gorm:"type:text;index;not null;uniqueIndex:idx_price_ticker_ts" json:"-"`
	Timestamp time.Time       `gorm:"not null;uniqueIndex:idx_price_ticker_ts" json:"timestamp"`
	Open      decimal.Decimal `gorm:"type:numeric(20,5);not null" json:"open"`
	High      decimal.Decimal `gorm:"type:numeric(20,5);not null" json:"high"`
	Low       decimal.Decimal `gorm:"type:numeric(20,5);not null" json:"low"`
	Close     decimal.Decimal `gorm:"type:numeric(20,5);not null" json:"close"`
}

func (PriceBar) TableName() string {
	return "price_bars"
}
