package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Indicator names produced by the indicator engine.
const (
	IndicatorSMA50  = "sma_50"
	IndicatorSMA100 = "sma_100"
	IndicatorSMA200 = "sma_200"
	IndicatorEMA50  = "ema_50"
	IndicatorEMA100 = "ema_100"
	IndicatorEMA200 = "ema_200"
	IndicatorMACD   = "macd"
	IndicatorRSI    = "rsi"
	IndicatorATR    = "atr"
)

// Indicator holds the latest value of one technical indicator for a
// security. Derived data only; recomputation overwrites in place.
type Indicator struct {
	ID        uint            `gorm:"primaryKey" json:"-"`
	Ticker    string          `gorm:"type:text;index;not null;uniqueIndex:idx_indicator_ticker_name" json:"-"`
	Name      string          `gorm:"type:text;not null;uniqueIndex:idx_indicator_ticker_name" json:"name"`
	Value     decimal.Decimal `gorm:"type:numeric(20,8);not null" json:"value"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"-"`
}

func (Indicator) TableName() string {
	return "indicators"
}
