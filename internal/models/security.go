package models

import (
	"time"
)

// Sentiment labels shared by social posts, microblogs, and news items.
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// Security is the aggregate root. Every other row belongs to exactly one
// security and is keyed to it by ticker.
type Security struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	Ticker    string    `gorm:"type:text;uniqueIndex;not null" json:"ticker"`
	Name      string    `gorm:"type:text;not null" json:"name"`
	Summary   string    `gorm:"type:text;not null" json:"summary"`
	ImageURL  *string   `gorm:"type:text" json:"image_url"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`
}

func (Security) TableName() string {
	return "securities"
}
