package models

import (
	"time"
)

// Microblog is a tweet-shaped post found by cashtag search. The provider
// tweet id is the natural key; dedup is best-effort since some providers
// recycle or omit ids.
type Microblog struct {
	ID             uint      `gorm:"primaryKey" json:"-"`
	TweetID        string    `gorm:"type:text;uniqueIndex;not null" json:"tweet_id"`
	Ticker         string    `gorm:"type:text;index;not null" json:"-"`
	Content        string    `gorm:"type:text;not null" json:"content"`
	Author         string    `gorm:"type:text;not null" json:"author"`
	Retweets       int       `gorm:"not null" json:"retweets"`
	Replies        int       `gorm:"not null" json:"replies"`
	Likes          int       `gorm:"not null" json:"likes"`
	Quotes         int       `gorm:"not null" json:"quotes"`
	PublicityScore int       `gorm:"not null" json:"pub_score"`
	Hashtags       string    `gorm:"type:text;not null" json:"hashtags"`
	URL            string    `gorm:"type:text;not null" json:"url"`
	Timestamp      time.Time `gorm:"not null" json:"timestamp"`
	Sentiment      *string   `gorm:"type:text" json:"sentiment"`
}

func (Microblog) TableName() string {
	return "microblogs"
}
