package models

import (
	"time"
)

// SocialPost is a self-text community post. The provider post id is
// globally unique and serves as the natural key for dedup across runs.
type SocialPost struct {
	ID          uint      `gorm:"primaryKey" json:"-"`
	PostID      string    `gorm:"type:text;uniqueIndex;not null" json:"post_id"`
	Ticker      string    `gorm:"type:text;index;not null" json:"-"`
	Subreddit   string    `gorm:"type:text;not null" json:"subreddit"`
	Title       string    `gorm:"type:text;not null" json:"title"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	Author      string    `gorm:"type:text;not null" json:"author"`
	Score       int       `gorm:"not null" json:"score"`
	NumComments int       `gorm:"not null" json:"num_comments"`
	URL         string    `gorm:"type:text;not null" json:"url"`
	Timestamp   time.Time `gorm:"not null" json:"timestamp"`
	Sentiment   *string   `gorm:"type:text" json:"sentiment"`
}

func (SocialPost) TableName() string {
	return "social_posts"
}
