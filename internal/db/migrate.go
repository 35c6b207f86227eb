package db

import (
	"stockpulse/internal/models"
)

func AutoMigrate(db *DB) error {
	if db == nil || db.Gorm == nil {
		return nil
	}

	return db.Gorm.AutoMigrate(
		&models.Security{},
		&models.PriceBar{},
		&models.Indicator{},
		&models.SocialPost{},
		&models.Microblog{},
		&models.NewsItem{},
		&models.IngestState{},
	)
}
