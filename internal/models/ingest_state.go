package models

import (
	"time"

	"gorm.io/datatypes"
)

// IngestState records the outcome of the last ingestion run for one
// ticker: per-stage row counts in StatsJSON and the last stage error, if
// any. One row per ticker, overwritten on every run.
type IngestState struct {
	ID            uint           `gorm:"primaryKey" json:"-"`
	Ticker        string         `gorm:"type:text;uniqueIndex;not null" json:"ticker"`
	LastAttemptAt *time.Time     `json:"last_attempt_at"`
	LastSuccessAt *time.Time     `json:"last_success_at"`
	LastError     *string        `gorm:"type:text" json:"last_error"`
	StatsJSON     datatypes.JSON `gorm:"type:jsonb" json:"stats"`
}

func (IngestState) TableName() string {
	return "ingest_states"
}
