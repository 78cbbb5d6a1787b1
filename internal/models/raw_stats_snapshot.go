package models

import (
	"time"

	"gorm.io/datatypes"
)

// RawStatsSnapshot keeps the raw provider payload for a fetched game date so
// settlement decisions can be audited after the fact.
type RawStatsSnapshot struct {
	ID       uint64    `gorm:"primaryKey;autoIncrement"`
	Source   string    `gorm:"type:varchar(50);not null;index"`
	GameDate time.Time `gorm:"type:date;not null;index"`

	Payload datatypes.JSON `gorm:"type:jsonb"`

	FetchedAt time.Time `gorm:"type:timestamptz;not null"`
	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
}

func (RawStatsSnapshot) TableName() string {
	return "raw_stats_snapshots"
}
