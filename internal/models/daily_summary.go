package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailySummary is one aggregate row per calendar date that has bets.
//
// This table is derived data: it is always rebuilt in full from the bets
// table, in ascending date order, so bankroll(d) = bankroll(d-1) + daily_pnl(d)
// seeded by the configured starting bankroll. Nothing else ever writes it.
type DailySummary struct {
	ID   uint64    `gorm:"primaryKey;autoIncrement"`
	Date time.Time `gorm:"type:date;not null;uniqueIndex"`

	TotalBets int `gorm:"not null;default:0"`
	Wins      int `gorm:"not null;default:0"`
	Losses    int `gorm:"not null;default:0"`
	Pending   int `gorm:"not null;default:0"`
	Voided    int `gorm:"not null;default:0"`

	DailyPnL decimal.Decimal `gorm:"column:daily_pnl;type:numeric(30,10);not null;default:0"`
	Bankroll decimal.Decimal `gorm:"type:numeric(30,10);not null;default:0"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
}

func (DailySummary) TableName() string {
	return "daily_summary"
}
