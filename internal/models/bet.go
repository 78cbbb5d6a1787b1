package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bet results. A bet starts PENDING and is settled exactly once by the
// reconciliation pass. The only sanctioned reverse transition is
// VOIDED -> PENDING via the wrongly-voided correction, which applies only
// when no actual value was ever recorded.
const (
	ResultPending = "PENDING"
	ResultWon     = "WON"
	ResultLost    = "LOST"
	ResultVoided  = "VOIDED"
)

const (
	DirectionOver  = "OVER"
	DirectionUnder = "UNDER"
)

// Bet is one predicted wager on one player's combined stat total for one game.
// (player_id, game_date) is the upsert identity.
type Bet struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement"`
	GameDate   time.Time `gorm:"type:date;not null;uniqueIndex:idx_bets_player_date,priority:2;index"`
	PlayerID   int64     `gorm:"not null;uniqueIndex:idx_bets_player_date,priority:1"`
	PlayerName string    `gorm:"type:varchar(100);not null"`

	BettingLine float64         `gorm:"not null"`
	Direction   string          `gorm:"type:varchar(10);not null"`
	Tier        string          `gorm:"type:varchar(30);not null;index"`
	TierUnits   decimal.Decimal `gorm:"type:numeric(20,10);not null"`

	// Model outputs at prediction time. Informational only, never used in settlement.
	ModelProb  *float64
	Prediction *float64

	// Populated by reconciliation once a result is known. ActualValue stays
	// nil on a void caused by a data gap; a confirmed DNP records it (usually 0).
	ActualValue   *float64
	ActualMinutes *float64

	Result    string    `gorm:"type:varchar(10);not null;default:PENDING;index"`
	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
}

func (Bet) TableName() string {
	return "bets"
}

// Settled reports whether the bet reached a terminal won/lost state.
// Settled bets are immutable under reconciliation replay.
func (b *Bet) Settled() bool {
	return b.Result == ResultWon || b.Result == ResultLost
}

// DateOnly truncates t to a calendar date at midnight UTC. Game dates carry
// no time component; every comparison and grouping key goes through this.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DateKey is the canonical string form of a game date.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
