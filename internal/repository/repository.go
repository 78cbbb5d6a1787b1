package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"pnltracker/internal/models"
)

type ListBetsParams struct {
	Results  []string
	DateFrom *time.Time
	DateTo   *time.Time
	Tier     *string
	Limit    int
	Offset   int
	OrderBy  string
	Asc      *bool
}

// ResultCounts is the per-state bet tally used by the summary endpoint.
type ResultCounts struct {
	Pending int64
	Won     int64
	Lost    int64
	Voided  int64
}

type TierBreakdownRow struct {
	Tier  string
	Total int64
	Wins  int64
}

type DateBreakdownRow struct {
	Date  time.Time
	Total int64
	Wins  int64
}

// Repository is the persistence boundary for bets and derived summaries.
//
// Write discipline: reconciliation and corrections mutate bets only; the
// bankroll recalculation is the sole writer of daily_summary. Nothing else
// ever writes a bankroll value.
type Repository interface {
	InTx(ctx context.Context, fn func(tx *gorm.DB) error) error

	// Bets. Upsert identity is (player_id, game_date).
	UpsertBetTx(ctx context.Context, tx *gorm.DB, item *models.Bet) error
	SaveBetTx(ctx context.Context, tx *gorm.DB, item *models.Bet) error
	GetBetByPlayerDate(ctx context.Context, playerID int64, gameDate time.Time) (*models.Bet, error)
	GetBetByID(ctx context.Context, id uint64) (*models.Bet, error)
	DeleteBet(ctx context.Context, id uint64) (int64, error)
	ListBets(ctx context.Context, params ListBetsParams) ([]models.Bet, error)
	ListRecentBets(ctx context.Context, limit int) ([]models.Bet, error)
	ListBetsForDate(ctx context.Context, gameDate time.Time) ([]models.Bet, error)
	ListPendingBets(ctx context.Context, gameDate *time.Time) ([]models.Bet, error)
	ListWronglyVoidedBets(ctx context.Context, gameDate *time.Time) ([]models.Bet, error)

	// Aggregates for the dashboard endpoints.
	CountBetsByResult(ctx context.Context) (ResultCounts, error)
	SumSettledUnits(ctx context.Context) (decimal.Decimal, error)
	TierBreakdown(ctx context.Context) ([]TierBreakdownRow, error)
	DateBreakdown(ctx context.Context, limit int) ([]DateBreakdownRow, error)

	// Summaries. Replace is all-or-nothing inside the given transaction.
	ReplaceDailySummariesTx(ctx context.Context, tx *gorm.DB, rows []models.DailySummary) error
	ListDailySummaries(ctx context.Context) ([]models.DailySummary, error)
	LatestDailySummary(ctx context.Context) (*models.DailySummary, error)

	// Provider payload audit trail.
	InsertRawStatsSnapshot(ctx context.Context, item *models.RawStatsSnapshot) error
}
