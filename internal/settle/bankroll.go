package settle

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"pnltracker/internal/models"
	"pnltracker/internal/repository"
)

// BankrollService rebuilds the daily summary ledger from the bets table.
// Summaries are pure derived data: every rebuild starts from the configured
// bankroll and replays all bets in date order, so corrections to history
// propagate automatically.
type BankrollService struct {
	repo     repository.Repository
	logger   *zap.Logger
	starting decimal.Decimal
}

func NewBankrollService(repo repository.Repository, logger *zap.Logger, startingBankroll float64) *BankrollService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BankrollService{
		repo:     repo,
		logger:   logger,
		starting: decimal.NewFromFloat(startingBankroll),
	}
}

func (s *BankrollService) StartingBankroll() decimal.Decimal {
	return s.starting
}

// RecalculateSummaries replaces the whole daily_summary table with rows
// recomputed from scratch. The new rows are staged in memory and swapped in
// one transaction, so readers never observe a partial ledger.
func (s *BankrollService) RecalculateSummaries(ctx context.Context) error {
	asc := true
	bets, err := s.repo.ListBets(ctx, repository.ListBetsParams{
		OrderBy: "game_date",
		Asc:     &asc,
	})
	if err != nil {
		return err
	}

	byDate := make(map[string][]models.Bet)
	dates := make(map[string]time.Time)
	for _, b := range bets {
		key := models.DateKey(b.GameDate)
		byDate[key] = append(byDate[key], b)
		dates[key] = models.DateOnly(b.GameDate)
	}

	keys := make([]string, 0, len(byDate))
	for k := range byDate {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	bankroll := s.starting
	rows := make([]models.DailySummary, 0, len(keys))
	for _, key := range keys {
		row := models.DailySummary{Date: dates[key]}
		dailyPnL := decimal.Zero
		for i := range byDate[key] {
			b := &byDate[key][i]
			row.TotalBets++
			switch b.Result {
			case models.ResultWon:
				row.Wins++
			case models.ResultLost:
				row.Losses++
			case models.ResultVoided:
				row.Voided++
			default:
				row.Pending++
			}
			dailyPnL = dailyPnL.Add(BetPnL(b))
		}
		bankroll = bankroll.Add(dailyPnL)
		row.DailyPnL = dailyPnL
		row.Bankroll = bankroll
		rows = append(rows, row)
	}

	err = s.repo.InTx(ctx, func(tx *gorm.DB) error {
		return s.repo.ReplaceDailySummariesTx(ctx, tx, rows)
	})
	if err != nil {
		return err
	}
	s.logger.Info("daily summaries rebuilt",
		zap.Int("days", len(rows)), zap.String("bankroll", bankroll.String()))
	return nil
}
