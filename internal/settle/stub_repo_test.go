package settle

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"pnltracker/internal/models"
	"pnltracker/internal/repository"
)

// stubRepo is a test-only in-memory implementation of repository.Repository.
// It implements the full interface but only the settlement paths keep state.
type stubRepo struct {
	bets      []models.Bet
	summaries []models.DailySummary
	snapshots []models.RawStatsSnapshot
	nextID    uint64
}

func (s *stubRepo) addBet(b models.Bet) *models.Bet {
	s.nextID++
	b.ID = s.nextID
	if b.Result == "" {
		b.Result = models.ResultPending
	}
	b.GameDate = models.DateOnly(b.GameDate)
	s.bets = append(s.bets, b)
	return &s.bets[len(s.bets)-1]
}

func (s *stubRepo) betByID(id uint64) *models.Bet {
	for i := range s.bets {
		if s.bets[i].ID == id {
			return &s.bets[i]
		}
	}
	return nil
}

func (s *stubRepo) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error { return fn(nil) }

func (s *stubRepo) UpsertBetTx(ctx context.Context, tx *gorm.DB, item *models.Bet) error {
	for i := range s.bets {
		if s.bets[i].PlayerID == item.PlayerID && s.bets[i].GameDate.Equal(models.DateOnly(item.GameDate)) {
			item.ID = s.bets[i].ID
			s.bets[i] = *item
			return nil
		}
	}
	s.addBet(*item)
	return nil
}

func (s *stubRepo) SaveBetTx(ctx context.Context, tx *gorm.DB, item *models.Bet) error {
	for i := range s.bets {
		if s.bets[i].ID == item.ID {
			s.bets[i] = *item
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (s *stubRepo) GetBetByPlayerDate(ctx context.Context, playerID int64, gameDate time.Time) (*models.Bet, error) {
	for i := range s.bets {
		if s.bets[i].PlayerID == playerID && s.bets[i].GameDate.Equal(models.DateOnly(gameDate)) {
			b := s.bets[i]
			return &b, nil
		}
	}
	return nil, nil
}

func (s *stubRepo) GetBetByID(ctx context.Context, id uint64) (*models.Bet, error) {
	if b := s.betByID(id); b != nil {
		out := *b
		return &out, nil
	}
	return nil, nil
}

func (s *stubRepo) DeleteBet(ctx context.Context, id uint64) (int64, error) {
	for i := range s.bets {
		if s.bets[i].ID == id {
			s.bets = append(s.bets[:i], s.bets[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (s *stubRepo) ListBets(ctx context.Context, params repository.ListBetsParams) ([]models.Bet, error) {
	out := make([]models.Bet, 0, len(s.bets))
	for _, b := range s.bets {
		if len(params.Results) > 0 {
			match := false
			for _, r := range params.Results {
				if b.Result == r {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		out = append(out, b)
	}
	// Insertion order is date order in these tests.
	return out, nil
}

func (s *stubRepo) ListRecentBets(ctx context.Context, limit int) ([]models.Bet, error) {
	return s.ListBets(ctx, repository.ListBetsParams{})
}

func (s *stubRepo) ListBetsForDate(ctx context.Context, gameDate time.Time) ([]models.Bet, error) {
	var out []models.Bet
	for _, b := range s.bets {
		if b.GameDate.Equal(models.DateOnly(gameDate)) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *stubRepo) ListPendingBets(ctx context.Context, gameDate *time.Time) ([]models.Bet, error) {
	return s.listByResult(models.ResultPending, gameDate, false), nil
}

func (s *stubRepo) ListWronglyVoidedBets(ctx context.Context, gameDate *time.Time) ([]models.Bet, error) {
	return s.listByResult(models.ResultVoided, gameDate, true), nil
}

func (s *stubRepo) listByResult(result string, gameDate *time.Time, requireNilActual bool) []models.Bet {
	var out []models.Bet
	for _, b := range s.bets {
		if b.Result != result {
			continue
		}
		if gameDate != nil && !b.GameDate.Equal(models.DateOnly(*gameDate)) {
			continue
		}
		if requireNilActual && b.ActualValue != nil {
			continue
		}
		out = append(out, b)
	}
	return out
}

func (s *stubRepo) CountBetsByResult(ctx context.Context) (repository.ResultCounts, error) {
	var counts repository.ResultCounts
	for _, b := range s.bets {
		switch b.Result {
		case models.ResultWon:
			counts.Won++
		case models.ResultLost:
			counts.Lost++
		case models.ResultVoided:
			counts.Voided++
		default:
			counts.Pending++
		}
	}
	return counts, nil
}

func (s *stubRepo) SumSettledUnits(ctx context.Context) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, b := range s.bets {
		if b.Settled() {
			sum = sum.Add(b.TierUnits)
		}
	}
	return sum, nil
}

func (s *stubRepo) TierBreakdown(ctx context.Context) ([]repository.TierBreakdownRow, error) {
	return nil, nil
}

func (s *stubRepo) DateBreakdown(ctx context.Context, limit int) ([]repository.DateBreakdownRow, error) {
	return nil, nil
}

func (s *stubRepo) ReplaceDailySummariesTx(ctx context.Context, tx *gorm.DB, rows []models.DailySummary) error {
	s.summaries = append([]models.DailySummary(nil), rows...)
	return nil
}

func (s *stubRepo) ListDailySummaries(ctx context.Context) ([]models.DailySummary, error) {
	return s.summaries, nil
}

func (s *stubRepo) LatestDailySummary(ctx context.Context) (*models.DailySummary, error) {
	if len(s.summaries) == 0 {
		return nil, nil
	}
	latest := s.summaries[len(s.summaries)-1]
	return &latest, nil
}

func (s *stubRepo) InsertRawStatsSnapshot(ctx context.Context, item *models.RawStatsSnapshot) error {
	s.snapshots = append(s.snapshots, *item)
	return nil
}

var _ repository.Repository = (*stubRepo)(nil)
