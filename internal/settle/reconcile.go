package settle

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"pnltracker/internal/client/nbastats"
	"pnltracker/internal/config"
	"pnltracker/internal/models"
	"pnltracker/internal/repository"
)

// StatsProvider supplies finished per-player results for a single game date.
type StatsProvider interface {
	FetchResults(ctx context.Context, date time.Time) (map[int64]nbastats.PlayerLine, []byte, error)
}

// Run statuses reported back to callers and cron logs.
const (
	StatusSuccess = "success"
	StatusNoData  = "no_data"
	StatusError   = "error"
)

// RunResult describes one reconciliation pass.
type RunResult struct {
	Status  string `json:"status"`
	Updated int    `json:"updated"`
	Reset   int    `json:"reset"`
}

// ReconcileService grades pending bets against fetched results and repairs
// wrongly voided ones. It never touches a settled bet, so replays are safe.
type ReconcileService struct {
	repo   repository.Repository
	stats  StatsProvider
	logger *zap.Logger
	cfg    config.SettlementConfig
	now    func() time.Time
}

func NewReconcileService(repo repository.Repository, stats StatsProvider, logger *zap.Logger, cfg config.SettlementConfig) *ReconcileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.VoidAfterDays < 1 {
		cfg.VoidAfterDays = 1
	}
	if cfg.LookbackDays < 1 {
		cfg.LookbackDays = 3
	}
	return &ReconcileService{
		repo:   repo,
		stats:  stats,
		logger: logger,
		cfg:    cfg,
		now:    time.Now,
	}
}

// ReconcileRecent walks today and the preceding lookback days, fetching
// results for every date that still has pending bets. A single date failing
// to fetch is logged and skipped; the pass only errors when every attempted
// date failed.
func (s *ReconcileService) ReconcileRecent(ctx context.Context, lookbackDays int) (RunResult, error) {
	if lookbackDays <= 0 {
		lookbackDays = s.cfg.LookbackDays
	}
	today := models.DateOnly(s.now())

	var (
		updated      int
		totalPending int
		attempted    int
		fetchFailed  int
		lastFetchErr error
	)

	for i := 0; i <= lookbackDays; i++ {
		date := today.AddDate(0, 0, -i)
		pending, err := s.repo.ListPendingBets(ctx, &date)
		if err != nil {
			return RunResult{Status: StatusError}, err
		}
		if len(pending) == 0 {
			continue
		}
		totalPending += len(pending)
		attempted++

		lines, raw, err := s.stats.FetchResults(ctx, date)
		if err != nil {
			s.logger.Warn("results fetch failed, skipping date",
				zap.String("date", models.DateKey(date)), zap.Error(err))
			fetchFailed++
			lastFetchErr = err
			continue
		}
		s.snapshot(ctx, date, raw)

		n, err := s.settleDate(ctx, date, today, pending, lines)
		if err != nil {
			return RunResult{Status: StatusError, Updated: updated}, err
		}
		updated += n
	}

	if attempted > 0 && fetchFailed == attempted {
		return RunResult{Status: StatusError}, fmt.Errorf("all %d result fetches failed: %w", attempted, lastFetchErr)
	}
	if totalPending == 0 {
		return RunResult{Status: StatusNoData}, nil
	}
	s.logger.Info("reconciliation pass complete",
		zap.Int("dates", attempted), zap.Int("updated", updated))
	return RunResult{Status: StatusSuccess, Updated: updated}, nil
}

// ReconcileForDate re-runs settlement for a single date. Wrongly voided bets
// on that date are reset to pending first so the fresh results can grade them.
func (s *ReconcileService) ReconcileForDate(ctx context.Context, date time.Time) (RunResult, error) {
	date = models.DateOnly(date)

	reset, err := s.ResetWronglyVoided(ctx, &date)
	if err != nil {
		return RunResult{Status: StatusError}, err
	}

	pending, err := s.repo.ListPendingBets(ctx, &date)
	if err != nil {
		return RunResult{Status: StatusError, Reset: reset}, err
	}
	if len(pending) == 0 {
		return RunResult{Status: StatusNoData, Reset: reset}, nil
	}

	lines, raw, err := s.stats.FetchResults(ctx, date)
	if err != nil {
		s.logger.Warn("results fetch failed",
			zap.String("date", models.DateKey(date)), zap.Error(err))
		return RunResult{Status: StatusNoData, Reset: reset}, nil
	}
	s.snapshot(ctx, date, raw)

	updated, err := s.settleDate(ctx, date, models.DateOnly(s.now()), pending, lines)
	if err != nil {
		return RunResult{Status: StatusError, Reset: reset}, err
	}
	return RunResult{Status: StatusSuccess, Updated: updated, Reset: reset}, nil
}

// ResetWronglyVoided flips voided bets that were never graded against a real
// stat line back to pending. The signature of a wrong void is a voided result
// with no recorded actual value; a legitimate low-minutes void always carries
// the actuals it was graded on.
func (s *ReconcileService) ResetWronglyVoided(ctx context.Context, date *time.Time) (int, error) {
	bets, err := s.repo.ListWronglyVoidedBets(ctx, date)
	if err != nil {
		return 0, err
	}
	if len(bets) == 0 {
		return 0, nil
	}
	err = s.repo.InTx(ctx, func(tx *gorm.DB) error {
		for i := range bets {
			bets[i].Result = models.ResultPending
			bets[i].ActualMinutes = nil
			if err := s.repo.SaveBetTx(ctx, tx, &bets[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.logger.Info("reset wrongly voided bets", zap.Int("count", len(bets)))
	return len(bets), nil
}

// settleDate grades one date's pending bets inside a single transaction.
// dayConcluded gates the DNP void: absence from a same-day result set means
// games may still be in progress, so the bet stays pending through the
// grace period.
func (s *ReconcileService) settleDate(ctx context.Context, date, today time.Time, pending []models.Bet, lines map[int64]nbastats.PlayerLine) (int, error) {
	daysSince := int(today.Sub(date).Hours() / 24)
	dayConcluded := daysSince >= s.cfg.VoidAfterDays

	updated := 0
	err := s.repo.InTx(ctx, func(tx *gorm.DB) error {
		for i := range pending {
			bet := &pending[i]
			var stats *nbastats.PlayerLine
			if line, ok := lines[bet.PlayerID]; ok {
				stats = &line
			}
			result := Classify(bet.Direction, bet.BettingLine, stats, dayConcluded)
			if result == models.ResultPending {
				continue
			}
			if stats != nil {
				value, minutes := stats.Value, stats.Minutes
				bet.ActualValue = &value
				bet.ActualMinutes = &minutes
			} else {
				zero := 0.0
				bet.ActualValue = nil
				bet.ActualMinutes = &zero
			}
			bet.Result = result
			if err := s.repo.SaveBetTx(ctx, tx, bet); err != nil {
				return err
			}
			updated++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if updated > 0 {
		s.logger.Info("settled bets",
			zap.String("date", models.DateKey(date)), zap.Int("updated", updated))
	}
	return updated, nil
}

func (s *ReconcileService) snapshot(ctx context.Context, date time.Time, raw []byte) {
	if len(raw) == 0 {
		return
	}
	item := &models.RawStatsSnapshot{
		Source:    "leaguegamelog",
		GameDate:  date,
		Payload:   datatypes.JSON(raw),
		FetchedAt: s.now(),
	}
	if err := s.repo.InsertRawStatsSnapshot(ctx, item); err != nil {
		s.logger.Warn("raw snapshot insert failed", zap.Error(err))
	}
}
