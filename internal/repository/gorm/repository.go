package gormrepository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"pnltracker/internal/models"
	"pnltracker/internal/repository"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(fn)
}

func (s *Store) conn(ctx context.Context, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return s.db.WithContext(ctx)
}

// --- Bets -------------------------------------------------------------------

func (s *Store) UpsertBetTx(ctx context.Context, tx *gorm.DB, item *models.Bet) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	item.GameDate = models.DateOnly(item.GameDate)
	return s.conn(ctx, tx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "player_id"}, {Name: "game_date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"player_name",
			"betting_line",
			"direction",
			"tier",
			"tier_units",
			"model_prob",
			"prediction",
			"actual_value",
			"actual_minutes",
			"result",
		}),
	}).Create(item).Error
}

func (s *Store) SaveBetTx(ctx context.Context, tx *gorm.DB, item *models.Bet) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.conn(ctx, tx).Save(item).Error
}

func (s *Store) GetBetByPlayerDate(ctx context.Context, playerID int64, gameDate time.Time) (*models.Bet, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Bet
	err := s.db.WithContext(ctx).
		Where("player_id = ? AND game_date = ?", playerID, models.DateOnly(gameDate)).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) GetBetByID(ctx context.Context, id uint64) (*models.Bet, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Bet
	err := s.db.WithContext(ctx).First(&item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) DeleteBet(ctx context.Context, id uint64) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	res := s.db.WithContext(ctx).Delete(&models.Bet{}, id)
	return res.RowsAffected, res.Error
}

func (s *Store) ListBets(ctx context.Context, params repository.ListBetsParams) ([]models.Bet, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Model(&models.Bet{})
	if len(params.Results) > 0 {
		query = query.Where("result IN ?", params.Results)
	}
	if params.DateFrom != nil && !params.DateFrom.IsZero() {
		query = query.Where("game_date >= ?", models.DateOnly(*params.DateFrom))
	}
	if params.DateTo != nil && !params.DateTo.IsZero() {
		query = query.Where("game_date <= ?", models.DateOnly(*params.DateTo))
	}
	if params.Tier != nil && strings.TrimSpace(*params.Tier) != "" {
		query = query.Where("tier = ?", strings.TrimSpace(*params.Tier))
	}
	query = applyOrder(query, params.OrderBy, params.Asc, "game_date")
	if params.Limit > 0 {
		query = query.Limit(params.Limit)
	}
	if params.Offset > 0 {
		query = query.Offset(params.Offset)
	}
	var items []models.Bet
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) ListRecentBets(ctx context.Context, limit int) ([]models.Bet, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.Bet
	err := s.db.WithContext(ctx).
		Model(&models.Bet{}).
		Order("game_date desc, created_at desc").
		Limit(normalizeLimit(limit, 20)).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) ListBetsForDate(ctx context.Context, gameDate time.Time) ([]models.Bet, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.Bet
	err := s.db.WithContext(ctx).
		Model(&models.Bet{}).
		Where("game_date = ?", models.DateOnly(gameDate)).
		Order("tier asc, player_name asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) ListPendingBets(ctx context.Context, gameDate *time.Time) ([]models.Bet, error) {
	return s.listByResult(ctx, models.ResultPending, gameDate, "")
}

// ListWronglyVoidedBets returns VOIDED bets with no recorded actual value:
// the signature of a void caused by a data gap rather than a confirmed DNP.
func (s *Store) ListWronglyVoidedBets(ctx context.Context, gameDate *time.Time) ([]models.Bet, error) {
	return s.listByResult(ctx, models.ResultVoided, gameDate, "actual_value IS NULL")
}

func (s *Store) listByResult(ctx context.Context, result string, gameDate *time.Time, extra string) ([]models.Bet, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).
		Model(&models.Bet{}).
		Where("result = ?", result)
	if gameDate != nil && !gameDate.IsZero() {
		query = query.Where("game_date = ?", models.DateOnly(*gameDate))
	}
	if extra != "" {
		query = query.Where(extra)
	}
	var items []models.Bet
	if err := query.Order("game_date asc, player_id asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// --- Aggregates -------------------------------------------------------------

func (s *Store) CountBetsByResult(ctx context.Context) (repository.ResultCounts, error) {
	var out repository.ResultCounts
	if s == nil || s.db == nil {
		return out, nil
	}
	var rows []struct {
		Result string
		Total  int64
	}
	err := s.db.WithContext(ctx).
		Model(&models.Bet{}).
		Select("result, COUNT(*) AS total").
		Group("result").
		Scan(&rows).Error
	if err != nil {
		return out, err
	}
	for _, r := range rows {
		switch r.Result {
		case models.ResultPending:
			out.Pending = r.Total
		case models.ResultWon:
			out.Won = r.Total
		case models.ResultLost:
			out.Lost = r.Total
		case models.ResultVoided:
			out.Voided = r.Total
		}
	}
	return out, nil
}

func (s *Store) SumSettledUnits(ctx context.Context) (decimal.Decimal, error) {
	if s == nil || s.db == nil {
		return decimal.Zero, nil
	}
	var row struct {
		Total decimal.Decimal
	}
	err := s.db.WithContext(ctx).
		Model(&models.Bet{}).
		Select("COALESCE(SUM(tier_units),0) AS total").
		Where("result IN ?", []string{models.ResultWon, models.ResultLost}).
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, err
	}
	return row.Total, nil
}

func (s *Store) TierBreakdown(ctx context.Context) ([]repository.TierBreakdownRow, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var rows []repository.TierBreakdownRow
	err := s.db.WithContext(ctx).
		Model(&models.Bet{}).
		Select(`tier, COUNT(*) AS total, COALESCE(SUM(CASE WHEN result = 'WON' THEN 1 ELSE 0 END),0) AS wins`).
		Where("result IN ?", []string{models.ResultWon, models.ResultLost}).
		Group("tier").
		Order("tier asc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *Store) DateBreakdown(ctx context.Context, limit int) ([]repository.DateBreakdownRow, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var rows []repository.DateBreakdownRow
	err := s.db.WithContext(ctx).
		Model(&models.Bet{}).
		Select(`game_date AS date, COUNT(*) AS total, COALESCE(SUM(CASE WHEN result = 'WON' THEN 1 ELSE 0 END),0) AS wins`).
		Where("result IN ?", []string{models.ResultWon, models.ResultLost}).
		Group("game_date").
		Order("game_date desc").
		Limit(normalizeLimit(limit, 14)).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// --- Summaries --------------------------------------------------------------

func (s *Store) ReplaceDailySummariesTx(ctx context.Context, tx *gorm.DB, rows []models.DailySummary) error {
	if s == nil || s.db == nil {
		return nil
	}
	conn := s.conn(ctx, tx)
	if err := conn.Exec("DELETE FROM daily_summary").Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return conn.CreateInBatches(rows, 200).Error
}

func (s *Store) ListDailySummaries(ctx context.Context) ([]models.DailySummary, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.DailySummary
	err := s.db.WithContext(ctx).
		Model(&models.DailySummary{}).
		Order("date asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) LatestDailySummary(ctx context.Context) (*models.DailySummary, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.DailySummary
	err := s.db.WithContext(ctx).
		Model(&models.DailySummary{}).
		Order("date desc").
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// --- Audit ------------------------------------------------------------------

func (s *Store) InsertRawStatsSnapshot(ctx context.Context, item *models.RawStatsSnapshot) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	item.GameDate = models.DateOnly(item.GameDate)
	return s.db.WithContext(ctx).Create(item).Error
}

// --- helpers ----------------------------------------------------------------

func applyOrder(query *gorm.DB, orderBy string, asc *bool, fallback string) *gorm.DB {
	col := strings.TrimSpace(orderBy)
	switch col {
	case "game_date", "created_at", "player_name", "tier":
	default:
		col = fallback
	}
	dir := "desc"
	if asc != nil && *asc {
		dir = "asc"
	}
	return query.Order(col + " " + dir)
}

func normalizeLimit(limit, fallback int) int {
	if limit <= 0 || limit > 1000 {
		return fallback
	}
	return limit
}
