package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"pnltracker/internal/client/nbastats"
	"pnltracker/internal/models"
	"pnltracker/internal/repository"
	"pnltracker/internal/settle"
)

// filePattern matches the prediction pipeline's daily export files.
const filePattern = "goldilocks_v2_*.csv"

// Importer loads historical bet exports into the bets table. Rows carry the
// same upsert identity as the API path, so re-importing a file is harmless.
type Importer struct {
	Repo     repository.Repository
	Bankroll *settle.BankrollService
	Logger   *zap.Logger
}

// ImportDir imports every export file in dir, oldest first by name, then
// rebuilds the summary ledger once at the end.
func (im *Importer) ImportDir(ctx context.Context, dir string) (int, error) {
	paths, err := filepath.Glob(filepath.Join(dir, filePattern))
	if err != nil {
		return 0, err
	}
	if len(paths) == 0 {
		return 0, fmt.Errorf("no %s files in %s", filePattern, dir)
	}
	sort.Strings(paths)

	total := 0
	for _, path := range paths {
		n, err := im.ImportFile(ctx, path)
		if err != nil {
			return total, fmt.Errorf("import %s: %w", filepath.Base(path), err)
		}
		im.logger().Info("imported file",
			zap.String("file", filepath.Base(path)), zap.Int("rows", n))
		total += n
	}

	if im.Bankroll != nil {
		if err := im.Bankroll.RecalculateSummaries(ctx); err != nil {
			return total, err
		}
	}
	return total, nil
}

// ImportFile upserts all rows of one export file in a single transaction.
func (im *Importer) ImportFile(ctx context.Context, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read header: %w", err)
	}
	cols, err := mapColumns(header)
	if err != nil {
		return 0, err
	}

	var items []*models.Bet
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return 0, fmt.Errorf("line %d: %w", line, err)
		}
		item, err := cols.betFromRecord(record)
		if err != nil {
			return 0, fmt.Errorf("line %d: %w", line, err)
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		return 0, nil
	}

	err = im.Repo.InTx(ctx, func(tx *gorm.DB) error {
		for _, item := range items {
			if err := im.Repo.UpsertBetTx(ctx, tx, item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

func (im *Importer) logger() *zap.Logger {
	if im.Logger == nil {
		return zap.NewNop()
	}
	return im.Logger
}

// columnMap resolves export columns by name so column order and optional
// fields can vary between pipeline versions.
type columnMap struct {
	gameDate      int
	playerID      int
	playerName    int
	bettingLine   int
	direction     int
	tier          int
	tierUnits     int
	modelProb     int
	prediction    int
	actualValue   int
	actualMinutes int
}

func mapColumns(header []string) (*columnMap, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	find := func(names ...string) int {
		for _, name := range names {
			if i, ok := index[name]; ok {
				return i
			}
		}
		return -1
	}

	cols := &columnMap{
		gameDate:      find("game_date", "date"),
		playerID:      find("player_id"),
		playerName:    find("player_name", "player"),
		bettingLine:   find("betting_line", "line"),
		direction:     find("direction", "side", "bet_type"),
		tier:          find("tier", "confidence_tier"),
		tierUnits:     find("tier_units", "units"),
		modelProb:     find("model_prob", "win_prob"),
		prediction:    find("prediction", "predicted_value"),
		actualValue:   find("actual_value", "actual"),
		actualMinutes: find("actual_minutes", "minutes"),
	}
	for name, idx := range map[string]int{
		"game_date":    cols.gameDate,
		"player_id":    cols.playerID,
		"player_name":  cols.playerName,
		"betting_line": cols.bettingLine,
		"direction":    cols.direction,
		"tier":         cols.tier,
		"tier_units":   cols.tierUnits,
	} {
		if idx < 0 {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}
	return cols, nil
}

func (cols *columnMap) betFromRecord(record []string) (*models.Bet, error) {
	cell := func(idx int) string {
		if idx < 0 || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	gameDate, err := time.Parse("2006-01-02", cell(cols.gameDate))
	if err != nil {
		return nil, fmt.Errorf("bad game_date %q", cell(cols.gameDate))
	}
	playerID, err := strconv.ParseInt(cell(cols.playerID), 10, 64)
	if err != nil || playerID <= 0 {
		return nil, fmt.Errorf("bad player_id %q", cell(cols.playerID))
	}
	bettingLine, err := strconv.ParseFloat(cell(cols.bettingLine), 64)
	if err != nil {
		return nil, fmt.Errorf("bad betting_line %q", cell(cols.bettingLine))
	}
	direction := strings.ToUpper(cell(cols.direction))
	if direction != models.DirectionOver && direction != models.DirectionUnder {
		return nil, fmt.Errorf("bad direction %q", cell(cols.direction))
	}
	units, err := decimal.NewFromString(cell(cols.tierUnits))
	if err != nil {
		return nil, fmt.Errorf("bad tier_units %q", cell(cols.tierUnits))
	}

	item := &models.Bet{
		GameDate:    models.DateOnly(gameDate),
		PlayerID:    playerID,
		PlayerName:  cell(cols.playerName),
		BettingLine: bettingLine,
		Direction:   direction,
		Tier:        cell(cols.tier),
		TierUnits:   units,
		ModelProb:   optionalFloat(cell(cols.modelProb)),
		Prediction:  optionalFloat(cell(cols.prediction)),
		Result:      models.ResultPending,
	}
	item.ActualValue = optionalFloat(cell(cols.actualValue))
	item.ActualMinutes = optionalFloat(cell(cols.actualMinutes))

	if item.ActualValue != nil && item.ActualMinutes != nil {
		stats := &nbastats.PlayerLine{Value: *item.ActualValue, Minutes: *item.ActualMinutes}
		item.Result = settle.Classify(direction, bettingLine, stats, true)
	}
	return item, nil
}

func optionalFloat(raw string) *float64 {
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}
