package handler

import (
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"pnltracker/internal/client/nbastats"
	"pnltracker/internal/models"
	"pnltracker/internal/repository"
	"pnltracker/internal/settle"
)

type BetsHandler struct {
	Repo     repository.Repository
	Bankroll *settle.BankrollService
	Teams    *nbastats.TeamCache
	Logger   *zap.Logger
	Loc      *time.Location
}

func (h *BetsHandler) Register(r *gin.Engine, secured gin.IRoutes) {
	r.GET("/api/recent-bets", h.recent)
	r.GET("/api/todays-bets", h.todays)
	secured.POST("/api/sync-bets", h.sync)
	secured.DELETE("/api/bets/:id", h.delete)
}

type betView struct {
	ID            uint64   `json:"id"`
	GameDate      string   `json:"game_date"`
	PlayerID      int64    `json:"player_id"`
	PlayerName    string   `json:"player_name"`
	BettingLine   float64  `json:"betting_line"`
	Direction     string   `json:"direction"`
	Tier          string   `json:"tier"`
	TierUnits     float64  `json:"tier_units"`
	ModelProb     *float64 `json:"model_prob,omitempty"`
	Prediction    *float64 `json:"prediction,omitempty"`
	ActualValue   *float64 `json:"actual_value,omitempty"`
	ActualMinutes *float64 `json:"actual_minutes,omitempty"`
	Result        string   `json:"result"`
	PnL           float64  `json:"pnl"`
}

func toBetView(b *models.Bet) betView {
	units, _ := b.TierUnits.Float64()
	pnl, _ := settle.BetPnL(b).Round(3).Float64()
	return betView{
		ID:            b.ID,
		GameDate:      models.DateKey(b.GameDate),
		PlayerID:      b.PlayerID,
		PlayerName:    b.PlayerName,
		BettingLine:   b.BettingLine,
		Direction:     b.Direction,
		Tier:          b.Tier,
		TierUnits:     units,
		ModelProb:     b.ModelProb,
		Prediction:    b.Prediction,
		ActualValue:   b.ActualValue,
		ActualMinutes: b.ActualMinutes,
		Result:        b.Result,
		PnL:           pnl,
	}
}

// @Summary Most recent bets, newest first
// @Tags bets
// @Param limit query int false "max rows" default(20)
// @Success 200 {object} apiResponse
// @Router /api/recent-bets [get]
func (h *BetsHandler) recent(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	bets, err := h.Repo.ListRecentBets(c.Request.Context(), limit)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	out := make([]betView, 0, len(bets))
	for i := range bets {
		out = append(out, toBetView(&bets[i]))
	}
	Ok(c, out, nil)
}

// @Summary Today's slate grouped by team
// @Tags bets
// @Success 200 {object} apiResponse
// @Router /api/todays-bets [get]
func (h *BetsHandler) todays(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	ctx := c.Request.Context()
	loc := h.Loc
	if loc == nil {
		loc = time.UTC
	}
	today := models.DateOnly(time.Now().In(loc))

	bets, err := h.Repo.ListBetsForDate(ctx, today)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}

	teamOf := map[int64]string{}
	if h.Teams != nil {
		if m, err := h.Teams.PlayerTeamMap(ctx); err == nil {
			teamOf = m
		} else if h.Logger != nil {
			h.Logger.Warn("player team map unavailable", zap.Error(err))
		}
	}

	grouped := make(map[string][]betView)
	for i := range bets {
		team := teamOf[bets[i].PlayerID]
		if team == "" {
			team = "UNK"
		}
		grouped[team] = append(grouped[team], toBetView(&bets[i]))
	}

	teams := make([]string, 0, len(grouped))
	for team := range grouped {
		teams = append(teams, team)
	}
	// Alphabetical, unknown team bucket last.
	sort.Slice(teams, func(i, j int) bool {
		if teams[i] == "UNK" {
			return false
		}
		if teams[j] == "UNK" {
			return true
		}
		return teams[i] < teams[j]
	})

	out := make([]gin.H, 0, len(teams))
	for _, team := range teams {
		out = append(out, gin.H{"team": team, "bets": grouped[team]})
	}
	Ok(c, gin.H{"date": models.DateKey(today), "teams": out, "total": len(bets)}, nil)
}

type syncBetItem struct {
	GameDate      string   `json:"game_date"`
	PlayerID      int64    `json:"player_id"`
	PlayerName    string   `json:"player_name"`
	BettingLine   float64  `json:"betting_line"`
	Direction     string   `json:"direction"`
	Tier          string   `json:"tier"`
	TierUnits     float64  `json:"tier_units"`
	ModelProb     *float64 `json:"model_prob"`
	Prediction    *float64 `json:"prediction"`
	ActualValue   *float64 `json:"actual_value"`
	ActualMinutes *float64 `json:"actual_minutes"`
}

type syncBetsRequest struct {
	Bets []syncBetItem `json:"bets"`
}

// @Summary Batch-upsert bets from the prediction pipeline
// @Tags bets
// @Accept json
// @Param body body syncBetsRequest true "bets to upsert"
// @Success 200 {object} apiResponse
// @Router /api/sync-bets [post]
func (h *BetsHandler) sync(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	var req syncBetsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	if len(req.Bets) == 0 {
		Error(c, http.StatusBadRequest, "bets required", nil)
		return
	}

	items := make([]*models.Bet, 0, len(req.Bets))
	for i, raw := range req.Bets {
		item, err := betFromSync(raw)
		if err != nil {
			Error(c, http.StatusBadRequest, err.Error(), map[string]any{"index": i})
			return
		}
		items = append(items, item)
	}

	ctx := c.Request.Context()
	err := h.Repo.InTx(ctx, func(tx *gorm.DB) error {
		for _, item := range items {
			if err := h.Repo.UpsertBetTx(ctx, tx, item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}

	if h.Bankroll != nil {
		if err := h.Bankroll.RecalculateSummaries(ctx); err != nil {
			Error(c, http.StatusBadGateway, err.Error(), nil)
			return
		}
	}
	Ok(c, gin.H{"synced": len(items)}, nil)
}

func betFromSync(raw syncBetItem) (*models.Bet, error) {
	gameDate, err := time.Parse("2006-01-02", strings.TrimSpace(raw.GameDate))
	if err != nil {
		return nil, errInvalid("game_date must be YYYY-MM-DD")
	}
	direction := strings.ToUpper(strings.TrimSpace(raw.Direction))
	if direction != models.DirectionOver && direction != models.DirectionUnder {
		return nil, errInvalid("direction must be OVER or UNDER")
	}
	if raw.PlayerID <= 0 {
		return nil, errInvalid("player_id required")
	}
	name := strings.TrimSpace(raw.PlayerName)
	if name == "" {
		return nil, errInvalid("player_name required")
	}
	tier := strings.TrimSpace(raw.Tier)
	if tier == "" {
		return nil, errInvalid("tier required")
	}

	item := &models.Bet{
		GameDate:      models.DateOnly(gameDate),
		PlayerID:      raw.PlayerID,
		PlayerName:    name,
		BettingLine:   raw.BettingLine,
		Direction:     direction,
		Tier:          tier,
		TierUnits:     decimal.NewFromFloat(raw.TierUnits),
		ModelProb:     raw.ModelProb,
		Prediction:    raw.Prediction,
		ActualValue:   raw.ActualValue,
		ActualMinutes: raw.ActualMinutes,
		Result:        models.ResultPending,
	}
	// Rows arriving with actuals already known are graded immediately.
	if raw.ActualValue != nil && raw.ActualMinutes != nil {
		line := &nbastats.PlayerLine{Value: *raw.ActualValue, Minutes: *raw.ActualMinutes}
		item.Result = settle.Classify(direction, raw.BettingLine, line, true)
	}
	return item, nil
}

type errInvalid string

func (e errInvalid) Error() string { return string(e) }

// @Summary Delete one bet and rebuild summaries
// @Tags bets
// @Param id path int true "bet id"
// @Success 200 {object} apiResponse
// @Router /api/bets/{id} [delete]
func (h *BetsHandler) delete(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		Error(c, http.StatusBadRequest, "invalid bet id", nil)
		return
	}
	ctx := c.Request.Context()
	affected, err := h.Repo.DeleteBet(ctx, id)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if affected == 0 {
		Error(c, http.StatusNotFound, "bet not found", nil)
		return
	}
	if h.Bankroll != nil {
		if err := h.Bankroll.RecalculateSummaries(ctx); err != nil {
			Error(c, http.StatusBadGateway, err.Error(), nil)
			return
		}
	}
	Ok(c, gin.H{"deleted": id}, nil)
}
