package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"pnltracker/internal/models"
	"pnltracker/internal/repository"
)

// SummaryHandler serves the dashboard aggregates. All money values are
// computed in decimals and rounded only here, at the response boundary.
type SummaryHandler struct {
	Repo             repository.Repository
	StartingBankroll decimal.Decimal
}

func (h *SummaryHandler) Register(r *gin.Engine) {
	group := r.Group("/api")
	group.GET("/summary", h.summary)
	group.GET("/bankroll-history", h.bankrollHistory)
	group.GET("/daily-pnl", h.dailyPnL)
	group.GET("/by-tier", h.byTier)
	group.GET("/by-date", h.byDate)
}

// @Summary Overall record, PnL and bankroll
// @Tags summary
// @Success 200 {object} apiResponse
// @Router /api/summary [get]
func (h *SummaryHandler) summary(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	ctx := c.Request.Context()

	counts, err := h.Repo.CountBetsByResult(ctx)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	staked, err := h.Repo.SumSettledUnits(ctx)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}

	bankroll := h.StartingBankroll
	if latest, err := h.Repo.LatestDailySummary(ctx); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	} else if latest != nil {
		bankroll = latest.Bankroll
	}
	totalPnL := bankroll.Sub(h.StartingBankroll)

	settled := counts.Won + counts.Lost
	winRate := 0.0
	if settled > 0 {
		winRate = float64(counts.Won) / float64(settled)
	}
	roi := decimal.Zero
	if staked.IsPositive() {
		roi = totalPnL.Div(staked)
	}

	Ok(c, gin.H{
		"total_bets": counts.Won + counts.Lost + counts.Pending + counts.Voided,
		"wins":       counts.Won,
		"losses":     counts.Lost,
		"pending":    counts.Pending,
		"voided":     counts.Voided,
		"win_rate":   roundFloat(winRate, 4),
		"total_pnl":  totalPnL.Round(3),
		"roi":        roi.Round(4),
		"bankroll":   bankroll.Round(3),
	}, nil)
}

// @Summary Bankroll value by day, starting from the configured stake
// @Tags summary
// @Success 200 {object} apiResponse
// @Router /api/bankroll-history [get]
func (h *SummaryHandler) bankrollHistory(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	rows, err := h.Repo.ListDailySummaries(c.Request.Context())
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	history := make([]gin.H, 0, len(rows)+1)
	history = append(history, gin.H{
		"date":     "start",
		"bankroll": h.StartingBankroll.Round(3),
	})
	for _, row := range rows {
		history = append(history, gin.H{
			"date":     models.DateKey(row.Date),
			"bankroll": row.Bankroll.Round(3),
		})
	}
	Ok(c, history, nil)
}

// @Summary Per-day profit and loss with result counts
// @Tags summary
// @Success 200 {object} apiResponse
// @Router /api/daily-pnl [get]
func (h *SummaryHandler) dailyPnL(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	rows, err := h.Repo.ListDailySummaries(c.Request.Context())
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	out := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		out = append(out, gin.H{
			"date":       models.DateKey(row.Date),
			"total_bets": row.TotalBets,
			"wins":       row.Wins,
			"losses":     row.Losses,
			"pending":    row.Pending,
			"voided":     row.Voided,
			"daily_pnl":  row.DailyPnL.Round(3),
			"bankroll":   row.Bankroll.Round(3),
		})
	}
	Ok(c, out, nil)
}

// @Summary Win rate split by confidence tier
// @Tags summary
// @Success 200 {object} apiResponse
// @Router /api/by-tier [get]
func (h *SummaryHandler) byTier(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	rows, err := h.Repo.TierBreakdown(c.Request.Context())
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	out := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		out = append(out, gin.H{
			"tier":     row.Tier,
			"total":    row.Total,
			"wins":     row.Wins,
			"win_rate": rateOf(row.Wins, row.Total),
		})
	}
	Ok(c, out, nil)
}

// @Summary Win rate for recent game dates
// @Tags summary
// @Param limit query int false "number of dates, newest first" default(14)
// @Success 200 {object} apiResponse
// @Router /api/by-date [get]
func (h *SummaryHandler) byDate(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	limit := 14
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	rows, err := h.Repo.DateBreakdown(c.Request.Context(), limit)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	out := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		out = append(out, gin.H{
			"date":     models.DateKey(row.Date),
			"total":    row.Total,
			"wins":     row.Wins,
			"win_rate": rateOf(row.Wins, row.Total),
		})
	}
	Ok(c, out, nil)
}

func rateOf(wins, total int64) float64 {
	if total == 0 {
		return 0
	}
	return roundFloat(float64(wins)/float64(total), 4)
}

func roundFloat(v float64, places int32) float64 {
	f, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return f
}
