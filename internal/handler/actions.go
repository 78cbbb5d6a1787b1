package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pnltracker/internal/models"
	"pnltracker/internal/settle"
)

// ActionsHandler exposes the settlement and correction operations the cron
// jobs run on a schedule, for manual replays.
type ActionsHandler struct {
	Reconciler *settle.ReconcileService
	Bankroll   *settle.BankrollService
	Logger     *zap.Logger
}

func (h *ActionsHandler) Register(secured gin.IRoutes) {
	secured.POST("/api/update-results", h.updateResults)
	secured.POST("/api/update-results-for-date", h.updateResultsForDate)
	secured.POST("/api/reset-voided", h.resetVoided)
	secured.POST("/api/recalculate", h.recalculate)
}

// @Summary Grade pending bets for recent dates
// @Tags actions
// @Param days_back query int false "lookback window in days"
// @Success 200 {object} apiResponse
// @Router /api/update-results [post]
func (h *ActionsHandler) updateResults(c *gin.Context) {
	if h.Reconciler == nil {
		Error(c, http.StatusInternalServerError, "reconciler unavailable", nil)
		return
	}
	daysBack := 0
	if raw := c.Query("days_back"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			Error(c, http.StatusBadRequest, "invalid days_back", nil)
			return
		}
		daysBack = v
	}

	ctx := c.Request.Context()
	res, err := h.Reconciler.ReconcileRecent(ctx, daysBack)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), map[string]any{"status": res.Status})
		return
	}
	if err := h.rebuild(c); err != nil {
		return
	}
	Ok(c, res, nil)
}

// @Summary Re-run settlement for one game date
// @Tags actions
// @Param date query string true "game date, YYYY-MM-DD"
// @Success 200 {object} apiResponse
// @Router /api/update-results-for-date [post]
func (h *ActionsHandler) updateResultsForDate(c *gin.Context) {
	if h.Reconciler == nil {
		Error(c, http.StatusInternalServerError, "reconciler unavailable", nil)
		return
	}
	date, ok := parseDateParam(c)
	if !ok {
		return
	}

	res, err := h.Reconciler.ReconcileForDate(c.Request.Context(), date)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), map[string]any{"status": res.Status})
		return
	}
	if err := h.rebuild(c); err != nil {
		return
	}
	Ok(c, res, map[string]any{"date": models.DateKey(date)})
}

// @Summary Reset wrongly voided bets back to pending
// @Tags actions
// @Param date query string false "restrict to one game date, YYYY-MM-DD"
// @Success 200 {object} apiResponse
// @Router /api/reset-voided [post]
func (h *ActionsHandler) resetVoided(c *gin.Context) {
	if h.Reconciler == nil {
		Error(c, http.StatusInternalServerError, "reconciler unavailable", nil)
		return
	}
	var date *time.Time
	if strings.TrimSpace(c.Query("date")) != "" {
		d, ok := parseDateParam(c)
		if !ok {
			return
		}
		date = &d
	}

	reset, err := h.Reconciler.ResetWronglyVoided(c.Request.Context(), date)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if err := h.rebuild(c); err != nil {
		return
	}
	Ok(c, gin.H{"reset": reset}, nil)
}

// @Summary Rebuild the daily summary ledger from scratch
// @Tags actions
// @Success 200 {object} apiResponse
// @Router /api/recalculate [post]
func (h *ActionsHandler) recalculate(c *gin.Context) {
	if err := h.rebuild(c); err != nil {
		return
	}
	Ok(c, gin.H{"status": "recalculated"}, nil)
}

// rebuild refreshes summaries after any bet mutation. It writes the error
// response itself so callers just bail on non-nil.
func (h *ActionsHandler) rebuild(c *gin.Context) error {
	if h.Bankroll == nil {
		Error(c, http.StatusInternalServerError, "bankroll service unavailable", nil)
		return errInvalid("bankroll service unavailable")
	}
	if err := h.Bankroll.RecalculateSummaries(c.Request.Context()); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return err
	}
	return nil
}

func parseDateParam(c *gin.Context) (time.Time, bool) {
	raw := strings.TrimSpace(c.Query("date"))
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		Error(c, http.StatusBadRequest, "date must be YYYY-MM-DD", nil)
		return time.Time{}, false
	}
	return models.DateOnly(date), true
}
