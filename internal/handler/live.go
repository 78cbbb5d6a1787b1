package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"nhooyr.io/websocket"

	"pnltracker/internal/livetrack"
)

// LiveHandler serves the in-game view of today's bets, both as a one-shot
// snapshot and as a websocket stream that pushes a fresh snapshot on an
// interval.
type LiveHandler struct {
	Tracker  *livetrack.Tracker
	Logger   *zap.Logger
	Interval time.Duration
}

func (h *LiveHandler) Register(r *gin.Engine) {
	r.GET("/api/live-bets", h.liveBets)
	r.GET("/api/live-bets/stream", h.stream)
}

// @Summary Live status of today's bets
// @Tags live
// @Success 200 {object} apiResponse
// @Router /api/live-bets [get]
func (h *LiveHandler) liveBets(c *gin.Context) {
	if h.Tracker == nil {
		Error(c, http.StatusInternalServerError, "tracker unavailable", nil)
		return
	}
	snap, err := h.Tracker.Snapshot(c.Request.Context())
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, snap, nil)
}

// @Summary Websocket stream of live bet snapshots
// @Tags live
// @Router /api/live-bets/stream [get]
func (h *LiveHandler) stream(c *gin.Context) {
	if h.Tracker == nil {
		Error(c, http.StatusInternalServerError, "tracker unavailable", nil)
		return
	}
	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("websocket accept failed", zap.Error(err))
		}
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	interval := h.Interval
	if interval <= 0 {
		interval = 30 * time.Second
	}

	ctx := c.Request.Context()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if err := h.push(ctx, conn); err != nil {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := h.push(ctx, conn); err != nil {
				return
			}
		}
	}
}

func (h *LiveHandler) push(ctx context.Context, conn *websocket.Conn) error {
	snap, err := h.Tracker.Snapshot(ctx)
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("live snapshot failed", zap.Error(err))
		}
		// Feed hiccups should not tear down the stream.
		return nil
	}
	payload, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	writeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return conn.Write(writeCtx, websocket.MessageText, payload)
}
