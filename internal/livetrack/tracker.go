package livetrack

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"pnltracker/internal/client/nbastats"
	"pnltracker/internal/models"
	"pnltracker/internal/repository"
)

// Bet statuses shown on the live dashboard. Hit and busted are locked in
// mid-game because stat totals never decrease; everything else is a
// projection against the expected minutes load.
const (
	StatusNotStarted = "not_started"
	StatusHit        = "hit"
	StatusMiss       = "miss"
	StatusOnTrack    = "on_track"
	StatusNeedsMore  = "needs_more"
	StatusUnlikely   = "unlikely"
	StatusSafe       = "safe"
	StatusClose      = "close"
	StatusDanger     = "danger"
	StatusBusted     = "busted"
)

type LiveBet struct {
	BetID      uint64  `json:"bet_id"`
	PlayerID   int64   `json:"player_id"`
	PlayerName string  `json:"player_name"`
	Team       string  `json:"team"`
	Tier       string  `json:"tier"`
	Direction  string  `json:"direction"`
	Line       float64 `json:"line"`
	Current    float64 `json:"current"`
	Minutes    float64 `json:"minutes"`
	Projected  float64 `json:"projected"`
	Status     string  `json:"status"`
	GameStatus string  `json:"game_status"`
}

type Snapshot struct {
	Date        string                    `json:"date"`
	Games       []nbastats.ScoreboardGame `json:"games"`
	Bets        []LiveBet                 `json:"bets"`
	GeneratedAt time.Time                 `json:"generated_at"`
}

// Tracker merges today's bets with the live scoreboard and box scores.
type Tracker struct {
	repo       repository.Repository
	client     *nbastats.Client
	teams      *nbastats.TeamCache
	logger     *zap.Logger
	avgMinutes float64
	loc        *time.Location
}

func NewTracker(repo repository.Repository, client *nbastats.Client, teams *nbastats.TeamCache, logger *zap.Logger, avgMinutes float64, timezone string) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if avgMinutes <= 0 {
		avgMinutes = 34.0
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc = time.UTC
	}
	return &Tracker{
		repo:       repo,
		client:     client,
		teams:      teams,
		logger:     logger,
		avgMinutes: avgMinutes,
		loc:        loc,
	}
}

type playerState struct {
	line *nbastats.BoxScorePlayer
	game *nbastats.ScoreboardGame
}

// Snapshot returns the current state of every bet on today's slate. Game
// "today" follows the league's schedule timezone, not UTC.
func (t *Tracker) Snapshot(ctx context.Context) (*Snapshot, error) {
	now := time.Now().In(t.loc)
	today := models.DateOnly(now)

	snap := &Snapshot{
		Date:        models.DateKey(today),
		GeneratedAt: now,
	}

	bets, err := t.repo.ListBetsForDate(ctx, today)
	if err != nil {
		return nil, err
	}
	if len(bets) == 0 {
		return snap, nil
	}

	_, games, err := t.client.Scoreboard(ctx)
	if err != nil {
		return nil, err
	}
	snap.Games = games

	byTeam := make(map[string]*nbastats.ScoreboardGame, len(games)*2)
	for i := range games {
		byTeam[games[i].HomeTeam] = &games[i]
		byTeam[games[i].AwayTeam] = &games[i]
	}

	byPlayer := make(map[int64]playerState)
	for i := range games {
		g := &games[i]
		if g.Status == nbastats.GameStatusScheduled {
			continue
		}
		players, err := t.client.BoxScore(ctx, g.GameID)
		if err != nil {
			t.logger.Warn("box score fetch failed",
				zap.String("game_id", g.GameID), zap.Error(err))
			continue
		}
		for j := range players {
			byPlayer[players[j].PlayerID] = playerState{line: &players[j], game: g}
		}
	}

	teamOf, err := t.teams.PlayerTeamMap(ctx)
	if err != nil {
		t.logger.Warn("player team map unavailable", zap.Error(err))
		teamOf = map[int64]string{}
	}

	snap.Bets = make([]LiveBet, 0, len(bets))
	for i := range bets {
		snap.Bets = append(snap.Bets, t.trackBet(&bets[i], byPlayer, byTeam, teamOf))
	}
	return snap, nil
}

func (t *Tracker) trackBet(bet *models.Bet, byPlayer map[int64]playerState, byTeam map[string]*nbastats.ScoreboardGame, teamOf map[int64]string) LiveBet {
	lb := LiveBet{
		BetID:      bet.ID,
		PlayerID:   bet.PlayerID,
		PlayerName: bet.PlayerName,
		Tier:       bet.Tier,
		Direction:  bet.Direction,
		Line:       bet.BettingLine,
		Status:     StatusNotStarted,
		GameStatus: "Not Started",
	}

	state, inBox := byPlayer[bet.PlayerID]

	team := teamOf[bet.PlayerID]
	if inBox && state.line.Team != "" {
		team = state.line.Team
	}
	if team == "" {
		team = "UNK"
	}
	lb.Team = team

	var game *nbastats.ScoreboardGame
	if inBox {
		game = state.game
	} else {
		game = byTeam[team]
	}
	if game == nil || game.Status == nbastats.GameStatusScheduled {
		return lb
	}
	lb.GameStatus = formatGameStatus(game)

	// In the box score or not, the game is underway; an absent player has a
	// zero line so far.
	if inBox {
		lb.Current = state.line.Value()
		lb.Minutes = nbastats.ParseMinutes(state.line.MinutesRaw)
	}

	finished := game.Status == nbastats.GameStatusFinished
	lb.Projected = t.project(lb.Current, lb.Minutes, finished)
	lb.Status = classify(bet.Direction, bet.BettingLine, lb.Current, lb.Projected, finished)
	return lb
}

// project extrapolates the current pace over the expected minutes load.
func (t *Tracker) project(current, played float64, finished bool) float64 {
	if finished || played <= 0 {
		return current
	}
	remaining := t.avgMinutes - played
	if remaining <= 0 {
		return current
	}
	return current + (current/played)*remaining
}

func classify(direction string, line, current, projected float64, finished bool) string {
	switch direction {
	case models.DirectionOver:
		if current > line {
			return StatusHit
		}
		if finished {
			return StatusMiss
		}
		switch {
		case projected >= line*1.05:
			return StatusOnTrack
		case projected >= line*0.85:
			return StatusNeedsMore
		default:
			return StatusUnlikely
		}
	case models.DirectionUnder:
		if current >= line {
			return StatusBusted
		}
		if finished {
			return StatusHit
		}
		switch {
		case projected <= line*0.95:
			return StatusSafe
		case projected <= line:
			return StatusClose
		default:
			return StatusDanger
		}
	}
	return StatusNotStarted
}

func formatGameStatus(g *nbastats.ScoreboardGame) string {
	switch g.Status {
	case nbastats.GameStatusFinished:
		return "Final"
	case nbastats.GameStatusLive:
		period := fmt.Sprintf("Q%d", g.Period)
		if g.Period > 4 {
			period = fmt.Sprintf("OT%d", g.Period-4)
		}
		clock := formatClock(g.GameClock)
		if clock == "" {
			return period
		}
		return period + " " + clock
	default:
		return "Not Started"
	}
}

// formatClock turns the feed's ISO duration ("PT05M30.00S") into "5:30".
func formatClock(raw string) string {
	mins := nbastats.ParseMinutes(raw)
	if mins <= 0 && raw == "" {
		return ""
	}
	whole := int(mins)
	secs := int((mins - float64(whole)) * 60)
	return fmt.Sprintf("%d:%02d", whole, secs)
}
