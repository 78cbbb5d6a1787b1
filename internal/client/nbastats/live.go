package nbastats

import (
	"context"
	"encoding/json"
	"fmt"
)

type scoreboardResponse struct {
	Scoreboard struct {
		GameDate string `json:"gameDate"`
		Games    []struct {
			GameID         string `json:"gameId"`
			GameStatus     int    `json:"gameStatus"`
			GameStatusText string `json:"gameStatusText"`
			Period         int    `json:"period"`
			GameClock      string `json:"gameClock"`
			HomeTeam       struct {
				TeamTricode string `json:"teamTricode"`
				Score       int    `json:"score"`
			} `json:"homeTeam"`
			AwayTeam struct {
				TeamTricode string `json:"teamTricode"`
				Score       int    `json:"score"`
			} `json:"awayTeam"`
		} `json:"games"`
	} `json:"scoreboard"`
}

// Scoreboard returns today's slate from the live feed. The date string is the
// schedule date the feed covers ("2006-01-02").
func (c *Client) Scoreboard(ctx context.Context) (string, []ScoreboardGame, error) {
	raw, err := c.doRequest(ctx, c.liveHost, "/scoreboard/todaysScoreboard_00.json", nil)
	if err != nil {
		return "", nil, err
	}
	var resp scoreboardResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", nil, fmt.Errorf("decode scoreboard: %w", err)
	}
	games := make([]ScoreboardGame, 0, len(resp.Scoreboard.Games))
	for _, g := range resp.Scoreboard.Games {
		statusText := g.GameStatusText
		switch g.GameStatus {
		case GameStatusScheduled:
			statusText = "Not Started"
		case GameStatusLive:
			statusText = "Live"
		case GameStatusFinished:
			statusText = "Finished"
		}
		games = append(games, ScoreboardGame{
			GameID:     g.GameID,
			Status:     g.GameStatus,
			StatusText: statusText,
			HomeTeam:   g.HomeTeam.TeamTricode,
			AwayTeam:   g.AwayTeam.TeamTricode,
			HomeScore:  g.HomeTeam.Score,
			AwayScore:  g.AwayTeam.Score,
			Period:     g.Period,
			GameClock:  g.GameClock,
		})
	}
	return resp.Scoreboard.GameDate, games, nil
}

type boxScoreResponse struct {
	Game struct {
		HomeTeam boxScoreTeam `json:"homeTeam"`
		AwayTeam boxScoreTeam `json:"awayTeam"`
	} `json:"game"`
}

type boxScoreTeam struct {
	TeamTricode string `json:"teamTricode"`
	Players     []struct {
		PersonID   int64  `json:"personId"`
		FirstName  string `json:"firstName"`
		FamilyName string `json:"familyName"`
		Statistics *struct {
			Points            int    `json:"points"`
			ReboundsTotal     int    `json:"reboundsTotal"`
			Assists           int    `json:"assists"`
			MinutesCalculated string `json:"minutesCalculated"`
		} `json:"statistics"`
	} `json:"players"`
}

// BoxScore returns per-player lines for one live or finished game.
func (c *Client) BoxScore(ctx context.Context, gameID string) ([]BoxScorePlayer, error) {
	path := fmt.Sprintf("/boxscore/boxscore_%s.json", gameID)
	raw, err := c.doRequest(ctx, c.liveHost, path, nil)
	if err != nil {
		return nil, err
	}
	var resp boxScoreResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode box score %s: %w", gameID, err)
	}
	var players []BoxScorePlayer
	for _, team := range []boxScoreTeam{resp.Game.HomeTeam, resp.Game.AwayTeam} {
		for _, p := range team.Players {
			if p.Statistics == nil {
				continue
			}
			players = append(players, BoxScorePlayer{
				PlayerID:   p.PersonID,
				Name:       p.FirstName + " " + p.FamilyName,
				Team:       team.TeamTricode,
				Points:     p.Statistics.Points,
				Rebounds:   p.Statistics.ReboundsTotal,
				Assists:    p.Statistics.Assists,
				MinutesRaw: p.Statistics.MinutesCalculated,
			})
		}
	}
	return players, nil
}
