package nbastats

import "encoding/json"

// PlayerLine is one player's combined stat line (points + rebounds + assists)
// for one finished game.
type PlayerLine struct {
	Value   float64
	Minutes float64
}

// statsResponse is the stats.nba.com tabular envelope: every endpoint returns
// result sets as a header list plus row tuples.
type statsResponse struct {
	ResultSets []resultSet `json:"resultSets"`
}

type resultSet struct {
	Name    string            `json:"name"`
	Headers []string          `json:"headers"`
	RowSet  [][]json.RawMessage `json:"rowSet"`
}

func (rs *resultSet) columnIndex(name string) int {
	for i, h := range rs.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

// Game status codes used by the live scoreboard feed.
const (
	GameStatusScheduled = 1
	GameStatusLive      = 2
	GameStatusFinished  = 3
)

type ScoreboardGame struct {
	GameID     string
	Status     int
	StatusText string
	HomeTeam   string
	AwayTeam   string
	HomeScore  int
	AwayScore  int
	Period     int
	GameClock  string
}

type BoxScorePlayer struct {
	PlayerID   int64
	Name       string
	Team       string
	Points     int
	Rebounds   int
	Assists    int
	MinutesRaw string
}

// Value is the combined stat total the model predicts against.
func (p BoxScorePlayer) Value() float64 {
	return float64(p.Points + p.Rebounds + p.Assists)
}
