package nbastats

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// FetchResults returns final per-player lines for every game played on the
// given date, keyed by player ID, plus the raw payload for the audit trail.
//
// The map covers only games the provider reports as complete; a player absent
// from the map for a date with finished games is the DNP signal. The caller
// must not ask about future dates.
func (c *Client) FetchResults(ctx context.Context, date time.Time) (map[int64]PlayerLine, []byte, error) {
	query := url.Values{}
	query.Set("Season", SeasonFor(date))
	query.Set("SeasonType", "Regular Season")
	query.Set("PlayerOrTeam", "P")
	query.Set("LeagueID", "00")
	query.Set("DateFrom", date.Format("01/02/2006"))
	query.Set("DateTo", date.Format("01/02/2006"))
	query.Set("Counter", "0")
	query.Set("Direction", "ASC")
	query.Set("Sorter", "DATE")

	raw, err := c.doRequest(ctx, c.statsHost, "/stats/leaguegamelog", query)
	if err != nil {
		return nil, nil, err
	}

	lines, err := parseGameLog(raw, date)
	if err != nil {
		return nil, raw, err
	}
	return lines, raw, nil
}

func parseGameLog(raw []byte, date time.Time) (map[int64]PlayerLine, error) {
	var resp statsResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode game log: %w", err)
	}
	if len(resp.ResultSets) == 0 {
		return nil, fmt.Errorf("game log: no result sets")
	}
	rs := resp.ResultSets[0]

	playerCol := rs.columnIndex("PLAYER_ID")
	dateCol := rs.columnIndex("GAME_DATE")
	minCol := rs.columnIndex("MIN")
	ptsCol := rs.columnIndex("PTS")
	rebCol := rs.columnIndex("REB")
	astCol := rs.columnIndex("AST")
	if playerCol < 0 || dateCol < 0 || ptsCol < 0 || rebCol < 0 || astCol < 0 {
		return nil, fmt.Errorf("game log: missing expected columns")
	}

	wantDate := date.Format("2006-01-02")
	lines := make(map[int64]PlayerLine, len(rs.RowSet))
	for _, row := range rs.RowSet {
		if len(row) <= astCol {
			continue
		}
		if gd, ok := cellString(row[dateCol]); !ok || gd != wantDate {
			continue
		}
		playerID, ok := cellInt(row[playerCol])
		if !ok {
			continue
		}
		pts, _ := cellFloat(row[ptsCol])
		reb, _ := cellFloat(row[rebCol])
		ast, _ := cellFloat(row[astCol])
		minutes := 0.0
		if minCol >= 0 && len(row) > minCol {
			if m, ok := cellFloat(row[minCol]); ok {
				minutes = m
			} else if s, ok := cellString(row[minCol]); ok {
				minutes = ParseMinutes(s)
			}
		}
		lines[playerID] = PlayerLine{
			Value:   pts + reb + ast,
			Minutes: minutes,
		}
	}
	return lines, nil
}

// SeasonFor maps a date to the season string the stats API expects,
// e.g. "2025-26". Seasons roll over in October.
func SeasonFor(t time.Time) string {
	year := t.Year()
	if t.Month() < time.October {
		year--
	}
	return fmt.Sprintf("%d-%02d", year, (year+1)%100)
}

func cellString(raw json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func cellFloat(raw json.RawMessage) (float64, bool) {
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, true
	}
	if s, ok := cellString(raw); ok {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

func cellInt(raw json.RawMessage) (int64, bool) {
	if f, ok := cellFloat(raw); ok {
		return int64(f), true
	}
	return 0, false
}
