package nbastats

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"
	"time"
)

// TeamCache memoizes the player-to-team mapping from the roster endpoint.
// The mapping changes rarely (trades, call-ups), so a coarse TTL is enough.
type TeamCache struct {
	client *Client
	ttl    time.Duration

	mu          sync.Mutex
	byPlayer    map[int64]string
	refreshedAt time.Time
}

func NewTeamCache(client *Client, ttl time.Duration) *TeamCache {
	if ttl <= 0 {
		ttl = 6 * time.Hour
	}
	return &TeamCache{client: client, ttl: ttl}
}

// PlayerTeamMap returns player ID to team tricode, refreshing from the roster
// endpoint when the cached copy has expired. A stale copy is served if the
// refresh fails and one exists.
func (tc *TeamCache) PlayerTeamMap(ctx context.Context) (map[int64]string, error) {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	if tc.byPlayer != nil && time.Since(tc.refreshedAt) < tc.ttl {
		return tc.byPlayer, nil
	}

	fresh, err := tc.fetch(ctx)
	if err != nil {
		if tc.byPlayer != nil {
			return tc.byPlayer, nil
		}
		return nil, err
	}
	tc.byPlayer = fresh
	tc.refreshedAt = time.Now()
	return tc.byPlayer, nil
}

func (tc *TeamCache) fetch(ctx context.Context) (map[int64]string, error) {
	query := url.Values{}
	query.Set("LeagueID", "00")
	query.Set("Season", SeasonFor(time.Now()))
	query.Set("IsOnlyCurrentSeason", "1")

	raw, err := tc.client.doRequest(ctx, tc.client.statsHost, "/stats/commonallplayers", query)
	if err != nil {
		return nil, err
	}
	return parseAllPlayers(raw)
}

func parseAllPlayers(raw []byte) (map[int64]string, error) {
	var resp statsResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode roster: %w", err)
	}
	if len(resp.ResultSets) == 0 {
		return nil, fmt.Errorf("roster: no result sets")
	}
	rs := resp.ResultSets[0]

	idCol := rs.columnIndex("PERSON_ID")
	teamCol := rs.columnIndex("TEAM_ABBREVIATION")
	if idCol < 0 || teamCol < 0 {
		return nil, fmt.Errorf("roster: missing expected columns")
	}

	byPlayer := make(map[int64]string, len(rs.RowSet))
	for _, row := range rs.RowSet {
		if len(row) <= idCol || len(row) <= teamCol {
			continue
		}
		id, ok := cellInt(row[idCol])
		if !ok {
			continue
		}
		team, _ := cellString(row[teamCol])
		if team == "" {
			team = "UNK"
		}
		byPlayer[id] = team
	}
	return byPlayer, nil
}
