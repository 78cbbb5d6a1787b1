package nbastats

import (
	"testing"
	"time"
)

const gameLogFixture = `{
  "resultSets": [
    {
      "name": "LeagueGameLog",
      "headers": ["SEASON_ID", "PLAYER_ID", "GAME_DATE", "MIN", "PTS", "REB", "AST"],
      "rowSet": [
        ["22025", 201939, "2026-01-09", 34, 28, 5, 9],
        ["22025", 1629029, "2026-01-09", "36:30", 31, 10, 8],
        ["22025", 203999, "2026-01-08", 30, 20, 12, 6]
      ]
    }
  ]
}`

func TestParseGameLog(t *testing.T) {
	date := time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC)
	lines, err := parseGameLog([]byte(gameLogFixture), date)
	if err != nil {
		t.Fatalf("parseGameLog: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2 (other dates filtered)", len(lines))
	}

	curry, ok := lines[201939]
	if !ok {
		t.Fatalf("player 201939 missing")
	}
	if curry.Value != 42 || curry.Minutes != 34 {
		t.Fatalf("got value %v minutes %v, want 42 / 34", curry.Value, curry.Minutes)
	}

	doncic := lines[1629029]
	if doncic.Value != 49 || doncic.Minutes != 36.5 {
		t.Fatalf("got value %v minutes %v, want 49 / 36.5", doncic.Value, doncic.Minutes)
	}
}

func TestParseGameLogBadPayload(t *testing.T) {
	date := time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC)
	if _, err := parseGameLog([]byte(`{"resultSets":[]}`), date); err == nil {
		t.Fatalf("expected error for empty result sets")
	}
	noCols := `{"resultSets":[{"name":"x","headers":["FOO"],"rowSet":[]}]}`
	if _, err := parseGameLog([]byte(noCols), date); err == nil {
		t.Fatalf("expected error for missing columns")
	}
}

func TestParseAllPlayers(t *testing.T) {
	fixture := `{
	  "resultSets": [
	    {
	      "name": "CommonAllPlayers",
	      "headers": ["PERSON_ID", "DISPLAY_FIRST_LAST", "TEAM_ABBREVIATION"],
	      "rowSet": [
	        [201939, "Stephen Curry", "GSW"],
	        [1629029, "Luka Doncic", "LAL"],
	        [12345, "Waived Guy", ""]
	      ]
	    }
	  ]
	}`
	byPlayer, err := parseAllPlayers([]byte(fixture))
	if err != nil {
		t.Fatalf("parseAllPlayers: %v", err)
	}
	if byPlayer[201939] != "GSW" || byPlayer[1629029] != "LAL" {
		t.Fatalf("unexpected mapping: %v", byPlayer)
	}
	if byPlayer[12345] != "UNK" {
		t.Fatalf("empty team should map to UNK, got %q", byPlayer[12345])
	}
}
