package livetrack

import (
	"testing"

	"pnltracker/internal/client/nbastats"
	"pnltracker/internal/models"
)

func TestClassifyOver(t *testing.T) {
	tests := []struct {
		name      string
		line      float64
		current   float64
		projected float64
		finished  bool
		want      string
	}{
		{"cleared mid-game locks in", 30.5, 31, 40, false, StatusHit},
		{"cleared at final", 30.5, 31, 31, true, StatusHit},
		{"finished short", 30.5, 28, 28, true, StatusMiss},
		{"finished exactly on line misses", 30, 30, 30, true, StatusMiss},
		{"pace comfortably ahead", 30.5, 18, 33, false, StatusOnTrack},
		{"pace close", 30.5, 14, 27, false, StatusNeedsMore},
		{"pace way off", 30.5, 5, 12, false, StatusUnlikely},
	}
	for _, tt := range tests {
		got := classify(models.DirectionOver, tt.line, tt.current, tt.projected, tt.finished)
		if got != tt.want {
			t.Fatalf("%s: got %s, want %s", tt.name, got, tt.want)
		}
	}
}

func TestClassifyUnder(t *testing.T) {
	tests := []struct {
		name      string
		line      float64
		current   float64
		projected float64
		finished  bool
		want      string
	}{
		{"reached line mid-game is dead", 30.5, 31, 31, false, StatusBusted},
		{"exactly on line is dead", 30, 30, 30, false, StatusBusted},
		{"finished under", 30.5, 24, 24, true, StatusHit},
		{"pace well below", 30.5, 10, 24, false, StatusSafe},
		{"pace just below", 30.5, 15, 30, false, StatusClose},
		{"pace above line", 30.5, 20, 38, false, StatusDanger},
	}
	for _, tt := range tests {
		got := classify(models.DirectionUnder, tt.line, tt.current, tt.projected, tt.finished)
		if got != tt.want {
			t.Fatalf("%s: got %s, want %s", tt.name, got, tt.want)
		}
	}
}

func TestProject(t *testing.T) {
	tr := &Tracker{avgMinutes: 34}
	// 20 points in 17 minutes projects to 40 over a 34 minute load.
	if got := tr.project(20, 17, false); got != 40 {
		t.Fatalf("project = %v, want 40", got)
	}
	// Finished games stop projecting.
	if got := tr.project(20, 17, true); got != 20 {
		t.Fatalf("finished project = %v, want 20", got)
	}
	// Past the expected load, the line so far is the projection.
	if got := tr.project(25, 40, false); got != 25 {
		t.Fatalf("overtime project = %v, want 25", got)
	}
	// No minutes yet, nothing to extrapolate.
	if got := tr.project(0, 0, false); got != 0 {
		t.Fatalf("zero minutes project = %v, want 0", got)
	}
}

func TestFormatGameStatus(t *testing.T) {
	tests := []struct {
		game nbastats.ScoreboardGame
		want string
	}{
		{nbastats.ScoreboardGame{Status: nbastats.GameStatusScheduled}, "Not Started"},
		{nbastats.ScoreboardGame{Status: nbastats.GameStatusFinished}, "Final"},
		{nbastats.ScoreboardGame{Status: nbastats.GameStatusLive, Period: 3, GameClock: "PT05M30.00S"}, "Q3 5:30"},
		{nbastats.ScoreboardGame{Status: nbastats.GameStatusLive, Period: 5, GameClock: "PT02M00.00S"}, "OT1 2:00"},
		{nbastats.ScoreboardGame{Status: nbastats.GameStatusLive, Period: 1}, "Q1"},
	}
	for _, tt := range tests {
		if got := formatGameStatus(&tt.game); got != tt.want {
			t.Fatalf("formatGameStatus(%+v) = %q, want %q", tt.game, got, tt.want)
		}
	}
}
