package nbastats

import (
	"math"
	"testing"
	"time"
)

func TestParseMinutes(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"PT24M30.00S", 24.5},
		{"PT00M00.00S", 0},
		{"PT36M", 36},
		{"34:30", 34.5},
		{"28", 28},
		{"31.5", 31.5},
		{"1930", 32.166667}, // seconds feed
		{"DNP", 0},
		{"", 0},
		{"garbage", 0},
	}
	for _, tt := range tests {
		got := ParseMinutes(tt.in)
		if math.Abs(got-tt.want) > 1e-5 {
			t.Fatalf("ParseMinutes(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSeasonFor(t *testing.T) {
	tests := []struct {
		date string
		want string
	}{
		{"2025-10-21", "2025-26"},
		{"2026-01-15", "2025-26"},
		{"2026-06-10", "2025-26"},
		{"2026-09-30", "2025-26"},
		{"2026-10-01", "2026-27"},
		{"2029-12-31", "2029-30"},
	}
	for _, tt := range tests {
		date, err := time.Parse("2006-01-02", tt.date)
		if err != nil {
			t.Fatalf("bad date %q", tt.date)
		}
		if got := SeasonFor(date); got != tt.want {
			t.Fatalf("SeasonFor(%s) = %s, want %s", tt.date, got, tt.want)
		}
	}
}
