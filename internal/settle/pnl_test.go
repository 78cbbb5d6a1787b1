package settle

import (
	"testing"

	"github.com/shopspring/decimal"

	"pnltracker/internal/models"
)

func TestPnL(t *testing.T) {
	tests := []struct {
		name  string
		won   bool
		units string
		want  string
	}{
		{"win pays 100/110 per unit", true, "1.5", "1.364"},
		{"loss costs full stake", false, "1.5", "-1.5"},
		{"single unit win", true, "1", "0.909"},
		{"zero stake", true, "0", "0"},
		{"negative stake win inverts", true, "-1", "-0.909"},
		{"negative stake loss inverts", false, "-2", "2"},
	}
	for _, tt := range tests {
		units, err := decimal.NewFromString(tt.units)
		if err != nil {
			t.Fatalf("%s: bad units %q", tt.name, tt.units)
		}
		got := PnL(tt.won, units).Round(3)
		want, _ := decimal.NewFromString(tt.want)
		if !got.Equal(want) {
			t.Fatalf("%s: PnL(%v, %s) = %s, want %s", tt.name, tt.won, tt.units, got, tt.want)
		}
	}
}

func TestBetPnLTerminalStatesOnly(t *testing.T) {
	units := decimal.NewFromFloat(2)
	won := &models.Bet{Result: models.ResultWon, TierUnits: units}
	if got := BetPnL(won).Round(3); got.String() != "1.818" {
		t.Fatalf("won pnl = %s, want 1.818", got)
	}
	lost := &models.Bet{Result: models.ResultLost, TierUnits: units}
	if !BetPnL(lost).Equal(units.Neg()) {
		t.Fatalf("lost pnl = %s, want -2", BetPnL(lost))
	}
	for _, result := range []string{models.ResultPending, models.ResultVoided} {
		b := &models.Bet{Result: result, TierUnits: units}
		if !BetPnL(b).IsZero() {
			t.Fatalf("%s pnl = %s, want 0", result, BetPnL(b))
		}
	}
}
