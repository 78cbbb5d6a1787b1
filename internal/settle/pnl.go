package settle

import (
	"github.com/shopspring/decimal"

	"pnltracker/internal/models"
)

// winMultiplier is the payout on a winning bet at standard -110 pricing:
// risk 110 to win 100, so profit per unit staked is 100/110.
var winMultiplier = decimal.NewFromInt(100).Div(decimal.NewFromInt(110))

// PnL returns the profit or loss for one settled bet in units. A win pays
// units * 100/110, a loss costs the full stake. The stake's sign is carried
// through unchanged, so a negative stake inverts the payout symmetrically.
func PnL(won bool, units decimal.Decimal) decimal.Decimal {
	if won {
		return units.Mul(winMultiplier)
	}
	return units.Neg()
}

// BetPnL maps a bet to its realized profit or loss. Pending and voided bets
// contribute zero.
func BetPnL(b *models.Bet) decimal.Decimal {
	switch b.Result {
	case models.ResultWon:
		return PnL(true, b.TierUnits)
	case models.ResultLost:
		return PnL(false, b.TierUnits)
	default:
		return decimal.Zero
	}
}
