package settle

import (
	"pnltracker/internal/client/nbastats"
	"pnltracker/internal/models"
)

// minMinutesForAction is the playing-time floor below which a bet is voided
// rather than graded. A bet on a player who barely saw the floor had no
// chance to resolve on its merits.
const minMinutesForAction = 1.0

// Classify grades a bet against a final stat line.
//
// A nil line means the player does not appear in the finished results for the
// date: pending until the game day has concluded, then a DNP void. Pushes do
// not exist at half-point-free lines priced this way, so a value exactly on
// the line always grades as a loss.
func Classify(direction string, line float64, stats *nbastats.PlayerLine, dayConcluded bool) string {
	if stats == nil {
		if dayConcluded {
			return models.ResultVoided
		}
		return models.ResultPending
	}
	if stats.Minutes < minMinutesForAction {
		return models.ResultVoided
	}
	switch direction {
	case models.DirectionOver:
		if stats.Value > line {
			return models.ResultWon
		}
	case models.DirectionUnder:
		if stats.Value < line {
			return models.ResultWon
		}
	}
	return models.ResultLost
}
