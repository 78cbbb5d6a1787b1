package settle

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"pnltracker/internal/client/nbastats"
	"pnltracker/internal/config"
	"pnltracker/internal/models"
)

type stubStats struct {
	lines   map[string]map[int64]nbastats.PlayerLine
	errs    map[string]error
	fetches []string
}

func (s *stubStats) FetchResults(ctx context.Context, date time.Time) (map[int64]nbastats.PlayerLine, []byte, error) {
	key := models.DateKey(date)
	s.fetches = append(s.fetches, key)
	if err, ok := s.errs[key]; ok {
		return nil, nil, err
	}
	return s.lines[key], []byte(`{"resultSets":[]}`), nil
}

func newTestReconciler(repo *stubRepo, stats *stubStats, now time.Time) *ReconcileService {
	svc := NewReconcileService(repo, stats, nil, config.SettlementConfig{
		LookbackDays:  3,
		VoidAfterDays: 1,
	})
	svc.now = func() time.Time { return now }
	return svc
}

func pendingBet(playerID int64, date time.Time, direction string, line float64) models.Bet {
	return models.Bet{
		GameDate:    date,
		PlayerID:    playerID,
		PlayerName:  fmt.Sprintf("Player %d", playerID),
		BettingLine: line,
		Direction:   direction,
		Tier:        "GOLD",
		TierUnits:   decimal.NewFromFloat(1.5),
		Result:      models.ResultPending,
	}
}

func TestReconcileRecentSettlesPending(t *testing.T) {
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)

	repo := &stubRepo{}
	over := repo.addBet(pendingBet(101, yesterday, models.DirectionOver, 30.5))
	under := repo.addBet(pendingBet(102, yesterday, models.DirectionUnder, 25.5))

	stats := &stubStats{lines: map[string]map[int64]nbastats.PlayerLine{
		models.DateKey(yesterday): {
			101: {Value: 35, Minutes: 33},
			102: {Value: 31, Minutes: 28},
		},
	}}

	svc := newTestReconciler(repo, stats, now)
	res, err := svc.ReconcileRecent(context.Background(), 0)
	if err != nil {
		t.Fatalf("ReconcileRecent: %v", err)
	}
	if res.Status != StatusSuccess || res.Updated != 2 {
		t.Fatalf("got %+v, want success with 2 updates", res)
	}

	over = repo.betByID(over.ID)
	if over.Result != models.ResultWon || over.ActualValue == nil || *over.ActualValue != 35 {
		t.Fatalf("over bet = %s actual %v, want WON 35", over.Result, over.ActualValue)
	}
	under = repo.betByID(under.ID)
	if under.Result != models.ResultLost || under.ActualMinutes == nil || *under.ActualMinutes != 28 {
		t.Fatalf("under bet = %s minutes %v, want LOST 28", under.Result, under.ActualMinutes)
	}
	if len(repo.snapshots) != 1 {
		t.Fatalf("snapshots = %d, want 1", len(repo.snapshots))
	}

	// Replay: nothing left to grade, nothing re-fetched.
	fetchesBefore := len(stats.fetches)
	res, err = svc.ReconcileRecent(context.Background(), 0)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if res.Status != StatusNoData || res.Updated != 0 {
		t.Fatalf("replay got %+v, want no_data", res)
	}
	if len(stats.fetches) != fetchesBefore {
		t.Fatalf("replay fetched results again")
	}
}

func TestReconcileLeavesSettledBetsAlone(t *testing.T) {
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)

	repo := &stubRepo{}
	value, minutes := 40.0, 35.0
	settled := pendingBet(101, yesterday, models.DirectionOver, 30.5)
	settled.Result = models.ResultWon
	settled.ActualValue = &value
	settled.ActualMinutes = &minutes
	won := repo.addBet(settled)
	repo.addBet(pendingBet(102, yesterday, models.DirectionOver, 20.5))

	// Contradictory feed data for the already-settled player.
	stats := &stubStats{lines: map[string]map[int64]nbastats.PlayerLine{
		models.DateKey(yesterday): {
			101: {Value: 10, Minutes: 35},
			102: {Value: 25, Minutes: 30},
		},
	}}

	svc := newTestReconciler(repo, stats, now)
	if _, err := svc.ReconcileRecent(context.Background(), 0); err != nil {
		t.Fatalf("ReconcileRecent: %v", err)
	}

	won = repo.betByID(won.ID)
	if won.Result != models.ResultWon || *won.ActualValue != 40 {
		t.Fatalf("settled bet was modified: %s %v", won.Result, won.ActualValue)
	}
}

func TestAbsentPlayerGracePeriod(t *testing.T) {
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	today := models.DateOnly(now)
	twoDaysAgo := today.AddDate(0, 0, -2)

	repo := &stubRepo{}
	fresh := repo.addBet(pendingBet(201, today, models.DirectionOver, 30.5))
	stale := repo.addBet(pendingBet(202, twoDaysAgo, models.DirectionOver, 30.5))

	// Both dates fetch fine but neither player appears in the results.
	stats := &stubStats{lines: map[string]map[int64]nbastats.PlayerLine{}}

	svc := newTestReconciler(repo, stats, now)
	res, err := svc.ReconcileRecent(context.Background(), 0)
	if err != nil {
		t.Fatalf("ReconcileRecent: %v", err)
	}
	if res.Status != StatusSuccess || res.Updated != 1 {
		t.Fatalf("got %+v, want success with 1 update", res)
	}

	fresh = repo.betByID(fresh.ID)
	if fresh.Result != models.ResultPending {
		t.Fatalf("same-day absence settled to %s, want PENDING", fresh.Result)
	}
	stale = repo.betByID(stale.ID)
	if stale.Result != models.ResultVoided {
		t.Fatalf("stale absence = %s, want VOIDED", stale.Result)
	}
	if stale.ActualValue != nil {
		t.Fatalf("DNP void recorded an actual value: %v", *stale.ActualValue)
	}
	if stale.ActualMinutes == nil || *stale.ActualMinutes != 0 {
		t.Fatalf("DNP void minutes = %v, want 0", stale.ActualMinutes)
	}
}

func TestReconcileFetchFailures(t *testing.T) {
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	yesterday := models.DateOnly(now).AddDate(0, 0, -1)
	twoDaysAgo := models.DateOnly(now).AddDate(0, 0, -2)

	repo := &stubRepo{}
	repo.addBet(pendingBet(101, yesterday, models.DirectionOver, 30.5))
	oldBet := repo.addBet(pendingBet(102, twoDaysAgo, models.DirectionOver, 20.5))

	stats := &stubStats{
		lines: map[string]map[int64]nbastats.PlayerLine{
			models.DateKey(twoDaysAgo): {102: {Value: 25, Minutes: 30}},
		},
		errs: map[string]error{
			models.DateKey(yesterday): fmt.Errorf("upstream 500"),
		},
	}

	// One date fails, the other settles: partial success.
	svc := newTestReconciler(repo, stats, now)
	res, err := svc.ReconcileRecent(context.Background(), 0)
	if err != nil {
		t.Fatalf("ReconcileRecent: %v", err)
	}
	if res.Status != StatusSuccess || res.Updated != 1 {
		t.Fatalf("got %+v, want success with 1 update", res)
	}
	if repo.betByID(oldBet.ID).Result != models.ResultWon {
		t.Fatalf("surviving date did not settle")
	}

	// Every attempted date failing is an error, not silence.
	stats.errs[models.DateKey(yesterday)] = fmt.Errorf("upstream 500")
	res, err = svc.ReconcileRecent(context.Background(), 0)
	if err == nil {
		t.Fatalf("expected error when all fetches fail")
	}
	if res.Status != StatusError {
		t.Fatalf("status = %s, want error", res.Status)
	}
}

func TestResetWronglyVoidedAndReplay(t *testing.T) {
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	date := models.DateOnly(now).AddDate(0, 0, -2)

	repo := &stubRepo{}
	zero := 0.0
	wrong := pendingBet(301, date, models.DirectionOver, 30.5)
	wrong.Result = models.ResultVoided
	wrong.ActualMinutes = &zero
	wrongBet := repo.addBet(wrong)

	legitValue, legitMinutes := 3.0, 0.5
	legit := pendingBet(302, date, models.DirectionOver, 30.5)
	legit.Result = models.ResultVoided
	legit.ActualValue = &legitValue
	legit.ActualMinutes = &legitMinutes
	legitBet := repo.addBet(legit)

	// The feed has since backfilled the missing game.
	stats := &stubStats{lines: map[string]map[int64]nbastats.PlayerLine{
		models.DateKey(date): {301: {Value: 36, Minutes: 34}},
	}}

	svc := newTestReconciler(repo, stats, now)
	res, err := svc.ReconcileForDate(context.Background(), date)
	if err != nil {
		t.Fatalf("ReconcileForDate: %v", err)
	}
	if res.Status != StatusSuccess || res.Reset != 1 || res.Updated != 1 {
		t.Fatalf("got %+v, want success reset=1 updated=1", res)
	}

	wrongBet = repo.betByID(wrongBet.ID)
	if wrongBet.Result != models.ResultWon || wrongBet.ActualValue == nil || *wrongBet.ActualValue != 36 {
		t.Fatalf("backfilled bet = %s %v, want WON 36", wrongBet.Result, wrongBet.ActualValue)
	}
	legitBet = repo.betByID(legitBet.ID)
	if legitBet.Result != models.ResultVoided || *legitBet.ActualValue != 3 {
		t.Fatalf("legitimate void was disturbed: %s %v", legitBet.Result, legitBet.ActualValue)
	}
}

func TestReconcileForDateNoPending(t *testing.T) {
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	date := models.DateOnly(now).AddDate(0, 0, -1)

	repo := &stubRepo{}
	stats := &stubStats{}
	svc := newTestReconciler(repo, stats, now)

	res, err := svc.ReconcileForDate(context.Background(), date)
	if err != nil {
		t.Fatalf("ReconcileForDate: %v", err)
	}
	if res.Status != StatusNoData {
		t.Fatalf("status = %s, want no_data", res.Status)
	}
	if len(stats.fetches) != 0 {
		t.Fatalf("fetched results with nothing pending")
	}
}
