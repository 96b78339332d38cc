package sim

import (
	"testing"

	"gridblitz/models"
)

func snapAt(quarter, clock, homeScore, awayScore int) models.GameSnapshot {
	return models.GameSnapshot{
		Quarter:      quarter,
		Clock:        clock,
		HomeScore:    homeScore,
		AwayScore:    awayScore,
		Possession:   models.SideHome,
		Down:         1,
		YardsToGo:    10,
		BallPosition: 50,
	}
}

func TestClutchMoment(t *testing.T) {
	n := NewNarrativeTracker()

	if got := n.Observe(snapAt(4, 110, 21, 17)); !got.IsClutchMoment {
		t.Error("one-score game with 1:50 left in the fourth is not clutch")
	}
	if got := n.Observe(snapAt(4, 110, 27, 17)); got.IsClutchMoment {
		t.Error("ten-point game flagged clutch")
	}
	if got := n.Observe(snapAt(3, 110, 21, 17)); got.IsClutchMoment {
		t.Error("third quarter flagged clutch")
	}
	if got := n.Observe(snapAt(4, 121, 21, 17)); got.IsClutchMoment {
		t.Error("clutch fired with more than two minutes left")
	}
	if got := n.Observe(snapAt(4, 120, 25, 17)); !got.IsClutchMoment {
		t.Error("exactly 2:00 and exactly eight points is inside the clutch window")
	}
	if got := n.Observe(snapAt(4, 120, 26, 17)); got.IsClutchMoment {
		t.Error("nine-point game flagged clutch at 2:00")
	}
	if got := n.Observe(snapAt(5, 60, 20, 20)); !got.IsClutchMoment {
		t.Error("tied overtime under two minutes is not clutch")
	}
}

func TestComebackBrewing(t *testing.T) {
	n := NewNarrativeTracker()

	// Home falls behind by 17, then claws back to within a score.
	n.Observe(snapAt(2, 500, 0, 17))
	got := n.Observe(snapAt(3, 700, 14, 17))
	if !got.IsComebackBrewing {
		t.Error("down 17 then within 3 is not a comeback")
	}

	// Without the earlier deficit the same score is just a close game.
	fresh := NewNarrativeTracker()
	if got := fresh.Observe(snapAt(3, 700, 14, 17)); got.IsComebackBrewing {
		t.Error("comeback flagged with no prior deficit")
	}

	// A 13-point hole is short of the threshold.
	shallow := NewNarrativeTracker()
	shallow.Observe(snapAt(2, 500, 0, 13))
	if got := shallow.Observe(snapAt(3, 700, 10, 13)); got.IsComebackBrewing {
		t.Error("comeback flagged from a 13-point deficit")
	}
}

func TestComebackJudgedAgainstPriorHistoryOnly(t *testing.T) {
	n := NewNarrativeTracker()
	// The event that creates the 14-point hole must not itself read as a
	// comeback on a later one-score snapshot within the same call.
	got := n.Observe(snapAt(2, 500, 0, 14))
	if got.IsComebackBrewing {
		t.Error("the deficit-creating event flagged a comeback")
	}
}

func TestBlowoutCapsDrama(t *testing.T) {
	n := NewNarrativeTracker()

	got := n.Observe(snapAt(4, 100, 42, 14))
	if !got.IsBlowout {
		t.Error("28-point game not flagged a blowout")
	}
	if !got.IsDominatingPerformance {
		t.Error("28-point game not flagged dominating")
	}
	if got.DramaLevel > 20 {
		t.Errorf("drama %d in a blowout, capped at 20", got.DramaLevel)
	}

	if got := n.Observe(snapAt(4, 100, 38, 14)); got.IsDominatingPerformance {
		t.Error("24-point game flagged dominating")
	}
}

func TestDramaLevelOrdering(t *testing.T) {
	n := NewNarrativeTracker()

	early := n.Observe(snapAt(1, 800, 7, 7))
	late := n.Observe(snapAt(4, 90, 21, 21))
	if late.DramaLevel <= early.DramaLevel {
		t.Errorf("tied final two minutes drama %d not above first quarter %d",
			late.DramaLevel, early.DramaLevel)
	}
	if late.DramaLevel < 0 || late.DramaLevel > 100 {
		t.Errorf("drama %d out of [0, 100]", late.DramaLevel)
	}
}

func TestTwoMinuteDrillThread(t *testing.T) {
	n := NewNarrativeTracker()

	snap := snapAt(4, 90, 17, 20) // home trails, home has the ball
	got := n.Observe(snap)
	if !hasThread(got, "two_minute_drill") {
		t.Error("trailing offense inside two minutes has no two_minute_drill thread")
	}

	snap = snapAt(4, 90, 20, 17) // home leads with the ball
	if got := n.Observe(snap); hasThread(got, "two_minute_drill") {
		t.Error("leading offense flagged in a two-minute drill")
	}
}

func TestRedZoneThread(t *testing.T) {
	n := NewNarrativeTracker()

	snap := snapAt(2, 500, 7, 7)
	snap.BallPosition = 85
	if got := n.Observe(snap); !hasThread(got, "red_zone") {
		t.Error("ball at the 15 has no red_zone thread")
	}

	snap.BallPosition = 60
	if got := n.Observe(snap); hasThread(got, "red_zone") {
		t.Error("ball at midfield flagged red zone")
	}
}

func hasThread(snap *models.NarrativeSnapshot, thread string) bool {
	for _, th := range snap.ActiveThreads {
		if th == thread {
			return true
		}
	}
	return false
}
