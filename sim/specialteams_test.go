package sim

import (
	"testing"

	"gridblitz/models"
)

func TestKickoffTouchbackRate(t *testing.T) {
	ctx := testMatchContext()
	rng := NewRNG("kickoff-seed", "client", 0)

	touchbacks := 0
	const trials = 5000
	for i := 0; i < trials; i++ {
		state := NewGameState()
		state.Possession = models.SideHome
		result := resolveKickoff(state, ctx, rng)
		switch result.Type {
		case models.PlayTouchback:
			touchbacks++
		case models.PlayKickoff:
			if result.YardsGained < 10 || result.YardsGained > 50 {
				t.Fatalf("kickoff return of %d yards", result.YardsGained)
			}
		default:
			t.Fatalf("unexpected kickoff result %s", result.Type)
		}
	}
	rate := float64(touchbacks) / trials
	if rate < 0.50 || rate > 0.75 {
		t.Errorf("touchback rate %.3f, want between 50%% and 75%%", rate)
	}
}

func TestPuntShape(t *testing.T) {
	ctx := testMatchContext()
	rng := NewRNG("punt-seed", "client", 0)

	endZone := 0
	for i := 0; i < 2000; i++ {
		state := midfieldState()
		result := resolvePunt(state, ctx, rng)
		if result.KickDistance < 25 || result.KickDistance > 65 {
			t.Fatalf("punt of %d gross yards", result.KickDistance)
		}
		if state.BallPosition+result.KickDistance >= 100 {
			endZone++
			if result.YardsGained != 0 {
				t.Fatal("touchback punt still has return yardage")
			}
		}
		if !result.IsClockStopped {
			t.Fatal("punt did not stop the clock")
		}
	}
	if endZone == 0 {
		t.Error("no punts reached the end zone from midfield in 2000 tries")
	}
}

func TestFieldGoalAccuracyCurve(t *testing.T) {
	// The curve must decrease monotonically with distance.
	prev := 1.0
	for d := 15; d <= 75; d++ {
		acc := fieldGoalAccuracy(d)
		if acc > prev {
			t.Fatalf("accuracy rises from %.3f to %.3f at %d yards", prev, acc, d)
		}
		if acc < 0 || acc > 1 {
			t.Fatalf("accuracy %.3f at %d yards out of [0,1]", acc, d)
		}
		prev = acc
	}

	if acc := fieldGoalAccuracy(25); acc < 0.90 {
		t.Errorf("25-yard accuracy %.3f, chip shots should be near automatic", acc)
	}
	if acc := fieldGoalAccuracy(47); acc < 0.65 || acc > 0.90 {
		t.Errorf("47-yard accuracy %.3f, want between 65%% and 90%%", acc)
	}
	if acc := fieldGoalAccuracy(70); acc != 0 {
		t.Errorf("70-yard accuracy %.3f, want 0", acc)
	}
}

func TestFieldGoalDistanceFromBallPosition(t *testing.T) {
	ctx := testMatchContext()
	rng := NewRNG("fg-seed", "client", 0)

	state := midfieldState()
	state.BallPosition = 75 // opponent 25, a 42-yard try
	result := resolveFieldGoal(state, ctx, rng)
	if result.KickDistance != 42 {
		t.Errorf("kick distance %d from the opponent 25, want 42", result.KickDistance)
	}
	if result.KickGood && result.Scoring == nil {
		t.Error("made field goal carries no scoring record")
	}
	if !result.KickGood && result.Scoring != nil {
		t.Error("missed field goal carries a scoring record")
	}
}

func TestExtraPointRate(t *testing.T) {
	ctx := testMatchContext()
	rng := NewRNG("xp-seed", "client", 0)

	good := 0
	const trials = 5000
	for i := 0; i < trials; i++ {
		state := midfieldState()
		result := resolveExtraPoint(state, ctx, rng)
		if result.ClockElapsed != 0 {
			t.Fatal("extra point consumed clock")
		}
		if result.KickGood {
			good++
			if result.Scoring == nil || result.Scoring.Points != 1 {
				t.Fatalf("made extra point scored %+v", result.Scoring)
			}
		}
	}
	rate := float64(good) / trials
	if rate < 0.88 || rate > 0.98 {
		t.Errorf("extra point rate %.3f, want between 88%% and 98%%", rate)
	}
}

func TestTwoPointRate(t *testing.T) {
	ctx := testMatchContext()
	rng := NewRNG("two-point-seed", "client", 0)

	good := 0
	const trials = 5000
	for i := 0; i < trials; i++ {
		state := midfieldState()
		result := resolveTwoPoint(state, ctx, rng, 0)
		if result.ClockElapsed != 0 {
			t.Fatal("two-point try consumed clock")
		}
		if result.Scoring != nil {
			good++
			if result.Scoring.Points != 2 {
				t.Fatalf("conversion scored %d points", result.Scoring.Points)
			}
		}
	}
	rate := float64(good) / trials
	if rate < 0.35 || rate > 0.60 {
		t.Errorf("two-point rate %.3f, want between 35%% and 60%%", rate)
	}
}
