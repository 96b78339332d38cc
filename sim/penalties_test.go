package sim

import (
	"testing"

	"gridblitz/models"
)

func TestPenaltyRate(t *testing.T) {
	ctx := testMatchContext()
	rng := NewRNG("penalty-rate-seed", "client", 0)

	flagged := 0
	const trials = 8000
	for i := 0; i < trials; i++ {
		state := midfieldState()
		result := resolveRun(state, ctx, models.CallRunInside, rng, 0)
		maybePenalty(result, state, rng)
		if result.Penalty != nil {
			flagged++
		}
	}
	rate := float64(flagged) / trials
	if rate < 0.05 || rate > 0.12 {
		t.Errorf("penalty rate %.3f, want between 5%% and 12%%", rate)
	}
}

func TestPenaltyPassingFlagsNeverAttachToRuns(t *testing.T) {
	ctx := testMatchContext()
	rng := NewRNG("penalty-remap-seed", "client", 0)

	for i := 0; i < 8000; i++ {
		state := midfieldState()
		result := resolveRun(state, ctx, models.CallRunInside, rng, 0)
		maybePenalty(result, state, rng)
		p := result.Penalty
		if p == nil {
			continue
		}
		switch p.Name {
		case "Defensive Pass Interference", "Roughing the Passer", "Offensive Pass Interference":
			t.Fatalf("passing penalty %q flagged on a run", p.Name)
		}
	}
}

func TestPenaltyDeclinedWhenGainExceedsYards(t *testing.T) {
	ctx := testMatchContext()
	rng := NewRNG("penalty-decline-seed", "client", 0)

	sawDefensiveFlagOnGain := false
	for i := 0; i < 20000 && !sawDefensiveFlagOnGain; i++ {
		state := midfieldState()
		result := resolvePass(state, ctx, models.CallPassDeep, rng, 0)
		maybePenalty(result, state, rng)
		p := result.Penalty
		if p == nil || p.Offsetting || p.Against == state.Possession {
			continue
		}
		if result.Turnover == nil && result.YardsGained > p.Yards {
			sawDefensiveFlagOnGain = true
			if !p.Declined {
				t.Fatalf("defense flagged %d yards on a %d-yard gain, flag not declined",
					p.Yards, result.YardsGained)
			}
		}
	}
	if !sawDefensiveFlagOnGain {
		t.Skip("no defensive flag on a long gain in 20000 snaps")
	}
}

func TestEnforcePenaltyAgainstOffense(t *testing.T) {
	state := midfieldState()
	state.Down = 2
	state.YardsToGo = 7

	enforcePenalty(state, &models.Penalty{Name: "Offensive Holding", Against: models.SideHome, Yards: 10})

	if state.BallPosition != 40 {
		t.Errorf("ball at %d after a 10-yard walk-off from the 50, want 40", state.BallPosition)
	}
	if state.Down != 2 {
		t.Errorf("down advanced to %d, penalties replay the down", state.Down)
	}
	if state.YardsToGo != 17 {
		t.Errorf("yards to go %d, want 17", state.YardsToGo)
	}
}

func TestEnforcePenaltyAutomaticFirstDown(t *testing.T) {
	state := midfieldState()
	state.Down = 3
	state.YardsToGo = 9

	enforcePenalty(state, &models.Penalty{
		Name:               "Defensive Pass Interference",
		Against:            models.SideAway,
		Yards:              15,
		AutomaticFirstDown: true,
	})

	if state.BallPosition != 65 {
		t.Errorf("ball at %d, want 65", state.BallPosition)
	}
	if state.Down != 1 || state.YardsToGo != 10 {
		t.Errorf("series %d and %d after automatic first down, want 1st and 10",
			state.Down, state.YardsToGo)
	}
}

func TestEnforcePenaltyHalfTheDistance(t *testing.T) {
	// Offense backed up to its own 4: a 10-yard flag walks off only 2.
	state := midfieldState()
	state.BallPosition = 4
	enforcePenalty(state, &models.Penalty{Name: "Offensive Holding", Against: models.SideHome, Yards: 10})
	if state.BallPosition != 2 {
		t.Errorf("ball at %d, want half the distance to the 2", state.BallPosition)
	}

	// Defense flagged at its own 6: 15 yards becomes 3.
	state = midfieldState()
	state.BallPosition = 94
	enforcePenalty(state, &models.Penalty{Name: "Unnecessary Roughness", Against: models.SideAway, Yards: 15, AutomaticFirstDown: true})
	if state.BallPosition != 97 {
		t.Errorf("ball at %d, want 97", state.BallPosition)
	}
	if state.YardsToGo != 3 {
		t.Errorf("yards to go %d at the 97, want goal-to-go distance 3", state.YardsToGo)
	}
}
