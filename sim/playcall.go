package sim

import "gridblitz/models"

// selectPlayCall chooses the offense's call from down, distance, field
// position, clock, score, and the team's play style. Special-teams and
// clock-management calls short-circuit the normal run/pass mix.
func selectPlayCall(state *GameState, offense *models.Team, rng *RNG) models.PlayCall {
	if state.PATAttempt {
		return selectPATCall(state)
	}
	if state.AwaitingKickoff {
		return models.CallKickoff
	}

	diff := state.scoreDiffFor(state.Possession)
	secondsLeft := state.secondsLeftInHalf()

	// Victory formation: leading, under 2 minutes, and kneeling runs it out
	// or forces the defense to burn timeouts it no longer has.
	if state.Quarter >= 4 && diff > 0 && state.Clock <= 120 {
		kneels := state.Down
		if float64(state.Clock) <= float64(4-kneels+1)*42 && state.defenseTimeouts() == 0 {
			return models.CallKneel
		}
	}

	// Spike to stop the clock when trailing with no timeouts late.
	if state.Quarter >= 4 && diff < 0 && state.Clock <= 60 && state.IsClockRunning &&
		state.offenseTimeouts() == 0 && state.Down <= 2 {
		return models.CallSpike
	}

	if state.Down == 4 {
		return selectFourthDownCall(state, diff, secondsLeft, rng)
	}

	// End-of-half desperation: deep shots only.
	if secondsLeft <= 30 && state.BallPosition < 60 && diff <= 0 {
		return models.CallPassDeep
	}

	passBias := basePassBias(offense.PlayStyle)

	// Down and distance adjustments.
	switch {
	case state.YardsToGo >= 8:
		passBias += 0.20
	case state.YardsToGo <= 2:
		passBias -= 0.25
	}
	if state.Down == 3 && state.YardsToGo > 3 {
		passBias += 0.22
	}

	// Score and clock: trailing teams throw, leading teams grind.
	if state.Quarter >= 4 {
		switch {
		case diff < -8:
			passBias += 0.25
		case diff < 0:
			passBias += 0.12
		case diff > 8 && state.Clock < 480:
			passBias -= 0.20
		}
	}
	if state.Quarter >= 4 && diff < 0 && state.Clock <= 120 {
		passBias += 0.30
	}

	if passBias < 0.10 {
		passBias = 0.10
	}
	if passBias > 0.92 {
		passBias = 0.92
	}

	if !rng.Probability(passBias) {
		// Run mix leans inside in short yardage.
		insideWeight := 0.55
		if state.YardsToGo <= 2 {
			insideWeight = 0.78
		}
		return WeightedChoice(rng, []Weighted[models.PlayCall]{
			{Value: models.CallRunInside, Weight: insideWeight},
			{Value: models.CallRunOutside, Weight: 1 - insideWeight},
		})
	}

	return selectPassDepth(state, offense, diff, rng)
}

// basePassBias is the style-driven starting pass probability.
func basePassBias(style models.PlayStyle) float64 {
	switch style {
	case models.StylePassHeavy:
		return 0.62
	case models.StyleRunHeavy:
		return 0.42
	case models.StyleAggressive:
		return 0.58
	case models.StyleConservative:
		return 0.46
	default:
		return 0.52
	}
}

// selectPassDepth weights short/medium/deep and play action by situation.
func selectPassDepth(state *GameState, offense *models.Team, diff int, rng *RNG) models.PlayCall {
	short, medium, deep := 0.48, 0.34, 0.18
	if state.YardsToGo >= 12 {
		short, medium, deep = 0.25, 0.40, 0.35
	} else if state.YardsToGo <= 3 {
		short, medium, deep = 0.62, 0.28, 0.10
	}
	if offense.PlayStyle == models.StyleAggressive {
		deep += 0.08
		short -= 0.08
	}
	if state.Quarter >= 4 && diff < -8 {
		deep += 0.10
		short -= 0.10
	}

	// Play action sells best on early downs with a credible run threat.
	playAction := state.Down <= 2 && state.YardsToGo >= 4 && rng.Probability(0.22)

	depth := WeightedChoice(rng, []Weighted[int]{
		{Value: 0, Weight: short},
		{Value: 1, Weight: medium},
		{Value: 2, Weight: deep},
	})
	if playAction {
		return [3]models.PlayCall{models.CallPlayActionShort, models.CallPlayActionMedium, models.CallPlayActionDeep}[depth]
	}
	return [3]models.PlayCall{models.CallPassShort, models.CallPassMedium, models.CallPassDeep}[depth]
}

// selectFourthDownCall decides between punting, kicking, and going for it.
func selectFourthDownCall(state *GameState, diff, secondsLeft int, rng *RNG) models.PlayCall {
	fgDistance := (100 - state.BallPosition) + 17

	// Desperation: trailing late means the kicking game only matters when a
	// field goal actually helps.
	desperate := state.Quarter >= 4 && diff < 0 && state.Clock <= 300
	if desperate {
		if fgDistance <= 52 && diff >= -3 {
			return models.CallFieldGoal
		}
		if state.BallPosition >= 35 {
			return goForItCall(state)
		}
	}

	if fgDistance <= 45 {
		return models.CallFieldGoal
	}
	if fgDistance <= 55 && (state.YardsToGo > 4 || diff < 0) {
		if rng.Probability(0.65) {
			return models.CallFieldGoal
		}
	}

	// Short yardage in plus territory is worth a gamble now and then.
	if state.YardsToGo <= 2 && state.BallPosition >= 55 && rng.Probability(0.40) {
		return goForItCall(state)
	}

	return models.CallPunt
}

func goForItCall(state *GameState) models.PlayCall {
	if state.YardsToGo <= 2 {
		return models.CallRunInside
	}
	if state.YardsToGo >= 10 {
		return models.CallPassDeep
	}
	return models.CallPassMedium
}

// selectPATCall picks between the extra point and a two-point try. Two-point
// attempts follow the classic chart: chase when it turns a deficit into a
// tie or a one-score game late.
func selectPATCall(state *GameState) models.PlayCall {
	diff := state.scoreDiffFor(state.Possession)
	if state.Quarter >= 4 {
		// Down 2 after the TD: go for the tie. Down 5 or 10: make it one score.
		switch -diff {
		case 2, 5, 10:
			return models.CallTwoPoint
		}
	}
	return models.CallExtraPoint
}
