package sim

import (
	"fmt"

	"gridblitz/models"
)

// Kickoff and punt resolution. The kicking team is the current possessor;
// the engine flips possession and sets the new field position from the
// returned result.

const touchbackBaseRate = 0.62

func resolveKickoff(state *GameState, ctx *MatchContext, rng *RNG) *models.PlayResult {
	kicker := ctx.roster(state.Possession).Starter(models.PositionK)
	specials := ctx.team(state.Possession).SpecialRating

	// Stronger legs put more balls through the end zone.
	tbProb := touchbackBaseRate + float64(specials-75)*0.002

	result := &models.PlayResult{
		Call:           models.CallKickoff,
		Kicker:         playerRef(kicker),
		IsClockStopped: true,
		ClockElapsed:   6,
	}
	if rng.Probability(clampProb(tbProb)) {
		result.Type = models.PlayTouchback
		result.Description = "Kickoff sails through the end zone, touchback"
		return result
	}

	returnYards := int(r2(rng.Gaussian(23, 8, 10, 50)))
	result.Type = models.PlayKickoff
	result.YardsGained = returnYards
	result.Description = fmt.Sprintf("Kickoff returned %d yards", returnYards)
	return result
}

func resolvePunt(state *GameState, ctx *MatchContext, rng *RNG) *models.PlayResult {
	punter := ctx.roster(state.Possession).Starter(models.PositionP)

	gross := int(r2(rng.Gaussian(42, 6, 25, 65)))
	returnYards := int(r2(rng.Gaussian(7, 5, 0, 20)))

	result := &models.PlayResult{
		Type:           models.PlayPunt,
		Call:           models.CallPunt,
		Kicker:         playerRef(punter),
		KickDistance:   gross,
		YardsGained:    returnYards, // return yardage for the receiving team
		IsClockStopped: true,
		ClockElapsed:   rng.IntBetween(10, 15),
	}
	if state.BallPosition+gross >= 100 {
		result.YardsGained = 0
		result.Description = fmt.Sprintf("Punt of %d yards into the end zone, touchback", gross)
	} else {
		result.Description = fmt.Sprintf("Punt of %d yards, returned %d", gross, returnYards)
	}
	return result
}

// fieldGoalAccuracy is a piecewise-linear curve, monotonically decreasing in
// distance: automatic inside 20, better than 90% under 30, about 78% at 45,
// under 45% at 55, and zero from 70 out.
func fieldGoalAccuracy(distance int) float64 {
	d := float64(distance)
	switch {
	case d <= 20:
		return 0.97
	case d <= 30:
		return 0.97 - (d-20)/10*0.05
	case d <= 45:
		return 0.92 - (d-30)/15*0.14
	case d <= 55:
		return 0.78 - (d-45)/10*0.34
	case d < 70:
		return 0.44 - (d-55)/15*0.44
	default:
		return 0
	}
}

func resolveFieldGoal(state *GameState, ctx *MatchContext, rng *RNG) *models.PlayResult {
	kicker := ctx.roster(state.Possession).Starter(models.PositionK)
	specials := ctx.team(state.Possession).SpecialRating

	distance := (100 - state.BallPosition) + 17
	accuracy := fieldGoalAccuracy(distance) + float64(specials-75)*0.001
	good := rng.Probability(clampKickProb(accuracy))

	result := &models.PlayResult{
		Type:           models.PlayFieldGoal,
		Call:           models.CallFieldGoal,
		Kicker:         playerRef(kicker),
		KickDistance:   distance,
		KickGood:       good,
		IsClockStopped: true,
		ClockElapsed:   rng.IntBetween(5, 8),
	}
	who := "The kicker"
	if kicker != nil {
		who = kicker.Name
	}
	if good {
		result.Scoring = &models.Scoring{Kind: models.ScoreFieldGoal, Team: state.Possession, Points: 3}
		result.Description = fmt.Sprintf("%s's %d-yard field goal is good", who, distance)
	} else {
		result.Description = fmt.Sprintf("%s's %d-yard field goal is no good", who, distance)
	}
	return result
}

const extraPointBaseRate = 0.94

func resolveExtraPoint(state *GameState, ctx *MatchContext, rng *RNG) *models.PlayResult {
	kicker := ctx.roster(state.Possession).Starter(models.PositionK)
	good := rng.Probability(extraPointBaseRate)

	result := &models.PlayResult{
		Type:           models.PlayExtraPoint,
		Call:           models.CallExtraPoint,
		Kicker:         playerRef(kicker),
		KickGood:       good,
		IsClockStopped: true,
		ClockElapsed:   0, // untimed down
	}
	if good {
		result.Scoring = &models.Scoring{Kind: models.ScoreExtraPoint, Team: state.Possession, Points: 1}
		result.Description = "Extra point is good"
	} else {
		result.Description = "Extra point is no good"
	}
	return result
}

func resolveTwoPoint(state *GameState, ctx *MatchContext, rng *RNG, momentumMod float64) *models.PlayResult {
	offense := ctx.team(state.Possession)
	defense := ctx.team(state.Possession.Opponent())
	qb := ctx.roster(state.Possession).Starter(models.PositionQB)

	prob := 0.475 + ratingEdge(offense.OffenseRating, defense.DefenseRating, 0.002) + momentumMod
	good := rng.Probability(clampProb(prob))

	result := &models.PlayResult{
		Type:           models.PlayTwoPoint,
		Call:           models.CallTwoPoint,
		Passer:         playerRef(qb),
		IsClockStopped: true,
		ClockElapsed:   0, // untimed down
	}
	if good {
		result.Scoring = &models.Scoring{Kind: models.ScoreTwoPoint, Team: state.Possession, Points: 2}
		result.Description = "Two-point conversion is good"
	} else {
		result.Description = "Two-point conversion fails"
	}
	return result
}

// clampKickProb keeps the curve's hard zero for hopeless distances while
// bounding everything else away from certainty.
func clampKickProb(p float64) float64 {
	if p <= 0 {
		return 0
	}
	if p > 0.99 {
		return 0.99
	}
	return p
}
