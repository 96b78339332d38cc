package sim

import "gridblitz/models"

// penaltyRate is the chance any non-special-teams snap draws a flag. At most
// one penalty attaches per play.
const penaltyRate = 0.075

type penaltyDef struct {
	name        string
	yards       int
	againstOff  bool
	autoFirst   bool
	passingOnly bool
}

var penaltyTable = []Weighted[penaltyDef]{
	{Value: penaltyDef{name: "Offensive Holding", yards: 10, againstOff: true}, Weight: 0.30},
	{Value: penaltyDef{name: "False Start", yards: 5, againstOff: true}, Weight: 0.18},
	{Value: penaltyDef{name: "Offensive Pass Interference", yards: 10, againstOff: true, passingOnly: true}, Weight: 0.05},
	{Value: penaltyDef{name: "Defensive Offside", yards: 5}, Weight: 0.15},
	{Value: penaltyDef{name: "Defensive Holding", yards: 5, autoFirst: true}, Weight: 0.10},
	{Value: penaltyDef{name: "Defensive Pass Interference", yards: 15, autoFirst: true, passingOnly: true}, Weight: 0.08},
	{Value: penaltyDef{name: "Unnecessary Roughness", yards: 15, autoFirst: true}, Weight: 0.07},
	{Value: penaltyDef{name: "Roughing the Passer", yards: 15, autoFirst: true, passingOnly: true}, Weight: 0.07},
}

// maybePenalty rolls for a flag on a scrimmage play and attaches the penalty
// record. Declined and offsetting penalties are recorded for the broadcast
// but enforce nothing.
func maybePenalty(result *models.PlayResult, state *GameState, rng *RNG) {
	if !rng.Probability(penaltyRate) {
		return
	}

	passing := result.Type == models.PlayPassComplete || result.Type == models.PlayPassIncomplete ||
		result.Type == models.PlaySack

	def := WeightedChoice(rng, penaltyTable)
	if def.passingOnly && !passing {
		// Re-map to a live-ball flag that fits the play.
		def = penaltyDef{name: "Offensive Holding", yards: 10, againstOff: true}
	}

	against := state.Possession.Opponent()
	if def.againstOff {
		against = state.Possession
	}

	penalty := &models.Penalty{
		Name:               def.name,
		Against:            against,
		Yards:              def.yards,
		AutomaticFirstDown: def.autoFirst && against != state.Possession,
	}

	// A flag against the defense on a good gain usually gets declined; the
	// occasional pair of flags offsets and replays the down.
	switch {
	case rng.Probability(0.05):
		penalty.Offsetting = true
	case against != state.Possession && result.YardsGained > def.yards && result.Turnover == nil:
		penalty.Declined = true
	case against == state.Possession && result.Turnover != nil:
		// Defense keeps the takeaway instead of the yards.
		penalty.Declined = true
	}

	result.Penalty = penalty
}

// enforcePenalty applies an accepted penalty to the state: the ball moves
// against the offender with half-the-distance clamping near either goal
// line, automatic first downs reset the series, and the down is not
// consumed. The caller has already decided the flag is neither declined nor
// offsetting.
func enforcePenalty(state *GameState, p *models.Penalty) {
	yards := p.Yards
	if p.Against == state.Possession {
		// Against the offense: walk it back, half the distance inside the
		// double of the penalty.
		if state.BallPosition < yards*2 {
			yards = state.BallPosition / 2
		}
		state.BallPosition = clampField(state.BallPosition - yards)
		state.YardsToGo += yards
	} else {
		distanceToGoal := 100 - state.BallPosition
		if distanceToGoal < yards*2 {
			yards = distanceToGoal / 2
		}
		state.BallPosition = clampField(state.BallPosition + yards)
		if p.AutomaticFirstDown {
			state.Down = 1
			state.YardsToGo = 10
		} else {
			state.YardsToGo -= yards
		}
	}

	if state.YardsToGo <= 0 {
		state.Down = 1
		state.YardsToGo = 10
	}
	if state.YardsToGo > 100-state.BallPosition {
		state.YardsToGo = 100 - state.BallPosition
	}
}
