package sim

import (
	"fmt"

	"gridblitz/models"
)

// MatchContext carries the static participants of one game.
type MatchContext struct {
	Home       *models.Team
	Away       *models.Team
	HomeRoster *models.Roster
	AwayRoster *models.Roster
}

func (c *MatchContext) team(side models.Side) *models.Team {
	if side == models.SideHome {
		return c.Home
	}
	return c.Away
}

func (c *MatchContext) roster(side models.Side) *models.Roster {
	if side == models.SideHome {
		return c.HomeRoster
	}
	return c.AwayRoster
}

// ResolvePlay resolves a single snap. It never mutates state; the engine
// applies the returned result. momentumMod is the capped momentum edge for
// the possessing team, in [-0.03, 0.03].
func ResolvePlay(state *GameState, ctx *MatchContext, call models.PlayCall, rng *RNG, momentumMod float64) *models.PlayResult {
	switch call {
	case models.CallKickoff:
		return resolveKickoff(state, ctx, rng)
	case models.CallPunt:
		return resolvePunt(state, ctx, rng)
	case models.CallFieldGoal:
		return resolveFieldGoal(state, ctx, rng)
	case models.CallExtraPoint:
		return resolveExtraPoint(state, ctx, rng)
	case models.CallTwoPoint:
		return resolveTwoPoint(state, ctx, rng, momentumMod)
	case models.CallKneel:
		return resolveKneel(state, ctx)
	case models.CallSpike:
		return resolveSpike(state, ctx)
	case models.CallRunInside, models.CallRunOutside:
		return resolveRun(state, ctx, call, rng, momentumMod)
	default:
		return resolvePass(state, ctx, call, rng, momentumMod)
	}
}

// ratingEdge converts a rating differential into a small probability shift.
func ratingEdge(offense, defense int, scale float64) float64 {
	return float64(offense-defense) * scale
}

func playerRef(p *models.Player) *models.PlayerRef {
	if p == nil {
		return nil
	}
	return &models.PlayerRef{ID: p.ID, Name: p.Name, Position: p.Position}
}

// pickSkillPlayer draws a ball carrier or target weighted by rating.
func pickSkillPlayer(rng *RNG, candidates []*models.Player) *models.Player {
	if len(candidates) == 0 {
		return nil
	}
	opts := make([]Weighted[*models.Player], 0, len(candidates))
	for _, p := range candidates {
		opts = append(opts, Weighted[*models.Player]{Value: p, Weight: float64(p.Rating)})
	}
	return WeightedChoice(rng, opts)
}

// pickDefender draws a tackler from the named positions.
func pickDefender(rng *RNG, roster *models.Roster, positions ...models.Position) *models.Player {
	var pool []*models.Player
	for _, pos := range positions {
		pool = append(pool, roster.AtPosition(pos)...)
	}
	return pickSkillPlayer(rng, pool)
}

func resolveRun(state *GameState, ctx *MatchContext, call models.PlayCall, rng *RNG, momentumMod float64) *models.PlayResult {
	offense := ctx.team(state.Possession)
	defense := ctx.team(state.Possession.Opponent())
	offRoster := ctx.roster(state.Possession)
	defRoster := ctx.roster(state.Possession.Opponent())

	rusher := pickSkillPlayer(rng, offRoster.AtPosition(models.PositionRB))
	if rusher == nil {
		rusher = offRoster.Starter(models.PositionQB)
	}

	// Line play shifts the mean; momentum gives a whisker more.
	mean := 4.0 + ratingEdge(offense.OffenseRating, defense.DefenseRating, 0.04) + momentumMod*30
	if call == models.CallRunOutside {
		// Outside runs are boom-or-bust.
		mean -= 0.5
	}
	sigma := 4.0
	if call == models.CallRunOutside {
		sigma = 5.5
	}
	maxGain := float64(100 - state.BallPosition)
	yards := int(r2(rng.Gaussian(mean, sigma, -5, maxGain)))

	defender := pickDefender(rng, defRoster, models.PositionDL, models.PositionLB)

	result := &models.PlayResult{
		Type:        models.PlayRun,
		Call:        call,
		YardsGained: yards,
		Rusher:      playerRef(rusher),
		Defender:    playerRef(defender),
	}

	// Fumbles on any run, nudged by a strength mismatch at the point of attack.
	fumbleProb := 0.010
	if defender != nil && rusher != nil && defender.Strength > rusher.Strength {
		fumbleProb += float64(defender.Strength-rusher.Strength) * 0.0006
	}
	if rng.Probability(fumbleProb) {
		attachFumble(result, state, rng)
	}

	finishGroundPlay(result, state, call, rng)
	describeRun(result, rusher, defender)
	maybeInjury(result, rusher, rng)
	return result
}

// r2 truncates toward zero; yardage is whole yards.
func r2(v float64) float64 {
	return float64(int(v))
}

// passDepth maps a call to its depth band: 0 short, 1 medium, 2 deep.
func passDepth(call models.PlayCall) int {
	switch call {
	case models.CallPassMedium, models.CallPlayActionMedium:
		return 1
	case models.CallPassDeep, models.CallPlayActionDeep:
		return 2
	default:
		return 0
	}
}

func isPlayAction(call models.PlayCall) bool {
	switch call {
	case models.CallPlayActionShort, models.CallPlayActionMedium, models.CallPlayActionDeep:
		return true
	}
	return false
}

func resolvePass(state *GameState, ctx *MatchContext, call models.PlayCall, rng *RNG, momentumMod float64) *models.PlayResult {
	offense := ctx.team(state.Possession)
	defense := ctx.team(state.Possession.Opponent())
	offRoster := ctx.roster(state.Possession)
	defRoster := ctx.roster(state.Possession.Opponent())

	qb := offRoster.Starter(models.PositionQB)
	depth := passDepth(call)

	// Pressure first: sack probability climbs with depth and the rush. A
	// mobile quarterback sometimes slips the rush and takes off instead.
	sackProb := [3]float64{0.040, 0.060, 0.090}[depth]
	sackProb += ratingEdge(defense.DefenseRating, offense.OffenseRating, 0.0015)
	if rng.Probability(clampProb(sackProb)) {
		escapeProb := 0.22
		if qb != nil {
			escapeProb += float64(qb.Speed-80) * 0.006
		}
		if rng.Probability(clampProb(escapeProb)) {
			return resolveScramble(state, ctx, call, qb, rng)
		}
		return resolveSack(state, ctx, call, rng)
	}

	var targets []*models.Player
	targets = append(targets, offRoster.AtPosition(models.PositionWR)...)
	targets = append(targets, offRoster.AtPosition(models.PositionTE)...)
	if depth == 0 {
		targets = append(targets, offRoster.AtPosition(models.PositionRB)...)
	}
	receiver := pickSkillPlayer(rng, targets)
	defender := pickDefender(rng, defRoster, models.PositionCB, models.PositionS, models.PositionLB)

	// Completion probability decreases with depth; QB awareness and the
	// receiver matchup swing it, play action buys a beat of separation.
	completeProb := [3]float64{0.67, 0.57, 0.41}[depth]
	if qb != nil {
		completeProb += float64(qb.Awareness-80) * 0.004
	}
	if receiver != nil {
		completeProb += float64(receiver.Rating-80) * 0.003
	}
	if defender != nil {
		completeProb -= float64(defender.Rating-80) * 0.004
	}
	if isPlayAction(call) {
		completeProb += 0.04
	}
	completeProb += momentumMod

	complete := rng.Probability(clampProb(completeProb))

	// Interceptions ride on QB awareness against the coverage.
	intProb := [3]float64{0.018, 0.026, 0.038}[depth]
	if qb != nil {
		intProb -= float64(qb.Awareness-80) * 0.0008
	}
	if defender != nil {
		intProb += float64(defender.Awareness-80) * 0.0008
	}
	if !complete {
		intProb *= 1.4
	}

	if rng.Probability(clampProb(intProb)) {
		return resolveInterception(state, ctx, call, qb, defender, rng)
	}

	result := &models.PlayResult{
		Call:     call,
		Passer:   playerRef(qb),
		Receiver: playerRef(receiver),
		Defender: playerRef(defender),
	}

	if !complete {
		result.Type = models.PlayPassIncomplete
		result.YardsGained = 0
		result.IsClockStopped = true
		result.ClockElapsed = rng.IntBetween(5, 8)
		describePass(result)
		return result
	}

	result.Type = models.PlayPassComplete
	airMean := [3]float64{5.5, 12.5, 27.0}[depth]
	airSigma := [3]float64{3.0, 4.5, 8.0}[depth]
	maxGain := float64(100 - state.BallPosition)
	yards := int(r2(rng.Gaussian(airMean, airSigma, 0, maxGain)))
	// Yards after catch on the short stuff.
	if depth == 0 && receiver != nil {
		yac := int(r2(rng.Gaussian(3.0+float64(receiver.Speed-80)*0.05, 3.0, 0, maxGain-float64(yards))))
		yards += yac
	}
	if float64(yards) > maxGain {
		yards = int(maxGain)
	}
	result.YardsGained = yards

	// Completed passes can still hit the turf at the end of the run.
	fumbleProb := 0.008
	if defender != nil && receiver != nil && defender.Strength > receiver.Strength {
		fumbleProb += float64(defender.Strength-receiver.Strength) * 0.0005
	}
	if rng.Probability(fumbleProb) {
		attachFumble(result, state, rng)
	}

	finishGroundPlay(result, state, call, rng)
	describePass(result)
	maybeInjury(result, receiver, rng)
	return result
}

func resolveSack(state *GameState, ctx *MatchContext, call models.PlayCall, rng *RNG) *models.PlayResult {
	offRoster := ctx.roster(state.Possession)
	defRoster := ctx.roster(state.Possession.Opponent())
	qb := offRoster.Starter(models.PositionQB)
	rusher := pickDefender(rng, defRoster, models.PositionDL, models.PositionLB)

	loss := -int(r2(rng.Gaussian(6.5, 2.0, 3, 12)))
	if state.BallPosition+loss < 0 {
		loss = -state.BallPosition // dragged down at the goal line; safety applied by the engine
	}

	result := &models.PlayResult{
		Type:         models.PlaySack,
		Call:         call,
		YardsGained:  loss,
		Passer:       playerRef(qb),
		Defender:     playerRef(rusher),
		ClockElapsed: rng.IntBetween(30, 42),
	}
	if qb != nil && rusher != nil {
		result.Description = fmt.Sprintf("%s sacked by %s for a loss of %d", qb.Name, rusher.Name, -loss)
	} else {
		result.Description = fmt.Sprintf("Quarterback sacked for a loss of %d", -loss)
	}
	maybeInjury(result, qb, rng)
	return result
}

func resolveScramble(state *GameState, ctx *MatchContext, call models.PlayCall, qb *models.Player, rng *RNG) *models.PlayResult {
	defRoster := ctx.roster(state.Possession.Opponent())
	defender := pickDefender(rng, defRoster, models.PositionLB, models.PositionCB)

	speed := 80
	if qb != nil {
		speed = qb.Speed
	}
	maxGain := float64(100 - state.BallPosition)
	yards := int(r2(rng.Gaussian(5.0+float64(speed-80)*0.08, 3.5, -2, maxGain)))

	result := &models.PlayResult{
		Type:        models.PlayScramble,
		Call:        call,
		YardsGained: yards,
		Rusher:      playerRef(qb),
		Defender:    playerRef(defender),
	}
	finishGroundPlay(result, state, call, rng)

	who := "The quarterback"
	if qb != nil {
		who = qb.Name
	}
	if yards < 0 {
		result.Description = fmt.Sprintf("%s escapes the pocket but is run down for a loss of %d", who, -yards)
	} else {
		result.Description = fmt.Sprintf("%s escapes the pocket and scrambles for %d", who, yards)
	}
	maybeInjury(result, qb, rng)
	return result
}

func resolveInterception(state *GameState, ctx *MatchContext, call models.PlayCall, qb *models.Player, defender *models.Player, rng *RNG) *models.PlayResult {
	returnYards := int(r2(rng.Gaussian(8, 8, 0, 40)))
	result := &models.PlayResult{
		Type:     models.PlayPassIncomplete,
		Call:     call,
		Passer:   playerRef(qb),
		Defender: playerRef(defender),
		Turnover: &models.Turnover{
			Kind:        models.TurnoverInterception,
			RecoveredBy: state.Possession.Opponent(),
			ReturnYards: returnYards,
		},
		IsClockStopped: true,
		ClockElapsed:   rng.IntBetween(8, 14),
	}

	// Pick-six when the return carries past the original line of scrimmage
	// all the way home.
	interceptSpot := 100 - state.BallPosition // from defense's perspective, roughly the line of scrimmage
	if returnYards >= interceptSpot && interceptSpot <= 40 && rng.Probability(0.5) {
		result.Turnover.ReturnedForTD = true
	}

	name := "the defense"
	if defender != nil {
		name = defender.Name
	}
	result.Description = fmt.Sprintf("Intercepted by %s", name)
	if result.Turnover.ReturnedForTD {
		result.Description += ", returned for a touchdown"
	} else if returnYards > 0 {
		result.Description += fmt.Sprintf(", returned %d yards", returnYards)
	}
	return result
}

// attachFumble converts a live-ball play into a turnover roughly half the
// time (the offense recovers its own fumble otherwise).
func attachFumble(result *models.PlayResult, state *GameState, rng *RNG) {
	if !rng.Probability(0.5) {
		return // offense falls on it; play stands as resolved
	}
	returnYards := int(r2(rng.Gaussian(4, 5, 0, 30)))
	result.Turnover = &models.Turnover{
		Kind:        models.TurnoverFumble,
		RecoveredBy: state.Possession.Opponent(),
		ReturnYards: returnYards,
	}
	result.IsClockStopped = true
}

// maybeInjury rolls for the ball carrier needing the trainers after contact.
// Injury-prone players carry a markedly higher risk. An injury stops the
// clock while the player is helped off.
func maybeInjury(result *models.PlayResult, carrier *models.Player, rng *RNG) {
	if carrier == nil || result.Turnover != nil {
		return
	}
	prob := 0.004
	if carrier.InjuryProne {
		prob = 0.010
	}
	if !rng.Probability(prob) {
		return
	}
	severity := WeightedChoice(rng, []Weighted[string]{
		{Value: "questionable", Weight: 5},
		{Value: "doubtful", Weight: 3},
		{Value: "out", Weight: 2},
	})
	result.Injury = &models.Injury{
		Player:   models.PlayerRef{ID: carrier.ID, Name: carrier.Name, Position: carrier.Position},
		Severity: severity,
	}
	result.IsClockStopped = true
	result.Description += fmt.Sprintf(". %s is down and heads to the sideline", carrier.Name)
}

// finishGroundPlay sets clock usage for plays that end in bounds or out.
func finishGroundPlay(result *models.PlayResult, state *GameState, call models.PlayCall, rng *RNG) {
	if result.Turnover != nil {
		result.ClockElapsed = rng.IntBetween(8, 14)
		return
	}

	outOfBounds := false
	if call == models.CallRunOutside || result.Type == models.PlayPassComplete {
		outOfBounds = rng.Probability(0.18)
	}

	hurryUp := state.Quarter >= 4 && state.Clock <= 240 && state.scoreDiffFor(state.Possession) < 0
	if outOfBounds {
		result.IsClockStopped = true
		result.ClockElapsed = rng.IntBetween(6, 10)
	} else if hurryUp {
		result.ClockElapsed = rng.IntBetween(12, 20)
	} else {
		result.ClockElapsed = rng.IntBetween(28, 42)
	}
}

func resolveKneel(state *GameState, ctx *MatchContext) *models.PlayResult {
	qb := ctx.roster(state.Possession).Starter(models.PositionQB)
	result := &models.PlayResult{
		Type:         models.PlayKneel,
		Call:         models.CallKneel,
		YardsGained:  -1,
		Rusher:       playerRef(qb),
		ClockElapsed: 42,
		Description:  "Kneel down to run out the clock",
	}
	return result
}

func resolveSpike(state *GameState, ctx *MatchContext) *models.PlayResult {
	qb := ctx.roster(state.Possession).Starter(models.PositionQB)
	return &models.PlayResult{
		Type:           models.PlaySpike,
		Call:           models.CallSpike,
		Passer:         playerRef(qb),
		IsClockStopped: true,
		ClockElapsed:   2,
		Description:    "Spike to stop the clock",
	}
}

func clampProb(p float64) float64 {
	if p < 0.01 {
		return 0.01
	}
	if p > 0.99 {
		return 0.99
	}
	return p
}

func describeRun(result *models.PlayResult, rusher, defender *models.Player) {
	dir := "up the middle"
	if result.Call == models.CallRunOutside {
		dir = "around the edge"
	}
	who := "The back"
	if rusher != nil {
		who = rusher.Name
	}
	switch {
	case result.Turnover != nil:
		result.Description = fmt.Sprintf("%s fumbles %s, recovered by the defense", who, dir)
	case result.YardsGained < 0:
		result.Description = fmt.Sprintf("%s stuffed %s for a loss of %d", who, dir, -result.YardsGained)
	default:
		result.Description = fmt.Sprintf("%s rushes %s for %d", who, dir, result.YardsGained)
		if defender != nil && result.YardsGained < 20 {
			result.Description += fmt.Sprintf(", tackled by %s", defender.Name)
		}
	}
}

func describePass(result *models.PlayResult) {
	passer := "The quarterback"
	if result.Passer != nil {
		passer = result.Passer.Name
	}
	target := "his receiver"
	if result.Receiver != nil {
		target = result.Receiver.Name
	}
	switch {
	case result.Turnover != nil && result.Turnover.Kind == models.TurnoverFumble:
		result.Description = fmt.Sprintf("%s completes to %s for %d, but the ball comes loose and the defense recovers",
			passer, target, result.YardsGained)
	case result.Type == models.PlayPassIncomplete:
		result.Description = fmt.Sprintf("%s's pass intended for %s falls incomplete", passer, target)
	default:
		result.Description = fmt.Sprintf("%s completes to %s for %d", passer, target, result.YardsGained)
	}
}
