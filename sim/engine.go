package sim

import (
	"fmt"

	"gridblitz/models"
)

// maxPlays is a hard ceiling on the event count; the loop force-ends a game
// that somehow reaches it.
const maxPlays = 250

// GameConfig is everything Simulate needs. Identical seed pairs reproduce
// the event sequence byte-exactly.
type GameConfig struct {
	ServerSeed string
	ClientSeed string
	Home       *models.Team
	Away       *models.Team
	HomeRoster *models.Roster
	AwayRoster *models.Roster
	GameType   models.GameType
}

// SimulatedGame is the complete output of one simulation run.
type SimulatedGame struct {
	Events         []models.GameEvent
	HomeScore      int
	AwayScore      int
	TotalPlays     int
	ServerSeed     string
	ServerSeedHash string
	ClientSeed     string
	Nonce          uint64
	MVP            *models.PlayerRef
	BoxScore       *models.BoxScore
	DurationMS     int64
	IsTie          bool
}

// Display pacing minimums in milliseconds, by how dramatic the play was.
const (
	paceRoutine   = 1200
	paceSack      = 1800
	paceBigPlay   = 2000
	paceScoring   = 2500
	paceTurnover  = 3000
	paceTouchdown = 3500
)

type engine struct {
	cfg       GameConfig
	ctx       *MatchContext
	rng       *RNG
	state     *GameState
	stats     *statsCollector
	momentum  *MomentumTracker
	narrative *NarrativeTracker
	events    []models.GameEvent
	prevTS    int64

	openingReceiver   models.Side
	quarterEndPending bool
}

// Simulate runs a full game from kickoff through the final whistle and
// returns the ordered event log plus aggregates.
func Simulate(cfg GameConfig) (*SimulatedGame, error) {
	if cfg.Home == nil || cfg.Away == nil || cfg.HomeRoster == nil || cfg.AwayRoster == nil {
		return nil, fmt.Errorf("simulate: both teams and rosters are required")
	}
	if cfg.ServerSeed == "" || cfg.ClientSeed == "" {
		return nil, fmt.Errorf("simulate: both seeds are required")
	}

	e := &engine{
		cfg:       cfg,
		ctx:       &MatchContext{Home: cfg.Home, Away: cfg.Away, HomeRoster: cfg.HomeRoster, AwayRoster: cfg.AwayRoster},
		rng:       NewRNG(cfg.ServerSeed, cfg.ClientSeed, 0),
		state:     NewGameState(),
		stats:     newStatsCollector(),
		momentum:  NewMomentumTracker(),
		narrative: NewNarrativeTracker(),
	}

	// Opening coin toss: the winner receives.
	if e.rng.Probability(0.5) {
		e.openingReceiver = models.SideHome
	} else {
		e.openingReceiver = models.SideAway
	}
	e.state.Possession = e.openingReceiver.Opponent() // kicking team snaps the opening kickoff

	for !e.state.IsGameOver && len(e.events) < maxPlays {
		e.step()
	}
	e.state.IsGameOver = true
	e.stats.closeDrive("end_of_game")

	winner := models.SideHome
	if e.state.AwayScore > e.state.HomeScore {
		winner = models.SideAway
	}
	box := e.stats.boxScore(winner)

	return &SimulatedGame{
		Events:         e.events,
		HomeScore:      e.state.HomeScore,
		AwayScore:      e.state.AwayScore,
		TotalPlays:     len(e.events),
		ServerSeed:     cfg.ServerSeed,
		ServerSeedHash: HashSeed(cfg.ServerSeed),
		ClientSeed:     cfg.ClientSeed,
		Nonce:          e.rng.Nonce(),
		MVP:            box.MVP,
		BoxScore:       box,
		DurationMS:     e.prevTS,
		IsTie:          e.state.HomeScore == e.state.AwayScore,
	}, nil
}

func (e *engine) step() {
	state := e.state
	offense := e.ctx.team(state.Possession)

	call := selectPlayCall(state, offense, e.rng)
	mod := e.momentum.ModifierFor(state.Possession)
	result := ResolvePlay(state, e.ctx, call, e.rng, mod)

	if isScrimmage(result.Type) {
		maybePenalty(result, state, e.rng)
	}

	possBefore := state.Possession
	e.apply(result)
	e.advanceClock(result)
	e.defensiveTimeout()
	e.checkOvertimeEnd()
	e.emit(result, possBefore)
}

func isScrimmage(t models.PlayType) bool {
	switch t {
	case models.PlayRun, models.PlayPassComplete, models.PlayPassIncomplete,
		models.PlaySack, models.PlayScramble:
		return true
	}
	return false
}

// apply mutates the game state from a resolved play.
func (e *engine) apply(result *models.PlayResult) {
	state := e.state

	switch result.Type {
	case models.PlayTouchback:
		state.AwaitingKickoff = false
		state.IsHalftime = false
		state.flipPossession(30)
		e.stats.beginDrive(state.Possession, state.Quarter)

	case models.PlayKickoff:
		state.AwaitingKickoff = false
		state.IsHalftime = false
		state.flipPossession(result.YardsGained)
		e.stats.beginDrive(state.Possession, state.Quarter)

	case models.PlayPunt:
		e.stats.closeDrive("punt")
		e.markPossessed(state.Possession, "")
		landing := state.BallPosition + result.KickDistance
		if landing >= 100 {
			state.flipPossession(20)
		} else {
			state.flipPossession(100 - landing + result.YardsGained)
		}
		e.stats.beginDrive(state.Possession, state.Quarter)

	case models.PlayFieldGoal:
		if result.KickGood {
			e.scorePoints(result, state.Possession)
			e.stats.closeDrive("field_goal")
			e.markPossessed(state.Possession, "field_goal")
			state.AwaitingKickoff = true
		} else {
			e.stats.closeDrive("missed_fg")
			e.markPossessed(state.Possession, "")
			spot := state.BallPosition - 7
			if spot < 20 {
				spot = 20 // short misses come out to the 20
			}
			state.flipPossession(100 - spot)
			e.stats.beginDrive(state.Possession, state.Quarter)
		}

	case models.PlayExtraPoint, models.PlayTwoPoint:
		if result.Scoring != nil {
			e.scorePoints(result, state.Possession)
		}
		state.PATAttempt = false
		state.AwaitingKickoff = true
		if e.quarterEndPending {
			e.quarterEndPending = false
			e.endQuarter()
		}

	default:
		e.applyScrimmage(result)
	}
}

func (e *engine) applyScrimmage(result *models.PlayResult) {
	state := e.state

	// An accepted flag wipes the play: enforce the yardage, replay the down.
	if p := result.Penalty; p != nil && !p.Declined && !p.Offsetting {
		enforcePenalty(state, p)
		e.stats.extendDrive(0)
		return
	}

	if result.Turnover != nil {
		e.applyTurnover(result)
		return
	}

	state.BallPosition += result.YardsGained
	e.stats.extendDrive(result.YardsGained)

	switch {
	case state.BallPosition >= 100:
		state.BallPosition = 100
		result.IsTouchdown = true
		result.Scoring = &models.Scoring{Kind: models.ScoreTouchdown, Team: state.Possession, Points: 6}
		e.scorePoints(result, state.Possession)
		e.stats.closeDrive("touchdown")
		e.markPossessed(state.Possession, "touchdown")
		state.PATAttempt = true

	case state.BallPosition <= 0:
		// Tackled in his own end zone.
		state.BallPosition = 0
		result.IsSafety = true
		defense := state.Possession.Opponent()
		result.Scoring = &models.Scoring{Kind: models.ScoreSafety, Team: defense, Points: 2}
		e.scorePoints(result, defense)
		e.stats.closeDrive("safety")
		e.markPossessed(state.Possession, "")
		// The offense free-kicks after conceding a safety.
		state.AwaitingKickoff = true

	case result.YardsGained >= state.YardsToGo:
		result.IsFirstDown = true
		state.Down = 1
		state.YardsToGo = 10
		if state.YardsToGo > 100-state.BallPosition {
			state.YardsToGo = 100 - state.BallPosition
		}

	default:
		state.YardsToGo -= result.YardsGained
		state.Down++
		if state.Down > 4 {
			e.stats.closeDrive("downs")
			e.markPossessed(state.Possession, "")
			state.flipPossession(100 - state.BallPosition)
			e.stats.beginDrive(state.Possession, state.Quarter)
		}
	}
}

func (e *engine) applyTurnover(result *models.PlayResult) {
	state := e.state
	to := result.Turnover

	e.stats.closeDrive("turnover")
	e.markPossessed(state.Possession, "")

	if to.ReturnedForTD {
		result.IsTouchdown = true
		result.Scoring = &models.Scoring{Kind: models.ScoreTouchdown, Team: to.RecoveredBy, Points: 6}
		e.scorePoints(result, to.RecoveredBy)
		e.markPossessed(to.RecoveredBy, "touchdown")
		state.Possession = to.RecoveredBy
		state.PATAttempt = true
		return
	}

	gained := result.YardsGained
	if gained < 0 {
		gained = 0
	}
	spot := state.BallPosition + gained // where the ball changed hands
	newPos := 100 - spot + to.ReturnYards
	if newPos > 99 {
		newPos = 99
	}
	if newPos < 1 {
		newPos = 1 // downed at the goal line, no safety on a recovery
	}
	state.flipPossession(newPos)
	e.stats.beginDrive(state.Possession, state.Quarter)
}

// scorePoints applies a Scoring record to the board and the summary.
func (e *engine) scorePoints(result *models.PlayResult, side models.Side) {
	state := e.state
	state.addPoints(side, result.Scoring.Points)
	e.stats.recordScore(state.Quarter, state.Clock, side, result.Description, state.HomeScore, state.AwayScore)
}

// markPossessed tracks overtime possessions; a side counts as having
// possessed once its possession ends, by score or otherwise.
func (e *engine) markPossessed(side models.Side, scoreKind string) {
	state := e.state
	if !state.IsOvertime() {
		return
	}
	first := !state.HomePossessedOT && !state.AwayPossessedOT
	if side == models.SideHome {
		state.HomePossessedOT = true
	} else {
		state.AwayPossessedOT = true
	}
	if first {
		switch scoreKind {
		case "touchdown":
			state.FirstPossessionResult = models.ScoreTouchdown
		case "field_goal":
			state.FirstPossessionResult = models.ScoreFieldGoal
		}
	}
}

// checkOvertimeEnd ends the game once both sides have possessed in OT and
// the score is no longer level.
func (e *engine) checkOvertimeEnd() {
	state := e.state
	if !state.IsOvertime() || state.IsGameOver {
		return
	}
	if state.HomePossessedOT && state.AwayPossessedOT && state.HomeScore != state.AwayScore {
		state.IsGameOver = true
		state.PATAttempt = false
		e.stats.closeDrive("end_of_game")
	}
}

// advanceClock burns the play's seconds and drives quarter transitions and
// the two-minute warning. The clock is never negative.
func (e *engine) advanceClock(result *models.PlayResult) {
	state := e.state
	if state.IsGameOver {
		return
	}

	state.IsClockRunning = !result.IsClockStopped
	newClock := state.Clock - result.ClockElapsed

	// The warning fires on any play that reaches 2:00, including one that
	// lands exactly on it.
	if (state.Quarter == 2 || state.Quarter == 4) && !state.TwoMinuteFired[state.Quarter] &&
		state.Clock > 120 && newClock <= 120 {
		newClock = 120
		state.TwoMinuteFired[state.Quarter] = true
		state.IsClockRunning = false
	}

	if newClock > 0 {
		state.Clock = newClock
		return
	}
	state.Clock = 0
	state.IsClockRunning = false

	// A touchdown as time expires still gets its try before the period
	// officially turns over.
	if state.PATAttempt {
		e.quarterEndPending = true
		return
	}
	e.endQuarter()
}

func (e *engine) endQuarter() {
	state := e.state
	switch {
	case state.Quarter == 1 || state.Quarter == 3:
		state.Quarter++
		state.Clock = quarterSeconds

	case state.Quarter == 2:
		e.stats.closeDrive("end_of_half")
		state.Quarter = 3
		state.Clock = quarterSeconds
		state.IsHalftime = true
		state.HomeTimeouts = 3
		state.AwayTimeouts = 3
		state.PATAttempt = false
		state.AwaitingKickoff = true
		// The opening receiver kicks off the second half.
		state.Possession = e.openingReceiver

	case state.Quarter == 4:
		if state.HomeScore != state.AwayScore {
			state.IsGameOver = true
			e.stats.closeDrive("end_of_game")
		} else {
			e.startOvertime()
		}

	default: // overtime period expires
		switch {
		case state.HomeScore != state.AwayScore:
			state.IsGameOver = true
			e.stats.closeDrive("end_of_game")
		case e.cfg.GameType == models.GameTypeRegular:
			// Regular season games can end level.
			state.IsGameOver = true
			e.stats.closeDrive("end_of_game")
		default:
			// Playoff football keeps playing fresh periods.
			state.Quarter++
			state.Clock = overtimeSeconds
		}
	}
}

func (e *engine) startOvertime() {
	state := e.state
	e.stats.closeDrive("end_of_half")
	state.Quarter = 5
	state.Clock = overtimeSeconds
	state.HomeTimeouts = 2
	state.AwayTimeouts = 2
	state.PATAttempt = false
	state.AwaitingKickoff = true
	state.HomePossessedOT = false
	state.AwayPossessedOT = false
	state.FirstPossessionResult = ""

	// Fresh coin toss for the extra period.
	receiver := models.SideHome
	if !e.rng.Probability(0.5) {
		receiver = models.SideAway
	}
	state.Possession = receiver.Opponent()
}

// defensiveTimeout models the trailing defense burning timeouts to preserve
// clock late in the fourth quarter.
func (e *engine) defensiveTimeout() {
	state := e.state
	if state.IsGameOver || state.Quarter != 4 || state.Clock > 240 || !state.IsClockRunning {
		return
	}
	defense := state.Possession.Opponent()
	if state.scoreDiffFor(defense) >= 0 {
		return
	}
	if defense == models.SideHome && state.HomeTimeouts > 0 {
		state.HomeTimeouts--
		state.IsClockRunning = false
	} else if defense == models.SideAway && state.AwayTimeouts > 0 {
		state.AwayTimeouts--
		state.IsClockRunning = false
	}
}

// emit assigns the display timestamp, derives narrative and commentary, and
// appends the persisted event record.
func (e *engine) emit(result *models.PlayResult, possBefore models.Side) {
	state := e.state

	e.momentum.Record(result, possBefore, state.HomeScore-state.AwayScore)
	state.Momentum = e.momentum.Value()

	snap := state.Snapshot()
	narr := e.narrative.Observe(snap)
	commentary := buildCommentary(result, narr, e.rng)

	pace := int64(paceRoutine)
	switch {
	case result.IsTouchdown:
		pace = paceTouchdown
	case result.Turnover != nil:
		pace = paceTurnover
	case result.Scoring != nil:
		pace = paceScoring
	case result.IsBigPlay():
		pace = paceBigPlay
	case result.Type == models.PlaySack, result.Penalty != nil, result.Injury != nil:
		pace = paceSack
	}

	// Broadcast time loosely tracks the game clock so a full game plays out
	// over an evening half hour or so.
	delta := int64(result.ClockElapsed) * 600
	if delta < pace {
		delta = pace
	}
	delta += int64(e.rng.IntBetween(0, 1500))
	e.prevTS += delta

	e.stats.recordPlay(result, possBefore)

	e.events = append(e.events, models.GameEvent{
		EventNumber:      len(e.events) + 1,
		EventType:        string(result.Type),
		Play:             *result,
		Commentary:       commentary,
		GameState:        snap,
		Narrative:        narr,
		DisplayTimestamp: e.prevTS,
	})
}
