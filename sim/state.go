package sim

import "gridblitz/models"

// Quarter lengths in seconds.
const (
	quarterSeconds  = 900
	overtimeSeconds = 600
)

// GameState is the engine's mutable view of a game in progress. The engine
// owns it exclusively; resolvers read it and return a PlayResult, and only
// the engine applies results back.
type GameState struct {
	HomeScore    int
	AwayScore    int
	Quarter      int // 1..4, 5+ = overtime periods
	Clock        int // seconds remaining in the current quarter
	Possession   models.Side
	Down         int
	YardsToGo    int
	BallPosition int // 0..100, measured from the possessing team's own goal
	HomeTimeouts int
	AwayTimeouts int

	IsClockRunning  bool
	TwoMinuteFired  map[int]bool // keyed by quarter (2 and 4)
	IsHalftime      bool
	AwaitingKickoff bool
	PATAttempt      bool
	IsGameOver      bool

	// Overtime bookkeeping.
	HomePossessedOT       bool
	AwayPossessedOT       bool
	FirstPossessionResult models.ScoringKind // zero value until the first OT possession ends

	Momentum float64 // -100..100, positive = home
}

// NewGameState returns the opening state: Q1, full clock, home team kicking
// off (receiver decided by the engine's coin toss before the first snap).
func NewGameState() *GameState {
	return &GameState{
		Quarter:         1,
		Clock:           quarterSeconds,
		Possession:      models.SideHome,
		Down:            1,
		YardsToGo:       10,
		BallPosition:    25,
		HomeTimeouts:    3,
		AwayTimeouts:    3,
		TwoMinuteFired:  make(map[int]bool),
		AwaitingKickoff: true,
	}
}

// IsOvertime reports whether play is past regulation.
func (s *GameState) IsOvertime() bool {
	return s.Quarter > 4
}

// scoreDiffFor returns the margin from the given side's perspective.
func (s *GameState) scoreDiffFor(side models.Side) int {
	if side == models.SideHome {
		return s.HomeScore - s.AwayScore
	}
	return s.AwayScore - s.HomeScore
}

// secondsLeftInHalf counts down to halftime or to the end of regulation.
func (s *GameState) secondsLeftInHalf() int {
	switch s.Quarter {
	case 1:
		return s.Clock + quarterSeconds
	case 3:
		return s.Clock + quarterSeconds
	default:
		return s.Clock
	}
}

func (s *GameState) offenseTimeouts() int {
	if s.Possession == models.SideHome {
		return s.HomeTimeouts
	}
	return s.AwayTimeouts
}

func (s *GameState) defenseTimeouts() int {
	if s.Possession == models.SideHome {
		return s.AwayTimeouts
	}
	return s.HomeTimeouts
}

// addPoints puts points on the board for a side.
func (s *GameState) addPoints(side models.Side, points int) {
	if side == models.SideHome {
		s.HomeScore += points
	} else {
		s.AwayScore += points
	}
}

// flipPossession hands the ball to the other team at the mirrored field
// position with a fresh set of downs.
func (s *GameState) flipPossession(newBallPosition int) {
	s.Possession = s.Possession.Opponent()
	s.BallPosition = clampField(newBallPosition)
	s.Down = 1
	s.YardsToGo = 10
	if s.BallPosition > 90 {
		s.YardsToGo = 100 - s.BallPosition
	}
}

// Snapshot freezes the state into the persisted event form.
func (s *GameState) Snapshot() models.GameSnapshot {
	return models.GameSnapshot{
		HomeScore:      s.HomeScore,
		AwayScore:      s.AwayScore,
		Quarter:        s.Quarter,
		Clock:          s.Clock,
		Possession:     s.Possession,
		Down:           s.Down,
		YardsToGo:      s.YardsToGo,
		BallPosition:   s.BallPosition,
		HomeTimeouts:   s.HomeTimeouts,
		AwayTimeouts:   s.AwayTimeouts,
		IsClockRunning: s.IsClockRunning,
		Momentum:       s.Momentum,
	}
}

func clampField(pos int) int {
	if pos < 0 {
		return 0
	}
	if pos > 100 {
		return 100
	}
	return pos
}
