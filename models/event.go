package models

// Side identifies one of the two sidelines.
type Side string

const (
	SideHome Side = "home"
	SideAway Side = "away"
)

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == SideHome {
		return SideAway
	}
	return SideHome
}

// PlayType tags the resolved outcome of a snap.
type PlayType string

const (
	PlayRun            PlayType = "run"
	PlayPassComplete   PlayType = "pass_complete"
	PlayPassIncomplete PlayType = "pass_incomplete"
	PlaySack           PlayType = "sack"
	PlayScramble       PlayType = "scramble"
	PlayKickoff        PlayType = "kickoff"
	PlayPunt           PlayType = "punt"
	PlayFieldGoal      PlayType = "field_goal"
	PlayExtraPoint     PlayType = "extra_point"
	PlayTwoPoint       PlayType = "two_point"
	PlayTouchback      PlayType = "touchback"
	PlayKneel          PlayType = "kneel"
	PlaySpike          PlayType = "spike"
)

// PlayCall is the offense's chosen call before the snap.
type PlayCall string

const (
	CallRunInside        PlayCall = "run_inside"
	CallRunOutside       PlayCall = "run_outside"
	CallPassShort        PlayCall = "pass_short"
	CallPassMedium       PlayCall = "pass_medium"
	CallPassDeep         PlayCall = "pass_deep"
	CallPlayActionShort  PlayCall = "play_action_short"
	CallPlayActionMedium PlayCall = "play_action_medium"
	CallPlayActionDeep   PlayCall = "play_action_deep"
	CallPunt             PlayCall = "punt"
	CallFieldGoal        PlayCall = "field_goal"
	CallExtraPoint       PlayCall = "extra_point"
	CallTwoPoint         PlayCall = "two_point"
	CallKickoff          PlayCall = "kickoff"
	CallKneel            PlayCall = "kneel"
	CallSpike            PlayCall = "spike"
)

// PlayerRef names a participant on a play.
type PlayerRef struct {
	ID       string   `json:"id" bson:"id"`
	Name     string   `json:"name" bson:"name"`
	Position Position `json:"position" bson:"position"`
}

// TurnoverKind distinguishes the two ways the ball changes hands on a play.
type TurnoverKind string

const (
	TurnoverInterception TurnoverKind = "interception"
	TurnoverFumble       TurnoverKind = "fumble"
)

// Turnover records a change of possession within a play.
type Turnover struct {
	Kind          TurnoverKind `json:"kind" bson:"kind"`
	RecoveredBy   Side         `json:"recoveredBy" bson:"recoveredBy"`
	ReturnYards   int          `json:"returnYards" bson:"returnYards"`
	ReturnedForTD bool         `json:"returnedForTD" bson:"returnedForTD"`
}

// Penalty records a flag thrown on the play. Declined and offsetting
// penalties are recorded but leave the game state untouched.
type Penalty struct {
	Name               string `json:"name" bson:"name"`
	Against            Side   `json:"against" bson:"against"`
	Yards              int    `json:"yards" bson:"yards"`
	AutomaticFirstDown bool   `json:"automaticFirstDown" bson:"automaticFirstDown"`
	Declined           bool   `json:"declined" bson:"declined"`
	Offsetting         bool   `json:"offsetting" bson:"offsetting"`
}

// Injury records a player leaving the game.
type Injury struct {
	Player   PlayerRef `json:"player" bson:"player"`
	Severity string    `json:"severity" bson:"severity"`
}

// ScoringKind tags how points went on the board.
type ScoringKind string

const (
	ScoreTouchdown  ScoringKind = "touchdown"
	ScoreFieldGoal  ScoringKind = "field_goal"
	ScoreExtraPoint ScoringKind = "extra_point"
	ScoreTwoPoint   ScoringKind = "two_point"
	ScoreSafety     ScoringKind = "safety"
)

// Scoring records points awarded on the play.
type Scoring struct {
	Kind   ScoringKind `json:"kind" bson:"kind"`
	Team   Side        `json:"team" bson:"team"`
	Points int         `json:"points" bson:"points"`
}

// PlayResult is the full resolved outcome of one play. Participant and
// sub-record fields are nil when not applicable.
type PlayResult struct {
	Type           PlayType   `json:"type" bson:"type"`
	Call           PlayCall   `json:"call" bson:"call"`
	YardsGained    int        `json:"yardsGained" bson:"yardsGained"`
	Passer         *PlayerRef `json:"passer,omitempty" bson:"passer,omitempty"`
	Rusher         *PlayerRef `json:"rusher,omitempty" bson:"rusher,omitempty"`
	Receiver       *PlayerRef `json:"receiver,omitempty" bson:"receiver,omitempty"`
	Defender       *PlayerRef `json:"defender,omitempty" bson:"defender,omitempty"`
	Kicker         *PlayerRef `json:"kicker,omitempty" bson:"kicker,omitempty"`
	Turnover       *Turnover  `json:"turnover,omitempty" bson:"turnover,omitempty"`
	Penalty        *Penalty   `json:"penalty,omitempty" bson:"penalty,omitempty"`
	Injury         *Injury    `json:"injury,omitempty" bson:"injury,omitempty"`
	Scoring        *Scoring   `json:"scoring,omitempty" bson:"scoring,omitempty"`
	KickDistance   int        `json:"kickDistance,omitempty" bson:"kickDistance,omitempty"`
	KickGood       bool       `json:"kickGood,omitempty" bson:"kickGood,omitempty"`
	ClockElapsed   int        `json:"clockElapsed" bson:"clockElapsed"` // seconds
	IsClockStopped bool       `json:"isClockStopped" bson:"isClockStopped"`
	IsFirstDown    bool       `json:"isFirstDown" bson:"isFirstDown"`
	IsTouchdown    bool       `json:"isTouchdown" bson:"isTouchdown"`
	IsSafety       bool       `json:"isSafety" bson:"isSafety"`
	Description    string     `json:"description" bson:"description"`
}

// IsBigPlay reports a non-turnover gain of 20+ yards.
func (p *PlayResult) IsBigPlay() bool {
	return p.YardsGained >= 20 && p.Turnover == nil
}

// Commentary is the broadcast text for a play with its excitement score.
type Commentary struct {
	Text       string `json:"text" bson:"text"`
	Excitement int    `json:"excitement" bson:"excitement"` // 0-100
}

// GameSnapshot captures the full game state immediately after a play.
// Quarter 5 and above is overtime.
type GameSnapshot struct {
	HomeScore      int     `json:"homeScore" bson:"homeScore"`
	AwayScore      int     `json:"awayScore" bson:"awayScore"`
	Quarter        int     `json:"quarter" bson:"quarter"`
	Clock          int     `json:"clock" bson:"clock"` // seconds remaining in quarter
	Possession     Side    `json:"possession" bson:"possession"`
	Down           int     `json:"down" bson:"down"`
	YardsToGo      int     `json:"yardsToGo" bson:"yardsToGo"`
	BallPosition   int     `json:"ballPosition" bson:"ballPosition"` // 0-100 from possessing team's own goal
	HomeTimeouts   int     `json:"homeTimeouts" bson:"homeTimeouts"`
	AwayTimeouts   int     `json:"awayTimeouts" bson:"awayTimeouts"`
	IsClockRunning bool    `json:"isClockRunning" bson:"isClockRunning"`
	Momentum       float64 `json:"momentum" bson:"momentum"` // -100..100, positive = home
}

// IsOvertime reports whether the snapshot is in an overtime period.
func (s *GameSnapshot) IsOvertime() bool {
	return s.Quarter > 4
}

// ScoreDiff returns home score minus away score.
func (s *GameSnapshot) ScoreDiff() int {
	return s.HomeScore - s.AwayScore
}

// NarrativeSnapshot carries the drama flags derived from event history.
type NarrativeSnapshot struct {
	ActiveThreads           []string `json:"activeThreads" bson:"activeThreads"`
	IsClutchMoment          bool     `json:"isClutchMoment" bson:"isClutchMoment"`
	IsComebackBrewing       bool     `json:"isComebackBrewing" bson:"isComebackBrewing"`
	IsBlowout               bool     `json:"isBlowout" bson:"isBlowout"`
	IsDominatingPerformance bool     `json:"isDominatingPerformance" bson:"isDominatingPerformance"`
	DramaLevel              int      `json:"dramaLevel" bson:"dramaLevel"` // 0-100
}

// GameEvent is one append-only record in a game's broadcast log.
// (GameID, EventNumber) is unique; EventNumber is dense from 1.
type GameEvent struct {
	GameID           string             `json:"gameId" bson:"gameId"`
	EventNumber      int                `json:"eventNumber" bson:"eventNumber"`
	EventType        string             `json:"eventType" bson:"eventType"`
	Play             PlayResult         `json:"play" bson:"play"`
	Commentary       Commentary         `json:"commentary" bson:"commentary"`
	GameState        GameSnapshot       `json:"gameState" bson:"gameState"`
	Narrative        *NarrativeSnapshot `json:"narrative,omitempty" bson:"narrative,omitempty"`
	DisplayTimestamp int64              `json:"displayTimestamp" bson:"displayTimestamp"` // ms from broadcast start
}
