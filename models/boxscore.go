package models

import "fmt"

// TeamTotals aggregates one team's production for the box score.
type TeamTotals struct {
	TotalYards       int `json:"totalYards" bson:"totalYards"`
	PassingYards     int `json:"passingYards" bson:"passingYards"`
	RushingYards     int `json:"rushingYards" bson:"rushingYards"`
	FirstDowns       int `json:"firstDowns" bson:"firstDowns"`
	Turnovers        int `json:"turnovers" bson:"turnovers"`
	Sacks            int `json:"sacks" bson:"sacks"` // sacks recorded by this team's defense
	Penalties        int `json:"penalties" bson:"penalties"`
	PenaltyYards     int `json:"penaltyYards" bson:"penaltyYards"`
	TimeOfPossession int `json:"timeOfPossession" bson:"timeOfPossession"` // seconds
}

// PlayerLine is one player's stat line.
type PlayerLine struct {
	PlayerID      string   `json:"playerId" bson:"playerId"`
	Name          string   `json:"name" bson:"name"`
	Position      Position `json:"position" bson:"position"`
	Team          Side     `json:"team" bson:"team"`
	PassAttempts  int      `json:"passAttempts,omitempty" bson:"passAttempts,omitempty"`
	Completions   int      `json:"completions,omitempty" bson:"completions,omitempty"`
	PassYards     int      `json:"passYards,omitempty" bson:"passYards,omitempty"`
	PassTDs       int      `json:"passTDs,omitempty" bson:"passTDs,omitempty"`
	Interceptions int      `json:"interceptions,omitempty" bson:"interceptions,omitempty"`
	Carries       int      `json:"carries,omitempty" bson:"carries,omitempty"`
	RushYards     int      `json:"rushYards,omitempty" bson:"rushYards,omitempty"`
	RushTDs       int      `json:"rushTDs,omitempty" bson:"rushTDs,omitempty"`
	Targets       int      `json:"targets,omitempty" bson:"targets,omitempty"`
	Receptions    int      `json:"receptions,omitempty" bson:"receptions,omitempty"`
	RecYards      int      `json:"recYards,omitempty" bson:"recYards,omitempty"`
	RecTDs        int      `json:"recTDs,omitempty" bson:"recTDs,omitempty"`
	Sacks         int      `json:"sacks,omitempty" bson:"sacks,omitempty"`
	FGMade        int      `json:"fgMade,omitempty" bson:"fgMade,omitempty"`
	FGAttempts    int      `json:"fgAttempts,omitempty" bson:"fgAttempts,omitempty"`
	XPMade        int      `json:"xpMade,omitempty" bson:"xpMade,omitempty"`
	XPAttempts    int      `json:"xpAttempts,omitempty" bson:"xpAttempts,omitempty"`
}

// DriveSummary describes one contiguous possession.
type DriveSummary struct {
	Team         Side   `json:"team" bson:"team"`
	StartQuarter int    `json:"startQuarter" bson:"startQuarter"`
	Plays        int    `json:"plays" bson:"plays"`
	Yards        int    `json:"yards" bson:"yards"`
	Result       string `json:"result" bson:"result"` // touchdown, field_goal, punt, turnover, downs, end_of_half, end_of_game
}

// ScoringPlay is one entry in the scoring summary.
type ScoringPlay struct {
	Quarter     int    `json:"quarter" bson:"quarter"`
	Clock       int    `json:"clock" bson:"clock"`
	Team        Side   `json:"team" bson:"team"`
	Description string `json:"description" bson:"description"`
	HomeScore   int    `json:"homeScore" bson:"homeScore"`
	AwayScore   int    `json:"awayScore" bson:"awayScore"`
}

// BoxScore is the aggregated record of a completed game. It is stored as an
// opaque document; the schema lives here in code only.
type BoxScore struct {
	Home         TeamTotals    `json:"home" bson:"home"`
	Away         TeamTotals    `json:"away" bson:"away"`
	Players      []PlayerLine  `json:"players" bson:"players"`
	Drives       []DriveSummary `json:"drives" bson:"drives"`
	ScoringPlays []ScoringPlay `json:"scoringPlays" bson:"scoringPlays"`
	MVP          *PlayerRef    `json:"mvp,omitempty" bson:"mvp,omitempty"`
}

// ClockString renders seconds remaining as M:SS.
func ClockString(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
