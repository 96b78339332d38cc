package models

import "fmt"

// TeamRecord is one team's standing within a season. Records are updated
// only when a game transitions to completed.
type TeamRecord struct {
	SeasonID         string `json:"seasonId" bson:"seasonId"`
	TeamID           string `json:"teamId" bson:"teamId"`
	Wins             int    `json:"wins" bson:"wins"`
	Losses           int    `json:"losses" bson:"losses"`
	Ties             int    `json:"ties" bson:"ties"`
	DivisionWins     int    `json:"divisionWins" bson:"divisionWins"`
	DivisionLosses   int    `json:"divisionLosses" bson:"divisionLosses"`
	ConferenceWins   int    `json:"conferenceWins" bson:"conferenceWins"`
	ConferenceLosses int    `json:"conferenceLosses" bson:"conferenceLosses"`
	PointsFor        int    `json:"pointsFor" bson:"pointsFor"`
	PointsAgainst    int    `json:"pointsAgainst" bson:"pointsAgainst"`
	Streak           string `json:"streak" bson:"streak"` // e.g. "W3", "L1", "T1"
	PlayoffSeed      int    `json:"playoffSeed" bson:"playoffSeed"`
	Clinched         string `json:"clinched" bson:"clinched"` // "", "division", "playoff"
}

// GameOutcome describes one completed game from a single team's perspective,
// used to fold results into the record.
type GameOutcome struct {
	PointsFor      int
	PointsAgainst  int
	DivisionGame   bool
	ConferenceGame bool
}

// Apply folds one completed game into the record and updates the streak.
func (r *TeamRecord) Apply(o GameOutcome) {
	r.PointsFor += o.PointsFor
	r.PointsAgainst += o.PointsAgainst

	var tag string
	switch {
	case o.PointsFor > o.PointsAgainst:
		r.Wins++
		tag = "W"
		if o.DivisionGame {
			r.DivisionWins++
		}
		if o.ConferenceGame {
			r.ConferenceWins++
		}
	case o.PointsFor < o.PointsAgainst:
		r.Losses++
		tag = "L"
		if o.DivisionGame {
			r.DivisionLosses++
		}
		if o.ConferenceGame {
			r.ConferenceLosses++
		}
	default:
		r.Ties++
		tag = "T"
	}

	// Streak extends when the tag repeats, otherwise restarts at 1.
	var count int
	if len(r.Streak) > 1 && r.Streak[:1] == tag {
		fmt.Sscanf(r.Streak[1:], "%d", &count)
	}
	r.Streak = fmt.Sprintf("%s%d", tag, count+1)
}

// WinPct returns the winning percentage counting ties as half a win.
func (r *TeamRecord) WinPct() float64 {
	games := r.Wins + r.Losses + r.Ties
	if games == 0 {
		return 0
	}
	return (float64(r.Wins) + 0.5*float64(r.Ties)) / float64(games)
}

// RecordString renders the record as W-L or W-L-T.
func (r *TeamRecord) RecordString() string {
	if r.Ties > 0 {
		return fmt.Sprintf("%d-%d-%d", r.Wins, r.Losses, r.Ties)
	}
	return fmt.Sprintf("%d-%d", r.Wins, r.Losses)
}

// PointDiff returns points for minus points against.
func (r *TeamRecord) PointDiff() int {
	return r.PointsFor - r.PointsAgainst
}
