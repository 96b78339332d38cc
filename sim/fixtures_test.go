package sim

import (
	"fmt"

	"gridblitz/models"
)

// leagueTeams builds a deterministic 32-team league: four teams in each of
// the eight (conference, division) pairs.
func leagueTeams() []models.Team {
	styles := []models.PlayStyle{
		models.StyleBalanced, models.StylePassHeavy, models.StyleRunHeavy,
		models.StyleAggressive, models.StyleConservative,
	}
	var teams []models.Team
	i := 0
	for _, conf := range []models.Conference{models.ConferenceAFC, models.ConferenceNFC} {
		for _, div := range []models.Division{models.DivisionNorth, models.DivisionSouth, models.DivisionEast, models.DivisionWest} {
			for n := 0; n < 4; n++ {
				teams = append(teams, models.Team{
					ID:            fmt.Sprintf("team-%02d", i),
					Abbreviation:  fmt.Sprintf("T%02d", i),
					City:          fmt.Sprintf("City%02d", i),
					Mascot:        "Testers",
					Conference:    conf,
					Division:      div,
					OffenseRating: 70 + i%20,
					DefenseRating: 70 + (i*7)%20,
					SpecialRating: 75,
					PlayStyle:     styles[i%len(styles)],
				})
				i++
			}
		}
	}
	return teams
}

// testRoster builds a playable roster with starters at every position the
// resolver picks from.
func testRoster(teamID string) *models.Roster {
	specs := []struct {
		pos   models.Position
		count int
	}{
		{models.PositionQB, 2},
		{models.PositionRB, 3},
		{models.PositionWR, 5},
		{models.PositionTE, 2},
		{models.PositionOL, 5},
		{models.PositionDL, 4},
		{models.PositionLB, 3},
		{models.PositionCB, 3},
		{models.PositionS, 2},
		{models.PositionK, 1},
		{models.PositionP, 1},
	}
	var players []models.Player
	n := 0
	for _, s := range specs {
		for j := 0; j < s.count; j++ {
			n++
			players = append(players, models.Player{
				ID:           fmt.Sprintf("%s-p%02d", teamID, n),
				TeamID:       teamID,
				Name:         fmt.Sprintf("Player %s %02d", s.pos, n),
				Position:     s.pos,
				JerseyNumber: n,
				Rating:       90 - j*5,
				Speed:        80,
				Strength:     80,
				Awareness:    80,
				ClutchRating: 75,
			})
		}
	}
	return models.NewRoster(teamID, players)
}

// testMatchContext wires two fixture teams with full rosters.
func testMatchContext() *MatchContext {
	teams := leagueTeams()
	home, away := teams[0], teams[4]
	return &MatchContext{
		Home:       &home,
		Away:       &away,
		HomeRoster: testRoster(home.ID),
		AwayRoster: testRoster(away.ID),
	}
}
