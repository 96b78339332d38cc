package sim

import (
	"fmt"
	"sort"

	"gridblitz/models"
)

// SeededTeam is one playoff qualifier with its conference seed.
type SeededTeam struct {
	TeamID     string
	Seed       int
	Conference models.Conference
}

// ComputeSeeding derives the seven playoff seeds per conference from final
// standings: the four division winners take seeds 1-4, the three best
// remaining records take 5-7. Ties break on win percentage, then head-to-
// head surrogate stats (division record, conference record, point
// differential, points for), then team id for full determinism.
func ComputeSeeding(teams []models.Team, records []models.TeamRecord) map[models.Conference][]SeededTeam {
	teamByID := make(map[string]models.Team, len(teams))
	for _, t := range teams {
		teamByID[t.ID] = t
	}

	recByID := make(map[string]models.TeamRecord, len(records))
	for _, r := range records {
		recByID[r.TeamID] = r
	}

	seeding := make(map[models.Conference][]SeededTeam)
	for _, conf := range []models.Conference{models.ConferenceAFC, models.ConferenceNFC} {
		var winners []string
		var rest []string

		for _, div := range []models.Division{models.DivisionNorth, models.DivisionSouth, models.DivisionEast, models.DivisionWest} {
			var members []string
			for _, t := range teams {
				if t.Conference == conf && t.Division == div {
					members = append(members, t.ID)
				}
			}
			sortByRecord(members, recByID)
			winners = append(winners, members[0])
			rest = append(rest, members[1:]...)
		}

		sortByRecord(winners, recByID)
		sortByRecord(rest, recByID)

		var seeds []SeededTeam
		for i, id := range winners {
			seeds = append(seeds, SeededTeam{TeamID: id, Seed: i + 1, Conference: conf})
		}
		for i, id := range rest[:3] {
			seeds = append(seeds, SeededTeam{TeamID: id, Seed: i + 5, Conference: conf})
		}
		seeding[conf] = seeds
	}
	return seeding
}

func sortByRecord(ids []string, recs map[string]models.TeamRecord) {
	sort.SliceStable(ids, func(i, j int) bool {
		a, b := recs[ids[i]], recs[ids[j]]
		if a.WinPct() != b.WinPct() {
			return a.WinPct() > b.WinPct()
		}
		if aw, bw := a.DivisionWins-a.DivisionLosses, b.DivisionWins-b.DivisionLosses; aw != bw {
			return aw > bw
		}
		if aw, bw := a.ConferenceWins-a.ConferenceLosses, b.ConferenceWins-b.ConferenceLosses; aw != bw {
			return aw > bw
		}
		if a.PointDiff() != b.PointDiff() {
			return a.PointDiff() > b.PointDiff()
		}
		if a.PointsFor != b.PointsFor {
			return a.PointsFor > b.PointsFor
		}
		return ids[i] < ids[j]
	})
}

// WildCardRound pairs seeds 2v7, 3v6, and 4v5 in each conference. The one
// seed has the round off.
func WildCardRound(seeding map[models.Conference][]SeededTeam) []Matchup {
	var games []Matchup
	for _, conf := range []models.Conference{models.ConferenceAFC, models.ConferenceNFC} {
		bySeed := seedIndex(seeding[conf])
		for _, pair := range [][2]int{{2, 7}, {3, 6}, {4, 5}} {
			games = append(games, Matchup{
				HomeTeamID: bySeed[pair[0]],
				AwayTeamID: bySeed[pair[1]],
			})
		}
	}
	return games
}

// NextRound reseeds the surviving teams of each conference and pairs the
// highest remaining seed with the lowest, second-highest with second-lowest,
// and so on. Higher seed hosts. Used for the divisional round (one seed
// rejoins here) and the conference championships.
func NextRound(seeding map[models.Conference][]SeededTeam, survivors []string) ([]Matchup, error) {
	alive := make(map[string]bool, len(survivors))
	for _, id := range survivors {
		alive[id] = true
	}

	var games []Matchup
	for _, conf := range []models.Conference{models.ConferenceAFC, models.ConferenceNFC} {
		var remaining []SeededTeam
		for _, s := range seeding[conf] {
			if alive[s.TeamID] {
				remaining = append(remaining, s)
			}
		}
		// Three survivors means the wild card round just finished and the
		// one seed rejoins off its bye.
		if len(remaining) == 3 {
			for _, s := range seeding[conf] {
				if s.Seed == 1 {
					remaining = append(remaining, s)
				}
			}
		}
		sort.Slice(remaining, func(i, j int) bool { return remaining[i].Seed < remaining[j].Seed })
		if len(remaining)%2 != 0 {
			return nil, fmt.Errorf("conference %s has %d surviving teams, cannot pair", conf, len(remaining))
		}
		for i := 0; i < len(remaining)/2; i++ {
			games = append(games, Matchup{
				HomeTeamID: remaining[i].TeamID,
				AwayTeamID: remaining[len(remaining)-1-i].TeamID,
			})
		}
	}
	return games, nil
}

// SuperBowl pairs the two conference champions. The AFC champion is the
// nominal home team.
func SuperBowl(seeding map[models.Conference][]SeededTeam, champions []string) (Matchup, error) {
	if len(champions) != 2 {
		return Matchup{}, fmt.Errorf("super bowl needs exactly 2 champions, got %d", len(champions))
	}
	confOf := make(map[string]models.Conference)
	for conf, seeds := range seeding {
		for _, s := range seeds {
			confOf[s.TeamID] = conf
		}
	}
	home, away := champions[0], champions[1]
	if confOf[home] != models.ConferenceAFC {
		home, away = away, home
	}
	return Matchup{HomeTeamID: home, AwayTeamID: away}, nil
}

func seedIndex(seeds []SeededTeam) map[int]string {
	m := make(map[int]string, len(seeds))
	for _, s := range seeds {
		m[s.Seed] = s.TeamID
	}
	return m
}
