package sim

import (
	"testing"

	"gridblitz/models"
)

// recordsWith gives every team a distinct record so seeding is unambiguous:
// earlier teams in the fixture order finish with more wins.
func recordsWith(teams []models.Team) []models.TeamRecord {
	var recs []models.TeamRecord
	for i, tm := range teams {
		wins := 17 - i%16
		recs = append(recs, models.TeamRecord{
			TeamID:    tm.ID,
			Wins:      wins,
			Losses:    17 - wins,
			PointsFor: 400 - i,
		})
	}
	return recs
}

func TestComputeSeeding(t *testing.T) {
	teams := leagueTeams()
	seeding := ComputeSeeding(teams, recordsWith(teams))

	if len(seeding) != 2 {
		t.Fatalf("seeded %d conferences, want 2", len(seeding))
	}

	byID := make(map[string]models.Team)
	for _, tm := range teams {
		byID[tm.ID] = tm
	}

	for conf, seeds := range seeding {
		if len(seeds) != 7 {
			t.Fatalf("%s has %d seeds, want 7", conf, len(seeds))
		}

		divisionsSeen := make(map[models.Division]bool)
		for _, s := range seeds {
			tm := byID[s.TeamID]
			if tm.Conference != conf {
				t.Errorf("seed %d of %s is from %s", s.Seed, conf, tm.Conference)
			}
			if s.Seed <= 4 {
				if divisionsSeen[tm.Division] {
					t.Errorf("%s seeds two teams from division %s in the top four", conf, tm.Division)
				}
				divisionsSeen[tm.Division] = true
			}
		}
		if len(divisionsSeen) != 4 {
			t.Errorf("%s top four covers %d divisions, want 4", conf, len(divisionsSeen))
		}

		for i := 1; i < len(seeds); i++ {
			if seeds[i].Seed != seeds[i-1].Seed+1 {
				t.Errorf("%s seeds are not dense: %v", conf, seeds)
			}
		}
	}
}

func TestWildCardRound(t *testing.T) {
	teams := leagueTeams()
	seeding := ComputeSeeding(teams, recordsWith(teams))
	games := WildCardRound(seeding)

	if len(games) != 6 {
		t.Fatalf("wild card round has %d games, want 6", len(games))
	}

	for conf, seeds := range seeding {
		bySeed := seedIndex(seeds)
		wantPairs := map[string]string{
			bySeed[2]: bySeed[7],
			bySeed[3]: bySeed[6],
			bySeed[4]: bySeed[5],
		}
		for home, away := range wantPairs {
			found := false
			for _, g := range games {
				if g.HomeTeamID == home && g.AwayTeamID == away {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("%s missing matchup %s vs %s", conf, home, away)
			}
		}
		// The one seed sits out.
		for _, g := range games {
			if g.HomeTeamID == bySeed[1] || g.AwayTeamID == bySeed[1] {
				t.Errorf("%s one seed plays in the wild card round", conf)
			}
		}
	}
}

func TestNextRoundReseedsWithByeTeam(t *testing.T) {
	teams := leagueTeams()
	seeding := ComputeSeeding(teams, recordsWith(teams))

	// Home teams win every wild card game: survivors are seeds 2, 3, 4.
	var survivors []string
	for _, conf := range []models.Conference{models.ConferenceAFC, models.ConferenceNFC} {
		bySeed := seedIndex(seeding[conf])
		survivors = append(survivors, bySeed[2], bySeed[3], bySeed[4])
	}

	games, err := NextRound(seeding, survivors)
	if err != nil {
		t.Fatalf("NextRound: %v", err)
	}
	if len(games) != 4 {
		t.Fatalf("divisional round has %d games, want 4", len(games))
	}

	for _, conf := range []models.Conference{models.ConferenceAFC, models.ConferenceNFC} {
		bySeed := seedIndex(seeding[conf])
		assertGame(t, games, bySeed[1], bySeed[4])
		assertGame(t, games, bySeed[2], bySeed[3])
	}
}

func TestNextRoundChampionship(t *testing.T) {
	teams := leagueTeams()
	seeding := ComputeSeeding(teams, recordsWith(teams))

	var survivors []string
	for _, conf := range []models.Conference{models.ConferenceAFC, models.ConferenceNFC} {
		bySeed := seedIndex(seeding[conf])
		survivors = append(survivors, bySeed[1], bySeed[3])
	}

	games, err := NextRound(seeding, survivors)
	if err != nil {
		t.Fatalf("NextRound: %v", err)
	}
	if len(games) != 2 {
		t.Fatalf("championship round has %d games, want 2", len(games))
	}
	for _, conf := range []models.Conference{models.ConferenceAFC, models.ConferenceNFC} {
		bySeed := seedIndex(seeding[conf])
		assertGame(t, games, bySeed[1], bySeed[3])
	}
}

func TestSuperBowlHostsAFCChampion(t *testing.T) {
	teams := leagueTeams()
	seeding := ComputeSeeding(teams, recordsWith(teams))

	afcChamp := seedIndex(seeding[models.ConferenceAFC])[1]
	nfcChamp := seedIndex(seeding[models.ConferenceNFC])[1]

	// Champion order must not matter.
	for _, champs := range [][]string{{afcChamp, nfcChamp}, {nfcChamp, afcChamp}} {
		game, err := SuperBowl(seeding, champs)
		if err != nil {
			t.Fatalf("SuperBowl: %v", err)
		}
		if game.HomeTeamID != afcChamp || game.AwayTeamID != nfcChamp {
			t.Errorf("super bowl %+v, want AFC champion %s at home vs %s", game, afcChamp, nfcChamp)
		}
	}

	if _, err := SuperBowl(seeding, []string{afcChamp}); err == nil {
		t.Error("SuperBowl accepted a single champion")
	}
}

func assertGame(t *testing.T, games []Matchup, home, away string) {
	t.Helper()
	for _, g := range games {
		if g.HomeTeamID == home && g.AwayTeamID == away {
			return
		}
	}
	t.Errorf("missing matchup %s hosting %s in %+v", home, away, games)
}
