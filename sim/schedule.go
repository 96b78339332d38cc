package sim

import (
	"fmt"
	"sort"

	"gridblitz/models"
)

// Matchup is one scheduled pairing before it has been assigned a week.
type Matchup struct {
	HomeTeamID string
	AwayTeamID string
}

// Schedule is a full regular season: 18 slices of matchups, one per week.
type Schedule struct {
	Weeks [][]Matchup
}

// TotalGames counts the games across all weeks.
func (s *Schedule) TotalGames() int {
	n := 0
	for _, wk := range s.Weeks {
		n += len(wk)
	}
	return n
}

const (
	regularSeasonWeeks = 18
	byeWeekFirst       = 4
	byeWeekLast        = 14
	scheduleAttempts   = 100
)

// GenerateRegularSeason builds a deterministic 272-game regular season for
// the 32 teams. Every team plays 17 games with a single bye between weeks 4
// and 14: six divisional games (home and away against each rival), a full
// slate against one paired division in conference and one out of conference,
// and three cross-matched games filling the remainder. Home/away balance
// lands at 8-9 either way. The RNG drives every tie-break, so a fixed master
// seed reproduces the schedule exactly.
func GenerateRegularSeason(teams []models.Team, rng *RNG) (*Schedule, error) {
	if len(teams) != 32 {
		return nil, fmt.Errorf("regular season requires 32 teams, got %d", len(teams))
	}

	matchups := buildMatchups(teams, rng)
	if len(matchups) != 272 {
		return nil, fmt.Errorf("matchup construction produced %d games, want 272", len(matchups))
	}

	for attempt := 0; attempt < scheduleAttempts; attempt++ {
		sched, ok := assignWeeks(teams, matchups, rng)
		if ok {
			return sched, nil
		}
	}
	return nil, fmt.Errorf("failed to place %d games into %d weeks after %d attempts",
		len(matchups), regularSeasonWeeks, scheduleAttempts)
}

// divisionKey groups teams by (conference, division).
type divisionKey struct {
	conf models.Conference
	div  models.Division
}

// buildMatchups constructs the 272 pairings with home/away already decided.
func buildMatchups(teams []models.Team, rng *RNG) []Matchup {
	divs := make(map[divisionKey][]models.Team)
	for _, t := range teams {
		k := divisionKey{t.Conference, t.Division}
		divs[k] = append(divs[k], t)
	}
	// Stable intra-division order before any RNG-driven shuffling.
	for k := range divs {
		sort.Slice(divs[k], func(i, j int) bool { return divs[k][i].Abbreviation < divs[k][j].Abbreviation })
	}

	var matchups []Matchup
	homeCount := make(map[string]int)

	// Divisional home-and-away: 3 home, 3 away per team.
	for _, k := range divisionKeys() {
		ts := divs[k]
		for i := 0; i < len(ts); i++ {
			for j := i + 1; j < len(ts); j++ {
				matchups = append(matchups,
					Matchup{HomeTeamID: ts[i].ID, AwayTeamID: ts[j].ID},
					Matchup{HomeTeamID: ts[j].ID, AwayTeamID: ts[i].ID})
				homeCount[ts[i].ID]++
				homeCount[ts[j].ID]++
			}
		}
	}

	// Pair divisions within each conference: (p[0],p[1]) and (p[2],p[3])
	// play full 4x4 slates; the two cross pairs get one-to-one matchings.
	intraPairs := make(map[models.Conference][]models.Division)
	for _, conf := range []models.Conference{models.ConferenceAFC, models.ConferenceNFC} {
		perm := Shuffle(rng, []models.Division{models.DivisionNorth, models.DivisionSouth, models.DivisionEast, models.DivisionWest})
		intraPairs[conf] = perm

		a := divs[divisionKey{conf, perm[0]}]
		b := divs[divisionKey{conf, perm[1]}]
		c := divs[divisionKey{conf, perm[2]}]
		d := divs[divisionKey{conf, perm[3]}]

		matchups = append(matchups, fullSlate(a, b, homeCount)...)
		matchups = append(matchups, fullSlate(c, d, homeCount)...)

		// Cross matchings: each team picks up two more in-conference games.
		matchups = append(matchups, crossMatching(a, c, rng, homeCount)...)
		matchups = append(matchups, crossMatching(a, d, rng, homeCount)...)
		matchups = append(matchups, crossMatching(b, c, rng, homeCount)...)
		matchups = append(matchups, crossMatching(b, d, rng, homeCount)...)
	}

	// Inter-conference: a shuffled AFC->NFC division pairing plays full
	// slates, then a shifted pairing supplies the seventeenth game.
	afcDivs := intraPairs[models.ConferenceAFC]
	nfcDivs := Shuffle(rng, []models.Division{models.DivisionNorth, models.DivisionSouth, models.DivisionEast, models.DivisionWest})
	for i := 0; i < 4; i++ {
		a := divs[divisionKey{models.ConferenceAFC, afcDivs[i]}]
		n := divs[divisionKey{models.ConferenceNFC, nfcDivs[i]}]
		matchups = append(matchups, fullSlate(a, n, homeCount)...)
	}
	for i := 0; i < 4; i++ {
		a := divs[divisionKey{models.ConferenceAFC, afcDivs[i]}]
		n := divs[divisionKey{models.ConferenceNFC, nfcDivs[(i+1)%4]}]
		matchups = append(matchups, crossMatching(a, n, rng, homeCount)...)
	}

	return matchups
}

func divisionKeys() []divisionKey {
	var keys []divisionKey
	for _, conf := range []models.Conference{models.ConferenceAFC, models.ConferenceNFC} {
		for _, div := range []models.Division{models.DivisionNorth, models.DivisionSouth, models.DivisionEast, models.DivisionWest} {
			keys = append(keys, divisionKey{conf, div})
		}
	}
	return keys
}

// fullSlate schedules every team in a against every team in b once, with
// home sites split 2-2 for each team by index parity.
func fullSlate(a, b []models.Team, homeCount map[string]int) []Matchup {
	var out []Matchup
	for i := range a {
		for j := range b {
			if (i+j)%2 == 0 {
				out = append(out, Matchup{HomeTeamID: a[i].ID, AwayTeamID: b[j].ID})
				homeCount[a[i].ID]++
			} else {
				out = append(out, Matchup{HomeTeamID: b[j].ID, AwayTeamID: a[i].ID})
				homeCount[b[j].ID]++
			}
		}
	}
	return out
}

// crossMatching pairs the teams of a and b one-to-one (a shuffled bijection)
// and awards home field to whichever side has hosted less so far.
func crossMatching(a, b []models.Team, rng *RNG, homeCount map[string]int) []Matchup {
	shuffled := Shuffle(rng, b)
	var out []Matchup
	for i := range a {
		home, away := a[i], shuffled[i]
		if homeCount[home.ID] > homeCount[away.ID] {
			home, away = away, home
		} else if homeCount[home.ID] == homeCount[away.ID] && rng.Probability(0.5) {
			home, away = away, home
		}
		out = append(out, Matchup{HomeTeamID: home.ID, AwayTeamID: away.ID})
		homeCount[home.ID]++
	}
	return out
}

// assignWeeks places the matchups into 18 weeks. Byes are dealt in groups of
// four across eight of the allowed weeks, then each week's games are chosen
// by a backtracking perfect matching over the teams playing that week.
func assignWeeks(teams []models.Team, matchups []Matchup, rng *RNG) (*Schedule, bool) {
	// Eight bye weeks of four teams each covers all 32 teams.
	byeWeeks := Shuffle(rng, byeWeekCandidates())[:8]
	shuffledTeams := Shuffle(rng, teams)
	byeFor := make(map[string]int)
	for i, t := range shuffledTeams {
		byeFor[t.ID] = byeWeeks[i/4]
	}

	remaining := make([]Matchup, len(matchups))
	copy(remaining, matchups)

	sched := &Schedule{Weeks: make([][]Matchup, regularSeasonWeeks)}
	for week := 1; week <= regularSeasonWeeks; week++ {
		active := make(map[string]bool)
		for _, t := range teams {
			if byeFor[t.ID] != week {
				active[t.ID] = true
			}
		}

		games, used := matchWeek(active, remaining, rng)
		if games == nil {
			return nil, false
		}
		sched.Weeks[week-1] = games

		var next []Matchup
		for i, m := range remaining {
			if !used[i] {
				next = append(next, m)
			}
		}
		remaining = next
	}

	return sched, len(remaining) == 0
}

func byeWeekCandidates() []int {
	var weeks []int
	for w := byeWeekFirst; w <= byeWeekLast; w++ {
		weeks = append(weeks, w)
	}
	return weeks
}

// matchWeek finds a perfect matching over the active teams using the
// remaining matchup pool. Candidate order is RNG-shuffled so tie-breaking
// stays seed-deterministic; the search backtracks, so it finds a matching
// whenever one exists.
func matchWeek(active map[string]bool, pool []Matchup, rng *RNG) ([]Matchup, map[int]bool) {
	// Index candidate games per team for the DFS.
	candidates := make(map[string][]int)
	for i, m := range pool {
		if active[m.HomeTeamID] && active[m.AwayTeamID] {
			candidates[m.HomeTeamID] = append(candidates[m.HomeTeamID], i)
			candidates[m.AwayTeamID] = append(candidates[m.AwayTeamID], i)
		}
	}

	// Teams with the fewest candidates are hardest to place; handle first.
	var order []string
	for id := range active {
		order = append(order, id)
	}
	sort.Strings(order)
	order = Shuffle(rng, order)
	sort.SliceStable(order, func(i, j int) bool {
		return len(candidates[order[i]]) < len(candidates[order[j]])
	})

	used := make(map[int]bool)
	taken := make(map[string]bool)
	var games []Matchup

	var place func(idx int) bool
	place = func(idx int) bool {
		for idx < len(order) && taken[order[idx]] {
			idx++
		}
		if idx == len(order) {
			return true
		}
		id := order[idx]
		for _, gi := range candidates[id] {
			m := pool[gi]
			if used[gi] || taken[m.HomeTeamID] || taken[m.AwayTeamID] {
				continue
			}
			used[gi] = true
			taken[m.HomeTeamID] = true
			taken[m.AwayTeamID] = true
			games = append(games, m)
			if place(idx + 1) {
				return true
			}
			games = games[:len(games)-1]
			used[gi] = false
			taken[m.HomeTeamID] = false
			taken[m.AwayTeamID] = false
		}
		return false
	}

	if !place(0) {
		return nil, nil
	}
	return games, used
}
