package sim

import (
	"sort"

	"gridblitz/models"
)

// statsCollector accumulates the box score while the engine runs.
type statsCollector struct {
	home    models.TeamTotals
	away    models.TeamTotals
	players map[string]*models.PlayerLine
	order   []string // player ids in first-appearance order for stable output

	drives       []models.DriveSummary
	currentDrive *models.DriveSummary
	scoring      []models.ScoringPlay
}

func newStatsCollector() *statsCollector {
	return &statsCollector{players: make(map[string]*models.PlayerLine)}
}

func (c *statsCollector) totals(side models.Side) *models.TeamTotals {
	if side == models.SideHome {
		return &c.home
	}
	return &c.away
}

func (c *statsCollector) line(ref *models.PlayerRef, side models.Side) *models.PlayerLine {
	if ref == nil {
		return nil
	}
	if l, ok := c.players[ref.ID]; ok {
		return l
	}
	l := &models.PlayerLine{PlayerID: ref.ID, Name: ref.Name, Position: ref.Position, Team: side}
	c.players[ref.ID] = l
	c.order = append(c.order, ref.ID)
	return l
}

// recordPlay folds one resolved play into totals and player lines.
// possession is the offense when the play started.
func (c *statsCollector) recordPlay(result *models.PlayResult, possession models.Side) {
	off := c.totals(possession)
	def := c.totals(possession.Opponent())

	if result.ClockElapsed > 0 {
		off.TimeOfPossession += result.ClockElapsed
	}

	if result.Penalty != nil && !result.Penalty.Declined && !result.Penalty.Offsetting {
		pt := c.totals(result.Penalty.Against)
		pt.Penalties++
		pt.PenaltyYards += result.Penalty.Yards
		return // accepted penalty nullifies the play's yardage
	}

	switch result.Type {
	case models.PlayRun, models.PlayScramble, models.PlayKneel:
		off.RushingYards += result.YardsGained
		off.TotalYards += result.YardsGained
		if l := c.line(result.Rusher, possession); l != nil {
			l.Carries++
			l.RushYards += result.YardsGained
			if result.IsTouchdown {
				l.RushTDs++
			}
		}
	case models.PlayPassComplete:
		off.PassingYards += result.YardsGained
		off.TotalYards += result.YardsGained
		if l := c.line(result.Passer, possession); l != nil {
			l.PassAttempts++
			l.Completions++
			l.PassYards += result.YardsGained
			if result.IsTouchdown {
				l.PassTDs++
			}
		}
		if l := c.line(result.Receiver, possession); l != nil {
			l.Targets++
			l.Receptions++
			l.RecYards += result.YardsGained
			if result.IsTouchdown {
				l.RecTDs++
			}
		}
	case models.PlayPassIncomplete:
		if l := c.line(result.Passer, possession); l != nil {
			l.PassAttempts++
			if result.Turnover != nil && result.Turnover.Kind == models.TurnoverInterception {
				l.Interceptions++
			}
		}
		if result.Turnover == nil {
			if l := c.line(result.Receiver, possession); l != nil {
				l.Targets++
			}
		}
	case models.PlaySack:
		// Sack yardage counts against passing totals.
		off.PassingYards += result.YardsGained
		off.TotalYards += result.YardsGained
		def.Sacks++
		if l := c.line(result.Defender, possession.Opponent()); l != nil {
			l.Sacks++
		}
	case models.PlayFieldGoal:
		if l := c.line(result.Kicker, possession); l != nil {
			l.FGAttempts++
			if result.KickGood {
				l.FGMade++
			}
		}
	case models.PlayExtraPoint:
		if l := c.line(result.Kicker, possession); l != nil {
			l.XPAttempts++
			if result.KickGood {
				l.XPMade++
			}
		}
	}

	if result.Turnover != nil {
		off.Turnovers++
	}
	if result.IsFirstDown {
		off.FirstDowns++
	}
}

// beginDrive opens a possession for the box score drive chart.
func (c *statsCollector) beginDrive(side models.Side, quarter int) {
	c.closeDrive("")
	c.currentDrive = &models.DriveSummary{Team: side, StartQuarter: quarter}
}

// extendDrive counts a scrimmage play toward the open drive.
func (c *statsCollector) extendDrive(yards int) {
	if c.currentDrive != nil {
		c.currentDrive.Plays++
		c.currentDrive.Yards += yards
	}
}

// closeDrive finishes the open drive with its result tag.
func (c *statsCollector) closeDrive(result string) {
	if c.currentDrive == nil {
		return
	}
	if result == "" {
		result = "end_of_half"
	}
	c.currentDrive.Result = result
	c.drives = append(c.drives, *c.currentDrive)
	c.currentDrive = nil
}

// recordScore appends to the scoring summary.
func (c *statsCollector) recordScore(quarter, clock int, team models.Side, description string, homeScore, awayScore int) {
	c.scoring = append(c.scoring, models.ScoringPlay{
		Quarter:     quarter,
		Clock:       clock,
		Team:        team,
		Description: description,
		HomeScore:   homeScore,
		AwayScore:   awayScore,
	})
}

// boxScore assembles the final aggregate, including the MVP pick: the
// highest-impact stat line, with ties broken toward the winning side.
func (c *statsCollector) boxScore(winner models.Side) *models.BoxScore {
	c.closeDrive("end_of_game")

	lines := make([]models.PlayerLine, 0, len(c.order))
	for _, id := range c.order {
		lines = append(lines, *c.players[id])
	}

	box := &models.BoxScore{
		Home:         c.home,
		Away:         c.away,
		Players:      lines,
		Drives:       c.drives,
		ScoringPlays: c.scoring,
	}

	type scored struct {
		line  models.PlayerLine
		score float64
	}
	var ranked []scored
	for _, l := range lines {
		s := float64(l.PassYards)*0.04 + float64(l.PassTDs)*4 - float64(l.Interceptions)*3 +
			float64(l.RushYards)*0.1 + float64(l.RushTDs)*6 +
			float64(l.RecYards)*0.1 + float64(l.RecTDs)*6 +
			float64(l.Sacks)*3 + float64(l.FGMade)*2
		if l.Team == winner {
			s *= 1.25
		}
		ranked = append(ranked, scored{line: l, score: s})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })
	if len(ranked) > 0 && ranked[0].score > 0 {
		top := ranked[0].line
		box.MVP = &models.PlayerRef{ID: top.PlayerID, Name: top.Name, Position: top.Position}
	}
	return box
}
