package sim

import "gridblitz/models"

// momentumWindow is the trailing number of events whose shifts feed the
// momentum value, weighted linearly from 0.5 (oldest) to 1.0 (newest).
const momentumWindow = 12

// resolverModifierCap bounds the edge momentum hands to play resolution.
const resolverModifierCap = 0.03

// MomentumTracker folds play results into a single scalar in [-100, 100],
// positive toward the home team. Shifts age out of a 12-event window and a
// decayed residual lets big swings linger a few plays longer.
type MomentumTracker struct {
	shifts   []float64
	residual float64
	value    float64
}

// NewMomentumTracker starts at dead even.
func NewMomentumTracker() *MomentumTracker {
	return &MomentumTracker{}
}

// Record folds one resolved play into the tracker. possession is the side
// that had the ball when the play started; scoreDiff is home minus away
// after the play.
func (m *MomentumTracker) Record(result *models.PlayResult, possession models.Side, scoreDiff int) {
	shift := shiftFor(result, possession)

	m.shifts = append(m.shifts, shift)
	if len(m.shifts) > momentumWindow {
		// The evicted shift decays into the residual rather than vanishing.
		m.residual = m.residual*0.90 + m.shifts[0]*0.5
		m.shifts = m.shifts[1:]
	} else {
		m.residual *= 0.90
	}

	var weighted float64
	n := len(m.shifts)
	for i, s := range m.shifts {
		// Linear recency weight 0.5 -> 1.0 across the window.
		w := 0.5
		if n > 1 {
			w = 0.5 + 0.5*float64(i)/float64(n-1)
		}
		weighted += s * w
	}

	// The scoreboard leader gets a mild sustained nudge.
	bias := float64(scoreDiff) * 0.5
	if bias > 8 {
		bias = 8
	}
	if bias < -8 {
		bias = -8
	}

	m.value = clampMomentum(weighted + m.residual + bias)
}

// Value returns the current momentum in [-100, 100], positive = home.
func (m *MomentumTracker) Value() float64 {
	return m.value
}

// ModifierFor returns the probability edge the given side enjoys, capped to
// +/-0.03.
func (m *MomentumTracker) ModifierFor(side models.Side) float64 {
	mod := m.value / 100 * resolverModifierCap
	if side == models.SideAway {
		mod = -mod
	}
	if mod > resolverModifierCap {
		mod = resolverModifierCap
	}
	if mod < -resolverModifierCap {
		mod = -resolverModifierCap
	}
	return mod
}

// shiftFor scores one play as a signed home-positive swing.
func shiftFor(result *models.PlayResult, possession models.Side) float64 {
	sign := func(side models.Side) float64 {
		if side == models.SideHome {
			return 1
		}
		return -1
	}

	if result.Scoring != nil {
		switch result.Scoring.Kind {
		case models.ScoreTouchdown:
			return 30 * sign(result.Scoring.Team)
		case models.ScoreFieldGoal:
			return 15 * sign(result.Scoring.Team)
		case models.ScoreSafety:
			return 20 * sign(result.Scoring.Team)
		}
	}

	if result.Turnover != nil {
		shift := 25.0
		if result.Turnover.ReturnedForTD {
			shift *= 1.5
		}
		return shift * sign(result.Turnover.RecoveredBy)
	}

	if result.Type == models.PlaySack {
		return 12 * sign(possession.Opponent())
	}

	if result.Penalty != nil && !result.Penalty.Declined && !result.Penalty.Offsetting {
		shift := float64(result.Penalty.Yards) / 3
		if shift > 8 {
			shift = 8
		}
		return shift * sign(result.Penalty.Against.Opponent())
	}

	yards := result.YardsGained
	switch {
	case result.IsBigPlay():
		extra := float64(yards) / 5
		if extra > 10 {
			extra = 10
		}
		return (8 + extra) * sign(possession)
	case result.IsFirstDown:
		return 4 * sign(possession)
	case yards < 0 && result.Type == models.PlayRun:
		return 5 * sign(possession.Opponent())
	case result.Type == models.PlayPassIncomplete:
		return 2 * sign(possession.Opponent())
	case yards >= 5:
		return 4 * sign(possession)
	case yards > 0:
		return 1 * sign(possession)
	}
	return 0
}

func clampMomentum(v float64) float64 {
	if v > 100 {
		return 100
	}
	if v < -100 {
		return -100
	}
	return v
}
