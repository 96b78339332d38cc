package sim

import "gridblitz/models"

// NarrativeTracker watches the scoreboard history of one game and labels
// each event with the drama flags the broadcast layers on top of the raw
// play feed.
type NarrativeTracker struct {
	maxHomeDeficit int
	maxAwayDeficit int
}

// NewNarrativeTracker starts with no history.
func NewNarrativeTracker() *NarrativeTracker {
	return &NarrativeTracker{}
}

// Observe derives the snapshot for the current state and folds the state
// into the deficit history afterward, so a comeback is judged against what
// came strictly before this event.
func (n *NarrativeTracker) Observe(snap models.GameSnapshot) *models.NarrativeSnapshot {
	diff := snap.ScoreDiff()
	absDiff := diff
	if absDiff < 0 {
		absDiff = -absDiff
	}

	out := &models.NarrativeSnapshot{}

	// Clutch: late, close, one possession either way.
	if (snap.Quarter >= 4) && snap.Clock <= 120 && absDiff <= 8 {
		out.IsClutchMoment = true
		out.ActiveThreads = append(out.ActiveThreads, "clutch_time")
	}

	// Comeback brewing: a side that once trailed by 14+ has closed to one score.
	if diff < 0 && diff >= -7 && n.maxHomeDeficit >= 14 {
		out.IsComebackBrewing = true
	}
	if diff > 0 && diff <= 7 && n.maxAwayDeficit >= 14 {
		out.IsComebackBrewing = true
	}
	if diff == 0 && (n.maxHomeDeficit >= 14 || n.maxAwayDeficit >= 14) {
		out.IsComebackBrewing = true
	}
	if out.IsComebackBrewing {
		out.ActiveThreads = append(out.ActiveThreads, "comeback_brewing")
	}

	if absDiff >= 21 {
		out.IsBlowout = true
		out.ActiveThreads = append(out.ActiveThreads, "blowout")
	}
	if absDiff >= 28 {
		out.IsDominatingPerformance = true
	}

	// Two-minute drill: fourth quarter, clock under two minutes, trailing
	// team driving.
	if snap.Quarter == 4 && snap.Clock < 120 {
		trailing := models.SideHome
		if diff > 0 {
			trailing = models.SideAway
		}
		if diff != 0 && snap.Possession == trailing {
			out.ActiveThreads = append(out.ActiveThreads, "two_minute_drill")
		}
	}

	if snap.BallPosition >= 80 {
		out.ActiveThreads = append(out.ActiveThreads, "red_zone")
	}

	out.DramaLevel = dramaLevel(snap, absDiff, out)

	// Fold into history after deriving the snapshot.
	if diff < 0 && -diff > n.maxHomeDeficit {
		n.maxHomeDeficit = -diff
	}
	if diff > 0 && diff > n.maxAwayDeficit {
		n.maxAwayDeficit = diff
	}

	return out
}

// dramaLevel scores the moment 0-100. Blowouts are capped at 20 no matter
// what else is happening.
func dramaLevel(snap models.GameSnapshot, absDiff int, flags *models.NarrativeSnapshot) int {
	level := 10

	// Closeness dominates.
	switch {
	case absDiff == 0:
		level += 25
	case absDiff <= 3:
		level += 22
	case absDiff <= 8:
		level += 16
	case absDiff <= 16:
		level += 6
	}

	// Lateness raises the stakes.
	if snap.Quarter >= 4 {
		level += 15
		if snap.Clock <= 300 {
			level += 10
		}
	} else if snap.Quarter == 3 {
		level += 5
	}
	if snap.IsOvertime() {
		level += 20
	}

	if flags.IsClutchMoment {
		level += 20
	}
	if flags.IsComebackBrewing {
		level += 15
	}
	if snap.BallPosition >= 80 {
		level += 8
	}

	if level > 100 {
		level = 100
	}
	if flags.IsBlowout && level > 20 {
		level = 20
	}
	return level
}
