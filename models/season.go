package models

import "time"

// SeasonStatus is the phase of a season. Statuses only move forward in the
// declared order.
type SeasonStatus string

const (
	SeasonRegular    SeasonStatus = "regular_season"
	SeasonWildCard   SeasonStatus = "wild_card"
	SeasonDivisional SeasonStatus = "divisional"
	SeasonConfChamp  SeasonStatus = "conference_championship"
	SeasonSuperBowl  SeasonStatus = "super_bowl"
	SeasonOffseason  SeasonStatus = "offseason"
)

// seasonOrder gives each status its position in the lifecycle.
var seasonOrder = map[SeasonStatus]int{
	SeasonRegular:    0,
	SeasonWildCard:   1,
	SeasonDivisional: 2,
	SeasonConfChamp:  3,
	SeasonSuperBowl:  4,
	SeasonOffseason:  5,
}

// CanTransitionTo reports whether moving to next respects the forward-only
// status order.
func (s SeasonStatus) CanTransitionTo(next SeasonStatus) bool {
	a, ok := seasonOrder[s]
	b, ok2 := seasonOrder[next]
	return ok && ok2 && b == a+1
}

// StatusForWeek maps a week number onto the season phase it belongs to.
// Weeks 1-18 are the regular season; 19-22 are the playoff rounds.
func StatusForWeek(week int) SeasonStatus {
	switch {
	case week <= 18:
		return SeasonRegular
	case week == 19:
		return SeasonWildCard
	case week == 20:
		return SeasonDivisional
	case week == 21:
		return SeasonConfChamp
	default:
		return SeasonSuperBowl
	}
}

// Season is one league year. MasterSeed drives schedule generation and the
// derivation of per-game seeds.
type Season struct {
	ID             string       `json:"id" bson:"id"`
	SeasonNumber   int          `json:"seasonNumber" bson:"seasonNumber"`
	CurrentWeek    int          `json:"currentWeek" bson:"currentWeek"` // 1..22
	TotalWeeks     int          `json:"totalWeeks" bson:"totalWeeks"`   // 22
	Status         SeasonStatus `json:"status" bson:"status"`
	MasterSeed     string       `json:"masterSeed" bson:"masterSeed"` // hex, >=64 chars
	CreatedAt      time.Time    `json:"createdAt" bson:"createdAt"`
	WeekAdvancedAt time.Time    `json:"weekAdvancedAt" bson:"weekAdvancedAt"`
}

// IsPlayoffs reports whether the season is in a playoff round.
func (s *Season) IsPlayoffs() bool {
	return s.Status != SeasonRegular && s.Status != SeasonOffseason
}
