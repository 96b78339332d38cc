package models

// Position is a roster position.
type Position string

const (
	PositionQB Position = "QB"
	PositionRB Position = "RB"
	PositionWR Position = "WR"
	PositionTE Position = "TE"
	PositionOL Position = "OL"
	PositionDL Position = "DL"
	PositionLB Position = "LB"
	PositionCB Position = "CB"
	PositionS  Position = "S"
	PositionK  Position = "K"
	PositionP  Position = "P"
)

// Player belongs to a team roster. Ratings run 60-99.
type Player struct {
	ID           string   `json:"id" bson:"id"`
	TeamID       string   `json:"teamId" bson:"teamId"`
	Name         string   `json:"name" bson:"name"`
	Position     Position `json:"position" bson:"position"`
	JerseyNumber int      `json:"jerseyNumber" bson:"jerseyNumber"`
	Rating       int      `json:"rating" bson:"rating"`
	Speed        int      `json:"speed" bson:"speed"`
	Strength     int      `json:"strength" bson:"strength"`
	Awareness    int      `json:"awareness" bson:"awareness"`
	ClutchRating int      `json:"clutchRating" bson:"clutchRating"`
	InjuryProne  bool     `json:"injuryProne" bson:"injuryProne"`
}

// Roster groups a team's players with position lookups the resolver needs
// on every play.
type Roster struct {
	TeamID  string
	Players []Player

	byPosition map[Position][]*Player
}

// NewRoster builds a roster with its position index.
func NewRoster(teamID string, players []Player) *Roster {
	r := &Roster{TeamID: teamID, Players: players}
	r.byPosition = make(map[Position][]*Player)
	for i := range r.Players {
		p := &r.Players[i]
		r.byPosition[p.Position] = append(r.byPosition[p.Position], p)
	}
	return r
}

// AtPosition returns all players at the given position, in roster order.
func (r *Roster) AtPosition(pos Position) []*Player {
	return r.byPosition[pos]
}

// Starter returns the highest-rated player at the position, or nil if the
// roster carries none.
func (r *Roster) Starter(pos Position) *Player {
	var best *Player
	for _, p := range r.byPosition[pos] {
		if best == nil || p.Rating > best.Rating {
			best = p
		}
	}
	return best
}
