package models

// Conference is one of the two NFL conferences.
type Conference string

const (
	ConferenceAFC Conference = "AFC"
	ConferenceNFC Conference = "NFC"
)

// Division is a compass division within a conference.
type Division string

const (
	DivisionNorth Division = "N"
	DivisionSouth Division = "S"
	DivisionEast  Division = "E"
	DivisionWest  Division = "W"
)

// PlayStyle biases a team's play calling.
type PlayStyle string

const (
	StyleBalanced     PlayStyle = "balanced"
	StylePassHeavy    PlayStyle = "pass_heavy"
	StyleRunHeavy     PlayStyle = "run_heavy"
	StyleAggressive   PlayStyle = "aggressive"
	StyleConservative PlayStyle = "conservative"
)

// Team is a franchise. Teams are static after seeding: exactly 32, four per
// (conference, division) pair.
type Team struct {
	ID             string     `json:"id" bson:"id"`
	Abbreviation   string     `json:"abbreviation" bson:"abbreviation"` // unique, <=5 chars
	City           string     `json:"city" bson:"city"`
	Mascot         string     `json:"mascot" bson:"mascot"`
	Conference     Conference `json:"conference" bson:"conference"`
	Division       Division   `json:"division" bson:"division"`
	OffenseRating  int        `json:"offenseRating" bson:"offenseRating"` // 0-100
	DefenseRating  int        `json:"defenseRating" bson:"defenseRating"` // 0-100
	SpecialRating  int        `json:"specialRating" bson:"specialRating"` // 0-100
	PlayStyle      PlayStyle  `json:"playStyle" bson:"playStyle"`
	PrimaryColor   string     `json:"primaryColor" bson:"primaryColor"`
	SecondaryColor string     `json:"secondaryColor" bson:"secondaryColor"`
}

// Name returns the full display name, e.g. "Rockford Renegades".
func (t *Team) Name() string {
	return t.City + " " + t.Mascot
}

// SameDivision reports whether two teams share a conference and division.
func (t *Team) SameDivision(other *Team) bool {
	return t.Conference == other.Conference && t.Division == other.Division
}
