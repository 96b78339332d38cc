package models

import "time"

// GameStatus is the lifecycle state of a game. Statuses proceed
// scheduled -> simulating -> broadcasting -> completed with no regressions.
type GameStatus string

const (
	GameScheduled    GameStatus = "scheduled"
	GameSimulating   GameStatus = "simulating"
	GameBroadcasting GameStatus = "broadcasting"
	GameCompleted    GameStatus = "completed"
)

var gameOrder = map[GameStatus]int{
	GameScheduled:    0,
	GameSimulating:   1,
	GameBroadcasting: 2,
	GameCompleted:    3,
}

// CanTransitionTo reports whether next is the immediate successor status.
func (s GameStatus) CanTransitionTo(next GameStatus) bool {
	a, ok := gameOrder[s]
	b, ok2 := gameOrder[next]
	return ok && ok2 && b == a+1
}

// GameType classifies a game within the season structure.
type GameType string

const (
	GameTypeRegular    GameType = "regular"
	GameTypeWildCard   GameType = "wild_card"
	GameTypeDivisional GameType = "divisional"
	GameTypeConfChamp  GameType = "conference_championship"
	GameTypeSuperBowl  GameType = "super_bowl"
)

// TypeForStatus maps a season phase to the game type played in it.
func TypeForStatus(status SeasonStatus) GameType {
	switch status {
	case SeasonWildCard:
		return GameTypeWildCard
	case SeasonDivisional:
		return GameTypeDivisional
	case SeasonConfChamp:
		return GameTypeConfChamp
	case SeasonSuperBowl:
		return GameTypeSuperBowl
	default:
		return GameTypeRegular
	}
}

// Game is one scheduled or played matchup. ServerSeedHash is the public
// commitment written when simulation begins; ServerSeed is stored at
// simulation time but hidden from public views until the game completes.
type Game struct {
	ID                 string     `json:"id" bson:"id"`
	SeasonID           string     `json:"seasonId" bson:"seasonId"`
	Week               int        `json:"week" bson:"week"`
	GameType           GameType   `json:"gameType" bson:"gameType"`
	HomeTeamID         string     `json:"homeTeamId" bson:"homeTeamId"`
	AwayTeamID         string     `json:"awayTeamId" bson:"awayTeamId"`
	HomeScore          int        `json:"homeScore" bson:"homeScore"`
	AwayScore          int        `json:"awayScore" bson:"awayScore"`
	Status             GameStatus `json:"status" bson:"status"`
	IsFeatured         bool       `json:"isFeatured" bson:"isFeatured"`
	ServerSeedHash     string     `json:"serverSeedHash" bson:"serverSeedHash"` // SHA-256 hex, 64 chars
	ServerSeed         string     `json:"serverSeed,omitempty" bson:"serverSeed,omitempty"`
	ClientSeed         string     `json:"clientSeed" bson:"clientSeed"`
	Nonce              uint64     `json:"nonce" bson:"nonce"` // final draw count
	TotalPlays         int        `json:"totalPlays" bson:"totalPlays"`
	BoxScore           *BoxScore  `json:"boxScore,omitempty" bson:"boxScore,omitempty"`
	BroadcastStartedAt *time.Time `json:"broadcastStartedAt,omitempty" bson:"broadcastStartedAt,omitempty"`
	CompletedAt        *time.Time `json:"completedAt,omitempty" bson:"completedAt,omitempty"`
	CreatedAt          time.Time  `json:"createdAt" bson:"createdAt"`
}

// IsCompleted reports whether the game is final.
func (g *Game) IsCompleted() bool {
	return g.Status == GameCompleted
}

// IsLive reports whether the game is currently being broadcast.
func (g *Game) IsLive() bool {
	return g.Status == GameBroadcasting
}

// PublicGame is the spoiler-safe projection of a Game. Scores and the
// revealed server seed are withheld until the game completes.
type PublicGame struct {
	ID                 string     `json:"id"`
	SeasonID           string     `json:"seasonId"`
	Week               int        `json:"week"`
	GameType           GameType   `json:"gameType"`
	HomeTeamID         string     `json:"homeTeamId"`
	AwayTeamID         string     `json:"awayTeamId"`
	HomeScore          *int       `json:"homeScore"`
	AwayScore          *int       `json:"awayScore"`
	Status             GameStatus `json:"status"`
	IsFeatured         bool       `json:"isFeatured"`
	ServerSeedHash     string     `json:"serverSeedHash"`
	ServerSeed         *string    `json:"serverSeed"`
	ClientSeed         string     `json:"clientSeed"`
	Nonce              uint64     `json:"nonce"`
	TotalPlays         int        `json:"totalPlays"`
	BoxScore           *BoxScore  `json:"boxScore,omitempty"`
	BroadcastStartedAt *time.Time `json:"broadcastStartedAt"`
	CompletedAt        *time.Time `json:"completedAt"`
}

// PublicView hides scores and the server seed while a game is in flight.
func (g *Game) PublicView() PublicGame {
	pub := PublicGame{
		ID:                 g.ID,
		SeasonID:           g.SeasonID,
		Week:               g.Week,
		GameType:           g.GameType,
		HomeTeamID:         g.HomeTeamID,
		AwayTeamID:         g.AwayTeamID,
		Status:             g.Status,
		IsFeatured:         g.IsFeatured,
		ServerSeedHash:     g.ServerSeedHash,
		ClientSeed:         g.ClientSeed,
		Nonce:              g.Nonce,
		TotalPlays:         g.TotalPlays,
		BroadcastStartedAt: g.BroadcastStartedAt,
		CompletedAt:        g.CompletedAt,
	}
	if g.IsCompleted() {
		home, away := g.HomeScore, g.AwayScore
		seed := g.ServerSeed
		pub.HomeScore = &home
		pub.AwayScore = &away
		pub.ServerSeed = &seed
		pub.BoxScore = g.BoxScore
	}
	return pub
}
