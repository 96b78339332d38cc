package database

import "gridblitz/interfaces"

// Interface compliance checks; these fail to compile if a repository drifts
// from its contract.
var (
	_ interfaces.TeamRepository      = (*MongoTeamRepository)(nil)
	_ interfaces.PlayerRepository    = (*MongoPlayerRepository)(nil)
	_ interfaces.SeasonRepository    = (*MongoSeasonRepository)(nil)
	_ interfaces.GameRepository      = (*MongoGameRepository)(nil)
	_ interfaces.EventRepository     = (*MongoEventRepository)(nil)
	_ interfaces.StandingsRepository = (*MongoStandingsRepository)(nil)
)
