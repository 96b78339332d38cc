package services

import "gridblitz/interfaces"

// Interface compliance checks; these fail to compile if a service drifts
// from its contract.
var (
	_ interfaces.SeederService    = (*LeagueSeeder)(nil)
	_ interfaces.SeasonService    = (*SeasonService)(nil)
	_ interfaces.GameService      = (*GameService)(nil)
	_ interfaces.BroadcastService = (*BroadcastService)(nil)
)
