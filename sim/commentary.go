package sim

import (
	"fmt"

	"gridblitz/models"
)

// buildCommentary wraps a play's factual description in broadcast color and
// scores its excitement. The RNG keeps phrasing deterministic per seed.
func buildCommentary(result *models.PlayResult, narrative *models.NarrativeSnapshot, rng *RNG) models.Commentary {
	excitement := excitementFor(result, narrative)

	text := result.Description
	switch {
	case result.IsTouchdown:
		text = WeightedChoice(rng, []Weighted[string]{
			{Value: "TOUCHDOWN! " + result.Description, Weight: 1},
			{Value: result.Description + " ... and that's six!", Weight: 1},
			{Value: "They find the end zone! " + result.Description, Weight: 1},
		})
	case result.Turnover != nil:
		text = WeightedChoice(rng, []Weighted[string]{
			{Value: "Turnover! " + result.Description, Weight: 1},
			{Value: result.Description + " ... a huge swing!", Weight: 1},
		})
	case result.IsBigPlay():
		text = fmt.Sprintf("What a play! %s", result.Description)
	case result.Type == models.PlaySack:
		text = WeightedChoice(rng, []Weighted[string]{
			{Value: result.Description + " ... he never saw it coming", Weight: 1},
			{Value: "The pocket collapses! " + result.Description, Weight: 1},
		})
	}

	if narrative != nil && narrative.IsClutchMoment && excitement < 95 {
		excitement += 5
	}

	return models.Commentary{Text: text, Excitement: clampExcitement(excitement)}
}

func excitementFor(result *models.PlayResult, narrative *models.NarrativeSnapshot) int {
	switch {
	case result.IsTouchdown:
		return 92
	case result.Turnover != nil && result.Turnover.ReturnedForTD:
		return 96
	case result.Turnover != nil:
		return 82
	case result.IsSafety:
		return 88
	case result.Scoring != nil && result.Scoring.Kind == models.ScoreFieldGoal:
		return 65
	case result.IsBigPlay():
		return 75
	case result.Type == models.PlaySack:
		return 60
	case result.Penalty != nil && !result.Penalty.Declined:
		return 45
	case result.IsFirstDown:
		return 50
	case result.Type == models.PlayPassIncomplete:
		return 25
	case result.Type == models.PlayKneel, result.Type == models.PlaySpike:
		return 15
	case result.YardsGained >= 5:
		return 40
	default:
		return 30
	}
}

func clampExcitement(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
