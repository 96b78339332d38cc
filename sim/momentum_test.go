package sim

import (
	"testing"

	"gridblitz/models"
)

func touchdownResult(team models.Side) *models.PlayResult {
	return &models.PlayResult{
		Type:        models.PlayRun,
		YardsGained: 8,
		IsTouchdown: true,
		Scoring:     &models.Scoring{Kind: models.ScoreTouchdown, Team: team, Points: 6},
	}
}

func TestMomentumStaysBounded(t *testing.T) {
	m := NewMomentumTracker()
	for i := 0; i < 50; i++ {
		m.Record(touchdownResult(models.SideHome), models.SideHome, (i+1)*7)
		v := m.Value()
		if v < -100 || v > 100 {
			t.Fatalf("momentum %v out of [-100, 100] after %d touchdowns", v, i+1)
		}
	}
	if m.Value() <= 50 {
		t.Errorf("momentum %v after a string of home touchdowns, want strongly positive", m.Value())
	}
}

func TestMomentumDirection(t *testing.T) {
	home := NewMomentumTracker()
	home.Record(touchdownResult(models.SideHome), models.SideHome, 7)
	if home.Value() <= 0 {
		t.Errorf("home touchdown produced momentum %v", home.Value())
	}

	away := NewMomentumTracker()
	away.Record(touchdownResult(models.SideAway), models.SideAway, -7)
	if away.Value() >= 0 {
		t.Errorf("away touchdown produced momentum %v", away.Value())
	}
}

func TestMomentumTurnoverSwingstowardDefense(t *testing.T) {
	m := NewMomentumTracker()
	pick := &models.PlayResult{
		Type: models.PlayPassIncomplete,
		Turnover: &models.Turnover{
			Kind:        models.TurnoverInterception,
			RecoveredBy: models.SideAway,
		},
	}
	m.Record(pick, models.SideHome, 0)
	if m.Value() >= 0 {
		t.Errorf("home interception thrown produced momentum %v, want negative", m.Value())
	}
}

func TestMomentumFadesWithoutReinforcement(t *testing.T) {
	m := NewMomentumTracker()
	m.Record(touchdownResult(models.SideHome), models.SideHome, 0)
	peak := m.Value()

	neutral := &models.PlayResult{Type: models.PlayRun, YardsGained: 0}
	for i := 0; i < 3*momentumWindow; i++ {
		m.Record(neutral, models.SideHome, 0)
	}
	if m.Value() >= peak {
		t.Errorf("momentum did not fade: peak %v, now %v", peak, m.Value())
	}
	if m.Value() > 5 {
		t.Errorf("momentum %v still strong after %d neutral plays", m.Value(), 3*momentumWindow)
	}
}

func TestModifierForRespectsCap(t *testing.T) {
	m := NewMomentumTracker()
	for i := 0; i < 20; i++ {
		m.Record(touchdownResult(models.SideHome), models.SideHome, 35)
	}

	homeMod := m.ModifierFor(models.SideHome)
	awayMod := m.ModifierFor(models.SideAway)

	if homeMod < 0 || homeMod > resolverModifierCap {
		t.Errorf("home modifier %v out of [0, %v]", homeMod, resolverModifierCap)
	}
	if awayMod != -homeMod {
		t.Errorf("modifiers not symmetric: home %v, away %v", homeMod, awayMod)
	}

	if fresh := NewMomentumTracker().ModifierFor(models.SideHome); fresh != 0 {
		t.Errorf("fresh tracker modifier %v, want 0", fresh)
	}
}
