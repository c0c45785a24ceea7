package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/binary-boxer/internal/game/combat"
	"github.com/cory-johannsen/binary-boxer/internal/game/stats"
)

func primaryOf(t *testing.T, m combat.Menu) combat.Action {
	t.Helper()
	var found []combat.Action
	for _, it := range m {
		if it.Primary {
			found = append(found, it.Action)
		}
	}
	require.Len(t, found, 1, "exactly one primary")
	return found[0]
}

func TestAvailableActions_BaseStatsOnlyStrike(t *testing.T) {
	m := combat.AvailableActions(stats.Base(), 100, 100)
	require.Len(t, m, 1)
	assert.Equal(t, combat.Strike, m[0].Action)
	assert.True(t, m[0].Primary)
	assert.Equal(t, "Strike", m[0].Name)
	assert.Equal(t, "Reliable", m[0].RiskLabel)
}

func TestAvailableActions_BestScoreIsPrimary(t *testing.T) {
	v := stats.Base().With(stats.Creativity, 20)
	m := combat.AvailableActions(v, 100, 100)
	assert.Equal(t, []combat.Action{combat.Strike, combat.HeavyStrike}, m.Actions())
	assert.Equal(t, combat.HeavyStrike, primaryOf(t, m)) // 20 + 10*0.5 > 10
}

func TestAvailableActions_ZeroScoresKeepStrikePrimary(t *testing.T) {
	v := stats.Base().With(stats.Power, 0)
	m := combat.AvailableActions(v, 10, 100)
	assert.Equal(t, []combat.Action{combat.Strike, combat.Berserk}, m.Actions())
	assert.Equal(t, combat.Strike, primaryOf(t, m))
}

func TestAvailableActions_TrimsToStrikePlusTopTwo(t *testing.T) {
	v := stats.Base()
	v[stats.Creativity] = 20
	v[stats.Wisdom] = 20
	v[stats.PatternRead] = 12
	v[stats.Adaptability] = 20
	v[stats.Speed] = 10
	// heavy 25, guard 20, analyse 24, overclock 30, combo 30
	m := combat.AvailableActions(v, 100, 100)
	assert.Equal(t, []combat.Action{combat.Strike, combat.Overclock, combat.Combo}, m.Actions())
	assert.Equal(t, combat.Overclock, primaryOf(t, m))
}

func TestAvailableActions_TrimmedStrikeStaysPrimaryWhenStrongest(t *testing.T) {
	v := stats.Base()
	v[stats.Power] = 100
	v[stats.Creativity] = 15
	v[stats.Wisdom] = 15
	v[stats.PatternRead] = 10
	v[stats.Adaptability] = 15
	// heavy 65, guard 15, analyse 20, overclock 20; combo stays locked
	m := combat.AvailableActions(v, 100, 100)
	require.Len(t, m, 3)
	assert.Equal(t, combat.HeavyStrike, m[1].Action)
	assert.Equal(t, combat.Strike, primaryOf(t, m))
}

func TestAvailableActions_BerserkThreshold(t *testing.T) {
	v := stats.Base()
	assert.True(t, combat.AvailableActions(v, 29, 100).Contains(combat.Berserk))
	assert.False(t, combat.AvailableActions(v, 30, 100).Contains(combat.Berserk))
	assert.False(t, combat.AvailableActions(v, 0, 0).Contains(combat.Berserk))
}

func TestAvailableActions_Properties(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		var v stats.Vector
		for _, s := range stats.GrowthStats() {
			v[s] = float64(rapid.IntRange(0, 60).Draw(rt, s.String()))
		}
		maxHP := float64(rapid.IntRange(1, 500).Draw(rt, "maxHp"))
		hp := float64(rapid.IntRange(0, int(maxHP)).Draw(rt, "hp"))
		m := combat.AvailableActions(v, hp, maxHP)

		assert.GreaterOrEqual(rt, len(m), 1)
		assert.LessOrEqual(rt, len(m), combat.MaxMenuSize)
		assert.Equal(rt, combat.Strike, m[0].Action)
		primaries := 0
		seen := map[combat.Action]bool{}
		for _, it := range m {
			assert.False(rt, seen[it.Action], "duplicate %s", it.Action)
			seen[it.Action] = true
			if it.Primary {
				primaries++
			}
		}
		assert.Equal(rt, 1, primaries)
		assert.True(rt, m.Contains(combat.AutoPick(m)))
	})
}

func TestAutoPick(t *testing.T) {
	assert.Equal(t, combat.Strike, combat.AutoPick(nil))
	assert.Equal(t, combat.Strike, combat.AutoPick(combat.Menu{{Action: combat.Guard}}))
	assert.Equal(t, combat.Combo, combat.AutoPick(combat.Menu{{Action: combat.Strike}, {Action: combat.Combo, Primary: true}}))
}

func TestParseAction(t *testing.T) {
	for _, a := range []combat.Action{combat.Strike, combat.HeavyStrike, combat.Guard, combat.Analyse, combat.Overclock, combat.Combo, combat.Berserk} {
		got, err := combat.ParseAction(string(a))
		require.NoError(t, err)
		assert.Equal(t, a, got)
		assert.NotEmpty(t, a.Info().Name)
	}
	_, err := combat.ParseAction("flee")
	assert.Error(t, err)
	assert.False(t, combat.Action("flee").Valid())
}

func TestStatToChance(t *testing.T) {
	assert.Equal(t, 0.0, combat.StatToChance(0, 50))
	assert.Equal(t, 0.0, combat.StatToChance(-5, 50))
	assert.Equal(t, 0.5, combat.StatToChance(50, 50))
	rapid.Check(t, func(rt *rapid.T) {
		s := rapid.Float64Range(0, 1e6).Draw(rt, "stat")
		k := rapid.Float64Range(1, 200).Draw(rt, "k")
		p := combat.StatToChance(s, k)
		assert.GreaterOrEqual(rt, p, 0.0)
		assert.Less(rt, p, 1.0)
	})
}
