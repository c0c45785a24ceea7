package stats_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/binary-boxer/internal/game/stats"
)

var (
	rust   = stats.Language{ID: "rust", Primary: stats.Defence, PrimaryBonus: 3, Secondary: stats.Stability, SecondaryBonus: 1}
	golang = stats.Language{ID: "go", Primary: stats.Speed, PrimaryBonus: 3, Secondary: stats.Counter, SecondaryBonus: 1}
	python = stats.Language{ID: "python", Primary: stats.Power, PrimaryBonus: 2, Secondary: stats.NoStat, AllStatsBonus: 2}
	lua    = stats.Language{ID: "lua", Primary: stats.Speed, PrimaryBonus: 2, Secondary: stats.Creativity, SecondaryBonus: 2}
	css    = stats.Language{ID: "css", Primary: stats.Creativity, PrimaryBonus: 3, Secondary: stats.CritChance, SecondaryBonus: 1}
)

func TestBase(t *testing.T) {
	b := stats.Base()
	assert.Equal(t, 100.0, b[stats.HP])
	assert.Equal(t, 100.0, b[stats.MaxHP])
	assert.Equal(t, 10.0, b[stats.Power])
	assert.Equal(t, 5.0, b[stats.Defence])
	assert.Equal(t, 5.0, b[stats.Speed])
	assert.Equal(t, 0.0, b[stats.Wisdom])
	assert.Equal(t, 0.0, b[stats.Penetration])
}

func TestForLevel_RustGoLevelOne(t *testing.T) {
	v := stats.ForLevel(rust, golang, 1, nil)
	assert.Equal(t, 110.0, v[stats.MaxHP])
	assert.Equal(t, 110.0, v[stats.HP])
	assert.Equal(t, 8.0, v[stats.Defence])
	assert.Equal(t, 8.0, v[stats.Speed])
	assert.Equal(t, 1.0, v[stats.Stability])
	assert.Equal(t, 1.0, v[stats.Counter])
	assert.Equal(t, 10.0, v[stats.Power])
}

func TestForLevel_AllStatsBonus(t *testing.T) {
	v := stats.ForLevel(python, rust, 3, nil)
	// power: 10 + 2*3 + 2*3
	assert.Equal(t, 22.0, v[stats.Power])
	// defence: 5 + 3*3 + 2*3
	assert.Equal(t, 20.0, v[stats.Defence])
	// wisdom only gets the all-stats bonus
	assert.Equal(t, 6.0, v[stats.Wisdom])
	// maxHp: 100 + 2*3 + 3*10
	assert.Equal(t, 136.0, v[stats.MaxHP])
	assert.Equal(t, v[stats.MaxHP], v[stats.HP])
}

func TestForLevel_LegacyFractionsPreserved(t *testing.T) {
	v := stats.ForLevel(rust, golang, 1, stats.Legacy{stats.Power: 1.3, stats.MaxHP: 2.5})
	assert.InDelta(t, 11.3, v[stats.Power], 1e-9)
	assert.InDelta(t, 112.5, v[stats.MaxHP], 1e-9)
	r := v.Rounded()
	assert.Equal(t, 11.0, r[stats.Power])
	assert.Equal(t, 113.0, r[stats.MaxHP])
}

func TestForLevel_Property_HPEqualsMaxHP(t *testing.T) {
	langs := []stats.Language{rust, golang, python, lua, css}
	rapid.Check(t, func(rt *rapid.T) {
		i := rapid.IntRange(0, len(langs)-1).Draw(rt, "a")
		j := rapid.IntRange(0, len(langs)-1).Draw(rt, "b")
		level := rapid.IntRange(1, 100).Draw(rt, "level")
		v := stats.ForLevel(langs[i], langs[j], level, nil)
		assert.Equal(rt, v[stats.MaxHP], v[stats.HP])
		for _, s := range stats.GrowthStats() {
			assert.GreaterOrEqual(rt, v[s], 0.0, "stat %s", s)
		}
	})
}

func TestXPRequired(t *testing.T) {
	assert.Equal(t, 50, stats.XPRequired(1))
	assert.Equal(t, 500, stats.XPRequired(10))
}

func TestXPForFight(t *testing.T) {
	tests := []struct {
		level     int
		won, boss bool
		want      int
	}{
		{1, false, false, 12},
		{1, true, false, 17},
		{5, true, true, 75},
		{5, false, true, 60},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, stats.XPForFight(tc.level, tc.won, tc.boss), "%+v", tc)
	}
}

func TestTrainingCost(t *testing.T) {
	assert.Equal(t, 0, stats.TrainingCost(0))
	assert.Equal(t, 150, stats.TrainingCost(15))
}

func TestApplyCompanionBuffs_DoesNotMutate(t *testing.T) {
	v := stats.ForLevel(lua, css, 5, nil)
	orig := v
	_ = stats.ApplyCompanionBuffs(v, stats.Companions{Veil: true, Echo: true}, lua, css)
	assert.Equal(t, orig, v)
}

func TestApplyCompanionBuffs_Veil(t *testing.T) {
	v := stats.Base().With(stats.Wisdom, 15)
	out := stats.ApplyCompanionBuffs(v, stats.Companions{Veil: true}, rust, golang)
	assert.Equal(t, 18.0, out[stats.Wisdom])
	assert.Equal(t, v[stats.CritChance], out[stats.CritChance])
}

func TestApplyCompanionBuffs_EchoPicksCombinedStrongest(t *testing.T) {
	// lua: speed+2 creativity+2; css: creativity+3 critChance+1 -> creativity 5
	v := stats.ForLevel(lua, css, 2, nil)
	out := stats.ApplyCompanionBuffs(v, stats.Companions{Echo: true}, lua, css)
	assert.Equal(t, stats.Round(v[stats.Creativity]*1.1), out[stats.Creativity])
	assert.Equal(t, stats.Round(v[stats.CritChance]*1.15), out[stats.CritChance])
	assert.Equal(t, v[stats.Speed], out[stats.Speed])
}

func TestApplyCompanionBuffs_EchoTieKeepsFirst(t *testing.T) {
	// rust defence 3, go speed 3: defence was seen first
	v := stats.ForLevel(rust, golang, 10, nil)
	out := stats.ApplyCompanionBuffs(v, stats.Companions{Echo: true}, rust, golang)
	assert.Equal(t, stats.Round(v[stats.Defence]*1.1), out[stats.Defence])
	assert.Equal(t, v[stats.Speed], out[stats.Speed])
}

func TestRound_HalfUp(t *testing.T) {
	assert.Equal(t, 3.0, stats.Round(2.5))
	assert.Equal(t, 2.0, stats.Round(2.49))
	assert.Equal(t, 0.3, stats.RoundTenth(0.25))
}

func TestParseStat(t *testing.T) {
	s, err := stats.ParseStat("blockChance")
	require.NoError(t, err)
	assert.Equal(t, stats.BlockChance, s)

	_, err = stats.ParseStat("luck")
	assert.Error(t, err)

	_, err = stats.ParseGrowthStat("hp")
	assert.Error(t, err)
}

func TestVector_JSONRoundTripKeepsFractions(t *testing.T) {
	v := stats.Base().With(stats.Power, 11.3)
	b, err := json.Marshal(v)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"maxHp":100`)
	assert.Contains(t, string(b), `"power":11.3`)

	var back stats.Vector
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, v, back)
}

func TestLegacy_JSONUsesStatKeys(t *testing.T) {
	b, err := json.Marshal(stats.Legacy{stats.PatternRead: 0.4})
	require.NoError(t, err)
	assert.JSONEq(t, `{"patternRead":0.4}`, string(b))

	var back stats.Legacy
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, 0.4, back[stats.PatternRead])
}

func TestGrowthStats_ExcludesHP(t *testing.T) {
	g := stats.GrowthStats()
	assert.Len(t, g, stats.Count-1)
	assert.NotContains(t, g, stats.HP)
}
