package dynasty_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/binary-boxer/internal/game/dynasty"
	"github.com/cory-johannsen/binary-boxer/internal/game/stats"
)

func parentWith(power, maxHP float64) stats.Vector {
	var v stats.Vector
	v[stats.Power] = power
	v[stats.MaxHP] = maxHP
	v[stats.HP] = maxHP
	return v
}

func TestInheritance_DecayAndRounding(t *testing.T) {
	legacy := dynasty.Inheritance(parentWith(50, 110), 1, false)
	assert.Equal(t, 4.9, legacy[stats.Power])
	assert.Equal(t, 10.8, legacy[stats.MaxHP])
	_, hasHP := legacy[stats.HP]
	assert.False(t, hasHP, "hp is never inherited")
	_, hasSpeed := legacy[stats.Speed]
	assert.False(t, hasSpeed, "zero stats are omitted")
}

func TestInheritance_KindredBoost(t *testing.T) {
	legacy := dynasty.Inheritance(parentWith(50, 0), 1, true)
	assert.Equal(t, 6.1, legacy[stats.Power])
}

func TestInheritance_TinyValuesDropOut(t *testing.T) {
	var v stats.Vector
	v[stats.Counter] = 0.4
	legacy := dynasty.Inheritance(v, 0, false)
	assert.Empty(t, legacy)
}

func TestInheritance_DoesNotMutateParent(t *testing.T) {
	parent := parentWith(50, 110)
	before := parent
	dynasty.Inheritance(parent, 3, true)
	assert.Equal(t, before, parent)
}

func TestShare_StrictlyDecaysWithGap(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		value := rapid.Float64Range(0.01, 1e6).Draw(rt, "value")
		gap := rapid.IntRange(0, 200).Draw(rt, "gap")
		boost := rapid.Bool().Draw(rt, "boost")

		near := dynasty.Share(value, gap, boost)
		far := dynasty.Share(value, gap+1, boost)
		assert.Greater(rt, near, far)
		assert.Greater(rt, far, 0.0)

		var parent stats.Vector
		parent[stats.Power] = value
		assert.GreaterOrEqual(rt,
			dynasty.Inheritance(parent, gap, boost)[stats.Power],
			dynasty.Inheritance(parent, gap+1, boost)[stats.Power],
			"rounded inheritance never grows with distance")
	})
}

func TestTotalLegacy_Empty(t *testing.T) {
	legacy := dynasty.TotalLegacy(nil, true)
	require.NotNil(t, legacy)
	assert.Empty(t, legacy)
}

func TestTotalLegacy_SumsDecayedAncestors(t *testing.T) {
	ancestors := []dynasty.Generation{
		{Number: 1, FinalStats: parentWith(50, 0)},
		{Number: 2, FinalStats: parentWith(100, 0)},
	}
	assert.Equal(t, 14.6, dynasty.TotalLegacy(ancestors, false)[stats.Power])
	assert.Equal(t, 18.3, dynasty.TotalLegacy(ancestors, true)[stats.Power])
}

func TestTotalLegacy_MatchesSingleInheritance(t *testing.T) {
	// A lone ancestor one generation back contributes exactly Inheritance(gap=1).
	rapid.Check(t, func(rt *rapid.T) {
		var v stats.Vector
		for _, s := range stats.GrowthStats() {
			v[s] = float64(rapid.IntRange(0, 500).Draw(rt, s.String()))
		}
		boost := rapid.Bool().Draw(rt, "boost")
		n := rapid.IntRange(1, 40).Draw(rt, "gen")
		total := dynasty.TotalLegacy([]dynasty.Generation{{Number: n, FinalStats: v}}, boost)
		single := dynasty.Inheritance(v, 1, boost)
		for _, s := range stats.GrowthStats() {
			assert.InDelta(rt, single[s], total[s], 0.1001, s.String())
		}
	})
}

func TestTotalLegacy_EntriesPositive(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		count := rapid.IntRange(1, 6).Draw(rt, "count")
		gens := make([]dynasty.Generation, count)
		for i := range gens {
			var v stats.Vector
			for _, s := range stats.GrowthStats() {
				v[s] = float64(rapid.IntRange(0, 200).Draw(rt, "stat"))
			}
			gens[i] = dynasty.Generation{Number: i + 1, FinalStats: v}
		}
		for s, v := range dynasty.TotalLegacy(gens, rapid.Bool().Draw(rt, "boost")) {
			assert.True(rt, s.IsGrowth())
			assert.Greater(rt, v, 0.0)
		}
	})
}

func TestTitleFor_Bands(t *testing.T) {
	cases := map[int]dynasty.Title{
		0: dynasty.TitlePrototype, 1: dynasty.TitlePrototype,
		2: dynasty.TitleLineage,
		3: dynasty.TitleLegacy, 4: dynasty.TitleLegacy,
		5: dynasty.TitleDynasty, 9: dynasty.TitleDynasty,
		10: dynasty.TitleEmpire, 24: dynasty.TitleEmpire,
		25: dynasty.TitleEternal, 100: dynasty.TitleEternal,
	}
	for gen, want := range cases {
		assert.Equal(t, want, dynasty.TitleFor(gen), "generation %d", gen)
	}
}

func TestDynasty_AppendAccumulates(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	d := dynasty.New("d-1", "alice", now)
	assert.Equal(t, dynasty.TitlePrototype, d.Title())

	require.NoError(t, d.Append(dynasty.Generation{Number: 1, FinalLevel: 7, TotalFights: 25, Wins: 15, Cause: dynasty.CauseVoluntary}))
	require.NoError(t, d.Append(dynasty.Generation{Number: 2, FinalLevel: 5, TotalFights: 31, Wins: 20, Cause: dynasty.CauseKO}))

	assert.Equal(t, 56, d.TotalFights)
	assert.Equal(t, 35, d.TotalWins)
	assert.Equal(t, 7, d.DeepestLevel)
	assert.Equal(t, dynasty.TitleLegacy, d.Title())
	latest, ok := d.Latest()
	require.True(t, ok)
	assert.Equal(t, 2, latest.Number)
}

func TestDynasty_AppendRejectsOutOfOrderAndBadCause(t *testing.T) {
	d := dynasty.New("d-1", "alice", time.Now())
	require.NoError(t, d.Append(dynasty.Generation{Number: 2, Cause: dynasty.CauseKO}))
	assert.Error(t, d.Append(dynasty.Generation{Number: 2, Cause: dynasty.CauseKO}))
	assert.Error(t, d.Append(dynasty.Generation{Number: 3, Cause: "bored"}))
	assert.Len(t, d.Generations, 1)
}

func TestNew_PanicsOnEmptyIdentity(t *testing.T) {
	assert.Panics(t, func() { dynasty.New("", "alice", time.Now()) })
	assert.Panics(t, func() { dynasty.New("id", "", time.Now()) })
}

func TestGeneration_JSONKeepsLegacyFractions(t *testing.T) {
	g := dynasty.Generation{Number: 3, RobotName: "Rusty", Cause: dynasty.CauseVoluntary, FinalStats: parentWith(42, 150)}
	data, err := json.Marshal(g)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"causeOfRetirement":"voluntary"`)

	var back dynasty.Generation
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, g.FinalStats, back.FinalStats)
	assert.Equal(t, dynasty.TitleLegacy, back.Title())
}
