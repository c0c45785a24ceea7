package ruleset_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/binary-boxer/internal/game/ruleset"
	"github.com/cory-johannsen/binary-boxer/internal/game/stats"
)

func TestDefault_HasFullCatalogue(t *testing.T) {
	c := ruleset.Default()
	require.NotNil(t, c)
	assert.Len(t, c.Languages(), 10)
	assert.Len(t, c.EnemyNames(), 36)
	assert.Len(t, c.Bosses(), 10)
	assert.Equal(t, "NULLPTR", c.EnemyNames()[0])
	assert.Equal(t, "PROMISE_REJECT", c.EnemyNames()[35])
	assert.Equal(t, "THE_COMPILER", c.Bosses()[0].Name)
}

func TestDefault_LanguageBonuses(t *testing.T) {
	c := ruleset.Default()

	rust, err := c.Language("rust")
	require.NoError(t, err)
	assert.Equal(t, stats.Defence, rust.Primary)
	assert.Equal(t, 3, rust.PrimaryBonus)
	assert.Equal(t, stats.Stability, rust.Secondary)
	assert.Equal(t, 1, rust.SecondaryBonus)

	python, err := c.Language("python")
	require.NoError(t, err)
	assert.False(t, python.HasSecondary())
	assert.Equal(t, stats.NoStat, python.Secondary)
	assert.Equal(t, 2, python.AllStatsBonus)

	cpp, err := c.Language("cpp")
	require.NoError(t, err)
	assert.Equal(t, "C++", cpp.Name)
	assert.Equal(t, stats.BlockChance, cpp.Secondary)
}

func TestLanguage_UnknownReturnsSentinel(t *testing.T) {
	_, err := ruleset.Default().Language("cobol")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ruleset.ErrUnknownLanguage))
}

func TestDefault_BossOverlays(t *testing.T) {
	c := ruleset.Default()
	cases := map[string]func(o ruleset.BossOverlay) bool{
		"THE_COMPILER":      func(o ruleset.BossOverlay) bool { return o.PlayerDefenceMult == 0.75 },
		"GARBAGE_COLLECTOR": func(o ruleset.BossOverlay) bool { return o.NegatePlayerGuard },
		"RUNTIME_EXCEPTION": func(o ruleset.BossOverlay) bool { return o.InterruptChance == 0.3 },
		"THE_DEBUGGER":      func(o ruleset.BossOverlay) bool { return o.AutoDodgeRounds == 3 },
		"CORE_DUMP":         func(o ruleset.BossOverlay) bool { return o.BonusDamageMaxHP == 0.1 },
		"BLUE_SCREEN":       func(o ruleset.BossOverlay) bool { return o.ExtraCrashChance == 0.2 },
		"THE_REWRITE":       func(o ruleset.BossOverlay) bool { return o.SwapPowerDefenceRounds == 3 },
		"TECH_DEBT":         func(o ruleset.BossOverlay) bool { return o.EnemyStatGrowth == 0.05 },
		"LEGACY_CODE":       func(o ruleset.BossOverlay) bool { return o.CritImmune && o.EnemyStabilityMult == 2 },
		"THE_MONOLITH":      func(o ruleset.BossOverlay) bool { return o.DamageReduction == 0.15 },
	}
	for name, check := range cases {
		b, ok := c.Boss(name)
		require.True(t, ok, name)
		assert.True(t, check(b.Overlay), name)
		assert.NotEmpty(t, b.Ability, name)
		assert.NotEmpty(t, b.Taunt, name)
	}
	_, ok := c.Boss("NULLPTR")
	assert.False(t, ok)
}

func TestCatalog_AccessorsReturnCopies(t *testing.T) {
	c := ruleset.Default()
	names := c.EnemyNames()
	names[0] = "MUTATED"
	assert.Equal(t, "NULLPTR", c.EnemyNames()[0])

	bosses := c.Bosses()
	bosses[0].Name = "MUTATED"
	assert.Equal(t, "THE_COMPILER", c.Bosses()[0].Name)
}

const minimalCatalogue = `
languages:
  - id: a
    name: A
    primary: { stat: power, bonus: 1 }
  - id: b
    name: B
    primary: { stat: speed, bonus: 2 }
    secondary: { stat: evasion, bonus: 1 }
enemy_names: [GRUNT]
bosses:
  - name: BIG
    overlay: { damage_reduction: 0.5 }
`

func TestParseCatalog_Minimal(t *testing.T) {
	c, err := ruleset.ParseCatalog([]byte(minimalCatalogue))
	require.NoError(t, err)
	b, err := c.Language("b")
	require.NoError(t, err)
	assert.Equal(t, stats.Evasion, b.Secondary)
	big, ok := c.Boss("BIG")
	require.True(t, ok)
	assert.Equal(t, 0.5, big.Overlay.DamageReduction)
}

func TestParseCatalog_RejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"one language": `
languages: [{id: a, name: A, primary: {stat: power, bonus: 1}}]
enemy_names: [X]
bosses: [{name: B}]`,
		"duplicate language": `
languages:
  - {id: a, name: A, primary: {stat: power, bonus: 1}}
  - {id: a, name: A, primary: {stat: power, bonus: 1}}
enemy_names: [X]
bosses: [{name: B}]`,
		"hp is not a growth stat": `
languages:
  - {id: a, name: A, primary: {stat: hp, bonus: 1}}
  - {id: b, name: B, primary: {stat: power, bonus: 1}}
enemy_names: [X]
bosses: [{name: B}]`,
		"unknown stat": `
languages:
  - {id: a, name: A, primary: {stat: luck, bonus: 1}}
  - {id: b, name: B, primary: {stat: power, bonus: 1}}
enemy_names: [X]
bosses: [{name: B}]`,
		"no enemies": `
languages:
  - {id: a, name: A, primary: {stat: power, bonus: 1}}
  - {id: b, name: B, primary: {stat: power, bonus: 1}}
bosses: [{name: B}]`,
		"no bosses": `
languages:
  - {id: a, name: A, primary: {stat: power, bonus: 1}}
  - {id: b, name: B, primary: {stat: power, bonus: 1}}
enemy_names: [X]`,
		"bad overlay": `
languages:
  - {id: a, name: A, primary: {stat: power, bonus: 1}}
  - {id: b, name: B, primary: {stat: power, bonus: 1}}
enemy_names: [X]
bosses: [{name: B, overlay: {interrupt_chance: 1.5}}]`,
		"not yaml": `languages: [`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ruleset.ParseCatalog([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadCatalog_EmptyPathIsDefault(t *testing.T) {
	c, err := ruleset.LoadCatalog("")
	require.NoError(t, err)
	assert.Same(t, ruleset.Default(), c)
}

func TestLoadCatalog_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalCatalogue), 0o644))
	c, err := ruleset.LoadCatalog(path)
	require.NoError(t, err)
	assert.Len(t, c.Languages(), 2)
}

func TestLoadCatalog_DirectoryMergesSections(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "01_languages.yaml"), []byte(`
languages:
  - {id: a, name: A, primary: {stat: power, bonus: 1}}
  - {id: b, name: B, primary: {stat: speed, bonus: 1}}
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "02_enemies.yml"), []byte(`
enemy_names: [X, Y]
bosses: [{name: BIG, taunt: hi}]
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	c, err := ruleset.LoadCatalog(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"X", "Y"}, c.EnemyNames())
	assert.Len(t, c.Languages(), 2)
}

func TestLoadCatalog_MissingPath(t *testing.T) {
	_, err := ruleset.LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestBossOverlay_ValidateProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		o := ruleset.BossOverlay{
			InterruptChance:   rapid.Float64Range(0, 1).Draw(rt, "interrupt"),
			ExtraCrashChance:  rapid.Float64Range(0, 1).Draw(rt, "crash"),
			DamageReduction:   rapid.Float64Range(0, 1).Draw(rt, "reduction"),
			PlayerDefenceMult: rapid.Float64Range(0, 4).Draw(rt, "defMult"),
			AutoDodgeRounds:   rapid.IntRange(0, 10).Draw(rt, "dodge"),
		}
		assert.NoError(rt, o.Validate())
	})
}

func TestBossOverlay_IsZero(t *testing.T) {
	assert.True(t, ruleset.BossOverlay{}.IsZero())
	assert.False(t, ruleset.BossOverlay{CritImmune: true}.IsZero())
}

func TestMustLanguage(t *testing.T) {
	c := ruleset.Default()
	assert.Equal(t, "Go", c.MustLanguage("go").Name)
	assert.Panics(t, func() { c.MustLanguage("cobol") })
}
