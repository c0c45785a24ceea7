// Package enemy generates procedurally scaled opponents.
package enemy

import (
	"github.com/cory-johannsen/binary-boxer/internal/game/dice"
	"github.com/cory-johannsen/binary-boxer/internal/game/ruleset"
	"github.com/cory-johannsen/binary-boxer/internal/game/stats"
)

const (
	// BossInterval makes every fifth fight a boss fight.
	BossInterval = 5

	bossStatMult = 1.5
	bossHPMult   = 2.0
)

// Enemy is the descriptor of one generated opponent. A boss carries its
// catalogue ability, taunt, and overlay so a stored fight replays identically
// even if the catalogue changes later.
type Enemy struct {
	Name    string              `json:"name"`
	Level   int                 `json:"level"`
	Stats   stats.Vector        `json:"stats"`
	IsBoss  bool                `json:"isBoss"`
	Ability string              `json:"bossAbility,omitempty"`
	Taunt   string              `json:"bossTagline,omitempty"`
	Overlay ruleset.BossOverlay `json:"overlay"`
}

// IsBossFight reports whether the given fight number is a boss fight.
func IsBossFight(fightNumber int) bool {
	return fightNumber > 0 && fightNumber%BossInterval == 0
}

// Generate builds the opponent for a fight. It is a pure function of its
// inputs: the same catalogue, level, fight number, and seed always yield the
// same Enemy.
//
//   - level = max(1, playerLevel + RangeAt(seed, -1, 2))
//   - name  = pool[RangeAt(seed+1, 0, len(pool)-1)], bosses drawn from the boss pool
//   - every growth stat = 10 + level*3, maxHp = 100 + level*15
//   - bosses: stats x1.5, maxHp x2, both rounded half-up
//
// Precondition: cat must be non-nil.
// Postcondition: Stats[HP] == Stats[MaxHP] and Level >= 1.
func Generate(cat *ruleset.Catalog, playerLevel, fightNumber int, seed int64) Enemy {
	if cat == nil {
		panic("enemy.Generate: precondition violated: catalogue must be non-nil")
	}
	boss := IsBossFight(fightNumber)
	level := max(1, playerLevel+dice.RangeAt(seed, -1, 2))

	stat := float64(10 + level*3)
	hp := float64(100 + level*15)
	if boss {
		stat = stats.Round(stat * bossStatMult)
		hp = stats.Round(hp * bossHPMult)
	}

	e := Enemy{
		Level:  level,
		Stats:  stats.Flat(stat, hp),
		IsBoss: boss,
	}
	if boss {
		bosses := cat.Bosses()
		b := bosses[dice.RangeAt(seed+1, 0, len(bosses)-1)]
		e.Name = b.Name
		e.Ability = b.Ability
		e.Taunt = b.Taunt
		e.Overlay = b.Overlay
		return e
	}
	names := cat.EnemyNames()
	e.Name = names[dice.RangeAt(seed+1, 0, len(names)-1)]
	return e
}
