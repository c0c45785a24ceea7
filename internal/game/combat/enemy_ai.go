package combat

import (
	"github.com/cory-johannsen/binary-boxer/internal/game/dice"
	"github.com/cory-johannsen/binary-boxer/internal/game/stats"
)

const (
	enemyBerserkHPFraction = 0.3
	enemyBerserkChance     = 0.6
)

type weighted struct {
	action Action
	weight float64
}

// EnemyAction picks the enemy's move for a round. Below 30% HP the enemy goes
// berserk with 60% probability; otherwise it draws from a weighted pool whose
// entries unlock at the same thresholds as the player menu.
//
// Postcondition: consumes one draw from rng, or two when the berserk check runs
// and fails.
func EnemyAction(v stats.Vector, hpFraction float64, rng *dice.Seeded) Action {
	if hpFraction < enemyBerserkHPFraction && rng.Chance(enemyBerserkChance) {
		return Berserk
	}

	pool := []weighted{{Strike, 30}}
	if v[stats.Creativity] >= heavyStrikeCreativity {
		pool = append(pool, weighted{HeavyStrike, 20})
	}
	if v[stats.Wisdom] >= guardWisdom {
		pool = append(pool, weighted{Guard, 15})
	}
	if v[stats.Creativity]+v[stats.Speed] > comboCreativitySpeed {
		pool = append(pool, weighted{Combo, 18})
	}
	if v[stats.Adaptability] >= overclockAdaptability {
		pool = append(pool, weighted{Overclock, 10})
	}

	var total float64
	for _, w := range pool {
		total += w.weight
	}
	roll := rng.Next() * total
	for _, w := range pool {
		roll -= w.weight
		if roll <= 0 {
			return w.action
		}
	}
	return Strike
}
