package combat

import (
	"math"

	"github.com/cory-johannsen/binary-boxer/internal/game/enemy"
	"github.com/cory-johannsen/binary-boxer/internal/game/stats"
)

// effects is a boss overlay resolved for one round. A zero-overlay enemy
// resolves to neutral effects.
type effects struct {
	playerDefenceMult  float64
	interruptChance    float64
	bonusDamage        int
	extraCrashChance   float64
	enemyStatMult      float64
	critImmune         bool
	enemyStabilityMult float64
	damageReduction    float64
	negatePlayerGuard  bool
	enemyAutoDodge     bool
	swapPowerDefence   bool
}

func neutralEffects() effects {
	return effects{playerDefenceMult: 1, enemyStatMult: 1, enemyStabilityMult: 1}
}

// effectsFor resolves e's overlay for round (1-based) against a player whose
// snapshot max HP is playerMaxHP.
func effectsFor(e enemy.Enemy, round int, playerMaxHP float64) effects {
	fx := neutralEffects()
	if !e.IsBoss {
		return fx
	}
	o := e.Overlay
	if o.PlayerDefenceMult > 0 {
		fx.playerDefenceMult = o.PlayerDefenceMult
	}
	fx.interruptChance = o.InterruptChance
	fx.bonusDamage = int(math.Floor(playerMaxHP * o.BonusDamageMaxHP))
	fx.extraCrashChance = o.ExtraCrashChance
	if o.EnemyStatGrowth > 0 {
		fx.enemyStatMult = 1 + o.EnemyStatGrowth*float64(round)
	}
	fx.critImmune = o.CritImmune
	if o.EnemyStabilityMult > 0 {
		fx.enemyStabilityMult = o.EnemyStabilityMult
	}
	fx.damageReduction = o.DamageReduction
	fx.negatePlayerGuard = o.NegatePlayerGuard
	fx.enemyAutoDodge = round <= o.AutoDodgeRounds
	fx.swapPowerDefence = round <= o.SwapPowerDefenceRounds
	return fx
}

// playerStats applies the overlay to a copy of the player's snapshot: the
// power/defence swap first, then the defence multiplier.
func (fx effects) playerStats(v stats.Vector) stats.Vector {
	if fx.swapPowerDefence {
		v[stats.Power], v[stats.Defence] = v[stats.Defence], v[stats.Power]
	}
	if fx.playerDefenceMult != 1 {
		v[stats.Defence] = stats.Round(v[stats.Defence] * fx.playerDefenceMult)
	}
	return v
}

// enemyStats applies the overlay to a copy of the enemy's stats. HP fields are
// never scaled.
func (fx effects) enemyStats(v stats.Vector) stats.Vector {
	if fx.enemyStatMult != 1 {
		for _, s := range stats.GrowthStats() {
			if s == stats.MaxHP {
				continue
			}
			v[s] = stats.Round(v[s] * fx.enemyStatMult)
		}
	}
	if fx.enemyStabilityMult != 1 {
		v[stats.Stability] = stats.Round(v[stats.Stability] * fx.enemyStabilityMult)
	}
	return v
}

// adjust applies the post-formula overlay rules to one hit by side: crit
// immunity and damage reduction on hits against the enemy, bonus damage on
// landed enemy hits.
func (fx effects) adjust(side Side, h hit) hit {
	if side == SidePlayer {
		if fx.critImmune && h.crit {
			h.crit = false
			h.damage = int(stats.Round(float64(h.damage) / 2))
		}
		if fx.damageReduction > 0 && h.damage > 0 {
			h.damage = max(1, int(stats.Round(float64(h.damage)*(1-fx.damageReduction))))
		}
		return h
	}
	if fx.bonusDamage > 0 && h.damage > 0 {
		h.damage += fx.bonusDamage
	}
	return h
}

// crashChance is the probability the player's action fails outright this
// round. Overclock carries a stability-reduced base risk floored at 5%; any
// other action only crashes under an overlay.
func (fx effects) crashChance(action Action, stability float64) float64 {
	if action == Overclock {
		return max(0.05, 0.2+fx.extraCrashChance-StatToChance(stability, stabilityHalfPoint))
	}
	return fx.extraCrashChance
}
