package combat

import (
	"github.com/cory-johannsen/binary-boxer/internal/game/dice"
	"github.com/cory-johannsen/binary-boxer/internal/game/stats"
)

// Half-points for the diminishing-returns stat conversions: the stat value at
// which the derived probability reaches 50%.
const (
	dodgeHalfPoint     = 80
	critHalfPoint      = 50
	blockHalfPoint     = 50
	counterHalfPoint   = 75
	stabilityHalfPoint = 60
)

const (
	heavyStrikeMissChance = 0.2
	levelPowerScale       = 0.05
	critMult              = 2.0
	blockMult             = 0.5
	guardBlockBoost       = 0.5
	guardBlockCap         = 0.9
	guardCounterBoost     = 0.3
	guardCounterCap       = 0.8
	counterPowerScale     = 0.6
	berserkDefenceMult    = 0.5
)

// actionMult scales base damage per action; unlisted actions use 1.
var actionMult = map[Action]float64{
	HeavyStrike: 1.5,
	Combo:       0.7,
	Berserk:     2.0,
	Overclock:   1.1,
}

// StatToChance converts a raw stat to a probability with diminishing returns:
// stat/(stat+halfPoint), or 0 for non-positive stats.
//
// Postcondition: 0 <= result < 1.
func StatToChance(stat, halfPoint float64) float64 {
	if stat <= 0 {
		return 0
	}
	return stat / (stat + halfPoint)
}

// fighter is one side's per-round view: overlay-adjusted stats, level, and the
// action it committed to this round.
type fighter struct {
	side    Side
	stats   stats.Vector
	level   int
	action  Action
	crashed bool
}

func (f fighter) guarding() bool { return f.action == Guard }
func (f fighter) berserk() bool  { return f.action == Berserk }

// hit is the outcome of one pass through the damage formula.
type hit struct {
	damage        int
	crit          bool
	blocked       bool
	dodged        bool
	counter       bool
	counterDamage int
}

// levelPower is power scaled by 5% per level.
func levelPower(v stats.Vector, level int) float64 {
	return v[stats.Power] * (1 + float64(level)*levelPowerScale)
}

// strike resolves attacker's action against defender, drawing from rng in a
// fixed order: dodge, heavy-strike miss, crit, block, counter.
func strike(rng *dice.Seeded, attacker, defender fighter, action Action) hit {
	if !action.dealsDamage() {
		return hit{}
	}
	if rng.Chance(StatToChance(defender.stats[stats.Evasion], dodgeHalfPoint)) {
		return hit{dodged: true}
	}
	if action == HeavyStrike && rng.Chance(heavyStrikeMissChance) {
		return hit{dodged: true}
	}

	dmg := levelPower(attacker.stats, attacker.level)
	if m, ok := actionMult[action]; ok {
		dmg *= m
	}

	pen := max(0, 1-attacker.stats[stats.Penetration]/100)
	defence := defender.stats[stats.Defence] * pen
	if defender.berserk() {
		defence *= berserkDefenceMult
	}
	dmg = max(1, dmg-defence)

	var h hit
	if rng.Chance(StatToChance(attacker.stats[stats.CritChance], critHalfPoint)) {
		h.crit = true
		dmg *= critMult
	}

	block := StatToChance(defender.stats[stats.BlockChance], blockHalfPoint)
	if defender.guarding() {
		block = min(guardBlockCap, block+guardBlockBoost)
	}
	if rng.Chance(block) {
		h.blocked = true
		dmg *= blockMult

		counter := StatToChance(defender.stats[stats.Counter], counterHalfPoint)
		if defender.guarding() {
			counter = min(guardCounterCap, counter+guardCounterBoost)
		}
		if rng.Chance(counter) {
			h.counter = true
			base := levelPower(defender.stats, defender.level) * counterPowerScale
			reduction := attacker.stats[stats.Defence] * (1 - defender.stats[stats.Penetration]/100)
			h.counterDamage = max(1, int(stats.Round(base-reduction)))
		}
	}
	h.damage = int(stats.Round(dmg))
	return h
}
