package stats

// Companion buff multipliers.
const (
	veilWisdomMult    = 1.2
	echoCritMult      = 1.15
	echoStrongestMult = 1.1
)

// XPRequired returns the XP needed to advance from level to level+1.
func XPRequired(level int) int {
	return level * 50
}

// XPForFight returns the XP awarded for a finished fight:
// 10 + enemyLevel*2 + 5 on a win, tripled against a boss.
func XPForFight(enemyLevel int, won, isBoss bool) int {
	xp := 10 + enemyLevel*2
	if won {
		xp += 5
	}
	if isBoss {
		xp *= 3
	}
	return xp
}

// TrainingCost returns the XP cost to raise a stat currently at value by one.
// A stat at zero costs nothing; callers that must not hand out free training
// apply their own floor.
func TrainingCost(value int) int {
	return value * 10
}

// Companions selects the active companion buffs.
type Companions struct {
	Veil bool
	Echo bool
}

// ApplyCompanionBuffs returns a buffed copy of v; v itself is never modified.
//
//   - Veil: wisdom x1.2
//   - Echo: critChance x1.15, and the stat with the highest combined language
//     bonus across a and b x1.1
//
// Every buffed field is rounded half-up.
func ApplyCompanionBuffs(v Vector, c Companions, a, b Language) Vector {
	if c.Veil {
		v[Wisdom] = Round(v[Wisdom] * veilWisdomMult)
	}
	if c.Echo {
		v[CritChance] = Round(v[CritChance] * echoCritMult)
		if s := strongestBonus(a, b); s != NoStat {
			v[s] = Round(v[s] * echoStrongestMult)
		}
	}
	return v
}
