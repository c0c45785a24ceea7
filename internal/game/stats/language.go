package stats

// Language is an immutable language module definition. A robot equips two
// distinct modules; each grants per-level bonuses to one or two growth stats.
type Language struct {
	ID             string
	Name           string
	Primary        Stat
	PrimaryBonus   int
	Secondary      Stat // NoStat (or any non-growth stat) when absent
	SecondaryBonus int
	// AllStatsBonus is added per level to every growth stat, maxHp included.
	AllStatsBonus int
	Colour        string
	Flavour       string
}

// HasSecondary reports whether the module carries a secondary bonus.
func (l Language) HasSecondary() bool { return l.Secondary.IsGrowth() }

// ForLevel computes a robot's full stat vector from its two language modules,
// level, and inherited legacy bonuses.
//
// Language and all-stats bonuses are level-scaled integers; legacy values are
// added as-is, so the result may carry fractional remainders. Callers round with
// Vector.Rounded when persisting.
//
// Postcondition: v[HP] == v[MaxHP].
func ForLevel(a, b Language, level int, legacy Legacy) Vector {
	v := Base()
	for _, l := range []Language{a, b} {
		v[l.Primary] += float64(l.PrimaryBonus * level)
		if l.HasSecondary() {
			v[l.Secondary] += float64(l.SecondaryBonus * level)
		}
	}
	for _, l := range []Language{a, b} {
		if l.AllStatsBonus == 0 {
			continue
		}
		for _, s := range growth {
			v[s] += float64(l.AllStatsBonus * level)
		}
	}
	for _, s := range growth {
		if bonus, ok := legacy[s]; ok {
			v[s] += bonus
		}
	}
	v[MaxHP] += float64(level * 10)
	v[HP] = v[MaxHP]
	return v
}

// strongestBonus returns the growth stat with the highest combined per-level
// bonus across both modules. Ties keep the stat seen first (a's primary, a's
// secondary, b's primary, b's secondary). Returns NoStat if no bonus is positive.
func strongestBonus(a, b Language) Stat {
	type entry struct {
		stat  Stat
		bonus int
	}
	var order []entry
	add := func(s Stat, bonus int) {
		if !s.IsGrowth() {
			return
		}
		for i := range order {
			if order[i].stat == s {
				order[i].bonus += bonus
				return
			}
		}
		order = append(order, entry{stat: s, bonus: bonus})
	}
	add(a.Primary, a.PrimaryBonus)
	add(a.Secondary, a.SecondaryBonus)
	add(b.Primary, b.PrimaryBonus)
	add(b.Secondary, b.SecondaryBonus)

	best, bestBonus := NoStat, 0
	for _, e := range order {
		if e.bonus > bestBonus {
			best, bestBonus = e.stat, e.bonus
		}
	}
	return best
}
