// Package stats defines the robot stat vector and the pure formulas that derive
// it from language modules, level, and inherited legacy bonuses.
package stats

import "fmt"

// Stat names one field of the stat vector.
// The zero value is HP, the only non-growth stat.
type Stat int

const (
	HP Stat = iota
	MaxHP
	Power
	Defence
	Speed
	Wisdom
	Creativity
	Stability
	Adaptability
	Evasion
	BlockChance
	Counter
	CritChance
	PatternRead
	Penetration

	// Count is the number of stats in a Vector.
	Count int = iota
)

// NoStat marks an absent optional stat, such as a language module without a
// secondary bonus.
const NoStat Stat = -1

var statKeys = [Count]string{
	HP:           "hp",
	MaxHP:        "maxHp",
	Power:        "power",
	Defence:      "defence",
	Speed:        "speed",
	Wisdom:       "wisdom",
	Creativity:   "creativity",
	Stability:    "stability",
	Adaptability: "adaptability",
	Evasion:      "evasion",
	BlockChance:  "blockChance",
	Counter:      "counter",
	CritChance:   "critChance",
	PatternRead:  "patternRead",
	Penetration:  "penetration",
}

var growth = []Stat{
	MaxHP, Power, Defence, Speed, Wisdom, Creativity, Stability,
	Adaptability, Evasion, BlockChance, Counter, CritChance, PatternRead, Penetration,
}

// GrowthStats returns every stat except HP, in declaration order.
//
// Postcondition: the returned slice is a fresh copy of length Count-1.
func GrowthStats() []Stat {
	out := make([]Stat, len(growth))
	copy(out, growth)
	return out
}

// Valid reports whether s names a field of the stat vector.
func (s Stat) Valid() bool { return s >= HP && int(s) < Count }

// IsGrowth reports whether s is a growth stat (anything but HP).
func (s Stat) IsGrowth() bool { return s.Valid() && s != HP }

// String returns the wire key for s, e.g. "blockChance".
func (s Stat) String() string {
	if !s.Valid() {
		return fmt.Sprintf("stat(%d)", int(s))
	}
	return statKeys[s]
}

// ParseStat maps a wire key back to its Stat.
//
// Postcondition: returns an error iff key names no stat.
func ParseStat(key string) (Stat, error) {
	for i, k := range statKeys {
		if k == key {
			return Stat(i), nil
		}
	}
	return NoStat, fmt.Errorf("unknown stat %q", key)
}

// ParseGrowthStat is ParseStat restricted to growth stats.
func ParseGrowthStat(key string) (Stat, error) {
	s, err := ParseStat(key)
	if err != nil {
		return NoStat, err
	}
	if s == HP {
		return NoStat, fmt.Errorf("stat %q is not a growth stat", key)
	}
	return s, nil
}

// MarshalText implements encoding.TextMarshaler so Stat works as a JSON map key.
func (s Stat) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("marshalling invalid stat %d", int(s))
	}
	return []byte(statKeys[s]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Stat) UnmarshalText(b []byte) error {
	v, err := ParseStat(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
