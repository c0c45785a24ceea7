package stats

import (
	"encoding/json"
	"fmt"
	"math"
)

// Vector is a full stat vector. It is an array value: assignment copies it, so
// two snapshots never alias.
//
// Invariant (after any engine operation): 0 <= v[HP] <= v[MaxHP].
type Vector [Count]float64

// Base returns the starting vector for a new robot: hp=maxHp=100, power=10,
// defence=5, speed=5, everything else 0.
func Base() Vector {
	var v Vector
	v[HP] = 100
	v[MaxHP] = 100
	v[Power] = 10
	v[Defence] = 5
	v[Speed] = 5
	return v
}

// Flat returns a vector with every non-HP growth stat set to stat and both HP
// fields set to hp.
func Flat(stat, hp float64) Vector {
	var v Vector
	for _, s := range growth {
		v[s] = stat
	}
	v[MaxHP] = hp
	v[HP] = hp
	return v
}

// Get returns the value of s.
func (v Vector) Get(s Stat) float64 { return v[s] }

// With returns a copy of v with s set to value.
func (v Vector) With(s Stat, value float64) Vector {
	v[s] = value
	return v
}

// Int returns the value of s rounded half-up to an int.
func (v Vector) Int(s Stat) int { return int(Round(v[s])) }

// Rounded returns a copy of v with every field rounded half-up. This is the form
// in which vectors are persisted.
func (v Vector) Rounded() Vector {
	for i := range v {
		v[i] = Round(v[i])
	}
	return v
}

// Round rounds half-up to the nearest integer, matching the game's display
// rounding for non-negative values.
func Round(x float64) float64 {
	return math.Floor(x + 0.5)
}

// RoundTenth rounds half-up to one decimal place.
func RoundTenth(x float64) float64 {
	return math.Floor(x*10+0.5) / 10
}

// MarshalJSON writes v as an object keyed by stat name.
func (v Vector) MarshalJSON() ([]byte, error) {
	m := make(map[string]float64, Count)
	for i, k := range statKeys {
		m[k] = v[i]
	}
	return json.Marshal(m)
}

// UnmarshalJSON reads an object keyed by stat name. Missing keys are zero.
func (v *Vector) UnmarshalJSON(b []byte) error {
	var m map[string]float64
	if err := json.Unmarshal(b, &m); err != nil {
		return fmt.Errorf("decoding stat vector: %w", err)
	}
	var out Vector
	for k, val := range m {
		s, err := ParseStat(k)
		if err != nil {
			return fmt.Errorf("decoding stat vector: %w", err)
		}
		out[s] = val
	}
	*v = out
	return nil
}
