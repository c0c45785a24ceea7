// Package dynasty implements the generational inheritance engine: how much of a
// retired robot's final stats carries forward into its descendants.
package dynasty

import (
	"math"

	"github.com/cory-johannsen/binary-boxer/internal/game/stats"
)

const (
	// BaseRate is the fraction of an ancestor's final stat inherited.
	BaseRate = 0.10
	// KindredMult boosts inheritance when the Kindred companion is present.
	KindredMult = 1.25
	// Decay is applied once per generation of distance.
	Decay = 0.98
)

// Inheritance computes the legacy a single parent passes on at the given
// generation distance.
//
// Postcondition: every entry is rounded to one decimal place and strictly
// positive; parent is not modified.
func Inheritance(parent stats.Vector, generation int, boost bool) stats.Legacy {
	legacy := stats.Legacy{}
	for _, s := range stats.GrowthStats() {
		if bonus := stats.RoundTenth(Share(parent[s], generation, boost)); bonus > 0 {
			legacy[s] = bonus
		}
	}
	return legacy
}

// Share is the unrounded part of value passed on across gap generations.
// For value > 0 it strictly decreases as gap grows.
func Share(value float64, gap int, boost bool) float64 {
	bonus := value * BaseRate
	if boost {
		bonus *= KindredMult
	}
	return bonus * math.Pow(Decay, float64(gap))
}

// TotalLegacy recomputes the legacy a new robot receives from its entire
// ancestry. The new robot's generation is one past the last ancestor's; each
// ancestor's contribution decays by its distance from that generation. Sums are
// rounded to one decimal place only at the end.
//
// Postcondition: returns an empty (non-nil) map when ancestors is empty; every
// entry is strictly positive.
func TotalLegacy(ancestors []Generation, boost bool) stats.Legacy {
	legacy := stats.Legacy{}
	if len(ancestors) == 0 {
		return legacy
	}
	current := ancestors[len(ancestors)-1].Number + 1

	var total stats.Vector
	for _, a := range ancestors {
		factor := math.Pow(Decay, float64(current-a.Number))
		for _, s := range stats.GrowthStats() {
			c := a.FinalStats[s] * BaseRate * factor
			if boost {
				c *= KindredMult
			}
			total[s] += c
		}
	}
	for _, s := range stats.GrowthStats() {
		if v := stats.RoundTenth(total[s]); v > 0 {
			legacy[s] = v
		}
	}
	return legacy
}
