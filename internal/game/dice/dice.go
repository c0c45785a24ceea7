// Package dice provides the randomness abstractions used by the arena: a
// deterministic counter-based generator for combat and enemy generation, and a
// cryptographic source for minting fresh fight seeds.
package dice

// Source is the randomness provider for seed minting.
//
// Implementations MUST be safe for concurrent use unless documented otherwise.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// MaxSeed is the exclusive upper bound for minted fight seeds. Seeds stay
// within the positive int32 range so they survive any JSON round-trip intact.
const MaxSeed = 1<<31 - 1
