package dice

// increment is the odd Weyl-sequence step added to the state on every draw.
const increment uint32 = 0x6D2B79F5

// Seeded is a mulberry32 counter-based generator.
//
// Invariant: two Seeded values built from the same seed return identical
// sequences from Next, Range, Chance, and Intn for every call sequence.
//
// Seeded is NOT safe for concurrent use; every round of combat builds its own.
type Seeded struct {
	state uint32
	pos   int64
}

// NewSeeded returns a generator for seed. Only the low 32 bits of seed are
// significant.
//
// Postcondition: Position() == 0.
func NewSeeded(seed int64) *Seeded {
	return &Seeded{state: uint32(seed)}
}

// Next returns a uniform float in [0, 1).
func (s *Seeded) Next() float64 {
	s.pos++
	s.state += increment
	t := s.state
	t = (t ^ (t >> 15)) * (t | 1)
	t ^= t + (t^(t>>7))*(t|61)
	return float64(t^(t>>14)) / 4294967296.0
}

// Range returns an integer in [min, max], both ends inclusive.
//
// Precondition: max >= min.
func (s *Seeded) Range(min, max int) int {
	return int(s.Next()*float64(max-min+1)) + min
}

// Chance reports whether a draw falls below p. Chance(0) is always false and
// Chance(1) is always true.
func (s *Seeded) Chance(p float64) bool {
	return s.Next() < p
}

// Intn returns an int in [0, n), satisfying Source.
//
// Precondition: n > 0. Panics with "dice: Intn called with n <= 0" otherwise.
func (s *Seeded) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	return s.Range(0, n-1)
}

// Position returns the number of draws taken since construction.
func (s *Seeded) Position() int64 { return s.pos }

// First returns the first draw of a fresh generator for seed. It is the
// single-shot form used by the enemy generator.
func First(seed int64) float64 {
	return NewSeeded(seed).Next()
}

// RangeAt returns the first Range draw of a fresh generator for seed.
func RangeAt(seed int64, min, max int) int {
	return NewSeeded(seed).Range(min, max)
}
