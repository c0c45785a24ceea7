package stats

// Legacy is a sparse map from growth stat to a decayed, one-decimal bonus
// inherited from retired ancestors. Entries that round to zero are omitted.
type Legacy map[Stat]float64

// Clone returns an independent copy of l. A nil Legacy clones to an empty one.
func (l Legacy) Clone() Legacy {
	out := make(Legacy, len(l))
	for k, v := range l {
		out[k] = v
	}
	return out
}
