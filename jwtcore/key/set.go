package key

// Set is an ordered list of candidate SecurityKeys, as enumerated by a
// ValidationParameters' configured key sources. Order is preserved because
// the Validator reports SigningKeyNotFound vs InvalidSignature based on
// whether any candidate matched the header's hints before any unmatched
// fallback is tried.
type Set []SecurityKey

// Partition splits s into keys that Match hints and keys that don't,
// preserving the relative order within each group.
func (s Set) Partition(hints Hints) (matched, unmatched Set) {
	for _, k := range s {
		if k.Matches(hints) {
			matched = append(matched, k)
		} else {
			unmatched = append(unmatched, k)
		}
	}
	return
}

// WithID returns a filter matching keys by ID.
func WithID(kid string) func(SecurityKey) bool {
	return func(k SecurityKey) bool {
		return k.ID() == kid
	}
}

// First returns the first key in s for which f returns true, or nil.
func (s Set) First(f func(SecurityKey) bool) SecurityKey {
	for _, k := range s {
		if f(k) {
			return k
		}
	}
	return nil
}
