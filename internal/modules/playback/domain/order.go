package domain

import "fmt"

// OrderMap is the shuffle permutation over a queue's track sequence, with its
// inverse. Both directions are built and validated once at construction so
// navigation lookups are plain slice indexing.
type OrderMap struct {
	forward []int // effective index -> raw track index
	inverse []int // raw track index -> effective index
}

// NewOrderMap validates order as a permutation of 0..n-1 and builds the
// forward and inverse tables. Returns ErrMalformedQueue if order has the
// wrong length, contains an out-of-range entry, or repeats an entry.
func NewOrderMap(order []uint32, n int) (*OrderMap, error) {
	if len(order) != n {
		return nil, fmt.Errorf("order length %d does not match track count %d: %w", len(order), n, ErrMalformedQueue)
	}

	forward := make([]int, n)
	inverse := make([]int, n)
	for i := range inverse {
		inverse[i] = -1
	}

	for i, raw := range order {
		if int(raw) >= n {
			return nil, fmt.Errorf("order[%d] = %d exceeds track count %d: %w", i, raw, n, ErrMalformedQueue)
		}
		if inverse[raw] != -1 {
			return nil, fmt.Errorf("order repeats track index %d: %w", raw, ErrMalformedQueue)
		}
		forward[i] = int(raw)
		inverse[raw] = i
	}

	return &OrderMap{forward: forward, inverse: inverse}, nil
}

// Len returns the number of entries in the permutation.
func (m *OrderMap) Len() int {
	return len(m.forward)
}

// RawIndex resolves an effective-sequence index to the raw track index.
func (m *OrderMap) RawIndex(effective int) int {
	return m.forward[effective]
}

// EffectiveIndex resolves a raw track index to its effective-sequence
// position. Used when a controller names a track rather than a position.
func (m *OrderMap) EffectiveIndex(raw int) int {
	return m.inverse[raw]
}
