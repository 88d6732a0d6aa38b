package domain

import "fmt"

// QueueState is one complete snapshot of a playback queue: its contexts, its
// flat track sequence, the optional shuffle order and the logical timestamp
// used for last-writer-wins reconciliation. Snapshots are immutable once
// constructed; an accepted update replaces the whole state, never patches it.
type QueueState struct {
	ID        string
	Contexts  []Context
	Tracks    []Track
	Shuffled  bool
	Timestamp uint64

	// nil order means the effective sequence is the raw track sequence.
	order *OrderMap
}

// NewQueueState validates a decoded queue list and builds the snapshot.
//
// Every track's context reference must be in range and, when shuffled, order
// must be a full-length permutation of the track indices; violations return
// ErrMalformedQueue. As a known controller quirk, shuffled lists may arrive
// with no order at all (typically for small or empty queues); those degrade
// to identity order and the returned degraded flag lets the caller log it.
// When shuffled is false, any order on the wire is ignored.
func NewQueueState(id string, contexts []Context, tracks []Track, order []uint32, shuffled bool, timestamp uint64) (*QueueState, bool, error) {
	for i, t := range tracks {
		if t.ContextIndex < 0 || t.ContextIndex >= len(contexts) {
			return nil, false, fmt.Errorf("track %d (%s): context index %d out of range (have %d contexts): %w",
				i, t.ID, t.ContextIndex, len(contexts), ErrMalformedQueue)
		}
	}

	qs := &QueueState{
		ID:        id,
		Contexts:  contexts,
		Tracks:    tracks,
		Shuffled:  shuffled,
		Timestamp: timestamp,
	}

	degraded := false
	if shuffled {
		if len(order) == 0 {
			degraded = true
		} else {
			m, err := NewOrderMap(order, len(tracks))
			if err != nil {
				return nil, false, err
			}
			qs.order = m
		}
	}

	return qs, degraded, nil
}

// EffectiveLen returns the length of the effective playback sequence.
func (q *QueueState) EffectiveLen() int {
	return len(q.Tracks)
}

// RawIndex resolves an effective-sequence index to the raw track index.
// The caller must ensure effective is in range.
func (q *QueueState) RawIndex(effective int) int {
	if q.order == nil {
		return effective
	}
	return q.order.RawIndex(effective)
}

// EffectiveIndexOf resolves a raw track index to its position in the
// effective sequence.
func (q *QueueState) EffectiveIndexOf(raw int) int {
	if q.order == nil {
		return raw
	}
	return q.order.EffectiveIndex(raw)
}

// TrackAt resolves an effective-sequence index into the track at that
// position, paired with its context. Returns false when the index is out of
// range.
func (q *QueueState) TrackAt(effective int) (*PlayedTrack, bool) {
	if effective < 0 || effective >= q.EffectiveLen() {
		return nil, false
	}
	t := q.Tracks[q.RawIndex(effective)]
	return &PlayedTrack{
		Track:          t,
		Context:        q.Contexts[t.ContextIndex],
		EffectiveIndex: effective,
	}, true
}
