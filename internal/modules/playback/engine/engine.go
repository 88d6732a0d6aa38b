// Package engine reconciles queue and position updates from remote
// controllers against the locally held playback state and answers the
// navigation queries of the audio pipeline.
//
// The engine holds exactly one session: a (QueueState, Position) pair swapped
// as a unit under a single mutex, so a navigation query can never observe a
// position computed against a previous queue snapshot. Each unit follows
// last-writer-wins on its own logical timestamp; everything here is pure
// in-memory work, so holding the lock across an update is cheap.
package engine

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/klovach/resound/internal/modules/playback/domain"
	"github.com/klovach/resound/internal/modules/playback/ports"
	"github.com/klovach/resound/internal/modules/playback/wire"
)

// Clock produces the logical timestamps stamped onto locally originated
// position changes. The protocol derives timestamps from wall-clock
// milliseconds; tests inject a fixed clock.
type Clock func() uint64

func wallClock() uint64 {
	return uint64(time.Now().UnixMilli())
}

// session is the atomically swapped composite of the held queue snapshot and
// the playback position resolved against it.
type session struct {
	queue    *domain.QueueState
	position domain.Position
}

// Engine is the playback queue synchronization engine.
type Engine struct {
	mu   sync.Mutex
	sess *session

	// pending holds at most one position per queue id for which no queue
	// list has been accepted yet (network reordering). Entries are resolved
	// or dropped when the next queue list is accepted.
	pending map[string]domain.Position

	publisher ports.EventPublisher
	now       Clock
}

// NewEngine creates an Engine. publisher may be nil to disable events; clock
// may be nil to use wall-clock milliseconds.
func NewEngine(publisher ports.EventPublisher, clock Clock) *Engine {
	if clock == nil {
		clock = wallClock
	}
	return &Engine{
		pending:   make(map[string]domain.Position),
		publisher: publisher,
		now:       clock,
	}
}

// ApplyQueueUpdate decodes and reconciles a queue-list message. A decode or
// validation failure drops the message and leaves held state untouched; a
// stale timestamp is discarded silently. Both are safe under re-delivery.
func (e *Engine) ApplyQueueUpdate(payload []byte) error {
	l, err := wire.DecodeList(payload)
	if err != nil {
		return fmt.Errorf("queue update: %w", err)
	}

	qs, degraded, err := domain.NewQueueState(l.ID, l.Contexts, l.Tracks, l.Order, l.Shuffled, l.Timestamp)
	if err != nil {
		return fmt.Errorf("queue update: %w", err)
	}
	if degraded {
		slog.Warn("shuffled queue arrived without an order table, playing in list order",
			"queue_id", qs.ID, "tracks", qs.EffectiveLen())
	}

	e.mu.Lock()
	var pos domain.Position
	cause := domain.PositionCauseRemote

	switch {
	case e.sess != nil && e.sess.queue.ID == qs.ID:
		if qs.Timestamp <= e.sess.queue.Timestamp {
			held := e.sess.queue.Timestamp
			e.mu.Unlock()
			slog.Debug("discarded stale queue update",
				"queue_id", qs.ID, "timestamp", qs.Timestamp, "held_timestamp", held)
			return nil
		}
		// The held position survives the snapshot swap; if the queue shrank
		// under it, playback stays pinned at the new boundary.
		pos = e.sess.position
		pos.Index = clampIndex(pos.Index, qs.EffectiveLen())

	default:
		// First snapshot, or a fresh session under a new queue id. An old
		// position means nothing against an unrelated queue, so start at
		// index 0 unless a position for this very id arrived ahead of its
		// queue list.
		cause = domain.PositionCauseReset
		pos = domain.Position{QueueID: qs.ID, Index: 0, Timestamp: qs.Timestamp}
		if buffered, ok := e.pending[qs.ID]; ok {
			pos = buffered
			pos.Index = clampIndex(pos.Index, qs.EffectiveLen())
		}
		// Positions buffered for any other queue id are superseded now.
		clear(e.pending)
	}

	e.sess = &session{queue: qs, position: pos}
	trackID := e.currentTrackIDLocked()
	e.mu.Unlock()

	slog.Info("applied queue update",
		"queue_id", qs.ID, "tracks", qs.EffectiveLen(), "shuffled", qs.Shuffled, "timestamp", qs.Timestamp)

	if e.publisher != nil {
		e.publisher.PublishQueueReplaced(domain.QueueReplacedEvent{
			QueueID:    qs.ID,
			Timestamp:  qs.Timestamp,
			Shuffled:   qs.Shuffled,
			TrackCount: qs.EffectiveLen(),
		})
		e.publisher.PublishPositionChanged(domain.PositionChangedEvent{
			QueueID: qs.ID,
			Index:   pos.Index,
			TrackID: trackID,
			Cause:   cause,
		})
	}
	return nil
}

// ApplyPositionUpdate decodes and reconciles a current-index message. A
// position for a queue id that is not held yet is buffered until its queue
// list arrives; that is not an error.
func (e *Engine) ApplyPositionUpdate(payload []byte) error {
	c, err := wire.DecodeCurrentIndex(payload)
	if err != nil {
		return fmt.Errorf("position update: %w", err)
	}
	pos := domain.Position{QueueID: c.ID, Index: int(c.Index), Timestamp: c.Timestamp}

	e.mu.Lock()
	if e.sess == nil || e.sess.queue.ID != pos.QueueID {
		if prev, ok := e.pending[pos.QueueID]; !ok || pos.Timestamp > prev.Timestamp {
			e.pending[pos.QueueID] = pos
		}
		e.mu.Unlock()
		slog.Debug("buffered position for queue not held yet",
			"queue_id", pos.QueueID, "index", pos.Index)
		return nil
	}

	if pos.Timestamp <= e.sess.position.Timestamp {
		held := e.sess.position.Timestamp
		e.mu.Unlock()
		slog.Debug("discarded stale position update",
			"queue_id", pos.QueueID, "timestamp", pos.Timestamp, "held_timestamp", held)
		return nil
	}

	pos.Index = clampIndex(pos.Index, e.sess.queue.EffectiveLen())
	e.sess = &session{queue: e.sess.queue, position: pos}
	trackID := e.currentTrackIDLocked()
	e.mu.Unlock()

	if e.publisher != nil {
		e.publisher.PublishPositionChanged(domain.PositionChangedEvent{
			QueueID: pos.QueueID,
			Index:   pos.Index,
			TrackID: trackID,
			Cause:   domain.PositionCauseRemote,
		})
	}
	return nil
}

// Current returns the track at the playback position, or false when no queue
// is held or the held queue is empty.
func (e *Engine) Current() (*domain.PlayedTrack, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.sess == nil {
		return nil, false
	}
	return e.sess.queue.TrackAt(e.sess.position.Index)
}

// Next moves playback to the following track of the effective sequence and
// returns it. At the end of the queue it returns false and leaves the
// position unchanged; wrap-around is a policy for layers above this engine.
func (e *Engine) Next() (*domain.PlayedTrack, bool) {
	return e.step(1)
}

// Previous moves playback to the preceding track of the effective sequence
// and returns it. At index 0 it returns false and leaves the position
// unchanged.
func (e *Engine) Previous() (*domain.PlayedTrack, bool) {
	return e.step(-1)
}

func (e *Engine) step(delta int) (*domain.PlayedTrack, bool) {
	e.mu.Lock()
	if e.sess == nil {
		e.mu.Unlock()
		return nil, false
	}

	index := e.sess.position.Index + delta
	played, ok := e.sess.queue.TrackAt(index)
	if !ok {
		e.mu.Unlock()
		return nil, false
	}

	e.sess = &session{
		queue: e.sess.queue,
		position: domain.Position{
			QueueID:   e.sess.queue.ID,
			Index:     index,
			Timestamp: e.now(),
		},
	}
	queueID := e.sess.queue.ID
	e.mu.Unlock()

	if e.publisher != nil {
		e.publisher.PublishPositionChanged(domain.PositionChangedEvent{
			QueueID: queueID,
			Index:   index,
			TrackID: played.Track.ID,
			Cause:   domain.PositionCauseAdvance,
		})
	}
	return played, true
}

// Seek moves playback to an explicit effective-sequence index. Out-of-range
// indices return ErrIndexOutOfRange without touching the position: this path
// serves explicit external requests, which are never clamped silently.
func (e *Engine) Seek(index int) (*domain.PlayedTrack, error) {
	e.mu.Lock()
	if e.sess == nil {
		e.mu.Unlock()
		return nil, ErrNoQueue
	}

	played, ok := e.sess.queue.TrackAt(index)
	if !ok {
		e.mu.Unlock()
		return nil, fmt.Errorf("seek to %d of %d: %w", index, e.sess.queue.EffectiveLen(), ErrIndexOutOfRange)
	}

	e.sess = &session{
		queue: e.sess.queue,
		position: domain.Position{
			QueueID:   e.sess.queue.ID,
			Index:     index,
			Timestamp: e.now(),
		},
	}
	queueID := e.sess.queue.ID
	e.mu.Unlock()

	if e.publisher != nil {
		e.publisher.PublishPositionChanged(domain.PositionChangedEvent{
			QueueID: queueID,
			Index:   index,
			TrackID: played.Track.ID,
			Cause:   domain.PositionCauseSeek,
		})
	}
	return played, nil
}

// Status is an outward-facing snapshot of the held session for telemetry.
type Status struct {
	QueueID        string
	QueueTimestamp uint64
	Shuffled       bool
	TrackCount     int
	Index          int
	TrackID        string
}

// Status returns a snapshot of the held session, or false when no queue has
// been accepted yet.
func (e *Engine) Status() (Status, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.sess == nil {
		return Status{}, false
	}
	return Status{
		QueueID:        e.sess.queue.ID,
		QueueTimestamp: e.sess.queue.Timestamp,
		Shuffled:       e.sess.queue.Shuffled,
		TrackCount:     e.sess.queue.EffectiveLen(),
		Index:          e.sess.position.Index,
		TrackID:        e.currentTrackIDLocked(),
	}, true
}

// currentTrackIDLocked resolves the id of the track at the held position.
// Callers must hold e.mu and have checked e.sess != nil.
func (e *Engine) currentTrackIDLocked() string {
	if played, ok := e.sess.queue.TrackAt(e.sess.position.Index); ok {
		return played.Track.ID
	}
	return ""
}

// clampIndex pins an index from protocol reconciliation into 0..n-1. An
// index past the end of a shrunken queue lands on the last track; an empty
// queue pins to 0.
func clampIndex(i, n int) int {
	if n == 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
