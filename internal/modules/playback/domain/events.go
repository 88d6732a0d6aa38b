package domain

// PositionCause describes what moved the playback position.
type PositionCause string

const (
	// PositionCauseRemote means a controller sent a current-index update.
	PositionCauseRemote PositionCause = "remote"
	// PositionCauseSeek means the audio pipeline requested an explicit seek.
	PositionCauseSeek PositionCause = "seek"
	// PositionCauseAdvance means playback moved to the next track naturally.
	PositionCauseAdvance PositionCause = "advance"
	// PositionCauseReset means a new queue session replaced the old one.
	PositionCauseReset PositionCause = "reset"
)

// QueueReplacedEvent is published when a queue list update is accepted and
// the held snapshot is swapped.
type QueueReplacedEvent struct {
	QueueID    string
	Timestamp  uint64
	Shuffled   bool
	TrackCount int
}

// PositionChangedEvent is published whenever the playback position changes,
// whether driven remotely or locally.
type PositionChangedEvent struct {
	QueueID string
	Index   int
	TrackID string // empty when the queue is empty
	Cause   PositionCause
}
