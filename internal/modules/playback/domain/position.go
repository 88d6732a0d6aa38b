package domain

// Position is the independently versioned pointer into a queue's effective
// playback sequence. Controllers move it far more often than they resend the
// queue itself, so it carries its own timestamp for last-writer-wins
// reconciliation, decoupled from the QueueState timestamp.
type Position struct {
	QueueID   string
	Index     int
	Timestamp uint64
}
