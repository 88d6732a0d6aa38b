// Package gateway maintains the websocket control channel to the streaming
// service's device-synchronization gateway. Frames are JSON envelopes whose
// payload carries the binary message bytes; the gateway routes payloads to
// per-type handlers registered by the modules and never interprets them
// itself.
package gateway

// Message types carried in envelope frames.
const (
	// TypeQueueList carries a complete queue snapshot.
	TypeQueueList = "queue.list"
	// TypeQueuePosition carries a current-index update.
	TypeQueuePosition = "queue.position"
	// TypeStatus carries a receiver status report to controllers.
	TypeStatus = "status"
	// TypePing and TypePong are the control-channel keepalive.
	TypePing = "ping"
	TypePong = "pong"
)

// Envelope is one control-channel frame. Payload is base64-encoded on the
// wire (encoding/json handles that for []byte) and may be empty for control
// frames like pings.
type Envelope struct {
	Type    string `json:"type"`
	Payload []byte `json:"payload,omitempty"`
}
