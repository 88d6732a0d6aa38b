package playback

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/klovach/resound/internal/modules/playback/domain"
	"github.com/klovach/resound/internal/modules/playback/engine"
	"github.com/klovach/resound/internal/modules/playback/infrastructure"
	"github.com/klovach/resound/internal/modules/playback/ports"
)

// statusReport is the outward telemetry frame controllers receive whenever
// the held queue or position changes.
type statusReport struct {
	DeviceID       string `json:"device_id"`
	DeviceName     string `json:"device_name"`
	QueueID        string `json:"queue_id"`
	QueueTimestamp uint64 `json:"queue_timestamp"`
	Shuffled       bool   `json:"shuffled"`
	TrackCount     int    `json:"track_count"`
	Index          int    `json:"index"`
	TrackID        string `json:"track_id,omitempty"`
}

// StatusReporter reports the engine's session state back to controllers on
// every engine event. Send failures are logged and dropped; the next event
// carries a complete snapshot anyway.
type StatusReporter struct {
	engine     *engine.Engine
	sender     ports.StatusSender
	deviceID   string
	deviceName string
}

// NewStatusReporter creates a StatusReporter.
func NewStatusReporter(eng *engine.Engine, sender ports.StatusSender, deviceID, deviceName string) *StatusReporter {
	return &StatusReporter{
		engine:     eng,
		sender:     sender,
		deviceID:   deviceID,
		deviceName: deviceName,
	}
}

// Subscribe registers the reporter on the module event bus.
func (r *StatusReporter) Subscribe(bus *infrastructure.EventBus) {
	bus.OnQueueReplaced(func(_ context.Context, _ domain.QueueReplacedEvent) {
		r.report()
	})
	bus.OnPositionChanged(func(_ context.Context, _ domain.PositionChangedEvent) {
		r.report()
	})
}

func (r *StatusReporter) report() {
	st, ok := r.engine.Status()
	if !ok {
		return
	}

	payload, err := json.Marshal(statusReport{
		DeviceID:       r.deviceID,
		DeviceName:     r.deviceName,
		QueueID:        st.QueueID,
		QueueTimestamp: st.QueueTimestamp,
		Shuffled:       st.Shuffled,
		TrackCount:     st.TrackCount,
		Index:          st.Index,
		TrackID:        st.TrackID,
	})
	if err != nil {
		slog.Error("failed to marshal status report", "error", err)
		return
	}

	if err := r.sender.SendStatus(payload); err != nil {
		slog.Warn("failed to send status report", "queue_id", st.QueueID, "error", err)
	}
}
