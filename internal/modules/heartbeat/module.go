// Package heartbeat answers the gateway's keepalive pings so controllers keep
// listing this receiver as available.
package heartbeat

import (
	"log/slog"
	"time"

	"github.com/klovach/resound/internal/gateway"
	"github.com/klovach/resound/internal/receiver"
)

// gapWarnThreshold is the keepalive gap above which a warning is logged; the
// gateway normally pings well inside a minute.
const gapWarnThreshold = 2 * time.Minute

func init() {
	receiver.Register(&HeartbeatModule{})
}

// HeartbeatModule replies to pings and tracks when the gateway was last seen.
type HeartbeatModule struct {
	monitor *Monitor
}

// Name returns the module name.
func (m *HeartbeatModule) Name() string {
	return "heartbeat"
}

// Init initializes the module and registers its gateway handler.
func (m *HeartbeatModule) Init(deps receiver.Dependencies) error {
	m.monitor = NewMonitor(nil)

	deps.Gateway.Handle(gateway.TypePing, func(payload []byte) {
		if gap := m.monitor.Observe(); gap > gapWarnThreshold {
			slog.Warn("long gap between gateway pings", "gap", gap)
		}

		// Echo the payload so the gateway can correlate the reply.
		if err := deps.Gateway.Send(gateway.TypePong, payload); err != nil {
			slog.Warn("failed to send pong", "error", err)
		}
	})

	return nil
}

// Shutdown cleans up module resources.
func (m *HeartbeatModule) Shutdown() error {
	return nil
}
