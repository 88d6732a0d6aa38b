// Package playback wires the queue synchronization engine into the receiver:
// gateway frames in, navigation API and status reports out.
package playback

import (
	"log/slog"

	"github.com/caarlos0/env/v11"

	"github.com/klovach/resound/internal/gateway"
	"github.com/klovach/resound/internal/modules/playback/engine"
	"github.com/klovach/resound/internal/modules/playback/infrastructure"
	"github.com/klovach/resound/internal/receiver"
)

func init() {
	receiver.Register(&PlaybackModule{})
}

// Compile-time interface checks.
var _ receiver.ConfigurableModule = (*PlaybackModule)(nil)

// PlaybackModule provides queue synchronization and playback navigation.
type PlaybackModule struct {
	config   *Config
	engine   *engine.Engine
	eventBus *infrastructure.EventBus
	reporter *StatusReporter
}

// Name returns the module name.
func (m *PlaybackModule) Name() string {
	return "playback"
}

// LoadConfig loads module-specific configuration from environment variables.
func (m *PlaybackModule) LoadConfig() error {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return err
	}
	m.config = cfg
	return nil
}

// Init initializes the module and registers its gateway handlers.
func (m *PlaybackModule) Init(deps receiver.Dependencies) error {
	m.eventBus = infrastructure.NewEventBus(m.config.EventBufferSize)
	m.engine = engine.NewEngine(m.eventBus, nil)

	sender := infrastructure.NewGatewayStatusSender(deps.Gateway)
	m.reporter = NewStatusReporter(m.engine, sender, deps.DeviceID, deps.Config.DeviceName)
	m.reporter.Subscribe(m.eventBus)

	deps.Gateway.Handle(gateway.TypeQueueList, func(payload []byte) {
		if err := m.engine.ApplyQueueUpdate(payload); err != nil {
			slog.Error("dropped queue update", "error", err)
		}
	})
	deps.Gateway.Handle(gateway.TypeQueuePosition, func(payload []byte) {
		if err := m.engine.ApplyPositionUpdate(payload); err != nil {
			slog.Error("dropped position update", "error", err)
		}
	})

	slog.Info("playback module initialized")

	return nil
}

// Shutdown cleans up module resources.
func (m *PlaybackModule) Shutdown() error {
	if m.eventBus != nil {
		m.eventBus.Close()
	}
	return nil
}

// Engine exposes the navigation API for the audio pipeline.
func (m *PlaybackModule) Engine() *engine.Engine {
	return m.engine
}
