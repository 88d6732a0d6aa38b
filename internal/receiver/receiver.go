package receiver

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/klovach/resound/internal/gateway"
)

// Receiver manages the control-channel connection and module coordination.
type Receiver struct {
	config   *Config
	deviceID string
	gateway  *gateway.Client
	modules  []Module
}

// NewReceiver creates a new Receiver with the given configuration. Each
// process gets a fresh device instance id; controllers use it to address this
// receiver for the lifetime of the session.
func NewReceiver(cfg *Config) *Receiver {
	return &Receiver{
		config:   cfg,
		deviceID: uuid.NewString(),
		modules:  make([]Module, 0),
	}
}

// DeviceID returns the generated device instance id.
func (r *Receiver) DeviceID() string {
	return r.deviceID
}

// LoadModules loads modules from the global registry.
func (r *Receiver) LoadModules() {
	r.modules = Modules()
}

// Start initializes the modules and connects to the gateway. Module init runs
// before the connection opens so every gateway handler is registered when the
// first frame arrives.
func (r *Receiver) Start() error {
	if err := r.loadModuleConfigs(); err != nil {
		return err
	}

	r.gateway = gateway.NewClient(r.config.GatewayURL, nil)

	if err := r.initModules(); err != nil {
		return err
	}

	if err := r.gateway.Start(); err != nil {
		return fmt.Errorf("failed to connect to gateway: %w", err)
	}

	slog.Info("started receiver",
		"device_id", r.deviceID,
		"device_name", r.config.DeviceName,
	)

	return nil
}

// Stop gracefully shuts down the receiver.
func (r *Receiver) Stop() error {
	for _, mod := range r.modules {
		if err := mod.Shutdown(); err != nil {
			slog.Warn("failed to shutdown module", "module", mod.Name(), "error", err)
		}
	}

	if r.gateway != nil {
		return r.gateway.Close()
	}

	return nil
}

// loadModuleConfigs loads configuration for modules that declare any.
func (r *Receiver) loadModuleConfigs() error {
	for _, mod := range r.modules {
		cm, ok := mod.(ConfigurableModule)
		if !ok {
			continue
		}
		if err := cm.LoadConfig(); err != nil {
			return fmt.Errorf("failed to load %s module config: %w", mod.Name(), err)
		}
	}
	return nil
}

// initModules initializes all loaded modules.
func (r *Receiver) initModules() error {
	deps := Dependencies{
		Config:   r.config,
		Gateway:  r.gateway,
		DeviceID: r.deviceID,
	}

	for _, mod := range r.modules {
		if err := mod.Init(deps); err != nil {
			return fmt.Errorf("failed to initialize %s module: %w", mod.Name(), err)
		}
		slog.Debug("initialized module", "module", mod.Name())
	}

	moduleNames := make([]string, len(r.modules))
	for i, mod := range r.modules {
		moduleNames[i] = mod.Name()
	}
	slog.Info("initialized modules", "modules", moduleNames)

	return nil
}
