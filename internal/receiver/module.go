package receiver

import "github.com/klovach/resound/internal/gateway"

// Dependencies provides what modules may need during initialization.
type Dependencies struct {
	Config   *Config
	Gateway  *gateway.Client
	DeviceID string
}

// Module defines the interface that all receiver modules must implement.
type Module interface {
	// Name returns the unique identifier for this module.
	Name() string

	// Init initializes the module with the provided dependencies. Modules
	// register their gateway handlers here; the connection is opened after
	// every module has initialized.
	Init(deps Dependencies) error

	// Shutdown gracefully shuts down the module.
	Shutdown() error
}

// ConfigurableModule is an optional interface for modules that need
// configuration. Modules implementing it have LoadConfig called before Init
// and before the gateway connection is established.
type ConfigurableModule interface {
	// LoadConfig loads and validates module-specific configuration.
	// Should return an error if required configuration is missing or invalid.
	LoadConfig() error
}
