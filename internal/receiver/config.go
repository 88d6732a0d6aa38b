package receiver

import (
	"github.com/caarlos0/env/v11"
)

// Config holds the receiver configuration loaded from environment variables.
type Config struct {
	// GatewayURL is the websocket URL of the device-synchronization gateway.
	GatewayURL string `env:"RESOUND_GATEWAY_URL,notEmpty"`

	// DeviceName is how this receiver announces itself to controllers.
	DeviceName string `env:"RESOUND_DEVICE_NAME" envDefault:"resound"`
}

// LoadConfig loads configuration from environment variables.
// Returns an error if required fields are missing.
func LoadConfig() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
