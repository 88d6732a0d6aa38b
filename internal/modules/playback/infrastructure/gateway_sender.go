package infrastructure

import (
	"github.com/klovach/resound/internal/gateway"
	"github.com/klovach/resound/internal/modules/playback/ports"
)

// Compile-time check that GatewayStatusSender implements the sender port.
var _ ports.StatusSender = (*GatewayStatusSender)(nil)

// GatewayStatusSender delivers status reports over the control channel.
type GatewayStatusSender struct {
	client *gateway.Client
}

// NewGatewayStatusSender creates a GatewayStatusSender.
func NewGatewayStatusSender(client *gateway.Client) *GatewayStatusSender {
	return &GatewayStatusSender{client: client}
}

// SendStatus sends the encoded report as a status frame.
func (s *GatewayStatusSender) SendStatus(payload []byte) error {
	return s.client.Send(gateway.TypeStatus, payload)
}
