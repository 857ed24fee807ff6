package model

import (
	"context"
	"net"
)

// SecurityLayer opens the listener a Server accepts connections on,
// plain or TLS.
type SecurityLayer interface {
	Listen(protocol, addr string) (net.Listener, error)
}

// Server is a long-running listener driven by cmd/scc-api.
type Server interface {
	Start(securityLayer SecurityLayer) error
	Stop(ctx context.Context) error
	Address() string
}
