package transport

import (
	"context"
	"net"
	"time"
)

// TCPDialer establishes plain TCP connections with an optional
// connect timeout.
type TCPDialer struct {
	Timeout time.Duration
}

// Dial connects to address over TCP.
func (d *TCPDialer) Dial(ctx context.Context, network, address string) (net.Conn, error) {
	dialer := net.Dialer{Timeout: d.Timeout}
	return dialer.DialContext(ctx, network, address)
}
