// Package transport provides abstractions for network connection
// establishment.  Transports handle the "how" of reaching the server,
// independent of the line framing and session logic layered on top.
package transport

import (
	"context"
	"net"
)

// Dialer opens outbound network connections.  The production
// implementation is a plain TCP dialer; tests substitute in-memory
// pipes or preconnected sockets.
type Dialer interface {
	// Dial establishes a connection to the given network address.
	Dial(ctx context.Context, network, address string) (net.Conn, error)
}
