// Package irc implements the line-framed transport and the session
// state machine for a single IRC server connection.
package irc

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"strings"
	"sync"

	ircerrors "ircbot/internal/errors"
	"ircbot/internal/metrics"
	"ircbot/internal/transport"
)

// MaxLineLength is the IRC line-length convention: 512 bytes per line
// including the CRLF terminator.
const MaxLineLength = 512

// Conn frames a byte-oriented network stream into CRLF-terminated
// protocol lines.  It knows nothing about IRC semantics beyond the
// line-length convention.
//
// Reads buffer partial lines across however many TCP segments the
// server needs; writes are serialized so concurrent producers (the
// handshake, PONG replies, handler output) never interleave bytes.
type Conn struct {
	nc    net.Conn
	r     *bufio.Reader
	stats *metrics.Collector

	wmu sync.Mutex // serializes WriteLine

	mu     sync.Mutex
	closed bool
}

// Dial connects to addr through the given dialer and wraps the result
// in a line framer.  stats may be nil.
func Dial(ctx context.Context, d transport.Dialer, addr string, stats *metrics.Collector) (*Conn, error) {
	nc, err := d.Dial(ctx, "tcp", addr)
	if err != nil {
		return nil, ircerrors.Wrap("dial", addr, err)
	}
	return NewConn(nc, stats), nil
}

// NewConn wraps an established connection in a line framer.
// The read buffer is exactly MaxLineLength bytes: a line that fills it
// without a terminator is a protocol violation, not a resize.
func NewConn(nc net.Conn, stats *metrics.Collector) *Conn {
	return &Conn{
		nc:    nc,
		r:     bufio.NewReaderSize(nc, MaxLineLength),
		stats: stats,
	}
}

// ReadLine blocks until a full CRLF-terminated line is available and
// returns it without the terminator.  It returns
// [ircerrors.ErrStreamClosed] when the peer closes the connection,
// [ircerrors.ErrNotConnected] after a local Close, and a
// *ircerrors.ProtocolError if a single line exceeds MaxLineLength
// without a terminator.
//
// ReadLine is not safe for concurrent use; the session owns the sole
// read loop.
func (c *Conn) ReadLine() (string, error) {
	slice, err := c.r.ReadSlice('\n')
	switch {
	case err == nil:
		// complete line
	case errors.Is(err, bufio.ErrBufferFull):
		return "", &ircerrors.ProtocolError{
			Reason: "line exceeds 512 bytes without a terminator",
			Line:   string(slice[:64]),
		}
	case errors.Is(err, io.EOF):
		return "", ircerrors.ErrStreamClosed
	case errors.Is(err, net.ErrClosed):
		return "", ircerrors.ErrNotConnected
	default:
		return "", ircerrors.Wrap("read", c.remoteAddr(), err)
	}

	c.stats.LineReceived(len(slice))
	return strings.TrimRight(string(slice), "\r\n"), nil
}

// WriteLine writes line followed by exactly one CRLF, stripping any
// terminator the caller already appended.  The write happens as a
// single Write call under the connection's writer lock.
func (c *Conn) WriteLine(line string) error {
	line = strings.TrimRight(line, "\r\n")
	if len(line)+2 > MaxLineLength {
		return &ircerrors.ProtocolError{
			Reason: "outbound line exceeds 512 bytes",
			Line:   line[:64],
		}
	}

	c.wmu.Lock()
	defer c.wmu.Unlock()

	if c.isClosed() {
		return ircerrors.ErrNotConnected
	}
	n, err := c.nc.Write([]byte(line + "\r\n"))
	if err != nil {
		if errors.Is(err, net.ErrClosed) {
			return ircerrors.ErrNotConnected
		}
		return ircerrors.Wrap("write", c.remoteAddr(), err)
	}
	c.stats.LineSent(n)
	return nil
}

// Close releases the underlying connection and unblocks a pending
// ReadLine.  Closing twice is a no-op, not an error.
func (c *Conn) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()
	return c.nc.Close()
}

// RemoteAddr returns the address of the connected server.
func (c *Conn) RemoteAddr() net.Addr { return c.nc.RemoteAddr() }

func (c *Conn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *Conn) remoteAddr() string {
	if a := c.nc.RemoteAddr(); a != nil {
		return a.String()
	}
	return ""
}
