// Package errors provides domain-specific error types for ircbot.
//
// These types carry structured context (operation, address, numeric
// reply code, retryability) so the session controller can decide
// between reconnecting and terminating, and so diagnostics name the
// failing piece instead of a bare string.
package errors

import (
	"errors"
	"fmt"
	"net"
)

// ── Sentinel errors ──────────────────────────────────────────────────

var (
	// ErrStreamClosed reports that the server closed the connection.
	ErrStreamClosed = errors.New("stream closed by peer")

	// ErrNotConnected reports an operation on a locally closed or
	// never-opened connection.
	ErrNotConnected = errors.New("not connected")
)

// ── Structured error types ───────────────────────────────────────────

// NetworkError represents a failure in a network operation.
type NetworkError struct {
	Op        string // operation: "dial", "read", "write"
	Addr      string // network address involved
	Err       error  // underlying error
	Retryable bool   // whether the caller should retry
}

func (e *NetworkError) Error() string {
	s := fmt.Sprintf("%s %s: %v", e.Op, e.Addr, e.Err)
	if e.Retryable {
		s += " (retryable)"
	}
	return s
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ProtocolError represents a malformed or oversized protocol line.
// It always terminates the session; a peer that cannot frame lines
// cannot be trusted to frame the next one either.
type ProtocolError struct {
	Reason string
	Line   string // offending line, possibly truncated
}

func (e *ProtocolError) Error() string {
	if e.Line == "" {
		return "protocol violation: " + e.Reason
	}
	return fmt.Sprintf("protocol violation: %s: %q", e.Reason, e.Line)
}

// RegistrationError represents a failed NICK/USER handshake.
type RegistrationError struct {
	Nick string // last nickname attempted
	Code string // numeric reply that ended registration ("433", "437")
	Err  error  // optional underlying error
}

func (e *RegistrationError) Error() string {
	msg := fmt.Sprintf("registration failed for %q", e.Nick)
	if e.Code != "" {
		msg += " (reply " + e.Code + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *RegistrationError) Unwrap() error { return e.Err }

// ConfigError represents an invalid configuration value.
type ConfigError struct {
	Field   string      // config field name
	Value   interface{} // the invalid value (nil if missing)
	Message string      // human-readable explanation
	Hint    string      // suggestion for the user (optional)
}

func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("config: %s", e.Field)
	if e.Value != nil {
		msg += fmt.Sprintf("=%v", e.Value)
	}
	msg += ": " + e.Message
	if e.Hint != "" {
		msg += "\n  hint: " + e.Hint
	}
	return msg
}

// ── Constructors ─────────────────────────────────────────────────────

// Wrap creates a NetworkError, automatically detecting retryability
// from the underlying error.
func Wrap(op, addr string, err error) *NetworkError {
	return &NetworkError{
		Op:        op,
		Addr:      addr,
		Err:       err,
		Retryable: classifyRetryable(err),
	}
}

// ── Classification helpers ───────────────────────────────────────────

// IsRetryable reports whether err is worth a reconnect attempt.
// Protocol violations and registration failures never are.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var pe *ProtocolError
	if errors.As(err, &pe) {
		return false
	}
	var re *RegistrationError
	if errors.As(err, &re) {
		return false
	}
	var ne *NetworkError
	if errors.As(err, &ne) {
		return ne.Retryable
	}
	return classifyRetryable(err)
}

// classifyRetryable inspects standard library error types.
func classifyRetryable(err error) bool {
	if err == nil {
		return false
	}
	// net.OpError with Temporary() hint
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return opErr.Temporary() //nolint:staticcheck // Temporary is deprecated but still useful
	}
	// DNS errors
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return dnsErr.Temporary() //nolint:staticcheck
	}
	return false
}
