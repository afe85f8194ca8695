package config

import "time"

// ── Default values ───────────────────────────────────────────────────
//
// All tuneable defaults live here so they are easy to audit and reuse
// across CLI flags, config file parsing, and environment variable
// loading.

const (
	// DefaultIRCPort is the standard plaintext IRC port.
	DefaultIRCPort = 6667

	// DefaultConnTimeout is the TCP connection timeout.
	DefaultConnTimeout = 30 * time.Second

	// DefaultReconnectBackoffMax caps the exponential backoff between
	// reconnection attempts.
	DefaultReconnectBackoffMax = 60 * time.Second

	// DefaultNickRetries is how many fallback nicknames to try after
	// the server reports the configured one is taken.
	DefaultNickRetries = 1
)
