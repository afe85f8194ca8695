// Package config defines the runtime configuration for ircbot and
// provides helpers for parsing server specifications and validating
// nick and channel names.
package config

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	ircerrors "ircbot/internal/errors"
)

// Config holds every tuneable for a single bot session.
type Config struct {
	// ── Connection ───────────────────────────────────────────────────
	Server         string        `env:"SERVER" json:"server"`
	Port           int           `env:"PORT" json:"port"`
	ConnectTimeout time.Duration `env:"CONNECT_TIMEOUT" json:"-"`

	// ── Identity ─────────────────────────────────────────────────────
	Nick     string `env:"NICK" json:"nick"`
	RealName string `env:"REALNAME" json:"realname"`

	// Password is sent as PASS before registration when non-empty.
	// PasswordPrompt asks for it interactively at startup instead.
	Password       string `env:"PASSWORD" json:"-"`
	PasswordPrompt bool   `env:"PASSWORD_PROMPT" json:"-"`

	// ── Channels ─────────────────────────────────────────────────────
	Channels []string `env:"CHANNELS" json:"channels"`

	// ── Resilience ───────────────────────────────────────────────────
	// ReconnectAttempts is the number of reconnects after a dropped
	// connection.  0 disables auto-reconnect.
	ReconnectAttempts   int           `env:"RECONNECT" json:"-"`
	ReconnectBackoffMax time.Duration `env:"RECONNECT_BACKOFF_MAX" json:"-"`
	// NickRetries bounds fallback-nick attempts after a 433 reply.
	NickRetries int `env:"NICK_RETRIES" json:"-"`

	// ── Output ───────────────────────────────────────────────────────
	Verbose int `env:"VERBOSE" json:"-"`
}

// Default returns a Config populated with the package defaults.
func Default() *Config {
	return &Config{
		Port:                DefaultIRCPort,
		ConnectTimeout:      DefaultConnTimeout,
		ReconnectBackoffMax: DefaultReconnectBackoffMax,
		NickRetries:         DefaultNickRetries,
	}
}

// ── Server-spec parser ───────────────────────────────────────────────

// serverRe matches host[:port].
var serverRe = regexp.MustCompile(`^([^:\s]+)(?::(\d+))?$`)

// ParseServerSpec extracts host and port from a string such as
// "irc.libera.chat:6697".  Port is 0 when the spec carries none, so
// callers can tell an explicit ":6667" apart from an omitted port and
// keep a port configured elsewhere.
func ParseServerSpec(spec string) (host string, port int, err error) {
	m := serverRe.FindStringSubmatch(spec)
	if m == nil {
		return "", 0, &ircerrors.ConfigError{
			Field:   "server",
			Value:   spec,
			Message: "expected host[:port]",
		}
	}
	host = m[1]
	if m[2] != "" {
		port, err = strconv.Atoi(m[2])
		if err != nil || port < 1 || port > 65535 {
			return "", 0, &ircerrors.ConfigError{
				Field:   "server",
				Value:   spec,
				Message: "port out of range 1-65535",
			}
		}
	}
	return host, port, nil
}

// ── Name validation ──────────────────────────────────────────────────

// ValidChannel reports whether name is a usable channel name:
// a '#' or '&' prefix and no spaces, commas, or control characters.
func ValidChannel(name string) bool {
	if len(name) < 2 || len(name) > 50 {
		return false
	}
	if name[0] != '#' && name[0] != '&' {
		return false
	}
	return !strings.ContainsAny(name, " ,\x00\x07\r\n")
}

// ValidNick reports whether nick is acceptable to send in a NICK
// command.  Leading digits and channel prefixes are rejected.
func ValidNick(nick string) bool {
	if nick == "" || len(nick) > 30 {
		return false
	}
	c := nick[0]
	if c >= '0' && c <= '9' || c == '#' || c == '&' || c == ':' || c == '-' {
		return false
	}
	return !strings.ContainsAny(nick, " ,*?!@.\x00\r\n")
}

// ── Validation ───────────────────────────────────────────────────────

// Validate checks that the configuration is internally consistent and
// complete enough to start a session.
func (c *Config) Validate() error {
	if c.Server == "" {
		return &ircerrors.ConfigError{
			Field:   "server",
			Message: "server hostname is required",
			Hint:    "pass a server with -s, a config file, or IRCBOT_SERVER",
		}
	}
	if c.Port < 1 || c.Port > 65535 {
		return &ircerrors.ConfigError{
			Field:   "port",
			Value:   c.Port,
			Message: "port out of range 1-65535",
		}
	}
	if !ValidNick(c.Nick) {
		return &ircerrors.ConfigError{
			Field:   "nick",
			Value:   c.Nick,
			Message: "invalid or missing nickname",
			Hint:    "nicknames must not start with a digit or channel prefix",
		}
	}
	for _, ch := range c.Channels {
		if !ValidChannel(ch) {
			return &ircerrors.ConfigError{
				Field:   "channels",
				Value:   ch,
				Message: "invalid channel name",
				Hint:    "channel names start with # or & and contain no spaces or commas",
			}
		}
	}
	if c.ReconnectAttempts < 0 {
		return &ircerrors.ConfigError{
			Field:   "reconnect",
			Value:   c.ReconnectAttempts,
			Message: "reconnect attempts must be >= 0",
		}
	}
	if c.NickRetries < 0 {
		return &ircerrors.ConfigError{
			Field:   "nick-retries",
			Value:   c.NickRetries,
			Message: "nick retries must be >= 0",
		}
	}
	return nil
}
