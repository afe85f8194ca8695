package config

// env.go - configuration loading from environment variables.
//
// Every supported variable uses the IRCBOT_ prefix and maps onto a
// Config field via its `env` struct tag (IRCBOT_SERVER, IRCBOT_NICK,
// IRCBOT_CHANNELS as a comma-separated list, and so on).  Variables
// that are unset leave the existing value untouched, so this overlay
// slots between the config file and CLI flags.

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// envPrefix namespaces every environment variable ircbot reads.
const envPrefix = "IRCBOT_"

// LoadFromEnv overlays IRCBOT_* environment variables onto cfg.
func LoadFromEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: envPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
