package cmd

import (
	"context"
	"errors"
	"testing"

	"ircbot/config"
	ircerrors "ircbot/internal/errors"
)

// Every case here stops before a connection is attempted: either the
// flag parser rejects the input or validation does.

func configError(t *testing.T, err error, field string) {
	t.Helper()
	var ce *ircerrors.ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
	if ce.Field != field {
		t.Errorf("Field = %q, want %q", ce.Field, field)
	}
}

func TestExecute_Version(t *testing.T) {
	if err := Execute(context.Background(), []string{"--version"}); err != nil {
		t.Errorf("--version: %v", err)
	}
}

func TestExecute_Help(t *testing.T) {
	if err := Execute(context.Background(), []string{"-h"}); err != nil {
		t.Errorf("-h: %v", err)
	}
}

func TestExecute_UnknownFlag(t *testing.T) {
	if err := Execute(context.Background(), []string{"--no-such-flag"}); err == nil {
		t.Error("unknown flag should be rejected")
	}
}

func TestExecute_ServerRequired(t *testing.T) {
	err := Execute(context.Background(), []string{"-n", "bot1"})
	configError(t, err, "server")
}

func TestExecute_BadServerFlag(t *testing.T) {
	err := Execute(context.Background(), []string{"-s", "bad host", "-n", "bot1"})
	configError(t, err, "server")
}

func TestExecute_BadPositionalPort(t *testing.T) {
	err := Execute(context.Background(), []string{"-n", "bot1", "irc.example.org:999999"})
	configError(t, err, "server")
}

func TestExecute_BadChannel(t *testing.T) {
	err := Execute(context.Background(), []string{"-n", "bot1", "irc.example.org", "no-prefix"})
	configError(t, err, "channels")
}

func TestExecute_BadNick(t *testing.T) {
	err := Execute(context.Background(), []string{"-n", "1leading-digit", "irc.example.org"})
	configError(t, err, "nick")
}

func TestExecute_NegativeReconnect(t *testing.T) {
	err := Execute(context.Background(), []string{"-n", "bot1", "-r", "-2", "irc.example.org"})
	configError(t, err, "reconnect")
}

func TestExecute_MissingConfigFile(t *testing.T) {
	err := Execute(context.Background(), []string{"-f", "/no/such/file.json"})
	if err == nil {
		t.Error("missing config file should be an error")
	}
}

func TestParsePositional_ExplicitDefaultPort(t *testing.T) {
	// A spelled-out ":6667" overrides a port configured earlier; only
	// an omitted port leaves it alone.
	cfg := config.Default()
	cfg.Port = 6697
	if err := parsePositional(cfg, []string{"irc.example.org:6667"}); err != nil {
		t.Fatal(err)
	}
	if cfg.Port != 6667 {
		t.Errorf("Port = %d, want explicit 6667", cfg.Port)
	}

	cfg = config.Default()
	cfg.Port = 6697
	if err := parsePositional(cfg, []string{"irc.example.org"}); err != nil {
		t.Fatal(err)
	}
	if cfg.Port != 6697 {
		t.Errorf("Port = %d, want configured 6697 kept", cfg.Port)
	}
}

func TestExecute_EnvConfig(t *testing.T) {
	// Environment variables feed the same validation path as flags.
	t.Setenv("IRCBOT_NICK", "bot1")
	t.Setenv("IRCBOT_CHANNELS", "#a,bad name")
	err := Execute(context.Background(), []string{"irc.example.org"})
	configError(t, err, "channels")
}
