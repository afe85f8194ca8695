// Package cmd wires up the CLI flags and starts the bot session.
package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	flag "github.com/spf13/pflag"
	"golang.org/x/term"

	"ircbot/config"
	"ircbot/internal/bot"
	"ircbot/internal/irc"
	"ircbot/internal/transport"
	"ircbot/util"
)

// version is overridable at link time:
//
//	go build -ldflags "-X ircbot/cmd.version=2.0.0"
var version = "1.0.0" //nolint:gochecknoglobals

// Execute parses args, assembles the configuration layers, and runs
// the bot until the session ends or ctx is cancelled.
func Execute(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("ircbot", flag.ContinueOnError)

	// ── connection ───────────────────────────────────────────────
	var (
		configPath string
		serverSpec string
		nick       string
		channels   []string
		realname   string
		promptPass bool
		timeoutSec int
	)
	fs.StringVarP(&configPath, "config", "f", "", "JSON config file (server, channels, nick)")
	fs.StringVarP(&serverSpec, "server", "s", "", "Server as host[:port]")
	fs.StringVarP(&nick, "nick", "n", "", "Nickname to register")
	fs.StringArrayVarP(&channels, "join", "j", nil, "Channel to auto-join (repeatable)")
	fs.StringVar(&realname, "realname", "", "Realname for USER (defaults to the nick)")
	fs.BoolVar(&promptPass, "password", false, "Prompt for a server password (sent as PASS)")
	fs.IntVarP(&timeoutSec, "timeout", "w", 0, "Connect timeout in seconds")

	// ── resilience ───────────────────────────────────────────────
	var (
		reconnect   int
		nickRetries int
	)
	fs.IntVarP(&reconnect, "reconnect", "r", 0, "Reconnect attempts after a dropped connection (0 = off)")
	fs.IntVar(&nickRetries, "nick-retries", config.DefaultNickRetries, "Fallback nicknames to try after a 433 reply")

	// ── output ───────────────────────────────────────────────────
	var verbose int
	fs.CountVarP(&verbose, "verbose", "v", "Increase verbosity (repeatable)")

	var showVersion, showHelp bool
	fs.BoolVar(&showVersion, "version", false, "Print version and exit")
	fs.BoolVarP(&showHelp, "help", "h", false, "Show this help")

	fs.Usage = func() { printUsage(fs) }

	// ── parse ────────────────────────────────────────────────────
	if err := fs.Parse(args); err != nil {
		return err
	}

	if showHelp {
		printUsage(fs)
		return nil
	}
	if showVersion {
		fmt.Printf("ircbot %s\n", version)
		return nil
	}

	// ── layered configuration: defaults < file < env < flags ─────
	cfg := config.Default()

	if configPath == "" {
		configPath = os.Getenv("IRCBOT_CONFIG")
	}
	if configPath != "" {
		if err := config.LoadFile(cfg, configPath); err != nil {
			return err
		}
	}
	if err := config.LoadFromEnv(cfg); err != nil {
		return err
	}

	if fs.Changed("server") {
		host, port, err := config.ParseServerSpec(serverSpec)
		if err != nil {
			return err
		}
		cfg.Server = host
		if port != 0 {
			cfg.Port = port
		}
	}
	if fs.Changed("nick") {
		cfg.Nick = nick
	}
	if fs.Changed("join") {
		cfg.Channels = channels
	}
	if fs.Changed("realname") {
		cfg.RealName = realname
	}
	if timeoutSec > 0 {
		cfg.ConnectTimeout = time.Duration(timeoutSec) * time.Second
	}
	if fs.Changed("reconnect") {
		cfg.ReconnectAttempts = reconnect
	}
	if fs.Changed("nick-retries") {
		cfg.NickRetries = nickRetries
	}
	if verbose > 0 {
		cfg.Verbose = verbose
	}

	// ── positional arguments: [server [channel ...]] ─────────────
	if err := parsePositional(cfg, fs.Args()); err != nil {
		return err
	}

	// ── interactive password ─────────────────────────────────────
	if promptPass {
		cfg.PasswordPrompt = true
	}
	if cfg.PasswordPrompt && cfg.Password == "" {
		fmt.Fprint(os.Stderr, "Server password: ")
		pass, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		cfg.Password = string(pass)
	}

	// ── validate ─────────────────────────────────────────────────
	if err := cfg.Validate(); err != nil {
		return err
	}

	// ── build components ─────────────────────────────────────────
	logger := util.NewLogger(cfg.Verbose)
	dialer := &transport.TCPDialer{Timeout: cfg.ConnectTimeout}
	handler := bot.New(logger)

	sess := irc.NewSession(cfg, dialer, handler, logger)
	if err := sess.Start(ctx); err != nil {
		return err
	}

	<-sess.Done()
	return sess.Err()
}

// ── helpers ──────────────────────────────────────────────────────────

func parsePositional(cfg *config.Config, remaining []string) error {
	if len(remaining) == 0 {
		return nil
	}
	host, port, err := config.ParseServerSpec(remaining[0])
	if err != nil {
		return err
	}
	cfg.Server = host
	if port != 0 {
		cfg.Port = port
	}
	if len(remaining) > 1 {
		cfg.Channels = remaining[1:]
	}
	return nil
}

func printUsage(fs *flag.FlagSet) {
	fmt.Fprintf(os.Stderr, `ircbot – IRC client bot v%s

Connects to one IRC server, joins the configured channels, answers
server PINGs, and responds to "<nick>: help|join|stats" commands.

Usage:
  ircbot [options] [server[:port]] [channel ...]
  ircbot -f config.json

Options:
`, version)
	fs.PrintDefaults()
	fmt.Fprintf(os.Stderr, `
Examples:
  ircbot -n bot1 irc.example.org "#a" "#b"       Connect and join
  ircbot -f bot.json -vv                         Config file, verbose
  ircbot -n bot1 -r 3 irc.example.org "#ops"     Reconnect up to 3 times
  IRCBOT_SERVER=irc.example.org IRCBOT_NICK=bot1 ircbot "#a"

Config file keys: server (host[:port]), channels (list), nick.
Environment: IRCBOT_SERVER, IRCBOT_PORT, IRCBOT_NICK, IRCBOT_CHANNELS,
IRCBOT_RECONNECT, IRCBOT_VERBOSE, IRCBOT_CONFIG.
`)
}
