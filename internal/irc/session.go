package irc

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"ircbot/config"
	ircerrors "ircbot/internal/errors"
	"ircbot/internal/metrics"
	"ircbot/internal/retry"
	"ircbot/internal/transport"
	"ircbot/util"
)

// Handler receives every inbound message the session does not consume
// itself (PINGs are answered internally and never forwarded).
type Handler interface {
	Handle(ctx context.Context, s *Session, msg Message)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, s *Session, msg Message)

// Handle calls f.
func (f HandlerFunc) Handle(ctx context.Context, s *Session, msg Message) { f(ctx, s, msg) }

// Session drives the connection lifecycle for one IRC server: connect,
// register (NICK/USER), join the configured channels, then loop reading
// lines until the connection dies or Shutdown is called.
//
// A session owns exactly one Connection at a time.  Multiple sessions
// are fully independent: each has its own framer buffer, state word,
// and metrics, with no shared mutable state between them.
type Session struct {
	id      uuid.UUID
	cfg     *config.Config
	dialer  transport.Dialer
	handler Handler
	logger  *util.Logger
	stats   *metrics.Collector

	mu     sync.Mutex
	conn   *Conn
	nick   string // current nick; may differ from cfg.Nick after a 433
	joined map[string]bool
	err    error

	state    atomic.Int32
	started  atomic.Bool
	closing  atomic.Bool
	cancel   context.CancelFunc
	done     chan struct{}
	doneOnce sync.Once
}

// NewSession builds a session.  handler may be nil for a pure
// keepalive client; logger must not be nil.
func NewSession(cfg *config.Config, dialer transport.Dialer, handler Handler, logger *util.Logger) *Session {
	id := uuid.New()
	return &Session{
		id:      id,
		cfg:     cfg,
		dialer:  dialer,
		handler: handler,
		logger:  logger.Prefixed("sess " + id.String()[:8]),
		stats:   metrics.New(),
		nick:    cfg.Nick,
		joined:  make(map[string]bool),
		done:    make(chan struct{}),
	}
}

// Start dials the server and launches the session goroutine.  A dial
// failure is fatal and returned to the caller; everything after the
// TCP connect (registration, joins, the read loop) runs asynchronously
// and reports through Done and Err.
func (s *Session) Start(ctx context.Context) error {
	if s.closing.Load() {
		return ircerrors.ErrNotConnected
	}
	ctx, s.cancel = context.WithCancel(ctx)

	conn, err := s.connect(ctx)
	if err != nil {
		s.finish(err)
		return err
	}

	s.started.Store(true)
	go s.run(ctx, conn)
	return nil
}

// Shutdown requests session termination.  It closes the underlying
// connection so a blocked ReadLine unblocks promptly instead of
// waiting for a server-side timeout.  Safe to call repeatedly and
// from any goroutine.
func (s *Session) Shutdown() {
	s.closing.Store(true)
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn != nil {
		conn.Close()
	}
	if !s.started.Load() {
		s.finish(nil)
	}
}

// ── Observers ────────────────────────────────────────────────────────

// ID returns the session's unique identifier.
func (s *Session) ID() uuid.UUID { return s.id }

// State returns the current lifecycle phase.
func (s *Session) State() State { return State(s.state.Load()) }

// Done is closed once the session reaches the terminal Closed state.
func (s *Session) Done() <-chan struct{} { return s.done }

// Err returns the error that closed the session, or nil after a clean
// shutdown.  Meaningful only once Done is closed.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Nick returns the nickname currently in use, which may carry a
// fallback suffix after a nickname collision.
func (s *Session) Nick() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nick
}

// Joined reports whether a JOIN has been issued for channel on the
// current connection.
func (s *Session) Joined(channel string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.joined[channel]
}

// Metrics exposes the session's runtime counters.
func (s *Session) Metrics() *metrics.Collector { return s.stats }

// ── Outbound operations ──────────────────────────────────────────────

// Send writes a raw protocol line on the current connection.  The
// framer appends the CRLF and serializes the write against the
// handshake and PONG traffic.
func (s *Session) Send(line string) error {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		return ircerrors.ErrNotConnected
	}
	return conn.WriteLine(line)
}

// SendMessage sends a PRIVMSG to a channel or nick.
func (s *Session) SendMessage(target, text string) error {
	if target == "" || text == "" {
		return errors.New("irc: empty message target or text")
	}
	return s.Send(fmt.Sprintf("PRIVMSG %s :%s", target, text))
}

// Join issues a JOIN for each channel in order, skipping channels
// already joined on this connection.
func (s *Session) Join(channels ...string) error {
	for _, ch := range channels {
		if !config.ValidChannel(ch) {
			return &ircerrors.ConfigError{
				Field:   "channels",
				Value:   ch,
				Message: "invalid channel name",
			}
		}
		s.mu.Lock()
		dup := s.joined[ch]
		conn := s.conn
		s.mu.Unlock()
		if dup {
			continue
		}
		if conn == nil {
			return ircerrors.ErrNotConnected
		}
		s.logger.Info("joining %s", ch)
		if err := conn.WriteLine("JOIN " + ch); err != nil {
			return err
		}
		s.mu.Lock()
		s.joined[ch] = true
		s.mu.Unlock()
		s.stats.ChannelJoined()
	}
	return nil
}

// ── Lifecycle internals ──────────────────────────────────────────────

// connect dials the server and installs a fresh framer, resetting the
// per-connection nick and joined-channel bookkeeping.
func (s *Session) connect(ctx context.Context) (*Conn, error) {
	s.setState(StateConnecting)
	addr := util.FormatAddr(s.cfg.Server, s.cfg.Port)
	s.logger.Verbose("connecting to %s", addr)

	conn, err := Dial(ctx, s.dialer, addr, s.stats)
	if err != nil {
		return nil, err
	}
	s.logger.Info("connected to %s", conn.RemoteAddr())

	s.mu.Lock()
	s.conn = conn
	s.nick = s.cfg.Nick
	s.joined = make(map[string]bool)
	s.mu.Unlock()
	return conn, nil
}

// run owns the session from registration to the terminal state,
// applying the reconnect policy when one is configured.
func (s *Session) run(ctx context.Context, conn *Conn) {
	// Close the live connection when the context expires so a blocked
	// ReadLine unblocks instead of waiting out the server.
	go func() {
		<-ctx.Done()
		s.mu.Lock()
		c := s.conn
		s.mu.Unlock()
		if c != nil {
			c.Close()
		}
	}()

	err := s.serve(ctx, conn)

	if err != nil && s.cfg.ReconnectAttempts > 0 && s.shouldRetry(ctx, err) {
		s.logger.Warn("connection lost: %v", err)
		s.stats.RecordError(err.Error())

		b := retry.NewReconnect(s.cfg.ReconnectAttempts, s.cfg.ReconnectBackoffMax)
		err = b.Do(ctx, func(attempt int) error {
			s.logger.Info("reconnect attempt %d/%d", attempt, s.cfg.ReconnectAttempts)
			s.stats.Reconnect()

			c, derr := s.connect(ctx)
			if derr != nil {
				return derr
			}
			serr := s.serve(ctx, c)
			if serr == nil {
				return nil
			}
			if !s.shouldRetry(ctx, serr) {
				return retry.Permanent(serr)
			}
			return serr
		})
	}

	s.finish(err)
}

// serve performs registration and joins, then runs the read loop until
// the connection fails or a shutdown is requested.  A nil return means
// the session ended on purpose.
func (s *Session) serve(ctx context.Context, conn *Conn) error {
	defer conn.Close()

	if err := s.register(ctx, conn); err != nil {
		if s.shuttingDown(ctx) {
			return nil
		}
		return err
	}
	if err := s.joinConfigured(); err != nil {
		if s.shuttingDown(ctx) {
			return nil
		}
		return err
	}

	s.setState(StateActive)
	s.logger.Info("session active as %s", s.Nick())

	for {
		line, err := conn.ReadLine()
		if err != nil {
			if s.shuttingDown(ctx) {
				return nil
			}
			return err
		}
		if line == "" {
			continue
		}
		s.logger.Debug("<- %s", line)
		s.handleLine(ctx, conn, line)
	}
}

// register performs the NICK/USER handshake and waits for the server
// welcome.  A 433 collision retries with a fallback nickname up to the
// configured budget; 437 is fatal.  PINGs arriving mid-registration
// are answered so slow handshakes do not get timed out.
func (s *Session) register(ctx context.Context, conn *Conn) error {
	s.setState(StateRegistering)

	if s.cfg.Password != "" {
		if err := conn.WriteLine("PASS " + s.cfg.Password); err != nil {
			return err
		}
	}

	nick := s.cfg.Nick
	realname := s.cfg.RealName
	if realname == "" {
		realname = s.cfg.Nick
	}
	if err := conn.WriteLine("NICK " + nick); err != nil {
		return err
	}
	if err := conn.WriteLine(fmt.Sprintf("USER %s 0 * :%s", s.cfg.Nick, realname)); err != nil {
		return err
	}

	retries := 0
	for {
		line, err := conn.ReadLine()
		if err != nil {
			return err
		}
		s.logger.Debug("<- %s", line)

		msg := Parse(line)
		switch msg.Kind {
		case KindPing:
			if err := s.pong(conn, msg.Token); err != nil {
				return err
			}
		case KindNumeric:
			switch msg.Code {
			case ReplyWelcome:
				s.mu.Lock()
				s.nick = nick
				s.mu.Unlock()
				s.logger.Info("registered as %s", nick)
				return nil
			case ReplyNickInUse:
				if retries >= s.cfg.NickRetries {
					return &ircerrors.RegistrationError{Nick: nick, Code: ReplyNickInUse}
				}
				retries++
				nick += "_"
				s.logger.Warn("nickname in use, trying %s", nick)
				if err := conn.WriteLine("NICK " + nick); err != nil {
					return err
				}
			case ReplyNickUnavailable:
				return &ircerrors.RegistrationError{Nick: nick, Code: ReplyNickUnavailable}
			}
		}
	}
}

// joinConfigured issues the auto-join list in configuration order.
// The session becomes Active as soon as every JOIN is on the wire;
// join confirmations are observational and flow to the handler.
func (s *Session) joinConfigured() error {
	s.setState(StateJoining)
	return s.Join(s.cfg.Channels...)
}

// handleLine answers PINGs before anything else sees the line and
// forwards the rest to the handler as a classified Message.
func (s *Session) handleLine(ctx context.Context, conn *Conn, line string) {
	msg := Parse(line)
	if msg.Kind == KindPing {
		if err := s.pong(conn, msg.Token); err != nil {
			s.logger.Error("pong: %v", err)
		}
		return
	}
	if s.handler != nil {
		s.handler.Handle(ctx, s, msg)
	}
}

// pong echoes a PING token verbatim.
func (s *Session) pong(conn *Conn, token string) error {
	line := "PONG"
	if token != "" {
		line += " " + token
	}
	if err := conn.WriteLine(line); err != nil {
		return err
	}
	s.stats.PingAnswered()
	s.logger.Debug("-> %s", line)
	return nil
}

// shouldRetry gates the reconnect policy: never during shutdown, and
// only for transport-level failures.  Protocol violations and
// registration failures close the session for good.
func (s *Session) shouldRetry(ctx context.Context, err error) bool {
	if ctx.Err() != nil || s.closing.Load() {
		return false
	}
	return ircerrors.IsRetryable(err) || errors.Is(err, ircerrors.ErrStreamClosed)
}

func (s *Session) shuttingDown(ctx context.Context) bool {
	return s.closing.Load() || ctx.Err() != nil
}

func (s *Session) setState(st State) {
	s.state.Store(int32(st))
}

// finish records the terminal state exactly once and releases the
// session context so the watchdog goroutine exits with the session.
func (s *Session) finish(err error) {
	s.doneOnce.Do(func() {
		s.mu.Lock()
		s.err = err
		s.mu.Unlock()
		s.setState(StateClosed)
		if s.cancel != nil {
			s.cancel()
		}
		if err != nil {
			s.stats.RecordError(err.Error())
			s.logger.Error("session closed: %v", err)
		} else {
			s.logger.Info("session closed")
		}
		close(s.done)
	})
}
