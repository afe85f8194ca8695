package irc

import (
	"fmt"
	"strings"
)

// Numeric replies the session controller acts on.
const (
	ReplyWelcome         = "001" // registration accepted
	ReplyNickInUse       = "433" // nickname already taken
	ReplyNickUnavailable = "437" // nick/channel temporarily unavailable
)

// Kind classifies an inbound protocol line.  Classification happens
// once, at the framer/controller boundary; handlers receive the
// structured value instead of re-parsing raw strings.
type Kind int

const (
	KindOther   Kind = iota // anything the session does not act on itself
	KindPing                // server liveness check
	KindNumeric             // three-digit reply code
	KindPrivmsg             // channel or private message
)

func (k Kind) String() string {
	switch k {
	case KindPing:
		return "ping"
	case KindNumeric:
		return "numeric"
	case KindPrivmsg:
		return "privmsg"
	default:
		return "other"
	}
}

// Message is an immutable, classified view of one inbound line.
type Message struct {
	Raw  string
	Kind Kind

	Code  string // numeric reply code (KindNumeric)
	Token string // PING payload, preserved verbatim (KindPing)

	Nick   string // sender nickname (KindPrivmsg)
	Target string // destination channel or nick (KindPrivmsg)
	Text   string // message body (KindPrivmsg)

	// IsUser distinguishes regular users from services and server
	// pseudo-clients, which use longer names than the common NICKLEN.
	IsUser bool
}

// Parse classifies a single protocol line.  It never fails: lines that
// match no known shape come back as KindOther with only Raw set.
func Parse(raw string) Message {
	msg := Message{Raw: raw, Kind: KindOther}

	prefix, rest := splitPrefix(raw)

	cmd, params := splitWord(rest)
	switch {
	case cmd == "PING":
		msg.Kind = KindPing
		msg.Token = params
	case isNumeric(cmd):
		msg.Kind = KindNumeric
		msg.Code = cmd
	case cmd == "PRIVMSG":
		target, body := splitWord(params)
		msg.Kind = KindPrivmsg
		msg.Target = target
		msg.Text = strings.TrimPrefix(body, ":")
		msg.Nick = nickFromPrefix(prefix)
		msg.IsUser = msg.Nick != "" && len(msg.Nick) < 17
	}
	return msg
}

// String renders a short human-readable form for logging.
func (m Message) String() string {
	switch m.Kind {
	case KindPrivmsg:
		return fmt.Sprintf("%s %s: %s", m.Target, m.Nick, m.Text)
	case KindPing:
		return "PING " + m.Token
	case KindNumeric:
		return "reply " + m.Code
	default:
		return m.Raw
	}
}

// ── parsing helpers ──────────────────────────────────────────────────

// splitPrefix separates an optional ":prefix " from the rest of the
// line.  The prefix names the message source (server or nick!user@host).
func splitPrefix(line string) (prefix, rest string) {
	if !strings.HasPrefix(line, ":") {
		return "", line
	}
	i := strings.IndexByte(line, ' ')
	if i < 0 {
		return line[1:], ""
	}
	return line[1:i], strings.TrimLeft(line[i+1:], " ")
}

// splitWord returns the first space-delimited word and the remainder.
func splitWord(s string) (word, rest string) {
	i := strings.IndexByte(s, ' ')
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimLeft(s[i+1:], " ")
}

// isNumeric reports whether cmd is a three-digit reply code.
func isNumeric(cmd string) bool {
	if len(cmd) != 3 {
		return false
	}
	for i := 0; i < 3; i++ {
		if cmd[i] < '0' || cmd[i] > '9' {
			return false
		}
	}
	return true
}

// nickFromPrefix extracts the nickname from a nick!user@host prefix.
// Server prefixes (no '!') yield the whole name.
func nickFromPrefix(prefix string) string {
	if i := strings.IndexByte(prefix, '!'); i >= 0 {
		return prefix[:i]
	}
	return prefix
}
