// Package bot implements the channel-facing command layer: it watches
// PRIVMSGs for a trigger prefix ("<nick>: ") and dispatches the small
// built-in command set (help, join, stats).
package bot

import (
	"context"
	"fmt"
	"strings"

	"ircbot/internal/irc"
	"ircbot/internal/metrics"
	"ircbot/util"
)

// Sender is the slice of the session the bot needs to reply and join
// channels.  *irc.Session satisfies it; tests substitute a fake.
type Sender interface {
	Nick() string
	SendMessage(target, text string) error
	Join(channels ...string) error
	Joined(channel string) bool
	Metrics() *metrics.Collector
}

// Bot dispatches trigger-prefixed commands from channel messages.
type Bot struct {
	logger *util.Logger
}

// New returns a Bot.
func New(logger *util.Logger) *Bot {
	return &Bot{logger: logger}
}

// Handle is the session handler entry point.  Lines that are not
// user PRIVMSGs bearing the trigger prefix are ignored.
func (b *Bot) Handle(ctx context.Context, s *irc.Session, msg irc.Message) {
	b.Dispatch(ctx, s, msg)
}

// Dispatch examines one classified message and runs the matching
// command against snd.  Split from Handle so tests can drive it with a
// fake Sender.
func (b *Bot) Dispatch(_ context.Context, snd Sender, msg irc.Message) {
	if msg.Kind != irc.KindPrivmsg || !msg.IsUser {
		return
	}

	// The trigger is the bot's own nick followed by ": ", so users
	// address it the way they address each other.
	trigger := snd.Nick() + ": "
	if !strings.HasPrefix(msg.Text, trigger) {
		return
	}
	b.logger.Verbose("command from %s in %s: %s", msg.Nick, msg.Target, msg.Text)

	cmd, args := splitCommand(strings.TrimPrefix(msg.Text, trigger))
	switch cmd {
	case "help":
		b.help(snd, msg.Target, msg.Nick)
	case "join":
		b.join(snd, msg.Target, args)
	case "stats":
		b.stats(snd, msg.Target, msg.Nick)
	default:
		b.unknown(snd, msg.Target, msg.Nick)
	}
}

// ── commands ─────────────────────────────────────────────────────────

func (b *Bot) help(snd Sender, channel, nick string) {
	parts := make([]string, len(commands))
	for i, c := range commands {
		parts[i] = c.Describe(snd.Nick() + ": ")
	}
	reply := nick + ": Commands => " + strings.Join(parts, ", ")
	b.say(snd, channel, reply)
}

// join adds the bot to each requested channel, reporting the ones it
// is already in instead of re-joining them.
func (b *Bot) join(snd Sender, channel string, args string) {
	for _, ch := range strings.Fields(args) {
		if snd.Joined(ch) {
			b.say(snd, channel, "I'm already in "+ch)
			continue
		}
		if err := snd.Join(ch); err != nil {
			b.logger.Warn("join %s: %v", ch, err)
			b.say(snd, channel, "can't join "+ch)
		}
	}
}

func (b *Bot) stats(snd Sender, channel, nick string) {
	snap := snd.Metrics().Snapshot()
	reply := fmt.Sprintf("%s: up %s, lines in/out %d/%d, pings %d, joins %d, reconnects %d",
		nick, snap.Uptime, snap.LinesIn, snap.LinesOut,
		snap.PingsAnswered, snap.ChannelJoins, snap.Reconnects)
	b.say(snd, channel, reply)
}

func (b *Bot) unknown(snd Sender, channel, nick string) {
	reply := nick + ": I didn't understand that. " +
		"Check my commands with <" + snd.Nick() + ": help>."
	b.say(snd, channel, reply)
}

func (b *Bot) say(snd Sender, channel, text string) {
	if err := snd.SendMessage(channel, text); err != nil {
		b.logger.Error("reply to %s: %v", channel, err)
	}
}

// ── helpers ──────────────────────────────────────────────────────────

// splitCommand separates "join #a #b" into "join" and "#a #b".
func splitCommand(s string) (cmd, args string) {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, ' '); i >= 0 {
		return s[:i], strings.TrimSpace(s[i+1:])
	}
	return s, ""
}

