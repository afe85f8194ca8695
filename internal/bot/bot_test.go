package bot

import (
	"context"
	"errors"
	"strings"
	"testing"

	"ircbot/internal/irc"
	"ircbot/internal/metrics"
	"ircbot/util"
)

// fakeSender records outbound calls and lets tests pre-seed joined
// channels and join failures.
type fakeSender struct {
	nick    string
	joined  map[string]bool
	joinErr error

	sent    []string // "target|text"
	joins   []string
	stats   *metrics.Collector
	sendErr error
}

func newFakeSender(nick string) *fakeSender {
	return &fakeSender{
		nick:   nick,
		joined: make(map[string]bool),
		stats:  metrics.New(),
	}
}

func (f *fakeSender) Nick() string { return f.nick }

func (f *fakeSender) SendMessage(target, text string) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, target+"|"+text)
	return nil
}

func (f *fakeSender) Join(channels ...string) error {
	if f.joinErr != nil {
		return f.joinErr
	}
	f.joins = append(f.joins, channels...)
	return nil
}

func (f *fakeSender) Joined(channel string) bool { return f.joined[channel] }

func (f *fakeSender) Metrics() *metrics.Collector { return f.stats }

func dispatch(t *testing.T, snd *fakeSender, raw string) {
	t.Helper()
	b := New(util.NewLogger(0))
	b.Dispatch(context.Background(), snd, irc.Parse(raw))
}

func TestDispatch_IgnoresNonCommands(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"no trigger prefix", ":alice!a@h PRIVMSG #go :just chatting"},
		{"trigger mid-line", ":alice!a@h PRIVMSG #go :hey bot1: help"},
		{"wrong nick", ":alice!a@h PRIVMSG #go :bot2: help"},
		{"numeric reply", ":irc.test 372 bot1 :- bot1: help"},
		{"service sender", ":averyverylongservicename!s@h PRIVMSG #go :bot1: help"},
		{"trigger without space", ":alice!a@h PRIVMSG #go :bot1:help"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snd := newFakeSender("bot1")
			dispatch(t, snd, tt.raw)
			if len(snd.sent) != 0 || len(snd.joins) != 0 {
				t.Errorf("unexpected activity: sent=%v joins=%v", snd.sent, snd.joins)
			}
		})
	}
}

func TestDispatch_Help(t *testing.T) {
	snd := newFakeSender("bot1")
	dispatch(t, snd, ":alice!a@h PRIVMSG #go :bot1: help")

	if len(snd.sent) != 1 {
		t.Fatalf("sent %d replies, want 1", len(snd.sent))
	}
	reply := snd.sent[0]
	if !strings.HasPrefix(reply, "#go|alice: Commands => ") {
		t.Errorf("reply = %q", reply)
	}
	for _, c := range commands {
		if !strings.Contains(reply, c.Name+" ") && !strings.Contains(reply, c.Name+" -") {
			t.Errorf("help reply missing command %q: %q", c.Name, reply)
		}
	}
	// The examples embed the live trigger, not a placeholder.
	if !strings.Contains(reply, "bot1: join #python") {
		t.Errorf("help examples should use the current nick: %q", reply)
	}
}

func TestDispatch_JoinNewChannels(t *testing.T) {
	snd := newFakeSender("bot1")
	dispatch(t, snd, ":alice!a@h PRIVMSG #go :bot1: join #python ##android")

	want := []string{"#python", "##android"}
	if len(snd.joins) != len(want) {
		t.Fatalf("joins = %v, want %v", snd.joins, want)
	}
	for i, ch := range want {
		if snd.joins[i] != ch {
			t.Errorf("joins[%d] = %q, want %q", i, snd.joins[i], ch)
		}
	}
	if len(snd.sent) != 0 {
		t.Errorf("successful joins should be silent, got %v", snd.sent)
	}
}

func TestDispatch_JoinAlreadyJoined(t *testing.T) {
	snd := newFakeSender("bot1")
	snd.joined["#go"] = true
	dispatch(t, snd, ":alice!a@h PRIVMSG #go :bot1: join #go #new")

	if len(snd.joins) != 1 || snd.joins[0] != "#new" {
		t.Errorf("joins = %v, want [#new]", snd.joins)
	}
	if len(snd.sent) != 1 || snd.sent[0] != "#go|I'm already in #go" {
		t.Errorf("sent = %v", snd.sent)
	}
}

func TestDispatch_JoinFailureReported(t *testing.T) {
	snd := newFakeSender("bot1")
	snd.joinErr = errors.New("invalid channel name")
	dispatch(t, snd, ":alice!a@h PRIVMSG #go :bot1: join badname")

	if len(snd.sent) != 1 || snd.sent[0] != "#go|can't join badname" {
		t.Errorf("sent = %v", snd.sent)
	}
}

func TestDispatch_Stats(t *testing.T) {
	snd := newFakeSender("bot1")
	snd.stats.LineReceived(10)
	snd.stats.LineSent(5)
	snd.stats.PingAnswered()
	dispatch(t, snd, ":alice!a@h PRIVMSG #go :bot1: stats")

	if len(snd.sent) != 1 {
		t.Fatalf("sent %d replies, want 1", len(snd.sent))
	}
	reply := snd.sent[0]
	if !strings.HasPrefix(reply, "#go|alice: up ") {
		t.Errorf("reply = %q", reply)
	}
	if !strings.Contains(reply, "lines in/out 1/1") {
		t.Errorf("stats counters missing: %q", reply)
	}
	if !strings.Contains(reply, "pings 1") {
		t.Errorf("ping counter missing: %q", reply)
	}
}

func TestDispatch_Unknown(t *testing.T) {
	snd := newFakeSender("bot1")
	dispatch(t, snd, ":alice!a@h PRIVMSG #go :bot1: dance")

	want := "#go|alice: I didn't understand that. Check my commands with <bot1: help>."
	if len(snd.sent) != 1 || snd.sent[0] != want {
		t.Errorf("sent = %v, want %q", snd.sent, want)
	}
}

func TestDispatch_PrivateMessageRepliesToQuery(t *testing.T) {
	// A direct PRIVMSG targets the bot's nick; replies go back to that
	// target just like a channel.
	snd := newFakeSender("bot1")
	dispatch(t, snd, ":alice!a@h PRIVMSG bot1 :bot1: help")

	if len(snd.sent) != 1 || !strings.HasPrefix(snd.sent[0], "bot1|alice: Commands") {
		t.Errorf("sent = %v", snd.sent)
	}
}

func TestSplitCommand(t *testing.T) {
	tests := []struct {
		in, cmd, args string
	}{
		{"help", "help", ""},
		{"join #a #b", "join", "#a #b"},
		{"  join   #a ", "join", "#a"},
		{"", "", ""},
	}
	for _, tt := range tests {
		cmd, args := splitCommand(tt.in)
		if cmd != tt.cmd || args != tt.args {
			t.Errorf("splitCommand(%q) = %q, %q; want %q, %q", tt.in, cmd, args, tt.cmd, tt.args)
		}
	}
}

func TestCommandInfo_Describe(t *testing.T) {
	c := CommandInfo{
		Name:        "join",
		Explanation: "Joins channels",
		Example:     "join #python",
		Syntax:      "join <channels>",
	}
	want := "join (join <channels>) - Joins channels (e.g., bot1: join #python)"
	if got := c.Describe("bot1: "); got != want {
		t.Errorf("Describe = %q, want %q", got, want)
	}
}
