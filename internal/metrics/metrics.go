// Package metrics provides lightweight counters for tracking runtime
// statistics of an IRC session.
//
// All methods are safe for concurrent use.  A nil *Collector is a
// valid no-op receiver, so callers never need to nil-check.
package metrics

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"
)

// Collector tracks runtime metrics for one IRC session.
// A nil Collector is safe to use — all methods become no-ops.
type Collector struct {
	linesIn       atomic.Int64
	linesOut      atomic.Int64
	bytesIn       atomic.Int64
	bytesOut      atomic.Int64
	pingsAnswered atomic.Int64
	channelJoins  atomic.Int64
	reconnects    atomic.Int64
	errorsTotal   atomic.Int64

	mu           sync.RWMutex
	startTime    time.Time
	lastError    time.Time
	lastErrorMsg string
}

// New creates a metrics collector with the start time set to now.
func New() *Collector {
	return &Collector{startTime: time.Now()}
}

// ── Line and byte metrics ────────────────────────────────────────────

// LineReceived records one inbound protocol line of n raw bytes.
func (c *Collector) LineReceived(n int) {
	if c == nil {
		return
	}
	c.linesIn.Add(1)
	c.bytesIn.Add(int64(n))
}

// LineSent records one outbound protocol line of n raw bytes.
func (c *Collector) LineSent(n int) {
	if c == nil {
		return
	}
	c.linesOut.Add(1)
	c.bytesOut.Add(int64(n))
}

// LinesIn returns the total inbound line count.
func (c *Collector) LinesIn() int64 {
	if c == nil {
		return 0
	}
	return c.linesIn.Load()
}

// LinesOut returns the total outbound line count.
func (c *Collector) LinesOut() int64 {
	if c == nil {
		return 0
	}
	return c.linesOut.Load()
}

// ── Protocol event metrics ───────────────────────────────────────────

// PingAnswered records one PING answered with a PONG.
func (c *Collector) PingAnswered() {
	if c == nil {
		return
	}
	c.pingsAnswered.Add(1)
}

// PingsAnswered returns the total number of PONG replies sent.
func (c *Collector) PingsAnswered() int64 {
	if c == nil {
		return 0
	}
	return c.pingsAnswered.Load()
}

// ChannelJoined records one issued JOIN.
func (c *Collector) ChannelJoined() {
	if c == nil {
		return
	}
	c.channelJoins.Add(1)
}

// ChannelJoins returns the total number of JOIN lines issued.
func (c *Collector) ChannelJoins() int64 {
	if c == nil {
		return 0
	}
	return c.channelJoins.Load()
}

// Reconnect records a session reconnection event.
func (c *Collector) Reconnect() {
	if c == nil {
		return
	}
	c.reconnects.Add(1)
}

// Reconnects returns the total reconnection count.
func (c *Collector) Reconnects() int64 {
	if c == nil {
		return 0
	}
	return c.reconnects.Load()
}

// ── Error metrics ────────────────────────────────────────────────────

// RecordError increments the error counter and stores the message.
func (c *Collector) RecordError(msg string) {
	if c == nil {
		return
	}
	c.errorsTotal.Add(1)
	c.mu.Lock()
	c.lastError = time.Now()
	c.lastErrorMsg = msg
	c.mu.Unlock()
}

// ErrorCount returns the total number of errors recorded.
func (c *Collector) ErrorCount() int64 {
	if c == nil {
		return 0
	}
	return c.errorsTotal.Load()
}

// ── Snapshot ─────────────────────────────────────────────────────────

// Snapshot is a point-in-time view of all metrics.
type Snapshot struct {
	Uptime           string `json:"uptime"`
	LinesIn          int64  `json:"lines_in"`
	LinesOut         int64  `json:"lines_out"`
	BytesIn          int64  `json:"bytes_in"`
	BytesOut         int64  `json:"bytes_out"`
	PingsAnswered    int64  `json:"pings_answered"`
	ChannelJoins     int64  `json:"channel_joins"`
	Reconnects       int64  `json:"reconnects"`
	ErrorsTotal      int64  `json:"errors_total"`
	LastError        string `json:"last_error,omitempty"`
	LastErrorMessage string `json:"last_error_message,omitempty"`
}

// Snapshot returns a copy of all current metrics.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := Snapshot{
		Uptime:        time.Since(c.startTime).Truncate(time.Second).String(),
		LinesIn:       c.linesIn.Load(),
		LinesOut:      c.linesOut.Load(),
		BytesIn:       c.bytesIn.Load(),
		BytesOut:      c.bytesOut.Load(),
		PingsAnswered: c.pingsAnswered.Load(),
		ChannelJoins:  c.channelJoins.Load(),
		Reconnects:    c.reconnects.Load(),
		ErrorsTotal:   c.errorsTotal.Load(),
	}
	if !c.lastError.IsZero() {
		s.LastError = c.lastError.Format(time.RFC3339)
		s.LastErrorMessage = c.lastErrorMsg
	}
	return s
}

// JSON returns the snapshot as an indented JSON string.
func (c *Collector) JSON() string {
	s := c.Snapshot()
	data, _ := json.MarshalIndent(s, "", "  ")
	return string(data)
}
