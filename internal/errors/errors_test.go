package errors

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"testing"
)

func TestNetworkError_Format(t *testing.T) {
	e := Wrap("dial", "irc.example.org:6667", fmt.Errorf("connection refused"))
	msg := e.Error()
	if !strings.Contains(msg, "dial") || !strings.Contains(msg, "irc.example.org:6667") {
		t.Errorf("missing context: %q", msg)
	}
	if e.Retryable {
		t.Error("plain error should not classify as retryable")
	}
}

func TestNetworkError_Unwrap(t *testing.T) {
	inner := fmt.Errorf("boom")
	e := Wrap("read", "addr", inner)
	if !errors.Is(e, inner) {
		t.Error("Unwrap should expose the inner error")
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", fmt.Errorf("x"), false},
		{"protocol violation", &ProtocolError{Reason: "oversized"}, false},
		{"registration failure", &RegistrationError{Nick: "bot1", Code: "433"}, false},
		{"retryable network", &NetworkError{Op: "read", Err: fmt.Errorf("x"), Retryable: true}, true},
		{"non-retryable network", &NetworkError{Op: "dial", Err: fmt.Errorf("x")}, false},
		{"stream closed", ErrStreamClosed, false},
		{"temporary dns", &net.DNSError{Err: "x", IsTemporary: true}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsRetryable_WrappedProtocolError(t *testing.T) {
	// A protocol violation stays non-retryable through wrapping.
	err := fmt.Errorf("serve: %w", &ProtocolError{Reason: "oversized"})
	if IsRetryable(err) {
		t.Error("wrapped protocol violation must not be retryable")
	}
}

func TestProtocolError_Format(t *testing.T) {
	e := &ProtocolError{Reason: "line exceeds 512 bytes", Line: "PRIVMSG..."}
	if !strings.Contains(e.Error(), "512") || !strings.Contains(e.Error(), "PRIVMSG") {
		t.Errorf("unexpected message: %q", e.Error())
	}

	bare := &ProtocolError{Reason: "oversized"}
	if strings.Contains(bare.Error(), `""`) {
		t.Errorf("empty line should be omitted: %q", bare.Error())
	}
}

func TestRegistrationError_Format(t *testing.T) {
	e := &RegistrationError{Nick: "bot1_", Code: "433"}
	msg := e.Error()
	if !strings.Contains(msg, "bot1_") || !strings.Contains(msg, "433") {
		t.Errorf("missing context: %q", msg)
	}
}

func TestConfigError_Format(t *testing.T) {
	e := &ConfigError{
		Field:   "nick",
		Value:   "9lives",
		Message: "invalid nickname",
		Hint:    "nicknames must not start with a digit",
	}
	msg := e.Error()
	for _, want := range []string{"nick", "9lives", "invalid nickname", "hint:"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q missing %q", msg, want)
		}
	}
}
