package eventbus

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestValidationError(t *testing.T) {
	err := &ValidationError{EventType: "doc.saved", Problems: []string{"a", "b"}}

	if !errors.Is(err, ErrInvalidEvent) {
		t.Error("expected ValidationError to match ErrInvalidEvent")
	}
	if !strings.Contains(err.Error(), "a; b") {
		t.Errorf("expected joined problems in message, got %q", err.Error())
	}
}

func TestMaxListenersError(t *testing.T) {
	err := &MaxListenersError{EventType: "doc.saved", Limit: 5}

	if !errors.Is(err, ErrMaxListeners) {
		t.Error("expected MaxListenersError to match ErrMaxListeners")
	}
	if !strings.Contains(err.Error(), "5") {
		t.Errorf("expected limit in message, got %q", err.Error())
	}
}

func TestHandlerError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := &HandlerError{SubscriptionID: "sub-1", EventType: "doc.saved", Err: cause}

	if !errors.Is(err, cause) {
		t.Error("expected HandlerError to unwrap to its cause")
	}
}

func TestHandlerTimeoutError(t *testing.T) {
	err := &HandlerTimeoutError{SubscriptionID: "sub-1", EventType: "doc.saved", Timeout: 50 * time.Millisecond}

	if !errors.Is(err, ErrHandlerTimeout) {
		t.Error("expected HandlerTimeoutError to match ErrHandlerTimeout")
	}
}

func TestPanicError(t *testing.T) {
	err := &PanicError{SubscriptionID: "sub-1", EventType: "doc.saved", Value: "boom"}

	if !errors.Is(err, ErrHandlerPanic) {
		t.Error("expected PanicError to match ErrHandlerPanic")
	}
}

func TestRateLimitError(t *testing.T) {
	err := &RateLimitError{Limit: 10}

	if !errors.Is(err, ErrRateLimited) {
		t.Error("expected RateLimitError to match ErrRateLimited")
	}
}

func TestEmitError_Unwrap(t *testing.T) {
	cause := &ValidationError{EventType: "doc.saved", Problems: []string{"bad"}}
	err := &EmitError{EventType: "doc.saved", Err: cause}

	if !errors.Is(err, ErrInvalidEvent) {
		t.Error("expected EmitError to unwrap through to ErrInvalidEvent")
	}

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatal("expected errors.As to find the ValidationError")
	}
	if verr.Problems[0] != "bad" {
		t.Errorf("unexpected problems: %v", verr.Problems)
	}
}

func TestIsBusError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", errors.New("boom"), false},
		{"validation", &ValidationError{EventType: "t"}, true},
		{"max listeners", &MaxListenersError{EventType: "t", Limit: 1}, true},
		{"middleware", &MiddlewareError{EventType: "t", Err: errors.New("x")}, true},
		{"handler", &HandlerError{Err: errors.New("x")}, true},
		{"timeout", &HandlerTimeoutError{Timeout: time.Second}, true},
		{"panic", &PanicError{Value: "x"}, true},
		{"rate limit", &RateLimitError{Limit: 1}, true},
		{"emit", &EmitError{Err: errors.New("x")}, true},
		{"wrapped bus error", &EmitError{Err: &RateLimitError{Limit: 1}}, true},
		{"joined handler errors", errors.Join(&HandlerError{Err: errors.New("x")}, errors.New("y")), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsBusError(tt.err); got != tt.want {
				t.Errorf("IsBusError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
