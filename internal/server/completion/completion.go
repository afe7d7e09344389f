// Package completion talks to the language model that answers chat turns.
//
// A Client takes the full turn sequence (system preamble first) and returns
// the reply text. Failures are reported as *Error so callers can tell a
// provider that is down from one that is misconfigured.
package completion

import (
	"context"
	"errors"
	"fmt"
)

// Turn roles understood by every provider.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one entry of the sequence sent to the model.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client produces a single reply for the given turns.
type Client interface {
	Complete(ctx context.Context, turns []Turn) (string, error)
}

// Kind classifies provider failures.
type Kind string

const (
	KindUnavailable          Kind = "unavailable"
	KindUnauthorized         Kind = "unauthorized"
	KindMalformedResponse    Kind = "malformed_response"
	KindInvalidConfiguration Kind = "invalid_configuration"
	KindTimeout              Kind = "timeout"
)

// Error is a typed provider failure. Message is safe to show to operators;
// it never carries credentials.
type Error struct {
	Provider string
	Kind     Kind
	Message  string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(provider string, kind Kind, err error, format string, args ...any) *Error {
	return &Error{Provider: provider, Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the Kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return ""
}
