// Package errors provides structured error types for confide.
// These errors provide context about what operation failed and where.
package errors

import (
	"errors"
	"fmt"
)

// Op describes an operation, usually as "package.function".
type Op string

// Kind categorizes the type of error.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindInvalid
	KindNetwork
	KindServer
	KindDecode
	KindBusy
	KindConfig
	KindIO
	KindTimeout
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindInvalid:
		return "invalid"
	case KindNetwork:
		return "network error"
	case KindServer:
		return "server error"
	case KindDecode:
		return "decode error"
	case KindBusy:
		return "busy"
	case KindConfig:
		return "configuration error"
	case KindIO:
		return "I/O error"
	case KindTimeout:
		return "timeout"
	default:
		return "unknown error"
	}
}

// Error is the structured error type for confide.
type Error struct {
	Op      Op     // Operation that failed
	Kind    Kind   // Category of error
	Err     error  // Underlying error
	Context string // Additional context
}

// Error returns the error message.
func (e *Error) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Context, e.Err)
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// E creates a new Error. Arguments can be:
// - Op: the operation name
// - Kind: the error kind
// - string: context message
// - error: the underlying error
func E(args ...interface{}) error {
	e := &Error{}
	for _, arg := range args {
		switch a := arg.(type) {
		case Op:
			e.Op = a
		case Kind:
			e.Kind = a
		case string:
			e.Context = a
		case error:
			e.Err = a
		}
	}
	if e.Err == nil {
		e.Err = errors.New(e.Context)
		e.Context = ""
	}
	return e
}

// Is reports whether err is of the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// GetKind returns the Kind of an error.
func GetKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Backend request errors

func RequestFailed(op Op, err error) error {
	return E(op, KindNetwork, "request failed", err)
}

func UnexpectedStatus(op Op, status int) error {
	return E(op, KindServer, fmt.Sprintf("unexpected status %d", status))
}

func DecodeFailed(op Op, err error) error {
	return E(op, KindDecode, "failed to decode response", err)
}

// ServerRejected is returned when the backend answers with success=false.
// reason is the server supplied error text, if any.
func ServerRejected(op Op, reason string) error {
	if reason == "" {
		reason = "server reported failure"
	}
	return E(op, KindServer, reason)
}

func ConversationNotFound(id string) error {
	return E(Op("api.History"), KindNotFound, fmt.Sprintf("no history for conversation %s", id))
}

// Busy is returned when an action is attempted while another one holds the task slot.
func Busy(action, holder string) error {
	return E(Op("app.Begin"), KindBusy, fmt.Sprintf("cannot %s while %s", action, holder))
}

// Config errors

func ConfigLoadFailed(path string, err error) error {
	return E(Op("config.Load"), KindConfig, fmt.Sprintf("failed to load config from %s", path), err)
}

func ConfigSaveFailed(path string, err error) error {
	return E(Op("config.Save"), KindConfig, fmt.Sprintf("failed to save config to %s", path), err)
}

func ConfigInvalid(reason string) error {
	return E(Op("config.Validate"), KindInvalid, reason)
}
