package types

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failure by where it happened
type ErrorKind string

const (
	// KindConnection covers dial timeouts, refused connections and broken transports
	KindConnection ErrorKind = "ConnectionFailure"
	// KindAuthentication is a device rejection during login
	KindAuthentication ErrorKind = "AuthenticationFailure"
	// KindCommand is a device rejection (!trap) of an otherwise delivered command
	KindCommand ErrorKind = "CommandFailure"
	// KindValidation is raised locally before anything is sent
	KindValidation ErrorKind = "ValidationFailure"
)

// Sentinels for errors.Is matching.
var (
	ErrConnection     = errors.New("connection failure")
	ErrAuthentication = errors.New("authentication failure")
	ErrCommand        = errors.New("command failure")
	ErrValidation     = errors.New("validation failure")
)

// Error is the error type returned by drivers and repositories
type Error struct {
	Kind ErrorKind
	// Op is the command path or operation name
	Op string
	// Target is the entity id or name the operation addressed, if any
	Target string
	// Message is the device's own text for command and login failures
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Op != "" {
		msg += " " + e.Op
	}
	if e.Target != "" {
		msg += " [" + e.Target + "]"
	}
	switch {
	case e.Message != "":
		msg += ": " + e.Message
	case e.Err != nil:
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the sentinel for the error's kind.
func (e *Error) Is(target error) bool {
	switch e.Kind {
	case KindConnection:
		return target == ErrConnection
	case KindAuthentication:
		return target == ErrAuthentication
	case KindCommand:
		return target == ErrCommand
	case KindValidation:
		return target == ErrValidation
	}
	return false
}

// ConnectionError wraps a transport failure.
func ConnectionError(op string, err error) *Error {
	return &Error{Kind: KindConnection, Op: op, Err: err}
}

// AuthenticationError wraps a login rejection.
func AuthenticationError(op, message string, err error) *Error {
	return &Error{Kind: KindAuthentication, Op: op, Message: message, Err: err}
}

// CommandError wraps a device rejection of a command.
func CommandError(op, message string, err error) *Error {
	return &Error{Kind: KindCommand, Op: op, Message: message, Err: err}
}

// ValidationError reports bad input detected before any remote call.
func ValidationError(op, format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Op: op, Message: fmt.Sprintf(format, args...)}
}

// IsKind reports whether err (or anything it wraps) is an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// IsFatal reports whether err must abort an operation rather than be folded
// into a false result. Only device rejections of a command are non-fatal.
func IsFatal(err error) bool {
	return err != nil && !IsKind(err, KindCommand)
}

// DeviceMessage returns the device text carried by err, or err.Error().
func DeviceMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return err.Error()
}
