package mikrotik

import (
	"strings"

	"github.com/nanoncore/nano-routeros/types"
)

// ErrorCode is a normalized classification of a RouterOS trap message
type ErrorCode string

const (
	ErrAlreadyExists  ErrorCode = "ALREADY_EXISTS"
	ErrNotFound       ErrorCode = "NOT_FOUND"
	ErrInvalidValue   ErrorCode = "INVALID_VALUE"
	ErrUnknownCommand ErrorCode = "UNKNOWN_CMD"
	ErrPermission     ErrorCode = "PERMISSION"
	ErrAuthFailed     ErrorCode = "AUTH_FAILED"
	ErrNotSupported   ErrorCode = "NOT_SUPPORTED"
	ErrUnknown        ErrorCode = "UNKNOWN"
)

// ErrorMapping describes a known trap message
type ErrorMapping struct {
	Code   ErrorCode
	Human  string
	Action string
}

// trapPatterns maps lowercase fragments of device messages to structured errors.
// Checked in order; the first fragment found wins.
var trapPatterns = []struct {
	fragment string
	mapping  ErrorMapping
}{
	{"already have", ErrorMapping{ErrAlreadyExists, "An entry with this name already exists", "Pick another name or delete the existing entry"}},
	{"already exists", ErrorMapping{ErrAlreadyExists, "An entry with this name already exists", "Pick another name or delete the existing entry"}},
	{"no such item", ErrorMapping{ErrNotFound, "The entry does not exist", "List the entries and retry with a current id"}},
	{"input does not match", ErrorMapping{ErrInvalidValue, "A referenced profile or server does not exist", "Check the profile and server names"}},
	{"invalid value", ErrorMapping{ErrInvalidValue, "A parameter value was rejected", "Check the parameter format"}},
	{"value of", ErrorMapping{ErrInvalidValue, "A parameter value was rejected", "Check the parameter format"}},
	{"no such command", ErrorMapping{ErrUnknownCommand, "Command not available on this RouterOS version", "Check the package is installed and enabled"}},
	{"bad command", ErrorMapping{ErrUnknownCommand, "Command not available on this RouterOS version", "Check the package is installed and enabled"}},
	{"not enough permissions", ErrorMapping{ErrPermission, "The API user lacks the required policy", "Grant write/api policies to the user group"}},
	{"invalid user name or password", ErrorMapping{ErrAuthFailed, "Login rejected", "Check username and password"}},
	{"cannot log in", ErrorMapping{ErrAuthFailed, "Login rejected", "Check username and password"}},
	{"not supported", ErrorMapping{ErrNotSupported, "Operation not supported by this transport", "Use the api or ssh transport"}},
}

// Classify maps a device message to an ErrorCode.
func Classify(message string) ErrorCode {
	return Translate(message).Code
}

// Translate maps a device message to its ErrorMapping, falling back to ErrUnknown.
func Translate(message string) ErrorMapping {
	lower := strings.ToLower(message)
	for _, p := range trapPatterns {
		if strings.Contains(lower, p.fragment) {
			return p.mapping
		}
	}
	return ErrorMapping{Code: ErrUnknown, Human: message, Action: "Check the router log for details"}
}

// CodeOf classifies any error returned by an executor.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	switch {
	case types.IsKind(err, types.KindAuthentication):
		return ErrAuthFailed
	case types.IsKind(err, types.KindCommand):
		return Classify(types.DeviceMessage(err))
	}
	return ErrUnknown
}
