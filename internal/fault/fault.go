// Package fault defines the error kinds every DeviceLink operation reports.
//
// Packages wrap a kind with context:
//
//	return fmt.Errorf("%w: no device found with id %s", fault.ErrNotFound, id)
//
// and callers branch with errors.Is. The message after the kind is meant for
// humans and is returned to API clients unchanged.
package fault

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument marks a missing, empty or malformed input. It is
	// always raised before storage or network access.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound marks an account, or a device within an account, that
	// does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateEmail marks an email already held by another account.
	ErrDuplicateEmail = errors.New("duplicate email")

	// ErrCredentials marks an email/password pair matching no account.
	ErrCredentials = errors.New("wrong credentials")

	// ErrDeviceUnreachable marks an outbound device call that did not complete.
	ErrDeviceUnreachable = errors.New("device unreachable")
)

// Invalid returns an ErrInvalidArgument naming the field.
//
//	fault.Invalid("email", "is empty or blank") // "invalid argument: email is empty or blank"
func Invalid(field, problem string) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidArgument, field, problem)
}

// Message strips the kind prefix from err, leaving the human-readable part.
func Message(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for _, kind := range kinds {
		prefix := kind.Error() + ": "
		if len(msg) > len(prefix) && msg[:len(prefix)] == prefix {
			return msg[len(prefix):]
		}
	}
	return msg
}

// Kind returns the kind err wraps, or nil for unclassified errors.
func Kind(err error) error {
	for _, kind := range kinds {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

var kinds = []error{
	ErrInvalidArgument,
	ErrNotFound,
	ErrDuplicateEmail,
	ErrCredentials,
	ErrDeviceUnreachable,
}
