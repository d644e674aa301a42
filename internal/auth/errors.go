package auth

import (
	"errors"
	"fmt"

	"github.com/nerrad567/devicelink/internal/fault"
)

var (
	// ErrAccountNotFound is returned by the repository for unknown ids or emails.
	// Service adds the looked-up id to the message.
	ErrAccountNotFound = fmt.Errorf("%w: account", fault.ErrNotFound)

	// ErrEmailExists is returned by the repository when the UNIQUE index on
	// email rejects a write.
	ErrEmailExists = fmt.Errorf("%w: email already registered", fault.ErrDuplicateEmail)

	// ErrTokenInvalid covers bad signatures, expiry and malformed claims.
	ErrTokenInvalid = errors.New("invalid token")
)

func accountNotFound(id string) error {
	return fmt.Errorf("%w: no account found with id %s", fault.ErrNotFound, id)
}

func duplicateEmail(email string) error {
	return fmt.Errorf("%w: account with email %s already exists", fault.ErrDuplicateEmail, email)
}
