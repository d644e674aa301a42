package device

import (
	"fmt"

	"github.com/nerrad567/devicelink/internal/fault"
)

var (
	// ErrDeviceNotFound is returned by the repository when no device matches
	// both the id and the owning account.
	ErrDeviceNotFound = fmt.Errorf("%w: device", fault.ErrNotFound)

	// ErrAccountGone is returned by Create when the owning account no
	// longer exists at insert time.
	ErrAccountGone = fmt.Errorf("%w: account", fault.ErrNotFound)

	// ErrDeviceExists is returned when an insert collides with an existing id.
	ErrDeviceExists = fmt.Errorf("device id already exists")
)

func deviceNotFound(id string) error {
	return fmt.Errorf("%w: no device found with id %s", fault.ErrNotFound, id)
}

func accountNotFound(id string) error {
	return fmt.Errorf("%w: no account found with id %s", fault.ErrNotFound, id)
}
