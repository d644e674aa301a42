package telemetry

import (
	"errors"
	"fmt"

	"github.com/nerrad567/devicelink/internal/fault"
)

// ErrDeviceGone is returned by the repository when the device row no longer
// exists at insert time.
var ErrDeviceGone = errors.New("device no longer exists")

func deviceNotFound(id string) error {
	return fmt.Errorf("%w: no device found with id %s", fault.ErrNotFound, id)
}
