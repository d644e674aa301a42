package device

import (
	"context"
	"errors"
	"strings"

	"github.com/nerrad567/devicelink/internal/fault"
)

// Logger is the logging surface Registry needs.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Info(string, ...any) {}
func (noopLogger) Warn(string, ...any) {}

// Registry manages each account's devices.
type Registry struct {
	mediator *Mediator
	repo     Repository
	logger   Logger
}

// NewRegistry creates a Registry. Ownership checks go through mediator;
// writes go to repo.
func NewRegistry(mediator *Mediator, repo Repository) *Registry {
	return &Registry{mediator: mediator, repo: repo, logger: noopLogger{}}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger Logger) {
	if logger != nil {
		r.logger = logger
	}
}

// Add registers a device for ownerID and returns the assigned id.
//
// Parameters:
//   - ctx: Context for cancellation
//   - ownerID: Existing account id (trimmed)
//   - address: IPv4 dotted quad (trimmed)
//   - port: Non-empty port token (trimmed); stored as given
//
// Returns:
//   - string: The new device id
//   - error: fault.ErrInvalidArgument for bad input, fault.ErrNotFound
//     when the account does not exist or is deleted during the insert
func (r *Registry) Add(ctx context.Context, ownerID, address, port string) (string, error) {
	ownerID, err := required("account id", ownerID)
	if err != nil {
		return "", err
	}
	address, port, err = normalizeEndpoint(address, port)
	if err != nil {
		return "", err
	}
	if ownerID, err = r.mediator.Owner(ctx, ownerID); err != nil {
		return "", err
	}

	d := &Device{AccountID: ownerID, Address: address, Port: port}
	if err := r.repo.Create(ctx, d); err != nil {
		if errors.Is(err, ErrAccountGone) {
			return "", accountNotFound(ownerID)
		}
		return "", err
	}

	r.logger.Info("device added", "account_id", ownerID, "device_id", d.ID, "address", address)
	return d.ID, nil
}

// Get returns one of ownerID's devices.
func (r *Registry) Get(ctx context.Context, ownerID, deviceID string) (*Device, error) {
	return r.mediator.Resolve(ctx, ownerID, deviceID)
}

// List returns ownerID's devices in the order they were added.
func (r *Registry) List(ctx context.Context, ownerID string) ([]Device, error) {
	ownerID, err := r.mediator.Owner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return r.repo.ListByAccount(ctx, ownerID)
}

// Find returns ownerID's devices whose address contains substring, in
// insertion order. Matching is case-sensitive and unanchored.
func (r *Registry) Find(ctx context.Context, ownerID, substring string) ([]Device, error) {
	if substring == "" {
		return nil, fault.Invalid("query", "is empty")
	}

	devices, err := r.List(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	matches := make([]Device, 0, len(devices))
	for _, d := range devices {
		if strings.Contains(d.Address, substring) {
			matches = append(matches, d)
		}
	}
	return matches, nil
}

// Update replaces the address and port of one of ownerID's devices.
func (r *Registry) Update(ctx context.Context, ownerID, deviceID, address, port string) error {
	address, port, err := normalizeEndpoint(address, port)
	if err != nil {
		return err
	}

	d, err := r.mediator.Resolve(ctx, ownerID, deviceID)
	if err != nil {
		return err
	}

	d.Address = address
	d.Port = port
	if err := r.repo.Update(ctx, d); err != nil {
		if errors.Is(err, ErrDeviceNotFound) {
			return deviceNotFound(d.ID)
		}
		return err
	}
	return nil
}

// Remove deletes one of ownerID's devices together with its samples.
func (r *Registry) Remove(ctx context.Context, ownerID, deviceID string) error {
	d, err := r.mediator.Resolve(ctx, ownerID, deviceID)
	if err != nil {
		return err
	}

	if err := r.repo.Delete(ctx, d.AccountID, d.ID); err != nil {
		if errors.Is(err, ErrDeviceNotFound) {
			return deviceNotFound(d.ID)
		}
		return err
	}

	r.logger.Info("device removed", "account_id", d.AccountID, "device_id", d.ID)
	return nil
}
