package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/nerrad567/devicelink/internal/device"
)

// Resolver scopes a device to its owner. *device.Mediator satisfies it.
type Resolver interface {
	Resolve(ctx context.Context, ownerID, deviceID string) (*device.Device, error)
}

// Mirror receives every committed sample. ts is epoch milliseconds.
// Implementations must not block; *influxdb.Client queues the write.
type Mirror interface {
	WriteSample(deviceID, accountID string, value float64, ts int64)
}

// Logger is the logging surface Store needs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}

// Store is the telemetry store. Every operation resolves the device through
// the owner first.
type Store struct {
	devices Resolver
	repo    Repository
	mirror  Mirror
	now     func() time.Time
	logger  Logger
}

// NewStore creates a Store.
func NewStore(devices Resolver, repo Repository) *Store {
	return &Store{
		devices: devices,
		repo:    repo,
		now:     time.Now,
		logger:  noopLogger{},
	}
}

// SetMirror sets the secondary sink for committed samples. nil disables it.
func (s *Store) SetMirror(m Mirror) {
	s.mirror = m
}

// SetClock replaces the timestamp source.
func (s *Store) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// SetLogger sets the logger for the store.
func (s *Store) SetLogger(logger Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// Append stores value for one of ownerID's devices and returns the new
// sample id.
//
// The device is resolved through the mediator first, so a missing account,
// a missing device and a device owned by someone else all fail before
// anything is written. The timestamp is taken from the store's clock, and
// the stored sample is forwarded to the mirror when one is set.
//
// Parameters:
//   - ctx: Context for cancellation
//   - ownerID: Account that owns the device
//   - deviceID: Device the reading belongs to
//   - value: Finite reading; NaN and infinities are rejected
//
// Returns:
//   - string: The new sample id
//   - error: fault.ErrInvalidArgument or fault.ErrNotFound, or a storage error
func (s *Store) Append(ctx context.Context, ownerID, deviceID string, value float64) (string, error) {
	if err := validateValue(value); err != nil {
		return "", err
	}

	d, err := s.devices.Resolve(ctx, ownerID, deviceID)
	if err != nil {
		return "", err
	}

	sample := &Sample{
		DeviceID:  d.ID,
		Timestamp: s.now().UnixMilli(),
		Value:     value,
	}
	if err := s.repo.Append(ctx, sample); err != nil {
		if errors.Is(err, ErrDeviceGone) {
			return "", deviceNotFound(d.ID)
		}
		return "", err
	}

	if s.mirror != nil {
		s.mirror.WriteSample(d.ID, d.AccountID, sample.Value, sample.Timestamp)
	}

	s.logger.Debug("sample appended", "device_id", d.ID, "sample_id", sample.ID)
	return sample.ID, nil
}

// ReadAll returns every sample of one of ownerID's devices, oldest first.
func (s *Store) ReadAll(ctx context.Context, ownerID, deviceID string) ([]Sample, error) {
	d, err := s.devices.Resolve(ctx, ownerID, deviceID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListByDevice(ctx, d.ID)
}

// Clear removes every sample of one of ownerID's devices. The device itself
// is kept, and clearing an empty log succeeds.
func (s *Store) Clear(ctx context.Context, ownerID, deviceID string) error {
	d, err := s.devices.Resolve(ctx, ownerID, deviceID)
	if err != nil {
		return err
	}

	n, err := s.repo.DeleteByDevice(ctx, d.ID)
	if err != nil {
		return err
	}

	s.logger.Info("samples cleared", "device_id", d.ID, "count", n)
	return nil
}
