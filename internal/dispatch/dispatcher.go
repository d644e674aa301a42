package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/nerrad567/devicelink/internal/device"
	"github.com/nerrad567/devicelink/internal/fault"
)

const (
	// DefaultTimeout bounds a command round trip when none is configured.
	DefaultTimeout = 10 * time.Second

	// maxReplySize caps how much of a device reply is read.
	maxReplySize = 1 << 20
)

// Resolver scopes a device to its owner. *device.Mediator satisfies it.
type Resolver interface {
	Resolve(ctx context.Context, ownerID, deviceID string) (*device.Device, error)
}

// Logger is the logging surface Dispatcher needs.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Warn(string, ...any)  {}

// Dispatcher issues outbound device commands. It holds no locks across
// the network call.
type Dispatcher struct {
	devices    Resolver
	httpClient *http.Client
	logger     Logger
}

// New creates a Dispatcher whose round trips are bounded by timeout.
// A non-positive timeout selects DefaultTimeout.
func New(devices Resolver, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Dispatcher{
		devices:    devices,
		httpClient: &http.Client{Timeout: timeout},
		logger:     noopLogger{},
	}
}

// SetLogger sets the logger for the dispatcher.
func (d *Dispatcher) SetLogger(logger Logger) {
	if logger != nil {
		d.logger = logger
	}
}

// ControlStream turns the device's reading stream on or off.
//
// The request is GET http://{address:port}/{ownerID}/{deviceID}/{on|off}.
// No lock or transaction is held while waiting for the device.
//
// Parameters:
//   - ctx: Context for cancellation, combined with the dispatch timeout
//   - ownerID: Account that owns the device
//   - deviceID: Target device
//   - onOff: Exactly "on" or "off"
//
// Returns:
//   - json.RawMessage: The device's JSON reply, unmodified
//   - error: fault.ErrInvalidArgument, fault.ErrNotFound or fault.ErrDeviceUnreachable
func (d *Dispatcher) ControlStream(ctx context.Context, ownerID, deviceID, onOff string) (json.RawMessage, error) {
	state, err := parseState(onOff)
	if err != nil {
		return nil, err
	}

	dev, err := d.devices.Resolve(ctx, ownerID, deviceID)
	if err != nil {
		return nil, err
	}
	return d.send(ctx, dev, commandURL(dev, state))
}

// SetPin drives one of the device's output pins on or off.
func (d *Dispatcher) SetPin(ctx context.Context, ownerID, deviceID, onOff, pin string) (json.RawMessage, error) {
	state, err := parseState(onOff)
	if err != nil {
		return nil, err
	}
	pin = strings.TrimSpace(pin)
	if pin == "" {
		return nil, fault.Invalid("pin", "is empty or blank")
	}

	dev, err := d.devices.Resolve(ctx, ownerID, deviceID)
	if err != nil {
		return nil, err
	}
	return d.send(ctx, dev, commandURL(dev, "pin", pin, state))
}

// parseState accepts exactly "on" or "off".
func parseState(onOff string) (string, error) {
	switch onOff {
	case "on", "off":
		return onOff, nil
	}
	return "", fmt.Errorf("%w: query can only be on or off", fault.ErrInvalidArgument)
}

func (d *Dispatcher) send(ctx context.Context, dev *device.Device, target string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, unreachable(dev, err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := d.httpClient.Do(req)
	if err != nil {
		d.logger.Warn("device command failed", "device_id", dev.ID, "error", err)
		return nil, unreachable(dev, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxReplySize+1))
	if err != nil {
		return nil, unreachable(dev, fmt.Errorf("reading reply: %w", err))
	}
	if len(body) > maxReplySize {
		return nil, unreachable(dev, fmt.Errorf("reply exceeds %d bytes", maxReplySize))
	}

	body = bytes.TrimSpace(body)
	if !json.Valid(body) {
		return nil, unreachable(dev, fmt.Errorf("reply is not JSON (status %d)", resp.StatusCode))
	}

	d.logger.Debug("device command sent",
		"device_id", dev.ID,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)
	return json.RawMessage(body), nil
}

func unreachable(dev *device.Device, err error) error {
	return fmt.Errorf("%w: device %s at %s: %w", fault.ErrDeviceUnreachable, dev.ID, dev.Address, err)
}

// host is address:port when port is a usable TCP port, else the bare
// address. Port tokens are opaque and not always numeric.
func host(dev *device.Device) string {
	port, err := strconv.Atoi(dev.Port)
	if err != nil || port < 1 || port > 65535 || strconv.Itoa(port) != dev.Port {
		return dev.Address
	}
	return net.JoinHostPort(dev.Address, dev.Port)
}

// commandURL builds http://{host}/{accountId}/{deviceId}/{segments...},
// escaping every path segment.
func commandURL(dev *device.Device, segments ...string) string {
	parts := append([]string{dev.AccountID, dev.ID}, segments...)
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return "http://" + host(dev) + "/" + strings.Join(parts, "/")
}
