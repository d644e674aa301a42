package dispatch

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nerrad567/devicelink/internal/auth"
	"github.com/nerrad567/devicelink/internal/device"
	"github.com/nerrad567/devicelink/internal/fault"
	"github.com/nerrad567/devicelink/internal/infrastructure/database/dbtest"
	"github.com/nerrad567/devicelink/internal/telemetry"
)

// fakeResolver hands out one fixed device to its owner.
type fakeResolver struct {
	dev   *device.Device
	calls int
}

func (r *fakeResolver) Resolve(_ context.Context, ownerID, deviceID string) (*device.Device, error) {
	r.calls++
	if ownerID != r.dev.AccountID || deviceID != r.dev.ID {
		return nil, fault.ErrNotFound
	}
	d := *r.dev
	return &d, nil
}

// deviceServer fakes a device endpoint and records the request it received.
type deviceServer struct {
	*httptest.Server
	mu          sync.Mutex
	path        string
	method      string
	contentType string
	hits        int
}

func newDeviceServer(t *testing.T, reply string) *deviceServer {
	t.Helper()
	ds := &deviceServer{}
	ds.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ds.mu.Lock()
		ds.path = r.URL.EscapedPath()
		ds.method = r.Method
		ds.contentType = r.Header.Get("Content-Type")
		ds.hits++
		ds.mu.Unlock()
		w.Write([]byte(reply)) //nolint:errcheck // test server
	}))
	t.Cleanup(ds.Close)
	return ds
}

// last returns the recorded request path, method, content type and hit count.
func (ds *deviceServer) last() (path, method, contentType string, hits int) {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	return ds.path, ds.method, ds.contentType, ds.hits
}

func (ds *deviceServer) lastPath() string {
	path, _, _, _ := ds.last()
	return path
}

func (ds *deviceServer) device(t *testing.T) *device.Device {
	t.Helper()
	address, port, err := net.SplitHostPort(ds.Listener.Addr().String())
	if err != nil {
		t.Fatalf("SplitHostPort() error = %v", err)
	}
	return &device.Device{ID: "dev-1", AccountID: "acct-1", Address: address, Port: port}
}

func TestControlStream(t *testing.T) {
	ds := newDeviceServer(t, `{"stat":"streaming"}`)
	resolver := &fakeResolver{dev: ds.device(t)}
	d := New(resolver, time.Second)

	reply, err := d.ControlStream(t.Context(), "acct-1", "dev-1", "on")
	if err != nil {
		t.Fatalf("ControlStream() error = %v", err)
	}
	if string(reply) != `{"stat":"streaming"}` {
		t.Errorf("reply = %s, want verbatim device JSON", reply)
	}
	path, method, contentType, hits := ds.last()
	if path != "/acct-1/dev-1/on" {
		t.Errorf("path = %s, want /acct-1/dev-1/on", path)
	}
	if method != http.MethodGet || contentType != "application/json" {
		t.Errorf("request = %s with Content-Type %q", method, contentType)
	}
	if hits != 1 {
		t.Errorf("device hit %d times, want exactly one attempt", hits)
	}
}

func TestSetPin(t *testing.T) {
	ds := newDeviceServer(t, `{"stat":"pin 13 off"}`)
	d := New(&fakeResolver{dev: ds.device(t)}, time.Second)

	reply, err := d.SetPin(t.Context(), "acct-1", "dev-1", "off", " 13 ")
	if err != nil {
		t.Fatalf("SetPin() error = %v", err)
	}
	if string(reply) != `{"stat":"pin 13 off"}` {
		t.Errorf("reply = %s", reply)
	}
	if path := ds.lastPath(); path != "/acct-1/dev-1/pin/13/off" {
		t.Errorf("path = %s, want /acct-1/dev-1/pin/13/off", path)
	}
}

func TestSetPin_EscapesSegments(t *testing.T) {
	ds := newDeviceServer(t, `{}`)
	d := New(&fakeResolver{dev: ds.device(t)}, time.Second)

	if _, err := d.SetPin(t.Context(), "acct-1", "dev-1", "on", "a/b c"); err != nil {
		t.Fatalf("SetPin() error = %v", err)
	}
	if path := ds.lastPath(); path != "/acct-1/dev-1/pin/a%2Fb%20c/on" {
		t.Errorf("path = %s, want escaped pin segment", path)
	}
}

func TestValidationBeforeNetwork(t *testing.T) {
	ds := newDeviceServer(t, `{}`)
	resolver := &fakeResolver{dev: ds.device(t)}
	d := New(resolver, time.Second)
	ctx := t.Context()

	for _, onOff := range []string{"", "ON", "maybe", " on"} {
		if _, err := d.ControlStream(ctx, "acct-1", "dev-1", onOff); !errors.Is(err, fault.ErrInvalidArgument) {
			t.Errorf("ControlStream(%q) error = %v, want ErrInvalidArgument", onOff, err)
		}
		if _, err := d.SetPin(ctx, "acct-1", "dev-1", onOff, "13"); !errors.Is(err, fault.ErrInvalidArgument) {
			t.Errorf("SetPin(%q) error = %v, want ErrInvalidArgument", onOff, err)
		}
	}
	if _, err := d.SetPin(ctx, "acct-1", "dev-1", "on", "  "); !errors.Is(err, fault.ErrInvalidArgument) {
		t.Errorf("SetPin(blank pin) error = %v, want ErrInvalidArgument", err)
	}

	if _, _, _, hits := ds.last(); resolver.calls != 0 || hits != 0 {
		t.Errorf("resolver calls = %d, device hits = %d; want 0", resolver.calls, hits)
	}
}

func TestUnknownDevice(t *testing.T) {
	ds := newDeviceServer(t, `{}`)
	d := New(&fakeResolver{dev: ds.device(t)}, time.Second)

	if _, err := d.ControlStream(t.Context(), "acct-2", "dev-1", "on"); !errors.Is(err, fault.ErrNotFound) {
		t.Errorf("ControlStream() error = %v, want ErrNotFound", err)
	}
	if _, _, _, hits := ds.last(); hits != 0 {
		t.Error("device contacted for a device the caller does not own")
	}
}

func TestUnreachable(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"not json", func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte("<html>ok</html>")) //nolint:errcheck // test server
		}},
		{"empty body", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}},
		{"too large", func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte(`"` + strings.Repeat("x", maxReplySize) + `"`)) //nolint:errcheck // test server
		}},
		{"slow", func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-time.After(2 * time.Second):
			case <-r.Context().Done():
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			address, port, _ := net.SplitHostPort(srv.Listener.Addr().String()) //nolint:errcheck // httptest address
			dev := &device.Device{ID: "dev-1", AccountID: "acct-1", Address: address, Port: port}
			d := New(&fakeResolver{dev: dev}, 200*time.Millisecond)

			_, err := d.ControlStream(t.Context(), "acct-1", "dev-1", "off")
			if !errors.Is(err, fault.ErrDeviceUnreachable) {
				t.Errorf("ControlStream() error = %v, want ErrDeviceUnreachable", err)
			}
		})
	}
}

func TestUnreachable_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	address, port, _ := net.SplitHostPort(srv.Listener.Addr().String()) //nolint:errcheck // httptest address
	srv.Close()

	dev := &device.Device{ID: "dev-1", AccountID: "acct-1", Address: address, Port: port}
	d := New(&fakeResolver{dev: dev}, time.Second)

	if _, err := d.ControlStream(t.Context(), "acct-1", "dev-1", "on"); !errors.Is(err, fault.ErrDeviceUnreachable) {
		t.Errorf("ControlStream() error = %v, want ErrDeviceUnreachable", err)
	}
}

func TestNonSuccessStatusIsReturned(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"relay stuck"}`)) //nolint:errcheck // test server
	}))
	defer srv.Close()

	address, port, _ := net.SplitHostPort(srv.Listener.Addr().String()) //nolint:errcheck // httptest address
	dev := &device.Device{ID: "dev-1", AccountID: "acct-1", Address: address, Port: port}

	reply, err := New(&fakeResolver{dev: dev}, time.Second).ControlStream(t.Context(), "acct-1", "dev-1", "on")
	if err != nil {
		t.Fatalf("ControlStream() error = %v", err)
	}
	if string(reply) != `{"error":"relay stuck"}` {
		t.Errorf("reply = %s", reply)
	}
}

func TestHost(t *testing.T) {
	tests := []struct {
		port string
		want string
	}{
		{"5000", "192.168.1.1:5000"},
		{"1", "192.168.1.1:1"},
		{"65535", "192.168.1.1:65535"},
		{"0", "192.168.1.1"},
		{"65536", "192.168.1.1"},
		{"05000", "192.168.1.1"},
		{"+80", "192.168.1.1"},
		{"abc", "192.168.1.1"},
	}

	for _, tt := range tests {
		t.Run(tt.port, func(t *testing.T) {
			got := host(&device.Device{Address: "192.168.1.1", Port: tt.port})
			if got != tt.want {
				t.Errorf("host(port %q) = %s, want %s", tt.port, got, tt.want)
			}
		})
	}
}

func TestDispatcher_WithRegistry(t *testing.T) {
	ds := newDeviceServer(t, `{"stat":"ok"}`)
	address, port, _ := net.SplitHostPort(ds.Listener.Addr().String()) //nolint:errcheck // httptest address

	db := dbtest.Open(t)
	ctx := t.Context()
	accounts := auth.NewService(auth.NewAccountRepository(db.DB))
	repo := device.NewSQLiteRepository(db.DB)
	mediator := device.NewMediator(accounts, repo)
	registry := device.NewRegistry(mediator, repo)

	owner, err := accounts.Create(ctx, "John", "Doe", "jd@mail.com", "123123ab")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	other, err := accounts.Create(ctx, "Jane", "Doe", "jane@mail.com", "123123ab")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	dev, err := registry.Add(ctx, owner, address, port)
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	d := New(mediator, 0)

	if _, err := d.ControlStream(ctx, other, dev, "on"); !errors.Is(err, fault.ErrNotFound) {
		t.Errorf("ControlStream() by non-owner error = %v, want ErrNotFound", err)
	}
	if _, err := d.ControlStream(ctx, owner, dev, "on"); err != nil {
		t.Fatalf("ControlStream() error = %v", err)
	}
	if want := "/" + owner + "/" + dev + "/on"; ds.lastPath() != want {
		t.Errorf("path = %s, want %s", ds.lastPath(), want)
	}
}

func TestDispatcher_StorageUsableWhileDeviceBlocks(t *testing.T) {
	arrived := make(chan struct{})
	release := make(chan struct{})
	board := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(arrived)
		select {
		case <-release:
		case <-r.Context().Done():
		}
		w.Write([]byte(`{"stat":"ok"}`)) //nolint:errcheck // test server
	}))
	t.Cleanup(board.Close)
	address, port, _ := net.SplitHostPort(board.Listener.Addr().String()) //nolint:errcheck // httptest address

	db := dbtest.Open(t)
	ctx := t.Context()
	accounts := auth.NewService(auth.NewAccountRepository(db.DB))
	repo := device.NewSQLiteRepository(db.DB)
	mediator := device.NewMediator(accounts, repo)
	registry := device.NewRegistry(mediator, repo)
	store := telemetry.NewStore(mediator, telemetry.NewSQLiteRepository(db.DB))

	owner, err := accounts.Create(ctx, "John", "Doe", "jd@mail.com", "123123ab")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	dev, err := registry.Add(ctx, owner, address, port)
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	d := New(mediator, 10*time.Second)
	done := make(chan error, 1)
	go func() {
		_, err := d.ControlStream(ctx, owner, dev, "on")
		done <- err
	}()
	defer close(release)

	select {
	case <-arrived:
	case <-time.After(5 * time.Second):
		t.Fatal("device never received the command")
	}

	// The command is in flight; storage must not be held by it.
	quick, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if _, err := registry.Get(quick, owner, dev); err != nil {
		t.Errorf("Get() during command error = %v", err)
	}
	if _, err := store.Append(quick, owner, dev, 21.5); err != nil {
		t.Errorf("Append() during command error = %v", err)
	}
	if _, err := registry.Add(quick, owner, "10.0.0.1", "80"); err != nil {
		t.Errorf("Add() during command error = %v", err)
	}

	select {
	case err := <-done:
		t.Fatalf("ControlStream() returned before the device answered: %v", err)
	default:
	}

	release <- struct{}{}
	if err := <-done; err != nil {
		t.Errorf("ControlStream() error = %v", err)
	}
}
