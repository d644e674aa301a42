package telemetry

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/nerrad567/devicelink/internal/auth"
	"github.com/nerrad567/devicelink/internal/device"
	"github.com/nerrad567/devicelink/internal/fault"
	"github.com/nerrad567/devicelink/internal/infrastructure/database/dbtest"
)

type testEnv struct {
	accounts *auth.Service
	registry *device.Registry
	store    *Store
	repo     *SQLiteRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := dbtest.Open(t)

	accounts := auth.NewService(auth.NewAccountRepository(db.DB))
	devices := device.NewSQLiteRepository(db.DB)
	mediator := device.NewMediator(accounts, devices)
	repo := NewSQLiteRepository(db.DB)

	return &testEnv{
		accounts: accounts,
		registry: device.NewRegistry(mediator, devices),
		store:    NewStore(mediator, repo),
		repo:     repo,
	}
}

// seed creates an account with one device and returns both ids.
func (e *testEnv) seed(t *testing.T, email string) (string, string) {
	t.Helper()
	ctx := t.Context()
	owner, err := e.accounts.Create(ctx, "John", "Doe", email, "123123ab")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	dev, err := e.registry.Add(ctx, owner, "192.168.1.1", "5000")
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	return owner, dev
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Millisecond)
	return c.now
}

type recordingMirror struct {
	mu      sync.Mutex
	written []Sample
	owners  []string
}

func (m *recordingMirror) WriteSample(deviceID, accountID string, value float64, ts int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.written = append(m.written, Sample{DeviceID: deviceID, Value: value, Timestamp: ts})
	m.owners = append(m.owners, accountID)
}

func TestStore_AppendReadAll(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()
	owner, dev := env.seed(t, "jd@mail.com")

	clock := &fakeClock{now: time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)}
	env.store.SetClock(clock.Now)

	values := []float64{12, 13, 11}
	ids := make([]string, 0, len(values))
	for _, v := range values {
		id, err := env.store.Append(ctx, owner, dev, v)
		if err != nil {
			t.Fatalf("Append(%v) error = %v", v, err)
		}
		ids = append(ids, id)
	}

	samples, err := env.store.ReadAll(ctx, owner, dev)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(samples) != len(values) {
		t.Fatalf("ReadAll() returned %d samples, want %d", len(samples), len(values))
	}

	start := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC).UnixMilli()
	for i, s := range samples {
		if s.Value != values[i] {
			t.Errorf("samples[%d].Value = %v, want %v", i, s.Value, values[i])
		}
		if s.ID != ids[i] {
			t.Errorf("samples[%d].ID = %s, want %s", i, s.ID, ids[i])
		}
		if want := start + int64(i+1); s.Timestamp != want {
			t.Errorf("samples[%d].Timestamp = %d, want %d", i, s.Timestamp, want)
		}
	}
}

func TestStore_TimestampIsServerAssigned(t *testing.T) {
	env := newTestEnv(t)
	owner, dev := env.seed(t, "jd@mail.com")

	before := time.Now().UnixMilli()
	if _, err := env.store.Append(t.Context(), owner, dev, 1); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	after := time.Now().UnixMilli()

	samples, err := env.store.ReadAll(t.Context(), owner, dev)
	if err != nil || len(samples) != 1 {
		t.Fatalf("ReadAll() = %v, %v", samples, err)
	}
	if ts := samples[0].Timestamp; ts < before || ts > after {
		t.Errorf("Timestamp = %d, want within [%d, %d]", ts, before, after)
	}
}

func TestStore_Append_RejectsNonFinite(t *testing.T) {
	env := newTestEnv(t)
	owner, dev := env.seed(t, "jd@mail.com")

	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if _, err := env.store.Append(t.Context(), owner, dev, v); !errors.Is(err, fault.ErrInvalidArgument) {
			t.Errorf("Append(%v) error = %v, want ErrInvalidArgument", v, err)
		}
	}

	samples, _ := env.store.ReadAll(t.Context(), owner, dev) //nolint:errcheck // checked by length
	if len(samples) != 0 {
		t.Errorf("rejected values were stored: %v", samples)
	}
}

func TestStore_Scoping(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()
	alice, aliceDev := env.seed(t, "alice@mail.com")
	bob, _ := env.seed(t, "bob@mail.com")

	if _, err := env.store.Append(ctx, alice, aliceDev, 1); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	if _, err := env.store.Append(ctx, bob, aliceDev, 2); !errors.Is(err, fault.ErrNotFound) {
		t.Errorf("Append() by non-owner error = %v, want ErrNotFound", err)
	}
	if _, err := env.store.ReadAll(ctx, bob, aliceDev); !errors.Is(err, fault.ErrNotFound) {
		t.Errorf("ReadAll() by non-owner error = %v, want ErrNotFound", err)
	}
	if err := env.store.Clear(ctx, bob, aliceDev); !errors.Is(err, fault.ErrNotFound) {
		t.Errorf("Clear() by non-owner error = %v, want ErrNotFound", err)
	}
	if _, err := env.store.Append(ctx, "ghost", aliceDev, 1); !errors.Is(err, fault.ErrNotFound) {
		t.Errorf("Append() unknown account error = %v, want ErrNotFound", err)
	}

	samples, err := env.store.ReadAll(ctx, alice, aliceDev)
	if err != nil || len(samples) != 1 {
		t.Errorf("owner ReadAll() = %v, %v; want the single sample", samples, err)
	}
}

func TestStore_Clear(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()
	owner, dev := env.seed(t, "jd@mail.com")

	for _, v := range []float64{1, 2, 3} {
		if _, err := env.store.Append(ctx, owner, dev, v); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	if err := env.store.Clear(ctx, owner, dev); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	samples, err := env.store.ReadAll(ctx, owner, dev)
	if err != nil || len(samples) != 0 {
		t.Errorf("ReadAll() after Clear = %v, %v; want empty", samples, err)
	}

	// Idempotent, and the device survives.
	if err := env.store.Clear(ctx, owner, dev); err != nil {
		t.Errorf("second Clear() error = %v", err)
	}
	if _, err := env.registry.Get(ctx, owner, dev); err != nil {
		t.Errorf("device gone after Clear: %v", err)
	}
	if _, err := env.store.Append(ctx, owner, dev, 4); err != nil {
		t.Errorf("Append() after Clear error = %v", err)
	}
}

func TestStore_RemoveDeviceCascades(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()
	owner, dev := env.seed(t, "jd@mail.com")

	if _, err := env.store.Append(ctx, owner, dev, 1); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := env.registry.Remove(ctx, owner, dev); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	samples, err := env.repo.ListByDevice(ctx, dev)
	if err != nil {
		t.Fatalf("ListByDevice() error = %v", err)
	}
	if len(samples) != 0 {
		t.Errorf("%d samples survived device removal", len(samples))
	}
}

func TestStore_Mirror(t *testing.T) {
	env := newTestEnv(t)
	owner, dev := env.seed(t, "jd@mail.com")

	mirror := &recordingMirror{}
	env.store.SetMirror(mirror)

	if _, err := env.store.Append(t.Context(), owner, dev, 21.5); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	// Rejected appends never reach the mirror.
	env.store.Append(t.Context(), owner, dev, math.NaN()) //nolint:errcheck // rejection under test
	env.store.Append(t.Context(), owner, "ghost", 1)      //nolint:errcheck // rejection under test

	if len(mirror.written) != 1 {
		t.Fatalf("mirror received %d samples, want 1", len(mirror.written))
	}
	got := mirror.written[0]
	if got.DeviceID != dev || got.Value != 21.5 || mirror.owners[0] != owner {
		t.Errorf("mirror got %+v owner %s", got, mirror.owners[0])
	}

	samples, _ := env.store.ReadAll(t.Context(), owner, dev) //nolint:errcheck // checked by length
	if len(samples) != 1 || samples[0].Timestamp != got.Timestamp {
		t.Errorf("mirror timestamp %d differs from stored %v", got.Timestamp, samples)
	}
}

func TestStore_ConcurrentAppend(t *testing.T) {
	env := newTestEnv(t)
	owner, dev := env.seed(t, "jd@mail.com")

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.store.Append(context.Background(), owner, dev, float64(i))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent Append() error = %v", err)
		}
	}

	samples, err := env.store.ReadAll(t.Context(), owner, dev)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(samples) != n {
		t.Fatalf("ReadAll() returned %d samples, want %d", len(samples), n)
	}
	seen := make(map[string]bool, n)
	for _, s := range samples {
		if seen[s.ID] {
			t.Errorf("duplicate sample id %s", s.ID)
		}
		seen[s.ID] = true
	}
}

func TestSQLiteRepository_AppendMissingDevice(t *testing.T) {
	repo := NewSQLiteRepository(dbtest.Open(t).DB)

	err := repo.Append(t.Context(), &Sample{DeviceID: "ghost", Timestamp: 1, Value: 1})
	if !errors.Is(err, ErrDeviceGone) {
		t.Errorf("Append() error = %v, want ErrDeviceGone", err)
	}
}
