package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/nerrad567/devicelink/internal/infrastructure/config"
)

func testConfig() config.MQTTConfig {
	return config.MQTTConfig{
		Enabled: true,
		Broker: config.MQTTBrokerConfig{
			Host:     "127.0.0.1",
			Port:     1883,
			ClientID: "devicelink-test",
		},
		QoS: 1,
		Reconnect: config.MQTTReconnectConfig{
			InitialDelay: 1,
			MaxDelay:     5,
		},
	}
}

// disconnectedClient returns a client whose paho client was never connected.
func disconnectedClient(t *testing.T) *Client {
	t.Helper()
	cfg := testConfig()
	c := newClient(cfg)
	c.client = pahomqtt.NewClient(buildClientOptions(cfg))
	return c
}

type recordingLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *recordingLogger) Error(msg string, _ ...any) { l.record("ERROR " + msg) }
func (l *recordingLogger) Warn(msg string, _ ...any)  { l.record("WARN " + msg) }

func (l *recordingLogger) record(line string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, line)
}

// =============================================================================
// Options
// =============================================================================

func TestBuildClientOptions(t *testing.T) {
	cfg := testConfig()
	cfg.Auth = config.MQTTAuthConfig{Username: "core", Password: "secret"}

	opts := buildClientOptions(cfg)

	if len(opts.Servers) != 1 || opts.Servers[0].String() != "tcp://127.0.0.1:1883" {
		t.Errorf("Servers = %v, want tcp://127.0.0.1:1883", opts.Servers)
	}
	if opts.ClientID != "devicelink-test" {
		t.Errorf("ClientID = %q", opts.ClientID)
	}
	if opts.Username != "core" || opts.Password != "secret" {
		t.Errorf("credentials = %q/%q", opts.Username, opts.Password)
	}
	if !opts.CleanSession || !opts.AutoReconnect {
		t.Error("CleanSession and AutoReconnect should be enabled")
	}
	if opts.MaxReconnectInterval != 5*time.Second {
		t.Errorf("MaxReconnectInterval = %v, want 5s", opts.MaxReconnectInterval)
	}
}

func TestBuildClientOptions_TLS(t *testing.T) {
	cfg := testConfig()
	cfg.Broker.TLS = true
	cfg.Broker.Port = 8883

	opts := buildClientOptions(cfg)

	if opts.Servers[0].String() != "ssl://127.0.0.1:8883" {
		t.Errorf("Servers[0] = %s, want ssl://127.0.0.1:8883", opts.Servers[0])
	}
	if opts.TLSConfig == nil || opts.TLSConfig.MinVersion != tlsMinVersion {
		t.Errorf("TLSConfig = %+v, want MinVersion TLS 1.2", opts.TLSConfig)
	}
}

func TestBuildClientOptions_NoAuth(t *testing.T) {
	opts := buildClientOptions(testConfig())
	if opts.Username != "" {
		t.Errorf("Username = %q, want empty", opts.Username)
	}
}

func TestConfigureLWT(t *testing.T) {
	opts := pahomqtt.NewClientOptions()
	configureLWT(opts, "devicelink-test")

	if !opts.WillEnabled || opts.WillTopic != "devicelink/system/status" || !opts.WillRetained {
		t.Fatalf("will = enabled:%v topic:%q retained:%v", opts.WillEnabled, opts.WillTopic, opts.WillRetained)
	}

	var msg statusMessage
	if err := json.Unmarshal(opts.WillPayload, &msg); err != nil {
		t.Fatalf("will payload is not JSON: %v", err)
	}
	if msg.Status != "offline" || msg.Reason != "unexpected_disconnect" || msg.ClientID != "devicelink-test" {
		t.Errorf("will payload = %+v", msg)
	}
}

func TestStatusPayload_OmitsEmptyReason(t *testing.T) {
	payload := statusPayload("online", "core", "")
	if strings.Contains(payload, "reason") {
		t.Errorf("statusPayload() = %s, want no reason field", payload)
	}
	if !strings.Contains(payload, `"status":"online"`) {
		t.Errorf("statusPayload() = %s", payload)
	}
}

// =============================================================================
// Disconnected client
// =============================================================================

func TestPublish_Validation(t *testing.T) {
	c := disconnectedClient(t)

	tests := []struct {
		name    string
		topic   string
		payload []byte
		qos     byte
		want    error
	}{
		{"empty topic", "", []byte("x"), 0, ErrInvalidTopic},
		{"bad qos", "t", []byte("x"), 3, ErrInvalidQoS},
		{"too large", "t", make([]byte, maxPayloadSize+1), 0, ErrPublishFailed},
		{"disconnected", "t", []byte("x"), 1, ErrNotConnected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := c.Publish(tt.topic, tt.payload, tt.qos, false); !errors.Is(err, tt.want) {
				t.Errorf("Publish() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSubscribe_Validation(t *testing.T) {
	c := disconnectedClient(t)
	noop := func(string, []byte) error { return nil }

	tests := []struct {
		name    string
		topic   string
		qos     byte
		handler MessageHandler
		want    error
	}{
		{"empty topic", "", 0, noop, ErrInvalidTopic},
		{"bad qos", "t", 3, noop, ErrInvalidQoS},
		{"nil handler", "t", 0, nil, ErrSubscribeFailed},
		{"disconnected", "t", 1, noop, ErrNotConnected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := c.Subscribe(tt.topic, tt.qos, tt.handler); !errors.Is(err, tt.want) {
				t.Errorf("Subscribe() error = %v, want %v", err, tt.want)
			}
		})
	}

	if len(c.subscriptions) != 0 {
		t.Errorf("failed subscriptions were tracked: %v", c.subscriptions)
	}
}

func TestUnsubscribe_Validation(t *testing.T) {
	c := disconnectedClient(t)

	if err := c.Unsubscribe(""); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("Unsubscribe(\"\") error = %v, want ErrInvalidTopic", err)
	}
	if err := c.Unsubscribe("t"); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Unsubscribe() error = %v, want ErrNotConnected", err)
	}
}

func TestHealthCheck(t *testing.T) {
	c := disconnectedClient(t)

	if err := c.HealthCheck(t.Context()); !errors.Is(err, ErrNotConnected) {
		t.Errorf("HealthCheck() error = %v, want ErrNotConnected", err)
	}

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	if err := c.HealthCheck(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("HealthCheck(cancelled) error = %v, want context.Canceled", err)
	}
}

func TestIsConnected_InitialState(t *testing.T) {
	if disconnectedClient(t).IsConnected() {
		t.Error("IsConnected() = true before Connect")
	}
	if newClient(testConfig()).IsConnected() {
		t.Error("IsConnected() = true without paho client")
	}
}

func TestCloseNil(t *testing.T) {
	c := newClient(testConfig())
	if err := c.Close(); err != nil {
		t.Errorf("Close() on unconnected client error = %v", err)
	}
}

// =============================================================================
// Handler wrapping
// =============================================================================

func TestDispatch_LogsHandlerError(t *testing.T) {
	c := newClient(testConfig())
	logger := &recordingLogger{}
	c.SetLogger(logger)

	var gotTopic, gotPayload string
	c.dispatch(func(topic string, payload []byte) error {
		gotTopic, gotPayload = topic, string(payload)
		return errors.New("bad reading")
	}, "devicelink/telemetry/a/d", []byte("42"))

	if gotTopic != "devicelink/telemetry/a/d" || gotPayload != "42" {
		t.Errorf("handler got (%q, %q)", gotTopic, gotPayload)
	}
	if len(logger.lines) != 1 || !strings.HasPrefix(logger.lines[0], "WARN") {
		t.Errorf("logged %v, want one WARN", logger.lines)
	}
}

func TestDispatch_RecoversPanic(t *testing.T) {
	c := newClient(testConfig())
	logger := &recordingLogger{}
	c.SetLogger(logger)

	c.dispatch(func(string, []byte) error { panic("boom") }, "t", nil)

	if len(logger.lines) != 1 || !strings.HasPrefix(logger.lines[0], "ERROR") {
		t.Errorf("logged %v, want one ERROR", logger.lines)
	}
}

func TestDispatch_NoLogger(t *testing.T) {
	c := newClient(testConfig())
	// Must not panic without a logger.
	c.dispatch(func(string, []byte) error { panic("boom") }, "t", nil)
	c.dispatch(func(string, []byte) error { return errors.New("x") }, "t", nil)
}

func TestCallbacks(t *testing.T) {
	c := newClient(testConfig())

	var lost error
	c.SetOnDisconnect(func(err error) { lost = err })
	c.connected = true

	c.handleDisconnect(errors.New("network down"))

	if lost == nil || lost.Error() != "network down" {
		t.Errorf("OnDisconnect got %v", lost)
	}
	if c.connected {
		t.Error("handleDisconnect should clear connected")
	}
}
