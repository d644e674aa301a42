package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/nerrad567/devicelink/internal/fault"
	"github.com/nerrad567/devicelink/internal/infrastructure/mqtt"
)

// Broker is the MQTT surface the Ingestor needs. *mqtt.Client satisfies it.
type Broker interface {
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
	Unsubscribe(topic string) error
	Publish(topic string, payload []byte, qos byte, retained bool) error
}

// handleTimeout bounds the store work for a single MQTT message.
const handleTimeout = 5 * time.Second

// Ingestor appends every reading published on the telemetry topics and
// acknowledges it on the matching ack topic.
type Ingestor struct {
	store  *Store
	broker Broker
	qos    byte

	mu   sync.Mutex
	base context.Context
}

// NewIngestor creates an Ingestor that subscribes with the given QoS.
func NewIngestor(store *Store, broker Broker, qos byte) *Ingestor {
	return &Ingestor{store: store, broker: broker, qos: qos, base: context.Background()}
}

// Run subscribes, blocks until ctx is done, then unsubscribes.
func (i *Ingestor) Run(ctx context.Context) error {
	if err := i.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	return i.Stop()
}

// Start subscribes to every device telemetry topic. Message handling uses
// contexts derived from ctx.
func (i *Ingestor) Start(ctx context.Context) error {
	i.mu.Lock()
	i.base = context.WithoutCancel(ctx)
	i.mu.Unlock()

	if err := i.broker.Subscribe(mqtt.Topics{}.AllTelemetry(), i.qos, i.handle); err != nil {
		return fmt.Errorf("subscribing to telemetry: %w", err)
	}
	return nil
}

// Stop unsubscribes from the telemetry topics.
func (i *Ingestor) Stop() error {
	if err := i.broker.Unsubscribe(mqtt.Topics{}.AllTelemetry()); err != nil {
		return fmt.Errorf("unsubscribing from telemetry: %w", err)
	}
	return nil
}

// ack is the reply published for each reading. It uses the same envelope
// as the HTTP API.
type ack struct {
	Status string   `json:"status"`
	Data   *ackData `json:"data,omitempty"`
	Error  string   `json:"error,omitempty"`
}

type ackData struct {
	ID string `json:"id"`
}

func (i *Ingestor) handle(topic string, payload []byte) error {
	accountID, deviceID, ok := mqtt.ParseTelemetryTopic(topic)
	if !ok {
		return fault.Invalid("topic", fmt.Sprintf("%q is not a telemetry topic", topic))
	}

	id, err := i.ingest(accountID, deviceID, payload)

	reply := ack{Status: "OK", Data: &ackData{ID: id}}
	if err != nil {
		reply = ack{Status: "KO", Error: fault.Message(err)}
	}
	body, _ := json.Marshal(reply) //nolint:errcheck // fixed struct of strings

	if pubErr := i.broker.Publish(mqtt.Topics{}.TelemetryAck(accountID, deviceID), body, 0, false); pubErr != nil && err == nil {
		return fmt.Errorf("publishing ack: %w", pubErr)
	}
	return err
}

func (i *Ingestor) ingest(accountID, deviceID string, payload []byte) (string, error) {
	value, err := ParseValue(payload)
	if err != nil {
		return "", err
	}

	i.mu.Lock()
	base := i.base
	i.mu.Unlock()

	ctx, cancel := context.WithTimeout(base, handleTimeout)
	defer cancel()

	return i.store.Append(ctx, accountID, deviceID, value)
}
