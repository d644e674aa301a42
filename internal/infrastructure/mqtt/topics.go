package mqtt

import (
	"fmt"
	"strings"
)

// TopicPrefix is the root of every DeviceLink topic.
const TopicPrefix = "devicelink"

// Topics builds DeviceLink topic names.
//
//	mqtt.Topics{}.Telemetry("acct-1", "dev-1") // "devicelink/telemetry/acct-1/dev-1"
type Topics struct{}

// Telemetry is where a device publishes its readings.
func (Topics) Telemetry(accountID, deviceID string) string {
	return fmt.Sprintf("%s/telemetry/%s/%s", TopicPrefix, accountID, deviceID)
}

// TelemetryAck is where the core answers each reading published on Telemetry.
func (Topics) TelemetryAck(accountID, deviceID string) string {
	return fmt.Sprintf("%s/ack/%s/%s", TopicPrefix, accountID, deviceID)
}

// AllTelemetry matches every device's telemetry topic.
//
// Pattern: devicelink/telemetry/+/+
func (Topics) AllTelemetry() string {
	return TopicPrefix + "/telemetry/+/+"
}

// SystemStatus carries the retained online/offline status of the core.
func (Topics) SystemStatus() string {
	return TopicPrefix + "/system/status"
}

// ParseTelemetryTopic extracts the account and device ids from a topic
// produced by Topics.Telemetry. ok is false for any other shape.
func ParseTelemetryTopic(topic string) (accountID, deviceID string, ok bool) {
	parts := strings.Split(topic, "/")
	if len(parts) != 4 || parts[0] != TopicPrefix || parts[1] != "telemetry" {
		return "", "", false
	}
	if parts[2] == "" || parts[3] == "" {
		return "", "", false
	}
	return parts[2], parts[3], true
}
