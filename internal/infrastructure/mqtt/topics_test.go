package mqtt

import "testing"

func TestTopicBuilders(t *testing.T) {
	topics := Topics{}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"Telemetry", topics.Telemetry("acct-1", "dev-1"), "devicelink/telemetry/acct-1/dev-1"},
		{"TelemetryAck", topics.TelemetryAck("acct-1", "dev-1"), "devicelink/ack/acct-1/dev-1"},
		{"AllTelemetry", topics.AllTelemetry(), "devicelink/telemetry/+/+"},
		{"SystemStatus", topics.SystemStatus(), "devicelink/system/status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s() = %q, want %q", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestParseTelemetryTopic(t *testing.T) {
	tests := []struct {
		topic       string
		wantAccount string
		wantDevice  string
		wantOK      bool
	}{
		{"devicelink/telemetry/acct-1/dev-1", "acct-1", "dev-1", true},
		{"devicelink/telemetry/acct-1", "", "", false},
		{"devicelink/telemetry/acct-1/dev-1/extra", "", "", false},
		{"devicelink/ack/acct-1/dev-1", "", "", false},
		{"other/telemetry/acct-1/dev-1", "", "", false},
		{"devicelink/telemetry//dev-1", "", "", false},
		{"", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.topic, func(t *testing.T) {
			account, device, ok := ParseTelemetryTopic(tt.topic)
			if ok != tt.wantOK || account != tt.wantAccount || device != tt.wantDevice {
				t.Errorf("ParseTelemetryTopic(%q) = (%q, %q, %v), want (%q, %q, %v)",
					tt.topic, account, device, ok, tt.wantAccount, tt.wantDevice, tt.wantOK)
			}
		})
	}
}

func TestParseTelemetryTopic_RoundTrip(t *testing.T) {
	account, device, ok := ParseTelemetryTopic(Topics{}.Telemetry("a", "d"))
	if !ok || account != "a" || device != "d" {
		t.Errorf("round trip = (%q, %q, %v)", account, device, ok)
	}
}
