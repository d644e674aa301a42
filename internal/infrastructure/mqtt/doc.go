// Package mqtt connects DeviceLink to an MQTT broker for telemetry ingestion.
//
// Devices that cannot hold a WebSocket open publish readings to
//
//	devicelink/telemetry/{accountId}/{deviceId}
//
// and the core subscribes with the single-level wildcard pattern returned by
// Topics{}.AllTelemetry(). Every accepted or rejected reading is acknowledged
// on devicelink/ack/{accountId}/{deviceId}.
//
// The client reconnects with exponential backoff and restores its
// subscriptions after every reconnect. A retained status message on
// devicelink/system/status tracks whether the core is online; the broker
// publishes the Last Will if the process dies without closing the client.
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	err = client.Subscribe(mqtt.Topics{}.AllTelemetry(), 1,
//	    func(topic string, payload []byte) error {
//	        accountID, deviceID, ok := mqtt.ParseTelemetryTopic(topic)
//	        ...
//	    })
package mqtt
