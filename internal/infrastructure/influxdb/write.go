package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// measurement is the InfluxDB measurement every sample is written to.
const measurement = "samples"

// WriteSample queues one telemetry sample as a point in the "samples"
// measurement, tagged with the account and device ids.
//
// The call never blocks on the network; points are flushed in batches and
// failures reach the SetOnError callback. Writes on a closed client are
// dropped silently.
//
// Parameters:
//   - deviceID: Device the reading came from
//   - accountID: Owner of the device
//   - value: The reading
//   - ts: Epoch milliseconds, the same value stored in SQLite
func (c *Client) WriteSample(deviceID, accountID string, value float64, ts int64) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		measurement,
		map[string]string{
			"account_id": accountID,
			"device_id":  deviceID,
		},
		map[string]any{
			"value": value,
		},
		time.UnixMilli(ts),
	)
	c.writeAPI.WritePoint(point)
}
