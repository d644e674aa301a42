// Package influxdb mirrors committed telemetry samples into InfluxDB.
//
// Samples are always stored in SQLite first; InfluxDB is an optional
// secondary copy for dashboards and long-range queries. Writes go through the
// library's non-blocking batched write API, so a slow or unavailable server
// never delays an append. Asynchronous write failures are reported to the
// callback registered with SetOnError.
//
// Each sample becomes one point:
//
//	samples,account_id=<owner>,device_id=<device> value=42.5 <timestamp>
//
// # Usage
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	store.SetMirror(client)
package influxdb
