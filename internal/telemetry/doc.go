// Package telemetry stores the per-device, append-only log of sensor samples.
//
// Every sample carries a server-assigned timestamp in epoch milliseconds and
// a finite float64 value. Reads return samples in the order they were
// appended, which SQLite fixes with an AUTOINCREMENT sequence column; with a
// single writer connection each append is one linearised INSERT.
//
// Readings arrive over three transports: the HTTP API, a device-held
// WebSocket (see package api) and MQTT (see Ingestor). All of them decode
// the payload with ParseValue and call Store.Append.
//
// Committed samples can be mirrored to a time-series database through the
// Mirror interface; *influxdb.Client implements it.
package telemetry
