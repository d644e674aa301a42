// Package api implements the DeviceLink HTTP API.
//
// Every route lives under /api and answers with one envelope:
//
//	{"status":"OK","data":...}
//	{"status":"KO","error":"no device found with id 42"}
//
// Domain failures (invalid input, unknown ids, duplicate email, wrong
// credentials, unreachable device) are 400. Missing or invalid session
// tokens, and tokens issued for another account, are 401.
//
// Account-scoped routes take the account id from the path and require a
// Bearer token whose subject is that same id. The device-side telemetry
// routes (POST .../data and the .../data/stream WebSocket) are open: a
// device proves nothing beyond knowing its owner and device ids, matching
// firmware that cannot hold a session.
//
// The server follows the same lifecycle as the other components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
package api
