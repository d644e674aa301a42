// Package dispatch sends on/off commands to a device over HTTP.
//
// A command is one GET to the device's own HTTP endpoint:
//
//	http://{address[:port]}/{accountId}/{deviceId}/{on|off}
//	http://{address[:port]}/{accountId}/{deviceId}/pin/{pin}/{on|off}
//
// The device answers with JSON, which is returned to the caller untouched.
// There is exactly one attempt per call. Any failure to complete the round
// trip, including a reply that is not JSON, is reported as
// fault.ErrDeviceUnreachable; retrying is up to the caller.
package dispatch
