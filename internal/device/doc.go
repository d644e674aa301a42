// Package device is the device registry and the access mediator that scopes
// every device and telemetry operation to the owning account.
//
// A device is an IPv4 address plus an opaque port token, owned by exactly
// one account. Ids are UUIDs assigned on Add and never reused. Listing order
// is insertion order.
//
// Ownership is re-derived on every call: the account is loaded first, then
// the device is looked up with both its id and the account id. A device
// owned by someone else is reported exactly like a device that does not
// exist, so callers cannot probe for other accounts' ids.
package device
