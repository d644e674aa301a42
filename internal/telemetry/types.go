package telemetry

// Sample is one telemetry reading.
type Sample struct {
	ID       string `json:"id"`
	DeviceID string `json:"-"`
	// Timestamp is epoch milliseconds, assigned when the sample is stored.
	Timestamp int64   `json:"timestamp"`
	Value     float64 `json:"value"`
}
