package telemetry

import (
	"bytes"
	"encoding/json"
	"math"

	"github.com/nerrad567/devicelink/internal/fault"
)

// ParseValue decodes a wire reading: either a bare JSON number ("42.5") or
// an object with a numeric value field ({"value": 42.5}). Anything else,
// including numeric strings and null, fails with fault.ErrInvalidArgument.
func ParseValue(payload []byte) (float64, error) {
	payload = bytes.TrimSpace(payload)
	if len(payload) == 0 {
		return 0, fault.Invalid("value", "is missing")
	}

	raw := json.RawMessage(payload)
	if payload[0] == '{' {
		var body struct {
			Value json.RawMessage `json:"value"`
		}
		if err := json.Unmarshal(payload, &body); err != nil {
			return 0, fault.Invalid("value", "must be a number")
		}
		if len(body.Value) == 0 {
			return 0, fault.Invalid("value", "is missing")
		}
		raw = body.Value
	}

	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return 0, fault.Invalid("value", "must be a number")
	}
	v, ok := decoded.(float64)
	if !ok {
		return 0, fault.Invalid("value", "must be a number")
	}
	return v, nil
}

func validateValue(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fault.Invalid("value", "must be a finite number")
	}
	return nil
}
