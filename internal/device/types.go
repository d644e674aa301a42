package device

import "time"

// Device is a networked sensor/actuator endpoint registered by an account.
type Device struct {
	ID        string    `json:"id"`
	AccountID string    `json:"-"`
	Address   string    `json:"ip"`
	Port      string    `json:"port"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
