package device

import (
	"context"
	"errors"
)

// AccountChecker reports whether an account exists. *auth.Service
// satisfies it.
type AccountChecker interface {
	Exists(ctx context.Context, id string) error
}

// Mediator resolves (owner, device) pairs for every account-scoped
// operation. It holds no state; each call goes to storage.
type Mediator struct {
	accounts AccountChecker
	repo     Repository
}

// NewMediator creates a Mediator.
func NewMediator(accounts AccountChecker, repo Repository) *Mediator {
	return &Mediator{accounts: accounts, repo: repo}
}

// Owner fails unless ownerID names an existing account. The id is trimmed
// and returned.
func (m *Mediator) Owner(ctx context.Context, ownerID string) (string, error) {
	ownerID, err := required("account id", ownerID)
	if err != nil {
		return "", err
	}
	if err := m.accounts.Exists(ctx, ownerID); err != nil {
		return "", err
	}
	return ownerID, nil
}

// Resolve returns the device deviceID if it belongs to ownerID.
//
// Both ids are validated before any lookup. The account lookup comes first
// so a missing account and a missing device carry different messages; a
// device owned by another account is reported as missing.
func (m *Mediator) Resolve(ctx context.Context, ownerID, deviceID string) (*Device, error) {
	ownerID, err := required("account id", ownerID)
	if err != nil {
		return nil, err
	}
	deviceID, err = required("device id", deviceID)
	if err != nil {
		return nil, err
	}
	if err := m.accounts.Exists(ctx, ownerID); err != nil {
		return nil, err
	}

	d, err := m.repo.GetOwned(ctx, ownerID, deviceID)
	if err != nil {
		if errors.Is(err, ErrDeviceNotFound) {
			return nil, deviceNotFound(deviceID)
		}
		return nil, err
	}
	return d, nil
}
