package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nerrad567/devicelink/internal/fault"
)

// Logger is the logging surface Service needs. *logging.Logger satisfies it.
type Logger interface {
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Info(string, ...any) {}
func (noopLogger) Warn(string, ...any) {}

// Service is the identity store. Every input is trimmed and validated before
// the repository is touched.
type Service struct {
	repo   AccountRepository
	logger Logger
}

// NewService creates a Service on top of repo.
func NewService(repo AccountRepository) *Service {
	return &Service{repo: repo, logger: noopLogger{}}
}

// SetLogger replaces the default no-op logger.
func (s *Service) SetLogger(logger Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// Create registers a new account and returns its id.
//
// All four fields are trimmed and must be non-empty. The email must be a
// valid address not held by another account; the password needs 8+ ASCII
// letters or digits with at least one of each. The picture starts as
// DefaultPictureURL.
//
// Returns:
//   - string: The new account id
//   - error: fault.ErrInvalidArgument or fault.ErrDuplicateEmail
func (s *Service) Create(ctx context.Context, name, surname, email, password string) (string, error) {
	var err error
	if name, err = required("name", name); err != nil {
		return "", err
	}
	if surname, err = required("surname", surname); err != nil {
		return "", err
	}
	if email, err = required("email", email); err != nil {
		return "", err
	}
	if password, err = required("password", password); err != nil {
		return "", err
	}
	if err = ValidateEmail(email); err != nil {
		return "", err
	}
	if err = ValidatePassword(password); err != nil {
		return "", err
	}

	existing, err := s.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return "", duplicateEmail(email)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return "", err
	}

	account := &Account{
		Name:         name,
		Surname:      surname,
		Email:        email,
		PasswordHash: hash,
		PictureURL:   DefaultPictureURL,
	}
	if err := s.repo.Create(ctx, account); err != nil {
		if errors.Is(err, ErrEmailExists) {
			return "", duplicateEmail(email)
		}
		return "", err
	}

	s.logger.Info("account created", "account_id", account.ID)
	return account.ID, nil
}

// FindByCredentials returns the account whose email and password match.
// A nil account with a nil error means no match.
func (s *Service) FindByCredentials(ctx context.Context, email, password string) (*Account, error) {
	var err error
	if email, err = required("email", email); err != nil {
		return nil, err
	}
	if password, err = required("password", password); err != nil {
		return nil, err
	}

	account, err := s.FindByEmail(ctx, email)
	if err != nil || account == nil {
		return nil, err
	}

	ok, err := VerifyPassword(password, account.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verifying password for account %s: %w", account.ID, err)
	}
	if !ok {
		return nil, nil
	}
	return account, nil
}

// FindByID returns the account with id. A nil account with a nil error
// means it does not exist.
func (s *Service) FindByID(ctx context.Context, id string) (*Account, error) {
	id, err := required("account id", id)
	if err != nil {
		return nil, err
	}
	return absentOnNotFound(s.repo.GetByID(ctx, id))
}

// FindByEmail returns the account registered with email. A nil account with
// a nil error means none is.
func (s *Service) FindByEmail(ctx context.Context, email string) (*Account, error) {
	email, err := required("email", email)
	if err != nil {
		return nil, err
	}
	return absentOnNotFound(s.repo.GetByEmail(ctx, email))
}

func absentOnNotFound(account *Account, err error) (*Account, error) {
	if errors.Is(err, ErrAccountNotFound) {
		return nil, nil
	}
	return account, err
}

// Authenticate resolves credentials to an account id for token issuance.
// Unknown email and wrong password both fail with fault.ErrCredentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (string, error) {
	account, err := s.FindByCredentials(ctx, email, password)
	if err != nil {
		return "", err
	}
	if account == nil {
		return "", fault.ErrCredentials
	}
	return account.ID, nil
}

// Exists fails with fault.ErrNotFound unless an account with id exists.
func (s *Service) Exists(ctx context.Context, id string) error {
	account, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if account == nil {
		return accountNotFound(strings.TrimSpace(id))
	}
	return nil
}

// Profile returns the non-sensitive fields of the account.
func (s *Service) Profile(ctx context.Context, id string) (Profile, error) {
	account, err := s.mustFind(ctx, id)
	if err != nil {
		return Profile{}, err
	}
	return account.Profile(), nil
}

// Update replaces the fields set in upd. A new email must not belong to
// another account; a new password is re-hashed.
func (s *Service) Update(ctx context.Context, id string, upd AccountUpdate) error {
	id, err := required("account id", id)
	if err != nil {
		return err
	}
	normalized, err := normalizeUpdate(upd)
	if err != nil {
		return err
	}

	account, err := s.mustFind(ctx, id)
	if err != nil {
		return err
	}
	return s.apply(ctx, account, normalized)
}

// UpdateVerified is Update gated on the account's current credentials.
// The credentials must belong to the account named by id.
func (s *Service) UpdateVerified(ctx context.Context, id, email, password string, upd AccountUpdate) error {
	id, err := required("account id", id)
	if err != nil {
		return err
	}
	normalized, err := normalizeUpdate(upd)
	if err != nil {
		return err
	}

	account, err := s.verifyOwner(ctx, id, email, password)
	if err != nil {
		return err
	}
	return s.apply(ctx, account, normalized)
}

// Delete removes the account together with its devices and samples.
func (s *Service) Delete(ctx context.Context, id string) error {
	id, err := required("account id", id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return accountNotFound(id)
		}
		return err
	}

	s.logger.Info("account deleted", "account_id", id)
	return nil
}

// Unregister is Delete gated on the account's credentials.
func (s *Service) Unregister(ctx context.Context, id, email, password string) error {
	id, err := required("account id", id)
	if err != nil {
		return err
	}
	if _, err := s.verifyOwner(ctx, id, email, password); err != nil {
		return err
	}
	return s.Delete(ctx, id)
}

func (s *Service) mustFind(ctx context.Context, id string) (*Account, error) {
	account, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, accountNotFound(strings.TrimSpace(id))
	}
	return account, nil
}

func (s *Service) verifyOwner(ctx context.Context, id, email, password string) (*Account, error) {
	account, err := s.FindByCredentials(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, fault.ErrCredentials
	}
	if account.ID != id {
		s.logger.Warn("credentials presented for another account", "account_id", id)
		return nil, fmt.Errorf("%w: no account found with id %s for given credentials", fault.ErrNotFound, id)
	}
	return account, nil
}

func (s *Service) apply(ctx context.Context, account *Account, upd AccountUpdate) error {
	if upd.Email != nil && *upd.Email != account.Email {
		other, err := s.FindByEmail(ctx, *upd.Email)
		if err != nil {
			return err
		}
		if other != nil && other.ID != account.ID {
			return duplicateEmail(*upd.Email)
		}
		account.Email = *upd.Email
	}
	if upd.Password != nil {
		hash, err := HashPassword(*upd.Password)
		if err != nil {
			return err
		}
		account.PasswordHash = hash
	}
	if upd.Name != nil {
		account.Name = *upd.Name
	}
	if upd.Surname != nil {
		account.Surname = *upd.Surname
	}
	if upd.PictureURL != nil {
		account.PictureURL = *upd.PictureURL
	}

	if err := s.repo.Update(ctx, account); err != nil {
		switch {
		case errors.Is(err, ErrEmailExists):
			return duplicateEmail(account.Email)
		case errors.Is(err, ErrAccountNotFound):
			return accountNotFound(account.ID)
		}
		return err
	}
	return nil
}

// normalizeUpdate trims and validates every field set in upd.
func normalizeUpdate(upd AccountUpdate) (AccountUpdate, error) {
	var out AccountUpdate

	for _, f := range []struct {
		field string
		in    *string
		out   **string
	}{
		{"name", upd.Name, &out.Name},
		{"surname", upd.Surname, &out.Surname},
		{"email", upd.Email, &out.Email},
		{"password", upd.Password, &out.Password},
	} {
		if f.in == nil {
			continue
		}
		v, err := required(f.field, *f.in)
		if err != nil {
			return AccountUpdate{}, err
		}
		*f.out = &v
	}

	if out.Email != nil {
		if err := ValidateEmail(*out.Email); err != nil {
			return AccountUpdate{}, err
		}
	}
	if out.Password != nil {
		if err := ValidatePassword(*out.Password); err != nil {
			return AccountUpdate{}, err
		}
	}
	if upd.PictureURL != nil {
		picture := strings.TrimSpace(*upd.PictureURL)
		if picture == "" {
			picture = DefaultPictureURL
		}
		out.PictureURL = &picture
	}
	return out, nil
}
