package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nerrad567/devicelink/internal/infrastructure/database"
)

// AccountRepository persists accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *Account) error
	GetByID(ctx context.Context, id string) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
	Update(ctx context.Context, account *Account) error
	Delete(ctx context.Context, id string) error
}

// SQLiteAccountRepository implements AccountRepository on the accounts table.
type SQLiteAccountRepository struct {
	db *sql.DB
}

// NewAccountRepository creates a SQLite-backed account repository.
func NewAccountRepository(db *sql.DB) *SQLiteAccountRepository {
	return &SQLiteAccountRepository{db: db}
}

const accountColumns = "id, name, surname, email, password_hash, picture_url, created_at, updated_at"

// Create inserts account, assigning a UUID when ID is empty.
// Returns ErrEmailExists when the email is taken.
func (r *SQLiteAccountRepository) Create(ctx context.Context, account *Account) error {
	if account.ID == "" {
		account.ID = uuid.NewString()
	}

	now := time.Now().UTC().Truncate(time.Second)
	account.CreatedAt = now
	account.UpdatedAt = now
	stamp := now.Format(time.RFC3339)

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (`+accountColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		account.ID, account.Name, account.Surname, account.Email,
		account.PasswordHash, account.PictureURL, stamp, stamp,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return ErrEmailExists
		}
		return fmt.Errorf("creating account: %w", err)
	}
	return nil
}

// GetByID returns the account with id, or ErrAccountNotFound.
func (r *SQLiteAccountRepository) GetByID(ctx context.Context, id string) (*Account, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id)
	return scanAccount(row)
}

// GetByEmail returns the account with an exactly matching email, or ErrAccountNotFound.
func (r *SQLiteAccountRepository) GetByEmail(ctx context.Context, email string) (*Account, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email = ?`, email)
	return scanAccount(row)
}

// Update replaces every mutable column of account.
func (r *SQLiteAccountRepository) Update(ctx context.Context, account *Account) error {
	account.UpdatedAt = time.Now().UTC().Truncate(time.Second)

	result, err := r.db.ExecContext(ctx,
		`UPDATE accounts
		 SET name = ?, surname = ?, email = ?, password_hash = ?, picture_url = ?, updated_at = ?
		 WHERE id = ?`,
		account.Name, account.Surname, account.Email, account.PasswordHash,
		account.PictureURL, account.UpdatedAt.Format(time.RFC3339), account.ID,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return ErrEmailExists
		}
		return fmt.Errorf("updating account: %w", err)
	}
	return requireOneRow(result)
}

// Delete removes the account. Devices and samples go with it through
// ON DELETE CASCADE.
func (r *SQLiteAccountRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM accounts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting account: %w", err)
	}
	return requireOneRow(result)
}

func requireOneRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if n == 0 {
		return ErrAccountNotFound
	}
	return nil
}

func scanAccount(row *sql.Row) (*Account, error) {
	var a Account
	var createdAt, updatedAt string

	err := row.Scan(&a.ID, &a.Name, &a.Surname, &a.Email,
		&a.PasswordHash, &a.PictureURL, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("scanning account: %w", err)
	}

	a.CreatedAt, _ = time.Parse(time.RFC3339, createdAt) //nolint:errcheck // format is controlled
	a.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt) //nolint:errcheck // format is controlled
	return &a, nil
}
