package device

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nerrad567/devicelink/internal/infrastructure/database"
)

// Repository persists devices. Every read and write except Create is scoped
// by the owning account id.
type Repository interface {
	Create(ctx context.Context, d *Device) error
	GetOwned(ctx context.Context, accountID, id string) (*Device, error)
	ListByAccount(ctx context.Context, accountID string) ([]Device, error)
	Update(ctx context.Context, d *Device) error
	Delete(ctx context.Context, accountID, id string) error
}

// SQLiteRepository implements Repository on the devices table.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed device repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const deviceColumns = "id, account_id, address, port, created_at, updated_at"

// Create inserts d, assigning a fresh UUID. The row is appended after
// every existing device of the account. Returns ErrAccountGone if the
// account was deleted before the insert ran.
func (r *SQLiteRepository) Create(ctx context.Context, d *Device) error {
	d.ID = uuid.NewString()

	now := time.Now().UTC().Truncate(time.Second)
	d.CreatedAt = now
	d.UpdatedAt = now
	stamp := now.Format(time.RFC3339)

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO devices (`+deviceColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		d.ID, d.AccountID, d.Address, d.Port, stamp, stamp,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return ErrDeviceExists
		}
		if database.IsForeignKeyViolation(err) {
			return ErrAccountGone
		}
		return fmt.Errorf("inserting device: %w", err)
	}
	return nil
}

// GetOwned returns the device with id if accountID owns it, otherwise
// ErrDeviceNotFound.
func (r *SQLiteRepository) GetOwned(ctx context.Context, accountID, id string) (*Device, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+deviceColumns+` FROM devices WHERE id = ? AND account_id = ?`,
		id, accountID,
	)

	d, err := scanDevice(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDeviceNotFound
		}
		return nil, fmt.Errorf("querying device: %w", err)
	}
	return d, nil
}

// ListByAccount returns the account's devices in insertion order.
func (r *SQLiteRepository) ListByAccount(ctx context.Context, accountID string) ([]Device, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+deviceColumns+` FROM devices WHERE account_id = ? ORDER BY seq`,
		accountID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying devices: %w", err)
	}
	defer rows.Close()

	devices := make([]Device, 0)
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning device: %w", err)
		}
		devices = append(devices, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating devices: %w", err)
	}
	return devices, nil
}

// Update writes the address and port of d. The row must still belong to
// d.AccountID.
func (r *SQLiteRepository) Update(ctx context.Context, d *Device) error {
	d.UpdatedAt = time.Now().UTC().Truncate(time.Second)

	result, err := r.db.ExecContext(ctx,
		`UPDATE devices SET address = ?, port = ?, updated_at = ? WHERE id = ? AND account_id = ?`,
		d.Address, d.Port, d.UpdatedAt.Format(time.RFC3339), d.ID, d.AccountID,
	)
	if err != nil {
		return fmt.Errorf("updating device: %w", err)
	}
	return requireOneRow(result)
}

// Delete removes the device and, through ON DELETE CASCADE, its samples.
func (r *SQLiteRepository) Delete(ctx context.Context, accountID, id string) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM devices WHERE id = ? AND account_id = ?", id, accountID)
	if err != nil {
		return fmt.Errorf("deleting device: %w", err)
	}
	return requireOneRow(result)
}

func requireOneRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if n == 0 {
		return ErrDeviceNotFound
	}
	return nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanDevice(s scanner) (*Device, error) {
	var d Device
	var createdAt, updatedAt string

	if err := s.Scan(&d.ID, &d.AccountID, &d.Address, &d.Port, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	d.CreatedAt, _ = time.Parse(time.RFC3339, createdAt) //nolint:errcheck // format is controlled
	d.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt) //nolint:errcheck // format is controlled
	return &d, nil
}
