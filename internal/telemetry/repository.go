package telemetry

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/nerrad567/devicelink/internal/infrastructure/database"
)

// Repository persists samples.
type Repository interface {
	Append(ctx context.Context, s *Sample) error
	ListByDevice(ctx context.Context, deviceID string) ([]Sample, error)
	DeleteByDevice(ctx context.Context, deviceID string) (int64, error)
}

// SQLiteRepository implements Repository on the samples table.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a SQLite-backed sample repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Append inserts s with a fresh UUID. Returns ErrDeviceGone if the device
// was deleted before the insert ran.
func (r *SQLiteRepository) Append(ctx context.Context, s *Sample) error {
	s.ID = uuid.NewString()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO samples (id, device_id, timestamp, value) VALUES (?, ?, ?, ?)`,
		s.ID, s.DeviceID, s.Timestamp, s.Value,
	)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return ErrDeviceGone
		}
		return fmt.Errorf("inserting sample: %w", err)
	}
	return nil
}

// ListByDevice returns the device's samples in insertion order.
func (r *SQLiteRepository) ListByDevice(ctx context.Context, deviceID string) ([]Sample, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, device_id, timestamp, value FROM samples WHERE device_id = ? ORDER BY seq`,
		deviceID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying samples: %w", err)
	}
	defer rows.Close()

	samples := make([]Sample, 0)
	for rows.Next() {
		var s Sample
		if err := rows.Scan(&s.ID, &s.DeviceID, &s.Timestamp, &s.Value); err != nil {
			return nil, fmt.Errorf("scanning sample: %w", err)
		}
		samples = append(samples, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating samples: %w", err)
	}
	return samples, nil
}

// DeleteByDevice removes every sample of the device and returns how many
// were removed.
func (r *SQLiteRepository) DeleteByDevice(ctx context.Context, deviceID string) (int64, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM samples WHERE device_id = ?", deviceID)
	if err != nil {
		return 0, fmt.Errorf("deleting samples: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("checking rows affected: %w", err)
	}
	return n, nil
}
