// README: Vehicle store backed by PostgreSQL.
package fleet

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fleetrent/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

const vehicleColumns = `
	id, owner_id, make, model, year, license_plate,
	daily_rate, hourly_rate, currency, availability, status_reason,
	created_at, updated_at, deleted_at`

func (s *Store) Create(ctx context.Context, v *Vehicle) error {
	var hourly *int64
	if v.HourlyRate != nil {
		hourly = &v.HourlyRate.Amount
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO vehicles (
			id, owner_id, make, model, year, license_plate,
			daily_rate, hourly_rate, currency, availability, status_reason,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)`,
		string(v.ID), string(v.OwnerID), v.Make, v.Model, v.Year, v.LicensePlate,
		v.DailyRate.Amount, hourly, v.DailyRate.Currency, string(v.Availability), v.StatusReason,
		v.CreatedAt,
	)
	return err
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Vehicle, error) {
	row := s.db.QueryRow(ctx, `
		SELECT `+vehicleColumns+`
		FROM vehicles
		WHERE id = $1 AND deleted_at IS NULL`, string(id))
	return scanVehicle(row)
}

// List returns non-deleted vehicles, optionally restricted to one owner.
func (s *Store) List(ctx context.Context, ownerID *types.ID) ([]*Vehicle, error) {
	q := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE deleted_at IS NULL`
	args := []any{}
	if ownerID != nil {
		q += ` AND owner_id = $1`
		args = append(args, string(*ownerID))
	}
	q += ` ORDER BY created_at DESC`

	rows, err := s.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *Store) SetAvailability(ctx context.Context, id types.ID, a Availability, reason string) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE vehicles
		SET availability = $1, status_reason = $2, updated_at = NOW()
		WHERE id = $3 AND deleted_at IS NULL`,
		string(a), reason, string(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SoftDelete tombstones a vehicle and sweeps its live bookings in one
// transaction: every booking still in an active status is cancelled
// with the given reason, its trip is cancelled with it, and a state
// event is appended per cancelled booking.
func (s *Store) SoftDelete(ctx context.Context, id types.ID, actorID types.ID, reason string) (cancelled int, err error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
		UPDATE vehicles
		SET deleted_at = NOW(), availability = 'unavailable', status_reason = $1, updated_at = NOW()
		WHERE id = $2 AND deleted_at IS NULL`,
		reason, string(id))
	if err != nil {
		return 0, err
	}
	if tag.RowsAffected() == 0 {
		return 0, ErrNotFound
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO booking_state_events (booking_id, from_status, to_status, actor_type, actor_id, created_at)
		SELECT id, status, 'cancelled', 'system', $1, NOW()
		FROM bookings
		WHERE vehicle_id = $2 AND status IN ('pending','confirmed','in_progress')`,
		string(actorID), string(id))
	if err != nil {
		return 0, err
	}

	swept, err := tx.Exec(ctx, `
		UPDATE bookings
		SET status = 'cancelled',
		    status_version = status_version + 1,
		    cancel_reason = $1,
		    cancelled_by = $2,
		    cancelled_at = NOW()
		WHERE vehicle_id = $3 AND status IN ('pending','confirmed','in_progress')`,
		reason, string(actorID), string(id))
	if err != nil {
		return 0, err
	}

	_, err = tx.Exec(ctx, `
		UPDATE trips
		SET status = 'cancelled', status_version = status_version + 1, updated_at = NOW()
		WHERE vehicle_id = $1 AND status IN ('scheduled','in_progress')`,
		string(id))
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return int(swept.RowsAffected()), nil
}

func scanVehicle(row pgx.Row) (*Vehicle, error) {
	var v Vehicle
	var hourly *int64
	var currency string
	var deletedAt *time.Time
	err := row.Scan(
		&v.ID, &v.OwnerID, &v.Make, &v.Model, &v.Year, &v.LicensePlate,
		&v.DailyRate.Amount, &hourly, &currency, &v.Availability, &v.StatusReason,
		&v.CreatedAt, &v.UpdatedAt, &deletedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	v.DailyRate.Currency = currency
	if hourly != nil {
		v.HourlyRate = &types.Money{Amount: *hourly, Currency: currency}
	}
	v.DeletedAt = deletedAt
	return &v, nil
}
