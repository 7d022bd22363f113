// README: Trip store backed by PostgreSQL; completion settles revenue and releases the vehicle.
package trip

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

const tripColumns = `
	t.id, t.booking_id, t.vehicle_id, v.owner_id, t.customer_id, t.driver_id,
	t.status, t.status_version,
	t.planned_distance_m, t.odometer_start, t.odometer_end, t.fuel_start, t.fuel_end,
	t.actual_distance_m, t.revenue, t.currency,
	t.started_at, t.ended_at, t.created_at, t.updated_at, t.deleted_at`

func (s *Store) Get(ctx context.Context, id types.ID) (*Trip, error) {
	row := s.db.QueryRow(ctx, `
		SELECT `+tripColumns+`
		FROM trips t
		JOIN vehicles v ON v.id = t.vehicle_id
		WHERE t.id = $1 AND t.deleted_at IS NULL`, string(id))
	return scanTrip(row)
}

func (s *Store) GetByBooking(ctx context.Context, bookingID types.ID) (*Trip, error) {
	row := s.db.QueryRow(ctx, `
		SELECT `+tripColumns+`
		FROM trips t
		JOIN vehicles v ON v.id = t.vehicle_id
		WHERE t.booking_id = $1 AND t.deleted_at IS NULL`, string(bookingID))
	return scanTrip(row)
}

// Start moves a scheduled trip to in_progress, recording the start
// timestamp and optional telemetry. Guarded by the optimistic lock.
func (s *Store) Start(ctx context.Context, id types.ID, version int, odoStart *int64, fuelStart *float64) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE trips
		SET status = 'in_progress',
		    status_version = status_version + 1,
		    started_at = NOW(),
		    odometer_start = COALESCE($1, odometer_start),
		    fuel_start = COALESCE($2, fuel_start),
		    updated_at = NOW()
		WHERE id = $3 AND status = 'scheduled' AND status_version = $4 AND deleted_at IS NULL`,
		odoStart, fuelStart, string(id), version,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// Complete settles an in-progress trip in one transaction: end
// telemetry and derived distance are recorded, revenue is copied from
// the parent booking's total, the booking is pushed to completed, and
// the vehicle is released.
func (s *Store) Complete(ctx context.Context, t *Trip, odoEnd *int64, fuelEnd *float64) (bool, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	end := odoEnd
	if end == nil {
		end = t.OdometerEnd
	}
	start := t.OdometerStart
	distance := DeriveDistance(start, end, t.PlannedDistanceM)

	tag, err := tx.Exec(ctx, `
		UPDATE trips
		SET status = 'completed',
		    status_version = status_version + 1,
		    ended_at = NOW(),
		    odometer_end = COALESCE($1, odometer_end),
		    fuel_end = COALESCE($2, fuel_end),
		    actual_distance_m = $3,
		    revenue = (SELECT total_price FROM bookings WHERE id = $4),
		    updated_at = NOW()
		WHERE id = $5 AND status = 'in_progress' AND status_version = $6 AND deleted_at IS NULL`,
		odoEnd, fuelEnd, distance, string(t.BookingID), string(t.ID), t.StatusVersion,
	)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() != 1 {
		return false, nil
	}

	// Completion pushes the booking to its terminal success state as a
	// system effect, whatever intermediate status it sat in. The event
	// records the status the booking actually left.
	_, err = tx.Exec(ctx, `
		WITH prev AS (
			SELECT id, status FROM bookings
			WHERE id = $1 AND status IN ('pending','confirmed','in_progress')
			FOR UPDATE
		), pushed AS (
			UPDATE bookings b
			SET status = 'completed', status_version = b.status_version + 1, updated_at = NOW()
			FROM prev WHERE b.id = prev.id
		)
		INSERT INTO booking_state_events (booking_id, from_status, to_status, actor_type, actor_id, created_at)
		SELECT id, status, 'completed', 'system', NULL, NOW() FROM prev`,
		string(t.BookingID))
	if err != nil {
		return false, err
	}

	_, err = tx.Exec(ctx, `
		UPDATE vehicles SET availability = 'available', status_reason = '', updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`,
		string(t.VehicleID))
	if err != nil {
		return false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// Cancel moves a non-terminal trip to cancelled.
func (s *Store) Cancel(ctx context.Context, id types.ID, from Status, version int) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE trips
		SET status = 'cancelled', status_version = status_version + 1, updated_at = NOW()
		WHERE id = $1 AND status = $2 AND status_version = $3 AND deleted_at IS NULL`,
		string(id), string(from), version,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// AssignDriver sets the trip's driver if that driver holds a live
// assignment (approved or active) for the trip's vehicle.
func (s *Store) AssignDriver(ctx context.Context, tripID, driverID types.ID) error {
	var approved bool
	err := s.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM driver_assignments a
			JOIN trips t ON t.vehicle_id = a.vehicle_id
			WHERE t.id = $1 AND a.driver_id = $2 AND a.status IN ('approved','active')
		)`, string(tripID), string(driverID),
	).Scan(&approved)
	if err != nil {
		return err
	}
	if !approved {
		return ErrDriverNotApproved
	}

	tag, err := s.db.Exec(ctx, `
		UPDATE trips SET driver_id = $1, updated_at = NOW()
		WHERE id = $2 AND status IN ('scheduled','in_progress') AND deleted_at IS NULL`,
		string(driverID), string(tripID))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrInvalidState
	}
	return nil
}

func scanTrip(row pgx.Row) (*Trip, error) {
	var t Trip
	var driverID *string
	var currency string
	var startedAt, endedAt, deletedAt *time.Time

	err := row.Scan(
		&t.ID, &t.BookingID, &t.VehicleID, &t.VehicleOwnerID, &t.CustomerID, &driverID,
		&t.Status, &t.StatusVersion,
		&t.PlannedDistanceM, &t.OdometerStart, &t.OdometerEnd, &t.FuelStart, &t.FuelEnd,
		&t.ActualDistanceM, &t.Revenue.Amount, &currency,
		&startedAt, &endedAt, &t.CreatedAt, &t.UpdatedAt, &deletedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if driverID != nil {
		v := types.ID(*driverID)
		t.DriverID = &v
	}
	t.Revenue.Currency = currency
	t.StartedAt = startedAt
	t.EndedAt = endedAt
	t.DeletedAt = deletedAt
	return &t, nil
}
