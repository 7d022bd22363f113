// README: Booking store backed by PostgreSQL; create runs check-then-write in one transaction.
package booking

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"fleetrent/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// exclusionViolation is the SQLSTATE raised by the bookings_no_overlap
// constraint; it backstops the in-transaction overlap check.
const exclusionViolation = "23P01"

// VehicleSnapshot is the slice of the vehicle row the booking flow needs.
type VehicleSnapshot struct {
	ID         types.ID
	OwnerID    types.ID
	DailyRate  types.Money
	HourlyRate *types.Money
	Available  bool
}

// VehicleForBooking loads the rate and availability snapshot used to
// validate and price a create request. Soft-deleted vehicles read as
// absent.
func (s *Store) VehicleForBooking(ctx context.Context, vehicleID types.ID) (*VehicleSnapshot, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, owner_id, daily_rate, hourly_rate, currency, availability
		FROM vehicles
		WHERE id = $1 AND deleted_at IS NULL`, string(vehicleID))

	var v VehicleSnapshot
	var hourly *int64
	var currency, availability string
	err := row.Scan(&v.ID, &v.OwnerID, &v.DailyRate.Amount, &hourly, &currency, &availability)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrVehicleNotFound
	}
	if err != nil {
		return nil, err
	}
	v.DailyRate.Currency = currency
	if hourly != nil {
		v.HourlyRate = &types.Money{Amount: *hourly, Currency: currency}
	}
	v.Available = availability == "available"
	return &v, nil
}

// Create persists a booking together with its side effects: the vehicle
// flips to booked and a scheduled trip is inserted, all in one
// transaction. The vehicle row is locked first so two concurrent
// requests for the same vehicle serialize on the availability and
// overlap checks.
func (s *Store) Create(ctx context.Context, b *Booking, tripID types.ID, plannedDistanceM int64, actorType string, actorID types.ID) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var availability string
	err = tx.QueryRow(ctx, `
		SELECT availability FROM vehicles
		WHERE id = $1 AND deleted_at IS NULL
		FOR UPDATE`, string(b.VehicleID),
	).Scan(&availability)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrVehicleNotFound
	}
	if err != nil {
		return err
	}
	if availability != "available" {
		return ErrVehicleUnavailable
	}

	var overlap bool
	err = tx.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE vehicle_id = $1
			  AND status IN ('pending','confirmed','in_progress')
			  AND start_date <= $3
			  AND end_date >= $2
		)`, string(b.VehicleID), b.StartDate, b.EndDate,
	).Scan(&overlap)
	if err != nil {
		return err
	}
	if overlap {
		return ErrDoubleBooked
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO bookings (
			id, customer_id, vehicle_id, status, status_version,
			start_date, end_date, pickup_location, dropoff_location,
			booking_type, special_requests,
			base_price, tax, discount, total_price, currency,
			created_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9,
			$10, $11,
			$12, $13, $14, $15, $16,
			$17
		)`,
		string(b.ID), string(b.CustomerID), string(b.VehicleID), string(b.Status), b.StatusVersion,
		b.StartDate, b.EndDate, b.PickupLocation, b.DropoffLocation,
		string(b.Type), b.SpecialRequests,
		b.Price.Base.Amount, b.Price.Tax.Amount, b.Price.Discount.Amount, b.Price.Total.Amount, b.Price.Total.Currency,
		b.CreatedAt,
	)
	if isExclusionViolation(err) {
		return ErrDoubleBooked
	}
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		UPDATE vehicles SET availability = 'booked', status_reason = '', updated_at = NOW()
		WHERE id = $1`, string(b.VehicleID))
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO trips (
			id, booking_id, vehicle_id, customer_id, status, status_version,
			planned_distance_m, revenue, currency, created_at, updated_at
		) VALUES ($1, $2, $3, $4, 'scheduled', 0, $5, 0, $6, $7, $7)`,
		string(tripID), string(b.ID), string(b.VehicleID), string(b.CustomerID),
		plannedDistanceM, b.Price.Total.Currency, b.CreatedAt,
	)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO booking_state_events (booking_id, from_status, to_status, actor_type, actor_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		string(b.ID), string(StatusNone), string(b.Status), actorType, string(actorID), b.CreatedAt,
	)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

const bookingColumns = `
	b.id, b.customer_id, b.vehicle_id, v.owner_id, b.status, b.status_version,
	b.start_date, b.end_date, b.pickup_location, b.dropoff_location,
	b.booking_type, b.special_requests,
	b.base_price, b.tax, b.discount, b.total_price, b.currency,
	b.confirmed_at, b.cancel_reason, b.cancelled_by, b.cancelled_at,
	b.created_at, b.deleted_at`

func (s *Store) Get(ctx context.Context, id types.ID) (*Booking, error) {
	row := s.db.QueryRow(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings b
		JOIN vehicles v ON v.id = b.vehicle_id
		WHERE b.id = $1 AND b.deleted_at IS NULL`, string(id))
	return scanBooking(row)
}

// ListScope selects which bookings a caller may see.
type ListScope struct {
	CustomerID *types.ID // bookings made by this customer
	OwnerID    *types.ID // bookings against this owner's vehicles
}

func (s *Store) List(ctx context.Context, scope ListScope) ([]*Booking, error) {
	q := `
		SELECT ` + bookingColumns + `
		FROM bookings b
		JOIN vehicles v ON v.id = b.vehicle_id
		WHERE b.deleted_at IS NULL`
	args := []any{}
	switch {
	case scope.CustomerID != nil:
		q += ` AND b.customer_id = $1`
		args = append(args, string(*scope.CustomerID))
	case scope.OwnerID != nil:
		q += ` AND v.owner_id = $1`
		args = append(args, string(*scope.OwnerID))
	}
	q += ` ORDER BY b.created_at DESC`

	rows, err := s.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// UpdateStatus applies a guarded transition with an optimistic lock on
// status_version; false means another writer got there first.
func (s *Store) UpdateStatus(ctx context.Context, id types.ID, from, to Status, version int) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE bookings
		SET status = $1,
		    status_version = status_version + 1,
		    confirmed_at = CASE WHEN $1 = 'confirmed' THEN NOW() ELSE confirmed_at END,
		    updated_at = NOW()
		WHERE id = $2 AND status = $3 AND status_version = $4 AND deleted_at IS NULL`,
		string(to), string(id), string(from), version,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// Cancel marks the booking cancelled, records the cancellation
// metadata, releases the vehicle, and cancels the linked trip, all in
// one transaction. false means the optimistic lock failed.
func (s *Store) Cancel(ctx context.Context, id types.ID, from Status, version int, reason string, actorID types.ID) (bool, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
		UPDATE bookings
		SET status = 'cancelled',
		    status_version = status_version + 1,
		    cancel_reason = $1,
		    cancelled_by = $2,
		    cancelled_at = NOW(),
		    updated_at = NOW()
		WHERE id = $3 AND status = $4 AND status_version = $5 AND deleted_at IS NULL`,
		reason, string(actorID), string(id), string(from), version,
	)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() != 1 {
		return false, nil
	}

	_, err = tx.Exec(ctx, `
		UPDATE vehicles SET availability = 'available', status_reason = '', updated_at = NOW()
		WHERE id = (SELECT vehicle_id FROM bookings WHERE id = $1) AND deleted_at IS NULL`,
		string(id))
	if err != nil {
		return false, err
	}

	_, err = tx.Exec(ctx, `
		UPDATE trips
		SET status = 'cancelled', status_version = status_version + 1, updated_at = NOW()
		WHERE booking_id = $1 AND status IN ('scheduled','in_progress')`,
		string(id))
	if err != nil {
		return false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// SoftDelete tombstones a booking; a still-active booking is forced to
// cancelled with the same side effects as Cancel.
func (s *Store) SoftDelete(ctx context.Context, id types.ID) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE bookings
		SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL AND status IN ('completed','cancelled')`,
		string(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) AppendEvent(ctx context.Context, e *Event) error {
	var actorID *string
	if e.ActorID != nil {
		v := string(*e.ActorID)
		actorID = &v
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO booking_state_events (booking_id, from_status, to_status, actor_type, actor_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		string(e.BookingID), string(e.FromStatus), string(e.ToStatus), e.ActorType, actorID, e.CreatedAt,
	)
	return err
}

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	var currency string
	var cancelledBy *string
	var confirmedAt, cancelledAt, deletedAt *time.Time
	var cancelReason *string

	err := row.Scan(
		&b.ID, &b.CustomerID, &b.VehicleID, &b.VehicleOwnerID, &b.Status, &b.StatusVersion,
		&b.StartDate, &b.EndDate, &b.PickupLocation, &b.DropoffLocation,
		&b.Type, &b.SpecialRequests,
		&b.Price.Base.Amount, &b.Price.Tax.Amount, &b.Price.Discount.Amount, &b.Price.Total.Amount, &currency,
		&confirmedAt, &cancelReason, &cancelledBy, &cancelledAt,
		&b.CreatedAt, &deletedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	for _, m := range []*types.Money{&b.Price.Base, &b.Price.Tax, &b.Price.Discount, &b.Price.Total} {
		m.Currency = currency
	}
	b.ConfirmedAt = confirmedAt
	b.CancelReason = cancelReason
	if cancelledBy != nil {
		v := types.ID(*cancelledBy)
		b.CancelledBy = &v
	}
	b.CancelledAt = cancelledAt
	b.DeletedAt = deletedAt
	return &b, nil
}

func isExclusionViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == exclusionViolation
}
