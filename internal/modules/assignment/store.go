// README: Driver assignment store backed by PostgreSQL.
package assignment

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

// HasLive reports whether the driver already holds a pending, approved,
// or active assignment for the vehicle.
func (s *Store) HasLive(ctx context.Context, driverID, vehicleID types.ID) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM driver_assignments
			WHERE driver_id = $1 AND vehicle_id = $2
			  AND status IN ('pending','approved','active')
		)`, string(driverID), string(vehicleID),
	).Scan(&exists)
	return exists, err
}

func (s *Store) Create(ctx context.Context, a *Assignment) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO driver_assignments (id, driver_id, vehicle_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)`,
		string(a.ID), string(a.DriverID), string(a.VehicleID), string(a.Status), a.CreatedAt,
	)
	return err
}

const assignmentColumns = `
	a.id, a.driver_id, a.vehicle_id, v.owner_id, a.status,
	a.reviewed_by, a.reviewed_at, a.created_at, a.updated_at`

func (s *Store) Get(ctx context.Context, id types.ID) (*Assignment, error) {
	row := s.db.QueryRow(ctx, `
		SELECT `+assignmentColumns+`
		FROM driver_assignments a
		JOIN vehicles v ON v.id = a.vehicle_id
		WHERE a.id = $1`, string(id))
	return scanAssignment(row)
}

// ListScope selects which assignments a caller may see.
type ListScope struct {
	DriverID *types.ID
	OwnerID  *types.ID
}

func (s *Store) List(ctx context.Context, scope ListScope) ([]*Assignment, error) {
	q := `
		SELECT ` + assignmentColumns + `
		FROM driver_assignments a
		JOIN vehicles v ON v.id = a.vehicle_id
		WHERE TRUE`
	args := []any{}
	switch {
	case scope.DriverID != nil:
		q += ` AND a.driver_id = $1`
		args = append(args, string(*scope.DriverID))
	case scope.OwnerID != nil:
		q += ` AND v.owner_id = $1`
		args = append(args, string(*scope.OwnerID))
	}
	q += ` ORDER BY a.created_at DESC`

	rows, err := s.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// SetStatus applies a status change, stamping the reviewer when one is
// given. The from guard keeps concurrent reviews from clobbering each
// other.
func (s *Store) SetStatus(ctx context.Context, id types.ID, from, to Status, reviewer *types.ID) (bool, error) {
	var reviewedBy *string
	if reviewer != nil {
		v := string(*reviewer)
		reviewedBy = &v
	}
	tag, err := s.db.Exec(ctx, `
		UPDATE driver_assignments
		SET status = $1,
		    reviewed_by = COALESCE($2, reviewed_by),
		    reviewed_at = CASE WHEN $2 IS NOT NULL THEN NOW() ELSE reviewed_at END,
		    updated_at = NOW()
		WHERE id = $3 AND status = $4`,
		string(to), reviewedBy, string(id), string(from),
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func scanAssignment(row pgx.Row) (*Assignment, error) {
	var a Assignment
	var reviewedBy *string
	var reviewedAt *time.Time
	err := row.Scan(
		&a.ID, &a.DriverID, &a.VehicleID, &a.VehicleOwnerID, &a.Status,
		&reviewedBy, &reviewedAt, &a.CreatedAt, &a.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if reviewedBy != nil {
		v := types.ID(*reviewedBy)
		a.ReviewedBy = &v
	}
	a.ReviewedAt = reviewedAt
	return &a, nil
}
