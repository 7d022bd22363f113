// README: Analytics service; pure aggregation over the other modules' tables.
package analytics

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	"fleetrent/internal/modules/identity"
)

var ErrForbidden = errors.New("forbidden")

type Service struct {
	db *pgxpool.Pool
}

func NewService(db *pgxpool.Pool) *Service {
	return &Service{db: db}
}

// Summary rolls up fleet, booking, and trip counters. Owners see only
// their own vehicles; admins see the whole platform.
func (s *Service) Summary(ctx context.Context, actor identity.Actor) (*Summary, error) {
	if !actor.IsAdmin() && actor.Role != identity.RoleOwner {
		return nil, ErrForbidden
	}
	ownerFilter, args := scopeFilter(actor)

	out := &Summary{
		VehiclesByAvailability: map[string]int64{},
		BookingsByStatus:       map[string]int64{},
	}

	rows, err := s.db.Query(ctx, `
		SELECT availability, COUNT(*) FROM vehicles
		WHERE deleted_at IS NULL`+ownerFilter("owner_id")+`
		GROUP BY availability`, args...)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var k string
		var n int64
		if err := rows.Scan(&k, &n); err != nil {
			rows.Close()
			return nil, err
		}
		out.VehiclesByAvailability[k] = n
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = s.db.Query(ctx, `
		SELECT b.status, COUNT(*)
		FROM bookings b JOIN vehicles v ON v.id = b.vehicle_id
		WHERE b.deleted_at IS NULL`+ownerFilter("v.owner_id")+`
		GROUP BY b.status`, args...)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var k string
		var n int64
		if err := rows.Scan(&k, &n); err != nil {
			rows.Close()
			return nil, err
		}
		out.BookingsByStatus[k] = n
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	err = s.db.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(t.actual_distance_m), 0)
		FROM trips t JOIN vehicles v ON v.id = t.vehicle_id
		WHERE t.status = 'completed' AND t.deleted_at IS NULL`+ownerFilter("v.owner_id"),
		args...,
	).Scan(&out.TripsCompleted, &out.TotalDistanceM)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Revenue reports revenue settled on completed trips, total and per
// vehicle. Revenue is the booking-total snapshot copied at completion,
// never the live vehicle rate.
func (s *Service) Revenue(ctx context.Context, actor identity.Actor) (*RevenueReport, error) {
	if !actor.IsAdmin() && actor.Role != identity.RoleOwner {
		return nil, ErrForbidden
	}
	ownerFilter, args := scopeFilter(actor)

	report := &RevenueReport{}
	rows, err := s.db.Query(ctx, `
		SELECT t.vehicle_id, v.owner_id, COUNT(*), COALESCE(SUM(t.revenue), 0), MAX(t.currency)
		FROM trips t JOIN vehicles v ON v.id = t.vehicle_id
		WHERE t.status = 'completed' AND t.deleted_at IS NULL`+ownerFilter("v.owner_id")+`
		GROUP BY t.vehicle_id, v.owner_id
		ORDER BY SUM(t.revenue) DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var vr VehicleRevenue
		var currency string
		if err := rows.Scan(&vr.VehicleID, &vr.OwnerID, &vr.CompletedTrips, &vr.Revenue.Amount, &currency); err != nil {
			return nil, err
		}
		vr.Revenue.Currency = currency
		report.Total = report.Total.Add(vr.Revenue)
		report.Vehicles = append(report.Vehicles, vr)
	}
	return report, rows.Err()
}

// scopeFilter returns a SQL fragment builder restricting rows to the
// actor's vehicles for owners, and no restriction for admins. Other
// roles get no filter and are rejected by the callers.
func scopeFilter(actor identity.Actor) (func(col string) string, []any) {
	if actor.Role == identity.RoleOwner {
		return func(col string) string { return ` AND ` + col + ` = $1` }, []any{string(actor.ID)}
	}
	return func(string) string { return `` }, nil
}
