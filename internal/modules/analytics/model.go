// README: Read-only rollup shapes served by the analytics endpoints.
package analytics

import (
	"fleetrent/internal/types"
)

type Summary struct {
	VehiclesByAvailability map[string]int64 `json:"vehicles_by_availability"`
	BookingsByStatus       map[string]int64 `json:"bookings_by_status"`
	TripsCompleted         int64            `json:"trips_completed"`
	TotalDistanceM         int64            `json:"total_distance_m"`
}

type VehicleRevenue struct {
	VehicleID      types.ID    `json:"vehicle_id"`
	OwnerID        types.ID    `json:"owner_id"`
	CompletedTrips int64       `json:"completed_trips"`
	Revenue        types.Money `json:"revenue"`
}

type RevenueReport struct {
	Total    types.Money      `json:"total"`
	Vehicles []VehicleRevenue `json:"vehicles"`
}
