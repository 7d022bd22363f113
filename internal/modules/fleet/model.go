// README: Vehicle aggregate and availability definitions.
package fleet

import (
	"time"

	"fleetrent/internal/types"
)

type Availability string

const (
	AvailabilityAvailable   Availability = "available"
	AvailabilityBooked      Availability = "booked"
	AvailabilityMaintenance Availability = "maintenance"
	AvailabilityUnavailable Availability = "unavailable"
)

func ValidAvailability(a Availability) bool {
	switch a {
	case AvailabilityAvailable, AvailabilityBooked, AvailabilityMaintenance, AvailabilityUnavailable:
		return true
	}
	return false
}

type Vehicle struct {
	ID           types.ID
	OwnerID      types.ID
	Make         string
	Model        string
	Year         int
	LicensePlate string
	DailyRate    types.Money
	HourlyRate   *types.Money
	Availability Availability
	StatusReason string // why the vehicle is unavailable/maintenance; empty otherwise
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

func (v *Vehicle) Deleted() bool {
	return v.DeletedAt != nil
}
