// README: Driver assignment aggregate and workflow statuses.
package assignment

import (
	"time"

	"fleetrent/internal/types"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// LiveStatuses block a duplicate registration for the same
// driver/vehicle pair.
var LiveStatuses = []Status{StatusPending, StatusApproved, StatusActive}

type Assignment struct {
	ID             types.ID
	DriverID       types.ID
	VehicleID      types.ID
	VehicleOwnerID types.ID // denormalized from the vehicle row on read
	Status         Status
	ReviewedBy     *types.ID
	ReviewedAt     *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
