// README: Trip aggregate, status definitions, and distance derivation.
package trip

import (
	"time"

	"fleetrent/internal/types"
)

type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

func ValidStatus(s Status) bool {
	switch s {
	case StatusScheduled, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

type Trip struct {
	ID             types.ID
	BookingID      types.ID
	VehicleID      types.ID
	VehicleOwnerID types.ID // denormalized from the vehicle row on read
	CustomerID     types.ID
	DriverID       *types.ID
	Status         Status
	StatusVersion  int

	PlannedDistanceM int64
	OdometerStart    *int64
	OdometerEnd      *int64
	FuelStart        *float64
	FuelEnd          *float64
	ActualDistanceM  int64

	Revenue   types.Money
	StartedAt *time.Time
	EndedAt   *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

func (t *Trip) Terminal() bool {
	return t.Status == StatusCompleted || t.Status == StatusCancelled
}

// AllowedTransitions represents the trip state flow as code.
var AllowedTransitions = map[Status][]Status{
	StatusScheduled:  {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
}

func CanTransition(from, to Status) bool {
	next, ok := AllowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}

// DeriveDistance returns the odometer delta in meters when both
// readings are present (readings are kilometers), otherwise the
// planned estimate.
func DeriveDistance(odoStartKm, odoEndKm *int64, plannedM int64) int64 {
	if odoStartKm != nil && odoEndKm != nil && *odoEndKm >= *odoStartKm {
		return (*odoEndKm - *odoStartKm) * 1000
	}
	return plannedM
}
