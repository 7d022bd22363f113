// README: Booking aggregate, status definitions, and the transition table.
package booking

import (
	"time"

	"fleetrent/internal/modules/pricing"
	"fleetrent/internal/types"
)

type Status string

const (
	StatusNone       Status = "none"
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// ActiveStatuses are the statuses that hold the vehicle and participate
// in the overlap-exclusion check.
var ActiveStatuses = []Status{StatusPending, StatusConfirmed, StatusInProgress}

type BookingType string

const (
	TypeHourly  BookingType = "hourly"
	TypeDaily   BookingType = "daily"
	TypeWeekly  BookingType = "weekly"
	TypeMonthly BookingType = "monthly"
)

func ValidBookingType(t BookingType) bool {
	switch t {
	case TypeHourly, TypeDaily, TypeWeekly, TypeMonthly:
		return true
	}
	return false
}

type Booking struct {
	ID              types.ID
	CustomerID      types.ID
	VehicleID       types.ID
	VehicleOwnerID  types.ID // denormalized from the vehicle row on read
	Status          Status
	StatusVersion   int
	StartDate       time.Time
	EndDate         time.Time
	PickupLocation  string
	DropoffLocation string
	Type            BookingType
	SpecialRequests string
	Price           pricing.Quote
	ConfirmedAt     *time.Time
	CancelReason    *string
	CancelledBy     *types.ID
	CancelledAt     *time.Time
	CreatedAt       time.Time
	DeletedAt       *time.Time
}

func (b *Booking) Terminal() bool {
	return b.Status == StatusCompleted || b.Status == StatusCancelled
}

type Event struct {
	ID         int64
	BookingID  types.ID
	FromStatus Status
	ToStatus   Status
	ActorType  string
	ActorID    *types.ID
	CreatedAt  time.Time
}

// AllowedTransitions represents the booking state flow as code.
// Cancellation is reachable from every non-terminal status; everything
// else moves strictly forward.
var AllowedTransitions = map[Status][]Status{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusInProgress, StatusCancelled},
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

// Overlaps reports whether two date intervals intersect using the
// inclusive test both ends count.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aStart.After(bEnd) && !aEnd.Before(bStart)
}
