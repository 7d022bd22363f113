// README: Trip ledger service; mirrors booking completion and driver assignment rules.
package trip

import (
	"context"
	"errors"

	"fleetrent/internal/modules/identity"
	"fleetrent/internal/types"
)

var (
	ErrNotFound          = errors.New("trip not found")
	ErrBadRequest        = errors.New("bad request")
	ErrInvalidState      = errors.New("invalid state transition")
	ErrConflict          = errors.New("trip state conflict")
	ErrForbidden         = errors.New("forbidden")
	ErrDriverNotApproved = errors.New("driver not approved for vehicle")
)

// CacheInvalidator clears cached GET responses after a mutation.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, patterns ...string)
}

type Service struct {
	store *Store
	cache CacheInvalidator // optional
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

func (s *Service) SetCacheInvalidator(c CacheInvalidator) {
	s.cache = c
}

func (s *Service) Get(ctx context.Context, actor identity.Actor, id types.ID) (*Trip, error) {
	t, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canAccess(actor, t) {
		return nil, ErrForbidden
	}
	return t, nil
}

type UpdateStatusCommand struct {
	TripID   types.ID
	Target   Status
	Odometer *int64   // start or end reading, depending on the transition
	Fuel     *float64 // start or end level, depending on the transition
}

// UpdateStatus applies one guarded transition. Starting records the
// start telemetry; completing records end telemetry, settles revenue
// from the parent booking, pushes the booking to completed, and
// releases the vehicle.
func (s *Service) UpdateStatus(ctx context.Context, actor identity.Actor, cmd UpdateStatusCommand) error {
	if !ValidStatus(cmd.Target) {
		return ErrBadRequest
	}
	t, err := s.store.Get(ctx, cmd.TripID)
	if err != nil {
		return err
	}
	if !canUpdate(actor, t) {
		return ErrForbidden
	}
	if !CanTransition(t.Status, cmd.Target) {
		return ErrInvalidState
	}

	var ok bool
	switch cmd.Target {
	case StatusInProgress:
		ok, err = s.store.Start(ctx, t.ID, t.StatusVersion, cmd.Odometer, cmd.Fuel)
	case StatusCompleted:
		ok, err = s.store.Complete(ctx, t, cmd.Odometer, cmd.Fuel)
	case StatusCancelled:
		ok, err = s.store.Cancel(ctx, t.ID, t.Status, t.StatusVersion)
	default:
		return ErrInvalidState
	}
	if err != nil {
		return err
	}
	if !ok {
		return ErrConflict
	}
	s.invalidate(ctx, "trips*", "bookings*", "vehicles*", "analytics*")
	return nil
}

type AssignDriverCommand struct {
	TripID   types.ID
	DriverID types.ID
}

// AssignDriver sets the trip's driver. Only admins and the vehicle's
// owner may assign, and the driver must hold an approved or active
// assignment for the vehicle.
func (s *Service) AssignDriver(ctx context.Context, actor identity.Actor, cmd AssignDriverCommand) error {
	if cmd.DriverID == "" {
		return ErrBadRequest
	}
	t, err := s.store.Get(ctx, cmd.TripID)
	if err != nil {
		return err
	}
	if !actor.IsAdmin() && actor.ID != t.VehicleOwnerID {
		return ErrForbidden
	}
	if t.Terminal() {
		return ErrInvalidState
	}
	if err := s.store.AssignDriver(ctx, t.ID, cmd.DriverID); err != nil {
		return err
	}
	s.invalidate(ctx, "trips*")
	return nil
}

func (s *Service) invalidate(ctx context.Context, patterns ...string) {
	if s.cache != nil {
		s.cache.Invalidate(context.WithoutCancel(ctx), patterns...)
	}
}

// canAccess mirrors the booking read rule, extended to the assigned driver.
func canAccess(actor identity.Actor, t *Trip) bool {
	if actor.IsAdmin() {
		return true
	}
	if actor.ID == t.CustomerID || actor.ID == t.VehicleOwnerID {
		return true
	}
	return t.DriverID != nil && actor.ID == *t.DriverID
}

// canUpdate restricts status changes to admin, the assigned driver, and
// the vehicle's owner.
func canUpdate(actor identity.Actor, t *Trip) bool {
	if actor.IsAdmin() || actor.ID == t.VehicleOwnerID {
		return true
	}
	return t.DriverID != nil && actor.ID == *t.DriverID
}
