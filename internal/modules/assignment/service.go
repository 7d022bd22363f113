// README: Driver assignment service; registration, review, and activation workflow.
package assignment

import (
	"context"
	"errors"
	"time"

	"fleetrent/internal/modules/identity"
	"fleetrent/internal/types"
)

var (
	ErrNotFound     = errors.New("assignment not found")
	ErrBadRequest   = errors.New("bad request")
	ErrDuplicate    = errors.New("driver already has a live assignment for this vehicle")
	ErrInvalidState = errors.New("invalid assignment state")
	ErrForbidden    = errors.New("forbidden")
)

// CacheInvalidator clears cached GET responses after a mutation.
// Failures are the implementation's problem; calls are fire and forget.
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

type RegisterCommand struct {
	DriverID  types.ID // defaults to the calling driver
	VehicleID types.ID
}

// Register files a driver's request to operate a vehicle. Duplicate
// live requests for the same pair are rejected.
func (s *Service) Register(ctx context.Context, actor identity.Actor, cmd RegisterCommand) (*Assignment, error) {
	switch actor.Role {
	case identity.RoleDriver:
		cmd.DriverID = actor.ID
	case identity.RoleAdmin:
		if cmd.DriverID == "" {
			return nil, ErrBadRequest
		}
	default:
		return nil, ErrForbidden
	}
	if cmd.VehicleID == "" {
		return nil, ErrBadRequest
	}

	live, err := s.store.HasLive(ctx, cmd.DriverID, cmd.VehicleID)
	if err != nil {
		return nil, err
	}
	if live {
		return nil, ErrDuplicate
	}

	a := &Assignment{
		ID:        types.NewID(),
		DriverID:  cmd.DriverID,
		VehicleID: cmd.VehicleID,
		Status:    StatusPending,
		CreatedAt: time.Now(),
	}
	if err := s.store.Create(ctx, a); err != nil {
		return nil, err
	}
	s.invalidate(ctx, "assignments*")
	return a, nil
}

type ReviewCommand struct {
	AssignmentID types.ID
	Approve      bool
}

// Review lets the vehicle's owner or an admin approve or reject a
// pending request, stamping the reviewer.
func (s *Service) Review(ctx context.Context, actor identity.Actor, cmd ReviewCommand) error {
	a, err := s.store.Get(ctx, cmd.AssignmentID)
	if err != nil {
		return err
	}
	if !actor.IsAdmin() && actor.ID != a.VehicleOwnerID {
		return ErrForbidden
	}
	if a.Status != StatusPending {
		return ErrInvalidState
	}
	target := StatusRejected
	if cmd.Approve {
		target = StatusApproved
	}
	reviewer := actor.ID
	ok, err := s.store.SetStatus(ctx, a.ID, StatusPending, target, &reviewer)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidState
	}
	s.invalidate(ctx, "assignments*")
	return nil
}

type ToggleCommand struct {
	AssignmentID types.ID
	Active       bool
}

// Toggle flips an approved assignment between active and inactive.
func (s *Service) Toggle(ctx context.Context, actor identity.Actor, cmd ToggleCommand) error {
	a, err := s.store.Get(ctx, cmd.AssignmentID)
	if err != nil {
		return err
	}
	if !actor.IsAdmin() && actor.ID != a.VehicleOwnerID {
		return ErrForbidden
	}

	var from, to Status
	if cmd.Active {
		to = StatusActive
		switch a.Status {
		case StatusApproved, StatusInactive:
			from = a.Status
		default:
			return ErrInvalidState
		}
	} else {
		from, to = StatusActive, StatusInactive
		if a.Status != StatusActive {
			return ErrInvalidState
		}
	}
	ok, err := s.store.SetStatus(ctx, a.ID, from, to, nil)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidState
	}
	s.invalidate(ctx, "assignments*")
	return nil
}

func (s *Service) invalidate(ctx context.Context, patterns ...string) {
	if s.cache != nil {
		s.cache.Invalidate(context.WithoutCancel(ctx), patterns...)
	}
}

// List returns assignments scoped by role: drivers their own, owners
// those for their vehicles, admins everything.
func (s *Service) List(ctx context.Context, actor identity.Actor) ([]*Assignment, error) {
	var scope ListScope
	switch actor.Role {
	case identity.RoleAdmin:
	case identity.RoleOwner:
		owner := actor.ID
		scope.OwnerID = &owner
	case identity.RoleDriver:
		driver := actor.ID
		scope.DriverID = &driver
	default:
		return nil, ErrForbidden
	}
	return s.store.List(ctx, scope)
}
