// README: Fleet service implements vehicle registration and availability rules.
package fleet

import (
	"context"
	"errors"
	"time"

	"fleetrent/internal/modules/identity"
	"fleetrent/internal/types"
)

var (
	ErrNotFound   = errors.New("vehicle not found")
	ErrBadRequest = errors.New("bad request")
	ErrForbidden  = errors.New("forbidden")
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

type CreateCommand struct {
	OwnerID      types.ID
	Make         string
	Model        string
	Year         int
	LicensePlate string
	DailyRate    types.Money
	HourlyRate   *types.Money
}

func (s *Service) Create(ctx context.Context, actor identity.Actor, cmd CreateCommand) (*Vehicle, error) {
	if actor.Role != identity.RoleOwner && !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if cmd.OwnerID == "" {
		cmd.OwnerID = actor.ID
	}
	// Owners register vehicles for themselves; only admins may set another owner.
	if cmd.OwnerID != actor.ID && !actor.IsAdmin() {
		return nil, ErrForbidden
	}
	if cmd.Make == "" || cmd.Model == "" || cmd.LicensePlate == "" {
		return nil, ErrBadRequest
	}
	if cmd.DailyRate.Amount <= 0 {
		return nil, ErrBadRequest
	}
	if cmd.HourlyRate != nil && cmd.HourlyRate.Amount < 0 {
		return nil, ErrBadRequest
	}
	v := &Vehicle{
		ID:           types.NewID(),
		OwnerID:      cmd.OwnerID,
		Make:         cmd.Make,
		Model:        cmd.Model,
		Year:         cmd.Year,
		LicensePlate: cmd.LicensePlate,
		DailyRate:    cmd.DailyRate,
		HourlyRate:   cmd.HourlyRate,
		Availability: AvailabilityAvailable,
		CreatedAt:    time.Now(),
	}
	if err := s.store.Create(ctx, v); err != nil {
		return nil, err
	}
	s.invalidate(ctx, "vehicles*")
	return v, nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Vehicle, error) {
	return s.store.Get(ctx, id)
}

// List returns the caller's vehicles for owners and the whole registry
// for admins. Customers see the registry too; they need it to book.
func (s *Service) List(ctx context.Context, actor identity.Actor) ([]*Vehicle, error) {
	if actor.Role == identity.RoleOwner {
		owner := actor.ID
		return s.store.List(ctx, &owner)
	}
	return s.store.List(ctx, nil)
}

func (s *Service) IsAvailable(ctx context.Context, id types.ID) (bool, error) {
	v, err := s.store.Get(ctx, id)
	if err != nil {
		return false, err
	}
	return v.Availability == AvailabilityAvailable, nil
}

func (s *Service) MarkBooked(ctx context.Context, id types.ID) error {
	return s.setAvailability(ctx, id, AvailabilityBooked, "")
}

func (s *Service) MarkAvailable(ctx context.Context, id types.ID) error {
	return s.setAvailability(ctx, id, AvailabilityAvailable, "")
}

func (s *Service) MarkUnavailable(ctx context.Context, id types.ID, reason string) error {
	return s.setAvailability(ctx, id, AvailabilityUnavailable, reason)
}

// SetMaintenance flags a vehicle as under maintenance. Owner or admin only.
func (s *Service) SetMaintenance(ctx context.Context, actor identity.Actor, id types.ID, reason string) error {
	if err := s.authorizeOwner(ctx, actor, id); err != nil {
		return err
	}
	return s.setAvailability(ctx, id, AvailabilityMaintenance, reason)
}

func (s *Service) setAvailability(ctx context.Context, id types.ID, a Availability, reason string) error {
	if err := s.store.SetAvailability(ctx, id, a, reason); err != nil {
		return err
	}
	s.invalidate(ctx, "vehicles*")
	return nil
}

// SoftDelete tombstones a vehicle and cancels its live bookings.
func (s *Service) SoftDelete(ctx context.Context, actor identity.Actor, id types.ID) (int, error) {
	if err := s.authorizeOwner(ctx, actor, id); err != nil {
		return 0, err
	}
	swept, err := s.store.SoftDelete(ctx, id, actor.ID, "vehicle deleted")
	if err != nil {
		return 0, err
	}
	// The sweep mutates bookings and trips too, so their cached lists
	// are just as stale as the registry's.
	s.invalidate(ctx, "vehicles*", "bookings*", "trips*", "analytics*")
	return swept, nil
}

func (s *Service) invalidate(ctx context.Context, patterns ...string) {
	if s.cache != nil {
		s.cache.Invalidate(context.WithoutCancel(ctx), patterns...)
	}
}

func (s *Service) authorizeOwner(ctx context.Context, actor identity.Actor, id types.ID) error {
	if actor.IsAdmin() {
		return nil
	}
	v, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if v.OwnerID != actor.ID {
		return ErrForbidden
	}
	return nil
}
