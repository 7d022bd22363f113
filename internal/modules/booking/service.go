// README: Booking lifecycle service; owns the availability-conflict state machine.
package booking

import (
	"context"
	"errors"
	"time"

	"fleetrent/internal/modules/identity"
	"fleetrent/internal/modules/pricing"
	"fleetrent/internal/types"
)

// startGrace is how far in the past a booking start may lie and still
// count as "now".
const startGrace = time.Minute

var (
	ErrNotFound           = errors.New("booking not found")
	ErrVehicleNotFound    = errors.New("vehicle not found")
	ErrVehicleUnavailable = errors.New("vehicle not available")
	ErrDoubleBooked       = errors.New("vehicle already booked for the requested dates")
	ErrBadRequest         = errors.New("bad request")
	ErrInvalidState       = errors.New("invalid state transition")
	ErrConflict           = errors.New("booking state conflict")
	ErrForbidden          = errors.New("forbidden")
)

// Notifier delivers best-effort booking emails. Implementations must
// never block the calling request path.
type Notifier interface {
	BookingCreated(ctx context.Context, b *Booking)
	BookingCancelled(ctx context.Context, b *Booking)
}

// DistanceEstimator returns a planned driving distance in meters for a
// pickup/dropoff pair. Optional; estimates are best effort.
type DistanceEstimator interface {
	EstimateDistance(ctx context.Context, origin, destination string) (int64, error)
}

// CacheInvalidator clears cached GET responses after a mutation.
// Failures are the implementation's problem; calls are fire and forget.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, patterns ...string)
}

type Service struct {
	store     *Store
	pricing   *pricing.Service
	notifier  Notifier          // optional
	estimator DistanceEstimator // optional
	cache     CacheInvalidator  // optional
}

func NewService(store *Store, pricingSvc *pricing.Service, opts ...Option) *Service {
	s := &Service{store: store, pricing: pricingSvc}
	for _, o := range opts {
		o(s)
	}
	return s
}

type Option func(*Service)

func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

func WithDistanceEstimator(e DistanceEstimator) Option {
	return func(s *Service) { s.estimator = e }
}

func WithCacheInvalidator(c CacheInvalidator) Option {
	return func(s *Service) { s.cache = c }
}

type CreateCommand struct {
	CustomerID      types.ID // admins may book on behalf of a customer
	VehicleID       types.ID
	Start           time.Time
	End             time.Time
	PickupLocation  string
	DropoffLocation string
	Type            BookingType
	SpecialRequests string
}

type CreateResult struct {
	Booking *Booking
	TripID  types.ID
}

// Create validates, prices, and persists a booking along with its side
// effects (vehicle flip, scheduled trip). Checks run in the order the
// API contract promises: vehicle existence, availability, date sanity,
// then overlap.
func (s *Service) Create(ctx context.Context, actor identity.Actor, cmd CreateCommand) (*CreateResult, error) {
	switch actor.Role {
	case identity.RoleCustomer:
		cmd.CustomerID = actor.ID
	case identity.RoleAdmin:
		if cmd.CustomerID == "" {
			return nil, ErrBadRequest
		}
	default:
		return nil, ErrForbidden
	}
	if cmd.VehicleID == "" || cmd.PickupLocation == "" {
		return nil, ErrBadRequest
	}
	if cmd.Type == "" {
		cmd.Type = TypeDaily
	}
	if !ValidBookingType(cmd.Type) {
		return nil, ErrBadRequest
	}

	v, err := s.store.VehicleForBooking(ctx, cmd.VehicleID)
	if err != nil {
		return nil, err
	}
	if !v.Available {
		return nil, ErrVehicleUnavailable
	}
	// Starts up to startGrace in the past are accepted; client clocks
	// drift, and "starting now" requests spend time on the wire.
	now := time.Now()
	if cmd.Start.Before(now.Add(-startGrace)) {
		return nil, ErrBadRequest
	}
	if !cmd.End.After(cmd.Start) {
		return nil, ErrBadRequest
	}

	quote, err := s.pricing.Estimate(pricing.QuoteRequest{
		Rate:        pricing.Rate{Daily: v.DailyRate, Hourly: v.HourlyRate},
		Start:       cmd.Start,
		End:         cmd.End,
		BookingType: string(cmd.Type),
	})
	if err != nil {
		return nil, ErrBadRequest
	}

	var plannedM int64
	if s.estimator != nil && cmd.DropoffLocation != "" {
		if m, err := s.estimator.EstimateDistance(ctx, cmd.PickupLocation, cmd.DropoffLocation); err == nil {
			plannedM = m
		}
	}

	b := &Booking{
		ID:              types.NewID(),
		CustomerID:      cmd.CustomerID,
		VehicleID:       cmd.VehicleID,
		VehicleOwnerID:  v.OwnerID,
		Status:          StatusPending,
		StartDate:       cmd.Start,
		EndDate:         cmd.End,
		PickupLocation:  cmd.PickupLocation,
		DropoffLocation: cmd.DropoffLocation,
		Type:            cmd.Type,
		SpecialRequests: cmd.SpecialRequests,
		Price:           quote,
		CreatedAt:       now,
	}
	tripID := types.NewID()
	if err := s.store.Create(ctx, b, tripID, plannedM, string(actor.Role), actor.ID); err != nil {
		return nil, err
	}

	if s.notifier != nil {
		go s.notifier.BookingCreated(context.WithoutCancel(ctx), b)
	}
	s.invalidate(ctx, "bookings*", "trips*", "vehicles*", "analytics*")
	return &CreateResult{Booking: b, TripID: tripID}, nil
}

// Get returns a booking the actor is allowed to see.
func (s *Service) Get(ctx context.Context, actor identity.Actor, id types.ID) (*Booking, error) {
	b, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canAccess(actor, b) {
		return nil, ErrForbidden
	}
	return b, nil
}

// List returns bookings scoped by role: customers their own, owners
// their vehicles', admins everything.
func (s *Service) List(ctx context.Context, actor identity.Actor) ([]*Booking, error) {
	var scope ListScope
	switch actor.Role {
	case identity.RoleAdmin:
	case identity.RoleOwner:
		owner := actor.ID
		scope.OwnerID = &owner
	default:
		customer := actor.ID
		scope.CustomerID = &customer
	}
	return s.store.List(ctx, scope)
}

type UpdateStatusCommand struct {
	BookingID types.ID
	Target    Status
}

// UpdateStatus applies one guarded state-machine step. A cancelled
// target routes through Cancel so the metadata and side effects stay
// in one place.
func (s *Service) UpdateStatus(ctx context.Context, actor identity.Actor, cmd UpdateStatusCommand) error {
	if !ValidStatus(cmd.Target) {
		return ErrBadRequest
	}
	if cmd.Target == StatusCancelled {
		return s.Cancel(ctx, actor, CancelCommand{BookingID: cmd.BookingID, Reason: "status update"})
	}

	b, err := s.store.Get(ctx, cmd.BookingID)
	if err != nil {
		return err
	}
	if !canAccess(actor, b) {
		return ErrForbidden
	}
	if !CanTransition(b.Status, cmd.Target) {
		return ErrInvalidState
	}
	ok, err := s.store.UpdateStatus(ctx, b.ID, b.Status, cmd.Target, b.StatusVersion)
	if err != nil {
		return err
	}
	if !ok {
		return ErrConflict
	}
	actorID := actor.ID
	_ = s.store.AppendEvent(ctx, &Event{
		BookingID:  b.ID,
		FromStatus: b.Status,
		ToStatus:   cmd.Target,
		ActorType:  string(actor.Role),
		ActorID:    &actorID,
		CreatedAt:  time.Now(),
	})
	s.invalidate(ctx, "bookings*", "analytics*")
	return nil
}

type CancelCommand struct {
	BookingID types.ID
	Reason    string
}

// Cancel moves a non-terminal booking to cancelled, records who and
// why, releases the vehicle, and cancels the linked trip.
func (s *Service) Cancel(ctx context.Context, actor identity.Actor, cmd CancelCommand) error {
	b, err := s.store.Get(ctx, cmd.BookingID)
	if err != nil {
		return err
	}
	if !canAccess(actor, b) {
		return ErrForbidden
	}
	if b.Terminal() {
		return ErrInvalidState
	}
	if cmd.Reason == "" {
		cmd.Reason = "cancelled by " + string(actor.Role)
	}
	ok, err := s.store.Cancel(ctx, b.ID, b.Status, b.StatusVersion, cmd.Reason, actor.ID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrConflict
	}
	actorID := actor.ID
	_ = s.store.AppendEvent(ctx, &Event{
		BookingID:  b.ID,
		FromStatus: b.Status,
		ToStatus:   StatusCancelled,
		ActorType:  string(actor.Role),
		ActorID:    &actorID,
		CreatedAt:  time.Now(),
	})

	if s.notifier != nil {
		cancelled := *b
		cancelled.Status = StatusCancelled
		cancelled.CancelReason = &cmd.Reason
		go s.notifier.BookingCancelled(context.WithoutCancel(ctx), &cancelled)
	}
	s.invalidate(ctx, "bookings*", "trips*", "vehicles*", "analytics*")
	return nil
}

// SoftDelete tombstones a terminal booking. Admin only; an active
// booking must be cancelled first.
func (s *Service) SoftDelete(ctx context.Context, actor identity.Actor, id types.ID) error {
	if !actor.IsAdmin() {
		return ErrForbidden
	}
	b, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if !b.Terminal() {
		if err := s.Cancel(ctx, actor, CancelCommand{BookingID: id, Reason: "administrative purge"}); err != nil {
			return err
		}
	}
	if err := s.store.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, "bookings*", "analytics*")
	return nil
}

func (s *Service) invalidate(ctx context.Context, patterns ...string) {
	if s.cache != nil {
		s.cache.Invalidate(context.WithoutCancel(ctx), patterns...)
	}
}

// canAccess implements the shared authorization rule: admin, the
// booking's customer, or the owner of the booked vehicle.
func canAccess(actor identity.Actor, b *Booking) bool {
	if actor.IsAdmin() {
		return true
	}
	return actor.ID == b.CustomerID || actor.ID == b.VehicleOwnerID
}
