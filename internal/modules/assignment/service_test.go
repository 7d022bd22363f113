// README: Driver assignment workflow tests, DB-backed.
package assignment

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"fleetrent/internal/migrations"
	"fleetrent/internal/modules/identity"
)

func setupTestService(t *testing.T) (*Service, *pgxpool.Pool) {
	t.Helper()

	dsn := os.Getenv("FLEETRENT_TEST_DSN")
	if dsn == "" {
		t.Skip("FLEETRENT_TEST_DSN not set; skipping DB-backed tests")
	}

	ctx := context.Background()
	db, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(db.Close)

	if err := migrations.Run(ctx, db); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	if _, err := db.Exec(ctx, `
		TRUNCATE TABLE booking_state_events, trips, driver_assignments, bookings, vehicles, users`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}

	seed := func(query string, args ...any) {
		if _, err := db.Exec(ctx, query, args...); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	seed(`INSERT INTO users (id, name, email, password_hash, role) VALUES
		('drv-1', 'drv-1', 'drv-1@example.test', 'x', 'driver'),
		('drv-2', 'drv-2', 'drv-2@example.test', 'x', 'driver'),
		('owner-1', 'owner-1', 'owner-1@example.test', 'x', 'owner'),
		('owner-2', 'owner-2', 'owner-2@example.test', 'x', 'owner')`)
	seed(`INSERT INTO vehicles (id, owner_id, make, model, year, license_plate, daily_rate, currency)
		VALUES ('veh-1', 'owner-1', 'Ford', 'Transit', 2021, 'PLT-1', 8000, 'USD')`)

	return NewService(NewStore(db)), db
}

var (
	driver     = identity.Actor{ID: "drv-1", Role: identity.RoleDriver}
	fleetOwner = identity.Actor{ID: "owner-1", Role: identity.RoleOwner}
	otherOwner = identity.Actor{ID: "owner-2", Role: identity.RoleOwner}
)

func TestAssignmentWorkflow(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	a, err := svc.Register(ctx, driver, RegisterCommand{VehicleID: "veh-1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if a.Status != StatusPending {
		t.Fatalf("expected pending, got %s", a.Status)
	}
	if a.DriverID != driver.ID {
		t.Fatalf("expected driver %s, got %s", driver.ID, a.DriverID)
	}

	// A second live request for the same pair is rejected.
	if _, err := svc.Register(ctx, driver, RegisterCommand{VehicleID: "veh-1"}); err != ErrDuplicate {
		t.Fatalf("duplicate register: expected ErrDuplicate, got %v", err)
	}

	// Only the vehicle's owner (or an admin) reviews.
	if err := svc.Review(ctx, otherOwner, ReviewCommand{AssignmentID: a.ID, Approve: true}); err != ErrForbidden {
		t.Fatalf("foreign review: expected ErrForbidden, got %v", err)
	}
	if err := svc.Review(ctx, fleetOwner, ReviewCommand{AssignmentID: a.ID, Approve: true}); err != nil {
		t.Fatalf("review: %v", err)
	}

	got, err := svc.store.Get(ctx, a.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != StatusApproved {
		t.Fatalf("expected approved, got %s", got.Status)
	}
	if got.ReviewedBy == nil || *got.ReviewedBy != fleetOwner.ID {
		t.Fatalf("expected reviewer %s, got %v", fleetOwner.ID, got.ReviewedBy)
	}

	// Approved requests cannot be reviewed twice.
	if err := svc.Review(ctx, fleetOwner, ReviewCommand{AssignmentID: a.ID, Approve: false}); err != ErrInvalidState {
		t.Fatalf("second review: expected ErrInvalidState, got %v", err)
	}

	// Activation toggles between approved/inactive and active.
	if err := svc.Toggle(ctx, fleetOwner, ToggleCommand{AssignmentID: a.ID, Active: true}); err != nil {
		t.Fatalf("activate: %v", err)
	}
	if err := svc.Toggle(ctx, fleetOwner, ToggleCommand{AssignmentID: a.ID, Active: false}); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if err := svc.Toggle(ctx, fleetOwner, ToggleCommand{AssignmentID: a.ID, Active: false}); err != ErrInvalidState {
		t.Fatalf("double deactivate: expected ErrInvalidState, got %v", err)
	}
	if err := svc.Toggle(ctx, fleetOwner, ToggleCommand{AssignmentID: a.ID, Active: true}); err != nil {
		t.Fatalf("reactivate: %v", err)
	}
}

func TestAssignmentRejectedPairCanReapply(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	a, err := svc.Register(ctx, driver, RegisterCommand{VehicleID: "veh-1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := svc.Review(ctx, fleetOwner, ReviewCommand{AssignmentID: a.ID, Approve: false}); err != nil {
		t.Fatalf("reject: %v", err)
	}

	// A rejected request is not live, so the driver may apply again.
	if _, err := svc.Register(ctx, driver, RegisterCommand{VehicleID: "veh-1"}); err != nil {
		t.Fatalf("re-register after reject: %v", err)
	}
}

func TestAssignmentListScoping(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, driver, RegisterCommand{VehicleID: "veh-1"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Register(ctx, identity.Actor{ID: "drv-2", Role: identity.RoleDriver},
		RegisterCommand{VehicleID: "veh-1"}); err != nil {
		t.Fatalf("register second driver: %v", err)
	}

	mine, err := svc.List(ctx, driver)
	if err != nil {
		t.Fatalf("driver list: %v", err)
	}
	if len(mine) != 1 || mine[0].DriverID != driver.ID {
		t.Fatalf("expected only the driver's own assignment, got %d", len(mine))
	}

	ownerView, err := svc.List(ctx, fleetOwner)
	if err != nil {
		t.Fatalf("owner list: %v", err)
	}
	if len(ownerView) != 2 {
		t.Fatalf("expected 2 assignments for the owner's vehicle, got %d", len(ownerView))
	}

	foreign, err := svc.List(ctx, otherOwner)
	if err != nil {
		t.Fatalf("foreign owner list: %v", err)
	}
	if len(foreign) != 0 {
		t.Fatalf("expected no assignments for the other owner, got %d", len(foreign))
	}
}

// captureInvalidator records invalidation patterns for assertions.
type captureInvalidator struct {
	patterns []string
}

func (c *captureInvalidator) Invalidate(_ context.Context, patterns ...string) {
	c.patterns = append(c.patterns, patterns...)
}

func TestAssignmentMutationsInvalidateCache(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	cache := &captureInvalidator{}
	svc.SetCacheInvalidator(cache)

	a, err := svc.Register(ctx, driver, RegisterCommand{VehicleID: "veh-1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if len(cache.patterns) != 1 || cache.patterns[0] != "assignments*" {
		t.Fatalf("register: expected [assignments*], got %v", cache.patterns)
	}

	cache.patterns = nil
	if err := svc.Review(ctx, fleetOwner, ReviewCommand{AssignmentID: a.ID, Approve: true}); err != nil {
		t.Fatalf("review: %v", err)
	}
	if len(cache.patterns) != 1 || cache.patterns[0] != "assignments*" {
		t.Fatalf("review: expected [assignments*], got %v", cache.patterns)
	}

	cache.patterns = nil
	if err := svc.Toggle(ctx, fleetOwner, ToggleCommand{AssignmentID: a.ID, Active: true}); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if len(cache.patterns) != 1 || cache.patterns[0] != "assignments*" {
		t.Fatalf("toggle: expected [assignments*], got %v", cache.patterns)
	}

	// A rejected mutation must not touch the cache.
	cache.patterns = nil
	if err := svc.Review(ctx, otherOwner, ReviewCommand{AssignmentID: a.ID, Approve: false}); err != ErrForbidden {
		t.Fatalf("foreign review: expected ErrForbidden, got %v", err)
	}
	if len(cache.patterns) != 0 {
		t.Fatalf("forbidden mutation invalidated %v", cache.patterns)
	}
}
