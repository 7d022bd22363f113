// README: Concurrency tests for booking creation and transitions (run with -race).
package booking

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"fleetrent/internal/modules/identity"
	"fleetrent/internal/types"
)

func TestConcurrentCreateSameVehicle(t *testing.T) {
	svc, db := setupTestService(t)
	seedBasics(t, db)
	ctx := context.Background()

	const attempts = 8
	for i := 0; i < attempts; i++ {
		seedUser(t, db, fmt.Sprintf("racer-%d", i), "customer")
	}

	start, end := window(3)
	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	gate := make(chan struct{})

	for i := 0; i < attempts; i++ {
		actor := identity.Actor{ID: types.ID(fmt.Sprintf("racer-%d", i)), Role: identity.RoleCustomer}
		wg.Add(1)
		go func(a identity.Actor) {
			defer wg.Done()
			<-gate
			_, err := svc.Create(ctx, a, CreateCommand{
				VehicleID:      "veh-1",
				Start:          start,
				End:            end,
				PickupLocation: "Downtown",
			})
			errs <- err
		}(actor)
	}

	close(gate)
	wg.Wait()
	close(errs)

	success := 0
	for err := range errs {
		if err == nil {
			success++
			continue
		}
		if err != ErrDoubleBooked && err != ErrVehicleUnavailable {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if success != 1 {
		t.Fatalf("expected exactly 1 success, got %d", success)
	}

	var active int
	if err := db.QueryRow(ctx, `
		SELECT COUNT(*) FROM bookings
		WHERE vehicle_id = 'veh-1' AND status IN ('pending','confirmed','in_progress')`).Scan(&active); err != nil {
		t.Fatalf("count active bookings: %v", err)
	}
	if active != 1 {
		t.Fatalf("expected 1 active booking, got %d", active)
	}
}

func TestConcurrentConfirmSameBooking(t *testing.T) {
	svc, db := setupTestService(t)
	seedBasics(t, db)
	ctx := context.Background()

	start, end := window(2)
	res, err := svc.Create(ctx, customer, CreateCommand{
		VehicleID: "veh-1", Start: start, End: end, PickupLocation: "Downtown",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	id := res.Booking.ID

	const attempts = 4
	var wg sync.WaitGroup
	errs := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- svc.UpdateStatus(ctx, customer, UpdateStatusCommand{BookingID: id, Target: StatusConfirmed})
		}()
	}

	wg.Wait()
	close(errs)

	success := 0
	for err := range errs {
		if err == nil {
			success++
			continue
		}
		if err != ErrConflict && err != ErrInvalidState {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if success != 1 {
		t.Fatalf("expected exactly 1 success, got %d", success)
	}
	assertStatus(t, svc, id, StatusConfirmed)
}

func TestConcurrentConfirmVsCancel(t *testing.T) {
	svc, db := setupTestService(t)
	seedBasics(t, db)
	ctx := context.Background()

	start, end := window(2)
	res, err := svc.Create(ctx, customer, CreateCommand{
		VehicleID: "veh-1", Start: start, End: end, PickupLocation: "Downtown",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	id := res.Booking.ID

	var wg sync.WaitGroup
	errs := make(chan error, 2)

	wg.Add(1)
	go func() {
		defer wg.Done()
		errs <- svc.UpdateStatus(ctx, customer, UpdateStatusCommand{BookingID: id, Target: StatusConfirmed})
	}()
	wg.Add(1)
	go func() {
		defer wg.Done()
		errs <- svc.Cancel(ctx, customer, CancelCommand{BookingID: id, Reason: "race"})
	}()

	wg.Wait()
	close(errs)

	success := 0
	for err := range errs {
		if err == nil {
			success++
			continue
		}
		if err != ErrConflict && err != ErrInvalidState {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if success < 1 || success > 2 {
		t.Fatalf("expected 1 or 2 successes, got %d", success)
	}

	b, err := svc.Get(ctx, customer, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if success == 2 && b.Status != StatusCancelled {
		t.Fatalf("expected cancelled after confirm+cancel, got %s", b.Status)
	}
	if success == 1 && b.Status != StatusConfirmed && b.Status != StatusCancelled {
		t.Fatalf("unexpected final status: %s", b.Status)
	}
}
