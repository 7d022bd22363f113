// README: Registration validation tests (no database).
package identity

import (
	"context"
	"testing"
)

// These cases are rejected before any store call, so a nil store is safe.
func TestRegisterValidation(t *testing.T) {
	svc := NewService(nil, nil)
	ctx := context.Background()

	cases := []struct {
		name string
		cmd  RegisterCommand
	}{
		{"missing email", RegisterCommand{Name: "Ann", Password: "longenough"}},
		{"missing name", RegisterCommand{Email: "ann@example.test", Password: "longenough"}},
		{"short password", RegisterCommand{Name: "Ann", Email: "ann@example.test", Password: "short"}},
		{"unknown role", RegisterCommand{Name: "Ann", Email: "ann@example.test", Password: "longenough", Role: "superuser"}},
		{"self-registered admin", RegisterCommand{Name: "Ann", Email: "ann@example.test", Password: "longenough", Role: RoleAdmin}},
	}
	for _, tc := range cases {
		if _, err := svc.Register(ctx, tc.cmd); err != ErrBadRequest {
			t.Errorf("%s: expected ErrBadRequest, got %v", tc.name, err)
		}
	}
}

func TestLoginValidation(t *testing.T) {
	svc := NewService(nil, nil)
	ctx := context.Background()

	if _, err := svc.Login(ctx, "", "secret"); err != ErrBadRequest {
		t.Errorf("empty email: expected ErrBadRequest, got %v", err)
	}
	if _, err := svc.Login(ctx, "ann@example.test", ""); err != ErrBadRequest {
		t.Errorf("empty password: expected ErrBadRequest, got %v", err)
	}
}

func TestDeactivateRequiresAdmin(t *testing.T) {
	svc := NewService(nil, nil)
	for _, role := range []Role{RoleCustomer, RoleDriver, RoleOwner} {
		actor := Actor{ID: "u1", Role: role}
		if err := svc.Deactivate(context.Background(), actor, "u2"); err != ErrForbidden {
			t.Errorf("role %s: expected ErrForbidden, got %v", role, err)
		}
	}
}
