// README: Booking handler tests for auth and request parsing.
package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"fleetrent/internal/http/handlers"
	"fleetrent/internal/http/middleware"
	"fleetrent/internal/infra"
	"fleetrent/internal/modules/booking"
)

// stubVerifier is a test double for infra.TokenVerifier.
type stubVerifier struct {
	token *infra.AccessToken
	err   error
}

func (s *stubVerifier) VerifyToken(_ context.Context, _ string) (*infra.AccessToken, error) {
	return s.token, s.err
}

// buildTestRouter wires a minimal engine with the auth middleware and
// the booking handler. booking.NewService(nil, nil) is safe here
// because every request below is rejected before any store call.
func buildTestRouter(verifier infra.TokenVerifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.Auth(verifier))
	h := handlers.NewBookingHandler(booking.NewService(nil, nil))
	r.POST("/api/bookings", h.Create)
	r.PATCH("/api/bookings/:id/status", h.UpdateStatus)
	r.POST("/api/bookings/:id/cancel", h.Cancel)
	return r
}

func doRequest(r *gin.Engine, method, path, body, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreate_Unauthenticated(t *testing.T) {
	r := buildTestRouter(&stubVerifier{err: errors.New("no token")})
	w := doRequest(r, http.MethodPost, "/api/bookings",
		`{"vehicle_id":"v1"}`, "Bearer badtoken")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestCreate_MissingHeader(t *testing.T) {
	r := buildTestRouter(&stubVerifier{token: &infra.AccessToken{UID: "u1", Role: "customer"}})
	w := doRequest(r, http.MethodPost, "/api/bookings", `{"vehicle_id":"v1"}`, "")
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestCreate_MalformedBody(t *testing.T) {
	r := buildTestRouter(&stubVerifier{token: &infra.AccessToken{UID: "u1", Role: "customer"}})
	w := doRequest(r, http.MethodPost, "/api/bookings", `{not json`, "Bearer sometoken")
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestUpdateStatus_MalformedBody(t *testing.T) {
	r := buildTestRouter(&stubVerifier{token: &infra.AccessToken{UID: "u1", Role: "customer"}})
	w := doRequest(r, http.MethodPatch, "/api/bookings/b1/status", `"pending"`, "Bearer sometoken")
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}
