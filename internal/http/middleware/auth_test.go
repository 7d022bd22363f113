// README: Auth middleware tests with a stub verifier.
package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"fleetrent/internal/http/middleware"
	"fleetrent/internal/infra"
)

// stubVerifier is a test double for infra.TokenVerifier.
type stubVerifier struct {
	token *infra.AccessToken
	err   error
}

func (s *stubVerifier) VerifyToken(_ context.Context, _ string) (*infra.AccessToken, error) {
	return s.token, s.err
}

func buildRouter(verifier infra.TokenVerifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.Auth(verifier))
	r.GET("/whoami", func(c *gin.Context) {
		actor := middleware.Caller(c)
		c.JSON(http.StatusOK, gin.H{"uid": actor.ID, "role": actor.Role})
	})
	return r
}

func doGet(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuth_MissingHeader(t *testing.T) {
	r := buildRouter(&stubVerifier{token: &infra.AccessToken{UID: "u1", Role: "customer"}})
	if w := doGet(r, ""); w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAuth_MalformedHeader(t *testing.T) {
	r := buildRouter(&stubVerifier{token: &infra.AccessToken{UID: "u1", Role: "customer"}})
	for _, header := range []string{"Basic abc", "Bearer", "Bearer "} {
		if w := doGet(r, header); w.Code != http.StatusUnauthorized {
			t.Errorf("header %q: expected 401, got %d", header, w.Code)
		}
	}
}

func TestAuth_RejectedToken(t *testing.T) {
	r := buildRouter(&stubVerifier{err: errors.New("expired")})
	if w := doGet(r, "Bearer sometoken"); w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAuth_ValidToken(t *testing.T) {
	r := buildRouter(&stubVerifier{token: &infra.AccessToken{UID: "u1", Role: "owner"}})
	w := doGet(r, "Bearer sometoken")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{`"uid":"u1"`, `"role":"owner"`} {
		if !strings.Contains(body, want) {
			t.Errorf("expected body to contain %s, got %s", want, body)
		}
	}
}
