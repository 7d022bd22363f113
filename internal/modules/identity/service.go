// README: Identity service implements registration, login, and account lifecycle.
package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"fleetrent/internal/types"
)

var (
	ErrNotFound       = errors.New("user not found")
	ErrBadRequest     = errors.New("bad request")
	ErrEmailTaken     = errors.New("email already registered")
	ErrBadCredentials = errors.New("invalid email or password")
	ErrForbidden      = errors.New("forbidden")
)

// TokenIssuer signs an access token for an authenticated user.
type TokenIssuer interface {
	IssueToken(subject, role string) (string, time.Time, error)
}

type Service struct {
	store  *Store
	issuer TokenIssuer
}

func NewService(store *Store, issuer TokenIssuer) *Service {
	return &Service{store: store, issuer: issuer}
}

type RegisterCommand struct {
	Name     string
	Email    string
	Password string
	Role     Role
}

type LoginResult struct {
	User      *User
	Token     string
	ExpiresAt time.Time
}

func (s *Service) Register(ctx context.Context, cmd RegisterCommand) (*User, error) {
	cmd.Email = strings.ToLower(strings.TrimSpace(cmd.Email))
	if cmd.Email == "" || cmd.Name == "" || len(cmd.Password) < 8 {
		return nil, ErrBadRequest
	}
	if cmd.Role == "" {
		cmd.Role = RoleCustomer
	}
	// Admin accounts are provisioned out of band, never self-registered.
	if !ValidRole(cmd.Role) || cmd.Role == RoleAdmin {
		return nil, ErrBadRequest
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &User{
		ID:           types.NewID(),
		Name:         cmd.Name,
		Email:        cmd.Email,
		PasswordHash: string(hash),
		Role:         cmd.Role,
		Active:       true,
		CreatedAt:    time.Now(),
	}
	if err := s.store.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, ErrBadRequest
	}
	u, err := s.store.GetByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrBadCredentials
	}
	if err != nil {
		return nil, err
	}
	if !u.Active {
		return nil, ErrBadCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrBadCredentials
	}
	token, expiresAt, err := s.issuer.IssueToken(string(u.ID), string(u.Role))
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: u, Token: token, ExpiresAt: expiresAt}, nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*User, error) {
	return s.store.Get(ctx, id)
}

// Deactivate soft-deletes a user account. Admin only.
func (s *Service) Deactivate(ctx context.Context, actor Actor, id types.ID) error {
	if !actor.IsAdmin() {
		return ErrForbidden
	}
	return s.store.Deactivate(ctx, id)
}
