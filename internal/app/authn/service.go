package authn

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pizza-service/internal/auth"
	"pizza-service/internal/metrics"
	"pizza-service/internal/store"

	"github.com/rs/zerolog/log"
)

type Service struct {
	store   *store.Store
	issuer  *auth.Issuer
	metrics *metrics.Aggregator
}

func NewService(st *store.Store, issuer *auth.Issuer, agg *metrics.Aggregator) *Service {
	return &Service{store: st, issuer: issuer, metrics: agg}
}

// Register creates a diner account and logs it in.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return nil, ErrInvalidRequest
	}
	u, err := s.store.AddUser(ctx, strings.TrimSpace(req.Name), req.Email, req.Password, nil)
	if errors.Is(err, store.ErrDuplicate) {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, err
	}
	return s.startSession(ctx, u)
}

// Login checks credentials and records the attempt outcome.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		s.metrics.RecordAuthAttempt(false)
		return nil, ErrInvalidRequest
	}
	u, err := s.store.GetUserByCredentials(ctx, req.Email, req.Password)
	if errors.Is(err, store.ErrInvalidCredentials) {
		s.metrics.RecordAuthAttempt(false)
		return nil, ErrUnauthorized
	}
	if err != nil {
		s.metrics.RecordAuthAttempt(false)
		return nil, err
	}
	resp, err := s.startSession(ctx, u)
	s.metrics.RecordAuthAttempt(err == nil)
	return resp, err
}

// RejectMalformedLogin counts a login whose body could not be decoded.
func (s *Service) RejectMalformedLogin() {
	s.metrics.RecordAuthAttempt(false)
}

func (s *Service) Logout(ctx context.Context, token string) error {
	sig := auth.Signature(token)
	if sig == "" {
		return ErrUnauthorized
	}
	return s.store.LogoutUser(ctx, sig)
}

// Authenticate resolves a bearer token to its user. The token must carry a
// valid signature and still be present in the session table.
func (s *Service) Authenticate(ctx context.Context, token string) (*store.User, error) {
	claims, err := s.issuer.Parse(token)
	if err != nil {
		return nil, ErrUnauthorized
	}
	ok, err := s.store.IsLoggedIn(ctx, auth.Signature(token))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUnauthorized
	}
	return claims.User(), nil
}

// UpdateUser lets a user edit their own account; admins may edit anyone.
func (s *Service) UpdateUser(ctx context.Context, actor *store.User, userID string, req UpdateUserRequest) (*AuthResponse, error) {
	if actor == nil {
		return nil, ErrUnauthorized
	}
	if userID == "" {
		return nil, ErrInvalidRequest
	}
	if actor.ID != userID && !actor.HasRole(store.RoleAdmin) {
		return nil, ErrForbidden
	}
	u, err := s.store.UpdateUser(ctx, userID, store.UserUpdate{Name: req.Name, Email: req.Email, Password: req.Password})
	switch {
	case errors.Is(err, store.ErrNotFound):
		return nil, ErrUserNotFound
	case errors.Is(err, store.ErrDuplicate):
		return nil, ErrEmailTaken
	case err != nil:
		return nil, err
	}
	return s.startSession(ctx, u)
}

// EnsureAdmin creates the admin account unless the email is already taken.
func (s *Service) EnsureAdmin(ctx context.Context, name, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	_, err := s.store.AddUser(ctx, name, email, password, []store.Role{{Role: store.RoleAdmin}})
	if errors.Is(err, store.ErrDuplicate) {
		log.Debug().Str("email", email).Msg("admin account already present")
		return nil
	}
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	log.Info().Str("email", email).Msg("admin account created")
	return nil
}

func (s *Service) startSession(ctx context.Context, u *store.User) (*AuthResponse, error) {
	token, err := s.issuer.Issue(u)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	if err := s.store.LoginUser(ctx, u.ID, auth.Signature(token)); err != nil {
		return nil, err
	}
	return &AuthResponse{User: u, Token: token}, nil
}
