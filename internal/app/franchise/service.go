package franchise

import (
	"context"
	"errors"
	"strings"

	"pizza-service/internal/store"

	"github.com/rs/zerolog/log"
)

type Service struct {
	store *store.Store
}

func NewService(st *store.Store) *Service {
	return &Service{store: st}
}

// List returns all franchises. Admins also see franchise admins and store revenue.
func (s *Service) List(ctx context.Context, actor *store.User) ([]store.Franchise, error) {
	return s.store.GetFranchises(ctx, actor.HasRole(store.RoleAdmin))
}

// ListForUser returns the franchises userID administers. Callers other than the
// user themselves or an admin get an empty list.
func (s *Service) ListForUser(ctx context.Context, actor *store.User, userID string) ([]store.Franchise, error) {
	if actor == nil || (actor.ID != userID && !actor.HasRole(store.RoleAdmin)) {
		return []store.Franchise{}, nil
	}
	return s.store.GetUserFranchises(ctx, userID)
}

func (s *Service) Create(ctx context.Context, actor *store.User, req CreateFranchiseRequest) (*store.Franchise, error) {
	if !actor.HasRole(store.RoleAdmin) {
		return nil, ErrForbidden
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrInvalidRequest
	}
	emails := make([]string, 0, len(req.Admins))
	for _, a := range req.Admins {
		if strings.TrimSpace(a.Email) == "" {
			return nil, ErrInvalidRequest
		}
		emails = append(emails, a.Email)
	}
	f, err := s.store.CreateFranchise(ctx, name, emails)
	switch {
	case errors.Is(err, store.ErrUnknownUser):
		return nil, ErrUnknownAdmin
	case errors.Is(err, store.ErrDuplicate):
		return nil, ErrNameTaken
	case err != nil:
		return nil, err
	}
	log.Info().Str("franchise_id", f.ID).Str("user_id", actor.ID).Msg("franchise created")
	return f, nil
}

func (s *Service) Delete(ctx context.Context, actor *store.User, franchiseID string) (*MessageResponse, error) {
	if !actor.HasRole(store.RoleAdmin) {
		return nil, ErrForbidden
	}
	if err := s.store.DeleteFranchise(ctx, franchiseID); err != nil {
		return nil, err
	}
	log.Info().Str("franchise_id", franchiseID).Str("user_id", actor.ID).Msg("franchise deleted")
	return &MessageResponse{Message: "franchise deleted"}, nil
}

func (s *Service) CreateStore(ctx context.Context, actor *store.User, franchiseID string, req CreateStoreRequest) (*store.PizzaStore, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrInvalidRequest
	}
	if err := s.authorizeStoreChange(ctx, actor, franchiseID); err != nil {
		return nil, err
	}
	return s.store.CreateStore(ctx, franchiseID, strings.TrimSpace(req.Name))
}

func (s *Service) DeleteStore(ctx context.Context, actor *store.User, franchiseID, storeID string) (*MessageResponse, error) {
	if err := s.authorizeStoreChange(ctx, actor, franchiseID); err != nil {
		return nil, err
	}
	err := s.store.DeleteStore(ctx, franchiseID, storeID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrStoreNotFound
	}
	if err != nil {
		return nil, err
	}
	return &MessageResponse{Message: "store deleted"}, nil
}

// authorizeStoreChange allows admins and the franchise's own admins.
func (s *Service) authorizeStoreChange(ctx context.Context, actor *store.User, franchiseID string) error {
	if actor == nil {
		return ErrForbidden
	}
	f, err := s.store.GetFranchise(ctx, franchiseID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrFranchiseNotFound
	}
	if err != nil {
		return err
	}
	if !actor.HasRole(store.RoleAdmin) && !f.IsAdmin(actor.ID) {
		return ErrForbidden
	}
	return nil
}
