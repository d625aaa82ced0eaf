package order

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pizza-service/internal/factory"
	"pizza-service/internal/metrics"
	"pizza-service/internal/store"

	"github.com/rs/zerolog/log"
)

// Fulfiller hands a stored order to the pizza factory.
type Fulfiller interface {
	Fulfill(ctx context.Context, diner factory.Diner, order *store.Order) (*factory.Receipt, error)
}

type Service struct {
	store   *store.Store
	factory Fulfiller
	metrics *metrics.Aggregator
}

// NewService builds the order service. A nil fulfiller accepts every stored
// order without a factory round trip.
func NewService(st *store.Store, f Fulfiller, agg *metrics.Aggregator) *Service {
	return &Service{store: st, factory: f, metrics: agg}
}

func (s *Service) Menu(ctx context.Context) ([]store.MenuItem, error) {
	return s.store.GetMenu(ctx)
}

// AddMenuItem stores the item and returns the full menu.
func (s *Service) AddMenuItem(ctx context.Context, actor *store.User, req AddMenuItemRequest) ([]store.MenuItem, error) {
	if !actor.HasRole(store.RoleAdmin) {
		return nil, ErrForbidden
	}
	if strings.TrimSpace(req.Title) == "" || req.Price < 0 {
		return nil, ErrInvalidRequest
	}
	item, err := s.store.AddMenuItem(ctx, store.MenuItem{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Image:       req.Image,
		Price:       req.Price,
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("menu_id", item.ID).Str("user_id", actor.ID).Msg("menu item added")
	return s.store.GetMenu(ctx)
}

func (s *Service) Orders(ctx context.Context, actor *store.User, page int) (*store.OrderPage, error) {
	if actor == nil {
		return nil, ErrUnauthorized
	}
	return s.store.GetOrders(ctx, actor.ID, page)
}

// Create prices the order from the menu, stores it and sends it to the factory.
// Client supplied prices are ignored.
func (s *Service) Create(ctx context.Context, actor *store.User, req CreateOrderRequest) (*CreateOrderResponse, error) {
	if actor == nil {
		return nil, ErrUnauthorized
	}
	if req.FranchiseID == "" || req.StoreID == "" {
		return nil, ErrInvalidRequest
	}
	menu, err := s.store.GetMenu(ctx)
	if err != nil {
		return nil, err
	}
	prices := make(map[string]float64, len(menu))
	for _, m := range menu {
		prices[m.ID] = m.Price
	}
	items := make([]store.OrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		price, ok := prices[it.MenuID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrInvalidMenuItem, it.MenuID)
		}
		items = append(items, store.OrderItem{MenuID: it.MenuID, Description: it.Description, Price: price})
	}

	stored, err := s.store.AddDinerOrder(ctx, actor.ID, store.Order{FranchiseID: req.FranchiseID, StoreID: req.StoreID, Items: items})
	if err != nil {
		s.metrics.RecordOrder(nil, false)
		return nil, err
	}
	if s.factory == nil {
		s.metrics.RecordOrder(stored, true)
		return &CreateOrderResponse{Order: stored}, nil
	}

	receipt, err := s.factory.Fulfill(ctx, factory.Diner{ID: actor.ID, Name: actor.Name, Email: actor.Email}, stored)
	if err != nil {
		s.metrics.RecordOrder(stored, false)
		log.Error().Err(err).Str("order_id", stored.ID).Str("user_id", actor.ID).Msg("factory fulfillment failed")
		fe := &FactoryError{Order: stored, Err: err}
		var rej *factory.RejectedError
		if errors.As(err, &rej) {
			fe.ReportURL = rej.ReportURL
		}
		return nil, fe
	}
	s.metrics.RecordOrder(stored, true)
	log.Info().Str("order_id", stored.ID).Str("user_id", actor.ID).Int("items", len(stored.Items)).Msg("order fulfilled")
	return &CreateOrderResponse{Order: stored, JWT: receipt.JWT, ReportURL: receipt.ReportURL}, nil
}
