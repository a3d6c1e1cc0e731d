package order

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
	"github.com/vasiliy-maslov/storefront-service/internal/store"
)

var (
	ErrEmptyOrder    = errors.New("order has no line items")
	ErrMissingEmail  = errors.New("order has no email")
	ErrInvalidStatus = errors.New("status must not be empty")
)

type Service interface {
	PlaceOrder(ctx context.Context, o *Order) (PlaceResult, error)
	ListOrders(ctx context.Context) ([]Order, error)
	GetOrder(ctx context.Context, id string) (*Order, error)
	ListPending(ctx context.Context, email string) ([]Order, error)
	ListDelivered(ctx context.Context, email string) ([]Order, error)
	UpdateStatus(ctx context.Context, orderID string, status Status) (store.UpdateResult, error)
	DeleteOrder(ctx context.Context, orderID string) (store.DeleteResult, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// PlaceOrder fills in the defaults of a new order and stores it together
// with the removal of its cart entries.
func (s *service) PlaceOrder(ctx context.Context, o *Order) (PlaceResult, error) {
	o.Email = strings.TrimSpace(o.Email)
	if o.Email == "" {
		return PlaceResult{}, ErrMissingEmail
	}
	if len(o.OrderInfo) == 0 {
		return PlaceResult{}, ErrEmptyOrder
	}

	if o.OrderID == "" {
		id, err := uuid.NewV4()
		if err != nil {
			return PlaceResult{}, fmt.Errorf("service: failed to generate order id: %w", err)
		}
		o.OrderID = id.String()
	}
	o.Status = StatusCreated
	if o.Total.IsZero() {
		o.Total = o.Subtotal()
	}

	res, err := s.repo.Place(ctx, o)
	if err != nil {
		log.Error().Err(err).Str("order_id", o.OrderID).Str("email", o.Email).Msg("service: failed to place order")
		return PlaceResult{}, fmt.Errorf("service: failed to place order: %w", err)
	}

	log.Info().
		Str("order_id", res.OrderID).
		Str("email", o.Email).
		Int("line_items", len(o.OrderInfo)).
		Int64("cart_entries_removed", res.DeletedCount).
		Msg("service: order placed")
	return res, nil
}

func (s *service) ListOrders(ctx context.Context) ([]Order, error) {
	orders, err := s.repo.ListAll(ctx)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to list orders")
		return nil, fmt.Errorf("service: failed to list orders: %w", err)
	}
	return orders, nil
}

func (s *service) GetOrder(ctx context.Context, id string) (*Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, store.ErrNotFound
		}
		log.Error().Err(err).Str("id", id).Msg("service: failed to get order")
		return nil, fmt.Errorf("service: failed to get order: %w", err)
	}
	return o, nil
}

func (s *service) ListPending(ctx context.Context, email string) ([]Order, error) {
	return s.listByEmail(ctx, email, false)
}

func (s *service) ListDelivered(ctx context.Context, email string) ([]Order, error) {
	return s.listByEmail(ctx, email, true)
}

func (s *service) listByEmail(ctx context.Context, email string, delivered bool) ([]Order, error) {
	orders, err := s.repo.ListByEmail(ctx, email, delivered)
	if err != nil {
		log.Error().Err(err).Str("email", email).Bool("delivered", delivered).Msg("service: failed to list orders by email")
		return nil, fmt.Errorf("service: failed to list orders: %w", err)
	}
	return orders, nil
}

func (s *service) UpdateStatus(ctx context.Context, orderID string, status Status) (store.UpdateResult, error) {
	status = Status(strings.TrimSpace(string(status)))
	if status == "" {
		return store.UpdateResult{}, ErrInvalidStatus
	}

	res, err := s.repo.UpdateStatus(ctx, orderID, status)
	if err != nil {
		log.Error().Err(err).Str("order_id", orderID).Str("status", string(status)).Msg("service: failed to update order status")
		return store.UpdateResult{}, fmt.Errorf("service: failed to update order status: %w", err)
	}

	if res.MatchedCount == 0 {
		log.Debug().Str("order_id", orderID).Msg("service: status update matched no open order")
	}
	return res, nil
}

func (s *service) DeleteOrder(ctx context.Context, orderID string) (store.DeleteResult, error) {
	res, err := s.repo.DeleteByOrderID(ctx, orderID)
	if err != nil {
		log.Error().Err(err).Str("order_id", orderID).Msg("service: failed to delete order")
		return store.DeleteResult{}, fmt.Errorf("service: failed to delete order: %w", err)
	}

	log.Info().Str("order_id", orderID).Int64("deleted", res.DeletedCount).Msg("service: order delete processed")
	return res, nil
}
