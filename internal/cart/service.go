package cart

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/vasiliy-maslov/storefront-service/internal/store"
)

const msgEntryExists = "product already in cart"

type Service interface {
	ListCart(ctx context.Context, email string) ([]Entry, error)
	AddToCart(ctx context.Context, e *Entry) (store.InsertResult, error)
	RemoveFromCart(ctx context.Context, id string) (store.DeleteResult, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) ListCart(ctx context.Context, email string) ([]Entry, error) {
	entries, err := s.repo.ListByEmail(ctx, email)
	if err != nil {
		log.Error().Err(err).Str("email", email).Msg("service: failed to list cart")
		return nil, fmt.Errorf("service: failed to list cart: %w", err)
	}
	return entries, nil
}

// AddToCart inserts e unless the user already holds the same product in the
// same size. The check and the insert are separate statements.
func (s *service) AddToCart(ctx context.Context, e *Entry) (store.InsertResult, error) {
	e.Email = strings.TrimSpace(e.Email)
	if e.Quantity <= 0 {
		e.Quantity = 1
	}

	exists, err := s.repo.Exists(ctx, e.Email, e.ProductID, e.Size)
	if err != nil {
		log.Error().Err(err).Str("email", e.Email).Msg("service: failed to check cart entry")
		return store.InsertResult{}, fmt.Errorf("service: failed to add to cart: %w", err)
	}
	if exists {
		log.Debug().Str("email", e.Email).Str("product_id", e.ProductID).Str("size", e.Size).Msg("service: cart entry already present")
		return store.NotInserted(msgEntryExists), nil
	}

	id, err := s.repo.Create(ctx, e)
	if err != nil {
		log.Error().Err(err).Str("email", e.Email).Msg("service: failed to create cart entry")
		return store.InsertResult{}, fmt.Errorf("service: failed to add to cart: %w", err)
	}
	return store.Inserted(id), nil
}

func (s *service) RemoveFromCart(ctx context.Context, id string) (store.DeleteResult, error) {
	res, err := s.repo.Delete(ctx, id)
	if err != nil {
		log.Error().Err(err).Str("cart_id", id).Msg("service: failed to delete cart entry")
		return store.DeleteResult{}, fmt.Errorf("service: failed to remove from cart: %w", err)
	}
	return res, nil
}
