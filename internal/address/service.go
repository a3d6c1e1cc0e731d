package address

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/vasiliy-maslov/storefront-service/internal/store"
)

type Service interface {
	GetAddress(ctx context.Context, email string) (*Address, error)
	SaveAddress(ctx context.Context, email string, fields Fields) (store.UpdateResult, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetAddress(ctx context.Context, email string) (*Address, error) {
	a, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, store.ErrNotFound
		}
		log.Error().Err(err).Str("email", email).Msg("service: failed to get address")
		return nil, fmt.Errorf("service: failed to get address: %w", err)
	}
	return a, nil
}

func (s *service) SaveAddress(ctx context.Context, email string, fields Fields) (store.UpdateResult, error) {
	if fields.IsEmpty() {
		return store.UpdateResult{}, store.ErrEmptyUpdate
	}

	res, err := s.repo.Upsert(ctx, email, fields)
	if err != nil {
		log.Error().Err(err).Str("email", email).Msg("service: failed to upsert address")
		return store.UpdateResult{}, fmt.Errorf("service: failed to save address: %w", err)
	}

	log.Debug().Str("email", email).Bool("created", res.UpsertedID != nil).Msg("service: address saved")
	return res, nil
}
