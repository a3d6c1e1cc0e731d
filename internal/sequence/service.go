package sequence

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/vasiliy-maslov/storefront-service/internal/store"
)

type Service interface {
	GetRecord(ctx context.Context, kind Kind, id string) (*Record, error)
	SetValue(ctx context.Context, kind Kind, id string, value int64) (store.UpdateResult, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetRecord(ctx context.Context, kind Kind, id string) (*Record, error) {
	if !kind.Valid() {
		return nil, ErrInvalidKind
	}

	rec, err := s.repo.Get(ctx, kind, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, store.ErrNotFound
		}
		log.Error().Err(err).Str("kind", string(kind)).Str("id", id).Msg("service: failed to get sequence record")
		return nil, fmt.Errorf("service: failed to get sequence record: %w", err)
	}
	return rec, nil
}

func (s *service) SetValue(ctx context.Context, kind Kind, id string, value int64) (store.UpdateResult, error) {
	if !kind.Valid() {
		return store.UpdateResult{}, ErrInvalidKind
	}

	res, err := s.repo.Update(ctx, kind, id, value)
	if err != nil {
		log.Error().Err(err).Str("kind", string(kind)).Str("id", id).Msg("service: failed to update sequence record")
		return store.UpdateResult{}, fmt.Errorf("service: failed to update sequence record: %w", err)
	}

	log.Debug().Str("kind", string(kind)).Str("id", id).Int64("value", value).Msg("service: sequence record updated")
	return res, nil
}
