package product

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/vasiliy-maslov/storefront-service/internal/store"
)

// Sample sizes of the browsing endpoints.
const (
	RandomSampleSize  = 8
	RelatedSampleSize = 6
)

type Service interface {
	CreateProduct(ctx context.Context, p *Product) (store.InsertResult, error)
	GetProduct(ctx context.Context, id string) (*Product, error)
	ListProducts(ctx context.Context, filter Filter) ([]Product, error)
	ListRelated(ctx context.Context, category, excludeID string) ([]Product, error)
	CountProducts(ctx context.Context) (int64, error)
	RandomProducts(ctx context.Context) ([]Product, error)
	RandomRelated(ctx context.Context, gender, excludeID string) ([]Product, error)
	UpdateProduct(ctx context.Context, id string, fields UpdateFields) (store.UpdateResult, error)
	DeleteProduct(ctx context.Context, id string) (store.DeleteResult, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateProduct(ctx context.Context, p *Product) (store.InsertResult, error) {
	id, err := s.repo.Create(ctx, p)
	if err != nil {
		log.Error().Err(err).Str("title", p.Title).Msg("service: failed to create product")
		return store.InsertResult{}, fmt.Errorf("service: failed to create product: %w", err)
	}

	log.Info().Str("product_id", id).Msg("service: product created")
	return store.Inserted(id), nil
}

func (s *service) GetProduct(ctx context.Context, id string) (*Product, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, store.ErrNotFound
		}
		log.Error().Err(err).Str("product_id", id).Msg("service: failed to get product")
		return nil, fmt.Errorf("service: failed to get product: %w", err)
	}
	return p, nil
}

// ListProducts degrades to an empty list when a free-text search fails;
// other failures are returned.
func (s *service) ListProducts(ctx context.Context, filter Filter) ([]Product, error) {
	products, err := s.repo.List(ctx, filter)
	if err != nil {
		if filter.Search != "" {
			log.Warn().Err(err).Str("search", filter.Search).Msg("service: product search failed, returning empty result")
			return []Product{}, nil
		}
		log.Error().Err(err).Msg("service: failed to list products")
		return nil, fmt.Errorf("service: failed to list products: %w", err)
	}
	return products, nil
}

func (s *service) ListRelated(ctx context.Context, category, excludeID string) ([]Product, error) {
	return s.ListProducts(ctx, Filter{Category: category, ExcludeID: excludeID})
}

func (s *service) CountProducts(ctx context.Context) (int64, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		log.Error().Err(err).Msg("service: failed to count products")
		return 0, fmt.Errorf("service: failed to count products: %w", err)
	}
	return n, nil
}

func (s *service) RandomProducts(ctx context.Context) ([]Product, error) {
	return s.sample(ctx, RandomSampleSize, Filter{})
}

func (s *service) RandomRelated(ctx context.Context, gender, excludeID string) ([]Product, error) {
	return s.sample(ctx, RelatedSampleSize, Filter{Gender: gender, ExcludeID: excludeID})
}

// sample never returns more than n products or the excluded one, whatever
// the backend hands back.
func (s *service) sample(ctx context.Context, n int, filter Filter) ([]Product, error) {
	products, err := s.repo.Sample(ctx, n, filter)
	if err != nil {
		log.Error().Err(err).Int("size", n).Msg("service: failed to sample products")
		return nil, fmt.Errorf("service: failed to sample products: %w", err)
	}

	out := make([]Product, 0, n)
	for _, p := range products {
		if len(out) == n {
			break
		}
		if filter.ExcludeID != "" && p.ID == filter.ExcludeID {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *service) UpdateProduct(ctx context.Context, id string, fields UpdateFields) (store.UpdateResult, error) {
	if fields.IsEmpty() {
		return store.UpdateResult{}, store.ErrEmptyUpdate
	}

	res, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		log.Error().Err(err).Str("product_id", id).Msg("service: failed to update product")
		return store.UpdateResult{}, fmt.Errorf("service: failed to update product: %w", err)
	}
	return res, nil
}

func (s *service) DeleteProduct(ctx context.Context, id string) (store.DeleteResult, error) {
	res, err := s.repo.Delete(ctx, id)
	if err != nil {
		log.Error().Err(err).Str("product_id", id).Msg("service: failed to delete product")
		return store.DeleteResult{}, fmt.Errorf("service: failed to delete product: %w", err)
	}

	log.Info().Str("product_id", id).Int64("deleted", res.DeletedCount).Msg("service: product delete processed")
	return res, nil
}
