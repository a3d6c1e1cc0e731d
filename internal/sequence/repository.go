package sequence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/vasiliy-maslov/storefront-service/internal/db"
	"github.com/vasiliy-maslov/storefront-service/internal/store"
)

type Repository interface {
	Get(ctx context.Context, kind Kind, id string) (*Record, error)
	Update(ctx context.Context, kind Kind, id string, value int64) (store.UpdateResult, error)
}

type postgresRepository struct {
	db db.Querier
}

func NewRepository(q db.Querier) Repository {
	return &postgresRepository{db: q}
}

func (r *postgresRepository) Get(ctx context.Context, kind Kind, id string) (*Record, error) {
	sid, err := uuid.FromString(id)
	if err != nil {
		return nil, store.ErrNotFound
	}

	var (
		rec     Record
		rowID   uuid.UUID
		rowKind string
	)
	err = r.db.QueryRow(ctx,
		`SELECT id, kind, value, updated_at FROM sequences WHERE id = $1 AND kind = $2`,
		sid, string(kind),
	).Scan(&rowID, &rowKind, &rec.Value, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to select %s sequence %s: %w", kind, id, err)
	}
	rec.ID = rowID.String()
	rec.Kind = Kind(rowKind)

	return &rec, nil
}

func (r *postgresRepository) Update(ctx context.Context, kind Kind, id string, value int64) (store.UpdateResult, error) {
	sid, err := uuid.FromString(id)
	if err != nil {
		return store.UpdateResult{}, nil
	}

	cmdTag, err := r.db.Exec(ctx,
		`UPDATE sequences SET value = $1, updated_at = $2 WHERE id = $3 AND kind = $4`,
		value, time.Now().UTC(), sid, string(kind))
	if err != nil {
		return store.UpdateResult{}, fmt.Errorf("repository: failed to update %s sequence %s: %w", kind, id, err)
	}

	affected := cmdTag.RowsAffected()
	return store.UpdateResult{MatchedCount: affected, ModifiedCount: affected}, nil
}
