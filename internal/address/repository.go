package address

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/vasiliy-maslov/storefront-service/internal/db"
	"github.com/vasiliy-maslov/storefront-service/internal/store"
)

type Repository interface {
	GetByEmail(ctx context.Context, email string) (*Address, error)
	Upsert(ctx context.Context, email string, fields Fields) (store.UpdateResult, error)
}

type postgresRepository struct {
	db db.Querier
}

func NewRepository(q db.Querier) Repository {
	return &postgresRepository{db: q}
}

func (r *postgresRepository) GetByEmail(ctx context.Context, email string) (*Address, error) {
	query := `
		SELECT id, email, name, house, road, area, city, details, updated_at
		FROM addresses
		WHERE email = $1
	`

	var (
		a  Address
		id uuid.UUID
	)
	err := r.db.QueryRow(ctx, query, email).Scan(&id, &a.Email, &a.Name, &a.House, &a.Road, &a.Area, &a.City, &a.Details, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to select address for %s: %w", email, err)
	}
	a.ID = id.String()

	return &a, nil
}

// Upsert inserts a new address for email or overwrites only the provided
// columns of the existing one. xmax = 0 identifies a freshly inserted row.
func (r *postgresRepository) Upsert(ctx context.Context, email string, fields Fields) (store.UpdateResult, error) {
	newID, err := uuid.NewV4()
	if err != nil {
		return store.UpdateResult{}, fmt.Errorf("repository: failed to generate address id: %w", err)
	}

	cols := []string{"id", "email", "updated_at"}
	args := []any{newID, email, time.Now().UTC()}
	updates := []string{"updated_at = EXCLUDED.updated_at"}

	for _, c := range fields.columns() {
		if c.value == nil {
			continue
		}
		cols = append(cols, c.name)
		args = append(args, *c.value)
		updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", c.name, c.name))
	}

	placeholders := make([]string, len(args))
	for i := range args {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	query := fmt.Sprintf(`
		INSERT INTO addresses (%s)
		VALUES (%s)
		ON CONFLICT (email) DO UPDATE SET %s
		RETURNING id, (xmax = 0) AS inserted
	`, strings.Join(cols, ", "), strings.Join(placeholders, ", "), strings.Join(updates, ", "))

	var (
		id       uuid.UUID
		inserted bool
	)
	if err := r.db.QueryRow(ctx, query, args...).Scan(&id, &inserted); err != nil {
		return store.UpdateResult{}, fmt.Errorf("repository: failed to upsert address for %s: %w", email, err)
	}

	if inserted {
		upserted := id.String()
		return store.UpdateResult{UpsertedID: &upserted}, nil
	}
	return store.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}
