package cart

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/vasiliy-maslov/storefront-service/internal/db"
	"github.com/vasiliy-maslov/storefront-service/internal/store"
)

type Repository interface {
	ListByEmail(ctx context.Context, email string) ([]Entry, error)
	Exists(ctx context.Context, email, productID, size string) (bool, error)
	Create(ctx context.Context, e *Entry) (string, error)
	Delete(ctx context.Context, id string) (store.DeleteResult, error)
}

type postgresRepository struct {
	db db.Querier
}

func NewRepository(q db.Querier) Repository {
	return &postgresRepository{db: q}
}

const entryColumns = `id, email, product_id, title, image, size, price, quantity, created_at`

func (r *postgresRepository) ListByEmail(ctx context.Context, email string) ([]Entry, error) {
	rows, err := r.db.Query(ctx, `SELECT `+entryColumns+` FROM carts WHERE email = $1 ORDER BY created_at`, email)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query cart of %s: %w", email, err)
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan cart entry: %w", err)
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: failed iterating cart entries: %w", err)
	}

	return entries, nil
}

func (r *postgresRepository) Exists(ctx context.Context, email, productID, size string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM carts WHERE email = $1 AND product_id = $2 AND size = $3)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, email, productID, size).Scan(&exists); err != nil {
		return false, fmt.Errorf("repository: failed to check cart entry: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) Create(ctx context.Context, e *Entry) (string, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return "", fmt.Errorf("repository: failed to generate cart entry id: %w", err)
	}

	now := time.Now().UTC()
	query := `
		INSERT INTO carts (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = r.db.Exec(ctx, query, id, e.Email, e.ProductID, e.Title, e.Image, e.Size, e.Price, e.Quantity, now)
	if err != nil {
		return "", fmt.Errorf("repository: failed to insert cart entry: %w", err)
	}

	e.ID = id.String()
	e.CreatedAt = now
	return e.ID, nil
}

func (r *postgresRepository) Delete(ctx context.Context, id string) (store.DeleteResult, error) {
	cid, err := uuid.FromString(id)
	if err != nil {
		return store.DeleteResult{}, nil
	}

	cmdTag, err := r.db.Exec(ctx, `DELETE FROM carts WHERE id = $1`, cid)
	if err != nil {
		return store.DeleteResult{}, fmt.Errorf("repository: failed to delete cart entry %s: %w", id, err)
	}
	return store.DeleteResult{DeletedCount: cmdTag.RowsAffected()}, nil
}

func scanEntry(row pgx.Row) (*Entry, error) {
	var (
		e  Entry
		id uuid.UUID
	)
	if err := row.Scan(&id, &e.Email, &e.ProductID, &e.Title, &e.Image, &e.Size, &e.Price, &e.Quantity, &e.CreatedAt); err != nil {
		return nil, err
	}
	e.ID = id.String()
	return &e, nil
}
