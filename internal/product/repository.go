package product

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/vasiliy-maslov/storefront-service/internal/db"
	"github.com/vasiliy-maslov/storefront-service/internal/store"
)

type Repository interface {
	Create(ctx context.Context, p *Product) (string, error)
	Get(ctx context.Context, id string) (*Product, error)
	List(ctx context.Context, filter Filter) ([]Product, error)
	Count(ctx context.Context) (int64, error)
	// Sample returns up to n randomly chosen products matching filter.
	// Search and Category are ignored.
	Sample(ctx context.Context, n int, filter Filter) ([]Product, error)
	Update(ctx context.Context, id string, fields UpdateFields) (store.UpdateResult, error)
	Delete(ctx context.Context, id string) (store.DeleteResult, error)
}

type postgresRepository struct {
	db db.Querier
}

func NewRepository(q db.Querier) Repository {
	return &postgresRepository{db: q}
}

const productColumns = `id, title, description, gender, category, price, image, qty_s, qty_m, qty_l, qty_xl, created_at, updated_at`

func (r *postgresRepository) Create(ctx context.Context, p *Product) (string, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return "", fmt.Errorf("repository: failed to generate product id: %w", err)
	}

	now := time.Now().UTC()
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err = r.db.Exec(ctx, query,
		id, p.Title, p.Description, p.Gender, p.Category, p.Price, p.Image,
		p.Quantity.S, p.Quantity.M, p.Quantity.L, p.Quantity.XL, now, now)
	if err != nil {
		return "", fmt.Errorf("repository: failed to insert product: %w", err)
	}

	p.ID = id.String()
	p.CreatedAt = now
	p.UpdatedAt = now
	return p.ID, nil
}

func (r *postgresRepository) Get(ctx context.Context, id string) (*Product, error) {
	pid, err := uuid.FromString(id)
	if err != nil {
		return nil, store.ErrNotFound
	}

	p, err := scanProduct(r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, pid))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to select product %s: %w", id, err)
	}
	return p, nil
}

func (r *postgresRepository) List(ctx context.Context, filter Filter) ([]Product, error) {
	where, args := whereClause(filter)
	return r.query(ctx, `SELECT `+productColumns+` FROM products`+where+` ORDER BY created_at`, args...)
}

func (r *postgresRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&n); err != nil {
		return 0, fmt.Errorf("repository: failed to count products: %w", err)
	}
	return n, nil
}

func (r *postgresRepository) Sample(ctx context.Context, n int, filter Filter) ([]Product, error) {
	where, args := whereClause(Filter{Gender: filter.Gender, ExcludeID: filter.ExcludeID})
	args = append(args, n)
	query := `SELECT ` + productColumns + ` FROM products` + where +
		` ORDER BY random() LIMIT $` + strconv.Itoa(len(args))
	return r.query(ctx, query, args...)
}

func (r *postgresRepository) Update(ctx context.Context, id string, fields UpdateFields) (store.UpdateResult, error) {
	pid, err := uuid.FromString(id)
	if err != nil {
		return store.UpdateResult{}, nil
	}

	var set db.SetClause
	if fields.Title != nil {
		set.Add("title", *fields.Title)
	}
	if fields.Description != nil {
		set.Add("description", *fields.Description)
	}
	if fields.Gender != nil {
		set.Add("gender", *fields.Gender)
	}
	if fields.Category != nil {
		set.Add("category", *fields.Category)
	}
	if fields.Price != nil {
		set.Add("price", *fields.Price)
	}
	if fields.Image != nil {
		set.Add("image", *fields.Image)
	}
	if fields.Quantity != nil {
		set.Add("qty_s", fields.Quantity.S)
		set.Add("qty_m", fields.Quantity.M)
		set.Add("qty_l", fields.Quantity.L)
		set.Add("qty_xl", fields.Quantity.XL)
	}
	if set.Len() == 0 {
		return store.UpdateResult{}, store.ErrEmptyUpdate
	}
	set.Add("updated_at", time.Now().UTC())

	assignments, _ := set.SQL()
	where := set.Next(pid)
	_, args := set.SQL()

	cmdTag, err := r.db.Exec(ctx, `UPDATE products SET `+assignments+` WHERE id = `+where, args...)
	if err != nil {
		return store.UpdateResult{}, fmt.Errorf("repository: failed to update product %s: %w", id, err)
	}

	affected := cmdTag.RowsAffected()
	return store.UpdateResult{MatchedCount: affected, ModifiedCount: affected}, nil
}

func (r *postgresRepository) Delete(ctx context.Context, id string) (store.DeleteResult, error) {
	pid, err := uuid.FromString(id)
	if err != nil {
		return store.DeleteResult{}, nil
	}

	cmdTag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, pid)
	if err != nil {
		return store.DeleteResult{}, fmt.Errorf("repository: failed to delete product %s: %w", id, err)
	}
	return store.DeleteResult{DeletedCount: cmdTag.RowsAffected()}, nil
}

func (r *postgresRepository) query(ctx context.Context, sql string, args ...any) ([]Product, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query products: %w", err)
	}
	defer rows.Close()

	products := make([]Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan product: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: failed iterating products: %w", err)
	}

	return products, nil
}

// whereClause renders filter as a WHERE clause with positional arguments.
// The excluded id is compared as text so a malformed id excludes nothing.
func whereClause(filter Filter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, strings.ReplaceAll(cond, "?", "$"+strconv.Itoa(len(args))))
	}

	if filter.Search != "" {
		add("title ILIKE ?", store.LikePattern(filter.Search))
	}
	if filter.Category != "" {
		add("category = ?", filter.Category)
	}
	if filter.Gender != "" {
		add("gender = ?", filter.Gender)
	}
	if filter.ExcludeID != "" {
		add("id::text <> ?", filter.ExcludeID)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func scanProduct(row pgx.Row) (*Product, error) {
	var (
		p  Product
		id uuid.UUID
	)
	err := row.Scan(&id, &p.Title, &p.Description, &p.Gender, &p.Category, &p.Price, &p.Image,
		&p.Quantity.S, &p.Quantity.M, &p.Quantity.L, &p.Quantity.XL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	p.ID = id.String()
	return &p, nil
}
