package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/vasiliy-maslov/storefront-service/internal/db"
	"github.com/vasiliy-maslov/storefront-service/internal/store"
)

type Repository interface {
	// Place inserts o and deletes the caller's cart entries it references as
	// one atomic unit.
	Place(ctx context.Context, o *Order) (PlaceResult, error)
	ListAll(ctx context.Context) ([]Order, error)
	GetByID(ctx context.Context, id string) (*Order, error)
	// ListByEmail returns orders of email whose status is Delivered when
	// delivered is set, and every other order otherwise.
	ListByEmail(ctx context.Context, email string, delivered bool) ([]Order, error)
	// UpdateStatus never changes an order that is already Delivered.
	UpdateStatus(ctx context.Context, orderID string, status Status) (store.UpdateResult, error)
	DeleteByOrderID(ctx context.Context, orderID string) (store.DeleteResult, error)
}

type postgresRepository struct {
	db db.TxBeginner
}

func NewRepository(b db.TxBeginner) Repository {
	return &postgresRepository{db: b}
}

const orderColumns = `id, order_id, email, name, phone, address, order_info, total, status, created_at, updated_at`

func (r *postgresRepository) Place(ctx context.Context, o *Order) (PlaceResult, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return PlaceResult{}, fmt.Errorf("repository: failed to generate order id: %w", err)
	}

	info, err := json.Marshal(o.OrderInfo)
	if err != nil {
		return PlaceResult{}, fmt.Errorf("repository: failed to encode order info: %w", err)
	}

	now := time.Now().UTC()
	var deleted int64

	err = db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		query := `
			INSERT INTO orders (` + orderColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		`
		if _, err := tx.Exec(ctx, query,
			id, o.OrderID, o.Email, o.Name, o.Phone, o.Address, info, o.Total, string(o.Status), now, now,
		); err != nil {
			return fmt.Errorf("repository: failed to insert order %s: %w", o.OrderID, err)
		}

		cmdTag, err := tx.Exec(ctx,
			`DELETE FROM carts WHERE email = $1 AND id::text = ANY($2)`,
			o.Email, o.CartIDs())
		if err != nil {
			return fmt.Errorf("repository: failed to delete cart entries of order %s: %w", o.OrderID, err)
		}
		deleted = cmdTag.RowsAffected()
		return nil
	})
	if err != nil {
		return PlaceResult{}, err
	}

	o.ID = id.String()
	o.CreatedAt = now
	o.UpdatedAt = now

	return PlaceResult{InsertedID: o.ID, OrderID: o.OrderID, DeletedCount: deleted}, nil
}

func (r *postgresRepository) ListAll(ctx context.Context) ([]Order, error) {
	return r.query(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC`)
}

func (r *postgresRepository) GetByID(ctx context.Context, id string) (*Order, error) {
	oid, err := uuid.FromString(id)
	if err != nil {
		return nil, store.ErrNotFound
	}

	o, err := scanOrder(r.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, oid))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to select order %s: %w", id, err)
	}
	return o, nil
}

func (r *postgresRepository) ListByEmail(ctx context.Context, email string, delivered bool) ([]Order, error) {
	op := "<>"
	if delivered {
		op = "="
	}
	query := `SELECT ` + orderColumns + ` FROM orders WHERE email = $1 AND status ` + op + ` $2 ORDER BY created_at DESC`
	return r.query(ctx, query, email, string(StatusDelivered))
}

func (r *postgresRepository) UpdateStatus(ctx context.Context, orderID string, status Status) (store.UpdateResult, error) {
	query := `
		UPDATE orders
		SET status = $1, updated_at = $2
		WHERE order_id = $3 AND status <> $4
	`
	cmdTag, err := r.db.Exec(ctx, query, string(status), time.Now().UTC(), orderID, string(StatusDelivered))
	if err != nil {
		return store.UpdateResult{}, fmt.Errorf("repository: failed to update status of order %s: %w", orderID, err)
	}

	affected := cmdTag.RowsAffected()
	return store.UpdateResult{MatchedCount: affected, ModifiedCount: affected}, nil
}

func (r *postgresRepository) DeleteByOrderID(ctx context.Context, orderID string) (store.DeleteResult, error) {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM orders WHERE order_id = $1`, orderID)
	if err != nil {
		return store.DeleteResult{}, fmt.Errorf("repository: failed to delete order %s: %w", orderID, err)
	}
	return store.DeleteResult{DeletedCount: cmdTag.RowsAffected()}, nil
}

func (r *postgresRepository) query(ctx context.Context, sql string, args ...any) ([]Order, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := make([]Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan order: %w", err)
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: failed iterating orders: %w", err)
	}

	return orders, nil
}

func scanOrder(row pgx.Row) (*Order, error) {
	var (
		o      Order
		id     uuid.UUID
		info   []byte
		status string
	)
	err := row.Scan(&id, &o.OrderID, &o.Email, &o.Name, &o.Phone, &o.Address, &info, &o.Total, &status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(info, &o.OrderInfo); err != nil {
		return nil, fmt.Errorf("failed to decode order info: %w", err)
	}
	o.ID = id.String()
	o.Status = Status(status)
	return &o, nil
}
