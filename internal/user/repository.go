package user

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

var (
	ErrEmailExists = errors.New("user with this email already exists")
	ErrInvalidRole = errors.New("invalid role")
	ErrForbidden   = errors.New("forbidden")
)

type Repository interface {
	Create(ctx context.Context, user *User) (string, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Search(ctx context.Context, query string) ([]User, error)
	Update(ctx context.Context, email string, fields UpdateFields) (store.UpdateResult, error)
}

type postgresRepository struct {
	db db.Querier
}

func NewRepository(q db.Querier) Repository {
	return &postgresRepository{db: q}
}

const userColumns = `id, email, name, image, number, role, created_at, updated_at`

func (r *postgresRepository) Create(ctx context.Context, user *User) (string, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return "", fmt.Errorf("repository: failed to generate user id: %w", err)
	}

	now := time.Now().UTC()
	query := `
		INSERT INTO users (id, email, name, image, number, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = r.db.Exec(ctx, query, id, user.Email, user.Name, user.Image, user.Number, string(user.Role), now, now)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return "", ErrEmailExists
		}
		return "", fmt.Errorf("repository: failed to insert user: %w", err)
	}

	user.ID = id.String()
	user.CreatedAt = now
	user.UpdatedAt = now

	return user.ID, nil
}

func (r *postgresRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 ORDER BY created_at LIMIT 1`

	user, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to select user by email: %w", err)
	}

	return user, nil
}

func (r *postgresRepository) Search(ctx context.Context, query string) ([]User, error) {
	sql := `
		SELECT ` + userColumns + `
		FROM users
		WHERE name ILIKE $1 OR email ILIKE $1 OR number ILIKE $1
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, sql, store.LikePattern(query))
	if err != nil {
		return nil, fmt.Errorf("repository: failed to search users: %w", err)
	}
	defer rows.Close()

	users := make([]User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("repository: failed to scan user: %w", err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: failed iterating users: %w", err)
	}

	return users, nil
}

func (r *postgresRepository) Update(ctx context.Context, email string, fields UpdateFields) (store.UpdateResult, error) {
	var set db.SetClause
	if fields.Name != nil {
		set.Add("name", *fields.Name)
	}
	if fields.Image != nil {
		set.Add("image", *fields.Image)
	}
	if fields.Number != nil {
		set.Add("number", *fields.Number)
	}
	if fields.Role != nil {
		set.Add("role", string(*fields.Role))
	}
	if set.Len() == 0 {
		return store.UpdateResult{}, store.ErrEmptyUpdate
	}
	set.Add("updated_at", time.Now().UTC())

	assignments, _ := set.SQL()
	where := set.Next(email)
	_, args := set.SQL()

	cmdTag, err := r.db.Exec(ctx, `UPDATE users SET `+assignments+` WHERE email = `+where, args...)
	if err != nil {
		return store.UpdateResult{}, fmt.Errorf("repository: failed to update user %s: %w", email, err)
	}

	affected := cmdTag.RowsAffected()
	return store.UpdateResult{MatchedCount: affected, ModifiedCount: affected}, nil
}

func scanUser(row pgx.Row) (*User, error) {
	var (
		u    User
		id   uuid.UUID
		role string
	)
	if err := row.Scan(&id, &u.Email, &u.Name, &u.Image, &u.Number, &role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.ID = id.String()
	u.Role = Role(role)
	return &u, nil
}
