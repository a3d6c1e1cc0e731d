package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/vasiliy-maslov/storefront-service/internal/store"
)

const msgUserExists = "user already exists"

type Service interface {
	CreateUser(ctx context.Context, user *User) (store.InsertResult, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	SearchUsers(ctx context.Context, query string) []User
	UpdateUser(ctx context.Context, callerEmail, email string, fields UpdateFields) (store.UpdateResult, error)
	SetRole(ctx context.Context, email string, role Role) (store.UpdateResult, error)
	IsAdmin(ctx context.Context, email string) (bool, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// CreateUser inserts user unless a record with the same email exists. The
// existence check and the insert are separate calls; only the optional unique
// index closes the race between concurrent signups.
func (s *service) CreateUser(ctx context.Context, user *User) (store.InsertResult, error) {
	user.Email = strings.TrimSpace(user.Email)

	_, err := s.repo.GetByEmail(ctx, user.Email)
	if err == nil {
		log.Debug().Str("email", user.Email).Msg("service: user already exists, skipping insert")
		return store.NotInserted(msgUserExists), nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		log.Error().Err(err).Str("email", user.Email).Msg("service: failed to check existing user")
		return store.InsertResult{}, fmt.Errorf("service: failed to check existing user: %w", err)
	}

	user.Role = RoleCustomer

	id, err := s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, ErrEmailExists) {
			return store.NotInserted(msgUserExists), nil
		}
		log.Error().Err(err).Str("email", user.Email).Msg("service: failed to create user in repository")
		return store.InsertResult{}, fmt.Errorf("service: failed to save user: %w", err)
	}

	log.Info().Str("user_id", id).Str("email", user.Email).Msg("service: user created")
	return store.Inserted(id), nil
}

func (s *service) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, store.ErrNotFound
		}
		log.Error().Err(err).Str("email", email).Msg("service: failed to get user by email")
		return nil, fmt.Errorf("service: failed to get user by email '%s': %w", email, err)
	}

	return user, nil
}

// SearchUsers never fails: a storage error degrades to an empty result.
func (s *service) SearchUsers(ctx context.Context, query string) []User {
	users, err := s.repo.Search(ctx, query)
	if err != nil {
		log.Warn().Err(err).Str("search", query).Msg("service: user search failed, returning empty result")
		return []User{}
	}
	return users
}

// UpdateUser applies fields to the user with the given email. Customers may
// only edit their own profile and never their role.
func (s *service) UpdateUser(ctx context.Context, callerEmail, email string, fields UpdateFields) (store.UpdateResult, error) {
	if fields.IsEmpty() {
		return store.UpdateResult{}, store.ErrEmptyUpdate
	}

	if callerEmail != email || fields.Role != nil {
		admin, err := s.IsAdmin(ctx, callerEmail)
		if err != nil {
			return store.UpdateResult{}, err
		}
		if !admin {
			log.Warn().Str("caller", callerEmail).Str("target", email).Msg("service: non-admin attempted privileged user update")
			return store.UpdateResult{}, ErrForbidden
		}
	}

	res, err := s.repo.Update(ctx, email, fields)
	if err != nil {
		log.Error().Err(err).Str("email", email).Msg("service: failed to update user")
		return store.UpdateResult{}, fmt.Errorf("service: failed to update user '%s': %w", email, err)
	}

	return res, nil
}

func (s *service) SetRole(ctx context.Context, email string, role Role) (store.UpdateResult, error) {
	res, err := s.repo.Update(ctx, email, UpdateFields{Role: &role})
	if err != nil {
		log.Error().Err(err).Str("email", email).Str("role", string(role)).Msg("service: failed to set user role")
		return store.UpdateResult{}, fmt.Errorf("service: failed to set role for '%s': %w", email, err)
	}

	log.Info().Str("email", email).Str("role", string(role)).Int64("modified", res.ModifiedCount).Msg("service: user role updated")
	return res, nil
}

// IsAdmin reports whether a user record with email exists and has the admin
// role. A missing record is not an error.
func (s *service) IsAdmin(ctx context.Context, email string) (bool, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		log.Error().Err(err).Str("email", email).Msg("service: failed to load user for role check")
		return false, fmt.Errorf("service: failed to check role of '%s': %w", email, err)
	}
	return user.Role.IsAdmin(), nil
}
