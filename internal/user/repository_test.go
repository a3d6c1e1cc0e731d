package user_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vasiliy-maslov/storefront-service/internal/store"
	"github.com/vasiliy-maslov/storefront-service/internal/testdb"
	"github.com/vasiliy-maslov/storefront-service/internal/user"
)

func TestUserRepository_CreateAndGet(t *testing.T) {
	repo := user.NewRepository(testdb.Pool(t))
	ctx := context.Background()

	u := &user.User{Email: "jane@example.com", Name: "Jane", Number: "+100200"}
	id, err := repo.Create(ctx, u)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	found, err := repo.GetByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, id, found.ID)
	assert.Equal(t, "Jane", found.Name)
	assert.Equal(t, user.RoleCustomer, found.Role)

	_, err = repo.GetByEmail(ctx, "ghost@example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUserService_DuplicateSignupKeepsCount(t *testing.T) {
	repo := user.NewRepository(testdb.Pool(t))
	svc := user.NewService(repo)
	ctx := context.Background()

	first, err := svc.CreateUser(ctx, &user.User{Email: "jane@example.com", Name: "Jane"})
	require.NoError(t, err)
	require.NotNil(t, first.InsertedID)

	before, err := repo.Search(ctx, "")
	require.NoError(t, err)

	second, err := svc.CreateUser(ctx, &user.User{Email: "jane@example.com", Name: "Jane Again"})
	require.NoError(t, err)
	assert.Nil(t, second.InsertedID)

	after, err := repo.Search(ctx, "")
	require.NoError(t, err)
	assert.Len(t, after, len(before))
}

func TestUserRepository_Search(t *testing.T) {
	repo := user.NewRepository(testdb.Pool(t))
	ctx := context.Background()

	for _, u := range []*user.User{
		{Email: "jane@example.com", Name: "Jane Doe", Number: "111"},
		{Email: "bob@shop.io", Name: "Bob", Number: "222"},
		{Email: "ann@example.com", Name: "Ann", Number: "5%off"},
	} {
		_, err := repo.Create(ctx, u)
		require.NoError(t, err)
	}

	byName, err := repo.Search(ctx, "JANE")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "jane@example.com", byName[0].Email)

	byEmail, err := repo.Search(ctx, "example.com")
	require.NoError(t, err)
	assert.Len(t, byEmail, 2)

	byNumber, err := repo.Search(ctx, "22")
	require.NoError(t, err)
	require.Len(t, byNumber, 1)
	assert.Equal(t, "bob@shop.io", byNumber[0].Email)

	literalPercent, err := repo.Search(ctx, "%")
	require.NoError(t, err)
	require.Len(t, literalPercent, 1)
	assert.Equal(t, "ann@example.com", literalPercent[0].Email)

	none, err := repo.Search(ctx, "zzz")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestUserRepository_Update(t *testing.T) {
	repo := user.NewRepository(testdb.Pool(t))
	ctx := context.Background()

	_, err := repo.Create(ctx, &user.User{Email: "jane@example.com", Name: "Jane"})
	require.NoError(t, err)

	name := "Jane Doe"
	role := user.RoleAdmin
	res, err := repo.Update(ctx, "jane@example.com", user.UpdateFields{Name: &name, Role: &role})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.ModifiedCount)

	found, err := repo.GetByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", found.Name)
	assert.True(t, found.Role.IsAdmin())

	missing, err := repo.Update(ctx, "ghost@example.com", user.UpdateFields{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, int64(0), missing.MatchedCount)

	_, err = repo.Update(ctx, "jane@example.com", user.UpdateFields{})
	assert.ErrorIs(t, err, store.ErrEmptyUpdate)
}
