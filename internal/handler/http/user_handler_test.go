package http_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	storefrontHttp "github.com/vasiliy-maslov/storefront-service/internal/handler/http"
	"github.com/vasiliy-maslov/storefront-service/internal/store"
	"github.com/vasiliy-maslov/storefront-service/internal/user"
)

func TestUserHandler_CreateUser(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setupMock  func(m *MockUserService)
		wantStatus int
		check      func(t *testing.T, body []byte)
	}{
		{
			name: "new user",
			body: `{"email":"ann@example.com","name":"Ann"}`,
			setupMock: func(m *MockUserService) {
				m.On("CreateUser", mock.Anything, mock.MatchedBy(func(u *user.User) bool {
					return u.Email == "ann@example.com" && u.Name == "Ann"
				})).Return(store.Inserted("u-1"), nil).Once()
			},
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				assert.JSONEq(t, `{"insertedId":"u-1"}`, string(body))
			},
		},
		{
			name: "existing user is not an error",
			body: `{"email":"ann@example.com"}`,
			setupMock: func(m *MockUserService) {
				m.On("CreateUser", mock.Anything, mock.Anything).
					Return(store.NotInserted("user already exists"), nil).Once()
			},
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				assert.JSONEq(t, `{"insertedId":null,"message":"user already exists"}`, string(body))
			},
		},
		{
			name:       "invalid email",
			body:       `{"email":"not-an-email"}`,
			setupMock:  func(m *MockUserService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed body",
			body:       `{"email":`,
			setupMock:  func(m *MockUserService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "storage failure hides details",
			body: `{"email":"ann@example.com"}`,
			setupMock: func(m *MockUserService) {
				m.On("CreateUser", mock.Anything, mock.Anything).
					Return(store.InsertResult{}, errors.New("connection reset")).Once()
			},
			wantStatus: http.StatusInternalServerError,
			check: func(t *testing.T, body []byte) {
				assert.NotContains(t, string(body), "connection reset")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockUserService)
			tt.setupMock(svc)
			env := newTestEnv(fakeAdmins{}, storefrontHttp.NewUserHandler(svc))

			rr := env.do(http.MethodPost, "/users", tt.body, "")

			requireStatus(t, rr, tt.wantStatus)
			if tt.check != nil {
				tt.check(t, rr.Body.Bytes())
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestUserHandler_GetUser(t *testing.T) {
	svc := new(MockUserService)
	svc.On("GetUserByEmail", mock.Anything, "ann@example.com").
		Return(&user.User{ID: "u-1", Email: "ann@example.com", Name: "Ann"}, nil).Once()
	svc.On("GetUserByEmail", mock.Anything, "ghost@example.com").
		Return(nil, store.ErrNotFound).Once()
	env := newTestEnv(fakeAdmins{}, storefrontHttp.NewUserHandler(svc))
	token := env.token(t, "ann@example.com")

	t.Run("found", func(t *testing.T) {
		rr := env.do(http.MethodGet, "/users/ann@example.com", "", token)
		requireStatus(t, rr, http.StatusOK)

		var got user.User
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
		assert.Equal(t, "Ann", got.Name)
	})

	t.Run("missing user is null", func(t *testing.T) {
		rr := env.do(http.MethodGet, "/users/ghost@example.com", "", token)
		requireStatus(t, rr, http.StatusOK)
		assert.Equal(t, "null", trimmedBody(rr.Body.String()))
	})

	t.Run("requires token", func(t *testing.T) {
		rr := env.do(http.MethodGet, "/users/ann@example.com", "", "")
		requireStatus(t, rr, http.StatusUnauthorized)
	})

	svc.AssertExpectations(t)
}

func TestUserHandler_SearchUsers(t *testing.T) {
	svc := new(MockUserService)
	svc.On("SearchUsers", mock.Anything, "ann").
		Return([]user.User{{Email: "ann@example.com"}}).Once()
	env := newTestEnv(fakeAdmins{admins: map[string]bool{"root@example.com": true}}, storefrontHttp.NewUserHandler(svc))

	rr := env.do(http.MethodGet, "/users?search=ann", "", env.token(t, "root@example.com"))
	requireStatus(t, rr, http.StatusOK)

	var got []user.User
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	require.Len(t, got, 1)
	assert.Equal(t, "ann@example.com", got[0].Email)

	rr = env.do(http.MethodGet, "/users", "", env.token(t, "ann@example.com"))
	requireStatus(t, rr, http.StatusForbidden)

	svc.AssertExpectations(t)
}

func TestUserHandler_UpdateUser(t *testing.T) {
	name := "Ann B."
	admin := user.RoleAdmin

	tests := []struct {
		name       string
		path       string
		body       string
		setupMock  func(m *MockUserService)
		wantStatus int
	}{
		{
			name: "own profile",
			path: "/users/ann@example.com",
			body: `{"name":"Ann B."}`,
			setupMock: func(m *MockUserService) {
				m.On("UpdateUser", mock.Anything, "ann@example.com", "ann@example.com", user.UpdateFields{Name: &name}).
					Return(store.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil).Once()
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "role is parsed",
			path: "/users/ann@example.com",
			body: `{"role":"admin"}`,
			setupMock: func(m *MockUserService) {
				m.On("UpdateUser", mock.Anything, "ann@example.com", "ann@example.com", user.UpdateFields{Role: &admin}).
					Return(store.UpdateResult{}, user.ErrForbidden).Once()
			},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "unknown role",
			path:       "/users/ann@example.com",
			body:       `{"role":"superuser"}`,
			setupMock:  func(m *MockUserService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "someone else's profile",
			path: "/users/bob@example.com",
			body: `{"name":"Ann B."}`,
			setupMock: func(m *MockUserService) {
				m.On("UpdateUser", mock.Anything, "ann@example.com", "bob@example.com", mock.Anything).
					Return(store.UpdateResult{}, user.ErrForbidden).Once()
			},
			wantStatus: http.StatusForbidden,
		},
		{
			name: "empty update",
			path: "/users/ann@example.com",
			body: `{}`,
			setupMock: func(m *MockUserService) {
				m.On("UpdateUser", mock.Anything, "ann@example.com", "ann@example.com", user.UpdateFields{}).
					Return(store.UpdateResult{}, store.ErrEmptyUpdate).Once()
			},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockUserService)
			tt.setupMock(svc)
			env := newTestEnv(fakeAdmins{}, storefrontHttp.NewUserHandler(svc))

			rr := env.do(http.MethodPatch, tt.path, tt.body, env.token(t, "ann@example.com"))

			requireStatus(t, rr, tt.wantStatus)
			svc.AssertExpectations(t)
		})
	}
}

func TestUserHandler_SetRole(t *testing.T) {
	svc := new(MockUserService)
	svc.On("SetRole", mock.Anything, "ann@example.com", user.RoleAdmin).
		Return(store.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil).Once()
	svc.On("SetRole", mock.Anything, "ann@example.com", user.RoleCustomer).
		Return(store.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil).Once()
	env := newTestEnv(fakeAdmins{admins: map[string]bool{"root@example.com": true}}, storefrontHttp.NewUserHandler(svc))
	rootToken := env.token(t, "root@example.com")

	rr := env.do(http.MethodPatch, "/users/admin/ann@example.com", `{"role":"admin"}`, rootToken)
	requireStatus(t, rr, http.StatusOK)
	assert.JSONEq(t, `{"matchedCount":1,"modifiedCount":1,"upsertedId":null}`, rr.Body.String())

	rr = env.do(http.MethodPatch, "/users/admin/ann@example.com", `{"role":""}`, rootToken)
	requireStatus(t, rr, http.StatusOK)

	rr = env.do(http.MethodPatch, "/users/admin/ann@example.com", `{}`, rootToken)
	requireStatus(t, rr, http.StatusBadRequest)

	rr = env.do(http.MethodPatch, "/users/admin/ann@example.com", `{"role":"admin"}`, env.token(t, "ann@example.com"))
	requireStatus(t, rr, http.StatusForbidden)

	svc.AssertExpectations(t)
}

func TestUserHandler_IsAdmin(t *testing.T) {
	svc := new(MockUserService)
	svc.On("IsAdmin", mock.Anything, "root@example.com").Return(true, nil).Once()
	env := newTestEnv(fakeAdmins{}, storefrontHttp.NewUserHandler(svc))

	rr := env.do(http.MethodGet, "/admin/root@example.com", "", env.token(t, "root@example.com"))
	requireStatus(t, rr, http.StatusOK)
	assert.JSONEq(t, `{"admin":true}`, rr.Body.String())

	rr = env.do(http.MethodGet, "/admin/root@example.com", "", env.token(t, "ann@example.com"))
	requireStatus(t, rr, http.StatusForbidden)

	svc.AssertExpectations(t)
}

func TestUserHandler_PercentEncodedEmail(t *testing.T) {
	svc := new(MockUserService)
	svc.On("IsAdmin", mock.Anything, "jane@example.com").Return(false, nil).Once()
	svc.On("GetUserByEmail", mock.Anything, "jane@example.com").
		Return(&user.User{Email: "jane@example.com"}, nil).Once()
	env := newTestEnv(fakeAdmins{}, storefrontHttp.NewUserHandler(svc))
	token := env.token(t, "jane@example.com")

	rr := env.do(http.MethodGet, "/admin/jane%40example.com", "", token)
	requireStatus(t, rr, http.StatusOK)
	assert.JSONEq(t, `{"admin":false}`, rr.Body.String())

	rr = env.do(http.MethodGet, "/users/jane%40example.com", "", token)
	requireStatus(t, rr, http.StatusOK)
	assert.Contains(t, rr.Body.String(), `"email":"jane@example.com"`)

	svc.AssertExpectations(t)
}
