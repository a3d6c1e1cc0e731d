package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/vasiliy-maslov/storefront-service/internal/auth"
	storefrontHttp "github.com/vasiliy-maslov/storefront-service/internal/handler/http"
)

const testSecret = "test-secret"

type fakeAdmins struct {
	admins map[string]bool
	err    error
}

func (f fakeAdmins) IsAdmin(_ context.Context, email string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.admins[email], nil
}

type testEnv struct {
	router  chi.Router
	tokens  *auth.TokenService
	revoked *auth.MemoryRevocationList
}

func newTestEnv(admins storefrontHttp.AdminChecker, handlers ...storefrontHttp.RouteRegistrar) *testEnv {
	tokens := auth.NewTokenService(testSecret, time.Hour)
	revoked := auth.NewMemoryRevocationList()
	mw := storefrontHttp.NewMiddleware(tokens, revoked, admins)
	return &testEnv{
		router:  storefrontHttp.NewRouter(zerolog.Nop(), []string{"http://localhost:5173"}, mw, handlers...),
		tokens:  tokens,
		revoked: revoked,
	}
}

func (e *testEnv) token(t *testing.T, email string) string {
	t.Helper()
	token, _, err := e.tokens.Issue(auth.Claims{Email: email})
	require.NoError(t, err)
	return token
}

// do sends a request through the full router. An empty token sends no
// Authorization header.
func (e *testEnv) do(method, path, body, token string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func decodeMessage(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var resp storefrontHttp.ErrorResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp), "failed to decode error response body")
	return resp.Message
}

func requireStatus(t *testing.T, rr *httptest.ResponseRecorder, code int) {
	t.Helper()
	require.Equal(t, code, rr.Code, "unexpected status, body: %s", rr.Body.String())
}

func trimmedBody(body string) string {
	return strings.TrimSpace(body)
}
