package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/vasiliy-maslov/storefront-service/internal/auth"
)

type contextKey struct{ name string }

var claimsKey = &contextKey{"claims"}

// AdminChecker reports whether the user with email holds the admin role.
type AdminChecker interface {
	IsAdmin(ctx context.Context, email string) (bool, error)
}

// Middleware holds the access-control steps. Compose them per route with
// router.With: Authenticate must run before AuthorizeAdmin and RequireSelf.
type Middleware struct {
	tokens  *auth.TokenService
	revoked auth.RevocationList
	admins  AdminChecker
}

func NewMiddleware(tokens *auth.TokenService, revoked auth.RevocationList, admins AdminChecker) *Middleware {
	return &Middleware{tokens: tokens, revoked: revoked, admins: admins}
}

// ClaimsFromContext returns the claims stored by Authenticate.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*auth.Claims)
	return c, ok && c != nil
}

func withClaims(ctx context.Context, c *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

// Authenticate verifies the bearer token and stores its claims in the
// request context.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			respondWithError(w, http.StatusUnauthorized, "unauthorized access")
			return
		}

		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			respondWithError(w, http.StatusUnauthorized, "unauthorized access")
			return
		}

		claims, err := m.tokens.Verify(strings.TrimSpace(token))
		if err != nil {
			log.Ctx(r.Context()).Debug().Err(err).Msg("Bearer token rejected")
			msg := "unauthorized access"
			if errors.Is(err, auth.ErrExpiredToken) {
				msg = "token expired"
			}
			respondWithError(w, http.StatusUnauthorized, msg)
			return
		}

		if claims.ID != "" && m.revoked != nil {
			revoked, err := m.revoked.IsRevoked(r.Context(), claims.ID)
			if err != nil {
				log.Ctx(r.Context()).Error().Err(err).Msg("Failed to check token revocation")
				respondWithError(w, http.StatusInternalServerError, "failed to verify token")
				return
			}
			if revoked {
				respondWithError(w, http.StatusUnauthorized, "token revoked")
				return
			}
		}

		next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
	})
}

// AuthorizeAdmin lets the request through only when the authenticated
// caller has a user record with the admin role.
func (m *Middleware) AuthorizeAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			respondWithError(w, http.StatusUnauthorized, "unauthorized access")
			return
		}

		admin, err := m.admins.IsAdmin(r.Context(), claims.Email)
		if err != nil {
			log.Ctx(r.Context()).Error().Err(err).Str("email", claims.Email).Msg("Failed to check admin role")
			respondWithError(w, http.StatusInternalServerError, "failed to check role")
			return
		}
		if !admin {
			log.Ctx(r.Context()).Warn().Str("email", claims.Email).Str("path", r.URL.Path).Msg("Admin access denied")
			respondWithError(w, http.StatusForbidden, "forbidden access")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireSelf rejects requests whose {param} path value differs from the
// token email.
func (m *Middleware) RequireSelf(param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				respondWithError(w, http.StatusUnauthorized, "unauthorized access")
				return
			}
			if pathParam(r, param) != claims.Email {
				respondWithError(w, http.StatusForbidden, "forbidden access")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
