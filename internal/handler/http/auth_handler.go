package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/vasiliy-maslov/storefront-service/internal/auth"
)

type TokenRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name"`
}

type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	// ExpiresIn is the token lifetime in seconds.
	ExpiresIn int64 `json:"expiresIn"`
}

type AuthHandler struct {
	tokens   *auth.TokenService
	revoked  auth.RevocationList
	validate *validator.Validate
}

func NewAuthHandler(tokens *auth.TokenService, revoked auth.RevocationList) *AuthHandler {
	return &AuthHandler{tokens: tokens, revoked: revoked, validate: newValidator()}
}

func (h *AuthHandler) RegisterRoutes(router chi.Router, mw *Middleware) {
	router.Post("/jwt", h.handleIssueToken)
	router.With(mw.Authenticate).Post("/logout", h.handleLogout)
}

func (h *AuthHandler) handleIssueToken(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	token, expiresAt, err := h.tokens.Issue(auth.Claims{Email: req.Email, Name: req.Name})
	if err != nil {
		respondWithServiceError(w, r, err, "failed to issue token")
		return
	}

	log.Ctx(r.Context()).Debug().Str("email", req.Email).Time("expires_at", expiresAt).Msg("Token issued")
	respondWithJSON(w, http.StatusOK, TokenResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		ExpiresIn: int64(h.tokens.TTL().Seconds()),
	})
}

func (h *AuthHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized access")
		return
	}

	if claims.ID != "" {
		if err := h.revoked.Revoke(r.Context(), claims.ID, h.tokens.RemainingTTL(claims)); err != nil {
			respondWithServiceError(w, r, err, "failed to revoke token")
			return
		}
	}

	respondWithJSON(w, http.StatusOK, map[string]bool{"success": true})
}
