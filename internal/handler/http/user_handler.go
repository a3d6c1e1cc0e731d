package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/vasiliy-maslov/storefront-service/internal/store"
	"github.com/vasiliy-maslov/storefront-service/internal/user"
)

type CreateUserRequest struct {
	Email  string `json:"email" validate:"required,email"`
	Name   string `json:"name"`
	Image  string `json:"image"`
	Number string `json:"number"`
}

type UpdateUserRequest struct {
	Name   *string `json:"name"`
	Image  *string `json:"image"`
	Number *string `json:"number"`
	Role   *string `json:"role"`
}

type SetRoleRequest struct {
	Role *string `json:"role" validate:"required"`
}

type UserHandler struct {
	service  user.Service
	validate *validator.Validate
}

func NewUserHandler(service user.Service) *UserHandler {
	return &UserHandler{service: service, validate: newValidator()}
}

func (h *UserHandler) RegisterRoutes(router chi.Router, mw *Middleware) {
	router.Post("/users", h.handleCreateUser)
	router.With(mw.Authenticate, mw.AuthorizeAdmin).Get("/users", h.handleSearchUsers)
	router.With(mw.Authenticate).Get("/users/{email}", h.handleGetUser)
	router.With(mw.Authenticate).Patch("/users/{email}", h.handleUpdateUser)
	router.With(mw.Authenticate, mw.AuthorizeAdmin).Patch("/users/admin/{email}", h.handleSetRole)
	router.With(mw.Authenticate, mw.RequireSelf("email")).Get("/admin/{email}", h.handleIsAdmin)
}

func (h *UserHandler) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	res, err := h.service.CreateUser(r.Context(), &user.User{
		Email:  req.Email,
		Name:   req.Name,
		Image:  req.Image,
		Number: req.Number,
	})
	if err != nil {
		respondWithServiceError(w, r, err, "failed to create user")
		return
	}

	respondWithJSON(w, http.StatusOK, res)
}

func (h *UserHandler) handleSearchUsers(w http.ResponseWriter, r *http.Request) {
	users := h.service.SearchUsers(r.Context(), r.URL.Query().Get("search"))
	respondWithJSON(w, http.StatusOK, users)
}

func (h *UserHandler) handleGetUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.service.GetUserByEmail(r.Context(), pathParam(r, "email"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondWithJSON(w, http.StatusOK, nil)
			return
		}
		respondWithServiceError(w, r, err, "failed to get user")
		return
	}

	respondWithJSON(w, http.StatusOK, u)
}

func (h *UserHandler) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized access")
		return
	}

	var req UpdateUserRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	fields := user.UpdateFields{Name: req.Name, Image: req.Image, Number: req.Number}
	if req.Role != nil {
		role, err := user.ParseRole(*req.Role)
		if err != nil {
			respondWithServiceError(w, r, err, "failed to update user")
			return
		}
		fields.Role = &role
	}

	res, err := h.service.UpdateUser(r.Context(), claims.Email, pathParam(r, "email"), fields)
	if err != nil {
		respondWithServiceError(w, r, err, "failed to update user")
		return
	}

	respondWithJSON(w, http.StatusOK, res)
}

func (h *UserHandler) handleSetRole(w http.ResponseWriter, r *http.Request) {
	var req SetRoleRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	role, err := user.ParseRole(*req.Role)
	if err != nil {
		respondWithServiceError(w, r, err, "failed to set role")
		return
	}

	res, err := h.service.SetRole(r.Context(), pathParam(r, "email"), role)
	if err != nil {
		respondWithServiceError(w, r, err, "failed to set role")
		return
	}

	respondWithJSON(w, http.StatusOK, res)
}

func (h *UserHandler) handleIsAdmin(w http.ResponseWriter, r *http.Request) {
	admin, err := h.service.IsAdmin(r.Context(), pathParam(r, "email"))
	if err != nil {
		respondWithServiceError(w, r, err, "failed to check role")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]bool{"admin": admin})
}
