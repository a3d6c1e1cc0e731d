package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/vasiliy-maslov/storefront-service/internal/address"
	"github.com/vasiliy-maslov/storefront-service/internal/store"
)

type SaveAddressRequest struct {
	Name    *string `json:"name"`
	House   *string `json:"house"`
	Road    *string `json:"road"`
	Area    *string `json:"area"`
	City    *string `json:"city"`
	Details *string `json:"details"`
}

type AddressHandler struct {
	service  address.Service
	validate *validator.Validate
}

func NewAddressHandler(service address.Service) *AddressHandler {
	return &AddressHandler{service: service, validate: newValidator()}
}

func (h *AddressHandler) RegisterRoutes(router chi.Router, mw *Middleware) {
	router.With(mw.Authenticate).Get("/address/{email}", h.handleGetAddress)
	router.With(mw.Authenticate).Patch("/address/{email}", h.handleSaveAddress)
}

func (h *AddressHandler) handleGetAddress(w http.ResponseWriter, r *http.Request) {
	a, err := h.service.GetAddress(r.Context(), pathParam(r, "email"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondWithJSON(w, http.StatusOK, nil)
			return
		}
		respondWithServiceError(w, r, err, "failed to get address")
		return
	}

	respondWithJSON(w, http.StatusOK, a)
}

func (h *AddressHandler) handleSaveAddress(w http.ResponseWriter, r *http.Request) {
	var req SaveAddressRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	res, err := h.service.SaveAddress(r.Context(), pathParam(r, "email"), address.Fields{
		Name:    req.Name,
		House:   req.House,
		Road:    req.Road,
		Area:    req.Area,
		City:    req.City,
		Details: req.Details,
	})
	if err != nil {
		respondWithServiceError(w, r, err, "failed to save address")
		return
	}

	respondWithJSON(w, http.StatusOK, res)
}
