package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/vasiliy-maslov/storefront-service/internal/sequence"
	"github.com/vasiliy-maslov/storefront-service/internal/store"
)

type SetSequenceRequest struct {
	Value *int64 `json:"value" validate:"required,min=0"`
}

type SequenceHandler struct {
	service  sequence.Service
	validate *validator.Validate
}

func NewSequenceHandler(service sequence.Service) *SequenceHandler {
	return &SequenceHandler{service: service, validate: newValidator()}
}

func (h *SequenceHandler) RegisterRoutes(router chi.Router, mw *Middleware) {
	for _, kind := range []sequence.Kind{sequence.KindProductCode, sequence.KindOrderID} {
		path := "/" + string(kind) + "/{id}"
		router.With(mw.Authenticate).Get(path, h.handleGet(kind))
		router.With(mw.Authenticate).Patch(path, h.handleSet(kind))
	}
}

func (h *SequenceHandler) handleGet(kind sequence.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := h.service.GetRecord(r.Context(), kind, pathParam(r, "id"))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				respondWithJSON(w, http.StatusOK, nil)
				return
			}
			respondWithServiceError(w, r, err, "failed to get "+string(kind))
			return
		}

		respondWithJSON(w, http.StatusOK, rec)
	}
}

func (h *SequenceHandler) handleSet(kind sequence.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SetSequenceRequest
		if !decodeAndValidate(w, r, h.validate, &req) {
			return
		}

		res, err := h.service.SetValue(r.Context(), kind, pathParam(r, "id"), *req.Value)
		if err != nil {
			respondWithServiceError(w, r, err, "failed to update "+string(kind))
			return
		}

		respondWithJSON(w, http.StatusOK, res)
	}
}
