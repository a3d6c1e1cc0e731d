package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/vasiliy-maslov/storefront-service/internal/cart"
)

type AddToCartRequest struct {
	Email     string          `json:"email" validate:"required,email"`
	ProductID string          `json:"productId" validate:"required"`
	Title     string          `json:"title"`
	Image     string          `json:"image"`
	Size      string          `json:"size" validate:"required"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity" validate:"min=0"`
}

type CartHandler struct {
	service  cart.Service
	validate *validator.Validate
}

func NewCartHandler(service cart.Service) *CartHandler {
	return &CartHandler{service: service, validate: newValidator()}
}

func (h *CartHandler) RegisterRoutes(router chi.Router, mw *Middleware) {
	router.Group(func(authed chi.Router) {
		authed.Use(mw.Authenticate)
		authed.Get("/carts/{email}", h.handleListCart)
		authed.Post("/carts", h.handleAddToCart)
		authed.Delete("/carts/{id}", h.handleRemoveFromCart)
	})
}

func (h *CartHandler) handleListCart(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.ListCart(r.Context(), pathParam(r, "email"))
	if err != nil {
		respondWithServiceError(w, r, err, "failed to list cart")
		return
	}

	respondWithJSON(w, http.StatusOK, entries)
}

func (h *CartHandler) handleAddToCart(w http.ResponseWriter, r *http.Request) {
	var req AddToCartRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}
	if req.Price.IsNegative() {
		validationFailed(w, "price", "must not be negative")
		return
	}

	res, err := h.service.AddToCart(r.Context(), &cart.Entry{
		Email:     req.Email,
		ProductID: req.ProductID,
		Title:     req.Title,
		Image:     req.Image,
		Size:      req.Size,
		Price:     req.Price,
		Quantity:  req.Quantity,
	})
	if err != nil {
		respondWithServiceError(w, r, err, "failed to add to cart")
		return
	}

	respondWithJSON(w, http.StatusOK, res)
}

func (h *CartHandler) handleRemoveFromCart(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.RemoveFromCart(r.Context(), pathParam(r, "id"))
	if err != nil {
		respondWithServiceError(w, r, err, "failed to remove from cart")
		return
	}

	respondWithJSON(w, http.StatusOK, res)
}
