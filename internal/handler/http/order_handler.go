package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/vasiliy-maslov/storefront-service/internal/order"
	"github.com/vasiliy-maslov/storefront-service/internal/store"
)

type LineItemRequest struct {
	ID string `json:"id"`
	// LegacyID accepts cart references sent as "_id".
	LegacyID  string          `json:"_id"`
	ProductID string          `json:"productId"`
	Title     string          `json:"title"`
	Size      string          `json:"size"`
	Quantity  int             `json:"quantity" validate:"min=0"`
	Price     decimal.Decimal `json:"price"`
}

func (l LineItemRequest) cartID() string {
	if l.ID != "" {
		return l.ID
	}
	return l.LegacyID
}

type PlaceOrderRequest struct {
	OrderID   string            `json:"orderId"`
	Email     string            `json:"email" validate:"omitempty,email"`
	Name      string            `json:"name"`
	Phone     string            `json:"phone"`
	Address   string            `json:"address"`
	OrderInfo []LineItemRequest `json:"orderInfo" validate:"required,min=1,dive"`
	Total     decimal.Decimal   `json:"total"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type OrderHandler struct {
	service  order.Service
	admins   AdminChecker
	validate *validator.Validate
}

// NewOrderHandler uses admins to decide who may place an order under an
// email other than their own.
func NewOrderHandler(service order.Service, admins AdminChecker) *OrderHandler {
	return &OrderHandler{service: service, admins: admins, validate: newValidator()}
}

func (h *OrderHandler) RegisterRoutes(router chi.Router, mw *Middleware) {
	router.Group(func(authed chi.Router) {
		authed.Use(mw.Authenticate)
		authed.Get("/orders/{email}", h.handleListPending)
		authed.Get("/orders/delivered/{email}", h.handleListDelivered)
		authed.Post("/orders", h.handlePlaceOrder)

		authed.Group(func(admin chi.Router) {
			admin.Use(mw.AuthorizeAdmin)
			admin.Get("/orders", h.handleListOrders)
			admin.Get("/orders/invoice/{id}", h.handleGetOrder)
			admin.Patch("/orders/{orderId}", h.handleUpdateStatus)
			admin.Delete("/orders/{orderId}", h.handleDeleteOrder)
		})
	})
}

func (h *OrderHandler) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized access")
		return
	}

	var req PlaceOrderRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	o := &order.Order{
		OrderID:   req.OrderID,
		Email:     req.Email,
		Name:      req.Name,
		Phone:     req.Phone,
		Address:   req.Address,
		Total:     req.Total,
		OrderInfo: make([]order.LineItem, 0, len(req.OrderInfo)),
	}
	if o.Email == "" {
		o.Email = claims.Email
	}
	if o.Email != claims.Email {
		admin, err := h.admins.IsAdmin(r.Context(), claims.Email)
		if err != nil {
			log.Ctx(r.Context()).Error().Err(err).Str("email", claims.Email).Msg("Failed to check admin role")
			respondWithError(w, http.StatusInternalServerError, "failed to check role")
			return
		}
		if !admin {
			log.Ctx(r.Context()).Warn().Str("caller", claims.Email).Str("email", o.Email).Msg("Order for another email denied")
			respondWithError(w, http.StatusForbidden, "forbidden access")
			return
		}
	}
	for _, item := range req.OrderInfo {
		o.OrderInfo = append(o.OrderInfo, order.LineItem{
			ID:        item.cartID(),
			ProductID: item.ProductID,
			Title:     item.Title,
			Size:      item.Size,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}

	res, err := h.service.PlaceOrder(r.Context(), o)
	if err != nil {
		respondWithServiceError(w, r, err, "failed to place order")
		return
	}

	respondWithJSON(w, http.StatusOK, res)
}

func (h *OrderHandler) handleListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListOrders(r.Context())
	if err != nil {
		respondWithServiceError(w, r, err, "failed to list orders")
		return
	}

	respondWithJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.service.GetOrder(r.Context(), pathParam(r, "id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondWithJSON(w, http.StatusOK, nil)
			return
		}
		respondWithServiceError(w, r, err, "failed to get order")
		return
	}

	respondWithJSON(w, http.StatusOK, o)
}

func (h *OrderHandler) handleListPending(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListPending(r.Context(), pathParam(r, "email"))
	if err != nil {
		respondWithServiceError(w, r, err, "failed to list orders")
		return
	}

	respondWithJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) handleListDelivered(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListDelivered(r.Context(), pathParam(r, "email"))
	if err != nil {
		respondWithServiceError(w, r, err, "failed to list orders")
		return
	}

	respondWithJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}

	res, err := h.service.UpdateStatus(r.Context(), pathParam(r, "orderId"), order.Status(req.Status))
	if err != nil {
		respondWithServiceError(w, r, err, "failed to update order status")
		return
	}

	respondWithJSON(w, http.StatusOK, res)
}

func (h *OrderHandler) handleDeleteOrder(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.DeleteOrder(r.Context(), pathParam(r, "orderId"))
	if err != nil {
		respondWithServiceError(w, r, err, "failed to delete order")
		return
	}

	respondWithJSON(w, http.StatusOK, res)
}
