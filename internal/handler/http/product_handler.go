package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/vasiliy-maslov/storefront-service/internal/product"
	"github.com/vasiliy-maslov/storefront-service/internal/store"
)

type StockRequest struct {
	S  int `json:"S" validate:"min=0"`
	M  int `json:"M" validate:"min=0"`
	L  int `json:"L" validate:"min=0"`
	XL int `json:"XL" validate:"min=0"`
}

type CreateProductRequest struct {
	Title       string          `json:"title" validate:"required"`
	Description string          `json:"description"`
	Gender      string          `json:"gender"`
	Category    string          `json:"category" validate:"required"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Quantity    StockRequest    `json:"quantity"`
}

type UpdateProductRequest struct {
	Title       *string          `json:"title" validate:"omitempty,min=1"`
	Description *string          `json:"description"`
	Gender      *string          `json:"gender"`
	Category    *string          `json:"category" validate:"omitempty,min=1"`
	Price       *decimal.Decimal `json:"price"`
	Image       *string          `json:"image"`
	Quantity    *StockRequest    `json:"quantity"`
}

type CountResponse struct {
	Count int64 `json:"count"`
}

type ProductHandler struct {
	service  product.Service
	validate *validator.Validate
}

func NewProductHandler(service product.Service) *ProductHandler {
	return &ProductHandler{service: service, validate: newValidator()}
}

func (h *ProductHandler) RegisterRoutes(router chi.Router, mw *Middleware) {
	router.Get("/products", h.handleListProducts)
	router.Get("/product/{id}", h.handleGetProduct)
	router.Get("/products/{category}/{id}", h.handleListRelated)
	router.Get("/productsCount", h.handleCountProducts)
	router.Get("/randomProducts", h.handleRandomProducts)
	router.Get("/randomProducts/{gender}/{id}", h.handleRandomRelated)

	router.Group(func(admin chi.Router) {
		admin.Use(mw.Authenticate, mw.AuthorizeAdmin)
		admin.Post("/products", h.handleCreateProduct)
		admin.Patch("/products/{id}", h.handleUpdateProduct)
		admin.Delete("/products/{id}", h.handleDeleteProduct)
	})
}

func (h *ProductHandler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	products, err := h.service.ListProducts(r.Context(), product.Filter{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		Gender:   q.Get("gender"),
	})
	if err != nil {
		respondWithServiceError(w, r, err, "failed to list products")
		return
	}

	respondWithJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.GetProduct(r.Context(), pathParam(r, "id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			respondWithJSON(w, http.StatusOK, nil)
			return
		}
		respondWithServiceError(w, r, err, "failed to get product")
		return
	}

	respondWithJSON(w, http.StatusOK, p)
}

func (h *ProductHandler) handleListRelated(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListRelated(r.Context(), pathParam(r, "category"), pathParam(r, "id"))
	if err != nil {
		respondWithServiceError(w, r, err, "failed to list related products")
		return
	}

	respondWithJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) handleCountProducts(w http.ResponseWriter, r *http.Request) {
	n, err := h.service.CountProducts(r.Context())
	if err != nil {
		respondWithServiceError(w, r, err, "failed to count products")
		return
	}

	respondWithJSON(w, http.StatusOK, CountResponse{Count: n})
}

func (h *ProductHandler) handleRandomProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.RandomProducts(r.Context())
	if err != nil {
		respondWithServiceError(w, r, err, "failed to sample products")
		return
	}

	respondWithJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) handleRandomRelated(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.RandomRelated(r.Context(), pathParam(r, "gender"), pathParam(r, "id"))
	if err != nil {
		respondWithServiceError(w, r, err, "failed to sample products")
		return
	}

	respondWithJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}
	if req.Price.IsNegative() {
		validationFailed(w, "price", "must not be negative")
		return
	}

	res, err := h.service.CreateProduct(r.Context(), &product.Product{
		Title:       req.Title,
		Description: req.Description,
		Gender:      req.Gender,
		Category:    req.Category,
		Price:       req.Price,
		Image:       req.Image,
		Quantity:    product.Stock(req.Quantity),
	})
	if err != nil {
		respondWithServiceError(w, r, err, "failed to create product")
		return
	}

	respondWithJSON(w, http.StatusOK, res)
}

func (h *ProductHandler) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req UpdateProductRequest
	if !decodeAndValidate(w, r, h.validate, &req) {
		return
	}
	if req.Price != nil && req.Price.IsNegative() {
		validationFailed(w, "price", "must not be negative")
		return
	}

	fields := product.UpdateFields{
		Title:       req.Title,
		Description: req.Description,
		Gender:      req.Gender,
		Category:    req.Category,
		Price:       req.Price,
		Image:       req.Image,
	}
	if req.Quantity != nil {
		stock := product.Stock(*req.Quantity)
		fields.Quantity = &stock
	}

	res, err := h.service.UpdateProduct(r.Context(), pathParam(r, "id"), fields)
	if err != nil {
		respondWithServiceError(w, r, err, "failed to update product")
		return
	}

	respondWithJSON(w, http.StatusOK, res)
}

func (h *ProductHandler) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.DeleteProduct(r.Context(), pathParam(r, "id"))
	if err != nil {
		respondWithServiceError(w, r, err, "failed to delete product")
		return
	}

	respondWithJSON(w, http.StatusOK, res)
}
