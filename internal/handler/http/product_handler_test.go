package http_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	storefrontHttp "github.com/vasiliy-maslov/storefront-service/internal/handler/http"
	"github.com/vasiliy-maslov/storefront-service/internal/product"
	"github.com/vasiliy-maslov/storefront-service/internal/store"
)

var adminOnly = fakeAdmins{admins: map[string]bool{"root@example.com": true}}

func TestProductHandler_ListProducts(t *testing.T) {
	svc := new(MockProductService)
	svc.On("ListProducts", mock.Anything, product.Filter{Search: "shirt", Gender: "men"}).
		Return([]product.Product{{ID: "p-1", Title: "Linen shirt"}}, nil).Once()
	svc.On("ListProducts", mock.Anything, product.Filter{Search: "nothing"}).
		Return([]product.Product{}, nil).Once()
	svc.On("ListProducts", mock.Anything, product.Filter{}).
		Return(nil, errors.New("db down")).Once()
	env := newTestEnv(adminOnly, storefrontHttp.NewProductHandler(svc))

	rr := env.do(http.MethodGet, "/products?search=shirt&gender=men", "", "")
	requireStatus(t, rr, http.StatusOK)
	var got []product.Product
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	require.Len(t, got, 1)
	assert.Equal(t, "Linen shirt", got[0].Title)

	rr = env.do(http.MethodGet, "/products?search=nothing", "", "")
	requireStatus(t, rr, http.StatusOK)
	assert.Equal(t, "[]", trimmedBody(rr.Body.String()))

	rr = env.do(http.MethodGet, "/products", "", "")
	requireStatus(t, rr, http.StatusInternalServerError)
	assert.Equal(t, "failed to list products", decodeMessage(t, rr))

	svc.AssertExpectations(t)
}

func TestProductHandler_PublicReads(t *testing.T) {
	svc := new(MockProductService)
	svc.On("GetProduct", mock.Anything, "p-1").
		Return(&product.Product{ID: "p-1", Price: decimal.RequireFromString("25.50")}, nil).Once()
	svc.On("GetProduct", mock.Anything, "missing").
		Return(nil, store.ErrNotFound).Once()
	svc.On("ListRelated", mock.Anything, "shirts", "p-1").
		Return([]product.Product{{ID: "p-2"}}, nil).Once()
	svc.On("CountProducts", mock.Anything).Return(int64(42), nil).Once()
	svc.On("RandomProducts", mock.Anything).
		Return([]product.Product{{ID: "p-3"}, {ID: "p-4"}}, nil).Once()
	svc.On("RandomRelated", mock.Anything, "women", "p-1").
		Return([]product.Product{{ID: "p-5"}}, nil).Once()
	env := newTestEnv(adminOnly, storefrontHttp.NewProductHandler(svc))

	rr := env.do(http.MethodGet, "/product/p-1", "", "")
	requireStatus(t, rr, http.StatusOK)
	var p product.Product
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&p))
	assert.True(t, decimal.RequireFromString("25.5").Equal(p.Price))

	rr = env.do(http.MethodGet, "/product/missing", "", "")
	requireStatus(t, rr, http.StatusOK)
	assert.Equal(t, "null", trimmedBody(rr.Body.String()))

	rr = env.do(http.MethodGet, "/products/shirts/p-1", "", "")
	requireStatus(t, rr, http.StatusOK)
	assert.Contains(t, rr.Body.String(), `"p-2"`)

	rr = env.do(http.MethodGet, "/productsCount", "", "")
	requireStatus(t, rr, http.StatusOK)
	assert.JSONEq(t, `{"count":42}`, rr.Body.String())

	rr = env.do(http.MethodGet, "/randomProducts", "", "")
	requireStatus(t, rr, http.StatusOK)
	var sample []product.Product
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&sample))
	assert.Len(t, sample, 2)

	rr = env.do(http.MethodGet, "/randomProducts/women/p-1", "", "")
	requireStatus(t, rr, http.StatusOK)
	assert.Contains(t, rr.Body.String(), `"p-5"`)

	svc.AssertExpectations(t)
}

func TestProductHandler_CreateProduct(t *testing.T) {
	tests := []struct {
		name       string
		email      string
		body       string
		setupMock  func(m *MockProductService)
		wantStatus int
		check      func(t *testing.T, body []byte)
	}{
		{
			name:  "admin creates",
			email: "root@example.com",
			body:  `{"title":"Linen shirt","category":"shirts","price":"25.50","quantity":{"S":1,"M":2,"L":0,"XL":3}}`,
			setupMock: func(m *MockProductService) {
				m.On("CreateProduct", mock.Anything, mock.MatchedBy(func(p *product.Product) bool {
					return p.Title == "Linen shirt" &&
						p.Quantity == product.Stock{S: 1, M: 2, XL: 3} &&
						p.Price.Equal(decimal.RequireFromString("25.5"))
				})).Return(store.Inserted("p-1"), nil).Once()
			},
			wantStatus: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				assert.JSONEq(t, `{"insertedId":"p-1"}`, string(body))
			},
		},
		{
			name:       "customer is forbidden",
			email:      "ann@example.com",
			body:       `{"title":"Linen shirt","category":"shirts"}`,
			setupMock:  func(m *MockProductService) {},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "negative price",
			email:      "root@example.com",
			body:       `{"title":"Linen shirt","category":"shirts","price":"-5"}`,
			setupMock:  func(m *MockProductService) {},
			wantStatus: http.StatusBadRequest,
			check: func(t *testing.T, body []byte) {
				var resp storefrontHttp.ValidationErrorResponse
				require.NoError(t, json.Unmarshal(body, &resp))
				assert.Contains(t, resp.Details, "price")
			},
		},
		{
			name:       "negative stock",
			email:      "root@example.com",
			body:       `{"title":"Linen shirt","category":"shirts","quantity":{"M":-1}}`,
			setupMock:  func(m *MockProductService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing title",
			email:      "root@example.com",
			body:       `{"category":"shirts"}`,
			setupMock:  func(m *MockProductService) {},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockProductService)
			tt.setupMock(svc)
			env := newTestEnv(adminOnly, storefrontHttp.NewProductHandler(svc))

			rr := env.do(http.MethodPost, "/products", tt.body, env.token(t, tt.email))

			requireStatus(t, rr, tt.wantStatus)
			if tt.check != nil {
				tt.check(t, rr.Body.Bytes())
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestProductHandler_UpdateAndDelete(t *testing.T) {
	stock := product.Stock{M: 4}
	title := "Linen shirt v2"

	svc := new(MockProductService)
	svc.On("UpdateProduct", mock.Anything, "p-1", product.UpdateFields{Title: &title, Quantity: &stock}).
		Return(store.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil).Once()
	svc.On("UpdateProduct", mock.Anything, "p-1", product.UpdateFields{}).
		Return(store.UpdateResult{}, store.ErrEmptyUpdate).Once()
	svc.On("DeleteProduct", mock.Anything, "p-1").
		Return(store.DeleteResult{DeletedCount: 1}, nil).Once()
	env := newTestEnv(adminOnly, storefrontHttp.NewProductHandler(svc))
	token := env.token(t, "root@example.com")

	rr := env.do(http.MethodPatch, "/products/p-1", `{"title":"Linen shirt v2","quantity":{"M":4}}`, token)
	requireStatus(t, rr, http.StatusOK)

	rr = env.do(http.MethodPatch, "/products/p-1", `{}`, token)
	requireStatus(t, rr, http.StatusBadRequest)

	rr = env.do(http.MethodPatch, "/products/p-1", `{"price":"-0.01"}`, token)
	requireStatus(t, rr, http.StatusBadRequest)

	rr = env.do(http.MethodDelete, "/products/p-1", "", token)
	requireStatus(t, rr, http.StatusOK)
	assert.JSONEq(t, `{"deletedCount":1}`, rr.Body.String())

	rr = env.do(http.MethodDelete, "/products/p-1", "", "")
	requireStatus(t, rr, http.StatusUnauthorized)

	svc.AssertExpectations(t)
}
