package http_test

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vasiliy-maslov/storefront-service/internal/address"
	"github.com/vasiliy-maslov/storefront-service/internal/cart"
	"github.com/vasiliy-maslov/storefront-service/internal/order"
	"github.com/vasiliy-maslov/storefront-service/internal/product"
	"github.com/vasiliy-maslov/storefront-service/internal/sequence"
	"github.com/vasiliy-maslov/storefront-service/internal/store"
	"github.com/vasiliy-maslov/storefront-service/internal/user"
)

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) CreateUser(ctx context.Context, u *user.User) (store.InsertResult, error) {
	args := m.Called(ctx, u)
	return args.Get(0).(store.InsertResult), args.Error(1)
}

func (m *MockUserService) GetUserByEmail(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserService) SearchUsers(ctx context.Context, query string) []user.User {
	args := m.Called(ctx, query)
	return args.Get(0).([]user.User)
}

func (m *MockUserService) UpdateUser(ctx context.Context, callerEmail, email string, fields user.UpdateFields) (store.UpdateResult, error) {
	args := m.Called(ctx, callerEmail, email, fields)
	return args.Get(0).(store.UpdateResult), args.Error(1)
}

func (m *MockUserService) SetRole(ctx context.Context, email string, role user.Role) (store.UpdateResult, error) {
	args := m.Called(ctx, email, role)
	return args.Get(0).(store.UpdateResult), args.Error(1)
}

func (m *MockUserService) IsAdmin(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

type MockAddressService struct {
	mock.Mock
}

func (m *MockAddressService) GetAddress(ctx context.Context, email string) (*address.Address, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*address.Address), args.Error(1)
}

func (m *MockAddressService) SaveAddress(ctx context.Context, email string, fields address.Fields) (store.UpdateResult, error) {
	args := m.Called(ctx, email, fields)
	return args.Get(0).(store.UpdateResult), args.Error(1)
}

type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) CreateProduct(ctx context.Context, p *product.Product) (store.InsertResult, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(store.InsertResult), args.Error(1)
}

func (m *MockProductService) GetProduct(ctx context.Context, id string) (*product.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductService) ListProducts(ctx context.Context, filter product.Filter) ([]product.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]product.Product), args.Error(1)
}

func (m *MockProductService) ListRelated(ctx context.Context, category, excludeID string) ([]product.Product, error) {
	args := m.Called(ctx, category, excludeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]product.Product), args.Error(1)
}

func (m *MockProductService) CountProducts(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductService) RandomProducts(ctx context.Context) ([]product.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]product.Product), args.Error(1)
}

func (m *MockProductService) RandomRelated(ctx context.Context, gender, excludeID string) ([]product.Product, error) {
	args := m.Called(ctx, gender, excludeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]product.Product), args.Error(1)
}

func (m *MockProductService) UpdateProduct(ctx context.Context, id string, fields product.UpdateFields) (store.UpdateResult, error) {
	args := m.Called(ctx, id, fields)
	return args.Get(0).(store.UpdateResult), args.Error(1)
}

func (m *MockProductService) DeleteProduct(ctx context.Context, id string) (store.DeleteResult, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(store.DeleteResult), args.Error(1)
}

type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) ListCart(ctx context.Context, email string) ([]cart.Entry, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]cart.Entry), args.Error(1)
}

func (m *MockCartService) AddToCart(ctx context.Context, e *cart.Entry) (store.InsertResult, error) {
	args := m.Called(ctx, e)
	return args.Get(0).(store.InsertResult), args.Error(1)
}

func (m *MockCartService) RemoveFromCart(ctx context.Context, id string) (store.DeleteResult, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(store.DeleteResult), args.Error(1)
}

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) PlaceOrder(ctx context.Context, o *order.Order) (order.PlaceResult, error) {
	args := m.Called(ctx, o)
	return args.Get(0).(order.PlaceResult), args.Error(1)
}

func (m *MockOrderService) ListOrders(ctx context.Context) ([]order.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderService) GetOrder(ctx context.Context, id string) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderService) ListPending(ctx context.Context, email string) ([]order.Order, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderService) ListDelivered(ctx context.Context, email string) ([]order.Order, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderService) UpdateStatus(ctx context.Context, orderID string, status order.Status) (store.UpdateResult, error) {
	args := m.Called(ctx, orderID, status)
	return args.Get(0).(store.UpdateResult), args.Error(1)
}

func (m *MockOrderService) DeleteOrder(ctx context.Context, orderID string) (store.DeleteResult, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(store.DeleteResult), args.Error(1)
}

type MockSequenceService struct {
	mock.Mock
}

func (m *MockSequenceService) GetRecord(ctx context.Context, kind sequence.Kind, id string) (*sequence.Record, error) {
	args := m.Called(ctx, kind, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sequence.Record), args.Error(1)
}

func (m *MockSequenceService) SetValue(ctx context.Context, kind sequence.Kind, id string, value int64) (store.UpdateResult, error) {
	args := m.Called(ctx, kind, id, value)
	return args.Get(0).(store.UpdateResult), args.Error(1)
}
