// Package mocks provides testify mocks for the repository interfaces.
package mocks

import (
	"context"

	"github.com/naufalhakim/product-management-api/internal/models"
	repository "github.com/naufalhakim/product-management-api/internal/repositories"
	"github.com/stretchr/testify/mock"
)

type ProductRepository struct {
	mock.Mock
}

func (m *ProductRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)

	return args.Error(0)
}

func (m *ProductRepository) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	args := m.Called(ctx, id)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *ProductRepository) UpdateProduct(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)

	return args.Error(0)
}

func (m *ProductRepository) DeleteProduct(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}

func (m *ProductRepository) ListProducts(ctx context.Context, opts repository.ProductListOptions) ([]*models.Product, int64, error) {
	args := m.Called(ctx, opts)

	var products []*models.Product
	if args.Get(0) != nil {
		products = args.Get(0).([]*models.Product)
	}

	return products, args.Get(1).(int64), args.Error(2)
}

func (m *ProductRepository) AdjustStock(ctx context.Context, id, adjustment int64, op models.StockOperation) (*models.Product, error) {
	args := m.Called(ctx, id, adjustment, op)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Product), args.Error(1)
}

type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) CreateUser(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)

	return args.Error(0)
}

func (m *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepository) UpdateUser(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)

	return args.Error(0)
}

func (m *UserRepository) DeleteUser(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}

func (m *UserRepository) ListUsers(ctx context.Context, opts repository.UserListOptions) ([]*models.User, int64, error) {
	args := m.Called(ctx, opts)

	var users []*models.User
	if args.Get(0) != nil {
		users = args.Get(0).([]*models.User)
	}

	return users, args.Get(1).(int64), args.Error(2)
}

func (m *UserRepository) EmailExists(ctx context.Context, email string, excludeID int64) (bool, error) {
	args := m.Called(ctx, email, excludeID)

	return args.Bool(0), args.Error(1)
}

type RateLimitRepository struct {
	mock.Mock
}

func (m *RateLimitRepository) CheckLoginRateLimit(ctx context.Context, email string) (bool, int, int, error) {
	args := m.Called(ctx, email)

	return args.Bool(0), args.Int(1), args.Int(2), args.Error(3)
}
