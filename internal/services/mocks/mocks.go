// Package mocks provides testify mocks for the service interfaces.
package mocks

import (
	"context"
	"mime/multipart"
	"testing"

	"github.com/naufalhakim/product-management-api/internal/models"
	repository "github.com/naufalhakim/product-management-api/internal/repositories"
	"github.com/stretchr/testify/mock"
)

type MockProductService struct {
	mock.Mock
}

func NewMockProductService(t *testing.T) *MockProductService {
	m := &MockProductService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockProductService) CreateProduct(ctx context.Context, req *models.CreateProductRequest) (*models.Product, error) {
	args := m.Called(ctx, req)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductService) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	args := m.Called(ctx, id)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductService) UpdateProduct(ctx context.Context, id int64, req *models.UpdateProductRequest) (*models.Product, error) {
	args := m.Called(ctx, id, req)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductService) UpdateProductStatus(ctx context.Context, id int64, req *models.UpdateProductStatusRequest) (*models.Product, error) {
	args := m.Called(ctx, id, req)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductService) AdjustStock(ctx context.Context, id int64, req *models.UpdateProductStockRequest) (*models.Product, error) {
	args := m.Called(ctx, id, req)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductService) DeleteProduct(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}

func (m *MockProductService) ListProducts(ctx context.Context, opts repository.ProductListOptions) ([]*models.Product, int64, error) {
	args := m.Called(ctx, opts)

	var products []*models.Product
	if args.Get(0) != nil {
		products = args.Get(0).([]*models.Product)
	}

	return products, args.Get(1).(int64), args.Error(2)
}

type MockUserService struct {
	mock.Mock
}

func NewMockUserService(t *testing.T) *MockUserService {
	m := &MockUserService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockUserService) CreateUser(ctx context.Context, req *models.CreateUserRequest) (*models.User, error) {
	args := m.Called(ctx, req)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) UpdateUser(ctx context.Context, id int64, req *models.UpdateUserRequest) (*models.User, error) {
	args := m.Called(ctx, id, req)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) DeleteUser(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}

func (m *MockUserService) ListUsers(ctx context.Context, opts repository.UserListOptions) ([]*models.User, int64, error) {
	args := m.Called(ctx, opts)

	var users []*models.User
	if args.Get(0) != nil {
		users = args.Get(0).([]*models.User)
	}

	return users, args.Get(1).(int64), args.Error(2)
}

type MockAuthService struct {
	mock.Mock
}

func NewMockAuthService(t *testing.T) *MockAuthService {
	m := &MockAuthService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockAuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	args := m.Called(ctx, req)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.LoginResponse), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context) *models.MessageResponse {
	args := m.Called(ctx)

	return args.Get(0).(*models.MessageResponse)
}

func (m *MockAuthService) EnsureAdmin(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}

type MockUploadService struct {
	mock.Mock
}

func NewMockUploadService(t *testing.T) *MockUploadService {
	m := &MockUploadService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockUploadService) SaveImage(ctx context.Context, header *multipart.FileHeader) (*models.FileUploadResponse, error) {
	args := m.Called(ctx, header)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.FileUploadResponse), args.Error(1)
}

func (m *MockUploadService) SaveImages(ctx context.Context, headers []*multipart.FileHeader) (*models.MultipleFileUploadResponse, error) {
	args := m.Called(ctx, headers)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.MultipleFileUploadResponse), args.Error(1)
}
