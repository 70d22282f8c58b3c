package service

import (
	"context"
	"database/sql"
	goerrors "errors"

	"github.com/naufalhakim/product-management-api/internal/errors"
	"github.com/naufalhakim/product-management-api/internal/models"
	repository "github.com/naufalhakim/product-management-api/internal/repositories"
	"golang.org/x/crypto/bcrypt"
)

type UserService interface {
	CreateUser(ctx context.Context, req *models.CreateUserRequest) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	UpdateUser(ctx context.Context, id int64, req *models.UpdateUserRequest) (*models.User, error)
	DeleteUser(ctx context.Context, id int64) error
	ListUsers(ctx context.Context, opts repository.UserListOptions) ([]*models.User, int64, error)
}

type userService struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) CreateUser(ctx context.Context, req *models.CreateUserRequest) (*models.User, error) {

	exists, err := s.repo.EmailExists(ctx, req.Email, 0)
	if err != nil {
		return nil, errors.DatabaseError("Failed to check email").WithError(err)
	}

	if exists {
		return nil, errors.DuplicateEntryError("Email already registered")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.InternalError("Failed to secure password").WithError(err)
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}

	status := req.StatusUser
	if status == "" {
		status = models.UserStatusAktif
	}

	user := &models.User{
		Nama:         req.Nama,
		NoTelepon:    req.NoTelepon,
		Email:        req.Email,
		Password:     string(hashedPassword),
		Role:         role,
		StatusUser:   status,
		PhotoProfile: req.PhotoProfile,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, errors.DatabaseError("Failed to create user").WithError(err)
	}

	return user, nil
}

func (s *userService) GetUserByID(ctx context.Context, id int64) (*models.User, error) {

	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, errors.NotFoundError("User not found").WithError(err)
	}

	return user, nil
}

func (s *userService) UpdateUser(ctx context.Context, id int64, req *models.UpdateUserRequest) (*models.User, error) {

	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, errors.NotFoundError("User not found").WithError(err)
	}

	if req.Email != nil && *req.Email != user.Email {
		exists, err := s.repo.EmailExists(ctx, *req.Email, id)
		if err != nil {
			return nil, errors.DatabaseError("Failed to check email").WithError(err)
		}

		if exists {
			return nil, errors.DuplicateEntryError("Email already registered")
		}

		user.Email = *req.Email
	}

	if req.Nama != nil {
		user.Nama = *req.Nama
	}

	if req.NoTelepon != nil {
		user.NoTelepon = *req.NoTelepon
	}

	if req.Password != nil {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, errors.InternalError("Failed to secure password").WithError(err)
		}

		user.Password = string(hashedPassword)
	}

	if req.Role != nil {
		user.Role = *req.Role
	}

	if req.StatusUser != nil {
		user.StatusUser = *req.StatusUser
	}

	if req.PhotoProfile != nil {
		user.PhotoProfile = req.PhotoProfile
	}

	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return nil, errors.DatabaseError("Failed to update user").WithError(err)
	}

	return user, nil
}

func (s *userService) DeleteUser(ctx context.Context, id int64) error {

	if err := s.repo.DeleteUser(ctx, id); err != nil {
		if goerrors.Is(err, sql.ErrNoRows) {
			return errors.NotFoundError("User not found").WithError(err)
		}

		return errors.DatabaseError("Failed to delete user").WithError(err)
	}

	return nil
}

func (s *userService) ListUsers(ctx context.Context, opts repository.UserListOptions) ([]*models.User, int64, error) {

	users, total, err := s.repo.ListUsers(ctx, opts)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to fetch users").WithError(err)
	}

	return users, total, nil
}
