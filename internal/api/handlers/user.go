package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/naufalhakim/product-management-api/internal/api/middleware"
	"github.com/naufalhakim/product-management-api/internal/models"
	repository "github.com/naufalhakim/product-management-api/internal/repositories"
	service "github.com/naufalhakim/product-management-api/internal/services"
	"github.com/naufalhakim/product-management-api/internal/utils"
	"github.com/naufalhakim/product-management-api/internal/utils/response"
)

type UserHandler struct {
	userService service.UserService
	validator   *validator.Validate
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService, validator: validator.New()}
}

func (h *UserHandler) CreateUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.CreateUserRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		user, err := h.userService.CreateUser(r.Context(), &req)
		if err != nil {
			logger.Error("User creation failed", slog.String("email", req.Email), slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		logger.Info("User created", slog.Int64("userId", user.ID))
		response.Success(w, http.StatusCreated, user)

	}
}

func (h *UserHandler) GetUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id, err := pathID(r)
		if err != nil {
			response.Error(w, err)

			return
		}

		user, err := h.userService.GetUserByID(r.Context(), id)
		if err != nil {
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, user)

	}
}

func (h *UserHandler) UpdateUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := pathID(r)
		if err != nil {
			response.Error(w, err)

			return
		}

		var req models.UpdateUserRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			return
		}

		user, err := h.userService.UpdateUser(r.Context(), id, &req)
		if err != nil {
			logger.Error("User update failed", slog.Int64("userId", id), slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		logger.Info("User updated", slog.Int64("userId", id))
		response.Success(w, http.StatusOK, user)

	}
}

func (h *UserHandler) DeleteUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := pathID(r)
		if err != nil {
			response.Error(w, err)

			return
		}

		if err := h.userService.DeleteUser(r.Context(), id); err != nil {
			logger.Error("User deletion failed", slog.Int64("userId", id), slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		logger.Info("User deleted", slog.Int64("userId", id))
		response.Success(w, http.StatusOK, models.MessageResponse{Message: "User deleted"})

	}
}

// for eg: GET /users?page=1&limit=10&status=aktif&search=budi
func (h *UserHandler) ListUsers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		query := r.URL.Query()

		opts := repository.UserListOptions{
			Page:      queryInt(r, "page"),
			Limit:     queryInt(r, "limit"),
			Status:    query.Get("status"),
			Search:    query.Get("search"),
			SortBy:    query.Get("sort_by"),
			SortOrder: query.Get("sort_order"),
		}

		users, total, err := h.userService.ListUsers(r.Context(), opts)
		if err != nil {
			logger.Error("Failed to fetch users", slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		if users == nil {
			users = []*models.User{}
		}

		page := repository.NormalizePage(opts.Page)
		limit := repository.NormalizeLimit(opts.Limit)

		response.Success(w, http.StatusOK, models.NewPaginatedResponse(users, total, page, limit))

	}
}
