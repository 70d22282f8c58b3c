package service

import (
	"context"
	"database/sql"
	goerrors "errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/naufalhakim/product-management-api/internal/config"
	"github.com/naufalhakim/product-management-api/internal/errors"
	"github.com/naufalhakim/product-management-api/internal/models"
	repository "github.com/naufalhakim/product-management-api/internal/repositories"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
	Logout(ctx context.Context) *models.MessageResponse
	EnsureAdmin(ctx context.Context) error
}

type authService struct {
	repo      repository.UserRepository
	rateLimit repository.RateLimitRepository
	cfg       *config.Config
}

func NewAuthService(repo repository.UserRepository, rateLimit repository.RateLimitRepository, cfg *config.Config) AuthService {
	return &authService{
		repo:      repo,
		rateLimit: rateLimit,
		cfg:       cfg,
	}
}

func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {

	allowed, _, retryAfter, err := s.rateLimit.CheckLoginRateLimit(ctx, req.Email)
	if err != nil {
		return nil, errors.InternalError("Rate limit check failed").WithError(err)
	}

	if !allowed {
		return nil, errors.TooManyRequestsError("Too many login attempts").
			WithDetail(fmt.Sprintf("Retry after %d seconds", retryAfter))
	}

	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		// Same answer for unknown email and wrong password.
		return nil, errors.UnauthorizedError("Invalid email or password")
	}

	if user.StatusUser != models.UserStatusAktif {
		return nil, errors.ForbiddenError("User account is inactive")
	}

	accessToken, err := s.signToken(user, s.cfg.Security.AccessTokenTTL)
	if err != nil {
		return nil, errors.InternalError("Failed to generate authentication token").WithError(err)
	}

	refreshToken, err := s.signToken(user, s.cfg.Security.RefreshTokenTTL)
	if err != nil {
		return nil, errors.InternalError("Failed to generate refresh token").WithError(err)
	}

	return &models.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		User: models.UserInfo{
			ID:         user.ID,
			Email:      user.Email,
			Nama:       user.Nama,
			Role:       user.Role,
			StatusUser: user.StatusUser,
		},
	}, nil
}

func (s *authService) signToken(user *models.User, ttl time.Duration) (string, error) {

	claims := &models.Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(s.cfg.Security.JWTKey))
}

// Logout is stateless; tokens stay valid until they expire and the client
// simply drops them.
func (s *authService) Logout(_ context.Context) *models.MessageResponse {
	return &models.MessageResponse{Message: "Successfully logged out"}
}

// EnsureAdmin seeds the configured admin account on startup so a fresh
// deployment always has a way in.
func (s *authService) EnsureAdmin(ctx context.Context) error {

	_, err := s.repo.GetUserByEmail(ctx, s.cfg.Admin.Email)
	if err == nil {
		return nil
	}

	if !goerrors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("look up admin account: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(s.cfg.Admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin := &models.User{
		Nama:       s.cfg.Admin.Name,
		NoTelepon:  "0000000000",
		Email:      s.cfg.Admin.Email,
		Password:   string(hashedPassword),
		Role:       models.RoleAdmin,
		StatusUser: models.UserStatusAktif,
	}

	if err := s.repo.CreateUser(ctx, admin); err != nil {
		return fmt.Errorf("create admin account: %w", err)
	}

	slog.Info("Seeded admin account", slog.String("email", admin.Email))

	return nil
}
