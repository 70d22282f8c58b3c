package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
)

type UserStatus string

const (
	UserStatusAktif    UserStatus = "aktif"
	UserStatusNonaktif UserStatus = "nonaktif"
)

type User struct {
	ID           int64      `json:"id"`
	Nama         string     `json:"nama"`
	NoTelepon    string     `json:"no_telepon"`
	Email        string     `json:"email"`
	Password     string     `json:"-"`
	Role         UserRole   `json:"role"`
	StatusUser   UserStatus `json:"status_user"`
	PhotoProfile *string    `json:"photo_profile"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type CreateUserRequest struct {
	Nama         string     `json:"nama" validate:"required,min=1,max=255"`
	NoTelepon    string     `json:"no_telepon" validate:"required,min=10,max=20"`
	Email        string     `json:"email" validate:"required,email"`
	Password     string     `json:"password" validate:"required,min=6"`
	Role         UserRole   `json:"role" validate:"omitempty,oneof=admin user"`
	StatusUser   UserStatus `json:"status_user" validate:"omitempty,oneof=aktif nonaktif"`
	PhotoProfile *string    `json:"photo_profile,omitempty"`
}

type UpdateUserRequest struct {
	Nama         *string     `json:"nama,omitempty" validate:"omitempty,min=1,max=255"`
	NoTelepon    *string     `json:"no_telepon,omitempty" validate:"omitempty,min=10,max=20"`
	Email        *string     `json:"email,omitempty" validate:"omitempty,email"`
	Password     *string     `json:"password,omitempty" validate:"omitempty,min=6"`
	Role         *UserRole   `json:"role,omitempty" validate:"omitempty,oneof=admin user"`
	StatusUser   *UserStatus `json:"status_user,omitempty" validate:"omitempty,oneof=aktif nonaktif"`
	PhotoProfile *string     `json:"photo_profile,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// user summary embedded in the login response
type UserInfo struct {
	ID         int64      `json:"id"`
	Email      string     `json:"email"`
	Nama       string     `json:"nama"`
	Role       UserRole   `json:"role"`
	StatusUser UserStatus `json:"status_user"`
}

type LoginResponse struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token,omitempty"`
	TokenType    string   `json:"token_type"`
	User         UserInfo `json:"user"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// JWT claims carried by access and refresh tokens
type Claims struct {
	UserID int64    `json:"user_id"`
	Email  string   `json:"email"`
	Role   UserRole `json:"role"`
	jwt.RegisteredClaims
}

func (c *Claims) IsAdmin() bool {
	return c.Role == RoleAdmin
}
