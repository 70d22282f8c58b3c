package testutils

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"

	"github.com/naufalhakim/product-management-api/internal/api/middleware"
	"github.com/naufalhakim/product-management-api/internal/models"
)

// NewAuthedRequest builds a request carrying claims for the given role, the
// way Authenticate would leave it.
func NewAuthedRequest(method, target string, body io.Reader, userID int64, role models.UserRole, pathParams map[string]string) *http.Request {
	req := httptest.NewRequest(method, target, body)

	for key, value := range pathParams {
		req.SetPathValue(key, value)
	}

	claims := &models.Claims{UserID: userID, Email: "test@example.com", Role: role}

	ctx := context.WithValue(req.Context(), middleware.UserContextKey, claims)
	ctx = middleware.ContextWithLogger(ctx, slog.New(slog.NewTextHandler(io.Discard, nil)))

	return req.WithContext(ctx)
}

func NewRequest(method, target string, body io.Reader, pathParams map[string]string) *http.Request {
	req := httptest.NewRequest(method, target, body)

	for key, value := range pathParams {
		req.SetPathValue(key, value)
	}

	ctx := middleware.ContextWithLogger(req.Context(), slog.New(slog.NewTextHandler(io.Discard, nil)))

	return req.WithContext(ctx)
}
