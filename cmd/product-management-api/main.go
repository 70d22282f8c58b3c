package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/naufalhakim/product-management-api/internal/api/handlers"
	"github.com/naufalhakim/product-management-api/internal/api/middleware"
	"github.com/naufalhakim/product-management-api/internal/config"
	"github.com/naufalhakim/product-management-api/internal/health"
	"github.com/naufalhakim/product-management-api/internal/metrics"
	repository "github.com/naufalhakim/product-management-api/internal/repositories"
	service "github.com/naufalhakim/product-management-api/internal/services"
	"github.com/naufalhakim/product-management-api/internal/storage"
	"github.com/naufalhakim/product-management-api/internal/telemetry"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load config
	cfg := config.MustLoad()

	// Tracing setup
	shutdownTracing, err := telemetry.Setup(context.Background(), cfg)
	if err != nil {
		slog.Error("❌ Error configuring tracing", "error", err.Error())
		os.Exit(1)
	}

	// Database setup
	repos, err := repository.New(cfg)
	if err != nil {
		slog.Error("❌ Error accessing the database", "error", err.Error())
		os.Exit(1)
	}

	// Redis setup
	redisClient, err := repository.NewRedisClient(cfg)
	if err != nil {
		slog.Error("❌ Error accessing the redis instance", "error", err.Error())
		os.Exit(1)
	}

	rateLimitRepo := repository.NewRateLimitRepo(redisClient, cfg)

	defer func() {
		if err := repos.Close(); err != nil {
			slog.Error("⚠️ Error closing database connection", slog.String("error", err.Error()))
		} else {
			slog.Info("✅ Database connection closed")
		}
	}()

	// Upload storage setup
	fileStore, err := storage.NewLocalDisk(cfg.Upload.Dir)
	if err != nil {
		slog.Error("❌ Error preparing the upload directory", "error", err.Error())
		os.Exit(1)
	}

	jwtKey := []byte(cfg.Security.JWTKey)
	userService := service.NewUserService(repos.User)
	userHandler := handlers.NewUserHandler(userService)
	productService := service.NewProductService(repos.Product)
	productHandler := handlers.NewProductHandler(productService)
	authService := service.NewAuthService(repos.User, rateLimitRepo, cfg)
	authHandler := handlers.NewAuthHandler(authService)
	uploadService := service.NewUploadService(fileStore)
	uploadHandler := handlers.NewUploadHandler(uploadService)
	authMiddleware := middleware.NewAuthMiddleware(jwtKey)

	// Seed the admin account so a fresh deployment can log in
	seedCtx, cancelSeed := context.WithTimeout(context.Background(), 10*time.Second)
	if err := authService.EnsureAdmin(seedCtx); err != nil {
		cancelSeed()
		slog.Error("❌ Error seeding the admin account", "error", err.Error())
		os.Exit(1)
	}
	cancelSeed()

	healthHandler, err := health.NewHealthHandler(cfg)
	if err != nil {
		slog.Error("❌ Error configuring health checks", "error", err.Error())
		os.Exit(1)
	}

	slog.Info("storage initialized", slog.String("env", cfg.Env), slog.String("version", "1.0.0"))

	// Setup router
	routerMux := http.NewServeMux()
	routerMux.HandleFunc("POST /api/v1/auth/login", authHandler.Login())
	routerMux.HandleFunc("POST /api/v1/auth/logout", authMiddleware.Authenticate(authHandler.Logout()))
	routerMux.HandleFunc("POST /api/v1/users", authMiddleware.Authenticate(authMiddleware.RequireAdmin(userHandler.CreateUser())))
	routerMux.HandleFunc("GET /api/v1/users", authMiddleware.Authenticate(authMiddleware.RequireAdmin(userHandler.ListUsers())))
	routerMux.HandleFunc("GET /api/v1/users/{id}", authMiddleware.Authenticate(authMiddleware.RequireAdmin(userHandler.GetUser())))
	routerMux.HandleFunc("PUT /api/v1/users/{id}", authMiddleware.Authenticate(authMiddleware.RequireAdmin(userHandler.UpdateUser())))
	routerMux.HandleFunc("DELETE /api/v1/users/{id}", authMiddleware.Authenticate(authMiddleware.RequireAdmin(userHandler.DeleteUser())))
	routerMux.HandleFunc("POST /api/v1/products", authMiddleware.Authenticate(productHandler.CreateProduct()))
	routerMux.HandleFunc("GET /api/v1/products", authMiddleware.Authenticate(productHandler.ListProducts()))
	routerMux.HandleFunc("GET /api/v1/products/{id}", authMiddleware.Authenticate(productHandler.GetProduct()))
	routerMux.HandleFunc("PUT /api/v1/products/{id}", authMiddleware.Authenticate(productHandler.UpdateProduct()))
	routerMux.HandleFunc("PATCH /api/v1/products/{id}/status", authMiddleware.Authenticate(productHandler.UpdateProductStatus()))
	routerMux.HandleFunc("PATCH /api/v1/products/{id}/stock", authMiddleware.Authenticate(productHandler.UpdateProductStock()))
	routerMux.HandleFunc("DELETE /api/v1/products/{id}", authMiddleware.Authenticate(productHandler.DeleteProduct()))
	routerMux.HandleFunc("POST /api/v1/upload/image", authMiddleware.Authenticate(uploadHandler.UploadImage()))
	routerMux.HandleFunc("POST /api/v1/upload/images", authMiddleware.Authenticate(uploadHandler.UploadImages()))
	routerMux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.Upload.Dir))))
	routerMux.Handle("GET /health", healthHandler.Handler())
	routerMux.Handle("GET /metrics", metrics.Handler())

	// Middleware chaining
	var handler http.Handler = routerMux
	handler = middleware.Logging(handler)
	handler = metrics.Middleware(handler)
	handler = otelhttp.NewHandler(handler, "http.server")

	// Setup http server
	server := http.Server{
		Addr:    cfg.Addr,
		Handler: handler,
	}

	slog.Info("🚀 Server is starting...", slog.String("address", cfg.Addr))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("❌ Failed to start server", slog.Any("error", err.Error()))
		}
	}()

	<-done

	slog.Warn("🛑 Shutdown signal received. Preparing to stop the server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("⚠️ Server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("✅ Server shut down gracefully. All connections closed.")
	}

	if err := shutdownTracing(shutdownCtx); err != nil {
		slog.Error("⚠️ Tracing shutdown encountered an issue", slog.String("error", err.Error()))
	}

	if err := redisClient.Close(); err != nil {
		slog.Error("⚠️ Error closing redis connection", slog.String("error", err.Error()))
	}
}
