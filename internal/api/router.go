package api

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/gsme/workorder-system/docs"
	"github.com/gsme/workorder-system/internal/api/handler"
	"github.com/gsme/workorder-system/internal/api/middleware"
	"github.com/gsme/workorder-system/internal/core/domain"
	"github.com/gsme/workorder-system/internal/core/gate"
	"github.com/gsme/workorder-system/internal/core/ports"
	"github.com/gsme/workorder-system/internal/core/service"
	"github.com/gsme/workorder-system/internal/infrastructure/db/postgres"
	"github.com/gsme/workorder-system/internal/pkg/config"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(pool *pgxpool.Pool, rdb *redis.Client, store ports.ArtifactStore, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("workorders"))

	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Dependencies ---
	userRepo := postgres.NewUserRepository(pool)
	orderRepo := postgres.NewWorkOrderRepository(pool)

	userService := service.NewUserService(userRepo, cfg.JWTSecret, cfg.AdminAccessKey, 0, log)
	orderService := service.NewWorkOrderService(orderRepo, store, nil, log)

	authHandler := handler.NewAuthHandler(userService)
	userHandler := handler.NewUserHandler(userService)
	orderHandler := handler.NewWorkOrderHandler(orderService)

	authMiddleware := middleware.Auth(cfg.JWTSecret)
	adminOnly := middleware.Require(gate.Role(domain.RoleAdmin))
	subordinateOnly := middleware.Require(gate.Role(domain.RoleSubordinate))
	loggedIn := middleware.Require(gate.Authenticated())

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Work order and user routes ---
	v1 := e.Group("/v1", authMiddleware)

	v1.POST("/workorders", orderHandler.Create, adminOnly)
	v1.GET("/workorders", orderHandler.List, loggedIn)
	v1.DELETE("/workorders/:id", orderHandler.Delete, adminOnly)
	v1.POST("/workorders/:id/delivery", orderHandler.Deliver, subordinateOnly)
	v1.GET("/workorders/:id/artifact", orderHandler.Artifact, adminOnly)

	v1.POST("/users", userHandler.Create, adminOnly)
	v1.GET("/users", userHandler.List, adminOnly)
	v1.DELETE("/users/:username", userHandler.Delete, adminOnly)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(pool, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
