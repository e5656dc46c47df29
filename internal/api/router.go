package api

import (
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/openshelf/library-system/internal/api/handler"
	"github.com/openshelf/library-system/internal/core/service"
	"github.com/openshelf/library-system/internal/infrastructure/db/postgres"
	redisdb "github.com/openshelf/library-system/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(pool *pgxpool.Pool, rdb *redis.Client, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("library"))

	// --- Dependencies ---
	userRepo := postgres.NewUserRepository(pool)
	bookRepo := postgres.NewBookRepository(pool)
	loanRepo := postgres.NewLoanRepository(pool)
	auditRepo := postgres.NewAuditRepository(pool)
	statsRepo := postgres.NewStatsRepository(pool)
	idemStore := redisdb.NewIdempotencyStore(rdb)

	auditService := service.NewAuditService(auditRepo, log)
	userService := service.NewUserService(userRepo, loanRepo, auditService, log)
	bookService := service.NewBookService(bookRepo, auditService, log)
	loanService := service.NewLoanService(loanRepo, userRepo, bookRepo, auditService, idemStore, log)

	userHandler := handler.NewUserHandler(userService)
	bookHandler := handler.NewBookHandler(bookService)
	loanHandler := handler.NewLoanHandler(loanService)
	auditHandler := handler.NewAuditHandler(auditService)
	healthHandler := handler.NewHealthHandler(pool, rdb, statsRepo)

	// --- Routes ---
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"message": "Library Management System API"})
	})

	e.GET("/health", healthHandler.Health)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	e.POST("/users", userHandler.Create)
	e.GET("/users", userHandler.List)
	e.GET("/users/:id", userHandler.Get)

	e.POST("/books", bookHandler.Create)
	e.GET("/books", bookHandler.List)
	e.GET("/books/:id", bookHandler.Get)
	e.PATCH("/books/:id", bookHandler.Update)

	e.POST("/loans", loanHandler.Create)
	e.GET("/loans", loanHandler.List)
	e.GET("/loans/overdue", loanHandler.ListOverdue)
	e.GET("/loans/:id", loanHandler.Get)
	e.PATCH("/loans/:id/return", loanHandler.Return)

	e.GET("/audit-logs", auditHandler.List)
	e.GET("/audit-logs/:id", auditHandler.Get)

	return e
}
