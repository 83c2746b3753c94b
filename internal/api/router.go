package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/medstock/inventory-tracker/docs"
	"github.com/medstock/inventory-tracker/internal/api/handler"
	"github.com/medstock/inventory-tracker/internal/api/middleware"
	"github.com/medstock/inventory-tracker/internal/core/authz"
	"github.com/medstock/inventory-tracker/internal/core/ports"
)

// Dependencies are the collaborators the HTTP layer is built from.
type Dependencies struct {
	Logger    zerolog.Logger
	JWTSecret string
	Guard     *authz.Guard

	Auth        ports.AuthService
	Users       ports.UserService
	Stock       ports.StockService
	Allocations ports.AllocationService
	Movements   ports.MovementService
	Reports     ports.ReportService
	Exporter    ports.ReportExporter

	// Idempotency is optional; nil disables Idempotency-Key replay.
	Idempotency handler.IdempotencyStore
	// Health maps dependency names to readiness probes.
	Health map[string]handler.Pinger

	// Registerer and Gatherer back the HTTP metrics; nil uses the
	// Prometheus defaults.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
//
// @title                       Medical Stock Inventory API
// @version                     1.0
// @description                 Role-based pharmaceutical stock tracking: stock items, allocations to users and an append-only movement ledger.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Logger))
	reg, gatherer := deps.Registerer, deps.Gatherer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "medstock",
		Registerer: reg,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	guard := deps.Guard
	if guard == nil {
		guard = authz.NewGuard()
	}
	allow := func(op authz.Operation) echo.MiddlewareFunc { return middleware.RBAC(guard, op) }

	authHandler := handler.NewAuthHandler(deps.Auth)
	userHandler := handler.NewUserHandler(deps.Users)
	stockHandler := handler.NewStockHandler(deps.Stock)
	allocationHandler := handler.NewAllocationHandler(deps.Allocations, deps.Idempotency, deps.Logger)
	movementHandler := handler.NewMovementHandler(deps.Movements)
	reportHandler := handler.NewReportHandler(deps.Reports, deps.Exporter)
	healthHandler := handler.NewHealthHandler(deps.Health)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register, middleware.OptionalAuth(deps.JWTSecret))
	e.POST("/auth/login", authHandler.Login)

	// --- Protected API ---
	g := e.Group("/api", middleware.Auth(deps.JWTSecret))
	g.GET("/me", authHandler.Me)

	g.GET("/users", userHandler.List, allow(authz.OpListUsers))
	g.GET("/users/role/:role", userHandler.ListByRole, allow(authz.OpListUsersByRole))

	g.GET("/stock", stockHandler.List, allow(authz.OpReadStock))
	g.POST("/stock", stockHandler.Create, allow(authz.OpCreateStock))
	g.GET("/stock/expiring/:days", stockHandler.ListExpiring, allow(authz.OpListExpiringStock))
	g.GET("/stock/low/:threshold", stockHandler.ListLowStock, allow(authz.OpListLowStock))
	g.GET("/stock/unique/:number", stockHandler.GetByUniqueNumber, allow(authz.OpReadStock))
	g.GET("/stock/:id", stockHandler.Get, allow(authz.OpReadStock))
	g.PUT("/stock/:id", stockHandler.Update, allow(authz.OpUpdateStock))

	g.GET("/allocations", allocationHandler.List, allow(authz.OpListAllocations))
	g.POST("/allocations", allocationHandler.Create, allow(authz.OpCreateAllocation))
	g.GET("/allocations/user/:id", allocationHandler.ListForUser, allow(authz.OpListAllocationsForUser))
	g.PUT("/allocations/:id/status", allocationHandler.UpdateStatus, allow(authz.OpUpdateAllocationStatus))

	g.GET("/movements", movementHandler.List, allow(authz.OpListMovements))
	g.GET("/movements/stock/:id", movementHandler.ListForStockItem, allow(authz.OpListStockMovements))

	g.GET("/reports/summary", reportHandler.Summary, allow(authz.OpViewReports))
	g.GET("/reports/export", reportHandler.Export, allow(authz.OpViewReports))

	// --- Health probes and operational endpoints (no auth required) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger emits one structured line per request through zerolog.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Status >= 500 {
				evt = log.Error().Err(v.Error)
			}
			evt.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
