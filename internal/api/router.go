package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/c-library/catalog-admin/internal/api/handler"
	"github.com/c-library/catalog-admin/internal/api/middleware"
	"github.com/c-library/catalog-admin/internal/core/domain"
	"github.com/c-library/catalog-admin/internal/core/ports"
	"github.com/c-library/catalog-admin/internal/core/service"
)

// RouterConfig carries the assembled collaborators the router wires into
// routes. MongoDB, Redis, and StatsCache may be nil when the service runs on
// the in-memory store.
type RouterConfig struct {
	Logger      zerolog.Logger
	JWTSecret   string
	AuthService ports.AuthService
	UserService ports.UserService
	Catalog     ports.CatalogClient
	Session     *service.Session
	Denylist    ports.TokenDenylist
	StatsCache  handler.StatsCache
	MongoDB     *mongo.Database
	Redis       *redis.Client
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(cfg.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("catalog_admin"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(cfg.AuthService)
	sessionHandler := handler.NewSessionHandler(cfg.Session)
	navHandler := handler.NewNavHandler()
	userHandler := handler.NewUserHandler(cfg.UserService)
	catalogHandler := handler.NewCatalogHandler(cfg.Catalog, cfg.StatsCache, cfg.Logger)

	authRequired := middleware.Auth(cfg.JWTSecret, cfg.Denylist)

	// --- Auth routes ---
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout, authRequired)

	// --- Session tracker (no token required: it reports its own state) ---
	e.GET("/v1/session", sessionHandler.Get)
	e.POST("/v1/session/refresh", sessionHandler.Refresh)
	e.POST("/v1/session/logout", sessionHandler.Logout)

	v1 := e.Group("/v1", authRequired)

	v1.GET("/navigation", navHandler.Get)

	// User management is permission-governed; the navigation entry for it is
	// role-governed (see service.VisibleNav). Both checks are deliberate.
	users := v1.Group("/users", middleware.RequirePermission(domain.PermManageUsers))
	users.GET("", userHandler.List)
	users.POST("", userHandler.Add)
	users.GET("/:id", userHandler.Get)
	users.PUT("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete)
	users.POST("/:id/password", userHandler.ChangePassword)

	v1.GET("/permissions", userHandler.Permissions, middleware.RequirePermission(domain.PermManageUsers))
	v1.PUT("/profile", userHandler.UpdateProfile)

	// --- Catalog relays, one permission per area ---
	v1.GET("/stats", catalogHandler.Stats, middleware.RequirePermission(domain.PermViewDashboard))

	theses := v1.Group("/theses", middleware.RequirePermission(domain.PermManageTheses))
	theses.GET("/latest", catalogHandler.LatestTheses)
	theses.GET("/search", catalogHandler.SearchTheses)
	theses.GET("/years", catalogHandler.ThesisYears)
	theses.POST("", catalogHandler.AddThesis)
	theses.PUT("/:id", catalogHandler.UpdateThesis)
	theses.DELETE("/:id", catalogHandler.ArchiveThesis)

	archive := v1.Group("/archive", middleware.RequirePermission(domain.PermManageArchive))
	archive.GET("", catalogHandler.ArchivedTheses)
	archive.POST("/:id/restore", catalogHandler.RestoreArchivedThesis)
	archive.DELETE("/:id", catalogHandler.PermanentlyDeleteThesis)

	unis := v1.Group("", middleware.RequirePermission(domain.PermManageUnis))
	unis.GET("/universities", catalogHandler.Universities)
	unis.GET("/specializations", catalogHandler.Specializations)
	unis.GET("/degrees", catalogHandler.Degrees)
	unis.GET("/universities-with-specializations", catalogHandler.UniversitiesWithSpecializations)
	unis.POST("/universities/:id/specializations", catalogHandler.AddSpecialization)

	reserved := v1.Group("/reserved-titles", middleware.RequirePermission(domain.PermManageReserved))
	reserved.GET("", catalogHandler.LatestReservedTitles)
	reserved.GET("/search", catalogHandler.SearchReservedTitles)
	reserved.POST("", catalogHandler.AddReservedTitle)
	reserved.PUT("/:id", catalogHandler.UpdateReservedTitle)
	reserved.DELETE("/:id", catalogHandler.DeleteReservedTitle)

	// --- Health probes and operational endpoints (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(cfg.MongoDB, cfg.Redis)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
