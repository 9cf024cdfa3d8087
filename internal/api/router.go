package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"github.com/uptrace/bun"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/vitrine/catalog-admin/docs"
	"github.com/vitrine/catalog-admin/internal/api/handler"
	"github.com/vitrine/catalog-admin/internal/api/middleware"
	"github.com/vitrine/catalog-admin/internal/core/ports"
	"github.com/vitrine/catalog-admin/internal/core/service"
	"github.com/vitrine/catalog-admin/internal/infrastructure/db/sqldb"
)

// Dependencies groups everything the router wires into handlers. Mongo,
// Redis, Throttle and Activity are optional.
type Dependencies struct {
	DB    *bun.DB
	Mongo *mongo.Database
	Redis *redis.Client

	Hasher   ports.PasswordHasher
	Tokens   TokenManager
	Throttle ports.LoginThrottle
	Activity ports.ActivityRecorder

	// Registry receives the HTTP metrics and is served on /metrics next to
	// the global collectors. Nil means the global registry.
	Registry *prometheus.Registry
	Log      zerolog.Logger
}

// TokenManager issues and verifies session tokens.
type TokenManager interface {
	ports.TokenIssuer
	ports.TokenVerifier
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	activity := deps.Activity
	if activity == nil {
		activity = ports.NopRecorder{}
	}
	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if deps.Registry != nil {
		registerer = deps.Registry
		gatherer = prometheus.Gatherers{deps.Registry, prometheus.DefaultGatherer}
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "catalog_admin",
		Registerer: registerer,
	}))

	// --- Dependencies ---
	admins := sqldb.NewAdminRepository(deps.DB)
	users := sqldb.NewUserRepository(deps.DB)
	products := sqldb.NewProductRepository(deps.DB)
	categories := sqldb.NewCategoryRepository(deps.DB)
	subcategories := sqldb.NewSubCategoryRepository(deps.DB)

	authService := service.NewAuthService(service.AuthDeps{
		Admins:   admins,
		Users:    users,
		Hasher:   deps.Hasher,
		Issuer:   deps.Tokens,
		Throttle: deps.Throttle,
		Activity: activity,
		Log:      deps.Log,
	})
	productService := service.NewProductService(products, categories, subcategories, deps.Log)
	categoryService := service.NewCategoryService(categories, subcategories, deps.Log)

	authHandler := handler.NewAuthHandler(authService)
	productHandler := handler.NewProductHandler(productService)
	categoryHandler := handler.NewCategoryHandler(categoryService)

	authenticated := middleware.Auth(deps.Tokens)
	adminOnly := []echo.MiddlewareFunc{
		middleware.Audit(activity),
		authenticated,
		middleware.RequireAdmin(),
	}

	// --- Auth routes ---
	e.POST("/login", authHandler.Login)
	e.POST("/cadastro", authHandler.Register)
	e.GET("/check-email", authHandler.CheckEmail)
	e.GET("/user", authHandler.Me, authenticated)

	// --- Catalog: public reads ---
	e.GET("/product", productHandler.List)
	e.GET("/product/:id", productHandler.Get)
	e.GET("/product/name/:name", productHandler.SearchByName)
	e.GET("/category", categoryHandler.List)
	e.GET("/category/:id", categoryHandler.Get)
	e.GET("/subcategory", categoryHandler.ListSubCategories)

	// --- Catalog: admin writes ---
	e.POST("/add_product", productHandler.Create, adminOnly...)
	e.PUT("/product/:id", productHandler.Update, adminOnly...)
	e.DELETE("/product/:id", productHandler.Delete, adminOnly...)
	e.POST("/category", categoryHandler.Create, adminOnly...)
	e.PUT("/category/:id", categoryHandler.Update, adminOnly...)
	e.DELETE("/category/:id", categoryHandler.Delete, adminOnly...)
	e.POST("/subcategory", categoryHandler.CreateSubCategory, adminOnly...)
	e.PUT("/subcategory/:id", categoryHandler.UpdateSubCategory, adminOnly...)
	e.DELETE("/subcategory/:id", categoryHandler.DeleteSubCategory, adminOnly...)

	// --- Health probes, metrics and docs (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.DB, deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
