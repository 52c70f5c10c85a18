// Package http assembles the gin engine: middleware chain, repositories,
// services, handlers and routes.
package http

import (
	"log/slog"
	"time"

	"github.com/geocoder89/staffhub/internal/auth"
	"github.com/geocoder89/staffhub/internal/config"
	"github.com/geocoder89/staffhub/internal/departments"
	"github.com/geocoder89/staffhub/internal/domain/user"
	"github.com/geocoder89/staffhub/internal/http/handlers"
	"github.com/geocoder89/staffhub/internal/http/middlewares"
	"github.com/geocoder89/staffhub/internal/observability"
	"github.com/geocoder89/staffhub/internal/redisclient"
	"github.com/geocoder89/staffhub/internal/repo/postgres"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const (
	maxBodyBytes    = 1 << 20 // JSON payloads here are small
	authRateLimit   = 10
	authRateWindow  = time.Minute
	readinessPingTO = 2 * time.Second
)

func NewRouter(log *slog.Logger, pool *pgxpool.Pool, cfg config.Config, redis *redisclient.Client) *gin.Engine {
	if cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(log))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middlewares.RequireJSON())
	r.Use(middlewares.MaxBodyBytes(maxBodyBytes))
	r.Use(otelgin.Middleware("staffhub"))

	reg := prometheus.NewRegistry()
	prom := observability.NewProm(reg)
	r.Use(prom.GinHandleMiddleware())

	usersRepo := postgres.NewUsersRepo(pool).WithMetrics(prom)
	departmentsRepo := postgres.NewDepartmentsRepo(pool).WithMetrics(prom)
	sessionsRepo := postgres.NewSessionsRepo(pool).WithMetrics(prom)

	jwtManager := auth.NewManager(cfg.JWTSecret, cfg.AccessTTL(), cfg.RefreshTTL())
	authMW := middlewares.NewAuthMiddleware(jwtManager)

	lifecycle := departments.NewService(departmentsRepo, usersRepo)

	authHandler := handlers.NewAuthHandler(
		usersRepo, sessionsRepo, jwtManager, cfg.RefreshTTL(), cfg.Env == "prod", log)
	departmentsHandler := handlers.NewDepartmentsHandler(lifecycle, log)
	employeesHandler := handlers.NewEmployeesHandler(usersRepo, departmentsRepo, log)

	healthHandler := handlers.NewHealthHandler(func() error {
		ctx, cancel := config.WithTimeout(readinessPingTO)
		defer cancel()

		return pool.Ping(ctx)
	})

	var authLimiter middlewares.Limiter = middlewares.NewRateLimiter(authRateLimit, authRateWindow)

	if redis != nil {
		authLimiter = middlewares.NewRedisRateLimiter(redis.Raw(), authRateLimit, authRateWindow)
	}

	r.GET("/healthz", healthHandler.Healthz)
	r.GET("/readyz", healthHandler.Readyz)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	authGroup := r.Group("/auth")
	authGroup.Use(authLimiter.RateLimiterMiddleware(middlewares.KeyByIP))
	{
		authGroup.POST("/signup", authHandler.SignUp)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
		authGroup.POST("/logout", authHandler.Logout)
	}

	employees := r.Group("/employees")
	employees.Use(authMW.RequireAuth())
	{
		employees.GET("/me", employeesHandler.Me)
		employees.GET("", authMW.RequireRole(user.RoleManager), employeesHandler.ListAll)
	}

	depts := r.Group("/departments")
	depts.Use(authMW.RequireAuth(), authMW.RequireRole(user.RoleManager))
	{
		depts.POST("", departmentsHandler.Create)
		depts.GET("", departmentsHandler.List)
		depts.PUT("/:id", departmentsHandler.Update)
		depts.DELETE("/:id", departmentsHandler.Delete)
	}

	return r
}
