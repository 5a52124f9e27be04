package router

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/anonto42/pulse/backend/internal/handlers"
	"github.com/anonto42/pulse/backend/internal/middleware"
	"github.com/anonto42/pulse/backend/internal/repositories"
	"github.com/anonto42/pulse/backend/internal/services"
	"github.com/anonto42/pulse/backend/internal/views"
	"github.com/anonto42/pulse/backend/pkg/logger"
	"github.com/anonto42/pulse/backend/pkg/session"
)

// Deps is everything the routes need.
type Deps struct {
	DB       *gorm.DB
	Services *services.Services
	Views    views.Invalidator
	Sessions *session.Manager
	Verifier handlers.IdentityVerifier // nil disables login
}

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo, ratePerSecond float64) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	e.Use(eMiddleware.RequestIDWithConfig(eMiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLogger())
	if ratePerSecond > 0 {
		e.Use(eMiddleware.RateLimiter(eMiddleware.NewRateLimiterMemoryStore(rate.Limit(ratePerSecond))))
	}
	logger.Sugar.Info("Global middleware configured.")
}

// SetupRoutes migrates the schema and registers every route
func SetupRoutes(e *echo.Echo, d Deps) error {
	if err := repositories.AutoMigrate(d.DB); err != nil {
		return fmt.Errorf("failed to auto migrate models: %w", err)
	}
	logger.Sugar.Info("Auto-migrations completed for all models.")

	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	inv := d.Views
	if inv == nil {
		inv = views.Nop{}
	}

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck(sqlDB))

	authGroup := e.Group("/api/v1/auth")
	handlers.NewAuthHandler(d.Verifier, d.Services.Users, d.Sessions).RegisterAuthRoutes(authGroup)

	// Reads work anonymously; a valid token personalizes them.
	public := e.Group("/api/v1", middleware.OptionalAuth(d.Sessions))
	protected := e.Group("/api/v1", middleware.RequireAuth(d.Sessions))

	handlers.NewPostHandler(d.Services.Posts, inv).RegisterPostRoutes(public, protected)
	handlers.NewLikeHandler(d.Services.Likes).RegisterLikeRoutes(public, protected)
	handlers.NewCommentHandler(d.Services.Comments).RegisterCommentRoutes(public, protected)
	handlers.NewFollowHandler(d.Services.Follows).RegisterFollowRoutes(public, protected)
	handlers.NewUserHandler(d.Services.Users, d.Services.Posts, inv).RegisterProfileRoutes(public, protected)
	handlers.NewNotificationHandler(d.Services.Notifications, inv).RegisterNotificationRoutes(protected)

	logger.Sugar.Info("All routes configured.")
	return nil
}
