// Package router assembles the gin engine: global middleware, the /health
// check and every /api/v1 route.
package router

import (
	"slices"
	"time"

	"github.com/helpapp/marketplace/internal/auth"
	"github.com/helpapp/marketplace/internal/handler"
	"github.com/helpapp/marketplace/internal/middleware"
	"github.com/helpapp/marketplace/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Deps are the collaborators the routes are built from.
type Deps struct {
	Auth     service.AuthService
	Catalog  service.CatalogService
	Bookings service.BookingService
	Reviews  service.ReviewService

	Authenticator  *auth.Authenticator
	Store          handler.Pinger
	RateLimit      gin.HandlerFunc
	AllowedOrigins []string
	Logger         *zap.Logger
}

func New(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(d.Logger))
	r.Use(middleware.RequestLogger(d.Logger))
	r.Use(cors.New(corsConfig(d.AllowedOrigins)))

	limit := d.RateLimit
	if limit == nil {
		limit = func(c *gin.Context) { c.Next() }
	}
	authMW := middleware.JWTAuthMiddleware(d.Authenticator, d.Logger)

	r.GET("/health", handler.Health(d.Store))

	api := r.Group("/api/v1")
	handler.NewAuthHandler(d.Auth, d.Logger).RegisterAuthRoutes(api, authMW, limit)
	handler.NewServiceHandler(d.Catalog, d.Logger).RegisterServiceRoutes(api, authMW)
	handler.NewBookingHandler(d.Bookings, d.Logger).RegisterBookingRoutes(api, authMW)
	handler.NewReviewHandler(d.Reviews, d.Logger).RegisterReviewRoutes(api, authMW)
	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders: []string{"Content-Length", "Retry-After"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
