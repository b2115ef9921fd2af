package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/rverbytskyi/planora/internal/app"
	iauth "github.com/rverbytskyi/planora/internal/auth"
	"github.com/rverbytskyi/planora/internal/geo"
	"github.com/rverbytskyi/planora/internal/handlers"
	"github.com/rverbytskyi/planora/internal/middleware"
	"github.com/rverbytskyi/planora/internal/notifications"
	"github.com/rverbytskyi/planora/internal/scheduler"
	"github.com/rverbytskyi/planora/internal/services"
)

// Deps bundles the shared components the router wires into handlers.
type Deps struct {
	DB        *gorm.DB
	Config    *app.Config
	JWT       *iauth.JWTService
	Hub       *notifications.Hub
	Trips     *services.TripService
	Status    *services.TripStatusService
	Weather   *services.WeatherService
	Geocoding *geo.GeocodingClient
	Nominatim *geo.NominatimClient
	Maps      *geo.MapsClient
	Reminder  *scheduler.Reminder
}

// NewRouter builds the Gin engine, wires middleware and registers routes.
func NewRouter(deps Deps) (*gin.Engine, error) {
	if deps.DB == nil {
		return nil, fmt.Errorf("database handle must be provided")
	}
	if deps.JWT == nil {
		return nil, fmt.Errorf("jwt service must be provided")
	}
	if deps.Config == nil {
		return nil, fmt.Errorf("config must be provided")
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS())

	// Health endpoint (public)
	if deps.Config.Monitoring.Health.Enabled {
		r.GET("/health", handlers.Health(deps.DB))
	}

	authHandler, err := handlers.NewAuthHandler(deps.DB, deps.JWT)
	if err != nil {
		return nil, err
	}

	// Public auth routes
	auth := r.Group("/api/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}

	// Protected routes
	requireAuth := middleware.Auth(deps.JWT)

	api := r.Group("/api")
	api.Use(requireAuth)

	api.GET("/auth/me", authHandler.Me)

	if err := registerCatalogRoutes(api, deps); err != nil {
		return nil, err
	}
	if err := registerTripRoutes(api, deps); err != nil {
		return nil, err
	}
	if err := registerNotificationRoutes(api, deps); err != nil {
		return nil, err
	}
	registerGeoRoutes(api, deps)
	if err := registerSearchRoutes(api, deps); err != nil {
		return nil, err
	}
	registerAdminRoutes(api, deps)

	// Metrics endpoint
	if deps.Config.Monitoring.Prometheus.Enabled {
		endpoint := deps.Config.Monitoring.Prometheus.Endpoint
		if endpoint == "" {
			endpoint = "/metrics"
		}
		r.GET(endpoint, gin.WrapH(promhttp.Handler()))
	}

	// NotFound fallback
	r.NoRoute(middleware.NotFoundHandler)

	return r, nil
}
