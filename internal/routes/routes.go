// internal/routes/routes.go
package routes

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"perimeter-monitor/internal/config"
	"perimeter-monitor/internal/handler"
	"perimeter-monitor/internal/metrics"
	"perimeter-monitor/internal/middleware"
	"perimeter-monitor/internal/service"
	"perimeter-monitor/internal/utils"
)

// Router holds all dependencies for routing
type Router struct {
	config       *config.Config
	logger       *zap.Logger
	eventService *service.EventService
	bus          *handler.EventBus
}

// NewRouter creates a new router instance
func NewRouter(
	config *config.Config,
	logger *zap.Logger,
	eventService *service.EventService,
	bus *handler.EventBus,
) *Router {
	return &Router{
		config:       config,
		logger:       logger,
		eventService: eventService,
		bus:          bus,
	}
}

// SetupRouter creates and configures the Gin router. ctx bounds the live
// stream forwarding.
func (r *Router) SetupRouter(ctx context.Context) *gin.Engine {
	setGinMode(r.config)

	router := gin.New()
	addMiddleware(router, r.config, r.logger, "http-server")
	r.addRoutes(ctx, router)
	addFallback(router)

	return router
}

// addRoutes sets up all application routes
func (r *Router) addRoutes(ctx context.Context, router *gin.Engine) {
	// Create handlers
	healthHandler := handler.NewHealthHandler(r.config, r.logger)
	eventHandler := handler.NewEventHandler(r.eventService, r.logger)
	wsHandler := handler.NewWebSocketHandler(r.eventService, r.config.Security.AllowedOrigins, r.logger)

	healthHandler.AddCheck("event_store", func(ctx context.Context) (map[string]interface{}, error) {
		n, err := r.eventService.Count(ctx)
		return map[string]interface{}{"events": n}, err
	})
	healthHandler.RegisterRoutes(&router.RouterGroup)

	// API v1 routes
	apiV1 := router.Group("/api/v1")
	eventHandler.RegisterRoutes(apiV1)

	// WebSocket routes
	wsHandler.Forward(ctx, r.bus)
	wsHandler.RegisterRoutes(router.Group("/ws"))

	addMetricsRoute(router)
	r.addDocumentationRoutes(router)

	router.GET("/", func(c *gin.Context) {
		utils.SuccessResponse(c, http.StatusOK, "Perimeter monitoring backend", gin.H{
			"service": r.config.App.Name,
			"version": r.config.App.Version,
			"endpoints": gin.H{
				"events":    "/api/v1/events",
				"stats":     "/api/v1/events/stats",
				"timeline":  "/api/v1/events/timeline",
				"trends":    "/api/v1/events/trends",
				"catalog":   "/api/v1/catalog",
				"health":    "/health",
				"websocket": "/ws/events",
				"metrics":   "/metrics",
				"docs":      "/docs",
			},
		})
	})

	r.logger.Info("All routes configured successfully")
}

// addDocumentationRoutes sets up documentation routes
func (r *Router) addDocumentationRoutes(router *gin.Engine) {
	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))

	// Swagger redirect for convenience
	router.GET("/docs", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})
}

func setGinMode(cfg *config.Config) {
	if cfg.IsDebugEnabled() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
}

// addMiddleware adds the shared middleware chain
func addMiddleware(router *gin.Engine, cfg *config.Config, logger *zap.Logger, component string) {
	// Recovery middleware
	router.Use(middleware.RecoveryMiddleware(logger))

	// Request ID middleware
	router.Use(middleware.RequestIDMiddleware())

	// Logging middleware
	serviceLogger := utils.NewServiceLogger(logger, component)
	router.Use(middleware.LoggingMiddleware(serviceLogger, "/health", "/live", "/ready", "/metrics"))

	router.Use(middleware.MetricsMiddleware())

	// CORS middleware
	router.Use(middleware.CORSMiddleware(&cfg.Security))

	logger.Info("Middleware configured")
}

func addMetricsRoute(router *gin.Engine) {
	metrics.Register()
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
}

// addFallback answers unknown routes with the standard error envelope
func addFallback(router *gin.Engine) {
	router.NoRoute(func(c *gin.Context) {
		utils.NotFoundResponse(c, "Route not found: "+c.Request.URL.Path)
	})
}
