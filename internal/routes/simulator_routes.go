// internal/routes/simulator_routes.go
package routes

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"perimeter-monitor/internal/config"
	"perimeter-monitor/internal/handler"
	"perimeter-monitor/internal/simulator"
	"perimeter-monitor/internal/utils"
)

// SimulatorRouter holds the dependencies of the simulator HTTP API
type SimulatorRouter struct {
	config    *config.Config
	logger    *zap.Logger
	simulator *simulator.Service
	backend   *simulator.Client
}

// NewSimulatorRouter creates a new simulator router. backend may be nil, in
// which case the health check does not probe the backend.
func NewSimulatorRouter(
	config *config.Config,
	logger *zap.Logger,
	sim *simulator.Service,
	backend *simulator.Client,
) *SimulatorRouter {
	return &SimulatorRouter{
		config:    config,
		logger:    logger,
		simulator: sim,
		backend:   backend,
	}
}

// SetupRouter creates and configures the Gin router
func (r *SimulatorRouter) SetupRouter() *gin.Engine {
	setGinMode(r.config)

	router := gin.New()
	addMiddleware(router, r.config, r.logger, "simulator-http")

	healthHandler := handler.NewHealthHandler(r.config, r.logger)
	if r.backend != nil {
		healthHandler.AddCheck("backend", func(ctx context.Context) (map[string]interface{}, error) {
			data := map[string]interface{}{"url": r.config.Simulator.BackendURL}
			return data, r.backend.Ping(ctx)
		})
	}
	healthHandler.RegisterRoutes(&router.RouterGroup)

	handler.NewSimulatorHandler(r.simulator, r.logger).RegisterRoutes(router.Group("/api"))
	addMetricsRoute(router)

	router.GET("/", func(c *gin.Context) {
		utils.SuccessResponse(c, http.StatusOK, "Perimeter sensor simulator", gin.H{
			"service": r.config.App.Name,
			"version": r.config.App.Version,
			"endpoints": gin.H{
				"state":   "/api/simulator/state",
				"start":   "/api/simulator/start",
				"stop":    "/api/simulator/stop",
				"trigger": "/api/simulator/trigger-event",
				"health":  "/health",
				"metrics": "/metrics",
			},
		})
	})

	addFallback(router)
	r.logger.Info("Simulator routes configured successfully")
	return router
}
