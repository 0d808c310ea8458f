// internal/handler/simulator_handler.go
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"perimeter-monitor/internal/simulator"
	"perimeter-monitor/internal/utils"
	"perimeter-monitor/pkg/analytics"
)

// SimulatorHandler exposes the sensor simulator control surface
type SimulatorHandler struct {
	simulator *simulator.Service
	logger    *utils.ServiceLogger
}

// NewSimulatorHandler creates a new simulator handler
func NewSimulatorHandler(sim *simulator.Service, logger *zap.Logger) *SimulatorHandler {
	return &SimulatorHandler{
		simulator: sim,
		logger:    utils.NewServiceLogger(logger, "simulator-handler"),
	}
}

// TriggerEventRequest is the manual trigger payload
type TriggerEventRequest struct {
	EventType string `json:"eventType"`
	RiskLevel string `json:"riskLevel"`
	SensorID  string `json:"sensorId,omitempty"`
}

// RegisterRoutes registers simulator routes
func (h *SimulatorHandler) RegisterRoutes(router *gin.RouterGroup) {
	sim := router.Group("/simulator")
	{
		sim.GET("/state", h.GetState)
		sim.POST("/start", h.Start)
		sim.POST("/stop", h.Stop)
		sim.POST("/trigger-event", h.TriggerEvent)
	}
}

// GetState returns the simulator status
// @Summary Simulator state
// @Tags Simulator
// @Produce json
// @Success 200 {object} utils.APIResponse{data=simulator.State} "Simulator state"
// @Router /simulator/state [get]
func (h *SimulatorHandler) GetState(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "", h.simulator.State())
}

// Start begins periodic generation
// @Summary Start simulation
// @Description Starts periodic generation. Starting a running simulator is a no-op.
// @Tags Simulator
// @Produce json
// @Success 200 {object} utils.APIResponse{data=simulator.State} "Simulation started"
// @Router /simulator/start [post]
func (h *SimulatorHandler) Start(c *gin.Context) {
	message := "Simulation started"
	if !h.simulator.Start() {
		message = "Simulation already running"
	}
	utils.SuccessResponse(c, http.StatusOK, message, h.simulator.State())
}

// Stop halts periodic generation
// @Summary Stop simulation
// @Description Stops periodic generation. Stopping a stopped simulator is a no-op.
// @Tags Simulator
// @Produce json
// @Success 200 {object} utils.APIResponse{data=simulator.State} "Simulation stopped"
// @Router /simulator/stop [post]
func (h *SimulatorHandler) Stop(c *gin.Context) {
	message := "Simulation stopped"
	if !h.simulator.Stop() {
		message = "Simulation already stopped"
	}
	utils.SuccessResponse(c, http.StatusOK, message, h.simulator.State())
}

// TriggerEvent generates and delivers one event immediately
// @Summary Trigger event
// @Description Generates one event of the given type and risk from a sensor and delivers it to the backend
// @Tags Simulator
// @Accept json
// @Produce json
// @Param request body TriggerEventRequest true "Event type and risk level"
// @Success 200 {object} utils.APIResponse{data=events.Event} "Event sent successfully"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Failure 502 {object} utils.APIResponse "Backend delivery failed"
// @Router /simulator/trigger-event [post]
func (h *SimulatorHandler) TriggerEvent(c *gin.Context) {
	var req TriggerEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	event, err := h.simulator.Trigger(c.Request.Context(), req.EventType, req.RiskLevel, req.SensorID)
	if err != nil {
		var verr *analytics.ValidationError
		if errors.As(err, &verr) {
			utils.ValidationErrorResponse(c, verr.Fields)
			return
		}
		utils.LogError(requestLogger(c, h.logger), "Failed to deliver triggered event", err)
		utils.ErrorResponse(c, http.StatusBadGateway, "Failed to send event", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Event sent successfully", event)
}
