// internal/handler/event_handler.go
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"perimeter-monitor/internal/repository"
	"perimeter-monitor/internal/service"
	"perimeter-monitor/internal/utils"
	"perimeter-monitor/pkg/analytics"
)

// EventHandler handles detection event HTTP requests
type EventHandler struct {
	eventService *service.EventService
	logger       *utils.ServiceLogger
}

// NewEventHandler creates a new event handler
func NewEventHandler(eventService *service.EventService, logger *zap.Logger) *EventHandler {
	return &EventHandler{
		eventService: eventService,
		logger:       utils.NewServiceLogger(logger, "event-handler"),
	}
}

// RegisterRoutes registers event routes
func (h *EventHandler) RegisterRoutes(router *gin.RouterGroup) {
	events := router.Group("/events")
	{
		events.GET("", h.ListEvents)
		events.POST("", h.CreateEvent)
		events.GET("/stats", h.GetStatistics)
		events.GET("/timeline", h.GetTimeline)
		events.GET("/trends", h.GetTrends)
		events.DELETE("/clear", h.ClearEvents)
		events.GET("/:id", h.GetEvent)
	}
	router.GET("/catalog", h.GetCatalog)
}

// ListEvents lists events newest first
// @Summary List events
// @Description Get stored detection events, newest first, with optional filters and paging
// @Tags Events
// @Produce json
// @Param eventType query string false "Filter by event type" Enums(all, human, vehicle, animal, noise)
// @Param riskLevel query string false "Filter by risk level" Enums(all, low, medium, high)
// @Param timeRange query string false "Filter by age" Enums(all, hour, day, week)
// @Param q query string false "Case-insensitive match on zone, description and sensor id"
// @Param limit query int false "Maximum number of events"
// @Param offset query int false "Number of events to skip"
// @Success 200 {object} utils.APIResponse{data=[]events.Event} "Events retrieved successfully"
// @Failure 400 {object} utils.APIResponse "Invalid filter"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /events [get]
func (h *EventHandler) ListEvents(c *gin.Context) {
	criteria, ok := h.bindCriteria(c)
	if !ok {
		return
	}

	verr := &analytics.ValidationError{}
	limit := parseNonNegative(c.Query("limit"), "limit", verr)
	offset := parseNonNegative(c.Query("offset"), "offset", verr)
	if verr.OrNil() != nil {
		utils.ValidationErrorResponse(c, verr.Fields)
		return
	}

	list, err := h.eventService.ListEvents(c.Request.Context(), criteria, limit, offset)
	if err != nil {
		utils.LogError(requestLogger(c, h.logger), "Failed to list events", err)
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to list events", err)
		return
	}

	utils.ListResponse(c, list)
}

// CreateEvent stores a new detection event
// @Summary Create event
// @Description Store a detection event. Missing id, timestamp, zone, coordinates, suggestedAction and description are filled in. A missing eventType becomes noise and a missing riskLevel becomes low.
// @Tags Events
// @Accept json
// @Produce json
// @Param request body service.CreateEventRequest true "Detection event"
// @Success 201 {object} utils.APIResponse{data=events.Event} "Event created successfully"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /events [post]
func (h *EventHandler) CreateEvent(c *gin.Context) {
	var req service.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	event, err := h.eventService.CreateEvent(c.Request.Context(), &req)
	if err != nil {
		var verr *analytics.ValidationError
		if errors.As(err, &verr) {
			utils.ValidationErrorResponse(c, verr.Fields)
			return
		}
		utils.LogError(requestLogger(c, h.logger), "Failed to create event", err)
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to create event", err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Event created successfully", event)
}

// GetEvent retrieves a single event
// @Summary Get event
// @Tags Events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} utils.APIResponse{data=events.Event} "Event retrieved successfully"
// @Failure 404 {object} utils.APIResponse "Event not found"
// @Router /events/{id} [get]
func (h *EventHandler) GetEvent(c *gin.Context) {
	event, err := h.eventService.GetEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			utils.NotFoundResponse(c, "Event not found")
			return
		}
		utils.LogError(requestLogger(c, h.logger), "Failed to get event", err)
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to get event", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Event retrieved successfully", event)
}

// GetStatistics aggregates stored events
// @Summary Event statistics
// @Description Totals by risk level and type, events today and last event time. Accepts the list filters.
// @Tags Events
// @Produce json
// @Param eventType query string false "Filter by event type" Enums(all, human, vehicle, animal, noise)
// @Param riskLevel query string false "Filter by risk level" Enums(all, low, medium, high)
// @Param timeRange query string false "Filter by age" Enums(all, hour, day, week)
// @Param q query string false "Case-insensitive match on zone, description and sensor id"
// @Success 200 {object} utils.APIResponse{data=analytics.Statistics} "Statistics retrieved successfully"
// @Failure 400 {object} utils.APIResponse "Invalid filter"
// @Router /events/stats [get]
func (h *EventHandler) GetStatistics(c *gin.Context) {
	criteria, ok := h.bindCriteria(c)
	if !ok {
		return
	}

	stats, err := h.eventService.Statistics(c.Request.Context(), criteria)
	if err != nil {
		utils.LogError(requestLogger(c, h.logger), "Failed to compute statistics", err)
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to compute statistics", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Statistics retrieved successfully", stats)
}

// GetTimeline buckets the last seven days
// @Summary Event timeline
// @Tags Events
// @Produce json
// @Param eventType query string false "Filter by event type" Enums(all, human, vehicle, animal, noise)
// @Param riskLevel query string false "Filter by risk level" Enums(all, low, medium, high)
// @Param timeRange query string false "Filter by age" Enums(all, hour, day, week)
// @Param q query string false "Case-insensitive match on zone, description and sensor id"
// @Success 200 {object} utils.APIResponse{data=[]analytics.DayBucket} "Timeline retrieved successfully"
// @Failure 400 {object} utils.APIResponse "Invalid filter"
// @Router /events/timeline [get]
func (h *EventHandler) GetTimeline(c *gin.Context) {
	criteria, ok := h.bindCriteria(c)
	if !ok {
		return
	}

	buckets, err := h.eventService.Timeline(c.Request.Context(), criteria)
	if err != nil {
		utils.LogError(requestLogger(c, h.logger), "Failed to build timeline", err)
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to build timeline", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Timeline retrieved successfully", buckets)
}

// GetTrends returns the dashboard KPIs
// @Summary Event trends
// @Tags Events
// @Produce json
// @Param eventType query string false "Filter by event type" Enums(all, human, vehicle, animal, noise)
// @Param riskLevel query string false "Filter by risk level" Enums(all, low, medium, high)
// @Param timeRange query string false "Filter by age" Enums(all, hour, day, week)
// @Param q query string false "Case-insensitive match on zone, description and sensor id"
// @Success 200 {object} utils.APIResponse{data=analytics.KPIs} "Trends retrieved successfully"
// @Failure 400 {object} utils.APIResponse "Invalid filter"
// @Router /events/trends [get]
func (h *EventHandler) GetTrends(c *gin.Context) {
	criteria, ok := h.bindCriteria(c)
	if !ok {
		return
	}

	kpis, err := h.eventService.Trends(c.Request.Context(), criteria)
	if err != nil {
		utils.LogError(requestLogger(c, h.logger), "Failed to compute trends", err)
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to compute trends", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Trends retrieved successfully", kpis)
}

// ClearEvents empties the event store
// @Summary Clear events
// @Tags Events
// @Produce json
// @Success 200 {object} utils.APIResponse{data=object{removed=int}} "All events cleared"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /events/clear [delete]
func (h *EventHandler) ClearEvents(c *gin.Context) {
	removed, err := h.eventService.ClearEvents(c.Request.Context(), c.ClientIP())
	if err != nil {
		utils.LogError(requestLogger(c, h.logger), "Failed to clear events", err)
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to clear events", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "All events cleared", gin.H{"removed": removed})
}

// GetCatalog returns enum metadata and the sensor table
// @Summary Reference catalog
// @Tags Catalog
// @Produce json
// @Success 200 {object} utils.APIResponse{data=service.Catalog} "Catalog retrieved successfully"
// @Router /catalog [get]
func (h *EventHandler) GetCatalog(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "Catalog retrieved successfully", h.eventService.Catalog())
}

// bindCriteria parses the filter query parameters, writing a 400 on failure
func (h *EventHandler) bindCriteria(c *gin.Context) (analytics.Criteria, bool) {
	criteria, err := analytics.ParseCriteria(
		c.Query("eventType"),
		c.Query("riskLevel"),
		c.Query("timeRange"),
		c.Query("q"),
	)
	if err != nil {
		var verr *analytics.ValidationError
		if errors.As(err, &verr) {
			utils.ValidationErrorResponse(c, verr.Fields)
		} else {
			utils.ErrorResponse(c, http.StatusBadRequest, "Invalid filter", err)
		}
		return analytics.Criteria{}, false
	}
	return criteria, true
}

func parseNonNegative(raw, field string, verr *analytics.ValidationError) int {
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		verr.Add(field, field+" must be a non-negative integer")
		return 0
	}
	return n
}

// requestLogger scopes a handler logger to the current request id
func requestLogger(c *gin.Context, logger *utils.ServiceLogger) *zap.Logger {
	return utils.LoggerWithRequestID(logger.Logger, c.GetString(utils.RequestIDKey))
}
