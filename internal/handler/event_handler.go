package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/wellkit/session-service/internal/dto"
	"github.com/wellkit/session-service/internal/recurrence"
	"github.com/wellkit/session-service/internal/service"
)

type EventHandler struct {
	svc service.ScheduleService
}

func NewEventHandler(svc service.ScheduleService) *EventHandler {
	return &EventHandler{svc: svc}
}

func (h *EventHandler) RegisterRoutes(e *echo.Echo) {
	events := e.Group("/api/v1/events")
	events.POST("", h.CreateEvent)
	events.GET("", h.ListEvents)
	events.GET("/:id", h.GetEvent)
	events.POST("/:id/regenerate", h.RegenerateInstances)
	events.GET("/:id/instances", h.ListInstances)

	e.PATCH("/api/v1/instances/:id/capacity", h.UpdateInstanceCapacity)
}

func (h *EventHandler) CreateEvent(c echo.Context) error {
	var req dto.CreateEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}
	if req.Capacity < 1 {
		return echo.NewHTTPError(http.StatusBadRequest, "capacity must be at least 1")
	}
	if req.AdminID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "admin_id is required")
	}
	if req.StartDate.IsZero() {
		return echo.NewHTTPError(http.StatusBadRequest, "start_date is required")
	}

	event := req.ToModel()
	if err := h.svc.CreateEvent(c.Request().Context(), event); err != nil {
		if errors.Is(err, recurrence.ErrInvalidPattern) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, event)
}

func (h *EventHandler) ListEvents(c echo.Context) error {
	events, err := h.svc.ListEvents(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, events)
}

func (h *EventHandler) GetEvent(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid event id")
	}

	event, err := h.svc.GetEvent(c.Request().Context(), uint(id))
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, event)
}

func (h *EventHandler) RegenerateInstances(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid event id")
	}

	instances, err := h.svc.RegenerateInstances(c.Request().Context(), uint(id))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, recurrence.ErrInvalidPattern):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(http.StatusOK, instances)
}

func (h *EventHandler) ListInstances(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid event id")
	}

	instances, err := h.svc.ListInstances(c.Request().Context(), uint(id))
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, instances)
}

func (h *EventHandler) UpdateInstanceCapacity(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid instance id")
	}

	var req dto.UpdateCapacityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Capacity < 1 {
		return echo.NewHTTPError(http.StatusBadRequest, "capacity must be at least 1")
	}

	instance, err := h.svc.UpdateInstanceCapacity(c.Request().Context(), uint(id), req.Capacity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInstanceNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrCapacityBelowBooked):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(http.StatusOK, instance)
}
