package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/wellkit/session-service/internal/dto"
	"github.com/wellkit/session-service/internal/service"
)

type RegistrationHandler struct {
	svc service.RegistrationService
}

func NewRegistrationHandler(svc service.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{svc: svc}
}

func (h *RegistrationHandler) RegisterRoutes(e *echo.Echo) {
	instances := e.Group("/api/v1/instances")
	instances.POST("/:id/registrations", h.Register)
	instances.GET("/:id/registrations", h.ListRegistrations)
	instances.GET("/:id/availability", h.Availability)

	e.GET("/api/v1/registrations/:id", h.GetRegistration)
	e.DELETE("/api/v1/registrations/:id", h.Cancel)
}

func (h *RegistrationHandler) Register(c echo.Context) error {
	instanceID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid instance id")
	}

	var req dto.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.UserID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id is required")
	}

	reg, err := h.svc.Register(c.Request().Context(), uint(instanceID), req.UserID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInstanceNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrInstancePast):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrAlreadyRegistered):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		case errors.Is(err, service.ErrCapacityExceeded):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusCreated, dto.ToRegistrationResponse(reg))
}

func (h *RegistrationHandler) Cancel(c echo.Context) error {
	regID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid registration id")
	}

	var req dto.CancelRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.UserID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id is required")
	}

	reg, err := h.svc.Cancel(c.Request().Context(), uint(regID), req.UserID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRegistrationNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrNotOwner):
			return echo.NewHTTPError(http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrAlreadyAttended), errors.Is(err, service.ErrAlreadyCancelled):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		case errors.Is(err, service.ErrInstancePast):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusOK, dto.ToRegistrationResponse(reg))
}

func (h *RegistrationHandler) GetRegistration(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid registration id")
	}

	reg, err := h.svc.GetRegistration(c.Request().Context(), uint(id))
	if err != nil {
		if errors.Is(err, service.ErrRegistrationNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, dto.ToRegistrationResponse(reg))
}

func (h *RegistrationHandler) ListRegistrations(c echo.Context) error {
	instanceID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid instance id")
	}

	regs, err := h.svc.ListByInstance(c.Request().Context(), uint(instanceID))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	resp := make([]dto.RegistrationResponse, len(regs))
	for i, r := range regs {
		resp[i] = dto.ToRegistrationResponse(&r)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *RegistrationHandler) Availability(c echo.Context) error {
	instanceID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid instance id")
	}

	avail, err := h.svc.Availability(c.Request().Context(), uint(instanceID))
	if err != nil {
		if errors.Is(err, service.ErrInstanceNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, avail)
}
