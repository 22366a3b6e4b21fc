package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/wellkit/session-service/internal/dto"
	"github.com/wellkit/session-service/internal/service"
)

type CheckInHandler struct {
	svc service.AttendanceService
}

func NewCheckInHandler(svc service.AttendanceService) *CheckInHandler {
	return &CheckInHandler{svc: svc}
}

func (h *CheckInHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/v1/checkins", h.CheckIn)
}

// CheckIn marks a participant as attended from their scanned token.
func (h *CheckInHandler) CheckIn(c echo.Context) error {
	var req dto.CheckInRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Token == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "token is required")
	}
	if req.AdminID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "admin_id is required")
	}

	att, err := h.svc.MarkAttendance(c.Request().Context(), req.Token, req.AdminID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRegistrationNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrAlreadyAttended):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		case errors.Is(err, service.ErrPreAssessmentMissing):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusCreated, dto.ToAttendanceResponse(att))
}
