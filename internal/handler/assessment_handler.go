package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/wellkit/session-service/internal/dto"
	"github.com/wellkit/session-service/internal/models"
	"github.com/wellkit/session-service/internal/service"
)

type AssessmentHandler struct {
	svc service.WellnessService
}

func NewAssessmentHandler(svc service.WellnessService) *AssessmentHandler {
	return &AssessmentHandler{svc: svc}
}

func (h *AssessmentHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/v1/assessments/:id/complete", h.Complete)
	e.GET("/api/v1/registrations/:id/impact", h.Impact)
}

func (h *AssessmentHandler) Complete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid assessment id")
	}

	var req dto.CompleteAssessmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	metrics := models.AssessmentMetrics{
		SleepQuality: req.SleepQuality,
		StressLevel:  req.StressLevel,
		Mood:         req.Mood,
	}
	a, err := h.svc.CompleteAssessment(c.Request().Context(), uint(id), metrics)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAssessmentNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrAlreadyCompleted):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		case errors.Is(err, service.ErrInvalidMetric):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusOK, dto.ToAssessmentResponse(a))
}

func (h *AssessmentHandler) Impact(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid registration id")
	}

	impact, err := h.svc.ComputeImpact(c.Request().Context(), uint(id))
	if err != nil {
		if errors.Is(err, service.ErrIncompleteAssessments) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, impact)
}
