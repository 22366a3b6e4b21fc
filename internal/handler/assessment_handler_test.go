package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/wellkit/session-service/internal/dto"
	"github.com/wellkit/session-service/internal/models"
	"github.com/wellkit/session-service/internal/service"
)

type mockWellnessService struct {
	completeFn func(ctx context.Context, assessmentID uint, metrics models.AssessmentMetrics) (*models.WellnessAssessment, error)
	impactFn   func(ctx context.Context, registrationID uint) (*models.WellnessImpact, error)
}

func (m *mockWellnessService) CompleteAssessment(ctx context.Context, assessmentID uint, metrics models.AssessmentMetrics) (*models.WellnessAssessment, error) {
	return m.completeFn(ctx, assessmentID, metrics)
}
func (m *mockWellnessService) ComputeImpact(ctx context.Context, registrationID uint) (*models.WellnessImpact, error) {
	return m.impactFn(ctx, registrationID)
}

func TestComplete_Handler_Success(t *testing.T) {
	sleep, stress, mood := 7, 5, 6
	svc := &mockWellnessService{
		completeFn: func(ctx context.Context, assessmentID uint, metrics models.AssessmentMetrics) (*models.WellnessAssessment, error) {
			return &models.WellnessAssessment{
				ID:             assessmentID,
				RegistrationID: 1,
				Type:           models.AssessmentPost,
				Status:         models.AssessmentCompleted,
				SleepQuality:   &sleep,
				StressLevel:    &stress,
				Mood:           &mood,
			}, nil
		},
	}

	e := echo.New()
	body := `{"sleep_quality":7,"stress_level":5,"mood":6}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/assessments/2/complete", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("2")

	h := NewAssessmentHandler(svc)
	err := h.Complete(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp dto.AssessmentResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, models.AssessmentCompleted, resp.Status)
	assert.Equal(t, 7, *resp.SleepQuality)
}

func TestComplete_Handler_ErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"not found", service.ErrAssessmentNotFound, http.StatusNotFound},
		{"already completed", service.ErrAlreadyCompleted, http.StatusConflict},
		{"invalid metric", service.ErrInvalidMetric, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockWellnessService{
				completeFn: func(ctx context.Context, assessmentID uint, metrics models.AssessmentMetrics) (*models.WellnessAssessment, error) {
					return nil, tc.err
				},
			}

			e := echo.New()
			body := `{"sleep_quality":7,"stress_level":5,"mood":6}`
			req := httptest.NewRequest(http.MethodPost, "/api/v1/assessments/2/complete", strings.NewReader(body))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			c.SetParamNames("id")
			c.SetParamValues("2")

			h := NewAssessmentHandler(svc)
			err := h.Complete(c)

			he, ok := err.(*echo.HTTPError)
			assert.True(t, ok)
			assert.Equal(t, tc.code, he.Code)
		})
	}
}

func TestImpact_Handler_Success(t *testing.T) {
	svc := &mockWellnessService{
		impactFn: func(ctx context.Context, registrationID uint) (*models.WellnessImpact, error) {
			return &models.WellnessImpact{
				RegistrationID:     registrationID,
				SleepQualityChange: 3,
				StressLevelChange:  -3,
				MoodChange:         3,
				OverallImpact:      3,
			}, nil
		},
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/registrations/1/impact", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")

	h := NewAssessmentHandler(svc)
	err := h.Impact(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp models.WellnessImpact
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.SleepQualityChange)
	assert.Equal(t, -3, resp.StressLevelChange)
	assert.InDelta(t, 3.0, resp.OverallImpact, 1e-9)
}

func TestImpact_Handler_Incomplete(t *testing.T) {
	svc := &mockWellnessService{
		impactFn: func(ctx context.Context, registrationID uint) (*models.WellnessImpact, error) {
			return nil, service.ErrIncompleteAssessments
		},
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/registrations/1/impact", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("1")

	h := NewAssessmentHandler(svc)
	err := h.Impact(c)

	he, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}
