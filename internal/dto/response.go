package dto

import (
	"time"

	"github.com/wellkit/session-service/internal/models"
)

type RegistrationResponse struct {
	ID          uint                      `json:"id"`
	InstanceID  uint                      `json:"instance_id"`
	UserID      string                    `json:"user_id"`
	Token       string                    `json:"token"`
	Status      models.RegistrationStatus `json:"status"`
	CreatedAt   time.Time                 `json:"created_at"`
	Attendance  *AttendanceResponse       `json:"attendance,omitempty"`
	Assessments []AssessmentResponse      `json:"assessments,omitempty"`
}

type AttendanceResponse struct {
	RegistrationID uint      `json:"registration_id"`
	AdminID        string    `json:"admin_id"`
	AttendedAt     time.Time `json:"attended_at"`
}

type AssessmentResponse struct {
	ID             uint                    `json:"id"`
	RegistrationID uint                    `json:"registration_id"`
	Type           models.AssessmentType   `json:"type"`
	Status         models.AssessmentStatus `json:"status"`
	SleepQuality   *int                    `json:"sleep_quality,omitempty"`
	StressLevel    *int                    `json:"stress_level,omitempty"`
	Mood           *int                    `json:"mood,omitempty"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}

func ToRegistrationResponse(reg *models.Registration) RegistrationResponse {
	resp := RegistrationResponse{
		ID:         reg.ID,
		InstanceID: reg.InstanceID,
		UserID:     reg.UserID,
		Token:      reg.Token,
		Status:     reg.Status,
		CreatedAt:  reg.CreatedAt,
	}
	if reg.Attendance != nil {
		att := ToAttendanceResponse(reg.Attendance)
		resp.Attendance = &att
	}
	for _, a := range reg.Assessments {
		resp.Assessments = append(resp.Assessments, ToAssessmentResponse(&a))
	}
	return resp
}

func ToAttendanceResponse(att *models.Attendance) AttendanceResponse {
	return AttendanceResponse{
		RegistrationID: att.RegistrationID,
		AdminID:        att.AdminID,
		AttendedAt:     att.AttendedAt,
	}
}

func ToAssessmentResponse(a *models.WellnessAssessment) AssessmentResponse {
	return AssessmentResponse{
		ID:             a.ID,
		RegistrationID: a.RegistrationID,
		Type:           a.Type,
		Status:         a.Status,
		SleepQuality:   a.SleepQuality,
		StressLevel:    a.StressLevel,
		Mood:           a.Mood,
	}
}
