package dto

import (
	"strconv"
	"strings"
	"time"

	"github.com/wellkit/session-service/internal/models"
)

type CreateEventRequest struct {
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	TimeOfDay    string     `json:"time_of_day"`
	Capacity     int        `json:"capacity"`
	Recurrence   string     `json:"recurrence"`
	Weekdays     []int      `json:"weekdays,omitempty"`
	IntervalDays int        `json:"interval_days,omitempty"`
	StartDate    time.Time  `json:"start_date"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	AdminID      string     `json:"admin_id"`
}

func (r CreateEventRequest) ToModel() *models.Event {
	days := make([]string, len(r.Weekdays))
	for i, d := range r.Weekdays {
		days[i] = strconv.Itoa(d)
	}
	return &models.Event{
		Name:         r.Name,
		Description:  r.Description,
		TimeOfDay:    r.TimeOfDay,
		Capacity:     r.Capacity,
		Recurrence:   models.RecurrenceKind(r.Recurrence),
		Weekdays:     strings.Join(days, ","),
		IntervalDays: r.IntervalDays,
		StartDate:    r.StartDate,
		EndDate:      r.EndDate,
		AdminID:      r.AdminID,
	}
}

type RegisterRequest struct {
	UserID string `json:"user_id"`
}

type CancelRequest struct {
	UserID string `json:"user_id"`
}

type CheckInRequest struct {
	Token   string `json:"token"`
	AdminID string `json:"admin_id"`
}

type CompleteAssessmentRequest struct {
	SleepQuality int `json:"sleep_quality"`
	StressLevel  int `json:"stress_level"`
	Mood         int `json:"mood"`
}

type UpdateCapacityRequest struct {
	Capacity int `json:"capacity"`
}
