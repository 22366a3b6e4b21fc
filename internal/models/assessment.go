package models

import "time"

type AssessmentType string

const (
	AssessmentPre  AssessmentType = "PRE"
	AssessmentPost AssessmentType = "POST"
)

type AssessmentStatus string

const (
	AssessmentPending   AssessmentStatus = "PENDING"
	AssessmentCompleted AssessmentStatus = "COMPLETED"
)

// WellnessAssessment is one half of the PRE/POST questionnaire pair attached
// to a registration. Metrics are nil until the assessment is completed and
// immutable afterwards. At most one PRE and one POST exist per registration.
type WellnessAssessment struct {
	ID             uint             `gorm:"primaryKey" json:"id"`
	RegistrationID uint             `gorm:"not null;uniqueIndex:idx_assessment_reg_type" json:"registration_id"`
	Type           AssessmentType   `gorm:"type:varchar(4);not null;uniqueIndex:idx_assessment_reg_type" json:"type"`
	Status         AssessmentStatus `gorm:"type:varchar(10);not null;default:'PENDING'" json:"status"`
	SleepQuality   *int             `json:"sleep_quality,omitempty"`
	StressLevel    *int             `json:"stress_level,omitempty"`
	Mood           *int             `json:"mood,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// AssessmentMetrics is the questionnaire payload. Each value is on a 1..10
// scale; stress is inverted (lower is better).
type AssessmentMetrics struct {
	SleepQuality int `json:"sleep_quality"`
	StressLevel  int `json:"stress_level"`
	Mood         int `json:"mood"`
}

// WellnessImpact is derived on demand from a completed PRE/POST pair and is
// never stored.
type WellnessImpact struct {
	RegistrationID     uint    `json:"registration_id"`
	SleepQualityChange int     `json:"sleep_quality_change"`
	StressLevelChange  int     `json:"stress_level_change"`
	MoodChange         int     `json:"mood_change"`
	OverallImpact      float64 `json:"overall_impact"`
}
