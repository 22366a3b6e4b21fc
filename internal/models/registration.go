package models

import "time"

type RegistrationStatus string

const (
	StatusConfirmed RegistrationStatus = "confirmed"
	StatusCancelled RegistrationStatus = "cancelled"
)

// Registration links a user to one EventInstance. Token is the opaque QR
// payload handed to the participant; it is unique across all registrations
// ever issued (enforced by a unique index).
type Registration struct {
	ID         uint               `gorm:"primaryKey" json:"id"`
	InstanceID uint               `gorm:"not null;index" json:"instance_id"`
	UserID     string             `gorm:"not null" json:"user_id"`
	Token      string             `gorm:"type:varchar(36);not null;uniqueIndex" json:"token"`
	Status     RegistrationStatus `gorm:"type:varchar(20);not null;default:'confirmed'" json:"status"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`

	Instance    *EventInstance       `gorm:"foreignKey:InstanceID" json:"instance,omitempty"`
	Attendance  *Attendance          `gorm:"foreignKey:RegistrationID" json:"attendance,omitempty"`
	Assessments []WellnessAssessment `gorm:"foreignKey:RegistrationID" json:"assessments,omitempty"`
}

// Attendance marks a registration as checked in. Absence of a row means the
// registration is still pending; the transition is one-way.
type Attendance struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	RegistrationID uint      `gorm:"not null;uniqueIndex" json:"registration_id"`
	AdminID        string    `gorm:"not null" json:"admin_id"`
	AttendedAt     time.Time `gorm:"not null" json:"attended_at"`
	CreatedAt      time.Time `json:"created_at"`
}
