package models

import "time"

type RecurrenceKind string

const (
	RecurrenceSingle   RecurrenceKind = "single"
	RecurrenceWeekly   RecurrenceKind = "weekly"
	RecurrenceInterval RecurrenceKind = "interval"
)

// Event is the session template owned by an administrator. Concrete
// occurrences live in EventInstance rows generated from the recurrence rule.
type Event struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Name         string         `gorm:"not null" json:"name"`
	Description  string         `json:"description"`
	TimeOfDay    string         `gorm:"type:varchar(5);not null" json:"time_of_day"` // "15:04"
	Capacity     int            `gorm:"not null" json:"capacity"`
	Recurrence   RecurrenceKind `gorm:"type:varchar(20);not null" json:"recurrence"`
	Weekdays     string         `gorm:"type:varchar(20)" json:"weekdays,omitempty"` // "1,3,5", weekly only
	IntervalDays int            `json:"interval_days,omitempty"`
	StartDate    time.Time      `gorm:"not null" json:"start_date"`
	EndDate      *time.Time     `json:"end_date,omitempty"`
	AdminID      string         `gorm:"not null" json:"admin_id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`

	Instances []EventInstance `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"instances,omitempty"`
}

// EventInstance is one concrete occurrence of an Event. Registered is the
// capacity ledger counter; it is only ever mutated under a row lock by the
// registration service.
type EventInstance struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	EventID      uint      `gorm:"not null;uniqueIndex:idx_instance_event_time" json:"event_id"`
	StartsAt     time.Time `gorm:"not null;uniqueIndex:idx_instance_event_time" json:"starts_at"`
	Capacity     int       `gorm:"not null" json:"capacity"`
	Registered   int       `gorm:"not null;default:0" json:"registered"`
	RuleMismatch bool      `gorm:"not null;default:false" json:"rule_mismatch"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Available returns the number of free seats.
func (i *EventInstance) Available() int {
	return i.Capacity - i.Registered
}

// IsFull returns true when no seats remain.
func (i *EventInstance) IsFull() bool {
	return i.Registered >= i.Capacity
}
