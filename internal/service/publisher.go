package service

// Routing keys for domain events published to the message broker.
const (
	RouteRegistrationCreated   = "registration.created"
	RouteRegistrationCancelled = "registration.cancelled"
	RouteAttendanceMarked      = "attendance.marked"
	RouteAssessmentCompleted   = "assessment.completed"
)

// EventPublisher pushes domain events to collaborating services. A nil
// publisher disables publishing.
type EventPublisher interface {
	Publish(routingKey string, payload any) error
}
