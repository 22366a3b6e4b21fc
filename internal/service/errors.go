package service

import "errors"

// Caller-visible failures. Each maps to a distinct, stable message so the
// presentation layer can render appropriate feedback.
var (
	ErrEventNotFound         = errors.New("event not found")
	ErrInstanceNotFound      = errors.New("session not found")
	ErrRegistrationNotFound  = errors.New("registration not found")
	ErrAssessmentNotFound    = errors.New("assessment not found")
	ErrInstancePast          = errors.New("session has already taken place")
	ErrAlreadyRegistered     = errors.New("you already have a ticket for this session")
	ErrCapacityExceeded      = errors.New("this session is full")
	ErrNotOwner              = errors.New("registration belongs to another user")
	ErrAlreadyCancelled      = errors.New("registration is already cancelled")
	ErrAlreadyAttended       = errors.New("attendance has already been recorded")
	ErrPreAssessmentMissing  = errors.New("pre-session assessment must be completed before check-in")
	ErrAlreadyCompleted      = errors.New("assessment has already been completed")
	ErrInvalidMetric         = errors.New("metric values must be between 1 and 10")
	ErrIncompleteAssessments = errors.New("both pre and post assessments must be completed")
	ErrCapacityBelowBooked   = errors.New("capacity cannot be lowered below the registered count")
)

// ErrInvariantViolation marks a broken atomicity guarantee (token collision,
// ledger counter out of bounds). It is not a normal user-facing failure; it is
// logged for operator attention.
var ErrInvariantViolation = errors.New("registration ledger invariant violated")
