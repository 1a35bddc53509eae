package services

import (
	"errors"
	"strings"
)

type ErrorKind string

const (
	KindValidation   ErrorKind = "VALIDATION"
	KindConflict     ErrorKind = "CONFLICT"
	KindNotFound     ErrorKind = "NOT_FOUND"
	KindForbidden    ErrorKind = "FORBIDDEN"
	KindCapacityFull ErrorKind = "CAPACITY_FULL"
	KindInternal     ErrorKind = "INTERNAL"
)

// Error is a business-rule rejection. Every Error is returned before any
// mutation is committed.
type Error struct {
	Kind    ErrorKind
	Message string
	Details []string
}

func (e *Error) Error() string {
	if len(e.Details) == 0 {
		return e.Message
	}
	return e.Message + ": " + strings.Join(e.Details, "; ")
}

func newError(kind ErrorKind, message string, details ...string) *Error {
	return &Error{Kind: kind, Message: message, Details: details}
}

// KindOf classifies err. Anything that is not an *Error is a storage or
// programming failure and reports KindInternal.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

var (
	ErrEventNotFound        = newError(KindNotFound, "Event not found")
	ErrRegistrationNotFound = newError(KindNotFound, "Registration not found")
	ErrAlreadyRegistered    = newError(KindConflict, "You are already registered for this event")
	ErrPrivateEvent         = newError(KindForbidden, "This event is private")
	ErrOrganizerRegistering = newError(KindValidation, "Organizers cannot register for their own event")
	ErrEventStarted         = newError(KindValidation, "Event has already started")
	ErrEventEnded           = newError(KindValidation, "Event has already ended")
	ErrEventFull            = newError(KindValidation, "Event is at full capacity")
	ErrApprovalCapacityFull = newError(KindCapacityFull, "Event has reached its capacity limit")
	ErrCancelAfterStart     = newError(KindValidation, "Cannot cancel registration after the event has started")
	ErrAlreadyCheckedIn     = newError(KindConflict, "Attendee has already checked in")
	ErrCheckInNotFound      = newError(KindNotFound, "No registration found for this event")
	ErrInvalidDecision      = newError(KindValidation, "Action must be one of approve, reject or waitlist")
	ErrCheckInKeyMissing    = newError(KindValidation, "A check-in code or email is required")
)
