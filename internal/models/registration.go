package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RegistrationStatus string

const (
	StatusPending  RegistrationStatus = "PENDING"
	StatusApproved RegistrationStatus = "APPROVED"
	StatusRejected RegistrationStatus = "REJECTED"
	StatusWaitlist RegistrationStatus = "WAITLIST"
)

// Valid reports whether s is one of the four registration states.
func (s RegistrationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusWaitlist:
		return true
	}
	return false
}

type Registration struct {
	ID          uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	EventID     uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex:idx_registration_event_user" json:"event_id"`
	Event       *Event             `gorm:"constraint:OnDelete:CASCADE" json:"event,omitempty"`
	UserID      uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex:idx_registration_event_user;index" json:"user_id"`
	User        *User              `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Status      RegistrationStatus `gorm:"not null;index" json:"status"`
	CheckInCode string             `gorm:"not null;uniqueIndex" json:"-"`
	CheckedIn   bool               `gorm:"not null;default:false" json:"checked_in"`
	CheckedInAt *time.Time         `json:"checked_in_at,omitempty"`
	Answers     []Answer           `gorm:"constraint:OnDelete:CASCADE" json:"answers,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

func (registration *Registration) BeforeCreate(tx *gorm.DB) (err error) {
	if registration.ID == uuid.Nil {
		registration.ID = uuid.New()
	}
	return
}

// Decision is an organizer action on an existing registration.
type Decision string

const (
	DecisionApprove  Decision = "approve"
	DecisionReject   Decision = "reject"
	DecisionWaitlist Decision = "waitlist"
)

// Target returns the status a decision moves a registration into.
func (d Decision) Target() (RegistrationStatus, bool) {
	switch d {
	case DecisionApprove:
		return StatusApproved, true
	case DecisionReject:
		return StatusRejected, true
	case DecisionWaitlist:
		return StatusWaitlist, true
	}
	return "", false
}

var transitions = map[RegistrationStatus]map[RegistrationStatus]bool{
	StatusPending: {
		StatusApproved: true,
		StatusRejected: true,
		StatusWaitlist: true,
	},
	StatusWaitlist: {
		StatusApproved: true,
		StatusRejected: true,
	},
	StatusApproved: {
		StatusRejected: true,
		StatusWaitlist: true,
	},
	StatusRejected: {},
}

// CanTransition reports whether an organizer decision may move a
// registration from one status to another. REJECTED is terminal.
func CanTransition(from, to RegistrationStatus) bool {
	return transitions[from][to]
}

// CounterDelta is the change to Event.AttendeeCount when a registration
// moves from one status to another. Creation uses from == "" and deletion
// uses to == "".
func CounterDelta(from, to RegistrationStatus) int {
	wasApproved := from == StatusApproved
	isApproved := to == StatusApproved
	switch {
	case !wasApproved && isApproved:
		return 1
	case wasApproved && !isApproved:
		return -1
	default:
		return 0
	}
}
