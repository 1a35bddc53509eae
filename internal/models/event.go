package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

type Event struct {
	ID              uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Title           string     `gorm:"not null" json:"title"`
	Description     string     `gorm:"not null" json:"description"`
	Location        string     `json:"location"`
	StartTime       time.Time  `gorm:"not null" json:"start_time"`
	EndTime         time.Time  `gorm:"not null" json:"end_time"`
	MaxAttendees    *int       `json:"max_attendees"`
	RequireApproval bool       `gorm:"not null;default:false" json:"require_approval"`
	Visibility      Visibility `gorm:"not null;default:'public'" json:"visibility"`
	AttendeeCount   int        `gorm:"not null;default:0" json:"attendee_count"`
	UserID          uuid.UUID  `gorm:"type:uuid;not null;index" json:"organizer_id"`
	User            User       `json:"-"`
	Questions       []Question `gorm:"constraint:OnDelete:CASCADE" json:"questions,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (event *Event) BeforeCreate(tx *gorm.DB) (err error) {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Visibility == "" {
		event.Visibility = VisibilityPublic
	}
	return
}

// IsPrivate reports whether only the organizer may see and register.
func (event *Event) IsPrivate() bool {
	return event.Visibility == VisibilityPrivate
}

// IsOrganizer reports whether userID owns the event.
func (event *Event) IsOrganizer(userID uuid.UUID) bool {
	return event.UserID == userID
}

// HasCapacityLimit reports whether MaxAttendees bounds approved registrations.
func (event *Event) HasCapacityLimit() bool {
	return event.MaxAttendees != nil
}
