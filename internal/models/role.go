package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleOrganizer = "organizer"
	RoleAttendee  = "attendee"
	RoleAdmin     = "admin"
)

type Role struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"-"`
	Name      string    `gorm:"unique;not null" json:"name"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (role *Role) BeforeCreate(tx *gorm.DB) (err error) {
	if role.ID == uuid.Nil {
		role.ID = uuid.New()
	}
	return
}
