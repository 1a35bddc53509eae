package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QuestionType string

const (
	QuestionTypeText     QuestionType = "text"
	QuestionTypeEmail    QuestionType = "email"
	QuestionTypePhone    QuestionType = "phone"
	QuestionTypeTextarea QuestionType = "textarea"
	QuestionTypeSelect   QuestionType = "select"
	QuestionTypeRadio    QuestionType = "radio"
	QuestionTypeCheckbox QuestionType = "checkbox"
)

// Valid reports whether t is one of the known question types.
func (t QuestionType) Valid() bool {
	switch t {
	case QuestionTypeText, QuestionTypeEmail, QuestionTypePhone, QuestionTypeTextarea,
		QuestionTypeSelect, QuestionTypeRadio, QuestionTypeCheckbox:
		return true
	}
	return false
}

// HasOptions reports whether answers are drawn from a fixed option list.
func (t QuestionType) HasOptions() bool {
	return t == QuestionTypeSelect || t == QuestionTypeRadio || t == QuestionTypeCheckbox
}

type Question struct {
	ID           uuid.UUID    `gorm:"type:uuid;primary_key" json:"id"`
	EventID      uuid.UUID    `gorm:"type:uuid;not null;index" json:"event_id"`
	Text         string       `gorm:"not null" json:"text"`
	Type         QuestionType `gorm:"not null" json:"type"`
	Required     bool         `gorm:"not null;default:false" json:"required"`
	Options      []string     `gorm:"type:text;serializer:json" json:"options,omitempty"`
	DisplayOrder int          `gorm:"not null;default:0" json:"display_order"`
	CreatedAt    time.Time    `json:"created_at"`
}

func (question *Question) BeforeCreate(tx *gorm.DB) (err error) {
	if question.ID == uuid.Nil {
		question.ID = uuid.New()
	}
	return
}

// HasOption reports whether value is one of the declared options.
func (question *Question) HasOption(value string) bool {
	for _, option := range question.Options {
		if option == value {
			return true
		}
	}
	return false
}
