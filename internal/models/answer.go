package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Answer holds the raw text submitted for one question. Checkbox answers
// are a JSON array of the selected options.
type Answer struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	RegistrationID uuid.UUID `gorm:"type:uuid;not null;index" json:"registration_id"`
	QuestionID     uuid.UUID `gorm:"type:uuid;not null;index" json:"question_id"`
	Question       *Question `gorm:"constraint:OnDelete:CASCADE" json:"question,omitempty"`
	Value          string    `gorm:"type:text;not null" json:"value"`
}

func (answer *Answer) BeforeCreate(tx *gorm.DB) (err error) {
	if answer.ID == uuid.Nil {
		answer.ID = uuid.New()
	}
	return
}
