package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/farellandr/eventhub/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EventService struct {
	db *gorm.DB
}

func NewEventService(db *gorm.DB) *EventService {
	return &EventService{db: db}
}

type EventInput struct {
	Title           string            `json:"title" binding:"required"`
	Description     string            `json:"description" binding:"required"`
	Location        string            `json:"location"`
	StartTime       time.Time         `json:"start_time" binding:"required"`
	EndTime         time.Time         `json:"end_time" binding:"required"`
	MaxAttendees    *int              `json:"max_attendees"`
	RequireApproval bool              `json:"require_approval"`
	Visibility      models.Visibility `json:"visibility"`
}

type QuestionInput struct {
	Text     string              `json:"text" binding:"required"`
	Type     models.QuestionType `json:"type" binding:"required"`
	Required bool                `json:"required"`
	Options  []string            `json:"options"`
}

func (in *EventInput) validate() error {
	var details []string
	if strings.TrimSpace(in.Title) == "" {
		details = append(details, "Title is required")
	}
	if !in.EndTime.After(in.StartTime) {
		details = append(details, "End time must be after start time")
	}
	if in.MaxAttendees != nil && *in.MaxAttendees < 1 {
		details = append(details, "Max attendees must be at least 1")
	}
	switch in.Visibility {
	case "", models.VisibilityPublic, models.VisibilityPrivate:
	default:
		details = append(details, "Visibility must be public or private")
	}
	if len(details) > 0 {
		return newError(KindValidation, "Invalid event", details...)
	}
	return nil
}

func validateQuestions(questions []QuestionInput) error {
	var details []string
	for i, q := range questions {
		if strings.TrimSpace(q.Text) == "" {
			details = append(details, fmt.Sprintf("Question %d has no text", i+1))
		}
		if !q.Type.Valid() {
			details = append(details, fmt.Sprintf("Question %d has unknown type %q", i+1, q.Type))
			continue
		}
		if q.Type.HasOptions() && len(q.Options) == 0 {
			details = append(details, fmt.Sprintf("Question %d needs at least one option", i+1))
		}
	}
	if len(details) > 0 {
		return newError(KindValidation, "Invalid questions", details...)
	}
	return nil
}

func questionRows(eventID uuid.UUID, questions []QuestionInput) []models.Question {
	rows := make([]models.Question, 0, len(questions))
	for i, q := range questions {
		row := models.Question{
			EventID:      eventID,
			Text:         strings.TrimSpace(q.Text),
			Type:         q.Type,
			Required:     q.Required,
			DisplayOrder: i,
		}
		if q.Type.HasOptions() {
			row.Options = q.Options
		}
		rows = append(rows, row)
	}
	return rows
}

// CreateEvent stores a new event owned by organizerID together with its
// questions.
func (s *EventService) CreateEvent(ctx context.Context, organizerID uuid.UUID, in EventInput, questions []QuestionInput) (*models.Event, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if err := validateQuestions(questions); err != nil {
		return nil, err
	}

	event := models.Event{
		ID:              uuid.New(),
		Title:           strings.TrimSpace(in.Title),
		Description:     in.Description,
		Location:        in.Location,
		StartTime:       in.StartTime,
		EndTime:         in.EndTime,
		MaxAttendees:    in.MaxAttendees,
		RequireApproval: in.RequireApproval,
		Visibility:      in.Visibility,
		UserID:          organizerID,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&event).Error; err != nil {
			return fmt.Errorf("failed to create event: %w", err)
		}
		rows := questionRows(event.ID, questions)
		if len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return fmt.Errorf("failed to create questions: %w", err)
			}
		}
		event.Questions = rows
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("event %s created by %s", event.ID, organizerID)
	return &event, nil
}

// GetEvent returns the event and its questions. Private events are only
// visible to their organizer; everyone else gets ErrEventNotFound.
func (s *EventService) GetEvent(ctx context.Context, eventID uuid.UUID, viewerID uuid.UUID) (*models.Event, error) {
	var event models.Event
	err := s.db.WithContext(ctx).Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("display_order ASC")
	}).Where("id = ?", eventID).First(&event).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load event: %w", err)
	}
	if event.IsPrivate() && !event.IsOrganizer(viewerID) {
		return nil, ErrEventNotFound
	}
	return &event, nil
}

// UpdateEvent rewrites the event's details. The capacity limit cannot be
// lowered below the number of attendees already approved.
func (s *EventService) UpdateEvent(ctx context.Context, organizerID, eventID uuid.UUID, in EventInput) (*models.Event, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var event *models.Event
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		event, err = lockEvent(tx, eventID)
		if err != nil {
			return err
		}
		if !event.IsOrganizer(organizerID) {
			return ErrEventNotFound
		}

		if in.MaxAttendees != nil {
			approved, err := ApprovedCount(ctx, tx, eventID)
			if err != nil {
				return err
			}
			if *in.MaxAttendees < approved {
				return newError(KindValidation, fmt.Sprintf("Max attendees cannot be lower than the %d approved attendees", approved))
			}
		}

		visibility := in.Visibility
		if visibility == "" {
			visibility = event.Visibility
		}

		updates := map[string]interface{}{
			"title":            strings.TrimSpace(in.Title),
			"description":      in.Description,
			"location":         in.Location,
			"start_time":       in.StartTime,
			"end_time":         in.EndTime,
			"max_attendees":    in.MaxAttendees,
			"require_approval": in.RequireApproval,
			"visibility":       visibility,
		}
		if err := tx.Model(event).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update event: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetEvent(ctx, eventID, organizerID)
}

// DeleteEvent removes the event with its questions, registrations and
// answers in one transaction.
func (s *EventService) DeleteEvent(ctx context.Context, organizerID, eventID uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		event, err := lockEvent(tx, eventID)
		if err != nil {
			return err
		}
		if !event.IsOrganizer(organizerID) {
			return ErrEventNotFound
		}

		registrations := tx.Model(&models.Registration{}).Select("id").Where("event_id = ?", eventID)
		if err := tx.Where("registration_id IN (?)", registrations).Delete(&models.Answer{}).Error; err != nil {
			return fmt.Errorf("failed to delete answers: %w", err)
		}
		if err := tx.Where("event_id = ?", eventID).Delete(&models.Registration{}).Error; err != nil {
			return fmt.Errorf("failed to delete registrations: %w", err)
		}
		if err := tx.Where("event_id = ?", eventID).Delete(&models.Question{}).Error; err != nil {
			return fmt.Errorf("failed to delete questions: %w", err)
		}
		if err := tx.Delete(event).Error; err != nil {
			return fmt.Errorf("failed to delete event: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Printf("event %s deleted by %s", eventID, organizerID)
	return nil
}

// ReplaceQuestions deletes the event's question set and recreates it from
// questions. Answers to the old questions are removed with them.
func (s *EventService) ReplaceQuestions(ctx context.Context, organizerID, eventID uuid.UUID, questions []QuestionInput) ([]models.Question, error) {
	if err := validateQuestions(questions); err != nil {
		return nil, err
	}

	rows := questionRows(eventID, questions)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		event, err := lockEvent(tx, eventID)
		if err != nil {
			return err
		}
		if !event.IsOrganizer(organizerID) {
			return ErrEventNotFound
		}

		old := tx.Model(&models.Question{}).Select("id").Where("event_id = ?", eventID)
		if err := tx.Where("question_id IN (?)", old).Delete(&models.Answer{}).Error; err != nil {
			return fmt.Errorf("failed to delete answers: %w", err)
		}
		if err := tx.Where("event_id = ?", eventID).Delete(&models.Question{}).Error; err != nil {
			return fmt.Errorf("failed to delete questions: %w", err)
		}
		if len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return fmt.Errorf("failed to create questions: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}
