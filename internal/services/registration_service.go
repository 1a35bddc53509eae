package services

import (
	"context"
	"crypto/rand"
	"encoding/base32"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/farellandr/eventhub/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const maxCodeAttempts = 3

var errCheckInCodeTaken = errors.New("check-in code already in use")

type RegistrationService struct {
	db      *gorm.DB
	now     func() time.Time
	newCode func() (string, error)
}

func NewRegistrationService(db *gorm.DB) *RegistrationService {
	return &RegistrationService{
		db:      db,
		now:     time.Now,
		newCode: generateCheckInCode,
	}
}

// WithClock replaces the time source used for event-window checks.
func (s *RegistrationService) WithClock(now func() time.Time) *RegistrationService {
	s.now = now
	return s
}

// RegistrationResult is returned by Register and Decide.
type RegistrationResult struct {
	ID      uuid.UUID                 `json:"registration_id"`
	Status  models.RegistrationStatus `json:"status"`
	Message string                    `json:"message"`
}

func statusMessage(status models.RegistrationStatus) string {
	switch status {
	case models.StatusApproved:
		return "Successfully registered"
	case models.StatusPending:
		return "Waiting for organizer approval"
	case models.StatusWaitlist:
		return "Added to waitlist"
	case models.StatusRejected:
		return "Registration rejected"
	}
	return ""
}

// Register admits userID to the event, or rejects the attempt. The status
// is decided twice: once before the transaction to reject early, and again
// under the event row lock so the last seat cannot be handed out twice.
func (s *RegistrationService) Register(ctx context.Context, eventID, userID uuid.UUID, answers []AnswerInput) (*RegistrationResult, error) {
	db := s.db.WithContext(ctx)

	event, err := s.loadEventWithQuestions(db, eventID)
	if err != nil {
		return nil, err
	}

	exists, err := registrationExists(db, eventID, userID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyRegistered
	}

	if event.IsPrivate() && !event.IsOrganizer(userID) {
		return nil, ErrPrivateEvent
	}
	if event.IsOrganizer(userID) {
		return nil, ErrOrganizerRegistering
	}

	now := s.now()
	if !now.Before(event.EndTime) {
		return nil, ErrEventEnded
	}
	if !now.Before(event.StartTime) {
		return nil, ErrEventStarted
	}

	if messages := ValidateAnswers(event.Questions, answers); len(messages) > 0 {
		return nil, newError(KindValidation, "Invalid answers", messages...)
	}

	status := models.StatusApproved
	if event.RequireApproval {
		status = models.StatusPending
	} else {
		room, err := HasRoom(ctx, db, event)
		if err != nil {
			return nil, err
		}
		if !room {
			return nil, ErrEventFull
		}
	}

	var registration models.Registration
	for attempt := 1; ; attempt++ {
		code, err := s.newCode()
		if err != nil {
			return nil, fmt.Errorf("failed to generate check-in code: %w", err)
		}
		registration = models.Registration{
			EventID:     eventID,
			UserID:      userID,
			CheckInCode: code,
		}

		err = s.insertRegistration(ctx, db, event, &registration, status, answers)
		if err == nil {
			break
		}
		if err != errCheckInCodeTaken {
			return nil, err
		}
		if attempt == maxCodeAttempts {
			return nil, fmt.Errorf("failed to allocate a unique check-in code after %d attempts", attempt)
		}
	}
	status = registration.Status

	log.Printf("registration %s for event %s -> %s", registration.ID, eventID, status)
	return &RegistrationResult{
		ID:      registration.ID,
		Status:  status,
		Message: statusMessage(status),
	}, nil
}

// insertRegistration writes the registration, its answers and the counter
// change under the event row lock. An APPROVED status is downgraded to
// WAITLIST when the last seat was taken after the pre-check.
func (s *RegistrationService) insertRegistration(ctx context.Context, db *gorm.DB, event *models.Event, registration *models.Registration, status models.RegistrationStatus, answers []AnswerInput) error {
	return db.Transaction(func(tx *gorm.DB) error {
		locked, err := lockEvent(tx, event.ID)
		if err != nil {
			return err
		}

		exists, err := registrationExists(tx, event.ID, registration.UserID)
		if err != nil {
			return err
		}
		if exists {
			return ErrAlreadyRegistered
		}

		if status == models.StatusApproved {
			room, err := HasRoom(ctx, tx, locked)
			if err != nil {
				return err
			}
			if !room {
				status = models.StatusWaitlist
			}
		}

		registration.Status = status
		if err := tx.Create(registration).Error; err != nil {
			// (event, user) was checked under the lock, so the only unique
			// index left to collide with is the check-in code.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errCheckInCodeTaken
			}
			return fmt.Errorf("failed to create registration: %w", err)
		}

		rows := answerRows(registration.ID, event.Questions, answers)
		if len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return fmt.Errorf("failed to save answers: %w", err)
			}
		}

		return adjustAttendeeCount(tx, event.ID, models.CounterDelta("", status))
	})
}

func (s *RegistrationService) loadEventWithQuestions(db *gorm.DB, eventID uuid.UUID) (*models.Event, error) {
	var event models.Event
	err := db.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("display_order ASC")
	}).Where("id = ?", eventID).First(&event).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load event: %w", err)
	}
	return &event, nil
}

func registrationExists(db *gorm.DB, eventID, userID uuid.UUID) (bool, error) {
	var count int64
	err := db.Model(&models.Registration{}).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check existing registration: %w", err)
	}
	return count > 0, nil
}

// answerRows keeps one answer per known question with a non-blank value.
func answerRows(registrationID uuid.UUID, questions []models.Question, answers []AnswerInput) []models.Answer {
	known := make(map[uuid.UUID]bool, len(questions))
	for _, question := range questions {
		known[question.ID] = true
	}

	seen := make(map[uuid.UUID]bool, len(answers))
	var rows []models.Answer
	for _, answer := range answers {
		if !known[answer.QuestionID] || seen[answer.QuestionID] {
			continue
		}
		if strings.TrimSpace(answer.Value) == "" {
			continue
		}
		seen[answer.QuestionID] = true
		rows = append(rows, models.Answer{
			RegistrationID: registrationID,
			QuestionID:     answer.QuestionID,
			Value:          answer.Value,
		})
	}
	return rows
}

func generateCheckInCode() (string, error) {
	b := make([]byte, 10)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(b), nil
}
