package services

import (
	"context"
	"fmt"

	"github.com/farellandr/eventhub/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListEventRegistrations is the organizer's detail view: every registration
// with its attendee and answers, oldest first.
func (s *RegistrationService) ListEventRegistrations(ctx context.Context, organizerID, eventID uuid.UUID) ([]models.Registration, error) {
	db := s.db.WithContext(ctx)

	var event models.Event
	if err := db.Where("id = ? AND user_id = ?", eventID, organizerID).First(&event).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to load event: %w", err)
	}

	var registrations []models.Registration
	err := db.Preload("User").
		Preload("Answers.Question").
		Where("event_id = ?", eventID).
		Order("created_at ASC").
		Find(&registrations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}
	return registrations, nil
}

// GetRegistration returns a registration to its attendee or to the event's
// organizer. Anyone else gets ErrRegistrationNotFound.
func (s *RegistrationService) GetRegistration(ctx context.Context, viewerID, registrationID uuid.UUID) (*models.Registration, error) {
	var registration models.Registration
	err := s.db.WithContext(ctx).
		Preload("Event").
		Preload("Answers.Question").
		Where("id = ?", registrationID).
		First(&registration).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrRegistrationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load registration: %w", err)
	}

	if registration.UserID != viewerID && (registration.Event == nil || !registration.Event.IsOrganizer(viewerID)) {
		return nil, ErrRegistrationNotFound
	}
	return &registration, nil
}

// CheckInCode returns the single-use code of the caller's own registration.
func (s *RegistrationService) CheckInCode(ctx context.Context, userID, registrationID uuid.UUID) (string, error) {
	var registration models.Registration
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", registrationID, userID).
		First(&registration).Error
	if err == gorm.ErrRecordNotFound {
		return "", ErrRegistrationNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to load registration: %w", err)
	}
	return registration.CheckInCode, nil
}

// ListUserRegistrations returns the caller's registrations, newest first.
func (s *RegistrationService) ListUserRegistrations(ctx context.Context, userID uuid.UUID) ([]models.Registration, error) {
	var registrations []models.Registration
	err := s.db.WithContext(ctx).
		Preload("Event").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&registrations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}
	return registrations, nil
}
