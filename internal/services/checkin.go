package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/farellandr/eventhub/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CheckInLookup identifies the registration to check in. Code takes
// precedence when both are set.
type CheckInLookup struct {
	Code  string `json:"code"`
	Email string `json:"email"`
}

// CheckInResult is returned for a first successful scan.
type CheckInResult struct {
	RegistrationID uuid.UUID                 `json:"registration_id"`
	Status         models.RegistrationStatus `json:"status"`
	AttendeeName   string                    `json:"attendee_name"`
	AttendeeEmail  string                    `json:"attendee_email"`
	Message        string                    `json:"message"`
}

// CheckIn marks a registration as attended exactly once. A repeated scan
// returns ErrAlreadyCheckedIn instead of succeeding again.
func (s *RegistrationService) CheckIn(ctx context.Context, organizerID, eventID uuid.UUID, lookup CheckInLookup) (*CheckInResult, error) {
	code := strings.TrimSpace(lookup.Code)
	email := strings.TrimSpace(lookup.Email)
	if code == "" && email == "" {
		return nil, ErrCheckInKeyMissing
	}

	db := s.db.WithContext(ctx)

	var event models.Event
	if err := db.Where("id = ? AND user_id = ?", eventID, organizerID).First(&event).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to load event: %w", err)
	}

	query := db.Preload("User").Select("registrations.*").Where("registrations.event_id = ?", eventID)
	if code != "" {
		query = query.Where("registrations.check_in_code = ?", code)
	} else {
		query = query.Joins("JOIN users ON users.id = registrations.user_id").
			Where("LOWER(users.email) = ?", strings.ToLower(email))
	}

	var registration models.Registration
	if err := query.First(&registration).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrCheckInNotFound
		}
		return nil, fmt.Errorf("failed to look up registration: %w", err)
	}

	if registration.CheckedIn {
		return nil, ErrAlreadyCheckedIn
	}

	now := s.now()
	result := db.Model(&models.Registration{}).
		Where("id = ? AND checked_in = ?", registration.ID, false).
		Updates(map[string]interface{}{
			"checked_in":    true,
			"checked_in_at": now,
		})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to check in: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrAlreadyCheckedIn
	}

	log.Printf("registration %s checked in for event %s", registration.ID, eventID)

	checkIn := &CheckInResult{
		RegistrationID: registration.ID,
		Status:         registration.Status,
		Message:        "Check-in successful",
	}
	if registration.User != nil {
		checkIn.AttendeeName = registration.User.Name
		checkIn.AttendeeEmail = registration.User.Email
	}
	return checkIn, nil
}
