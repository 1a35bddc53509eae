package services

import (
	"context"
	"fmt"
	"log"

	"github.com/farellandr/eventhub/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Decide applies an organizer decision to a registration. The status write
// and the counter delta commit together under the event row lock.
func (s *RegistrationService) Decide(ctx context.Context, organizerID, registrationID uuid.UUID, decision models.Decision) (*RegistrationResult, error) {
	target, ok := decision.Target()
	if !ok {
		return nil, ErrInvalidDecision
	}

	var registration models.Registration
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		registration, err = findRegistration(tx, registrationID)
		if err != nil {
			return err
		}

		event, err := lockEvent(tx, registration.EventID)
		if err != nil {
			return err
		}
		if !event.IsOrganizer(organizerID) {
			return ErrRegistrationNotFound
		}

		// Re-read under the lock so a concurrent decision cannot be lost.
		registration, err = lockRegistration(tx, registrationID)
		if err != nil {
			return err
		}

		prior := registration.Status
		if !prior.Valid() {
			return fmt.Errorf("registration %s has unknown status %q", registration.ID, prior)
		}
		// Same-status decisions are rejected rather than treated as no-ops,
		// so approving an APPROVED row on a full event reports VALIDATION.
		if !models.CanTransition(prior, target) {
			return newError(KindValidation, fmt.Sprintf("Cannot change registration from %s to %s", prior, target))
		}

		delta := models.CounterDelta(prior, target)
		if delta > 0 {
			room, err := HasRoom(ctx, tx, event)
			if err != nil {
				return err
			}
			if !room {
				return ErrApprovalCapacityFull
			}
		}

		if err := tx.Model(&registration).Update("status", target).Error; err != nil {
			return fmt.Errorf("failed to update registration status: %w", err)
		}
		registration.Status = target

		return adjustAttendeeCount(tx, event.ID, delta)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("registration %s decision %s -> %s", registrationID, decision, target)
	return &RegistrationResult{
		ID:      registration.ID,
		Status:  registration.Status,
		Message: statusMessage(registration.Status),
	}, nil
}

// Cancel deletes the caller's registration and its answers. The counter is
// decremented only when the deleted row was APPROVED.
func (s *RegistrationService) Cancel(ctx context.Context, userID, registrationID uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		registration, err := findRegistration(tx, registrationID)
		if err != nil {
			return err
		}
		if registration.UserID != userID {
			return ErrRegistrationNotFound
		}

		event, err := lockEvent(tx, registration.EventID)
		if err != nil {
			return err
		}
		if !s.now().Before(event.StartTime) {
			return ErrCancelAfterStart
		}

		registration, err = lockRegistration(tx, registrationID)
		if err != nil {
			return err
		}

		if err := tx.Where("registration_id = ?", registration.ID).Delete(&models.Answer{}).Error; err != nil {
			return fmt.Errorf("failed to delete answers: %w", err)
		}
		if err := tx.Delete(&registration).Error; err != nil {
			return fmt.Errorf("failed to delete registration: %w", err)
		}

		return adjustAttendeeCount(tx, event.ID, models.CounterDelta(registration.Status, ""))
	})
	if err != nil {
		return err
	}

	log.Printf("registration %s cancelled by user %s", registrationID, userID)
	return nil
}

func findRegistration(tx *gorm.DB, registrationID uuid.UUID) (models.Registration, error) {
	var registration models.Registration
	err := tx.Where("id = ?", registrationID).First(&registration).Error
	if err == gorm.ErrRecordNotFound {
		return registration, ErrRegistrationNotFound
	}
	if err != nil {
		return registration, fmt.Errorf("failed to load registration: %w", err)
	}
	return registration, nil
}

func lockRegistration(tx *gorm.DB, registrationID uuid.UUID) (models.Registration, error) {
	return findRegistration(tx.Clauses(clause.Locking{Strength: "UPDATE"}), registrationID)
}
