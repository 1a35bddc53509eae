package services

import (
	"context"
	"fmt"

	"github.com/farellandr/eventhub/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ApprovedCount counts the event's APPROVED registrations live. Pass the
// transaction handle when the result feeds a decision in that transaction.
func ApprovedCount(ctx context.Context, db *gorm.DB, eventID uuid.UUID) (int, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&models.Registration{}).
		Where("event_id = ? AND status = ?", eventID, models.StatusApproved).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count approved registrations: %w", err)
	}
	return int(count), nil
}

// HasRoom reports whether the event can take one more approved attendee.
func HasRoom(ctx context.Context, db *gorm.DB, event *models.Event) (bool, error) {
	if !event.HasCapacityLimit() {
		return true, nil
	}
	count, err := ApprovedCount(ctx, db, event.ID)
	if err != nil {
		return false, err
	}
	return count < *event.MaxAttendees, nil
}

// lockEvent reloads the event row with a row lock held until tx ends.
func lockEvent(tx *gorm.DB, eventID uuid.UUID) (*models.Event, error) {
	var event models.Event
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", eventID).
		First(&event).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock event: %w", err)
	}
	return &event, nil
}

// adjustAttendeeCount applies delta to the event's denormalized counter.
func adjustAttendeeCount(tx *gorm.DB, eventID uuid.UUID, delta int) error {
	if delta == 0 {
		return nil
	}
	err := tx.Model(&models.Event{}).
		Where("id = ?", eventID).
		Update("attendee_count", gorm.Expr("attendee_count + ?", delta)).Error
	if err != nil {
		return fmt.Errorf("failed to update attendee count: %w", err)
	}
	return nil
}

// CounterAudit compares the stored counter with the derived count.
type CounterAudit struct {
	EventID  uuid.UUID `json:"event_id"`
	Stored   int       `json:"stored"`
	Derived  int       `json:"derived"`
	Coherent bool      `json:"coherent"`
}

// AuditAttendeeCount is a read-only consistency check. It never repairs
// the counter.
func AuditAttendeeCount(ctx context.Context, db *gorm.DB, eventID uuid.UUID) (*CounterAudit, error) {
	var event models.Event
	if err := db.WithContext(ctx).Where("id = ?", eventID).First(&event).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to load event: %w", err)
	}
	derived, err := ApprovedCount(ctx, db, eventID)
	if err != nil {
		return nil, err
	}
	return &CounterAudit{
		EventID:  eventID,
		Stored:   event.AttendeeCount,
		Derived:  derived,
		Coherent: event.AttendeeCount == derived,
	}, nil
}
