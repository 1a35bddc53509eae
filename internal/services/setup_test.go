package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/farellandr/eventhub/config"
	"github.com/farellandr/eventhub/internal/models"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a private in-memory database. A single connection
// makes every transaction run alone, standing in for the row locks
// Postgres would take.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Discard,
		TranslateError: true,
	})
	require.NoError(t, err, "failed to connect database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, config.Migrate(db), "failed to migrate database")
	return db
}

type fixture struct {
	db        *gorm.DB
	svc       *RegistrationService
	events    *EventService
	organizer models.User
	ctx       context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := setupTestDB(t)
	f := &fixture{
		db:     db,
		svc:    NewRegistrationService(db),
		events: NewEventService(db),
		ctx:    context.Background(),
	}
	f.organizer = f.user(t)
	return f
}

func (f *fixture) user(t *testing.T) models.User {
	t.Helper()
	user := models.User{
		Name:     gofakeit.Name(),
		Email:    fmt.Sprintf("%s@example.com", uuid.NewString()[:8]),
		Password: "hashed",
	}
	require.NoError(t, f.db.Create(&user).Error)
	return user
}

type eventOption func(*EventInput)

func withCapacity(n int) eventOption {
	return func(in *EventInput) { in.MaxAttendees = &n }
}

func withApproval() eventOption {
	return func(in *EventInput) { in.RequireApproval = true }
}

func withVisibility(v models.Visibility) eventOption {
	return func(in *EventInput) { in.Visibility = v }
}

func (f *fixture) event(t *testing.T, questions []QuestionInput, opts ...eventOption) *models.Event {
	t.Helper()
	in := EventInput{
		Title:       gofakeit.LoremIpsumSentence(3),
		Description: gofakeit.LoremIpsumSentence(10),
		StartTime:   time.Now().Add(24 * time.Hour),
		EndTime:     time.Now().Add(26 * time.Hour),
	}
	for _, opt := range opts {
		opt(&in)
	}
	event, err := f.events.CreateEvent(f.ctx, f.organizer.ID, in, questions)
	require.NoError(t, err)
	return event
}

func (f *fixture) reload(t *testing.T, eventID uuid.UUID) models.Event {
	t.Helper()
	var event models.Event
	require.NoError(t, f.db.Where("id = ?", eventID).First(&event).Error)
	return event
}

// requireCoherent asserts the stored counter equals the derived count.
func (f *fixture) requireCoherent(t *testing.T, eventID uuid.UUID) int {
	t.Helper()
	audit, err := AuditAttendeeCount(f.ctx, f.db, eventID)
	require.NoError(t, err)
	require.True(t, audit.Coherent, "stored %d, derived %d", audit.Stored, audit.Derived)
	return audit.Stored
}

func requireKind(t *testing.T, err error, kind ErrorKind) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, KindOf(err), "unexpected error: %v", err)
}
