package services

import (
	"testing"
	"time"

	"github.com/farellandr/eventhub/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// registrationWithStatus registers a fresh attendee on an approval event
// and drives the registration into status.
func (f *fixture) registrationWithStatus(t *testing.T, event *models.Event, status models.RegistrationStatus) uuid.UUID {
	t.Helper()
	result, err := f.svc.Register(f.ctx, event.ID, f.user(t).ID, nil)
	require.NoError(t, err)
	require.Equal(t, models.StatusPending, result.Status)

	var decision models.Decision
	switch status {
	case models.StatusPending:
		return result.ID
	case models.StatusApproved:
		decision = models.DecisionApprove
	case models.StatusRejected:
		decision = models.DecisionReject
	case models.StatusWaitlist:
		decision = models.DecisionWaitlist
	}
	_, err = f.svc.Decide(f.ctx, f.organizer.ID, result.ID, decision)
	require.NoError(t, err)
	return result.ID
}

func (f *fixture) status(t *testing.T, registrationID uuid.UUID) models.RegistrationStatus {
	t.Helper()
	var registration models.Registration
	require.NoError(t, f.db.Where("id = ?", registrationID).First(&registration).Error)
	return registration.Status
}

func TestDecideApprovalCapacity(t *testing.T) {
	f := newFixture(t)
	event := f.event(t, nil, withApproval(), withCapacity(2))

	ids := make([]uuid.UUID, 3)
	for i := range ids {
		ids[i] = f.registrationWithStatus(t, event, models.StatusPending)
	}

	for _, id := range ids[:2] {
		result, err := f.svc.Decide(f.ctx, f.organizer.ID, id, models.DecisionApprove)
		require.NoError(t, err)
		assert.Equal(t, models.StatusApproved, result.Status)
	}
	assert.Equal(t, 2, f.requireCoherent(t, event.ID))

	_, err := f.svc.Decide(f.ctx, f.organizer.ID, ids[2], models.DecisionApprove)
	requireKind(t, err, KindCapacityFull)
	assert.Equal(t, models.StatusPending, f.status(t, ids[2]))
	assert.Equal(t, 2, f.requireCoherent(t, event.ID))
}

func TestDecideTransitions(t *testing.T) {
	tests := []struct {
		prior    models.RegistrationStatus
		decision models.Decision
		allowed  bool
		counter  int
	}{
		{models.StatusPending, models.DecisionApprove, true, 1},
		{models.StatusPending, models.DecisionReject, true, 0},
		{models.StatusPending, models.DecisionWaitlist, true, 0},
		{models.StatusApproved, models.DecisionApprove, false, 1},
		{models.StatusApproved, models.DecisionReject, true, 0},
		{models.StatusApproved, models.DecisionWaitlist, true, 0},
		{models.StatusWaitlist, models.DecisionApprove, true, 1},
		{models.StatusWaitlist, models.DecisionReject, true, 0},
		{models.StatusWaitlist, models.DecisionWaitlist, false, 0},
		{models.StatusRejected, models.DecisionApprove, false, 0},
		{models.StatusRejected, models.DecisionReject, false, 0},
		{models.StatusRejected, models.DecisionWaitlist, false, 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.prior)+"_"+string(tt.decision), func(t *testing.T) {
			f := newFixture(t)
			event := f.event(t, nil, withApproval(), withCapacity(5))
			id := f.registrationWithStatus(t, event, tt.prior)

			result, err := f.svc.Decide(f.ctx, f.organizer.ID, id, tt.decision)
			target, _ := tt.decision.Target()
			if tt.allowed {
				require.NoError(t, err)
				assert.Equal(t, target, result.Status)
				assert.Equal(t, target, f.status(t, id))
			} else {
				requireKind(t, err, KindValidation)
				assert.Equal(t, tt.prior, f.status(t, id))
			}
			assert.Equal(t, tt.counter, f.requireCoherent(t, event.ID))
		})
	}
}

func TestDecideRejections(t *testing.T) {
	f := newFixture(t)
	event := f.event(t, nil, withApproval())
	id := f.registrationWithStatus(t, event, models.StatusPending)

	t.Run("unknown action", func(t *testing.T) {
		_, err := f.svc.Decide(f.ctx, f.organizer.ID, id, models.Decision("promote"))
		assert.Equal(t, ErrInvalidDecision, err)
	})

	t.Run("not the organizer", func(t *testing.T) {
		_, err := f.svc.Decide(f.ctx, f.user(t).ID, id, models.DecisionApprove)
		requireKind(t, err, KindNotFound)
		assert.Equal(t, models.StatusPending, f.status(t, id))
	})

	t.Run("unknown registration", func(t *testing.T) {
		_, err := f.svc.Decide(f.ctx, f.organizer.ID, uuid.New(), models.DecisionApprove)
		assert.Equal(t, ErrRegistrationNotFound, err)
	})
}

func TestCancelApproved(t *testing.T) {
	f := newFixture(t)
	event := f.event(t, []QuestionInput{
		{Text: "company", Type: models.QuestionTypeText},
	}, withCapacity(1))
	attendee := f.user(t)

	result, err := f.svc.Register(f.ctx, event.ID, attendee.ID, []AnswerInput{
		{QuestionID: event.Questions[0].ID, Value: "Initech"},
	})
	require.NoError(t, err)
	require.Equal(t, models.StatusApproved, result.Status)
	assert.Equal(t, 1, f.requireCoherent(t, event.ID))

	require.NoError(t, f.svc.Cancel(f.ctx, attendee.ID, result.ID))
	assert.Equal(t, 0, f.requireCoherent(t, event.ID))

	var answers int64
	require.NoError(t, f.db.Model(&models.Answer{}).Where("registration_id = ?", result.ID).Count(&answers).Error)
	assert.Zero(t, answers)

	// The freed seat can be taken again.
	again, err := f.svc.Register(f.ctx, event.ID, attendee.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, again.Status)
}

func TestCancelPendingKeepsCounter(t *testing.T) {
	f := newFixture(t)
	event := f.event(t, nil, withApproval())
	f.registrationWithStatus(t, event, models.StatusApproved)
	pending := f.registrationWithStatus(t, event, models.StatusPending)

	var registration models.Registration
	require.NoError(t, f.db.Where("id = ?", pending).First(&registration).Error)

	require.NoError(t, f.svc.Cancel(f.ctx, registration.UserID, pending))
	assert.Equal(t, 1, f.requireCoherent(t, event.ID))
}

func TestCancelRejections(t *testing.T) {
	f := newFixture(t)
	event := f.event(t, nil)
	attendee := f.user(t)
	result, err := f.svc.Register(f.ctx, event.ID, attendee.ID, nil)
	require.NoError(t, err)

	t.Run("someone else's registration", func(t *testing.T) {
		err := f.svc.Cancel(f.ctx, f.user(t).ID, result.ID)
		requireKind(t, err, KindNotFound)
	})

	t.Run("after the event started", func(t *testing.T) {
		svc := NewRegistrationService(f.db).WithClock(func() time.Time { return event.StartTime.Add(time.Minute) })
		err := svc.Cancel(f.ctx, attendee.ID, result.ID)
		assert.Equal(t, ErrCancelAfterStart, err)
	})

	assert.Equal(t, 1, f.requireCoherent(t, event.ID))
}

func TestDecideSameStatusOnFullEvent(t *testing.T) {
	f := newFixture(t)
	event := f.event(t, nil, withApproval(), withCapacity(1))
	id := f.registrationWithStatus(t, event, models.StatusApproved)

	_, err := f.svc.Decide(f.ctx, f.organizer.ID, id, models.DecisionApprove)
	requireKind(t, err, KindValidation)
	assert.Equal(t, "Cannot change registration from APPROVED to APPROVED", err.Error())
	assert.Equal(t, 1, f.requireCoherent(t, event.ID))
}

func TestDecideUnknownStoredStatus(t *testing.T) {
	f := newFixture(t)
	event := f.event(t, nil, withApproval())
	id := f.registrationWithStatus(t, event, models.StatusPending)
	require.NoError(t, f.db.Model(&models.Registration{}).Where("id = ?", id).Update("status", "ARCHIVED").Error)

	_, err := f.svc.Decide(f.ctx, f.organizer.ID, id, models.DecisionApprove)
	requireKind(t, err, KindInternal)
	assert.Equal(t, models.RegistrationStatus("ARCHIVED"), f.status(t, id))
	assert.Equal(t, 0, f.requireCoherent(t, event.ID))
}
