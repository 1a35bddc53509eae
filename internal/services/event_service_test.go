package services

import (
	"testing"
	"time"

	"github.com/farellandr/eventhub/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateEventValidation(t *testing.T) {
	f := newFixture(t)
	start := time.Now().Add(time.Hour)
	zero := 0

	_, err := f.events.CreateEvent(f.ctx, f.organizer.ID, EventInput{
		Title:        " ",
		StartTime:    start,
		EndTime:      start.Add(-time.Minute),
		MaxAttendees: &zero,
		Visibility:   "secret",
	}, []QuestionInput{
		{Text: "size", Type: models.QuestionTypeSelect},
		{Text: "age", Type: "number"},
	})
	requireKind(t, err, KindValidation)

	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Len(t, e.Details, 4)
}

func TestCreateEventOrdersQuestions(t *testing.T) {
	f := newFixture(t)
	event := f.event(t, []QuestionInput{
		{Text: "first", Type: models.QuestionTypeText},
		{Text: "second", Type: models.QuestionTypeRadio, Options: []string{"a", "b"}},
	})

	got, err := f.events.GetEvent(f.ctx, event.ID, uuid.Nil)
	require.NoError(t, err)
	assert.Equal(t, models.VisibilityPublic, got.Visibility)
	require.Len(t, got.Questions, 2)
	assert.Equal(t, "first", got.Questions[0].Text)
	assert.Equal(t, []string{"a", "b"}, got.Questions[1].Options)
}

func TestGetPrivateEvent(t *testing.T) {
	f := newFixture(t)
	event := f.event(t, nil, withVisibility(models.VisibilityPrivate))

	_, err := f.events.GetEvent(f.ctx, event.ID, f.user(t).ID)
	assert.Equal(t, ErrEventNotFound, err)

	got, err := f.events.GetEvent(f.ctx, event.ID, f.organizer.ID)
	require.NoError(t, err)
	assert.Equal(t, event.ID, got.ID)
}

func TestUpdateEventCapacity(t *testing.T) {
	f := newFixture(t)
	event := f.event(t, nil, withCapacity(3))
	for i := 0; i < 2; i++ {
		_, err := f.svc.Register(f.ctx, event.ID, f.user(t).ID, nil)
		require.NoError(t, err)
	}

	in := EventInput{
		Title:       "Renamed",
		Description: event.Description,
		StartTime:   event.StartTime,
		EndTime:     event.EndTime,
	}

	one := 1
	in.MaxAttendees = &one
	_, err := f.events.UpdateEvent(f.ctx, f.organizer.ID, event.ID, in)
	requireKind(t, err, KindValidation)
	assert.Equal(t, event.Title, f.reload(t, event.ID).Title)

	two := 2
	in.MaxAttendees = &two
	updated, err := f.events.UpdateEvent(f.ctx, f.organizer.ID, event.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, 2, *updated.MaxAttendees)

	_, err = f.events.UpdateEvent(f.ctx, f.user(t).ID, event.ID, in)
	assert.Equal(t, ErrEventNotFound, err)
}

func TestReplaceQuestions(t *testing.T) {
	f := newFixture(t)
	event := f.event(t, []QuestionInput{
		{Text: "old", Type: models.QuestionTypeText},
	})
	_, err := f.svc.Register(f.ctx, event.ID, f.user(t).ID, []AnswerInput{
		{QuestionID: event.Questions[0].ID, Value: "answer"},
	})
	require.NoError(t, err)

	questions, err := f.events.ReplaceQuestions(f.ctx, f.organizer.ID, event.ID, []QuestionInput{
		{Text: "phone", Type: models.QuestionTypePhone, Required: true},
		{Text: "email", Type: models.QuestionTypeEmail},
	})
	require.NoError(t, err)
	require.Len(t, questions, 2)

	got, err := f.events.GetEvent(f.ctx, event.ID, f.organizer.ID)
	require.NoError(t, err)
	require.Len(t, got.Questions, 2)
	assert.Equal(t, "phone", got.Questions[0].Text)
	assert.Equal(t, 1, got.Questions[1].DisplayOrder)

	var answers int64
	require.NoError(t, f.db.Model(&models.Answer{}).Count(&answers).Error)
	assert.Zero(t, answers)
}

func TestDeleteEventCascades(t *testing.T) {
	f := newFixture(t)
	event := f.event(t, []QuestionInput{
		{Text: "company", Type: models.QuestionTypeText},
	})
	_, err := f.svc.Register(f.ctx, event.ID, f.user(t).ID, []AnswerInput{
		{QuestionID: event.Questions[0].ID, Value: "Initech"},
	})
	require.NoError(t, err)

	assert.Equal(t, ErrEventNotFound, f.events.DeleteEvent(f.ctx, f.user(t).ID, event.ID))
	require.NoError(t, f.events.DeleteEvent(f.ctx, f.organizer.ID, event.ID))

	for _, model := range []interface{}{&models.Event{}, &models.Question{}, &models.Registration{}, &models.Answer{}} {
		var count int64
		require.NoError(t, f.db.Model(model).Count(&count).Error)
		assert.Zero(t, count, "%T rows left", model)
	}
}
