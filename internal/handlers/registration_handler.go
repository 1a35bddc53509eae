package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/farellandr/eventhub/internal/helpers"
	"github.com/farellandr/eventhub/internal/middleware"
	"github.com/farellandr/eventhub/internal/models"
	"github.com/farellandr/eventhub/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AnswerRequest accepts a plain string value or, for checkbox questions,
// a JSON array of the selected options.
type AnswerRequest struct {
	QuestionID uuid.UUID       `json:"question_id" binding:"required"`
	Value      json.RawMessage `json:"value"`
}

type RegisterForEventRequest struct {
	Answers []AnswerRequest `json:"answers" binding:"dive"`
}

type DecisionRequest struct {
	Action models.Decision `json:"action" binding:"required"`
}

func (req AnswerRequest) input() services.AnswerInput {
	in := services.AnswerInput{QuestionID: req.QuestionID}
	var s string
	if err := json.Unmarshal(req.Value, &s); err == nil {
		in.Value = s
	} else if len(req.Value) > 0 && string(req.Value) != "null" {
		in.Value = string(req.Value)
	}
	return in
}

func registrationService(c *gin.Context) *services.RegistrationService {
	gormDB := middleware.GetDB(c)
	if gormDB == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return nil
	}
	return services.NewRegistrationService(gormDB)
}

func RegisterForEvent(c *gin.Context) {
	eventID, ok := helpers.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req RegisterForEventRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
			return
		}
	}

	userID, ok := helpers.RequireUserID(c)
	if !ok {
		return
	}
	svc := registrationService(c)
	if svc == nil {
		return
	}

	answers := make([]services.AnswerInput, 0, len(req.Answers))
	for _, answer := range req.Answers {
		answers = append(answers, answer.input())
	}

	result, err := svc.Register(c.Request.Context(), eventID, userID, answers)
	if err != nil {
		helpers.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":         true,
		"message":         result.Message,
		"registration_id": result.ID,
		"status":          result.Status,
	})
}

func ListEventRegistrations(c *gin.Context) {
	eventID, ok := helpers.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := helpers.RequireUserID(c)
	if !ok {
		return
	}
	svc := registrationService(c)
	if svc == nil {
		return
	}

	registrations, err := svc.ListEventRegistrations(c.Request.Context(), userID, eventID)
	if err != nil {
		helpers.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"registrations": registrations,
		"total":         len(registrations),
	})
}

func DecideRegistration(c *gin.Context) {
	registrationID, ok := helpers.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	userID, ok := helpers.RequireUserID(c)
	if !ok {
		return
	}
	svc := registrationService(c)
	if svc == nil {
		return
	}

	result, err := svc.Decide(c.Request.Context(), userID, registrationID, req.Action)
	if err != nil {
		helpers.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"message":         result.Message,
		"registration_id": result.ID,
		"status":          result.Status,
	})
}

func CancelRegistration(c *gin.Context) {
	registrationID, ok := helpers.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := helpers.RequireUserID(c)
	if !ok {
		return
	}
	svc := registrationService(c)
	if svc == nil {
		return
	}

	if err := svc.Cancel(c.Request.Context(), userID, registrationID); err != nil {
		helpers.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Registration cancelled successfully.",
	})
}

func GetRegistration(c *gin.Context) {
	registrationID, ok := helpers.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := helpers.RequireUserID(c)
	if !ok {
		return
	}
	svc := registrationService(c)
	if svc == nil {
		return
	}

	registration, err := svc.GetRegistration(c.Request.Context(), userID, registrationID)
	if err != nil {
		helpers.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, registration)
}
