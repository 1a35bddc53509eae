package handlers

import (
	"net/http"

	"github.com/farellandr/eventhub/internal/helpers"
	"github.com/farellandr/eventhub/internal/middleware"
	"github.com/farellandr/eventhub/internal/services"
	"github.com/gin-gonic/gin"
)

type CreateEventRequest struct {
	services.EventInput
	Questions []services.QuestionInput `json:"questions" binding:"dive"`
}

type ReplaceQuestionsRequest struct {
	Questions []services.QuestionInput `json:"questions" binding:"dive"`
}

func eventService(c *gin.Context) *services.EventService {
	gormDB := middleware.GetDB(c)
	if gormDB == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return nil
	}
	return services.NewEventService(gormDB)
}

func CreateEvent(c *gin.Context) {
	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	userID, ok := helpers.RequireUserID(c)
	if !ok {
		return
	}
	svc := eventService(c)
	if svc == nil {
		return
	}

	event, err := svc.CreateEvent(c.Request.Context(), userID, req.EventInput, req.Questions)
	if err != nil {
		helpers.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Event created successfully.",
		"event_id": event.ID,
		"event":    event,
	})
}

func GetEvent(c *gin.Context) {
	eventID, ok := helpers.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	svc := eventService(c)
	if svc == nil {
		return
	}

	viewerID, _ := helpers.UserID(c)
	event, err := svc.GetEvent(c.Request.Context(), eventID, viewerID)
	if err != nil {
		helpers.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

func UpdateEvent(c *gin.Context) {
	eventID, ok := helpers.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req services.EventInput
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	userID, ok := helpers.RequireUserID(c)
	if !ok {
		return
	}
	svc := eventService(c)
	if svc == nil {
		return
	}

	event, err := svc.UpdateEvent(c.Request.Context(), userID, eventID, req)
	if err != nil {
		helpers.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Event updated successfully.",
		"event":   event,
	})
}

func DeleteEvent(c *gin.Context) {
	eventID, ok := helpers.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := helpers.RequireUserID(c)
	if !ok {
		return
	}
	svc := eventService(c)
	if svc == nil {
		return
	}

	if err := svc.DeleteEvent(c.Request.Context(), userID, eventID); err != nil {
		helpers.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Event deleted successfully.",
	})
}

func ReplaceQuestions(c *gin.Context) {
	eventID, ok := helpers.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req ReplaceQuestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	userID, ok := helpers.RequireUserID(c)
	if !ok {
		return
	}
	svc := eventService(c)
	if svc == nil {
		return
	}

	questions, err := svc.ReplaceQuestions(c.Request.Context(), userID, eventID, req.Questions)
	if err != nil {
		helpers.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Questions updated successfully.",
		"questions": questions,
	})
}
