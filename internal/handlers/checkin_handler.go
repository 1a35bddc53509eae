package handlers

import (
	"net/http"

	"github.com/farellandr/eventhub/internal/helpers"
	"github.com/farellandr/eventhub/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"
)

func CheckIn(c *gin.Context) {
	eventID, ok := helpers.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req services.CheckInLookup
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

	result, err := svc.CheckIn(c.Request.Context(), userID, eventID, req)
	if err != nil {
		helpers.RespondWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"message":         result.Message,
		"registration_id": result.RegistrationID,
		"status":          result.Status,
		"attendee": gin.H{
			"name":  result.AttendeeName,
			"email": result.AttendeeEmail,
		},
	})
}

// RegistrationQR renders the caller's check-in code as a PNG for scanning
// at the door.
func RegistrationQR(c *gin.Context) {
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

	code, err := svc.CheckInCode(c.Request.Context(), userID, registrationID)
	if err != nil {
		helpers.RespondWithServiceError(c, err)
		return
	}

	qrImage, err := qrcode.Encode(code, qrcode.Medium, 256)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to generate QR code.")
		return
	}

	c.Data(http.StatusOK, "image/png", qrImage)
}
