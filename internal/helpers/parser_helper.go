package helpers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ParseUUIDParam reads a path parameter as a uuid. On failure it writes a
// 400 response and returns false.
func ParseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		RespondWithError(c, http.StatusBadRequest, "Invalid "+name+".")
		return uuid.Nil, false
	}
	return id, true
}

// UserID returns the authenticated user set by the auth middleware.
func UserID(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, false
	}
	id, ok := userID.(uuid.UUID)
	return id, ok
}

// RequireUserID is UserID that writes a 401 response when no user is set.
func RequireUserID(c *gin.Context) (uuid.UUID, bool) {
	id, ok := UserID(c)
	if !ok {
		RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
	}
	return id, ok
}
