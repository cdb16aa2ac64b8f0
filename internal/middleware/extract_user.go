package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ExtractUserID checks the user_id set by AuthMiddleware is a UUID and
// republishes it as user_id_validated.
func ExtractUserID() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		if userID == "" {
			abortWith(c, http.StatusUnauthorized, "UNAUTHORIZED", "User is not authenticated")
			return
		}

		if _, err := uuid.Parse(userID); err != nil {
			abortWith(c, http.StatusUnauthorized, "INVALID_USER_ID", "Invalid user_id format")
			return
		}

		c.Set("user_id_validated", userID)
		c.Next()
	}
}
