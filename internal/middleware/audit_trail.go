package middleware

import (
	"net/http"
	"time"

	"go-hostel-leave/internal/bootstrap"

	"github.com/gin-gonic/gin"
)

// AuditTrail records every mutating request after it completes.
func AuditTrail(audit bootstrap.AuditLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
			return
		}

		audit.Log(c.Request.Context(), bootstrap.AuditLog{
			Action:  c.Request.Method + " " + c.FullPath(),
			Message: http.StatusText(c.Writer.Status()),
			Meta: map[string]any{
				"request_id":  c.GetString("request_id"),
				"user_id":     c.GetString("user_id"),
				"role":        c.GetString("role"),
				"leave_id":    c.Param("id"),
				"status":      c.Writer.Status(),
				"duration_ms": time.Since(start).Milliseconds(),
				"client_ip":   c.ClientIP(),
			},
		})
	}
}
