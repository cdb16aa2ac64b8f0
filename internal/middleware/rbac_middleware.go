package middleware

import (
	"net/http"

	"go-hostel-leave/internal/domain"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RBACService adalah interface lokal.
// Apapun package yang punya method Enforce(domain.EnforceRequest) bisa masuk ke sini.
type RBACService interface {
	Enforce(req domain.EnforceRequest) (bool, error)
}

// RBACAuthorize passes when the caller's role holds any of actions on resource.
func RBACAuthorize(service RBACService, resource string, actions ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		if role == "" {
			abortWith(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing auth context")
			return
		}

		for _, action := range actions {
			allowed, err := service.Enforce(domain.EnforceRequest{
				Role:     role,
				Resource: resource,
				Action:   action,
			})
			if err != nil {
				zap.L().Named("middleware.rbac").Error("rbac enforce failed", zap.Error(err))
				abortWith(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
				return
			}
			if allowed {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"ok": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "You do not have permission to access this resource",
				"details": gin.H{"resource": resource, "actions": actions},
			},
		})
	}
}
