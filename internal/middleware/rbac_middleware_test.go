package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-hostel-leave/internal/domain"
	"go-hostel-leave/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// policyStub allows the (role, action) pairs it holds.
type policyStub struct {
	allowed map[string]bool
	err     error
}

func (p policyStub) Enforce(req domain.EnforceRequest) (bool, error) {
	if p.err != nil {
		return false, p.err
	}
	return p.allowed[req.Role+":"+req.Action], nil
}

func rbacRouter(svc middleware.RBACService, role string) *gin.Engine {
	r := gin.New()
	handlers := []gin.HandlerFunc{}
	if role != "" {
		handlers = append(handlers, withRole(role))
	}
	handlers = append(handlers,
		middleware.RBACAuthorize(svc, "leave", "read", "read_own"),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)
	r.GET("/leaves", handlers...)
	return r
}

func TestRBACAuthorize(t *testing.T) {
	svc := policyStub{allowed: map[string]bool{
		"admin:read":       true,
		"student:read_own": true,
	}}

	tests := []struct {
		name   string
		svc    middleware.RBACService
		role   string
		status int
	}{
		{"first action allowed", svc, "admin", http.StatusOK},
		{"any listed action allowed", svc, "student", http.StatusOK},
		{"no action allowed", svc, "parent", http.StatusForbidden},
		{"no auth context", svc, "", http.StatusUnauthorized},
		{"enforcer error", policyStub{err: errors.New("boom")}, "admin", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			rbacRouter(tt.svc, tt.role).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/leaves", nil))

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusForbidden {
				assert.Equal(t, "FORBIDDEN", errorCode(t, w))
			}
		})
	}
}
