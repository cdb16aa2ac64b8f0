package rbac

import (
	"sync"
	"testing"

	"go-hostel-leave/internal/domain"
	"go-hostel-leave/internal/rbac/infra"

	"github.com/stretchr/testify/assert"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	enforcer, err := infra.NewEnforcer("")
	assert.NoError(t, err)

	svc, err := NewService(enforcer, DefaultPolicies)
	assert.NoError(t, err)
	return svc
}

func TestRBACService_Enforce(t *testing.T) {
	svc := newTestService(t)

	cases := []struct {
		role   string
		action string
		want   bool
	}{
		{"student", ActionCreate, true},
		{"student", ActionReadOwn, true},
		{"student", ActionRead, false},
		{"student", ActionDecide, false},
		{"parent", ActionDecide, true},
		{"parent", ActionRead, true},
		{"parent", ActionCreate, false},
		{"parent", ActionDelete, false},
		{"admin", ActionDecide, true},
		{"admin", ActionDelete, true},
		{"admin", ActionCreate, false},
		{"warden", ActionRead, false},
	}

	for _, tc := range cases {
		t.Run(tc.role+"/"+tc.action, func(t *testing.T) {
			allowed, err := svc.Enforce(domain.EnforceRequest{
				Role:     tc.role,
				Resource: ResourceLeave,
				Action:   tc.action,
			})
			assert.NoError(t, err)
			assert.Equal(t, tc.want, allowed)
		})
	}
}

func TestRBACService_ListPolicies(t *testing.T) {
	svc := newTestService(t)

	policies, err := svc.ListPolicies()

	assert.NoError(t, err)
	assert.Len(t, policies, len(DefaultPolicies))
	assert.Contains(t, policies, domain.PolicyResponse{Role: "admin", Resource: ResourceLeave, Action: ActionDelete})
}

func TestRBACService_ConcurrentReads(t *testing.T) {
	svc := newTestService(t)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			allowed, err := svc.Enforce(domain.EnforceRequest{Role: "parent", Resource: ResourceLeave, Action: ActionDecide})
			assert.NoError(t, err)
			assert.True(t, allowed)

			policies, err := svc.ListPolicies()
			assert.NoError(t, err)
			assert.Len(t, policies, len(DefaultPolicies))
		}()
	}
	wg.Wait()
}
