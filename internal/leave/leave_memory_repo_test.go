package leave_test

import (
	"context"
	"sync"
	"testing"

	"go-hostel-leave/internal/leave"
	leaveerrors "go-hostel-leave/internal/leave/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository_Basics(t *testing.T) {
	repo := leave.NewMemoryRepository()
	ctx := context.Background()

	l := freshLeave()
	require.NoError(t, repo.Create(ctx, &l))
	assert.ErrorIs(t, repo.Create(ctx, &l), leaveerrors.ErrLeaveConflict)

	got, err := repo.FindByID(ctx, l.ID.String())
	require.NoError(t, err)
	got.Reason = "changed by caller"

	again, err := repo.FindByID(ctx, l.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "family visit", again.Reason)

	_, err = repo.FindByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, leaveerrors.ErrLeaveNotFound)

	list, err := repo.FindAll(ctx, leave.ListFilter{Status: "approved"})
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, repo.Delete(ctx, l.ID.String()))
	assert.ErrorIs(t, repo.Delete(ctx, l.ID.String()), leaveerrors.ErrLeaveNotFound)
}

// Two approvers race on the same version: exactly one write lands.
func TestMemoryRepository_ConcurrentDecisions(t *testing.T) {
	repo := leave.NewMemoryRepository()
	ctx := context.Background()

	l := freshLeave()
	require.NoError(t, repo.Create(ctx, &l))

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		conflicts int
	)
	for _, role := range []leave.Role{leave.RoleParent, leave.RoleAdmin} {
		wg.Add(1)
		go func(role leave.Role) {
			defer wg.Done()
			next, err := leave.Apply(l, role, leave.DecisionApprove, engineNow)
			if err != nil {
				t.Error(err)
				return
			}
			if err := repo.UpdateDecision(ctx, &next, l.Version); err != nil {
				mu.Lock()
				conflicts++
				mu.Unlock()
				assert.ErrorIs(t, err, leaveerrors.ErrLeaveConflict)
			}
		}(role)
	}
	wg.Wait()

	assert.Equal(t, 1, conflicts)

	stored, err := repo.FindByID(ctx, l.ID.String())
	require.NoError(t, err)
	assert.Equal(t, int64(2), stored.Version)
	assert.Equal(t, leave.StatusPending, stored.Status)
	assert.NoError(t, leave.CheckInvariants(*stored))
}
