package leave

import (
	"context"
	"database/sql"
	"sort"
	"sync"

	leaveerrors "go-hostel-leave/internal/leave/errors"

	"github.com/google/uuid"
)

// memoryRepository is the local, in-process store used when no database is
// configured. It applies the same version check as the SQL store.
type memoryRepository struct {
	mu        sync.RWMutex
	leaves    map[uuid.UUID]LeaveRequest
	decisions map[uuid.UUID][]LeaveDecision
}

func NewMemoryRepository() Repository {
	return &memoryRepository{
		leaves:    make(map[uuid.UUID]LeaveRequest),
		decisions: make(map[uuid.UUID][]LeaveDecision),
	}
}

// WithTx is a no-op: every method is already atomic under the mutex.
func (m *memoryRepository) WithTx(*sql.Tx) Repository {
	return m
}

func (m *memoryRepository) Create(_ context.Context, l *LeaveRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if _, exists := m.leaves[l.ID]; exists {
		return leaveerrors.ErrLeaveConflict
	}
	if l.Version == 0 {
		l.Version = 1
	}
	m.leaves[l.ID] = *l
	return nil
}

func (m *memoryRepository) FindByID(_ context.Context, id string) (*LeaveRequest, error) {
	key, err := uuid.Parse(id)
	if err != nil {
		return nil, leaveerrors.ErrInvalidLeaveID
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	l, ok := m.leaves[key]
	if !ok {
		return nil, leaveerrors.ErrLeaveNotFound
	}
	return &l, nil
}

func (m *memoryRepository) FindAll(_ context.Context, filter ListFilter) ([]LeaveRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	leaves := make([]LeaveRequest, 0, len(m.leaves))
	for _, l := range m.leaves {
		if filter.RequesterID != "" && l.RequesterID.String() != filter.RequesterID {
			continue
		}
		if filter.Status != "" && string(l.Status) != filter.Status {
			continue
		}
		leaves = append(leaves, l)
	}
	sort.Slice(leaves, func(i, j int) bool {
		return leaves[i].CreatedAt.After(leaves[j].CreatedAt)
	})
	return leaves, nil
}

func (m *memoryRepository) UpdateDecision(_ context.Context, l *LeaveRequest, expectedVersion int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.leaves[l.ID]
	if !ok || stored.Version != expectedVersion {
		return leaveerrors.ErrLeaveConflict
	}

	stored.ParentApproval = l.ParentApproval
	stored.AdminApproval = l.AdminApproval
	stored.Status = l.Status
	stored.FinalApproval = l.FinalApproval
	stored.ParentRejected = l.ParentRejected
	stored.AdminRejected = l.AdminRejected
	stored.UpdatedAt = l.UpdatedAt
	stored.Version = expectedVersion + 1
	m.leaves[l.ID] = stored

	l.Version = stored.Version
	return nil
}

func (m *memoryRepository) CreateDecision(_ context.Context, d *LeaveDecision) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	m.decisions[d.LeaveID] = append(m.decisions[d.LeaveID], *d)
	return nil
}

func (m *memoryRepository) FindDecisions(_ context.Context, leaveID string) ([]LeaveDecision, error) {
	key, err := uuid.Parse(leaveID)
	if err != nil {
		return nil, leaveerrors.ErrInvalidLeaveID
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]LeaveDecision, len(m.decisions[key]))
	copy(out, m.decisions[key])
	return out, nil
}

func (m *memoryRepository) Delete(_ context.Context, id string) error {
	key, err := uuid.Parse(id)
	if err != nil {
		return leaveerrors.ErrInvalidLeaveID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.leaves[key]; !ok {
		return leaveerrors.ErrLeaveNotFound
	}
	delete(m.leaves, key)
	return nil
}
