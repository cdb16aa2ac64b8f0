package leave

import (
	"context"
	"database/sql"
	"errors"

	leaveerrors "go-hostel-leave/internal/leave/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *LeaveRequest) error
	FindByID(ctx context.Context, id string) (*LeaveRequest, error)
	FindAll(ctx context.Context, filter ListFilter) ([]LeaveRequest, error)
	// UpdateDecision persists the decision fields of l only if the stored
	// version still equals expectedVersion, then bumps l.Version.
	// It returns ErrLeaveConflict when another writer got there first.
	UpdateDecision(ctx context.Context, l *LeaveRequest, expectedVersion int64) error
	CreateDecision(ctx context.Context, d *LeaveDecision) error
	FindDecisions(ctx context.Context, leaveID string) ([]LeaveDecision, error)
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

// conn routes queries through the bound *sql.Tx when there is one.
func (r *repository) conn(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db.Statement.ConnPool = r.tx
	}
	return db
}

func (r *repository) Create(ctx context.Context, l *LeaveRequest) error {
	return r.conn(ctx).Create(l).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveRequest, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, leaveerrors.ErrInvalidLeaveID
	}
	var l LeaveRequest
	if err := r.conn(ctx).First(&l, "id = ?", id).Error; err != nil {
		return nil, mapRepositoryError(err)
	}
	return &l, nil
}

func (r *repository) FindAll(ctx context.Context, filter ListFilter) ([]LeaveRequest, error) {
	db := r.conn(ctx).Model(&LeaveRequest{})
	if filter.RequesterID != "" {
		db = db.Where("requester_id = ?", filter.RequesterID)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}

	var leaves []LeaveRequest
	err := db.Order("created_at DESC").Find(&leaves).Error
	return leaves, err
}

func (r *repository) UpdateDecision(ctx context.Context, l *LeaveRequest, expectedVersion int64) error {
	res := r.conn(ctx).
		Model(&LeaveRequest{}).
		Where("id = ?", l.ID).
		Where("version = ?", expectedVersion).
		Updates(map[string]any{
			"parent_approval": l.ParentApproval,
			"admin_approval":  l.AdminApproval,
			"status":          l.Status,
			"final_approval":  l.FinalApproval,
			"parent_rejected": l.ParentRejected,
			"admin_rejected":  l.AdminRejected,
			"updated_at":      l.UpdatedAt,
			"version":         expectedVersion + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return leaveerrors.ErrLeaveConflict
	}
	l.Version = expectedVersion + 1
	return nil
}

func (r *repository) CreateDecision(ctx context.Context, d *LeaveDecision) error {
	return r.conn(ctx).Create(d).Error
}

func (r *repository) FindDecisions(ctx context.Context, leaveID string) ([]LeaveDecision, error) {
	var decisions []LeaveDecision
	err := r.conn(ctx).
		Where("leave_id = ?", leaveID).
		Order("decided_at ASC").
		Find(&decisions).Error
	return decisions, err
}

func (r *repository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return leaveerrors.ErrInvalidLeaveID
	}
	res := r.conn(ctx).Delete(&LeaveRequest{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return leaveerrors.ErrLeaveNotFound
	}
	return nil
}

func mapRepositoryError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return leaveerrors.ErrLeaveNotFound
	}
	return err
}
