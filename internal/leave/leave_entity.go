package leave

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleStudent Role = "student"
	RoleParent  Role = "parent"
	RoleAdmin   Role = "admin"
)

// Decision is an approver's verdict. Its values match the wire strings.
type Decision string

const (
	DecisionApprove Decision = "approved"
	DecisionReject  Decision = "rejected"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

type Category string

const (
	CategoryHomeLeave      Category = "home_leave"
	CategoryOneDayLeave    Category = "one_day_leave"
	CategoryMedicalLeave   Category = "medical_leave"
	CategoryEmergencyLeave Category = "emergency_leave"
	CategoryOther          Category = "other"
)

var categoryLabels = map[Category]string{
	CategoryHomeLeave:      "Home Leave",
	CategoryOneDayLeave:    "One Day Leave",
	CategoryMedicalLeave:   "Medical Leave",
	CategoryEmergencyLeave: "Emergency Leave",
	CategoryOther:          "Other",
}

func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

func (c Category) Label() string {
	return categoryLabels[c]
}

const (
	DefaultFromTime = "08:00"
	DefaultToTime   = "17:00"
	dateLayout      = "2006-01-02"
)

// LeaveRequest is the only entity the approval engine controls.
// Descriptive fields are fixed at creation; the approval and rejection
// flags, Status, FinalApproval and UpdatedAt change only through Apply.
type LeaveRequest struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	RequesterID   uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_requester"`
	RequesterName string    `gorm:"type:varchar(255);not null"`
	Category      Category  `gorm:"type:varchar(30);not null"`
	FromDate      time.Time `gorm:"type:date;not null"`
	ToDate        time.Time `gorm:"type:date;not null"`
	FromTime      string    `gorm:"type:varchar(5);not null;default:'08:00'"`
	ToTime        string    `gorm:"type:varchar(5);not null;default:'17:00'"`
	Reason        string    `gorm:"type:text;not null"`

	Status         Status `gorm:"type:varchar(20);not null;default:'pending';index:idx_leave_requests_status"`
	ParentApproval bool   `gorm:"not null;default:false"`
	AdminApproval  bool   `gorm:"not null;default:false"`
	FinalApproval  bool   `gorm:"not null;default:false"`

	// ParentRejected and AdminRejected mark a role whose flag currently
	// stands at a rejection, as opposed to not having decided yet.
	ParentRejected bool `gorm:"not null;default:false"`
	AdminRejected  bool `gorm:"not null;default:false"`

	// Version is owned by persistence for optimistic concurrency control.
	Version int64 `gorm:"not null;default:1"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index:idx_leave_requests_deleted_at"`
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

// NewLeaveRequest builds a freshly submitted request: pending, no approvals.
func NewLeaveRequest(requesterID uuid.UUID, requesterName string, category Category, from, to time.Time, fromTime, toTime, reason string, now time.Time) LeaveRequest {
	return LeaveRequest{
		ID:            uuid.New(),
		RequesterID:   requesterID,
		RequesterName: requesterName,
		Category:      category,
		FromDate:      from,
		ToDate:        to,
		FromTime:      fromTime,
		ToTime:        toTime,
		Reason:        reason,
		Status:        StatusPending,
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// LeaveDecision is one row of the approver audit trail.
type LeaveDecision struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	LeaveID   uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_decisions_leave"`
	Role      Role      `gorm:"type:varchar(20);not null"`
	Decision  Decision  `gorm:"type:varchar(20);not null"`
	ActorID   uuid.UUID `gorm:"type:uuid;not null"`
	ActorName string    `gorm:"type:varchar(255);not null;default:''"`
	DecidedAt time.Time `gorm:"not null;index:idx_leave_decisions_leave"`
}

func (LeaveDecision) TableName() string {
	return "leave_decisions"
}

// Actor is the authenticated caller as resolved by the auth middleware.
type Actor struct {
	ID   uuid.UUID
	Name string
	Role Role
}
