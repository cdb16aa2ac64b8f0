package events

import "time"

const (
	LeaveLifecycleTopic = "hostel.leave.lifecycle.v1"

	EventLeaveSubmitted = "leave_submitted"
	EventLeaveDecided   = "leave_decided"
)

// LeaveEvent is published for every submitted request and every recorded
// decision. Role, Decision and ActorID are empty for leave_submitted.
type LeaveEvent struct {
	EventType      string    `json:"event_type"`
	RequestID      string    `json:"request_id,omitempty"`
	LeaveID        string    `json:"leave_id"`
	RequesterID    string    `json:"requester_id"`
	RequesterName  string    `json:"requester_name"`
	Category       string    `json:"category"`
	FromDate       string    `json:"from_date"`
	ToDate         string    `json:"to_date"`
	Role           string    `json:"role,omitempty"`
	Decision       string    `json:"decision,omitempty"`
	ActorID        string    `json:"actor_id,omitempty"`
	Status         string    `json:"status"`
	ParentApproval bool      `json:"parent_approval"`
	AdminApproval  bool      `json:"admin_approval"`
	FinalApproval  bool      `json:"final_approval"`
	OccurredAt     time.Time `json:"occurred_at"`
}
