package leave

import (
	"strings"
	"time"

	leaveerrors "go-hostel-leave/internal/leave/errors"
)

// Apply computes the next state of l after role records decision.
//
// The acting role's flag is set to (decision == approve) and its standing
// rejection is set or cleared accordingly. A standing rejection from either
// role forces status=rejected; otherwise status is approved only when both
// flags are true. status and FinalApproval are re-derived in full on every
// call. l is taken by value and never modified.
func Apply(l LeaveRequest, role Role, decision Decision, now time.Time) (LeaveRequest, error) {
	switch role {
	case RoleParent, RoleAdmin:
	default:
		return LeaveRequest{}, leaveerrors.ErrInvalidRole
	}
	switch decision {
	case DecisionApprove, DecisionReject:
	default:
		return LeaveRequest{}, leaveerrors.ErrInvalidDecision
	}
	if err := CheckInvariants(l); err != nil {
		return LeaveRequest{}, err
	}

	next := l
	approve := decision == DecisionApprove
	if role == RoleParent {
		next.ParentApproval = approve
		next.ParentRejected = !approve
	} else {
		next.AdminApproval = approve
		next.AdminRejected = !approve
	}

	next.Status, next.FinalApproval = Derive(next)
	next.UpdatedAt = now
	return next, nil
}

// Derive returns status and final approval from the decision flags of l.
func Derive(l LeaveRequest) (Status, bool) {
	if l.ParentRejected || l.AdminRejected {
		return StatusRejected, false
	}
	if l.ParentApproval && l.AdminApproval {
		return StatusApproved, true
	}
	return StatusPending, false
}

// CheckInvariants reports ErrStateInvariantViolation when l is in a
// combination no sequence of Apply calls can produce.
func CheckInvariants(l LeaveRequest) error {
	if l.ParentApproval && l.ParentRejected || l.AdminApproval && l.AdminRejected {
		return leaveerrors.ErrStateInvariantViolation
	}

	switch l.Status {
	case StatusApproved, StatusPending, StatusRejected:
	default:
		return leaveerrors.ErrStateInvariantViolation
	}

	status, final := Derive(l)
	if status != l.Status || final != l.FinalApproval {
		return leaveerrors.ErrStateInvariantViolation
	}
	return nil
}

// ParseDecision converts a wire status into a Decision. Only "approved"
// and "rejected" are accepted; "pending" is not a decision.
func ParseDecision(raw string) (Decision, error) {
	switch Decision(strings.ToLower(strings.TrimSpace(raw))) {
	case DecisionApprove:
		return DecisionApprove, nil
	case DecisionReject:
		return DecisionReject, nil
	default:
		return "", leaveerrors.ErrInvalidDecision
	}
}

func ParseRole(raw string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleStudent:
		return RoleStudent, nil
	case RoleParent:
		return RoleParent, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", leaveerrors.ErrInvalidRole
	}
}

// IsApprover reports whether r may record decisions.
func (r Role) IsApprover() bool {
	return r == RoleParent || r == RoleAdmin
}
