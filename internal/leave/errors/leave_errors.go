package leaveerrors

import (
	"net/http"

	"go-hostel-leave/internal/shared/apperror"
)

// Approval engine
var (
	ErrInvalidRole = apperror.New(
		apperror.CodeForbidden,
		"only parent or admin may decide on a leave request",
		http.StatusForbidden,
	)
	ErrInvalidDecision = apperror.New(
		apperror.CodeInvalidInput,
		"invalid decision, expected approved or rejected",
		http.StatusBadRequest,
	)
	ErrStateInvariantViolation = apperror.New(
		apperror.CodeInvalidState,
		"leave request is in an inconsistent approval state",
		http.StatusInternalServerError,
	)
)

// Persistence
var (
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave request not found",
		http.StatusNotFound,
	)
	ErrLeaveConflict = apperror.New(
		apperror.CodeConflict,
		"leave request was modified concurrently, please retry",
		http.StatusConflict,
	)
)

// Input validation
var (
	ErrInvalidLeaveID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave id",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidRequesterID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid requester id",
		http.StatusBadRequest,
	)
	ErrInvalidCategory = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave category",
		http.StatusBadRequest,
	)
	ErrInvalidStatusFilter = apperror.New(
		apperror.CodeInvalidInput,
		"invalid status filter, expected pending, approved or rejected",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"from_date must be before or equal to_date",
		http.StatusBadRequest,
	)
	ErrInvalidTimeFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid time format, expected HH:MM",
		http.StatusBadRequest,
	)
	ErrInvalidTimeRange = apperror.New(
		apperror.CodeInvalidInput,
		"from_time must be before or equal to_time on a single-day leave",
		http.StatusBadRequest,
	)
	ErrReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"reason is required",
		http.StatusBadRequest,
	)
)

// Access
var (
	ErrOnlyStudentsCreate = apperror.New(
		apperror.CodeForbidden,
		"only students may create leave requests",
		http.StatusForbidden,
	)
	ErrNotRequestOwner = apperror.New(
		apperror.CodeForbidden,
		"you can only access your own leave requests",
		http.StatusForbidden,
	)
	ErrOnlyAdminsDelete = apperror.New(
		apperror.CodeForbidden,
		"only admins may delete leave requests",
		http.StatusForbidden,
	)
)
