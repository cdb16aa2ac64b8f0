package leave

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"go-hostel-leave/internal/events"
	leaveerrors "go-hostel-leave/internal/leave/errors"
	"go-hostel-leave/internal/messaging/kafka"
	"go-hostel-leave/internal/shared/apperror"
	"go-hostel-leave/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	maxDecideAttempts = 3
	aggregateType     = "leave_request"
)

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actor Actor, req CreateLeaveRequest) (LeaveResponse, error)
	List(ctx context.Context, actor Actor, filter ListFilter) ([]LeaveResponse, error)
	GetByID(ctx context.Context, actor Actor, id string) (LeaveResponse, error)
	Decide(ctx context.Context, actor Actor, id string, decision Decision) (LeaveResponse, error)
	History(ctx context.Context, actor Actor, id string) ([]DecisionResponse, error)
	Delete(ctx context.Context, actor Actor, id string) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	outbox kafka.OutboxRepository
	cache  *detailCache
	sf     *singleflight.Group
	now    func() time.Time
	logger *zap.Logger
}

// NewService builds a service without an outbox. db may be nil when repo is
// the in-memory store; writes then run without a SQL transaction.
func NewService(db *sql.DB, repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(db, repo, nil, rdb, DefaultCacheTTL, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	cacheTTL time.Duration,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		outbox: outboxRepo,
		cache:  newDetailCache(rdb, cacheTTL, l),
		sf:     &singleflight.Group{},
		now:    time.Now,
		logger: l,
	}
}

func (s *service) Create(ctx context.Context, actor Actor, req CreateLeaveRequest) (LeaveResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create leave requested",
		zap.String("request_id", rid),
		zap.String("requester_id", actor.ID.String()),
		zap.String("category", req.Category),
		zap.String("from_date", req.FromDate),
		zap.String("to_date", req.ToDate),
	)

	if actor.Role != RoleStudent {
		s.logger.Warn("create leave rejected for non-student", zap.String("role", string(actor.Role)))
		return LeaveResponse{}, leaveerrors.ErrOnlyStudentsCreate
	}
	if actor.ID == uuid.Nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidRequesterID
	}

	l, err := s.buildLeave(actor, req)
	if err != nil {
		s.logger.Warn("create leave invalid input", zap.String("request_id", rid), zap.Error(err))
		return LeaveResponse{}, err
	}

	err = s.withinTx(ctx, func(repo Repository, outbox kafka.OutboxRepository) error {
		if err := repo.Create(ctx, &l); err != nil {
			s.logger.Error("create leave persist failed", zap.String("request_id", rid), zap.Error(err))
			return err
		}
		return s.enqueue(ctx, outbox, leaveEvent(events.EventLeaveSubmitted, rid, l, s.now().UTC()))
	})
	if err != nil {
		return LeaveResponse{}, err
	}

	s.logger.Info("create leave success",
		zap.String("request_id", rid),
		zap.String("leave_id", l.ID.String()),
		zap.String("requester_id", l.RequesterID.String()),
	)
	return mapToResponse(l), nil
}

func (s *service) buildLeave(actor Actor, req CreateLeaveRequest) (LeaveRequest, error) {
	category := Category(strings.TrimSpace(req.Category))
	if !category.Valid() {
		return LeaveRequest{}, leaveerrors.ErrInvalidCategory
	}

	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return LeaveRequest{}, leaveerrors.ErrReasonRequired
	}

	from, err := time.Parse(dateLayout, strings.TrimSpace(req.FromDate))
	if err != nil {
		return LeaveRequest{}, leaveerrors.ErrInvalidDateFormat
	}
	to, err := time.Parse(dateLayout, strings.TrimSpace(req.ToDate))
	if err != nil {
		return LeaveRequest{}, leaveerrors.ErrInvalidDateFormat
	}
	if from.After(to) {
		return LeaveRequest{}, leaveerrors.ErrInvalidDateRange
	}

	fromTime := strings.TrimSpace(req.FromTime)
	if fromTime == "" {
		fromTime = DefaultFromTime
	}
	toTime := strings.TrimSpace(req.ToTime)
	if toTime == "" {
		toTime = DefaultToTime
	}
	if !apperror.IsHHMM(fromTime) || !apperror.IsHHMM(toTime) {
		return LeaveRequest{}, leaveerrors.ErrInvalidTimeFormat
	}
	// zero-padded HH:MM compares correctly as a string
	if from.Equal(to) && fromTime > toTime {
		return LeaveRequest{}, leaveerrors.ErrInvalidTimeRange
	}

	return NewLeaveRequest(actor.ID, actor.Name, category, from, to, fromTime, toTime, reason, s.now().UTC()), nil
}

func (s *service) List(ctx context.Context, actor Actor, filter ListFilter) ([]LeaveResponse, error) {
	s.logger.Debug("list leaves requested",
		zap.String("role", string(actor.Role)),
		zap.String("status", filter.Status),
		zap.String("requester_id", filter.RequesterID),
	)

	if filter.Status != "" {
		status := Status(strings.ToLower(strings.TrimSpace(filter.Status)))
		switch status {
		case StatusPending, StatusApproved, StatusRejected:
			filter.Status = string(status)
		default:
			return nil, leaveerrors.ErrInvalidStatusFilter
		}
	}

	switch {
	case actor.Role == RoleStudent:
		filter.RequesterID = actor.ID.String()
	case actor.Role.IsApprover():
		if filter.RequesterID != "" {
			if _, err := uuid.Parse(filter.RequesterID); err != nil {
				return nil, leaveerrors.ErrInvalidRequesterID
			}
		}
	default:
		return nil, leaveerrors.ErrInvalidRole
	}

	leaves, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("list leaves failed", zap.Error(err))
		return nil, err
	}

	return mapToListResponse(leaves), nil
}

func (s *service) GetByID(ctx context.Context, actor Actor, id string) (LeaveResponse, error) {
	s.logger.Debug("get leave by id requested", zap.String("leave_id", id))

	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}

	resp, ok := s.cache.get(ctx, id)
	if !ok {
		v, err, _ := s.sf.Do(GetLeaveDetailKey(id), func() (interface{}, error) {
			l, err := s.repo.FindByID(ctx, id)
			if err != nil {
				return nil, err
			}
			fresh := mapToResponse(*l)
			s.cache.set(ctx, fresh)
			return fresh, nil
		})
		if err != nil {
			if !errors.Is(err, leaveerrors.ErrLeaveNotFound) {
				s.logger.Error("get leave by id failed", zap.String("leave_id", id), zap.Error(err))
			}
			return LeaveResponse{}, err
		}
		resp = v.(LeaveResponse)
	}

	if err := canRead(actor, resp.RequesterID); err != nil {
		s.logger.Warn("get leave by id forbidden",
			zap.String("leave_id", id),
			zap.String("actor_id", actor.ID.String()),
		)
		return LeaveResponse{}, err
	}
	return resp, nil
}

func (s *service) Decide(ctx context.Context, actor Actor, id string, decision Decision) (LeaveResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("decide leave requested",
		zap.String("request_id", rid),
		zap.String("leave_id", id),
		zap.String("role", string(actor.Role)),
		zap.String("decision", string(decision)),
	)

	if !actor.Role.IsApprover() {
		s.logger.Warn("decide leave rejected for role", zap.String("role", string(actor.Role)))
		return LeaveResponse{}, leaveerrors.ErrInvalidRole
	}
	if _, err := ParseDecision(string(decision)); err != nil {
		return LeaveResponse{}, err
	}
	if actor.ID == uuid.Nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidActorID
	}
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}

	var (
		updated LeaveRequest
		err     error
	)
	// Apply is idempotent, so a lost version race is safe to replay on fresh state.
	for attempt := 1; attempt <= maxDecideAttempts; attempt++ {
		updated, err = s.decideOnce(ctx, actor, id, decision, rid)
		if !errors.Is(err, leaveerrors.ErrLeaveConflict) {
			break
		}
		s.logger.Warn("decide leave version conflict",
			zap.String("leave_id", id),
			zap.Int("attempt", attempt),
		)
	}
	if err != nil {
		if errors.Is(err, leaveerrors.ErrStateInvariantViolation) {
			s.logger.Error("decide leave found inconsistent state", zap.String("leave_id", id))
		}
		return LeaveResponse{}, err
	}

	s.cache.invalidate(ctx, id)

	s.logger.Info("decide leave success",
		zap.String("request_id", rid),
		zap.String("leave_id", id),
		zap.String("role", string(actor.Role)),
		zap.String("decision", string(decision)),
		zap.String("status", string(updated.Status)),
		zap.Bool("final_approval", updated.FinalApproval),
	)
	return mapToResponse(updated), nil
}

func (s *service) decideOnce(ctx context.Context, actor Actor, id string, decision Decision, rid string) (LeaveRequest, error) {
	var updated LeaveRequest
	err := s.withinTx(ctx, func(repo Repository, outbox kafka.OutboxRepository) error {
		current, err := repo.FindByID(ctx, id)
		if err != nil {
			return err
		}

		now := s.now().UTC()
		next, err := Apply(*current, actor.Role, decision, now)
		if err != nil {
			return err
		}

		if err := repo.UpdateDecision(ctx, &next, current.Version); err != nil {
			return err
		}

		if err := repo.CreateDecision(ctx, &LeaveDecision{
			ID:        uuid.New(),
			LeaveID:   next.ID,
			Role:      actor.Role,
			Decision:  decision,
			ActorID:   actor.ID,
			ActorName: actor.Name,
			DecidedAt: now,
		}); err != nil {
			s.logger.Error("decide leave audit persist failed", zap.String("leave_id", id), zap.Error(err))
			return err
		}

		event := leaveEvent(events.EventLeaveDecided, rid, next, now)
		event.Role = string(actor.Role)
		event.Decision = string(decision)
		event.ActorID = actor.ID.String()
		if err := s.enqueue(ctx, outbox, event); err != nil {
			return err
		}

		updated = next
		return nil
	})
	return updated, err
}

func (s *service) History(ctx context.Context, actor Actor, id string) ([]DecisionResponse, error) {
	s.logger.Debug("leave history requested", zap.String("leave_id", id))

	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := canRead(actor, l.RequesterID.String()); err != nil {
		return nil, err
	}

	decisions, err := s.repo.FindDecisions(ctx, id)
	if err != nil {
		s.logger.Error("leave history failed", zap.String("leave_id", id), zap.Error(err))
		return nil, err
	}

	out := make([]DecisionResponse, 0, len(decisions))
	for _, d := range decisions {
		out = append(out, mapDecision(d))
	}
	return out, nil
}

func (s *service) Delete(ctx context.Context, actor Actor, id string) error {
	s.logger.Debug("delete leave requested",
		zap.String("leave_id", id),
		zap.String("role", string(actor.Role)),
	)

	if actor.Role != RoleAdmin {
		s.logger.Warn("delete leave rejected for role", zap.String("role", string(actor.Role)))
		return leaveerrors.ErrOnlyAdminsDelete
	}

	err := s.withinTx(ctx, func(repo Repository, _ kafka.OutboxRepository) error {
		return repo.Delete(ctx, id)
	})
	if err != nil {
		if !errors.Is(err, leaveerrors.ErrLeaveNotFound) && !errors.Is(err, leaveerrors.ErrInvalidLeaveID) {
			s.logger.Error("delete leave failed", zap.String("leave_id", id), zap.Error(err))
		}
		return err
	}

	s.cache.invalidate(ctx, id)
	s.logger.Info("delete leave success", zap.String("leave_id", id))
	return nil
}

// withinTx runs fn in a SQL transaction, or directly against repo when the
// service has no database. outbox is nil when no outbox is configured.
func (s *service) withinTx(ctx context.Context, fn func(repo Repository, outbox kafka.OutboxRepository) error) error {
	if s.db == nil {
		return fn(s.repo, nil)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	var outbox kafka.OutboxRepository
	if s.outbox != nil {
		outbox = s.outbox.WithTx(tx)
	}

	if err := fn(s.repo.WithTx(tx), outbox); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("commit failed", zap.Error(err))
		return err
	}
	return nil
}

func (s *service) enqueue(ctx context.Context, outbox kafka.OutboxRepository, event events.LeaveEvent) error {
	if outbox == nil {
		return nil
	}
	row, err := kafka.NewOutboxEvent(aggregateType, event.LeaveID, event.EventType, events.LeaveLifecycleTopic, event.RequestID, event)
	if err != nil {
		s.logger.Error("marshal leave event failed", zap.String("leave_id", event.LeaveID), zap.Error(err))
		return err
	}
	if err := outbox.Create(ctx, row); err != nil {
		s.logger.Error("leave outbox persist failed",
			zap.String("leave_id", event.LeaveID),
			zap.String("event_type", event.EventType),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func canRead(actor Actor, requesterID string) error {
	switch {
	case actor.Role.IsApprover():
		return nil
	case actor.Role == RoleStudent && actor.ID.String() == requesterID:
		return nil
	default:
		return leaveerrors.ErrNotRequestOwner
	}
}

func leaveEvent(eventType, rid string, l LeaveRequest, at time.Time) events.LeaveEvent {
	return events.LeaveEvent{
		EventType:      eventType,
		RequestID:      rid,
		LeaveID:        l.ID.String(),
		RequesterID:    l.RequesterID.String(),
		RequesterName:  l.RequesterName,
		Category:       string(l.Category),
		FromDate:       l.FromDate.Format(dateLayout),
		ToDate:         l.ToDate.Format(dateLayout),
		Status:         string(l.Status),
		ParentApproval: l.ParentApproval,
		AdminApproval:  l.AdminApproval,
		FinalApproval:  l.FinalApproval,
		OccurredAt:     at,
	}
}

func mapToResponse(l LeaveRequest) LeaveResponse {
	return LeaveResponse{
		ID:             l.ID.String(),
		RequesterID:    l.RequesterID.String(),
		RequesterName:  l.RequesterName,
		Category:       string(l.Category),
		CategoryLabel:  l.Category.Label(),
		FromDate:       l.FromDate.Format(dateLayout),
		ToDate:         l.ToDate.Format(dateLayout),
		FromTime:       l.FromTime,
		ToTime:         l.ToTime,
		Reason:         l.Reason,
		Status:         string(l.Status),
		ParentApproval: l.ParentApproval,
		AdminApproval:  l.AdminApproval,
		FinalApproval:  l.FinalApproval,
		RejectedBy:     rejectedBy(l),
		Version:        l.Version,
		CreatedAt:      l.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      l.UpdatedAt.Format(time.RFC3339),
	}
}

func rejectedBy(l LeaveRequest) []string {
	out := make([]string, 0, 2)
	if l.ParentRejected {
		out = append(out, string(RoleParent))
	}
	if l.AdminRejected {
		out = append(out, string(RoleAdmin))
	}
	return out
}

func mapToListResponse(leaves []LeaveRequest) []LeaveResponse {
	out := make([]LeaveResponse, 0, len(leaves))
	for _, l := range leaves {
		out = append(out, mapToResponse(l))
	}
	return out
}

func mapDecision(d LeaveDecision) DecisionResponse {
	return DecisionResponse{
		ID:        d.ID.String(),
		LeaveID:   d.LeaveID.String(),
		Role:      string(d.Role),
		Decision:  string(d.Decision),
		ActorID:   d.ActorID.String(),
		ActorName: d.ActorName,
		DecidedAt: d.DecidedAt.Format(time.RFC3339),
	}
}
