package user

import (
	"context"
	"strings"
	"time"

	"go-hostel-leave/internal/auth"
	"go-hostel-leave/internal/shared/contextutil"
	usererrors "go-hostel-leave/internal/user/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

//go:generate mockgen -source=user_service.go -destination=mock/user_service_mock.go -package=mock
type Service interface {
	List(ctx context.Context, role string) ([]UserResponse, error)
	GetByID(ctx context.Context, id string) (UserResponse, error)
	SetStatus(ctx context.Context, actorID, id string, isActive bool) (UserResponse, error)

	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
	ResetPassword(ctx context.Context, id, newPassword string) error
}

// service manages existing accounts. Accounts are created through
// auth.Service.Register; both share auth.Repository.
type service struct {
	repo   auth.Repository
	logger *zap.Logger
}

func NewService(repo auth.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("user.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("user.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) List(ctx context.Context, role string) ([]UserResponse, error) {
	role = strings.ToLower(strings.TrimSpace(role))
	if role != "" && !auth.ValidRole(role) {
		return nil, usererrors.ErrInvalidRoleFilter
	}

	users, err := s.repo.List(ctx, role)
	if err != nil {
		s.logger.Error("list users failed", zap.String("role", role), zap.Error(err))
		return nil, err
	}

	resp := make([]UserResponse, len(users))
	for i, u := range users {
		resp[i] = mapToResponse(u)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, id string) (UserResponse, error) {
	u, err := s.find(ctx, id)
	if err != nil {
		return UserResponse{}, err
	}
	return mapToResponse(*u), nil
}

func (s *service) SetStatus(ctx context.Context, actorID, id string, isActive bool) (UserResponse, error) {
	l := contextutil.GetLogger(ctx, s.logger)

	u, err := s.find(ctx, id)
	if err != nil {
		return UserResponse{}, err
	}
	if !isActive && u.ID.String() == actorID {
		l.Warn("admin tried to deactivate own account", zap.String("user_id", actorID))
		return UserResponse{}, usererrors.ErrCannotDeactivateSelf
	}

	u.IsActive = isActive
	if err := s.repo.Update(ctx, u); err != nil {
		l.Error("failed to update user status", zap.String("user_id", id), zap.Error(err))
		return UserResponse{}, err
	}

	l.Info("user status updated",
		zap.String("user_id", id),
		zap.String("role", u.Role),
		zap.Bool("is_active", isActive),
	)
	return mapToResponse(*u), nil
}

func (s *service) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	l := contextutil.GetLogger(ctx, s.logger)

	u, err := s.find(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(currentPassword)); err != nil {
		l.Warn("change password with wrong current password", zap.String("user_id", userID))
		return usererrors.ErrWrongPassword
	}

	if err := s.setPassword(ctx, u, newPassword); err != nil {
		return err
	}
	l.Info("password changed", zap.String("user_id", userID))
	return nil
}

func (s *service) ResetPassword(ctx context.Context, id, newPassword string) error {
	l := contextutil.GetLogger(ctx, s.logger)

	u, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if err := s.setPassword(ctx, u, newPassword); err != nil {
		return err
	}
	l.Info("password reset by admin", zap.String("user_id", id))
	return nil
}

func (s *service) setPassword(ctx context.Context, u *auth.User, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return usererrors.ErrInvalidPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("failed to hash new password", zap.Error(err))
		return err
	}

	u.Password = string(hashed)
	return s.repo.Update(ctx, u)
}

func (s *service) find(ctx context.Context, id string) (*auth.User, error) {
	uid, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return nil, usererrors.ErrInvalidUserID
	}
	return s.repo.GetByID(ctx, uid)
}

func mapToResponse(u auth.User) UserResponse {
	return UserResponse{
		ID:        u.ID.String(),
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
	}
}
