package user_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-hostel-leave/internal/auth"
	autherrors "go-hostel-leave/internal/auth/errors"
	authMock "go-hostel-leave/internal/auth/mock"
	"go-hostel-leave/internal/user"
	usererrors "go-hostel-leave/internal/user/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func setup(t *testing.T) (*authMock.MockRepository, user.Service) {
	ctrl := gomock.NewController(t)
	mockRepo := authMock.NewMockRepository(ctrl)
	svc := user.NewService(mockRepo, zap.NewNop())
	return mockRepo, svc
}

func account(role string) *auth.User {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	return &auth.User{
		ID:        uuid.New(),
		Name:      "Rina",
		Email:     "rina@example.com",
		Password:  string(hashed),
		Role:      role,
		IsActive:  true,
		CreatedAt: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC),
	}
}

func TestUserService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mockRepo, svc := setup(t)
		u := account(auth.RoleStudent)

		mockRepo.EXPECT().List(gomock.Any(), "student").Return([]auth.User{*u}, nil)

		res, err := svc.List(ctx, " Student ")

		assert.NoError(t, err)
		require.Len(t, res, 1)
		assert.Equal(t, u.ID.String(), res[0].ID)
		assert.Equal(t, "2026-03-01T08:00:00Z", res[0].CreatedAt)
	})

	t.Run("all roles", func(t *testing.T) {
		mockRepo, svc := setup(t)
		mockRepo.EXPECT().List(gomock.Any(), "").Return([]auth.User{}, nil)

		res, err := svc.List(ctx, "")

		assert.NoError(t, err)
		assert.Empty(t, res)
	})

	t.Run("unknown role", func(t *testing.T) {
		_, svc := setup(t)

		res, err := svc.List(ctx, "warden")

		assert.ErrorIs(t, err, usererrors.ErrInvalidRoleFilter)
		assert.Nil(t, res)
	})

	t.Run("repository error", func(t *testing.T) {
		mockRepo, svc := setup(t)
		mockRepo.EXPECT().List(gomock.Any(), "").Return(nil, errors.New("db error"))

		res, err := svc.List(ctx, "")

		assert.Error(t, err)
		assert.Nil(t, res)
	})
}

func TestUserService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mockRepo, svc := setup(t)
		u := account(auth.RoleParent)
		mockRepo.EXPECT().GetByID(gomock.Any(), u.ID).Return(u, nil)

		res, err := svc.GetByID(ctx, u.ID.String())

		assert.NoError(t, err)
		assert.Equal(t, "parent", res.Role)
	})

	t.Run("invalid id", func(t *testing.T) {
		_, svc := setup(t)

		_, err := svc.GetByID(ctx, "abc")

		assert.ErrorIs(t, err, usererrors.ErrInvalidUserID)
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo, svc := setup(t)
		id := uuid.New()
		mockRepo.EXPECT().GetByID(gomock.Any(), id).Return(nil, autherrors.ErrUserNotFound)

		_, err := svc.GetByID(ctx, id.String())

		assert.ErrorIs(t, err, autherrors.ErrUserNotFound)
	})
}

func TestUserService_SetStatus(t *testing.T) {
	ctx := context.Background()
	adminID := uuid.NewString()

	t.Run("deactivate", func(t *testing.T) {
		mockRepo, svc := setup(t)
		u := account(auth.RoleStudent)
		mockRepo.EXPECT().GetByID(gomock.Any(), u.ID).Return(u, nil)
		mockRepo.EXPECT().
			Update(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, got *auth.User) error {
				assert.False(t, got.IsActive)
				return nil
			})

		res, err := svc.SetStatus(ctx, adminID, u.ID.String(), false)

		assert.NoError(t, err)
		assert.False(t, res.IsActive)
	})

	t.Run("admin cannot deactivate self", func(t *testing.T) {
		mockRepo, svc := setup(t)
		u := account(auth.RoleAdmin)
		mockRepo.EXPECT().GetByID(gomock.Any(), u.ID).Return(u, nil)

		_, err := svc.SetStatus(ctx, u.ID.String(), u.ID.String(), false)

		assert.ErrorIs(t, err, usererrors.ErrCannotDeactivateSelf)
	})

	t.Run("update error", func(t *testing.T) {
		mockRepo, svc := setup(t)
		u := account(auth.RoleParent)
		mockRepo.EXPECT().GetByID(gomock.Any(), u.ID).Return(u, nil)
		mockRepo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(errors.New("db error"))

		_, err := svc.SetStatus(ctx, adminID, u.ID.String(), true)

		assert.Error(t, err)
	})
}

func TestUserService_ChangePassword(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mockRepo, svc := setup(t)
		u := account(auth.RoleStudent)
		mockRepo.EXPECT().GetByID(gomock.Any(), u.ID).Return(u, nil)
		mockRepo.EXPECT().
			Update(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, got *auth.User) error {
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(got.Password), []byte("new-secret")))
				return nil
			})

		err := svc.ChangePassword(ctx, u.ID.String(), "password123", "new-secret")

		assert.NoError(t, err)
	})

	t.Run("wrong current password", func(t *testing.T) {
		mockRepo, svc := setup(t)
		u := account(auth.RoleStudent)
		mockRepo.EXPECT().GetByID(gomock.Any(), u.ID).Return(u, nil)

		err := svc.ChangePassword(ctx, u.ID.String(), "nope", "new-secret")

		assert.ErrorIs(t, err, usererrors.ErrWrongPassword)
	})

	t.Run("new password too short", func(t *testing.T) {
		mockRepo, svc := setup(t)
		u := account(auth.RoleStudent)
		mockRepo.EXPECT().GetByID(gomock.Any(), u.ID).Return(u, nil)

		err := svc.ChangePassword(ctx, u.ID.String(), "password123", "abc")

		assert.ErrorIs(t, err, usererrors.ErrInvalidPassword)
	})
}

func TestUserService_ResetPassword(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mockRepo, svc := setup(t)
		u := account(auth.RoleParent)
		mockRepo.EXPECT().GetByID(gomock.Any(), u.ID).Return(u, nil)
		mockRepo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)

		assert.NoError(t, svc.ResetPassword(ctx, u.ID.String(), "reset-123"))
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo, svc := setup(t)
		id := uuid.New()
		mockRepo.EXPECT().GetByID(gomock.Any(), id).Return(nil, autherrors.ErrUserNotFound)

		err := svc.ResetPassword(ctx, id.String(), "reset-123")

		assert.ErrorIs(t, err, autherrors.ErrUserNotFound)
	})
}

func TestUserService_MemoryRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := auth.NewMemoryRepository()
	authSvc := auth.NewService(repo, "secret", zap.NewNop())
	svc := user.NewService(repo, zap.NewNop())

	require.NoError(t, auth.SeedDemoUsers(ctx, authSvc, "password123", zap.NewNop()))

	students, err := svc.List(ctx, auth.RoleStudent)
	require.NoError(t, err)
	require.Len(t, students, 1)

	_, err = svc.SetStatus(ctx, uuid.NewString(), students[0].ID, false)
	require.NoError(t, err)

	_, _, _, err = authSvc.Login(ctx, "student@example.com", "password123")
	assert.Error(t, err, "inactive accounts cannot log in")

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, "admin@example.com", all[0].Email)
}
