package auth

import (
	"context"
	"errors"

	autherrors "go-hostel-leave/internal/auth/errors"

	"go.uber.org/zap"
)

// DemoUsers are the three accounts a fresh local setup starts with.
func DemoUsers(password string) []RegisterRequest {
	return []RegisterRequest{
		{Name: "Student User", Email: "student@example.com", Password: password, Role: RoleStudent},
		{Name: "Parent User", Email: "parent@example.com", Password: password, Role: RoleParent},
		{Name: "Admin User", Email: "admin@example.com", Password: password, Role: RoleAdmin},
	}
}

// SeedDemoUsers registers DemoUsers, skipping accounts that already exist.
func SeedDemoUsers(ctx context.Context, svc Service, password string, logger *zap.Logger) error {
	for _, u := range DemoUsers(password) {
		if _, err := svc.Register(ctx, u); err != nil {
			if errors.Is(err, autherrors.ErrEmailAlreadyRegistered) {
				continue
			}
			return err
		}
		logger.Info("demo user seeded", zap.String("email", u.Email), zap.String("role", u.Role))
	}
	return nil
}
