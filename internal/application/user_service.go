package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/example/meeting-scheduler/internal/metrics"
	"github.com/example/meeting-scheduler/internal/scheduler"
)

// UserDirectory captures the directory operations needed by the user service.
type UserDirectory interface {
	Register(name string) (scheduler.User, error)
	Get(id int) (scheduler.User, bool)
	All() []scheduler.User
	Count() int
	Remove(id int) bool
}

// UserService orchestrates validation, auditing, and directory access for users.
type UserService struct {
	users  UserDirectory
	audit  *AuditService
	logger *slog.Logger
}

// NewUserService wires dependencies for the user service.
func NewUserService(users UserDirectory, audit *AuditService) *UserService {
	return NewUserServiceWithLogger(users, audit, nil)
}

// NewUserServiceWithLogger constructs a user service with a specified logger.
func NewUserServiceWithLogger(users UserDirectory, audit *AuditService, logger *slog.Logger) *UserService {
	if users != nil {
		metrics.SetUsersRegistered(users.Count())
	}
	return &UserService{users: users, audit: audit, logger: defaultLogger(logger)}
}

func (s *UserService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "UserService", operation, attrs...)
}

// CreateUser registers a user and returns it with its assigned id.
func (s *UserService) CreateUser(ctx context.Context, name string) (user scheduler.User, err error) {
	if s == nil || s.users == nil {
		return scheduler.User{}, fmt.Errorf("UserService is not configured")
	}

	logger := s.loggerWith(ctx, "CreateUser")
	defer func() {
		metrics.RecordOperation("create_user", err)
		if err != nil {
			logOutcome(ctx, logger, "failed to create user", err)
			return
		}
		logger.With("user_id", user.ID).InfoContext(ctx, "user created")
	}()

	user, err = s.users.Register(name)
	if err != nil {
		return scheduler.User{}, err
	}

	metrics.SetUsersRegistered(s.users.Count())
	s.audit.Record(ctx, ActionUserCreated, userTarget(user.ID), user.Name)
	return user, nil
}

// GetUser returns the user with the given id or ErrNotFound.
func (s *UserService) GetUser(ctx context.Context, id int) (scheduler.User, error) {
	if s == nil || s.users == nil {
		return scheduler.User{}, fmt.Errorf("UserService is not configured")
	}

	user, ok := s.users.Get(id)
	if !ok {
		s.loggerWith(ctx, "GetUser", "user_id", id).DebugContext(ctx, "user not found")
		return scheduler.User{}, ErrNotFound
	}
	return user, nil
}

// ListUsers returns every registered user in registration order.
func (s *UserService) ListUsers(ctx context.Context) ([]scheduler.User, error) {
	if s == nil || s.users == nil {
		return nil, fmt.Errorf("UserService is not configured")
	}

	users := s.users.All()
	s.loggerWith(ctx, "ListUsers").With("result_count", len(users)).DebugContext(ctx, "users listed")
	return users, nil
}

// DeleteUser removes a user. Removing an unknown user is not an error; the
// result reports whether anything was removed. Meetings that reference the
// user are kept.
func (s *UserService) DeleteUser(ctx context.Context, id int) (bool, error) {
	if s == nil || s.users == nil {
		return false, fmt.Errorf("UserService is not configured")
	}

	removed := s.users.Remove(id)
	metrics.RecordOperation("delete_user", nil)

	logger := s.loggerWith(ctx, "DeleteUser", "user_id", id)
	if !removed {
		logger.DebugContext(ctx, "user already absent")
		return false, nil
	}

	metrics.SetUsersRegistered(s.users.Count())
	s.audit.Record(ctx, ActionUserRemoved, userTarget(id), "")
	logger.InfoContext(ctx, "user removed")
	return true, nil
}
