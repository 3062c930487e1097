package services

import (
	"context"

	"github.com/rs/zerolog"

	"task-manager.com/task-manager/internal/constants"
	apperrors "task-manager.com/task-manager/internal/errors"
	model "task-manager.com/task-manager/internal/models"
	repository "task-manager.com/task-manager/internal/repositories"
)

type UpdateProfileParams struct {
	Name            *string
	Email           *string
	Password        *string
	ProfileImageURL *string
}

type UserService struct {
	users  *repository.UserRepository
	tasks  *repository.TaskRepository
	hasher PasswordHasher
	logger zerolog.Logger
}

func NewUserService(
	users *repository.UserRepository,
	tasks *repository.TaskRepository,
	hasher PasswordHasher,
	logger zerolog.Logger,
) *UserService {
	return &UserService{
		users:  users,
		tasks:  tasks,
		hasher: hasher,
		logger: logger,
	}
}

func (s *UserService) ListUsers(ctx context.Context, identity model.Identity) ([]model.UserWithTaskCounts, error) {
	if !identity.IsAdmin() {
		return nil, apperrors.ErrAdminOnly
	}

	users, err := s.users.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list users")
		return nil, err
	}

	counts, err := s.tasks.CountAssignedByStatus(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to count tasks per user")
		return nil, err
	}

	out := make([]model.UserWithTaskCounts, len(users))
	for i, u := range users {
		c := counts[u.ID]
		out[i] = model.UserWithTaskCounts{
			User:            u,
			PendingTasks:    int(c[constants.StatusPending]),
			InProgressTasks: int(c[constants.StatusInProgress]),
			CompletedTasks:  int(c[constants.StatusCompleted]),
		}
	}
	return out, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (*model.User, error) {
	return s.users.FindByID(ctx, id)
}

// DeleteUser removes the account only; tasks keep referencing the id.
func (s *UserService) DeleteUser(ctx context.Context, identity model.Identity, id string) error {
	if !identity.IsAdmin() {
		return apperrors.ErrAdminOnly
	}

	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().
		Str("user_id", id).
		Str("deleted_by", identity.UserID).
		Msg("deleted user")
	return nil
}

func (s *UserService) UpdateProfile(
	ctx context.Context,
	identity model.Identity,
	params UpdateProfileParams,
) (*model.User, error) {
	user, err := s.users.FindByID(ctx, identity.UserID)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		if *params.Name == "" {
			return nil, apperrors.ErrMissingUserFields
		}
		user.Name = *params.Name
	}
	if params.Email != nil {
		if *params.Email == "" {
			return nil, apperrors.ErrMissingUserFields
		}
		user.Email = *params.Email
	}
	if params.ProfileImageURL != nil {
		user.ProfileImageURL = optionalString(*params.ProfileImageURL)
	}
	if params.Password != nil {
		if len(*params.Password) < MinPasswordLength {
			return nil, apperrors.ErrWeakPassword
		}
		hash, err := s.hasher.Hash(*params.Password)
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to hash password")
			return nil, err
		}
		user.Password = hash
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Msg("updated profile")
	return user, nil
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
