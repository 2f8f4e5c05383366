package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/perfreview/goalflow/internal/model"
	"github.com/perfreview/goalflow/internal/repository"
	"github.com/perfreview/goalflow/internal/validation"
)

var (
	ErrEmailAlreadyExists = errors.New("email already exists")
)

type CreateUserInput struct {
	Email     string
	Name      string
	Role      model.Role
	ManagerID string
}

// UserService manages the employee directory: who reports to whom, and where to email them.
type UserService struct {
	userRepository repository.UserRepository
}

func NewUserService(userRepository repository.UserRepository) *UserService {
	return &UserService{
		userRepository: userRepository,
	}
}

func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*model.User, error) {
	email := validation.NormalizeEmail(input.Email)
	err := validation.ValidateEmail(email)
	if err != nil {
		return nil, newValidationError("email", err)
	}

	err = validation.ValidateName(input.Name)
	if err != nil {
		return nil, newValidationError("name", err)
	}

	if input.Role == "" {
		input.Role = model.RoleEmployee
	}
	err = validation.ValidateRole(string(input.Role))
	if err != nil {
		return nil, newValidationError("role", err)
	}

	user := &model.User{
		Email: email,
		Name:  strings.TrimSpace(input.Name),
		Role:  input.Role,
	}

	if input.ManagerID != "" {
		manager, err := s.ByID(ctx, input.ManagerID)
		if errors.Is(err, ErrNotFound) {
			return nil, &ValidationError{Field: "managerId", Message: "manager does not exist"}
		}
		if err != nil {
			return nil, err
		}
		if !manager.Role.CanReview() {
			return nil, &ValidationError{Field: "managerId", Message: "manager must have the manager or admin role"}
		}
		user.ManagerID = &manager.ID
	}

	err = s.userRepository.Create(ctx, user)
	if errors.Is(err, repository.ErrDuplicateEmail) {
		return nil, &ValidationError{Field: "email", Message: ErrEmailAlreadyExists.Error()}
	}
	if err != nil {
		return nil, newStorageError("create user", err)
	}

	slog.Info("user added to directory", "user_id", user.ID, "role", user.Role)
	return user, nil
}

func (s *UserService) ByID(ctx context.Context, id string) (*model.User, error) {
	user, err := s.userRepository.ByID(ctx, id)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, &NotFoundError{Entity: "user", ID: id}
	}
	if err != nil {
		return nil, newStorageError("get user", err)
	}
	return user, nil
}

// ManagerOf returns the manager's user ID, or "" when the user is unknown or reports to nobody.
func (s *UserService) ManagerOf(ctx context.Context, userID string) (string, error) {
	user, err := s.userRepository.ByID(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return "", nil
	}
	if err != nil {
		return "", newStorageError("get user", err)
	}
	if user.ManagerID == nil {
		return "", nil
	}
	return *user.ManagerID, nil
}

func (s *UserService) Users(ctx context.Context) ([]*model.User, error) {
	users, err := s.userRepository.Users(ctx)
	if err != nil {
		return nil, newStorageError("list users", err)
	}
	return users, nil
}
