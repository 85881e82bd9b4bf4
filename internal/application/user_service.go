package application

import (
	"context"
	"fmt"

	"github.com/printtrack/tracking-service/internal/domain"
	"github.com/printtrack/tracking-service/pkg/errors"
	"github.com/printtrack/tracking-service/pkg/logging"
)

// UserApplicationService serves the team member listing
type UserApplicationService struct {
	userRepo domain.UserRepository
	logger   *logging.Logger
}

// NewUserApplicationService creates a new UserApplicationService
func NewUserApplicationService(userRepo domain.UserRepository, logger *logging.Logger) *UserApplicationService {
	return &UserApplicationService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// ListUsers lists every team member
func (s *UserApplicationService) ListUsers(ctx context.Context) ([]UserDTO, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list users")
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return ToUserDTOs(users), nil
}

// GetUser retrieves a team member by ID
func (s *UserApplicationService) GetUser(ctx context.Context, userID string) (*UserDTO, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		s.logger.WithError(err).Error("Failed to get user", "userId", userID)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, errors.ErrNotFoundWithID("user", userID)
	}
	dto := ToUserDTO(*user)
	return &dto, nil
}
