package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"frendora/internal/apperrors"
	"frendora/internal/models"
	"frendora/internal/repositories"
)

// UserUpdate carries the fields of a partial user update. Nil fields
// are left unchanged.
type UserUpdate struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// UserService handles business logic for user records.
type UserService struct {
	repo     repositories.UserRepository
	validate *validator.Validate
}

// NewUserService creates a new UserService.
func NewUserService(repo repositories.UserRepository) *UserService {
	return &UserService{
		repo:     repo,
		validate: validator.New(),
	}
}

// GetAllUsers retrieves all users.
func (s *UserService) GetAllUsers(ctx context.Context) ([]models.User, error) {
	return s.repo.GetAll(ctx)
}

// GetUserByID retrieves a single user by its ID.
func (s *UserService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateUser applies a partial update and re-validates the merged
// result. The password is rehashed only when the update actually
// carries a new one; an untouched password field keeps the existing
// digest as is.
func (s *UserService) UpdateUser(ctx context.Context, id string, upd UserUpdate) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		user.Name = *upd.Name
	}
	if upd.Email != nil {
		user.Email = models.NormalizeEmail(*upd.Email)
	}
	if upd.Password != nil {
		if len(*upd.Password) < 6 {
			return nil, fmt.Errorf("%w: password must be at least 6 characters", apperrors.ErrValidation)
		}
		digest, err := HashPassword(*upd.Password)
		if err != nil {
			return nil, err
		}
		user.Password = digest
	}

	if err := s.validate.StructExcept(user, "Password"); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateName changes only the display name.
func (s *UserService) UpdateName(ctx context.Context, id, name string) (*models.User, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: name is required", apperrors.ErrValidation)
	}
	return s.UpdateUser(ctx, id, UserUpdate{Name: &name})
}

// SetAvatar stores the descriptor URL of a freshly uploaded avatar on
// the user record.
func (s *UserService) SetAvatar(ctx context.Context, id string, att models.Attachment) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.AvatarURL = att.URL
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser deletes a user by its ID.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// SearchUsers matches the query case-insensitively against name and
// email. An empty query is an error; zero matches are not.
func (s *UserService) SearchUsers(ctx context.Context, query string) ([]models.User, error) {
	if strings.TrimSpace(query) == "" {
		return nil, apperrors.ErrMissingQuery
	}
	return s.repo.Search(ctx, query)
}
