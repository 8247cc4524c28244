package repositories

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"frendora/internal/apperrors"
	"frendora/internal/models"
)

// MockUserRepository is an in-memory implementation of UserRepository.
type MockUserRepository struct {
	users map[string]models.User
	mu    sync.RWMutex
}

// NewMockUserRepository creates a new instance of MockUserRepository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]models.User),
	}
}

// Create adds a new user, enforcing email uniqueness like the Mongo index does.
func (r *MockUserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == user.Email {
			return fmt.Errorf("%w: %s", apperrors.ErrDuplicateEmail, user.Email)
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	r.users[user.ID.Hex()] = *user
	return nil
}

// GetAll returns all users.
func (r *MockUserRepository) GetAll(_ context.Context) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	userList := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		userList = append(userList, u)
	}
	return userList, nil
}

// GetByID returns a user by its hex ObjectID.
func (r *MockUserRepository) GetByID(_ context.Context, id string) (*models.User, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrInvalidIdentifier, id)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: user %s", apperrors.ErrNotFound, id)
	}
	return &user, nil
}

// GetByEmail returns a user by email.
func (r *MockUserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, fmt.Errorf("%w: user with email %s", apperrors.ErrNotFound, email)
}

// Update replaces an existing user.
func (r *MockUserRepository) Update(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := user.ID.Hex()
	if _, ok := r.users[id]; !ok {
		return fmt.Errorf("%w: user %s", apperrors.ErrNotFound, id)
	}
	for _, u := range r.users {
		if u.Email == user.Email && u.ID != user.ID {
			return fmt.Errorf("%w: %s", apperrors.ErrDuplicateEmail, user.Email)
		}
	}
	r.users[id] = *user
	return nil
}

// Delete removes a user by its hex ObjectID.
func (r *MockUserRepository) Delete(_ context.Context, id string) error {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return fmt.Errorf("%w: %s", apperrors.ErrInvalidIdentifier, id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return fmt.Errorf("%w: user %s", apperrors.ErrNotFound, id)
	}
	delete(r.users, id)
	return nil
}

// Search matches the query case-insensitively against name and email.
func (r *MockUserRepository) Search(_ context.Context, query string) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q := strings.ToLower(query)
	matches := []models.User{}
	for _, u := range r.users {
		if strings.Contains(strings.ToLower(u.Name), q) || strings.Contains(strings.ToLower(u.Email), q) {
			matches = append(matches, u)
		}
	}
	return matches, nil
}
