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

// MockPostRepository is an in-memory implementation of PostRepository.
type MockPostRepository struct {
	posts map[string]models.Post
	mu    sync.RWMutex
}

// NewMockPostRepository creates a new instance of MockPostRepository.
func NewMockPostRepository() *MockPostRepository {
	return &MockPostRepository{
		posts: make(map[string]models.Post),
	}
}

// Create adds a new post.
func (r *MockPostRepository) Create(_ context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if post.ID.IsZero() {
		post.ID = primitive.NewObjectID()
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}
	r.posts[post.ID.Hex()] = *post
	return nil
}

// GetAll returns all posts.
func (r *MockPostRepository) GetAll(_ context.Context) ([]models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	postList := make([]models.Post, 0, len(r.posts))
	for _, p := range r.posts {
		postList = append(postList, p)
	}
	return postList, nil
}

// GetByID returns a post by its hex ObjectID.
func (r *MockPostRepository) GetByID(_ context.Context, id string) (*models.Post, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrInvalidIdentifier, id)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	post, ok := r.posts[id]
	if !ok {
		return nil, fmt.Errorf("%w: post %s", apperrors.ErrNotFound, id)
	}
	return &post, nil
}

// Update replaces an existing post.
func (r *MockPostRepository) Update(_ context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := post.ID.Hex()
	if _, ok := r.posts[id]; !ok {
		return fmt.Errorf("%w: post %s", apperrors.ErrNotFound, id)
	}
	r.posts[id] = *post
	return nil
}

// Delete removes a post by its hex ObjectID.
func (r *MockPostRepository) Delete(_ context.Context, id string) error {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return fmt.Errorf("%w: %s", apperrors.ErrInvalidIdentifier, id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.posts[id]; !ok {
		return fmt.Errorf("%w: post %s", apperrors.ErrNotFound, id)
	}
	delete(r.posts, id)
	return nil
}

// Search matches the query case-insensitively against title and author.
func (r *MockPostRepository) Search(_ context.Context, query string) ([]models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q := strings.ToLower(query)
	matches := []models.Post{}
	for _, p := range r.posts {
		if strings.Contains(strings.ToLower(p.Title), q) || strings.Contains(strings.ToLower(p.Author), q) {
			matches = append(matches, p)
		}
	}
	return matches, nil
}
