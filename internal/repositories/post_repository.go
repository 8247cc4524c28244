package repositories

import (
	"context"

	"frendora/internal/models"
)

// PostRepository defines the interface for post data access.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetAll(ctx context.Context) ([]models.Post, error)
	GetByID(ctx context.Context, id string) (*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, query string) ([]models.Post, error)
}
