package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/go-playground/validator/v10"

	"frendora/internal/apperrors"
	"frendora/internal/models"
	"frendora/internal/repositories"
)

// PostUpdate carries the fields of a partial post update. Nil fields
// are left unchanged; the media sequence is replaced only when
// ReplaceMedia is set.
type PostUpdate struct {
	Title        *string
	Description  *string
	Author       *string
	Media        []models.Attachment
	ReplaceMedia bool
}

// PostService handles business logic for posts and their media.
type PostService struct {
	repo     repositories.PostRepository
	events   EventPublisher
	validate *validator.Validate
}

// NewPostService creates a new PostService. events may be nil.
func NewPostService(repo repositories.PostRepository, events EventPublisher) *PostService {
	return &PostService{
		repo:     repo,
		events:   events,
		validate: validator.New(),
	}
}

// CreatePost validates and persists a post. The caller stores all media
// through the upload pipeline first; this runs only after every file is
// durable, so a failed upload never leaves a post behind.
func (s *PostService) CreatePost(ctx context.Context, post *models.Post) (*models.Post, error) {
	if err := s.validate.Struct(post); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	if post.Media == nil {
		post.Media = []models.Attachment{}
	}
	if err := s.repo.Create(ctx, post); err != nil {
		return nil, err
	}

	s.publish("post.created", map[string]interface{}{
		"postID": post.ID.Hex(),
		"title":  post.Title,
		"author": post.Author,
		"media":  len(post.Media),
	})

	return post, nil
}

// GetAllPosts retrieves all posts.
func (s *PostService) GetAllPosts(ctx context.Context) ([]models.Post, error) {
	return s.repo.GetAll(ctx)
}

// GetPostByID retrieves a single post by its ID.
func (s *PostService) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdatePost applies a partial update and re-validates the merged
// result. When ReplaceMedia is set the whole attachment sequence is
// replaced by upd.Media (retained descriptors first, new uploads after,
// as assembled by the upload pipeline).
func (s *PostService) UpdatePost(ctx context.Context, id string, upd PostUpdate) (*models.Post, error) {
	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Title != nil {
		post.Title = *upd.Title
	}
	if upd.Description != nil {
		post.Description = *upd.Description
	}
	if upd.Author != nil {
		post.Author = *upd.Author
	}
	if upd.ReplaceMedia {
		post.Media = upd.Media
	}

	if err := s.validate.Struct(post); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	if err := s.repo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost deletes a post by its ID.
func (s *PostService) DeletePost(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.publish("post.deleted", map[string]interface{}{
		"postID": id,
	})
	return nil
}

// SearchPosts matches the query case-insensitively against title and
// author. An empty query is an error; zero matches are not.
func (s *PostService) SearchPosts(ctx context.Context, query string) ([]models.Post, error) {
	if strings.TrimSpace(query) == "" {
		return nil, apperrors.ErrMissingQuery
	}
	return s.repo.Search(ctx, query)
}

func (s *PostService) publish(event string, payload map[string]interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishEvent(event, payload); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", event, err)
	}
}
