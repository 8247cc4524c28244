package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"frendora/internal/apperrors"
	"frendora/internal/models"
	"frendora/internal/services"
)

// MockPostRepository is a mock implementation of repositories.PostRepository
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) GetAll(ctx context.Context) ([]models.Post, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Post), args.Error(1)
}

func (m *MockPostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) Update(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPostRepository) Search(ctx context.Context, query string) ([]models.Post, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]models.Post), args.Error(1)
}

// MockEventPublisher is a mock implementation of services.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishEvent(event string, payload map[string]interface{}) error {
	args := m.Called(event, payload)
	return args.Error(0)
}

func TestPostService_CreatePost(t *testing.T) {
	mockRepo := new(MockPostRepository)
	mockEvents := new(MockEventPublisher)
	service := services.NewPostService(mockRepo, mockEvents)

	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Post")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*models.Post).ID = primitive.NewObjectID()
		}).
		Return(nil).Once()
	mockEvents.On("PublishEvent", "post.created", mock.Anything).Return(nil).Once()

	post, err := service.CreatePost(context.Background(), &models.Post{
		Title:  "Hello",
		Author: "Ann",
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, post.ID)
	assert.NotNil(t, post.Media)
	mockRepo.AssertExpectations(t)
	mockEvents.AssertExpectations(t)
}

func TestPostService_CreatePost_Validation(t *testing.T) {
	mockRepo := new(MockPostRepository)
	service := services.NewPostService(mockRepo, nil)

	// Missing title
	_, err := service.CreatePost(context.Background(), &models.Post{Author: "Ann"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	// Missing author
	_, err = service.CreatePost(context.Background(), &models.Post{Title: "Hello"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPostService_UpdatePost_ReplacesMedia(t *testing.T) {
	mockRepo := new(MockPostRepository)
	service := services.NewPostService(mockRepo, nil)

	id := primitive.NewObjectID()
	oldMedia := []models.Attachment{{StorageKey: "media-1-old.png"}}
	existing := &models.Post{
		ID:     id,
		Title:  "Hello",
		Author: "Ann",
		Media:  oldMedia,
	}

	retained := models.Attachment{StorageKey: "media-1-old.png", OriginalName: "old.png"}
	fresh := models.Attachment{StorageKey: "media-2-new.png", OriginalName: "new.png"}

	var updated *models.Post
	mockRepo.On("GetByID", mock.Anything, id.Hex()).Return(existing, nil).Once()
	mockRepo.On("Update", mock.Anything, mock.AnythingOfType("*models.Post")).
		Run(func(args mock.Arguments) {
			updated = args.Get(1).(*models.Post)
		}).
		Return(nil).Once()

	post, err := service.UpdatePost(context.Background(), id.Hex(), services.PostUpdate{
		Media:        []models.Attachment{retained, fresh},
		ReplaceMedia: true,
	})
	assert.NoError(t, err)

	// Retained first, then new, nothing dropped.
	assert.Equal(t, []models.Attachment{retained, fresh}, post.Media)
	assert.Equal(t, []models.Attachment{retained, fresh}, updated.Media)
	mockRepo.AssertExpectations(t)
}

func TestPostService_UpdatePost_KeepsMediaWhenUntouched(t *testing.T) {
	mockRepo := new(MockPostRepository)
	service := services.NewPostService(mockRepo, nil)

	id := primitive.NewObjectID()
	oldMedia := []models.Attachment{{StorageKey: "media-1-old.png"}}
	existing := &models.Post{
		ID:     id,
		Title:  "Hello",
		Author: "Ann",
		Media:  oldMedia,
	}

	mockRepo.On("GetByID", mock.Anything, id.Hex()).Return(existing, nil).Once()
	mockRepo.On("Update", mock.Anything, mock.AnythingOfType("*models.Post")).Return(nil).Once()

	newTitle := "Hello again"
	post, err := service.UpdatePost(context.Background(), id.Hex(), services.PostUpdate{Title: &newTitle})
	assert.NoError(t, err)
	assert.Equal(t, "Hello again", post.Title)
	assert.Equal(t, oldMedia, post.Media)
	mockRepo.AssertExpectations(t)
}

func TestPostService_DeletePost(t *testing.T) {
	mockRepo := new(MockPostRepository)
	mockEvents := new(MockEventPublisher)
	service := services.NewPostService(mockRepo, mockEvents)

	id := primitive.NewObjectID().Hex()
	mockRepo.On("Delete", mock.Anything, id).Return(nil).Once()
	mockEvents.On("PublishEvent", "post.deleted", mock.Anything).Return(nil).Once()

	err := service.DeletePost(context.Background(), id)
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
	mockEvents.AssertExpectations(t)

	// A failed delete publishes nothing.
	mockRepo.On("Delete", mock.Anything, "missing").Return(apperrors.ErrNotFound).Once()
	err = service.DeletePost(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	mockEvents.AssertNumberOfCalls(t, "PublishEvent", 1)
}

func TestPostService_SearchPosts(t *testing.T) {
	mockRepo := new(MockPostRepository)
	service := services.NewPostService(mockRepo, nil)

	_, err := service.SearchPosts(context.Background(), "")
	assert.ErrorIs(t, err, apperrors.ErrMissingQuery)
	mockRepo.AssertNotCalled(t, "Search", mock.Anything, mock.Anything)

	mockRepo.On("Search", mock.Anything, "hello").Return([]models.Post{{Title: "Hello"}}, nil).Once()
	posts, err := service.SearchPosts(context.Background(), "hello")
	assert.NoError(t, err)
	assert.Len(t, posts, 1)
	mockRepo.AssertExpectations(t)
}
