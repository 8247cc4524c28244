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

// MockProductRepository is a mock implementation of repositories.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) Update(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestProductService_GetAllProducts(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo)

	expectedProducts := []models.Product{
		{ID: primitive.NewObjectID(), Name: "Product A", Price: 10.0},
		{ID: primitive.NewObjectID(), Name: "Product B", Price: 20.0},
	}

	mockRepo.On("GetAll", mock.Anything).Return(expectedProducts, nil).Once()

	products, err := service.GetAllProducts(context.Background())
	assert.NoError(t, err)
	assert.Len(t, products, 2)
	assert.Equal(t, expectedProducts, products)
	mockRepo.AssertExpectations(t)
}

func TestProductService_GetProductByID(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo)

	id := primitive.NewObjectID()
	expectedProduct := &models.Product{ID: id, Name: "Product A", Price: 10.0}

	// Successful retrieval
	mockRepo.On("GetByID", mock.Anything, id.Hex()).Return(expectedProduct, nil).Once()
	product, err := service.GetProductByID(context.Background(), id.Hex())
	assert.NoError(t, err)
	assert.Equal(t, expectedProduct, product)
	mockRepo.AssertExpectations(t)

	// Product not found
	missing := primitive.NewObjectID().Hex()
	mockRepo.On("GetByID", mock.Anything, missing).Return(nil, apperrors.ErrNotFound).Once()
	product, err = service.GetProductByID(context.Background(), missing)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Nil(t, product)
	mockRepo.AssertExpectations(t)
}

func TestProductService_CreateProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo)

	newProduct := &models.Product{Name: "New Product", Price: 50.0}

	// Successful creation
	mockRepo.On("Create", mock.Anything, newProduct).Return(nil).Once()
	err := service.CreateProduct(context.Background(), newProduct)
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)

	// Required fields missing
	err = service.CreateProduct(context.Background(), &models.Product{Price: 50.0})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	err = service.CreateProduct(context.Background(), &models.Product{Name: "Free"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestProductService_UpdateProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo)

	id := primitive.NewObjectID()
	existing := &models.Product{ID: id, Name: "Product A", Price: 10.0, Category: "tools"}

	var updated *models.Product
	mockRepo.On("GetByID", mock.Anything, id.Hex()).Return(existing, nil).Once()
	mockRepo.On("Update", mock.Anything, mock.AnythingOfType("*models.Product")).
		Run(func(args mock.Arguments) {
			updated = args.Get(1).(*models.Product)
		}).
		Return(nil).Once()

	// Partial update: only the price changes.
	newPrice := 12.0
	product, err := service.UpdateProduct(context.Background(), id.Hex(), services.ProductUpdate{Price: &newPrice})
	assert.NoError(t, err)
	assert.Equal(t, 12.0, product.Price)
	assert.Equal(t, "Product A", updated.Name)
	assert.Equal(t, "tools", updated.Category)
	mockRepo.AssertExpectations(t)

	// Update of a missing product
	missing := primitive.NewObjectID().Hex()
	mockRepo.On("GetByID", mock.Anything, missing).Return(nil, apperrors.ErrNotFound).Once()
	_, err = service.UpdateProduct(context.Background(), missing, services.ProductUpdate{Price: &newPrice})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	mockRepo.AssertExpectations(t)
}

func TestProductService_DeleteProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo)

	id := primitive.NewObjectID().Hex()

	// Successful deletion
	mockRepo.On("Delete", mock.Anything, id).Return(nil).Once()
	err := service.DeleteProduct(context.Background(), id)
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)

	// Deletion of a missing product
	missing := primitive.NewObjectID().Hex()
	mockRepo.On("Delete", mock.Anything, missing).Return(apperrors.ErrNotFound).Once()
	err = service.DeleteProduct(context.Background(), missing)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	mockRepo.AssertExpectations(t)
}
