package services

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"

	"frendora/internal/apperrors"
	"frendora/internal/models"
	"frendora/internal/repositories"
)

// ProductUpdate carries the fields of a partial product update.
type ProductUpdate struct {
	Name        *string  `json:"name"`
	Price       *float64 `json:"price"`
	Category    *string  `json:"category"`
	Description *string  `json:"description"`
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo     repositories.ProductRepository
	validate *validator.Validate
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{
		repo:     repo,
		validate: validator.New(),
	}
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	return s.repo.GetAll(ctx)
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateProduct validates and persists a new product.
func (s *ProductService) CreateProduct(ctx context.Context, product *models.Product) error {
	if err := s.validate.Struct(product); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	return s.repo.Create(ctx, product)
}

// UpdateProduct applies a partial update and re-validates the merged result.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, upd ProductUpdate) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		product.Name = *upd.Name
	}
	if upd.Price != nil {
		product.Price = *upd.Price
	}
	if upd.Category != nil {
		product.Category = *upd.Category
	}
	if upd.Description != nil {
		product.Description = *upd.Description
	}

	if err := s.validate.Struct(product); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
