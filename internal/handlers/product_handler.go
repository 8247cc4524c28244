package handlers

import (
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"frendora/internal/apperrors"
	"frendora/internal/models"
	"frendora/internal/services"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service *services.ProductService
	dev     bool
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, dev bool) *ProductHandler {
	return &ProductHandler{
		service: service,
		dev:     dev,
	}
}

// RegisterRoutes registers the product routes. The product surface is
// fully public, no auth gate.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	products := router.Group("/products")
	products.Get("/", h.HandleGetProducts)
	products.Get("/:id", h.HandleGetProduct)
	products.Post("/", h.HandleCreateProduct)
	products.Put("/:id", h.HandleUpdateProduct)
	products.Delete("/:id", h.HandleDeleteProduct)
}

// HandleGetProducts retrieves all products.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts(c.Context())
	if err != nil {
		log.Printf("Error getting all products: %v", err)
		return respondError(c, err, h.dev)
	}
	return c.JSON(products)
}

// HandleGetProduct retrieves a single product by ID.
func (h *ProductHandler) HandleGetProduct(c *fiber.Ctx) error {
	product, err := h.service.GetProductByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err, h.dev)
	}
	return c.JSON(product)
}

// HandleCreateProduct creates a new product.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return respondError(c, fmt.Errorf("%w: %v", apperrors.ErrValidation, err), h.dev)
	}
	if err := h.service.CreateProduct(c.Context(), &product); err != nil {
		log.Printf("Error creating product: %v", err)
		return respondError(c, err, h.dev)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct applies a partial update to a product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var upd services.ProductUpdate
	if err := c.BodyParser(&upd); err != nil {
		return respondError(c, fmt.Errorf("%w: %v", apperrors.ErrValidation, err), h.dev)
	}
	product, err := h.service.UpdateProduct(c.Context(), c.Params("id"), upd)
	if err != nil {
		log.Printf("Error updating product %s: %v", c.Params("id"), err)
		return respondError(c, err, h.dev)
	}
	return c.JSON(product)
}

// HandleDeleteProduct deletes a product by ID.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	if err := h.service.DeleteProduct(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err, h.dev)
	}
	return c.JSON(fiber.Map{
		"success":   true,
		"message":   "Product deleted successfully",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
