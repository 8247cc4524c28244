package handlers

import (
	"fmt"
	"log"
	"mime/multipart"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"frendora/internal/apperrors"
	"frendora/internal/models"
	"frendora/internal/services"
	"frendora/internal/storage"
)

// UserHandler handles HTTP requests for users and profiles.
type UserHandler struct {
	userService *services.UserService
	authService *services.AuthService
	pipeline    *storage.Pipeline
	validate    *validator.Validate
	dev         bool
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *services.UserService, authService *services.AuthService, pipeline *storage.Pipeline, dev bool) *UserHandler {
	return &UserHandler{
		userService: userService,
		authService: authService,
		pipeline:    pipeline,
		validate:    validator.New(),
		dev:         dev,
	}
}

// RegisterRoutes registers the user routes. Registration and login are
// public; everything else sits behind the auth gate. Static routes are
// registered before /:id so they are matched first.
func (h *UserHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	users := router.Group("/users")
	users.Post("/", h.HandleRegister)
	users.Post("/login", h.HandleLogin)
	users.Get("/", auth, h.HandleGetUsers)
	users.Get("/search", auth, h.HandleSearchUsers)
	users.Get("/profile/:id", auth, h.HandleGetUser)
	users.Put("/profile/:id/name", auth, h.HandleUpdateName)
	users.Put("/profile/:id/password", auth, h.HandleChangePassword)
	users.Post("/profile/:id/avatar", auth, h.HandleUploadAvatar)
	users.Get("/:id", auth, h.HandleGetUser)
	users.Put("/:id", auth, h.HandleUpdateUser)
	users.Delete("/:id", auth, h.HandleDeleteUser)
}

// RegisterRequest represents the request body for registration.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// HandleRegister handles new user registration and issues a token.
func (h *UserHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fmt.Errorf("%w: %v", apperrors.ErrValidation, err), h.dev)
	}
	if err := h.validate.Struct(req); err != nil {
		return respondError(c, fmt.Errorf("%w: %v", apperrors.ErrValidation, err), h.dev)
	}

	user := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	}
	token, err := h.authService.Register(c.Context(), user)
	if err != nil {
		log.Printf("Error registering user: %v", err)
		return respondError(c, err, h.dev)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"token":   token,
		"user":    user,
	})
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin handles user login and issues a token.
func (h *UserHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fmt.Errorf("%w: %v", apperrors.ErrValidation, err), h.dev)
	}
	if err := h.validate.Struct(req); err != nil {
		return respondError(c, fmt.Errorf("%w: %v", apperrors.ErrValidation, err), h.dev)
	}

	user, token, err := h.authService.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		log.Printf("Error during login for %s: %v", req.Email, err)
		return respondError(c, err, h.dev)
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   token,
		"user":    user,
	})
}

// HandleGetUsers retrieves all users.
func (h *UserHandler) HandleGetUsers(c *fiber.Ctx) error {
	users, err := h.userService.GetAllUsers(c.Context())
	if err != nil {
		log.Printf("Error getting all users: %v", err)
		return respondError(c, err, h.dev)
	}
	return c.JSON(users)
}

// HandleSearchUsers searches users by name or email.
func (h *UserHandler) HandleSearchUsers(c *fiber.Ctx) error {
	users, err := h.userService.SearchUsers(c.Context(), c.Query("query"))
	if err != nil {
		return respondError(c, err, h.dev)
	}
	return c.JSON(users)
}

// HandleGetUser retrieves a single user by ID.
func (h *UserHandler) HandleGetUser(c *fiber.Ctx) error {
	user, err := h.userService.GetUserByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err, h.dev)
	}
	return c.JSON(user)
}

// HandleUpdateUser applies a partial update to a user.
func (h *UserHandler) HandleUpdateUser(c *fiber.Ctx) error {
	var upd services.UserUpdate
	if err := c.BodyParser(&upd); err != nil {
		return respondError(c, fmt.Errorf("%w: %v", apperrors.ErrValidation, err), h.dev)
	}
	user, err := h.userService.UpdateUser(c.Context(), c.Params("id"), upd)
	if err != nil {
		log.Printf("Error updating user %s: %v", c.Params("id"), err)
		return respondError(c, err, h.dev)
	}
	return c.JSON(user)
}

// HandleDeleteUser deletes a user by ID.
func (h *UserHandler) HandleDeleteUser(c *fiber.Ctx) error {
	if err := h.userService.DeleteUser(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err, h.dev)
	}
	return c.JSON(fiber.Map{
		"success":   true,
		"message":   "User deleted successfully",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// HandleUpdateName changes only the display name.
func (h *UserHandler) HandleUpdateName(c *fiber.Ctx) error {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fmt.Errorf("%w: %v", apperrors.ErrValidation, err), h.dev)
	}
	user, err := h.userService.UpdateName(c.Context(), c.Params("id"), req.Name)
	if err != nil {
		return respondError(c, err, h.dev)
	}
	return c.JSON(user)
}

// ChangePasswordRequest represents the request body for a password change.
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

// HandleChangePassword replaces the password after verifying the old one.
func (h *UserHandler) HandleChangePassword(c *fiber.Ctx) error {
	var req ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, fmt.Errorf("%w: %v", apperrors.ErrValidation, err), h.dev)
	}
	if err := h.validate.Struct(req); err != nil {
		return respondError(c, fmt.Errorf("%w: %v", apperrors.ErrValidation, err), h.dev)
	}
	if err := h.authService.ChangePassword(c.Context(), c.Params("id"), req.OldPassword, req.NewPassword); err != nil {
		log.Printf("Error changing password for user %s: %v", c.Params("id"), err)
		return respondError(c, err, h.dev)
	}
	return c.JSON(fiber.Map{
		"success":   true,
		"message":   "Password updated successfully",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// HandleUploadAvatar stores a single avatar file through the upload
// pipeline and records its URL on the user.
func (h *UserHandler) HandleUploadAvatar(c *fiber.Ctx) error {
	file, err := c.FormFile("avatar")
	if err != nil {
		return respondError(c, fmt.Errorf("%w: no file uploaded", apperrors.ErrValidation), h.dev)
	}

	attachments, err := h.pipeline.Process(c.Context(), "avatar", []*multipart.FileHeader{file})
	if err != nil {
		log.Printf("Error storing avatar: %v", err)
		return respondError(c, err, h.dev)
	}

	user, err := h.userService.SetAvatar(c.Context(), c.Params("id"), attachments[0])
	if err != nil {
		return respondError(c, err, h.dev)
	}
	return c.JSON(user)
}
