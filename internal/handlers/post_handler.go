package handlers

import (
	"encoding/json"
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

// mediaField is the multipart field carrying post attachments.
const mediaField = "media"

// PostHandler handles HTTP requests for posts.
type PostHandler struct {
	service  *services.PostService
	pipeline *storage.Pipeline
	validate *validator.Validate
	dev      bool
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(service *services.PostService, pipeline *storage.Pipeline, dev bool) *PostHandler {
	return &PostHandler{
		service:  service,
		pipeline: pipeline,
		validate: validator.New(),
		dev:      dev,
	}
}

// RegisterRoutes registers the post routes. Reads are public, writes
// sit behind the auth gate.
func (h *PostHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	posts := router.Group("/posts")
	posts.Get("/", h.HandleGetPosts)
	posts.Get("/search", h.HandleSearchPosts)
	posts.Get("/:id", h.HandleGetPost)
	posts.Post("/", auth, h.HandleCreatePost)
	posts.Put("/:id", auth, h.HandleUpdatePost)
	posts.Delete("/:id", auth, h.HandleDeletePost)
}

// HandleCreatePost creates a post from a multipart form (up to 5 media
// parts under "media") or a plain JSON body. All files go through the
// upload pipeline before the post record is persisted, so a rejected or
// failed upload leaves nothing behind.
func (h *PostHandler) HandleCreatePost(c *fiber.Ctx) error {
	post := &models.Post{}
	var files []*multipart.FileHeader

	if form, err := c.MultipartForm(); err == nil {
		post.Title = formValue(form, "title")
		post.Description = formValue(form, "description")
		post.Author = formValue(form, "author")
		files = form.File[mediaField]
	} else {
		var req struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			Author      string `json:"author"`
		}
		if err := c.BodyParser(&req); err != nil {
			return respondError(c, fmt.Errorf("%w: %v", apperrors.ErrValidation, err), h.dev)
		}
		post.Title = req.Title
		post.Description = req.Description
		post.Author = req.Author
	}

	attachments, err := h.pipeline.Process(c.Context(), mediaField, files)
	if err != nil {
		log.Printf("Error storing post media: %v", err)
		return respondError(c, err, h.dev)
	}
	post.Media = attachments

	created, err := h.service.CreatePost(c.Context(), post)
	if err != nil {
		log.Printf("Error creating post: %v", err)
		return respondError(c, err, h.dev)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// HandleGetPosts retrieves all posts.
func (h *PostHandler) HandleGetPosts(c *fiber.Ctx) error {
	posts, err := h.service.GetAllPosts(c.Context())
	if err != nil {
		log.Printf("Error getting all posts: %v", err)
		return respondError(c, err, h.dev)
	}
	return c.JSON(posts)
}

// HandleSearchPosts searches posts by title or author.
func (h *PostHandler) HandleSearchPosts(c *fiber.Ctx) error {
	posts, err := h.service.SearchPosts(c.Context(), c.Query("query"))
	if err != nil {
		return respondError(c, err, h.dev)
	}
	return c.JSON(posts)
}

// HandleGetPost retrieves a single post by ID.
func (h *PostHandler) HandleGetPost(c *fiber.Ctx) error {
	post, err := h.service.GetPostByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err, h.dev)
	}
	return c.JSON(post)
}

// HandleUpdatePost applies a partial update. A multipart form may carry
// an "existingMedia" field (JSON array of attachment descriptors to
// retain) plus new "media" parts; the final sequence is retained items
// in the given order followed by new uploads in upload order.
func (h *PostHandler) HandleUpdatePost(c *fiber.Ctx) error {
	var upd services.PostUpdate

	if form, err := c.MultipartForm(); err == nil {
		upd.Title = formValuePtr(form, "title")
		upd.Description = formValuePtr(form, "description")
		upd.Author = formValuePtr(form, "author")

		var retained []models.Attachment
		existing, hasExisting := form.Value["existingMedia"]
		if hasExisting && len(existing) > 0 && existing[0] != "" {
			if err := json.Unmarshal([]byte(existing[0]), &retained); err != nil {
				return respondError(c, fmt.Errorf("%w: malformed existingMedia: %v", apperrors.ErrValidation, err), h.dev)
			}
		}

		files := form.File[mediaField]
		if hasExisting || len(files) > 0 {
			fresh, err := h.pipeline.Process(c.Context(), mediaField, files)
			if err != nil {
				log.Printf("Error storing post media: %v", err)
				return respondError(c, err, h.dev)
			}
			upd.Media = storage.MergeAttachments(retained, fresh)
			upd.ReplaceMedia = true
		}
	} else {
		var req struct {
			Title         *string             `json:"title"`
			Description   *string             `json:"description"`
			Author        *string             `json:"author"`
			ExistingMedia []models.Attachment `json:"existingMedia"`
		}
		if err := c.BodyParser(&req); err != nil {
			return respondError(c, fmt.Errorf("%w: %v", apperrors.ErrValidation, err), h.dev)
		}
		upd.Title = req.Title
		upd.Description = req.Description
		upd.Author = req.Author
		if req.ExistingMedia != nil {
			upd.Media = req.ExistingMedia
			upd.ReplaceMedia = true
		}
	}

	post, err := h.service.UpdatePost(c.Context(), c.Params("id"), upd)
	if err != nil {
		log.Printf("Error updating post %s: %v", c.Params("id"), err)
		return respondError(c, err, h.dev)
	}
	return c.JSON(post)
}

// HandleDeletePost deletes a post by ID.
func (h *PostHandler) HandleDeletePost(c *fiber.Ctx) error {
	if err := h.service.DeletePost(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err, h.dev)
	}
	return c.JSON(fiber.Map{
		"success":   true,
		"message":   "Post deleted successfully",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func formValue(form *multipart.Form, key string) string {
	if vals, ok := form.Value[key]; ok && len(vals) > 0 {
		return vals[0]
	}
	return ""
}

func formValuePtr(form *multipart.Form, key string) *string {
	if vals, ok := form.Value[key]; ok && len(vals) > 0 {
		return &vals[0]
	}
	return nil
}
