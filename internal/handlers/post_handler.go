package handlers

import (
	"strings"

	"juicebox/internal/apperror"
	"juicebox/internal/middleware"
	"juicebox/internal/models"
	"juicebox/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// PostHandler handles HTTP requests for posts.
type PostHandler struct {
	service     *services.PostService
	authService *services.AuthService
	logger      *zap.Logger
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(service *services.PostService, authService *services.AuthService, logger *zap.Logger) *PostHandler {
	return &PostHandler{
		service:     service,
		authService: authService,
		logger:      logger,
	}
}

// RegisterRoutes registers the post routes with the Fiber app.
func (h *PostHandler) RegisterRoutes(router fiber.Router) {
	authOptional := middleware.AuthOptional(h.authService, h.logger)
	authRequired := middleware.AuthRequired(h.authService, h.logger)

	posts := router.Group("/posts")
	posts.Get("/", authOptional, h.HandleGetPosts)
	posts.Get("/:id", authOptional, h.HandleGetPostByID)
	posts.Post("/", authRequired, h.HandleCreatePost)
	posts.Patch("/:id", authRequired, h.HandleUpdatePost)
	posts.Delete("/:id", authRequired, h.HandleDeletePost)
}

// CreatePostRequest is the body of POST /posts. Tags is a space separated
// list such as "#happy #bloated".
type CreatePostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Tags    string `json:"tags"`
}

// UpdatePostRequest is the body of PATCH /posts/:id. Absent fields are left
// unchanged; an empty tags string removes every tag.
type UpdatePostRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
	Active  *bool   `json:"active"`
	Tags    *string `json:"tags"`
}

func (r UpdatePostRequest) patch() models.PostPatch {
	p := models.PostPatch{
		Title:   r.Title,
		Content: r.Content,
		Active:  r.Active,
	}
	if r.Tags != nil {
		names := strings.Fields(*r.Tags)
		p.Tags = &names
	}
	return p
}

// HandleGetPosts lists the posts visible to the caller.
func (h *PostHandler) HandleGetPosts(c *fiber.Ctx) error {
	posts, err := h.service.GetAllPosts(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve posts", err)
	}
	return c.JSON(fiber.Map{"posts": services.FilterVisible(posts, middleware.CallerID(c))})
}

// HandleGetPostByID retrieves a single post. An inactive post is reported as
// missing to anyone but its author.
func (h *PostHandler) HandleGetPostByID(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid post ID", err)
	}

	post, err := h.service.GetPostByID(c.UserContext(), id)
	if err == nil && !services.VisibleTo(*post, middleware.CallerID(c)) {
		err = apperror.Newf(apperror.ErrNotFound, "post with ID %d not found", id)
	}
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve post", err)
	}
	return c.JSON(fiber.Map{"post": post})
}

// HandleCreatePost creates a post authored by the caller.
func (h *PostHandler) HandleCreatePost(c *fiber.Ctx) error {
	var req CreatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body", err)
	}

	post, err := h.service.CreatePost(c.UserContext(), services.CreatePostInput{
		AuthorID: middleware.CallerID(c),
		Title:    req.Title,
		Content:  req.Content,
		Tags:     strings.Fields(req.Tags),
	})
	if err != nil {
		return respondError(c, h.logger, "Could not create post", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"post": post})
}

// HandleUpdatePost applies a partial update to one of the caller's posts.
func (h *PostHandler) HandleUpdatePost(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid post ID", err)
	}

	var req UpdatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body", err)
	}

	if err := h.requireOwner(c, id); err != nil {
		return respondError(c, h.logger, "Could not update post", err)
	}

	post, err := h.service.UpdatePost(c.UserContext(), id, req.patch())
	if err != nil {
		return respondError(c, h.logger, "Could not update post", err)
	}
	return c.JSON(fiber.Map{"post": post})
}

// HandleDeletePost deactivates one of the caller's posts.
func (h *PostHandler) HandleDeletePost(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid post ID", err)
	}

	if err := h.requireOwner(c, id); err != nil {
		return respondError(c, h.logger, "Could not delete post", err)
	}

	post, err := h.service.DeletePost(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logger, "Could not delete post", err)
	}
	return c.JSON(fiber.Map{"post": post})
}

// requireOwner answers 404 for posts the caller cannot see, so a write
// attempt does not reveal that an inactive post exists.
func (h *PostHandler) requireOwner(c *fiber.Ctx, id uint) error {
	post, err := h.service.GetPostByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	callerID := middleware.CallerID(c)
	if !services.VisibleTo(*post, callerID) {
		return apperror.Newf(apperror.ErrNotFound, "post with ID %d not found", id)
	}
	return services.RequireOwner(post, callerID)
}
