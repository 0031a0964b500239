package handlers

import (
	"net/url"

	"juicebox/internal/middleware"
	"juicebox/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// TagHandler handles HTTP requests for tags.
type TagHandler struct {
	service     *services.TagService
	authService *services.AuthService
	logger      *zap.Logger
}

// NewTagHandler creates a new TagHandler.
func NewTagHandler(service *services.TagService, authService *services.AuthService, logger *zap.Logger) *TagHandler {
	return &TagHandler{
		service:     service,
		authService: authService,
		logger:      logger,
	}
}

// RegisterRoutes registers the tag routes with the Fiber app.
func (h *TagHandler) RegisterRoutes(router fiber.Router) {
	tags := router.Group("/tags")
	tags.Get("/", h.HandleGetTags)
	tags.Get("/:tagName/posts", middleware.AuthOptional(h.authService, h.logger), h.HandleGetPostsByTag)
}

// HandleGetTags lists every tag.
func (h *TagHandler) HandleGetTags(c *fiber.Ctx) error {
	tags, err := h.service.GetAllTags(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve tags", err)
	}
	return c.JSON(fiber.Map{"tags": tags})
}

// HandleGetPostsByTag lists the visible posts carrying a tag. Tag names start
// with '#', so clients send them percent-encoded.
func (h *TagHandler) HandleGetPostsByTag(c *fiber.Ctx) error {
	tagName, err := url.PathUnescape(c.Params("tagName"))
	if err != nil {
		return badRequest(c, "Invalid tag name", err)
	}

	posts, err := h.service.GetPostsByTagName(c.UserContext(), tagName)
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve posts", err)
	}
	return c.JSON(fiber.Map{"posts": services.FilterVisible(posts, middleware.CallerID(c))})
}
