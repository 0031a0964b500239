package handlers

import (
	"fmt"

	"juicebox/internal/middleware"
	"juicebox/internal/models"
	"juicebox/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// UserHandler handles HTTP requests for registration, login and user profiles.
type UserHandler struct {
	authService *services.AuthService
	userService *services.UserService
	validate    *validator.Validate
	logger      *zap.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(authService *services.AuthService, userService *services.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		authService: authService,
		userService: userService,
		validate:    validator.New(),
		logger:      logger,
	}
}

// RegisterRoutes registers the user routes with the Fiber app.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	users := router.Group("/users")
	users.Post("/register", h.HandleRegister)
	users.Post("/login", h.HandleLogin)
	users.Get("/", h.HandleGetUsers)

	// "/me" must be registered before "/:id"
	authRequired := middleware.AuthRequired(h.authService, h.logger)
	users.Get("/me", authRequired, h.HandleGetMe)
	users.Patch("/me", authRequired, h.HandleUpdateMe)

	users.Get("/:id", middleware.AuthOptional(h.authService, h.logger), h.HandleGetUserProfile)
}

// HandleRegister handles new user registration.
func (h *UserHandler) HandleRegister(c *fiber.Ctx) error {
	var req services.RegisterInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body", err)
	}

	user, token, err := h.authService.RegisterUser(c.UserContext(), req)
	if err != nil {
		return respondError(c, h.logger, "Registration failed", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "thank you for signing up",
		"user":    user,
		"token":   token,
	})
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin handles user login and issues a JWT token.
func (h *UserHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body", err)
	}

	if err := h.validate.Struct(req); err != nil {
		errorMessages := make(map[string]string)
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			for _, e := range validationErrors {
				errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
			}
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}

	token, err := h.authService.LoginUser(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return respondError(c, h.logger, "Authentication failed", err)
	}

	return c.JSON(fiber.Map{
		"message": "you're logged in!",
		"token":   token,
	})
}

// HandleGetUsers lists all users.
func (h *UserHandler) HandleGetUsers(c *fiber.Ctx) error {
	users, err := h.userService.GetAllUsers(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve users", err)
	}
	return c.JSON(fiber.Map{"users": users})
}

// HandleGetMe returns the caller's profile.
func (h *UserHandler) HandleGetMe(c *fiber.Ctx) error {
	return h.writeProfile(c, middleware.CallerID(c))
}

// HandleGetUserProfile returns a user's profile. Inactive posts are only
// listed for their author.
func (h *UserHandler) HandleGetUserProfile(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, "Invalid user ID", err)
	}
	return h.writeProfile(c, id)
}

func (h *UserHandler) writeProfile(c *fiber.Ctx, id uint) error {
	profile, err := h.userService.GetUserProfile(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve user", err)
	}
	profile.Posts = services.FilterVisible(profile.Posts, middleware.CallerID(c))
	return c.JSON(profile)
}

// HandleUpdateMe applies a partial update to the caller's own account.
func (h *UserHandler) HandleUpdateMe(c *fiber.Ctx) error {
	var patch models.UserPatch
	if err := c.BodyParser(&patch); err != nil {
		return badRequest(c, "Invalid request body", err)
	}

	user, err := h.userService.UpdateUser(c.UserContext(), middleware.CallerID(c), patch)
	if err != nil {
		return respondError(c, h.logger, "Could not update user", err)
	}
	return c.JSON(fiber.Map{"user": user})
}
