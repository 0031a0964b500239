package main

import (
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"juicebox/internal/config"
	"juicebox/internal/handlers"
	"juicebox/internal/repositories"
	"juicebox/internal/services"
	"juicebox/pkg/rabbitmq"
)

// newApp wires repositories, services and handlers into a Fiber app.
// mqClient may be nil.
func newApp(cfg *config.Config, db *gorm.DB, mqClient *rabbitmq.Client, logger *zap.Logger) *fiber.App {
	opts := []repositories.Option{
		repositories.WithOpTimeout(cfg.Database.OpTimeout),
		repositories.WithConcurrency(cfg.AssemblyConcurrency),
	}

	// --- Initialize Repositories ---
	userRepo := repositories.NewGORMUserRepository(db, opts...)
	postRepo := repositories.NewGORMPostRepository(db, opts...)
	tagRepo := repositories.NewGORMTagRepository(db, opts...)

	// --- Initialize Services ---
	var events services.EventPublisher
	if mqClient != nil {
		events = mqClient
	}
	authService := services.NewAuthService(userRepo, cfg.JWTSecret, logger)
	userService := services.NewUserService(userRepo, postRepo)
	postService := services.NewPostService(postRepo, events, logger)
	tagService := services.NewTagService(tagRepo, postRepo)

	// --- Initialize Fiber App ---
	app := fiber.New(fiber.Config{AppName: "juicebox"})
	app.Use(fiberlogger.New())

	api := app.Group("/api")
	handlers.NewUserHandler(authService, userService, logger).RegisterRoutes(api)
	handlers.NewPostHandler(postService, authService, logger).RegisterRoutes(api)
	handlers.NewTagHandler(tagService, authService, logger).RegisterRoutes(api)

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		status, health, dbState := fiber.StatusOK, "healthy", "connected"
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.UserContext()) != nil {
			status, health, dbState = fiber.StatusServiceUnavailable, "degraded", "unreachable"
		}
		mqState := "disabled"
		if mqClient != nil {
			mqState = "connected"
		}
		return c.Status(status).JSON(fiber.Map{
			"status":   health,
			"time":     time.Now().Format(time.RFC3339),
			"database": dbState,
			"rabbitmq": mqState,
		})
	})

	return app
}
