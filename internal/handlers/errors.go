package handlers

import (
	"fmt"
	"strconv"

	"juicebox/internal/apperror"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// respondError maps err to a status code and writes a JSON error body.
// Messages of infrastructure and unknown errors are not exposed.
func respondError(c *fiber.Ctx, logger *zap.Logger, message string, err error) error {
	status := apperror.HTTPStatus(err)
	if status >= fiber.StatusInternalServerError {
		logger.Error(message,
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	} else {
		logger.Debug(message, zap.Int("status", status), zap.Error(err))
	}

	return c.Status(status).JSON(fiber.Map{
		"message": message,
		"error":   apperror.SafeMessage(err),
	})
}

func badRequest(c *fiber.Ctx, message string, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}

// paramID parses a positive numeric path parameter.
func paramID(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 0)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", name, raw)
	}
	return uint(id), nil
}
