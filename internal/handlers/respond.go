package handlers

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/nagomiworks/utayomi-backend/internal/apperr"
	"github.com/nagomiworks/utayomi-backend/internal/dto"
)

// fail converts a service error into the JSON error envelope. Internal
// errors are logged with their cause and masked in the response body.
func fail(c *fiber.Ctx, err error) error {
	kind := apperr.KindOf(err)
	status := apperr.HTTPStatus(kind)

	resp := dto.ErrorResponse{Error: true, Message: err.Error()}
	var ae *apperr.Error
	if errors.As(err, &ae) {
		resp.Message = ae.Message
		if ae.NextAvailableAt != nil {
			resp.NextAvailableAt = ae.NextAvailableAt.Format(time.RFC3339)
		}
	}

	if status >= fiber.StatusInternalServerError {
		slog.Error("request failed",
			slog.String("path", c.Path()),
			slog.String("error", err.Error()),
		)
		if status == fiber.StatusServiceUnavailable {
			resp.Message = "Service temporarily unavailable, please retry"
		} else {
			resp.Message = "Internal server error"
		}
	}

	return c.Status(status).JSON(resp)
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error: true, Message: "Unauthorized",
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: true, Message: message,
	})
}
