package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/nagomiworks/utayomi-backend/internal/middleware"
	"github.com/nagomiworks/utayomi-backend/internal/services"
)

type AccountHandler struct {
	accountService *services.AccountService
}

func NewAccountHandler(accountService *services.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// Delete erases the caller's account. The erasure is idempotent, so a
// retried request after a partial failure completes the remaining steps.
func (h *AccountHandler) Delete(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	if userID == uuid.Nil {
		return unauthorized(c)
	}

	if err := h.accountService.EraseAccount(c.UserContext(), userID); err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"message": "Account deleted successfully"})
}
