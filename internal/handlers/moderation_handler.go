package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/nagomiworks/utayomi-backend/internal/dto"
	"github.com/nagomiworks/utayomi-backend/internal/middleware"
	"github.com/nagomiworks/utayomi-backend/internal/services"
)

type ModerationHandler struct {
	moderationService *services.ModerationService
}

func NewModerationHandler(moderationService *services.ModerationService) *ModerationHandler {
	return &ModerationHandler{moderationService: moderationService}
}

func (h *ModerationHandler) ReportTanka(c *fiber.Ctx) error {
	reporterID := middleware.UserID(c)
	if reporterID == uuid.Nil {
		return unauthorized(c)
	}

	tankaID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid tanka ID")
	}

	var req dto.ReportTankaRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.moderationService.ReportTanka(c.UserContext(), tankaID, reporterID, req.Reason); err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Report received"})
}

func (h *ModerationHandler) BlockUser(c *fiber.Ctx) error {
	blockerID := middleware.UserID(c)
	if blockerID == uuid.Nil {
		return unauthorized(c)
	}

	var req dto.BlockUserRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err := h.moderationService.BlockUser(c.UserContext(), blockerID, req.UserID); err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"message": "User blocked successfully"})
}

func (h *ModerationHandler) UnblockUser(c *fiber.Ctx) error {
	blockerID := middleware.UserID(c)
	if blockerID == uuid.Nil {
		return unauthorized(c)
	}

	blockedID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid user ID")
	}

	if err := h.moderationService.UnblockUser(c.UserContext(), blockerID, blockedID); err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"message": "User unblocked successfully"})
}

func (h *ModerationHandler) ListBlockedUsers(c *fiber.Ctx) error {
	blockerID := middleware.UserID(c)
	if blockerID == uuid.Nil {
		return unauthorized(c)
	}

	resp, err := h.moderationService.ListBlockedUsers(c.UserContext(), blockerID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(resp)
}

func (h *ModerationHandler) ListReports(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))

	if limit > 100 {
		limit = 100
	}

	reports, total, err := h.moderationService.ListReports(c.UserContext(), limit, offset)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"reports": reports,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}
