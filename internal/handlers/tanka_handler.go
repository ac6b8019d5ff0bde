package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/nagomiworks/utayomi-backend/internal/dto"
	"github.com/nagomiworks/utayomi-backend/internal/middleware"
	"github.com/nagomiworks/utayomi-backend/internal/services"
)

type TankaHandler struct {
	tankaService *services.TankaService
	feedService  *services.FeedService
	likeService  *services.LikeService
}

func NewTankaHandler(
	tankaService *services.TankaService,
	feedService *services.FeedService,
	likeService *services.LikeService,
) *TankaHandler {
	return &TankaHandler{
		tankaService: tankaService,
		feedService:  feedService,
		likeService:  likeService,
	}
}

func (h *TankaHandler) Generate(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	if userID == uuid.Nil {
		return unauthorized(c)
	}

	var req dto.GenerateTankaRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	resp, err := h.tankaService.Generate(c.UserContext(), userID, req.Category, req.WorryText)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *TankaHandler) Feed(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	if userID == uuid.Nil {
		return unauthorized(c)
	}

	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil {
		return badRequest(c, "limit must be an integer")
	}

	var cursor *string
	if raw := c.Query("cursor"); raw != "" {
		cursor = &raw
	}

	resp, err := h.feedService.FetchFeed(c.UserContext(), userID, limit, cursor)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(resp)
}

func (h *TankaHandler) Mine(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	if userID == uuid.Nil {
		return unauthorized(c)
	}

	resp, err := h.feedService.FetchMine(c.UserContext(), userID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(resp)
}

func (h *TankaHandler) Liked(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	if userID == uuid.Nil {
		return unauthorized(c)
	}

	resp, err := h.feedService.FetchLiked(c.UserContext(), userID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(resp)
}

func (h *TankaHandler) Like(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	if userID == uuid.Nil {
		return unauthorized(c)
	}

	tankaID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid tanka ID")
	}

	resp, err := h.likeService.Like(c.UserContext(), tankaID, userID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(resp)
}

func (h *TankaHandler) Unlike(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	if userID == uuid.Nil {
		return unauthorized(c)
	}

	tankaID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid tanka ID")
	}

	resp, err := h.likeService.Unlike(c.UserContext(), tankaID, userID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(resp)
}
