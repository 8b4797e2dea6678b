package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/prepmind-dev/prepmind-api/internal/dto"
	"github.com/prepmind-dev/prepmind-api/internal/service"
	"github.com/prepmind-dev/prepmind-api/internal/utils"
)

// ChatHandler exposes the interview preparation assistant endpoint.
type ChatHandler struct {
	chat      service.ChatService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewChatHandler constructs the handler.
func NewChatHandler(chat service.ChatService, validator *validator.Validate, logger zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		chat:      chat,
		validator: validator,
		logger:    logger.With().Str("component", "chat_handler").Logger(),
	}
}

// Register wires the handler endpoints into the router group.
func (h *ChatHandler) Register(router fiber.Router) {
	router.Post("", h.chatMessage)
}

func (h *ChatHandler) chatMessage(c *fiber.Ctx) error {
	var payload dto.ChatRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.validator.Struct(payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	reply, err := h.chat.Chat(c.Context(), payload.Message)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "response generated", dto.ChatResponse{Response: reply})
}

func (h *ChatHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrEmptyMessage):
		return utils.SendError(c, fiber.StatusBadRequest, "message is required")
	case errors.Is(err, service.ErrRateLimited):
		return utils.SendError(c, fiber.StatusTooManyRequests, "AI service quota exceeded, try again later")
	case errors.Is(err, service.ErrProviderAuth):
		return utils.SendError(c, fiber.StatusBadGateway, "AI service configuration error")
	case errors.Is(err, service.ErrUpstreamFailure):
		return utils.SendError(c, fiber.StatusBadGateway, "AI provider request failed")
	default:
		h.logger.Error().Err(err).Msg("chat operation failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
