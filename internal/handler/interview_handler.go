package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/prepmind-dev/prepmind-api/internal/dto"
	"github.com/prepmind-dev/prepmind-api/internal/models"
	"github.com/prepmind-dev/prepmind-api/internal/service"
	"github.com/prepmind-dev/prepmind-api/internal/utils"
	"github.com/prepmind-dev/prepmind-api/pkg/ai"
)

// InterviewHandler exposes the authenticated session lifecycle endpoints.
type InterviewHandler struct {
	interviews service.InterviewService
	history    service.HistoryService
	validator  *validator.Validate
	logger     zerolog.Logger
}

// NewInterviewHandler constructs the handler.
func NewInterviewHandler(interviews service.InterviewService, history service.HistoryService, validator *validator.Validate, logger zerolog.Logger) *InterviewHandler {
	return &InterviewHandler{
		interviews: interviews,
		history:    history,
		validator:  validator,
		logger:     logger.With().Str("component", "interview_handler").Logger(),
	}
}

// Register wires the handler endpoints into the router group.
func (h *InterviewHandler) Register(router fiber.Router) {
	router.Post("", h.start)
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Post("/:id/answers", h.submitAnswer)
	router.Post("/:id/complete", h.complete)
}

func (h *InterviewHandler) start(c *fiber.Ctx) error {
	var payload dto.StartInterviewRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.validator.Struct(payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	userID := userIDFromContext(c)
	if userID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	session, err := h.interviews.Start(c.Context(), userID, payload.Config)
	if err != nil {
		return h.handleError(c, err)
	}

	h.history.Invalidate(c.Context(), userID)

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "interview started", dto.NewSessionResponse(session))
}

func (h *InterviewHandler) get(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	session, err := h.interviews.Get(c.Context(), userID, c.Params("id"))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "interview retrieved", dto.NewSessionResponse(session))
}

func (h *InterviewHandler) list(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	response, err := h.history.History(c.Context(), userID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "interview history retrieved", response)
}

func (h *InterviewHandler) submitAnswer(c *fiber.Ctx) error {
	var payload dto.SubmitAnswerRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.validator.Struct(payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	userID := userIDFromContext(c)
	if userID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	answer := models.Answer{
		QuestionID: payload.QuestionID,
		Answer:     payload.Answer,
		Code:       payload.Code,
	}

	session, err := h.interviews.SubmitAnswer(c.Context(), userID, c.Params("id"), answer)
	if err != nil {
		return h.handleError(c, err)
	}

	h.history.Invalidate(c.Context(), userID)

	return utils.SendSuccess(c, "answer recorded", dto.NewSessionResponse(session))
}

func (h *InterviewHandler) complete(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	session, err := h.interviews.Complete(c.Context(), userID, c.Params("id"))
	if err != nil {
		return h.handleError(c, err)
	}

	h.history.Invalidate(c.Context(), userID)

	return utils.SendSuccess(c, "interview completed", dto.NewSessionResponse(session))
}

func (h *InterviewHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "interview session not found")
	case errors.Is(err, service.ErrForbidden):
		return utils.SendError(c, fiber.StatusForbidden, "forbidden")
	case errors.Is(err, service.ErrSessionCompleted):
		return utils.SendError(c, fiber.StatusConflict, "interview already completed")
	case errors.Is(err, service.ErrOutOfOrder), errors.Is(err, service.ErrDuplicateQuestion):
		return utils.SendError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInterviewNotDone):
		return utils.SendError(c, fiber.StatusConflict, "not all questions answered yet")
	case errors.Is(err, service.ErrInvalidConfig):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	case errors.Is(err, ai.ErrMalformedResponse), errors.Is(err, service.ErrUpstreamFailure):
		return utils.SendError(c, fiber.StatusBadGateway, "AI provider request failed")
	default:
		h.logger.Error().Err(err).Msg("interview operation failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
