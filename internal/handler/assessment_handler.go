package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/prepmind-dev/prepmind-api/internal/dto"
	"github.com/prepmind-dev/prepmind-api/internal/service"
	"github.com/prepmind-dev/prepmind-api/internal/utils"
	"github.com/prepmind-dev/prepmind-api/pkg/ai"
)

// AssessmentHandler exposes the stateless AI endpoints: question generation,
// single-answer evaluation and whole-interview evaluation.
type AssessmentHandler struct {
	questions service.QuestionService
	evaluator service.EvaluationService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewAssessmentHandler constructs the handler.
func NewAssessmentHandler(questions service.QuestionService, evaluator service.EvaluationService, validator *validator.Validate, logger zerolog.Logger) *AssessmentHandler {
	return &AssessmentHandler{
		questions: questions,
		evaluator: evaluator,
		validator: validator,
		logger:    logger.With().Str("component", "assessment_handler").Logger(),
	}
}

// Register wires the handler endpoints into the router group.
func (h *AssessmentHandler) Register(router fiber.Router) {
	router.Post("/generate-questions", h.generateQuestions)
	router.Post("/evaluate-answer", h.evaluateAnswer)
	router.Post("/overall-evaluation", h.overallEvaluation)
}

func (h *AssessmentHandler) generateQuestions(c *fiber.Ctx) error {
	var payload dto.GenerateQuestionsRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.validator.Struct(payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	questions, err := h.questions.Generate(c.Context(), payload.Config)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "questions generated", dto.QuestionsResponse{Questions: questions})
}

func (h *AssessmentHandler) evaluateAnswer(c *fiber.Ctx) error {
	var payload dto.EvaluateAnswerRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.validator.Struct(payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	evaluation, err := h.evaluator.EvaluateAnswer(c.Context(), payload.Question, payload.Answer)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "answer evaluated", dto.EvaluationResponse{Evaluation: *evaluation})
}

func (h *AssessmentHandler) overallEvaluation(c *fiber.Ctx) error {
	var payload dto.OverallEvaluationRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.validator.Struct(payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	evaluation, err := h.evaluator.EvaluateOverall(c.Context(), payload.Questions, payload.Answers)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "overall evaluation generated", dto.OverallEvaluationResponse{Evaluation: *evaluation})
}

func (h *AssessmentHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrInvalidConfig):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	case errors.Is(err, ai.ErrMalformedResponse):
		return utils.SendError(c, fiber.StatusBadGateway, "AI provider returned an unusable response")
	case errors.Is(err, service.ErrUpstreamFailure):
		return utils.SendError(c, fiber.StatusBadGateway, "AI provider request failed")
	default:
		h.logger.Error().Err(err).Msg("assessment operation failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
