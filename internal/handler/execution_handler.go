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

// ExecutionHandler exposes the sandboxed code execution endpoint.
type ExecutionHandler struct {
	execution service.ExecutionService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewExecutionHandler constructs the handler.
func NewExecutionHandler(execution service.ExecutionService, validator *validator.Validate, logger zerolog.Logger) *ExecutionHandler {
	return &ExecutionHandler{
		execution: execution,
		validator: validator,
		logger:    logger.With().Str("component", "execution_handler").Logger(),
	}
}

// Register wires the handler endpoints into the router group.
func (h *ExecutionHandler) Register(router fiber.Router) {
	router.Post("/execute-code", h.execute)
}

func (h *ExecutionHandler) execute(c *fiber.Ctx) error {
	var payload dto.ExecuteCodeRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.validator.Struct(payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	// Any language other than JavaScript falls through to the service's
	// mock path, so nothing is rejected here by name.
	results, err := h.execution.Execute(c.Context(), payload.Code, payload.Language, payload.TestCases)
	if err != nil {
		if errors.Is(err, service.ErrNoTestCases) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		h.logger.Error().Err(err).Msg("code execution failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return utils.SendSuccess(c, "code executed", dto.ExecutionResponse{Results: results})
}
