package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/prepmind-dev/prepmind-api/internal/models"
	"github.com/prepmind-dev/prepmind-api/pkg/ai"
)

// EvaluationService scores individual answers and produces the final
// whole-interview assessment.
type EvaluationService interface {
	EvaluateAnswer(ctx context.Context, question models.Question, answer models.Answer) (*models.Evaluation, error)
	EvaluateOverall(ctx context.Context, questions []models.Question, answers []models.Answer) (*models.OverallEvaluation, error)
}

type evaluationService struct {
	gateway ai.Gateway
	logger  zerolog.Logger
}

func NewEvaluationService(gateway ai.Gateway, logger zerolog.Logger) EvaluationService {
	return &evaluationService{
		gateway: gateway,
		logger:  logger.With().Str("component", "evaluation_service").Logger(),
	}
}

func (s *evaluationService) EvaluateAnswer(ctx context.Context, question models.Question, answer models.Answer) (*models.Evaluation, error) {
	prompt := buildEvaluationPrompt(question, answer)

	raw, err := s.gateway.Generate(ctx, prompt, ai.Params{
		Temperature:     0.5,
		MaxOutputTokens: 1000,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("question_id", question.ID).Msg("answer evaluation request failed")
		return nil, fmt.Errorf("%w: %v", ErrUpstreamFailure, err)
	}

	evaluation, err := ai.DecodeEvaluation(raw)
	if err != nil {
		s.logger.Error().Err(err).Str("question_id", question.ID).Msg("evaluation response rejected")
		return nil, err
	}

	s.logger.Info().
		Str("question_id", question.ID).
		Float64("score", evaluation.Score).
		Msg("answer evaluated")

	return &evaluation, nil
}

func (s *evaluationService) EvaluateOverall(ctx context.Context, questions []models.Question, answers []models.Answer) (*models.OverallEvaluation, error) {
	prompt, err := buildOverallPrompt(questions, answers)
	if err != nil {
		return nil, err
	}

	raw, err := s.gateway.Generate(ctx, prompt, ai.Params{
		Temperature:     0.6,
		MaxOutputTokens: 2000,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("overall evaluation request failed")
		return nil, fmt.Errorf("%w: %v", ErrUpstreamFailure, err)
	}

	overall, err := ai.DecodeOverallEvaluation(raw)
	if err != nil {
		s.logger.Error().Err(err).Msg("overall evaluation response rejected")
		return nil, err
	}

	s.logger.Info().
		Float64("overall_score", overall.OverallScore).
		Int("answers", len(answers)).
		Msg("overall evaluation produced")

	return &overall, nil
}
