package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/prepmind-dev/prepmind-api/internal/models"
	"github.com/prepmind-dev/prepmind-api/pkg/ai"
)

var (
	ErrInvalidConfig   = errors.New("invalid interview configuration")
	ErrUpstreamFailure = errors.New("AI provider request failed")
)

// QuestionService generates interview question sets from an interview
// configuration.
type QuestionService interface {
	Generate(ctx context.Context, cfg models.InterviewConfig) ([]models.Question, error)
}

type questionService struct {
	gateway  ai.Gateway
	validate *validator.Validate
	logger   zerolog.Logger
}

func NewQuestionService(gateway ai.Gateway, logger zerolog.Logger) QuestionService {
	return &questionService{
		gateway:  gateway,
		validate: validator.New(),
		logger:   logger.With().Str("component", "question_service").Logger(),
	}
}

func (s *questionService) Generate(ctx context.Context, cfg models.InterviewConfig) ([]models.Question, error) {
	if err := s.validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	prompt := buildQuestionPrompt(cfg)

	raw, err := s.gateway.Generate(ctx, prompt, ai.Params{
		Temperature:     0.7,
		MaxOutputTokens: 2048,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("domain", cfg.Domain).Msg("question generation request failed")
		return nil, fmt.Errorf("%w: %v", ErrUpstreamFailure, err)
	}

	questions, err := ai.DecodeQuestions(raw)
	if err != nil {
		s.logger.Error().Err(err).Msg("question response rejected")
		return nil, err
	}

	want := cfg.QuestionCount()
	if len(questions) != want {
		s.logger.Error().Int("want", want).Int("got", len(questions)).Msg("wrong question count in response")
		return nil, fmt.Errorf("%w: expected %d questions, got %d", ai.ErrMalformedResponse, want, len(questions))
	}

	for i := range questions {
		if questions[i].ID == "" {
			questions[i].ID = uuid.NewString()
		}
		// The model occasionally echoes a different type label; the
		// session format is authoritative.
		questions[i].Type = cfg.Format
		if questions[i].Difficulty == "" {
			questions[i].Difficulty = cfg.Difficulty
		}
	}

	s.logger.Info().
		Str("domain", cfg.Domain).
		Str("format", cfg.Format).
		Int("count", len(questions)).
		Msg("questions generated")

	return questions, nil
}
