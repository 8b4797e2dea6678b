package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/prepmind-dev/prepmind-api/pkg/ai"
)

var (
	ErrEmptyMessage = errors.New("message is required")
	ErrRateLimited  = errors.New("AI provider quota exceeded")
	ErrProviderAuth = errors.New("AI provider rejected credentials")
)

// ChatService answers free-form interview preparation questions with the
// assistant persona.
type ChatService interface {
	Chat(ctx context.Context, message string) (string, error)
}

type chatService struct {
	gateway   ai.Gateway
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

func NewChatService(gateway ai.Gateway, logger zerolog.Logger) ChatService {
	return &chatService{
		gateway:   gateway,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "chat_service").Logger(),
	}
}

func (s *chatService) Chat(ctx context.Context, message string) (string, error) {
	message = strings.TrimSpace(s.sanitizer.Sanitize(message))
	if message == "" {
		return "", ErrEmptyMessage
	}

	reply, err := s.gateway.Generate(ctx, buildChatPrompt(message), ai.Params{
		Temperature:     0.8,
		MaxOutputTokens: 2048,
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("chat request failed")
		return "", classifyProviderError(err)
	}

	return reply, nil
}

// classifyProviderError surfaces quota and credential problems distinctly;
// everything else is a generic upstream failure.
func classifyProviderError(err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "quota") || strings.Contains(msg, "rate limit") || strings.Contains(msg, "resource exhausted"):
		return fmt.Errorf("%w: %v", ErrRateLimited, err)
	case strings.Contains(msg, "api key") || strings.Contains(msg, "unauthorized") || strings.Contains(msg, "unauthenticated") || strings.Contains(msg, "permission"):
		return fmt.Errorf("%w: %v", ErrProviderAuth, err)
	default:
		return fmt.Errorf("%w: %v", ErrUpstreamFailure, err)
	}
}
