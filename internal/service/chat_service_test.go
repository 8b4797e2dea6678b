package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestChatServiceRespondsToMessage(t *testing.T) {
	gateway := &stubGateway{response: "Practice the STAR method for behavioral questions."}
	svc := NewChatService(gateway, zerolog.Nop())

	reply, err := svc.Chat(context.Background(), "How do I prepare for behavioral interviews?")
	require.NoError(t, err)
	require.NotEmpty(t, reply)

	require.Len(t, gateway.params, 1)
	require.InDelta(t, 0.8, float64(gateway.params[0].Temperature), 0.001)
	require.Contains(t, gateway.prompts[0], "You are PrepMind")
	require.Contains(t, gateway.prompts[0], "behavioral interviews")
}

func TestChatServiceRejectsEmptyMessage(t *testing.T) {
	svc := NewChatService(&stubGateway{}, zerolog.Nop())

	_, err := svc.Chat(context.Background(), "   ")
	require.ErrorIs(t, err, ErrEmptyMessage)
}

func TestChatServiceStripsMarkup(t *testing.T) {
	gateway := &stubGateway{response: "ok"}
	svc := NewChatService(gateway, zerolog.Nop())

	_, err := svc.Chat(context.Background(), `<script>alert(1)</script>tell me about heaps`)
	require.NoError(t, err)
	require.NotContains(t, gateway.prompts[0], "<script>")
	require.Contains(t, gateway.prompts[0], "tell me about heaps")
}

func TestChatServiceSanitizedToEmptyIsRejected(t *testing.T) {
	svc := NewChatService(&stubGateway{}, zerolog.Nop())

	_, err := svc.Chat(context.Background(), "<script>alert(1)</script>")
	require.ErrorIs(t, err, ErrEmptyMessage)
}

func TestChatServiceClassifiesProviderErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want error
	}{
		{"quota", errors.New("googleapi: Error 429: quota exceeded"), ErrRateLimited},
		{"rate limit", errors.New("rate limit reached for requests"), ErrRateLimited},
		{"api key", errors.New("API key not valid"), ErrProviderAuth},
		{"unauthorized", errors.New("401 Unauthorized"), ErrProviderAuth},
		{"other", errors.New("connection reset by peer"), ErrUpstreamFailure},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewChatService(&stubGateway{err: tc.err}, zerolog.Nop())
			_, err := svc.Chat(context.Background(), "hello")
			require.ErrorIs(t, err, tc.want)
		})
	}
}
