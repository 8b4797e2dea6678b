package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/prepmind-dev/prepmind-api/internal/models"
	"github.com/prepmind-dev/prepmind-api/pkg/ai"
)

type stubGateway struct {
	response string
	err      error
	prompts  []string
	params   []ai.Params
}

func (g *stubGateway) Generate(_ context.Context, prompt string, params ai.Params) (string, error) {
	g.prompts = append(g.prompts, prompt)
	g.params = append(g.params, params)
	if g.err != nil {
		return "", g.err
	}
	return g.response, nil
}

func verbalConfig() models.InterviewConfig {
	return models.InterviewConfig{
		Domain:     "Data Structures & Algorithms",
		Difficulty: models.DifficultyIntermediate,
		Topics:     []string{"Trees & Graphs", "Hash Tables"},
		Format:     models.FormatVerbal,
	}
}

func questionsJSON(t *testing.T, count int, format string) string {
	t.Helper()
	questions := make([]models.Question, 0, count)
	for i := 0; i < count; i++ {
		questions = append(questions, models.Question{
			Question:   "Explain hash table collision strategies",
			Type:       format,
			Difficulty: models.DifficultyIntermediate,
			Topic:      "Hash Tables",
		})
	}
	payload, err := json.Marshal(questions)
	require.NoError(t, err)
	return string(payload)
}

func TestQuestionServiceGeneratesVerbalSet(t *testing.T) {
	gateway := &stubGateway{response: "```json\n" + questionsJSON(t, 5, models.FormatVerbal) + "\n```"}
	svc := NewQuestionService(gateway, zerolog.Nop())

	questions, err := svc.Generate(context.Background(), verbalConfig())
	require.NoError(t, err)
	require.Len(t, questions, 5)
	for _, q := range questions {
		require.NotEmpty(t, q.ID)
		require.Equal(t, models.FormatVerbal, q.Type)
	}

	require.Len(t, gateway.params, 1)
	require.InDelta(t, 0.7, float64(gateway.params[0].Temperature), 0.001)
	require.Equal(t, 2048, gateway.params[0].MaxOutputTokens)
}

func TestQuestionServiceCodingSetSize(t *testing.T) {
	cfg := verbalConfig()
	cfg.Format = models.FormatCoding

	gateway := &stubGateway{response: questionsJSON(t, 3, models.FormatCoding)}
	svc := NewQuestionService(gateway, zerolog.Nop())

	questions, err := svc.Generate(context.Background(), cfg)
	require.NoError(t, err)
	require.Len(t, questions, 3)
}

func TestQuestionServiceRejectsWrongCount(t *testing.T) {
	gateway := &stubGateway{response: questionsJSON(t, 4, models.FormatVerbal)}
	svc := NewQuestionService(gateway, zerolog.Nop())

	_, err := svc.Generate(context.Background(), verbalConfig())
	require.ErrorIs(t, err, ai.ErrMalformedResponse)
}

func TestQuestionServiceRejectsInvalidConfig(t *testing.T) {
	cfg := verbalConfig()
	cfg.Topics = nil

	svc := NewQuestionService(&stubGateway{}, zerolog.Nop())

	_, err := svc.Generate(context.Background(), cfg)
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestQuestionServiceWrapsUpstreamError(t *testing.T) {
	gateway := &stubGateway{err: errors.New("connection reset")}
	svc := NewQuestionService(gateway, zerolog.Nop())

	_, err := svc.Generate(context.Background(), verbalConfig())
	require.ErrorIs(t, err, ErrUpstreamFailure)
}
