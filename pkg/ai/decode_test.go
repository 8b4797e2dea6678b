package ai

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStripFencesRemovesTaggedFence(t *testing.T) {
	raw := "```json\n[{\"a\":1}]\n```"
	require.Equal(t, "[{\"a\":1}]", StripFences(raw))
}

func TestStripFencesRemovesBareFence(t *testing.T) {
	raw := "```\n{\"score\": 80}\n```"
	require.Equal(t, "{\"score\": 80}", StripFences(raw))
}

func TestStripFencesPassesThroughUnfencedText(t *testing.T) {
	require.Equal(t, "[{\"a\":1}]", StripFences("  [{\"a\":1}]\n"))
}

func TestStripFencesIsIdempotent(t *testing.T) {
	raw := "```json\n[1,2,3]\n```"
	once := StripFences(raw)
	require.Equal(t, once, StripFences(once))
}

func TestDecodeQuestionsFencedAndUnfencedAgree(t *testing.T) {
	body := `[{"id":"q1","question":"What is a slice?","type":"verbal","difficulty":"beginner","topic":"Basics"}]`

	fenced, err := DecodeQuestions("```json\n" + body + "\n```")
	require.NoError(t, err)

	plain, err := DecodeQuestions(body)
	require.NoError(t, err)

	require.Equal(t, plain, fenced)
	require.Len(t, plain, 1)
	require.Equal(t, "q1", plain[0].ID)
}

func TestDecodeQuestionsRejectsNonJSON(t *testing.T) {
	_, err := DecodeQuestions("not json")
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrMalformedResponse))
}

func TestDecodeQuestionsRejectsEmptyList(t *testing.T) {
	_, err := DecodeQuestions("[]")
	require.True(t, errors.Is(err, ErrMalformedResponse))
}

func TestDecodeQuestionsRejectsMissingQuestionText(t *testing.T) {
	_, err := DecodeQuestions(`[{"id":"q1","type":"verbal"}]`)
	require.True(t, errors.Is(err, ErrMalformedResponse))
}

func TestDecodeEvaluation(t *testing.T) {
	raw := "```json\n" + `{
		"score": 85,
		"feedback": "solid answer",
		"strengths": ["clear"],
		"weaknesses": ["shallow"],
		"suggestions": ["add examples"]
	}` + "\n```"

	evaluation, err := DecodeEvaluation(raw)
	require.NoError(t, err)
	require.Equal(t, float64(85), evaluation.Score)
	require.Equal(t, "solid answer", evaluation.Feedback)
	require.Equal(t, []string{"clear"}, evaluation.Strengths)
}

func TestDecodeEvaluationClampsScore(t *testing.T) {
	evaluation, err := DecodeEvaluation(`{"score": 140, "feedback": "x"}`)
	require.NoError(t, err)
	require.Equal(t, float64(100), evaluation.Score)

	evaluation, err = DecodeEvaluation(`{"score": -3, "feedback": "x"}`)
	require.NoError(t, err)
	require.Equal(t, float64(0), evaluation.Score)
}

func TestDecodeEvaluationRequiresScore(t *testing.T) {
	_, err := DecodeEvaluation(`{"feedback": "nice"}`)
	require.True(t, errors.Is(err, ErrMalformedResponse))
}

func TestDecodeOverallEvaluation(t *testing.T) {
	raw := `{
		"overallScore": 78,
		"topicWiseScores": {"Closures & Scope": 80, "Event Loop": 76},
		"strengths": ["a", "b", "c"],
		"weaknesses": ["d", "e", "f"],
		"recommendations": ["r1", "r2", "r3", "r4", "r5"],
		"performanceSummary": "did well overall"
	}`

	overall, err := DecodeOverallEvaluation(raw)
	require.NoError(t, err)
	require.Equal(t, float64(78), overall.OverallScore)
	require.Equal(t, float64(80), overall.TopicWiseScores["Closures & Scope"])
	require.Len(t, overall.Recommendations, 5)
	require.Equal(t, "did well overall", overall.PerformanceSummary)
}

func TestDecodeOverallEvaluationRequiresScore(t *testing.T) {
	_, err := DecodeOverallEvaluation(`{"performanceSummary": "ok"}`)
	require.True(t, errors.Is(err, ErrMalformedResponse))
}
