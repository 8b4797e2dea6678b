package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/prepmind-dev/prepmind-api/internal/models"
)

// ErrMalformedResponse marks gateway output that could not be decoded into
// the shape the caller expected. Decoding is strict: no repair, no
// best-effort guessing, so failure modes stay observable.
var ErrMalformedResponse = errors.New("malformed ai response")

// StripFences removes an optional Markdown code-fence wrapper (with or
// without a language tag) from generated text. Unfenced input passes
// through unchanged, and the operation is idempotent.
func StripFences(raw string) string {
	text := strings.TrimSpace(raw)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		text = text[idx+1:]
	} else {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
	}

	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

// DecodeQuestions parses gateway output into a question list. The list must
// be non-empty and every entry must carry question text.
func DecodeQuestions(raw string) ([]models.Question, error) {
	var questions []models.Question
	if err := decodeInto(raw, &questions); err != nil {
		return nil, err
	}

	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: empty question list", ErrMalformedResponse)
	}

	for i, q := range questions {
		if strings.TrimSpace(q.Question) == "" {
			return nil, fmt.Errorf("%w: question %d has no text", ErrMalformedResponse, i)
		}
	}

	return questions, nil
}

// DecodeEvaluation parses gateway output into a single answer evaluation.
func DecodeEvaluation(raw string) (models.Evaluation, error) {
	var payload struct {
		Score       *float64 `json:"score"`
		Feedback    string   `json:"feedback"`
		Strengths   []string `json:"strengths"`
		Weaknesses  []string `json:"weaknesses"`
		Suggestions []string `json:"suggestions"`
	}

	if err := decodeInto(raw, &payload); err != nil {
		return models.Evaluation{}, err
	}

	if payload.Score == nil {
		return models.Evaluation{}, fmt.Errorf("%w: evaluation missing score", ErrMalformedResponse)
	}

	return models.Evaluation{
		Score:       clampScore(*payload.Score),
		Feedback:    payload.Feedback,
		Strengths:   payload.Strengths,
		Weaknesses:  payload.Weaknesses,
		Suggestions: payload.Suggestions,
	}, nil
}

// DecodeOverallEvaluation parses gateway output into the aggregate
// interview evaluation.
func DecodeOverallEvaluation(raw string) (models.OverallEvaluation, error) {
	var payload struct {
		OverallScore       *float64           `json:"overallScore"`
		TopicWiseScores    map[string]float64 `json:"topicWiseScores"`
		Strengths          []string           `json:"strengths"`
		Weaknesses         []string           `json:"weaknesses"`
		Recommendations    []string           `json:"recommendations"`
		PerformanceSummary string             `json:"performanceSummary"`
	}

	if err := decodeInto(raw, &payload); err != nil {
		return models.OverallEvaluation{}, err
	}

	if payload.OverallScore == nil {
		return models.OverallEvaluation{}, fmt.Errorf("%w: overall evaluation missing score", ErrMalformedResponse)
	}

	return models.OverallEvaluation{
		OverallScore:       clampScore(*payload.OverallScore),
		TopicWiseScores:    payload.TopicWiseScores,
		Strengths:          payload.Strengths,
		Weaknesses:         payload.Weaknesses,
		Recommendations:    payload.Recommendations,
		PerformanceSummary: payload.PerformanceSummary,
	}, nil
}

func decodeInto(raw string, target any) error {
	text := StripFences(raw)
	if text == "" {
		return fmt.Errorf("%w: empty response", ErrMalformedResponse)
	}

	if err := json.Unmarshal([]byte(text), target); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	return nil
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
