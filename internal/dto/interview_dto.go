package dto

import (
	"time"

	"github.com/prepmind-dev/prepmind-api/internal/models"
)

// GenerateQuestionsRequest is the payload for the stateless question
// generation endpoint.
type GenerateQuestionsRequest struct {
	Config models.InterviewConfig `json:"config" validate:"required"`
}

// QuestionsResponse carries a generated question list.
type QuestionsResponse struct {
	Questions []models.Question `json:"questions"`
}

// EvaluateAnswerRequest pairs one answer with the question it targets.
type EvaluateAnswerRequest struct {
	Answer   models.Answer   `json:"answer" validate:"required"`
	Question models.Question `json:"question" validate:"required"`
}

// EvaluationResponse carries a single answer evaluation.
type EvaluationResponse struct {
	Evaluation models.Evaluation `json:"evaluation"`
}

// OverallEvaluationRequest carries the full question/answer set of a
// finished interview.
type OverallEvaluationRequest struct {
	Answers   []models.Answer   `json:"answers" validate:"required,min=1"`
	Questions []models.Question `json:"questions" validate:"required,min=1"`
}

// OverallEvaluationResponse carries the aggregate evaluation.
type OverallEvaluationResponse struct {
	Evaluation models.OverallEvaluation `json:"evaluation"`
}

// StartInterviewRequest begins a new session for the authenticated user.
type StartInterviewRequest struct {
	Config models.InterviewConfig `json:"config" validate:"required"`
}

// SubmitAnswerRequest submits the answer for the session's next question.
type SubmitAnswerRequest struct {
	QuestionID string `json:"questionId" validate:"required"`
	Answer     string `json:"answer"`
	Code       string `json:"code"`
}

// SessionResponse is the user-facing session view. While an interview is
// in progress the expected answers and hidden test cases are withheld.
type SessionResponse struct {
	ID                string                    `json:"id"`
	Config            models.InterviewConfig    `json:"config"`
	Questions         []models.Question         `json:"questions"`
	Answers           []models.Answer           `json:"answers"`
	StartTime         time.Time                 `json:"startTime"`
	EndTime           *time.Time                `json:"endTime,omitempty"`
	OverallEvaluation *models.OverallEvaluation `json:"overallEvaluation,omitempty"`
	Status            string                    `json:"status"`
	Stage             string                    `json:"stage"`
}

// NewSessionResponse converts a session document into its API view.
func NewSessionResponse(session models.InterviewSession) SessionResponse {
	questions := session.Questions
	if !session.Completed() {
		questions = redactQuestions(session.Questions)
	}

	return SessionResponse{
		ID:                session.ID,
		Config:            session.Config,
		Questions:         questions,
		Answers:           session.Answers,
		StartTime:         session.StartTime,
		EndTime:           session.EndTime,
		OverallEvaluation: session.OverallEvaluation,
		Status:            session.Status,
		Stage:             session.Stage,
	}
}

func redactQuestions(questions []models.Question) []models.Question {
	redacted := make([]models.Question, len(questions))
	for i, q := range questions {
		q.ExpectedAnswer = ""
		q.TestCases = q.VisibleTestCases()
		redacted[i] = q
	}
	return redacted
}

// SessionSummary is a compact listing entry for the history view.
type SessionSummary struct {
	ID            string    `json:"id"`
	Domain        string    `json:"domain"`
	Difficulty    string    `json:"difficulty"`
	Format        string    `json:"format"`
	StartTime     time.Time `json:"startTime"`
	EndTime       *time.Time `json:"endTime,omitempty"`
	Status        string    `json:"status"`
	QuestionCount int       `json:"questionCount"`
	AnswerCount   int       `json:"answerCount"`
	OverallScore  *float64  `json:"overallScore,omitempty"`
}

// NewSessionSummary builds a summary from a session document.
func NewSessionSummary(session models.InterviewSession) SessionSummary {
	summary := SessionSummary{
		ID:            session.ID,
		Domain:        session.Config.Domain,
		Difficulty:    session.Config.Difficulty,
		Format:        session.Config.Format,
		StartTime:     session.StartTime,
		EndTime:       session.EndTime,
		Status:        session.Status,
		QuestionCount: len(session.Questions),
		AnswerCount:   len(session.Answers),
	}
	if session.OverallEvaluation != nil {
		score := session.OverallEvaluation.OverallScore
		summary.OverallScore = &score
	}
	return summary
}

// HistoryStats aggregates a user's past sessions.
type HistoryStats struct {
	TotalSessions     int     `json:"totalSessions"`
	CompletedSessions int     `json:"completedSessions"`
	AverageScore      float64 `json:"averageScore"`
	BestScore         float64 `json:"bestScore"`
}

// HistoryResponse is the cached history/dashboard payload.
type HistoryResponse struct {
	Sessions []SessionSummary `json:"sessions"`
	Stats    HistoryStats     `json:"stats"`
}
