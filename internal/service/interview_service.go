package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/prepmind-dev/prepmind-api/internal/models"
	"github.com/prepmind-dev/prepmind-api/internal/repository"
)

var (
	ErrSessionNotFound   = errors.New("interview session not found")
	ErrForbidden         = errors.New("session belongs to another user")
	ErrSessionCompleted  = errors.New("session already completed")
	ErrOutOfOrder        = errors.New("answer does not target the next question")
	ErrInterviewNotDone  = errors.New("not all questions answered yet")
	ErrDuplicateQuestion = errors.New("question already answered")
)

const completedSubject = "interview.completed"

// InterviewService orchestrates the session lifecycle: create with freshly
// generated questions, collect answers strictly in question order, and close
// with an overall evaluation.
type InterviewService interface {
	Start(ctx context.Context, userID string, cfg models.InterviewConfig) (models.InterviewSession, error)
	SubmitAnswer(ctx context.Context, userID, sessionID string, answer models.Answer) (models.InterviewSession, error)
	Complete(ctx context.Context, userID, sessionID string) (models.InterviewSession, error)
	Get(ctx context.Context, userID, sessionID string) (models.InterviewSession, error)
}

type interviewService struct {
	sessions  repository.InterviewSessionRepository
	profiles  repository.UserProfileRepository
	questions QuestionService
	evaluator EvaluationService
	nc        *nats.Conn
	logger    zerolog.Logger
}

func NewInterviewService(
	sessions repository.InterviewSessionRepository,
	profiles repository.UserProfileRepository,
	questions QuestionService,
	evaluator EvaluationService,
	nc *nats.Conn,
	logger zerolog.Logger,
) InterviewService {
	return &interviewService{
		sessions:  sessions,
		profiles:  profiles,
		questions: questions,
		evaluator: evaluator,
		nc:        nc,
		logger:    logger.With().Str("component", "interview_service").Logger(),
	}
}

func (s *interviewService) Start(ctx context.Context, userID string, cfg models.InterviewConfig) (models.InterviewSession, error) {
	generated, err := s.questions.Generate(ctx, cfg)
	if err != nil {
		return models.InterviewSession{}, err
	}

	session := models.InterviewSession{
		ID:        uuid.NewString(),
		UserID:    userID,
		Config:    cfg,
		Questions: generated,
		Answers:   []models.Answer{},
		StartTime: time.Now().UTC(),
		Status:    models.SessionStatusInProgress,
		Stage:     models.StageInterview,
	}

	if err := s.sessions.Create(ctx, &session); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to persist new session")
		return models.InterviewSession{}, fmt.Errorf("create session: %w", err)
	}

	s.logger.Info().
		Str("session_id", session.ID).
		Str("user_id", userID).
		Str("domain", cfg.Domain).
		Str("format", cfg.Format).
		Msg("interview session started")

	return session, nil
}

func (s *interviewService) SubmitAnswer(ctx context.Context, userID, sessionID string, answer models.Answer) (models.InterviewSession, error) {
	session, err := s.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return models.InterviewSession{}, err
	}
	if session.Completed() {
		return models.InterviewSession{}, ErrSessionCompleted
	}

	next, ok := session.NextQuestion()
	if !ok {
		return models.InterviewSession{}, ErrInterviewNotDone
	}
	if answer.QuestionID != next.ID {
		if _, answered := answeredSet(session)[answer.QuestionID]; answered {
			return models.InterviewSession{}, ErrDuplicateQuestion
		}
		return models.InterviewSession{}, fmt.Errorf("%w: expected %s", ErrOutOfOrder, next.ID)
	}

	answer.Timestamp = time.Now().UTC()

	// A failed evaluation never blocks the interview; the answer is stored
	// without a score and the overall evaluation treats it as zero.
	evaluation, err := s.evaluator.EvaluateAnswer(ctx, next, answer)
	if err != nil {
		s.logger.Warn().Err(err).
			Str("session_id", sessionID).
			Str("question_id", next.ID).
			Msg("answer stored without evaluation")
	} else {
		answer.Evaluation = evaluation
	}

	stage := models.StageInterview
	if len(session.Answers)+1 == len(session.Questions) {
		stage = models.StageEvaluating
	}

	if err := s.sessions.AppendAnswer(ctx, sessionID, answer, stage); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.InterviewSession{}, ErrSessionNotFound
		}
		return models.InterviewSession{}, fmt.Errorf("append answer: %w", err)
	}

	session.Answers = append(session.Answers, answer)
	session.Stage = stage
	return session, nil
}

func (s *interviewService) Complete(ctx context.Context, userID, sessionID string) (models.InterviewSession, error) {
	session, err := s.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return models.InterviewSession{}, err
	}
	if session.Completed() {
		return session, nil
	}
	if len(session.Answers) < len(session.Questions) {
		return models.InterviewSession{}, ErrInterviewNotDone
	}

	// On failure the session stays in-progress at stage evaluating, so the
	// client can retry completion.
	overall, err := s.evaluator.EvaluateOverall(ctx, session.Questions, session.Answers)
	if err != nil {
		return models.InterviewSession{}, err
	}

	endTime := time.Now().UTC()
	if err := s.sessions.Complete(ctx, sessionID, *overall, endTime); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.InterviewSession{}, ErrSessionNotFound
		}
		return models.InterviewSession{}, fmt.Errorf("complete session: %w", err)
	}

	if err := s.profiles.AppendInterview(ctx, userID, sessionID); err != nil {
		s.logger.Error().Err(err).
			Str("session_id", sessionID).
			Str("user_id", userID).
			Msg("failed to record session in profile history")
	}

	session.OverallEvaluation = overall
	session.EndTime = &endTime
	session.Status = models.SessionStatusCompleted
	session.Stage = models.StageFeedback

	s.publishCompleted(session)

	s.logger.Info().
		Str("session_id", sessionID).
		Float64("overall_score", overall.OverallScore).
		Msg("interview session completed")

	return session, nil
}

func (s *interviewService) Get(ctx context.Context, userID, sessionID string) (models.InterviewSession, error) {
	return s.ownedSession(ctx, userID, sessionID)
}

func (s *interviewService) ownedSession(ctx context.Context, userID, sessionID string) (models.InterviewSession, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.InterviewSession{}, ErrSessionNotFound
		}
		return models.InterviewSession{}, fmt.Errorf("load session: %w", err)
	}
	if session.UserID != userID {
		return models.InterviewSession{}, ErrForbidden
	}
	return session, nil
}

type completedEvent struct {
	SessionID    string    `json:"sessionId"`
	UserID       string    `json:"userId"`
	Domain       string    `json:"domain"`
	Format       string    `json:"format"`
	OverallScore float64   `json:"overallScore"`
	CompletedAt  time.Time `json:"completedAt"`
}

// publishCompleted is fire and forget; downstream consumers rebuild from the
// database if they miss an event.
func (s *interviewService) publishCompleted(session models.InterviewSession) {
	if s.nc == nil {
		return
	}
	event := completedEvent{
		SessionID:   session.ID,
		UserID:      session.UserID,
		Domain:      session.Config.Domain,
		Format:      session.Config.Format,
		CompletedAt: time.Now().UTC(),
	}
	if session.OverallEvaluation != nil {
		event.OverallScore = session.OverallEvaluation.OverallScore
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}
	if err := s.nc.Publish(completedSubject, payload); err != nil {
		s.logger.Warn().Err(err).Str("session_id", session.ID).Msg("failed to publish completion event")
	}
}

func answeredSet(session models.InterviewSession) map[string]struct{} {
	set := make(map[string]struct{}, len(session.Answers))
	for _, a := range session.Answers {
		set[a.QuestionID] = struct{}{}
	}
	return set
}
