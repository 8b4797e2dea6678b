package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/prepmind-dev/prepmind-api/internal/models"
	"github.com/prepmind-dev/prepmind-api/internal/repository"
)

type memorySessionRepo struct {
	mu       sync.Mutex
	sessions map[string]models.InterviewSession
}

func newMemorySessionRepo() *memorySessionRepo {
	return &memorySessionRepo{sessions: map[string]models.InterviewSession{}}
}

func (r *memorySessionRepo) Create(_ context.Context, session *models.InterviewSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID] = *session
	return nil
}

func (r *memorySessionRepo) GetByID(_ context.Context, id string) (models.InterviewSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[id]
	if !ok {
		return models.InterviewSession{}, repository.ErrNotFound
	}
	return session, nil
}

func (r *memorySessionRepo) AppendAnswer(_ context.Context, id string, answer models.Answer, stage string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[id]
	if !ok {
		return repository.ErrNotFound
	}
	session.Answers = append(session.Answers, answer)
	session.Stage = stage
	r.sessions[id] = session
	return nil
}

func (r *memorySessionRepo) Complete(_ context.Context, id string, evaluation models.OverallEvaluation, endTime time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[id]
	if !ok {
		return repository.ErrNotFound
	}
	session.OverallEvaluation = &evaluation
	session.EndTime = &endTime
	session.Status = models.SessionStatusCompleted
	session.Stage = models.StageFeedback
	r.sessions[id] = session
	return nil
}

func (r *memorySessionRepo) ListByUser(_ context.Context, userID string, _ int64) ([]models.InterviewSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.InterviewSession
	for _, s := range r.sessions {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

type memoryProfileRepo struct {
	mu      sync.Mutex
	history map[string][]string
}

func newMemoryProfileRepo() *memoryProfileRepo {
	return &memoryProfileRepo{history: map[string][]string{}}
}

func (r *memoryProfileRepo) Get(_ context.Context, uid string) (models.UserProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return models.UserProfile{UID: uid, InterviewHistory: r.history[uid]}, nil
}

func (r *memoryProfileRepo) AppendInterview(_ context.Context, uid string, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history[uid] = append(r.history[uid], sessionID)
	return nil
}

type stubQuestionService struct {
	questions []models.Question
	err       error
}

func (s *stubQuestionService) Generate(context.Context, models.InterviewConfig) ([]models.Question, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.questions, nil
}

type stubEvaluationService struct {
	answerErr  error
	overallErr error
	overall    *models.OverallEvaluation
}

func (s *stubEvaluationService) EvaluateAnswer(context.Context, models.Question, models.Answer) (*models.Evaluation, error) {
	if s.answerErr != nil {
		return nil, s.answerErr
	}
	return &models.Evaluation{Score: 75, Feedback: "fine"}, nil
}

func (s *stubEvaluationService) EvaluateOverall(context.Context, []models.Question, []models.Answer) (*models.OverallEvaluation, error) {
	if s.overallErr != nil {
		return nil, s.overallErr
	}
	if s.overall != nil {
		return s.overall, nil
	}
	return &models.OverallEvaluation{OverallScore: 75, PerformanceSummary: "good"}, nil
}

func fixedQuestions(n int) []models.Question {
	questions := make([]models.Question, 0, n)
	for i := 0; i < n; i++ {
		questions = append(questions, models.Question{
			ID:       string(rune('a' + i)),
			Question: "question",
			Type:     models.FormatVerbal,
			Topic:    "Hash Tables",
		})
	}
	return questions
}

func newTestInterviewService(sessions *memorySessionRepo, profiles *memoryProfileRepo, evaluator *stubEvaluationService) InterviewService {
	return NewInterviewService(
		sessions,
		profiles,
		&stubQuestionService{questions: fixedQuestions(2)},
		evaluator,
		nil,
		zerolog.Nop(),
	)
}

func TestInterviewLifecycle(t *testing.T) {
	sessions := newMemorySessionRepo()
	profiles := newMemoryProfileRepo()
	svc := newTestInterviewService(sessions, profiles, &stubEvaluationService{})
	ctx := context.Background()

	session, err := svc.Start(ctx, "user-1", verbalConfig())
	require.NoError(t, err)
	require.Equal(t, models.SessionStatusInProgress, session.Status)
	require.Equal(t, models.StageInterview, session.Stage)
	require.Len(t, session.Questions, 2)
	require.Empty(t, session.Answers)

	// First answer keeps the session in the interview stage.
	session, err = svc.SubmitAnswer(ctx, "user-1", session.ID, models.Answer{QuestionID: "a", Answer: "first"})
	require.NoError(t, err)
	require.Equal(t, models.StageInterview, session.Stage)
	require.Len(t, session.Answers, 1)
	require.NotNil(t, session.Answers[0].Evaluation)

	// Final answer moves it to evaluating.
	session, err = svc.SubmitAnswer(ctx, "user-1", session.ID, models.Answer{QuestionID: "b", Answer: "second"})
	require.NoError(t, err)
	require.Equal(t, models.StageEvaluating, session.Stage)

	session, err = svc.Complete(ctx, "user-1", session.ID)
	require.NoError(t, err)
	require.Equal(t, models.SessionStatusCompleted, session.Status)
	require.Equal(t, models.StageFeedback, session.Stage)
	require.NotNil(t, session.OverallEvaluation)
	require.NotNil(t, session.EndTime)

	require.Equal(t, []string{session.ID}, profiles.history["user-1"])
}

func TestInterviewAnswersMustFollowQuestionOrder(t *testing.T) {
	svc := newTestInterviewService(newMemorySessionRepo(), newMemoryProfileRepo(), &stubEvaluationService{})
	ctx := context.Background()

	session, err := svc.Start(ctx, "user-1", verbalConfig())
	require.NoError(t, err)

	_, err = svc.SubmitAnswer(ctx, "user-1", session.ID, models.Answer{QuestionID: "b"})
	require.ErrorIs(t, err, ErrOutOfOrder)

	session, err = svc.SubmitAnswer(ctx, "user-1", session.ID, models.Answer{QuestionID: "a"})
	require.NoError(t, err)

	_, err = svc.SubmitAnswer(ctx, "user-1", session.ID, models.Answer{QuestionID: "a"})
	require.ErrorIs(t, err, ErrDuplicateQuestion)
}

func TestInterviewToleratesFailedAnswerEvaluation(t *testing.T) {
	evaluator := &stubEvaluationService{answerErr: errors.New("model unavailable")}
	svc := newTestInterviewService(newMemorySessionRepo(), newMemoryProfileRepo(), evaluator)
	ctx := context.Background()

	session, err := svc.Start(ctx, "user-1", verbalConfig())
	require.NoError(t, err)

	session, err = svc.SubmitAnswer(ctx, "user-1", session.ID, models.Answer{QuestionID: "a", Answer: "attempt"})
	require.NoError(t, err)
	require.Len(t, session.Answers, 1)
	require.Nil(t, session.Answers[0].Evaluation)
}

func TestInterviewCompleteRetriesAfterFailure(t *testing.T) {
	sessions := newMemorySessionRepo()
	evaluator := &stubEvaluationService{}
	svc := newTestInterviewService(sessions, newMemoryProfileRepo(), evaluator)
	ctx := context.Background()

	session, err := svc.Start(ctx, "user-1", verbalConfig())
	require.NoError(t, err)
	_, err = svc.SubmitAnswer(ctx, "user-1", session.ID, models.Answer{QuestionID: "a"})
	require.NoError(t, err)
	_, err = svc.SubmitAnswer(ctx, "user-1", session.ID, models.Answer{QuestionID: "b"})
	require.NoError(t, err)

	evaluator.overallErr = errors.New("model unavailable")
	_, err = svc.Complete(ctx, "user-1", session.ID)
	require.Error(t, err)

	// Session is untouched by the failed attempt and completion succeeds
	// once the provider recovers.
	stored, err := sessions.GetByID(ctx, session.ID)
	require.NoError(t, err)
	require.Equal(t, models.SessionStatusInProgress, stored.Status)

	evaluator.overallErr = nil
	completed, err := svc.Complete(ctx, "user-1", session.ID)
	require.NoError(t, err)
	require.True(t, completed.Completed())
}

func TestInterviewCompleteRequiresAllAnswers(t *testing.T) {
	svc := newTestInterviewService(newMemorySessionRepo(), newMemoryProfileRepo(), &stubEvaluationService{})
	ctx := context.Background()

	session, err := svc.Start(ctx, "user-1", verbalConfig())
	require.NoError(t, err)

	_, err = svc.Complete(ctx, "user-1", session.ID)
	require.ErrorIs(t, err, ErrInterviewNotDone)
}

func TestInterviewOwnershipEnforced(t *testing.T) {
	svc := newTestInterviewService(newMemorySessionRepo(), newMemoryProfileRepo(), &stubEvaluationService{})
	ctx := context.Background()

	session, err := svc.Start(ctx, "user-1", verbalConfig())
	require.NoError(t, err)

	_, err = svc.Get(ctx, "user-2", session.ID)
	require.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Get(ctx, "user-1", "missing")
	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestInterviewCompleteIsIdempotent(t *testing.T) {
	svc := newTestInterviewService(newMemorySessionRepo(), newMemoryProfileRepo(), &stubEvaluationService{})
	ctx := context.Background()

	session, err := svc.Start(ctx, "user-1", verbalConfig())
	require.NoError(t, err)
	_, err = svc.SubmitAnswer(ctx, "user-1", session.ID, models.Answer{QuestionID: "a"})
	require.NoError(t, err)
	_, err = svc.SubmitAnswer(ctx, "user-1", session.ID, models.Answer{QuestionID: "b"})
	require.NoError(t, err)

	first, err := svc.Complete(ctx, "user-1", session.ID)
	require.NoError(t, err)

	second, err := svc.Complete(ctx, "user-1", session.ID)
	require.NoError(t, err)
	require.Equal(t, first.Status, second.Status)

	_, err = svc.SubmitAnswer(ctx, "user-1", session.ID, models.Answer{QuestionID: "a"})
	require.ErrorIs(t, err, ErrSessionCompleted)
}
