package models

import "time"

// Difficulty levels accepted by interview configuration.
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

// Interview formats.
const (
	FormatVerbal = "verbal"
	FormatCoding = "coding"
)

// Session status values. Only in-progress -> completed is ever produced;
// cancelled exists in the document schema but no transition writes it.
const (
	SessionStatusInProgress = "in-progress"
	SessionStatusCompleted  = "completed"
	SessionStatusCancelled  = "cancelled"
)

// Session stages mirror the interview flow: config -> loading -> interview
// -> evaluating -> feedback. A persisted session is only ever created at
// stage interview; config and loading exist transiently while questions are
// generated.
const (
	StageConfig     = "config"
	StageLoading    = "loading"
	StageInterview  = "interview"
	StageEvaluating = "evaluating"
	StageFeedback   = "feedback"
)

// InterviewConfig captures the interview setup chosen by the user. It is
// immutable once a session is created.
type InterviewConfig struct {
	Domain          string   `bson:"domain" json:"domain" validate:"required"`
	Difficulty      string   `bson:"difficulty" json:"difficulty" validate:"required,oneof=beginner intermediate advanced"`
	Topics          []string `bson:"topics" json:"topics" validate:"required,min=1,dive,required"`
	Format          string   `bson:"format" json:"format" validate:"required,oneof=verbal coding"`
	InteractionMode string   `bson:"interaction_mode,omitempty" json:"interactionMode,omitempty" validate:"omitempty,oneof=speech text"`
	Duration        int      `bson:"duration,omitempty" json:"duration,omitempty"`
	InterviewType   string   `bson:"interview_type,omitempty" json:"interviewType,omitempty" validate:"omitempty,oneof=specific general"`
	CustomDomain    string   `bson:"custom_domain,omitempty" json:"customDomain,omitempty"`
	SpecificArea    string   `bson:"specific_area,omitempty" json:"specificArea,omitempty"`
}

// QuestionCount returns how many questions a session with this config holds.
func (c InterviewConfig) QuestionCount() int {
	if c.Format == FormatCoding {
		return 3
	}
	return 5
}

// TestCase is a single input/output pair attached to a coding question.
// Hidden cases are withheld from display but still scored.
type TestCase struct {
	Input          string `bson:"input" json:"input"`
	ExpectedOutput string `bson:"expected_output" json:"expectedOutput"`
	IsHidden       bool   `bson:"is_hidden" json:"isHidden"`
}

// Question is generated once per session and never mutated. The id is unique
// within the session and is the only join key for answers.
type Question struct {
	ID             string     `bson:"id" json:"id"`
	Question       string     `bson:"question" json:"question"`
	Type           string     `bson:"type" json:"type"`
	Difficulty     string     `bson:"difficulty" json:"difficulty"`
	Topic          string     `bson:"topic" json:"topic"`
	ExpectedAnswer string     `bson:"expected_answer,omitempty" json:"expectedAnswer,omitempty"`
	TestCases      []TestCase `bson:"test_cases,omitempty" json:"testCases,omitempty"`
	Constraints    []string   `bson:"constraints,omitempty" json:"constraints,omitempty"`
}

// VisibleTestCases filters out hidden cases for display.
func (q Question) VisibleTestCases() []TestCase {
	if len(q.TestCases) == 0 {
		return nil
	}
	visible := make([]TestCase, 0, len(q.TestCases))
	for _, tc := range q.TestCases {
		if !tc.IsHidden {
			visible = append(visible, tc)
		}
	}
	return visible
}

// Evaluation is the per-answer AI score. It may be absent when the
// evaluation call failed; the answer is retained unscored.
type Evaluation struct {
	Score       float64  `bson:"score" json:"score"`
	Feedback    string   `bson:"feedback" json:"feedback"`
	Strengths   []string `bson:"strengths" json:"strengths"`
	Weaknesses  []string `bson:"weaknesses" json:"weaknesses"`
	Suggestions []string `bson:"suggestions" json:"suggestions"`
}

// Answer is created exactly once per question, append-only in question order.
type Answer struct {
	QuestionID string      `bson:"question_id" json:"questionId" validate:"required"`
	Answer     string      `bson:"answer" json:"answer"`
	Code       string      `bson:"code,omitempty" json:"code,omitempty"`
	Timestamp  time.Time   `bson:"timestamp" json:"timestamp"`
	Evaluation *Evaluation `bson:"evaluation,omitempty" json:"evaluation,omitempty"`
}

// OverallEvaluation is computed once, at interview completion.
type OverallEvaluation struct {
	OverallScore       float64            `bson:"overall_score" json:"overallScore"`
	TopicWiseScores    map[string]float64 `bson:"topic_wise_scores" json:"topicWiseScores"`
	Strengths          []string           `bson:"strengths" json:"strengths"`
	Weaknesses         []string           `bson:"weaknesses" json:"weaknesses"`
	Recommendations    []string           `bson:"recommendations" json:"recommendations"`
	PerformanceSummary string             `bson:"performance_summary" json:"performanceSummary"`
}

// InterviewSession is the persisted document for one configure -> question
// -> answer -> evaluate cycle. Terminal once completed.
type InterviewSession struct {
	ID                string             `bson:"_id" json:"id"`
	UserID            string             `bson:"user_id" json:"userId"`
	Config            InterviewConfig    `bson:"config" json:"config"`
	Questions         []Question         `bson:"questions" json:"questions"`
	Answers           []Answer           `bson:"answers" json:"answers"`
	StartTime         time.Time          `bson:"start_time" json:"startTime"`
	EndTime           *time.Time         `bson:"end_time,omitempty" json:"endTime,omitempty"`
	OverallEvaluation *OverallEvaluation `bson:"overall_evaluation,omitempty" json:"overallEvaluation,omitempty"`
	Status            string             `bson:"status" json:"status"`
	Stage             string             `bson:"stage" json:"stage"`
}

// QuestionByID resolves the join key for an answer.
func (s InterviewSession) QuestionByID(id string) (Question, bool) {
	for _, q := range s.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// NextQuestion returns the question the next answer must target, in strict
// generation order.
func (s InterviewSession) NextQuestion() (Question, bool) {
	if len(s.Answers) >= len(s.Questions) {
		return Question{}, false
	}
	return s.Questions[len(s.Answers)], true
}

// Completed reports whether the session reached its terminal state.
func (s InterviewSession) Completed() bool {
	return s.Status == SessionStatusCompleted
}
