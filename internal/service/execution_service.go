package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/prepmind-dev/prepmind-api/internal/dto"
	"github.com/prepmind-dev/prepmind-api/internal/models"
	"github.com/prepmind-dev/prepmind-api/pkg/sandbox"
)

var ErrNoTestCases = errors.New("at least one test case is required")

const (
	nodeImage      = "node:20-alpine"
	harnessFile    = "main.js"
	mockErrMessage = "Language execution not implemented yet"
)

// ExecutionService runs candidate code against the test cases of a coding
// question. Only JavaScript is executed for real; other languages return a
// canned result so the interview flow keeps working.
type ExecutionService interface {
	Execute(ctx context.Context, code, language string, cases []models.TestCase) ([]dto.TestCaseResult, error)
}

type executionService struct {
	runner  sandbox.Runner
	timeout time.Duration
	logger  zerolog.Logger
}

func NewExecutionService(runner sandbox.Runner, timeout time.Duration, logger zerolog.Logger) ExecutionService {
	return &executionService{
		runner:  runner,
		timeout: timeout,
		logger:  logger.With().Str("component", "execution_service").Logger(),
	}
}

func (s *executionService) Execute(ctx context.Context, code, language string, cases []models.TestCase) ([]dto.TestCaseResult, error) {
	if len(cases) == 0 {
		return nil, ErrNoTestCases
	}

	if !strings.EqualFold(language, "javascript") {
		return mockResults(cases), nil
	}

	results := make([]dto.TestCaseResult, 0, len(cases))
	for _, tc := range cases {
		results = append(results, s.runCase(ctx, code, tc))
	}

	passed := 0
	for _, r := range results {
		if r.Passed {
			passed++
		}
	}
	s.logger.Info().
		Int("cases", len(cases)).
		Int("passed", passed).
		Msg("code executed")

	return results, nil
}

// runCase wraps the submission in a harness that calls solution() with the
// case input and prints the stringified return value. Each case gets its own
// container so one crash cannot poison the next run.
func (s *executionService) runCase(ctx context.Context, code string, tc models.TestCase) dto.TestCaseResult {
	result := dto.TestCaseResult{
		Input:          tc.Input,
		ExpectedOutput: tc.ExpectedOutput,
	}

	workspace, err := os.MkdirTemp("", "prepmind-run-")
	if err != nil {
		result.Error = fmt.Sprintf("prepare workspace: %v", err)
		return result
	}
	defer os.RemoveAll(workspace)

	harness := buildHarness(code, tc.Input)

	if err := os.WriteFile(filepath.Join(workspace, harnessFile), []byte(harness), 0o644); err != nil {
		result.Error = fmt.Sprintf("write harness: %v", err)
		return result
	}

	run, err := s.runner.Run(ctx, sandbox.Request{
		Image:     nodeImage,
		Cmd:       []string{"node", harnessFile},
		Workspace: workspace,
		Timeout:   s.timeout,
	})
	if err != nil {
		if run.TimedOut {
			result.Error = "execution timed out"
		} else {
			result.Error = err.Error()
		}
		return result
	}
	if run.ExitCode != 0 {
		result.Error = strings.TrimSpace(run.Stderr)
		if result.Error == "" {
			result.Error = fmt.Sprintf("exited with code %d", run.ExitCode)
		}
		return result
	}

	result.ActualOutput = strings.TrimSpace(run.Stdout)
	result.Passed = result.ActualOutput == strings.TrimSpace(tc.ExpectedOutput)
	return result
}

// buildHarness splices the case input into the script as a raw JS
// expression, so "1" arrives as the number 1 and "[1,2]" as an array. The
// input is authored alongside the question, not by the candidate.
func buildHarness(code, input string) string {
	builder := strings.Builder{}
	builder.WriteString(code)
	builder.WriteString("\n\nconst testInput = ")
	builder.WriteString(input)
	builder.WriteString(";\n")
	builder.WriteString("const result = solution(testInput);\n")
	builder.WriteString("console.log(String(result));\n")
	return builder.String()
}

// mockResults keeps unsupported languages usable in demos: the first case
// appears to pass, the rest report the limitation.
func mockResults(cases []models.TestCase) []dto.TestCaseResult {
	results := make([]dto.TestCaseResult, 0, len(cases))
	for i, tc := range cases {
		if i == 0 {
			results = append(results, dto.TestCaseResult{
				Passed:         true,
				Input:          tc.Input,
				ExpectedOutput: tc.ExpectedOutput,
				ActualOutput:   tc.ExpectedOutput,
			})
			continue
		}
		results = append(results, dto.TestCaseResult{
			Input:          tc.Input,
			ExpectedOutput: tc.ExpectedOutput,
			ActualOutput:   "Wrong output",
			Error:          mockErrMessage,
		})
	}
	return results
}
