package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/prepmind-dev/prepmind-api/internal/models"
	"github.com/prepmind-dev/prepmind-api/pkg/sandbox"
)

type stubRunner struct {
	results   []sandbox.Result
	errs      []error
	requests  []sandbox.Request
	harnesses []string
}

func (r *stubRunner) Run(_ context.Context, req sandbox.Request) (sandbox.Result, error) {
	idx := len(r.requests)
	r.requests = append(r.requests, req)
	if req.Workspace != "" {
		script, err := os.ReadFile(filepath.Join(req.Workspace, "main.js"))
		if err == nil {
			r.harnesses = append(r.harnesses, string(script))
		}
	}
	var result sandbox.Result
	var err error
	if idx < len(r.results) {
		result = r.results[idx]
	}
	if idx < len(r.errs) {
		err = r.errs[idx]
	}
	return result, err
}

func TestExecutionServiceRunsJavaScript(t *testing.T) {
	runner := &stubRunner{
		results: []sandbox.Result{
			{Stdout: "2\n", ExitCode: 0},
			{Stdout: "5\n", ExitCode: 0},
		},
	}
	svc := NewExecutionService(runner, time.Second, zerolog.Nop())

	cases := []models.TestCase{
		{Input: "1", ExpectedOutput: "2"},
		{Input: "2", ExpectedOutput: "4", IsHidden: true},
	}
	results, err := svc.Execute(context.Background(), "function solution(n) { return Number(n) + 1; }", "javascript", cases)
	require.NoError(t, err)
	require.Len(t, results, 2)

	require.True(t, results[0].Passed)
	require.Equal(t, "2", results[0].ActualOutput)
	require.False(t, results[1].Passed)
	require.Equal(t, "5", results[1].ActualOutput)

	// Each case runs in its own container with the node image.
	require.Len(t, runner.requests, 2)
	for _, req := range runner.requests {
		require.Equal(t, "node:20-alpine", req.Image)
		require.Equal(t, []string{"node", "main.js"}, req.Cmd)
		require.NotEmpty(t, req.Workspace)
	}
}

func TestExecutionServiceReportsRuntimeFault(t *testing.T) {
	runner := &stubRunner{
		results: []sandbox.Result{{Stderr: "ReferenceError: solve is not defined", ExitCode: 1}},
	}
	svc := NewExecutionService(runner, time.Second, zerolog.Nop())

	results, err := svc.Execute(context.Background(), "oops", "javascript", []models.TestCase{{Input: "1", ExpectedOutput: "2"}})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.False(t, results[0].Passed)
	require.Empty(t, results[0].ActualOutput)
	require.Contains(t, results[0].Error, "ReferenceError")
}

func TestExecutionServiceReportsTimeout(t *testing.T) {
	runner := &stubRunner{
		results: []sandbox.Result{{TimedOut: true}},
		errs:    []error{errors.New("run timed out after 1s")},
	}
	svc := NewExecutionService(runner, time.Second, zerolog.Nop())

	results, err := svc.Execute(context.Background(), "while(true){}", "javascript", []models.TestCase{{Input: "1", ExpectedOutput: "2"}})
	require.NoError(t, err)
	require.False(t, results[0].Passed)
	require.Equal(t, "execution timed out", results[0].Error)
}

func TestExecutionServiceMocksOtherLanguages(t *testing.T) {
	runner := &stubRunner{}
	svc := NewExecutionService(runner, time.Second, zerolog.Nop())

	cases := []models.TestCase{
		{Input: "1", ExpectedOutput: "2"},
		{Input: "2", ExpectedOutput: "4"},
		{Input: "3", ExpectedOutput: "6"},
	}
	results, err := svc.Execute(context.Background(), "print(1)", "python", cases)
	require.NoError(t, err)
	require.Len(t, results, 3)

	require.True(t, results[0].Passed)
	require.Equal(t, "2", results[0].ActualOutput)
	for _, r := range results[1:] {
		require.False(t, r.Passed)
		require.Equal(t, "Wrong output", r.ActualOutput)
		require.Equal(t, "Language execution not implemented yet", r.Error)
	}

	// The sandbox is never touched for mocked languages.
	require.Empty(t, runner.requests)
}

func TestExecutionServiceMocksLanguagesOutsideCatalog(t *testing.T) {
	runner := &stubRunner{}
	svc := NewExecutionService(runner, time.Second, zerolog.Nop())

	results, err := svc.Execute(context.Background(), "puts 1", "ruby", []models.TestCase{
		{Input: "1", ExpectedOutput: "1"},
		{Input: "2", ExpectedOutput: "2"},
	})
	require.NoError(t, err)
	require.True(t, results[0].Passed)
	require.Equal(t, "Language execution not implemented yet", results[1].Error)
	require.Empty(t, runner.requests)
}

func TestExecutionServiceRequiresTestCases(t *testing.T) {
	svc := NewExecutionService(&stubRunner{}, time.Second, zerolog.Nop())

	_, err := svc.Execute(context.Background(), "code", "javascript", nil)
	require.ErrorIs(t, err, ErrNoTestCases)
}

func TestBuildHarnessInjectsInputAsExpression(t *testing.T) {
	harness := buildHarness("function solution(x) { return x + 1; }", "1")
	require.Contains(t, harness, "const testInput = 1;")
	require.NotContains(t, harness, `const testInput = "1";`)
	require.True(t, strings.HasSuffix(strings.TrimSpace(harness), "console.log(String(result));"))

	harness = buildHarness("function solution(a) { return a.length; }", "[1, 2, 3]")
	require.Contains(t, harness, "const testInput = [1, 2, 3];")
}

func TestExecutionServiceIncrementExample(t *testing.T) {
	// function solution(x) { return x + 1; } with input "1" must see the
	// number 1 and produce "2", not the string concatenation "11".
	runner := &stubRunner{results: []sandbox.Result{{Stdout: "2\n", ExitCode: 0}}}
	svc := NewExecutionService(runner, time.Second, zerolog.Nop())

	results, err := svc.Execute(context.Background(), "function solution(x) { return x + 1; }", "javascript", []models.TestCase{{Input: "1", ExpectedOutput: "2"}})
	require.NoError(t, err)
	require.True(t, results[0].Passed)
	require.Equal(t, "2", results[0].ActualOutput)

	require.Len(t, runner.harnesses, 1)
	require.Contains(t, runner.harnesses[0], "const testInput = 1;")
}
