package dto

import "github.com/prepmind-dev/prepmind-api/internal/models"

// ExecuteCodeRequest runs submitted code against a set of test cases.
type ExecuteCodeRequest struct {
	Code      string            `json:"code" validate:"required"`
	Language  string            `json:"language" validate:"required"`
	TestCases []models.TestCase `json:"testCases" validate:"required,min=1"`
}

// TestCaseResult reports one test case outcome. A runtime fault is data
// here, not an error: it fails the case and carries the fault message.
type TestCaseResult struct {
	Passed         bool   `json:"passed"`
	Input          string `json:"input"`
	ExpectedOutput string `json:"expectedOutput"`
	ActualOutput   string `json:"actualOutput"`
	Error          string `json:"error,omitempty"`
}

// ExecutionResponse carries the per-case results in test case order.
type ExecutionResponse struct {
	Results []TestCaseResult `json:"results"`
}

// ChatRequest is a single assistant query.
type ChatRequest struct {
	Message string `json:"message" validate:"required"`
}

// ChatResponse is the assistant's reply.
type ChatResponse struct {
	Response string `json:"response"`
}
