package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/prepmind-dev/prepmind-api/internal/dto"
	"github.com/prepmind-dev/prepmind-api/internal/handler"
	"github.com/prepmind-dev/prepmind-api/internal/service"
)

type mockChatService struct {
	lastMessage string
	response    string
	err         error
}

func (m *mockChatService) Chat(_ context.Context, message string) (string, error) {
	m.lastMessage = message
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func newChatApp(svc service.ChatService) *fiber.App {
	app := fiber.New()
	group := app.Group("/api/chat")
	handler.NewChatHandler(svc, validator.New(), zerolog.Nop()).Register(group)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, payload interface{}) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeResponse(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
}

func TestChatHandler_Success(t *testing.T) {
	svc := &mockChatService{response: "Start with two-pointer problems."}
	app := newChatApp(svc)

	resp := postJSON(t, app, "/api/chat", dto.ChatRequest{Message: "How do I get better at arrays?"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Success bool             `json:"success"`
		Data    dto.ChatResponse `json:"data"`
		Message string           `json:"message"`
	}
	decodeResponse(t, resp, &body)

	require.True(t, body.Success)
	require.Equal(t, "response generated", body.Message)
	require.Equal(t, svc.response, body.Data.Response)
	require.Equal(t, "How do I get better at arrays?", svc.lastMessage)
}

func TestChatHandler_MissingMessage(t *testing.T) {
	app := newChatApp(&mockChatService{})

	resp := postJSON(t, app, "/api/chat", dto.ChatRequest{})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestChatHandler_QuotaExceeded(t *testing.T) {
	app := newChatApp(&mockChatService{err: service.ErrRateLimited})

	resp := postJSON(t, app, "/api/chat", dto.ChatRequest{Message: "hello"})
	require.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
}

func TestChatHandler_UpstreamFailure(t *testing.T) {
	app := newChatApp(&mockChatService{err: service.ErrUpstreamFailure})

	resp := postJSON(t, app, "/api/chat", dto.ChatRequest{Message: "hello"})
	require.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
}
