package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// GeminiConfig defines configuration options for the Gemini gateway.
type GeminiConfig struct {
	APIKey string
	Model  string
	Logger zerolog.Logger
}

// GeminiGateway implements Gateway against the Google Generative AI API.
type GeminiGateway struct {
	client *genai.Client
	cfg    GeminiConfig
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewGeminiGateway builds a gateway using the provided configuration.
func NewGeminiGateway(ctx context.Context, cfg GeminiConfig) (*GeminiGateway, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}

	if cfg.Model == "" {
		cfg.Model = "gemini-2.0-flash-exp"
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	tracer := otel.Tracer("github.com/prepmind-dev/prepmind-api/pkg/ai/gemini")
	logger := cfg.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}

	return &GeminiGateway{
		client: client,
		cfg:    cfg,
		tracer: tracer,
		logger: logger,
	}, nil
}

// Generate sends the prompt to Gemini and returns the raw generated text.
func (g *GeminiGateway) Generate(parent context.Context, prompt string, params Params) (string, error) {
	ctx, span := g.tracer.Start(parent, "gemini.generate", trace.WithAttributes(
		attribute.String("model", g.cfg.Model),
	))
	defer span.End()

	model := g.model(params)

	start := time.Now()
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	genDuration.WithLabelValues("gemini", g.cfg.Model).Observe(time.Since(start).Seconds())
	if err != nil {
		genFailures.WithLabelValues("gemini", g.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	text := collectText(resp)
	if text == "" {
		err := fmt.Errorf("no text candidates returned from gemini")
		genFailures.WithLabelValues("gemini", g.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	return text, nil
}

// GenerateStream yields chunks of generated text as they arrive. The
// interview orchestration path does not consume this; it exists for the
// chat surface's future streaming mode.
func (g *GeminiGateway) GenerateStream(ctx context.Context, prompt string, params Params, emit func(chunk string) error) error {
	model := g.model(params)

	iter := model.GenerateContentStream(ctx, genai.Text(prompt))
	for {
		resp, err := iter.Next()
		if err == iterator.Done {
			return nil
		}
		if err != nil {
			genFailures.WithLabelValues("gemini", g.cfg.Model).Inc()
			return fmt.Errorf("gemini stream: %w", err)
		}
		if chunk := collectText(resp); chunk != "" {
			if err := emit(chunk); err != nil {
				return err
			}
		}
	}
}

// Close releases the underlying client.
func (g *GeminiGateway) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}

func (g *GeminiGateway) model(params Params) *genai.GenerativeModel {
	params = params.withDefaults()

	model := g.client.GenerativeModel(g.cfg.Model)
	model.SetTemperature(params.Temperature)
	model.SetMaxOutputTokens(int32(params.MaxOutputTokens))
	model.SetTopP(params.TopP)
	model.SetTopK(int32(params.TopK))
	return model
}

func collectText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				builder.WriteString(string(text))
			}
		}
	}
	return builder.String()
}
