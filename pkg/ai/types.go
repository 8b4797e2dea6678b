package ai

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Params tunes a single generation call. Zero values fall back to the
// shared defaults.
type Params struct {
	Temperature     float32
	MaxOutputTokens int
	TopP            float32
	TopK            int
}

// Default generation parameters applied by every provider.
const (
	DefaultTemperature     = float32(0.7)
	DefaultMaxOutputTokens = 2048
	DefaultTopP            = float32(0.95)
	DefaultTopK            = 40
)

func (p Params) withDefaults() Params {
	if p.Temperature == 0 {
		p.Temperature = DefaultTemperature
	}
	if p.MaxOutputTokens == 0 {
		p.MaxOutputTokens = DefaultMaxOutputTokens
	}
	if p.TopP == 0 {
		p.TopP = DefaultTopP
	}
	if p.TopK == 0 {
		p.TopK = DefaultTopK
	}
	return p
}

// Gateway is the remote-generation contract the orchestration core consumes.
// Calls are opaque, non-streaming and non-idempotent: repeated calls with
// the same prompt may legitimately yield different valid payloads. No
// retries happen at this layer.
type Gateway interface {
	Generate(ctx context.Context, prompt string, params Params) (string, error)
}

var (
	genDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "prepmind",
		Subsystem: "ai",
		Name:      "generation_duration_seconds",
		Help:      "Duration of AI generation requests",
	}, []string{"provider", "model"})

	genFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "prepmind",
		Subsystem: "ai",
		Name:      "generation_failures_total",
		Help:      "Number of AI generation failures",
	}, []string{"provider", "model"})
)
