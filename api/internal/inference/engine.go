// Package inference turns uploaded leaf photos into disease reports using a
// generative model.
package inference

import (
	"context"
	"errors"
	"strings"
	"time"

	"leaf-doctor/api/internal/metrics"

	"github.com/google/generative-ai-go/genai"
)

// Model is the part of *genai.GenerativeModel the engine needs.
type Model interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

type Engine struct {
	model Model
	name  string
}

func New(model Model, name string) *Engine {
	return &Engine{
		model: model,
		name:  strings.TrimSpace(name),
	}
}

func (e *Engine) Name() string { return e.name }

// Diagnose sends the image inline, followed by DiagnosisPrompt.
func (e *Engine) Diagnose(ctx context.Context, image []byte, mime string) (string, error) {
	if len(image) == 0 {
		return "", errors.New("inference: empty image")
	}
	parts := []genai.Part{
		genai.Blob{MIMEType: mime, Data: image},
		genai.Text(DiagnosisPrompt),
	}
	return e.generate(ctx, "diagnose", parts...)
}

// Ping checks connectivity with a short text-only prompt.
func (e *Engine) Ping(ctx context.Context) (string, error) {
	return e.generate(ctx, "ping", genai.Text(PingPrompt))
}

func (e *Engine) generate(ctx context.Context, op string, parts ...genai.Part) (string, error) {
	start := time.Now()
	resp, err := e.model.GenerateContent(ctx, parts...)
	text, err := FirstText(resp, err)

	metrics.InferenceDuration.WithLabelValues(e.name, op).Observe(time.Since(start).Seconds())
	metrics.InferenceResults.WithLabelValues(e.name, op, Outcome(err)).Inc()
	return text, err
}
