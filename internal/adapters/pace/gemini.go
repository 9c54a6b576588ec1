// Package pace provides the advisors that tune how fast the progress
// indicator animates.
package pace

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/xvierd/chronozen/internal/domain"
	"github.com/xvierd/chronozen/internal/ports"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.0-flash"

// ErrMissingAPIKey is returned when the Gemini advisor has no credentials.
var ErrMissingAPIKey = errors.New("gemini API key is required")

const promptTemplate = `You are an expert in UX and animation rhythm.

Given the selected duration and the remaining time of a countdown, choose an
animation pace for its progress indicator.

The pace is a number between 0 and 1, where 0 means paused and 1 means normal
speed. When little time remains relative to the selected duration, the pace
should be higher so the user notices the end approaching. When plenty of time
remains, the pace should be normal or slightly slower.%s

Selected time: %d seconds
Remaining time: %d seconds`

var adviceSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"pace": {
			Type:        genai.TypeNumber,
			Description: "Animation pace between 0 and 1.",
		},
		"reasoning": {
			Type:        genai.TypeString,
			Description: "Why this pace was chosen.",
		},
	},
	Required: []string{"pace", "reasoning"},
}

// GeminiAdvisor asks a Gemini model for the pace.
type GeminiAdvisor struct {
	model    string
	generate func(ctx context.Context, prompt string) (string, error)
}

// Ensure GeminiAdvisor implements ports.PaceAdvisor.
var _ ports.PaceAdvisor = (*GeminiAdvisor)(nil)

// NewGeminiAdvisor creates an advisor backed by the Gemini API.
func NewGeminiAdvisor(ctx context.Context, apiKey, model string) (*GeminiAdvisor, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	config := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0.2),
		ResponseMIMEType: "application/json",
		ResponseSchema:   adviceSchema,
	}

	return &GeminiAdvisor{
		model: model,
		generate: func(ctx context.Context, prompt string) (string, error) {
			resp, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), config)
			if err != nil {
				return "", err
			}
			return resp.Text(), nil
		},
	}, nil
}

// Name returns the advisor name used in logs and metrics.
func (a *GeminiAdvisor) Name() string {
	return "gemini"
}

// Advise implements ports.PaceAdvisor.
func (a *GeminiAdvisor) Advise(ctx context.Context, req ports.PaceRequest) (domain.PaceAdvice, error) {
	text, err := a.generate(ctx, buildPrompt(req))
	if err != nil {
		return domain.PaceAdvice{}, fmt.Errorf("gemini generate failed: %w", err)
	}
	return parseAdvice(text)
}

func buildPrompt(req ports.PaceRequest) string {
	phase := ""
	switch req.Phase {
	case domain.PhaseWork:
		phase = "\n\nThe countdown is a focused work interval."
	case domain.PhaseShortBreak, domain.PhaseLongBreak:
		phase = "\n\nThe countdown is a rest break; prefer a calm pace."
	}
	return fmt.Sprintf(promptTemplate, phase, req.SelectedSeconds, req.RemainingSeconds)
}

// parseAdvice decodes the model's JSON answer and validates the range.
func parseAdvice(text string) (domain.PaceAdvice, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	var out struct {
		Pace      *float64 `json:"pace"`
		Reasoning string   `json:"reasoning"`
	}
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return domain.PaceAdvice{}, fmt.Errorf("%w: %v", domain.ErrMalformedAdvice, err)
	}
	if out.Pace == nil {
		return domain.PaceAdvice{}, fmt.Errorf("%w: missing pace", domain.ErrMalformedAdvice)
	}

	advice := domain.PaceAdvice{Pace: *out.Pace, Reasoning: strings.TrimSpace(out.Reasoning)}
	if err := advice.Validate(); err != nil {
		return domain.PaceAdvice{}, err
	}
	return advice, nil
}
