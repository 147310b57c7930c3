// Package gemini implements the generation.Generator interface on top of
// Google's Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"google.golang.org/genai"

	"github.com/edupilot/edupilot-api/internal/config"
	"github.com/edupilot/edupilot-api/internal/generation"
	"github.com/edupilot/edupilot-api/internal/retry"
)

// Retry policy for rate-limited calls: up to 3 additional attempts with
// delays of 2^n x 1000ms + 1000ms (3s, 5s, 9s).
const (
	maxRetries       = 3
	retryDelayBase   = time.Second
	retryDelayOffset = time.Second
)

// modelCaller abstracts the single underlying model invocation so the retry
// loop is testable without the SDK.
type modelCaller interface {
	generateText(ctx context.Context, prompt string) (string, error)
}

// Generator implements generation.Generator using the Gemini API.
//
// Each call runs its own retry loop; there is no shared token bucket across
// concurrent callers, so under heavy concurrent load multiple requests may
// all retry independently and add stampede pressure on the upstream API.
// No timeout is enforced beyond the retry schedule; a hung transport call
// blocks its flow until the context is cancelled.
type Generator struct {
	logger *slog.Logger
	caller modelCaller
	delay  retry.DelayFunc
	sleep  retry.SleepFunc
}

// NewGenerator creates a Generator backed by a real Gemini client.
func NewGenerator(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Generator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}

	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", generation.ErrInvalidConfig, err)
	}

	return &Generator{
		logger: logger.With("component", "gemini_generator"),
		caller: &genaiCaller{client: client, model: cfg.ModelName},
		delay:  retry.ExponentialDelay(retryDelayBase, retryDelayOffset),
	}, nil
}

// Generate sends the prompt to the model, retrying rate-limited calls per
// the fixed schedule. The last rate-limit error surfaces unchanged after
// retries are exhausted; all other errors surface immediately.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", generation.ErrEmptyPrompt
	}

	var text string
	attempt := 0

	err := retry.Do(ctx, func() error {
		attempt++
		g.logger.InfoContext(ctx, "calling model",
			"attempt", attempt,
			"max_attempts", maxRetries+1,
			"prompt_length", len(prompt))

		out, err := g.caller.generateText(ctx, prompt)
		if err != nil {
			classified := classifyError(err)
			g.logger.WarnContext(ctx, "model call failed",
				"attempt", attempt,
				"error", classified)
			return classified
		}

		text = out
		return nil
	},
		retry.WithMaxRetries(maxRetries),
		retry.WithDelay(g.delay),
		retry.WithRetryIf(func(err error) bool { return errors.Is(err, generation.ErrRateLimited) }),
		retry.WithSleep(g.sleep),
	)
	if err != nil {
		return "", err
	}

	g.logger.InfoContext(ctx, "model call successful",
		"attempt", attempt,
		"response_length", len(text))
	return text, nil
}

// classifyError maps transport failures onto the generation error taxonomy.
// HTTP 429 becomes ErrRateLimited (retryable); everything else is a
// non-retryable ErrTransport.
func classifyError(err error) error {
	if errors.Is(err, generation.ErrRateLimited) || errors.Is(err, generation.ErrEmptyResponse) {
		return err
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code == 429 {
		return fmt.Errorf("%w: %v", generation.ErrRateLimited, err)
	}
	return fmt.Errorf("%w: %v", generation.ErrTransport, err)
}

// genaiCaller is the production modelCaller backed by the genai SDK.
type genaiCaller struct {
	client *genai.Client
	model  string
}

func (c *genaiCaller) generateText(ctx context.Context, prompt string) (string, error) {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: generation.SystemInstruction}},
		},
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), cfg)
	if err != nil {
		return "", err
	}

	if resp == nil || len(resp.Candidates) == 0 ||
		resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", generation.ErrEmptyResponse
	}

	var text string
	for _, part := range resp.Candidates[0].Content.Parts {
		text += part.Text
	}

	if text == "" {
		return "", generation.ErrEmptyResponse
	}

	return text, nil
}
