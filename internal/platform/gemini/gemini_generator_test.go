package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/edupilot/edupilot-api/internal/config"
	"github.com/edupilot/edupilot-api/internal/generation"
	"github.com/edupilot/edupilot-api/internal/retry"
)

// fakeCaller scripts a sequence of responses for successive attempts.
type fakeCaller struct {
	responses []fakeResponse
	calls     int
}

type fakeResponse struct {
	text string
	err  error
}

func (f *fakeCaller) generateText(ctx context.Context, prompt string) (string, error) {
	if f.calls >= len(f.responses) {
		return "", errors.New("unexpected extra call")
	}
	r := f.responses[f.calls]
	f.calls++
	return r.text, r.err
}

func rateLimitErr() error {
	return genai.APIError{Code: 429, Message: "resource exhausted"}
}

func newTestGenerator(caller modelCaller, delays *[]time.Duration) *Generator {
	return &Generator{
		logger: slog.Default(),
		caller: caller,
		delay:  retry.ExponentialDelay(retryDelayBase, retryDelayOffset),
		sleep: func(ctx context.Context, d time.Duration) error {
			*delays = append(*delays, d)
			return nil
		},
	}
}

func TestGenerateSuccess(t *testing.T) {
	t.Parallel()

	var delays []time.Duration
	caller := &fakeCaller{responses: []fakeResponse{{text: "hello"}}}
	g := newTestGenerator(caller, &delays)

	text, err := g.Generate(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
	assert.Equal(t, 1, caller.calls)
	assert.Empty(t, delays)
}

func TestGenerateRetriesRateLimitsThenSucceeds(t *testing.T) {
	t.Parallel()

	var delays []time.Duration
	caller := &fakeCaller{responses: []fakeResponse{
		{err: rateLimitErr()},
		{err: rateLimitErr()},
		{err: rateLimitErr()},
		{text: "finally"},
	}}
	g := newTestGenerator(caller, &delays)

	text, err := g.Generate(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "finally", text)
	assert.Equal(t, 4, caller.calls)

	// The delay schedule before the 4th attempt is exactly 3s, 5s, 9s.
	assert.Equal(t, []time.Duration{3 * time.Second, 5 * time.Second, 9 * time.Second}, delays)
}

func TestGenerateSurfacesRateLimitAfterExhaustion(t *testing.T) {
	t.Parallel()

	var delays []time.Duration
	caller := &fakeCaller{responses: []fakeResponse{
		{err: rateLimitErr()},
		{err: rateLimitErr()},
		{err: rateLimitErr()},
		{err: rateLimitErr()},
	}}
	g := newTestGenerator(caller, &delays)

	_, err := g.Generate(context.Background(), "hi")
	assert.ErrorIs(t, err, generation.ErrRateLimited)

	// No 4th retry: 4 attempts total, 3 delays.
	assert.Equal(t, 4, caller.calls)
	assert.Len(t, delays, 3)
}

func TestGenerateDoesNotRetryTransportErrors(t *testing.T) {
	t.Parallel()

	var delays []time.Duration
	caller := &fakeCaller{responses: []fakeResponse{
		{err: fmt.Errorf("connection reset")},
	}}
	g := newTestGenerator(caller, &delays)

	_, err := g.Generate(context.Background(), "hi")
	assert.ErrorIs(t, err, generation.ErrTransport)
	assert.Equal(t, 1, caller.calls)
	assert.Empty(t, delays)
}

func TestGenerateRejectsEmptyPrompt(t *testing.T) {
	t.Parallel()

	var delays []time.Duration
	caller := &fakeCaller{}
	g := newTestGenerator(caller, &delays)

	_, err := g.Generate(context.Background(), "")
	assert.ErrorIs(t, err, generation.ErrEmptyPrompt)
	assert.Zero(t, caller.calls)
}

func TestNewGeneratorConfigValidation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	logger := slog.Default()

	_, err := NewGenerator(ctx, nil, config.LLMConfig{GeminiAPIKey: "k", ModelName: "m"})
	assert.Error(t, err)

	_, err = NewGenerator(ctx, logger, config.LLMConfig{ModelName: "m"})
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)

	_, err = NewGenerator(ctx, logger, config.LLMConfig{GeminiAPIKey: "k"})
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)
}

func TestClassifyError(t *testing.T) {
	t.Parallel()

	assert.ErrorIs(t, classifyError(rateLimitErr()), generation.ErrRateLimited)
	assert.ErrorIs(t, classifyError(genai.APIError{Code: 500}), generation.ErrTransport)
	assert.ErrorIs(t, classifyError(errors.New("dial tcp: timeout")), generation.ErrTransport)
	assert.ErrorIs(t, classifyError(generation.ErrEmptyResponse), generation.ErrEmptyResponse)
}
