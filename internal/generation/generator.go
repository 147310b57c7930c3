package generation

import "context"

// Generator defines the boundary between the application core and the
// external AI service. Implementations send exactly one logical generation
// request per call; retry policy for throttling lives behind this interface.
type Generator interface {
	// Generate sends the prompt to the model and returns the raw response
	// text. Rate-limit responses are retried per the configured schedule;
	// any other failure is surfaced immediately. The returned error wraps
	// ErrRateLimited, ErrTransport, or ErrEmptyResponse.
	Generate(ctx context.Context, prompt string) (string, error)
}
