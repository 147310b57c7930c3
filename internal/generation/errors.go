package generation

import "errors"

// Common errors returned by the generation package.
var (
	// ErrRateLimited is returned when the model endpoint reports throttling
	// (HTTP 429). It is recovered locally by the retry loop and surfaced only
	// after retries are exhausted.
	ErrRateLimited = errors.New("model endpoint rate limited the request")

	// ErrMalformedResponse is returned when model output does not conform to
	// the expected schema. It is never retried automatically.
	ErrMalformedResponse = errors.New("malformed response from language model")

	// ErrTransport is returned for network or other unclassified transport
	// failures. It surfaces immediately, without retry.
	ErrTransport = errors.New("model transport failure")

	// ErrEmptyResponse is returned when the model produces no usable text.
	ErrEmptyResponse = errors.New("empty response from language model")

	// ErrInvalidConfig is returned when the generator configuration is invalid.
	ErrInvalidConfig = errors.New("invalid generator configuration")

	// ErrEmptyPrompt is returned when a generation request carries no prompt.
	ErrEmptyPrompt = errors.New("prompt cannot be empty")
)
