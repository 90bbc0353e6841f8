package blog

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest is returned before any network call when a request
	// fails validation (empty topic, no tones, unsupported word count).
	ErrInvalidRequest = errors.New("invalid generation request")

	// ErrUpstreamUnavailable is returned when the chat-completion call fails
	// or yields no usable text. No partial result is produced.
	ErrUpstreamUnavailable = errors.New("text generation unavailable")

	// ErrNoImageGenerator marks placeholders that could not be resolved
	// because no image generator is configured.
	ErrNoImageGenerator = errors.New("no image generator configured")
)

// ImageError describes a failure to resolve a single image placeholder.
// It is recovered locally and never escalated to the whole generation.
type ImageError struct {
	Placeholder Placeholder
	Err         error
}

func (e *ImageError) Error() string {
	return fmt.Sprintf("image generation failed for %s: %v", e.Placeholder.Raw, e.Err)
}

func (e *ImageError) Unwrap() error {
	return e.Err
}
