package translation

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest marks malformed requests. Never retried.
	ErrInvalidRequest = errors.New("invalid translation request")
	// ErrProviderClosed marks calls issued after Close. Never retried.
	ErrProviderClosed = errors.New("translation provider is closed")
	// ErrStreamingUnsupported marks providers without a native streaming mode.
	ErrStreamingUnsupported = errors.New("translation provider does not support streaming")
)

// transientError marks failures that may self-resolve on retry, such as
// timeouts and network errors. Everything not wrapped this way is treated as
// permanent.
type transientError struct {
	err error
}

func (e *transientError) Error() string {
	return fmt.Sprintf("transient: %v", e.err)
}

func (e *transientError) Unwrap() error {
	return e.err
}

// Transient wraps err so IsTransient reports true for it.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &transientError{err: err}
}

// IsTransient reports whether err is retryable.
func IsTransient(err error) bool {
	var te *transientError
	return errors.As(err, &te)
}

// IsCancellation reports whether err stems from a caller-initiated abort,
// distinct from both transient and permanent backend failures.
func IsCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
