package translation

import (
	"context"
	"fmt"
	"sync"
	"time"
)

const (
	// DefaultMaxAttempts bounds one-shot retries, counting the first attempt.
	DefaultMaxAttempts = 3
	// DefaultBaseDelay is the backoff before the first retry; it doubles
	// after each retried transient failure.
	DefaultBaseDelay = 200 * time.Millisecond
)

// AdapterOptions tunes retry behavior. Zero values fall back to the defaults.
type AdapterOptions struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// Adapter wraps one exclusively-owned Provider and recovers from transient
// one-shot failures with bounded exponential backoff. Streaming calls pass
// through untouched: a partially-delivered stream cannot be replayed without
// duplicating or re-ordering chunks the caller already consumed.
type Adapter struct {
	provider    Provider
	maxAttempts int
	baseDelay   time.Duration

	closeOnce sync.Once
	closeErr  error
}

// NewAdapter takes ownership of provider; releasing the adapter releases the
// provider exactly once.
func NewAdapter(provider Provider, opts AdapterOptions) *Adapter {
	maxAttempts := opts.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	baseDelay := opts.BaseDelay
	if baseDelay <= 0 {
		baseDelay = DefaultBaseDelay
	}
	return &Adapter{
		provider:    provider,
		maxAttempts: maxAttempts,
		baseDelay:   baseDelay,
	}
}

func (a *Adapter) Name() string {
	return a.provider.Name()
}

func (a *Adapter) SupportedLanguages() []string {
	return a.provider.SupportedLanguages()
}

// Translate retries transient failures up to the attempt bound. Validation
// errors, permanent failures and cancellation propagate immediately; a
// cancellation during backoff aborts the whole operation with the ctx error.
func (a *Adapter) Translate(ctx context.Context, req Request) (*Response, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	delay := a.baseDelay
	var lastErr error
	for attempt := 1; attempt <= a.maxAttempts; attempt++ {
		resp, err := a.provider.Translate(ctx, req)
		if err == nil {
			return resp, nil
		}
		if IsCancellation(err) || !IsTransient(err) {
			return nil, err
		}

		lastErr = err
		if attempt == a.maxAttempts {
			break
		}
		if sleepErr := sleepContext(ctx, delay); sleepErr != nil {
			return nil, sleepErr
		}
		delay *= 2
	}
	return nil, fmt.Errorf("translate failed after %d attempts: %w", a.maxAttempts, lastErr)
}

// TranslateStream forwards the provider's stream unchanged; no retry.
func (a *Adapter) TranslateStream(ctx context.Context, req Request) (*Stream, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return a.provider.TranslateStream(ctx, req)
}

// Close releases the wrapped provider exactly once; repeated calls return
// the first result.
func (a *Adapter) Close() error {
	a.closeOnce.Do(func() {
		a.closeErr = a.provider.Close()
	})
	return a.closeErr
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
