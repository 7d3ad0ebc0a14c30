package translation

import "context"

// Provider translates free-form text between languages. Implementations must
// be safe for concurrent use and must honor ctx cancellation at every
// suspension point.
//
// A provider owns backend resources with its own lifecycle: Close releases
// them exactly once, further calls fail with ErrProviderClosed.
type Provider interface {
	// Translate performs a whole-text translation. The returned response
	// always has Final == true.
	Translate(ctx context.Context, req Request) (*Response, error)

	// TranslateStream produces a finite, non-restartable sequence of growing
	// prefix translations terminated by exactly one Final response. Providers
	// without a native streaming mode fail with ErrStreamingUnsupported
	// rather than simulating it.
	TranslateStream(ctx context.Context, req Request) (*Stream, error)

	Name() string
	SupportedLanguages() []string
	Close() error
}
