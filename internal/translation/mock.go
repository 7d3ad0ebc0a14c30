package translation

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"
	"unicode"

	"transbridge/internal/language"
)

// DefaultMockChunkDelay paces streamed chunks to simulate backend latency.
const DefaultMockChunkDelay = 150 * time.Millisecond

// MockProvider translates in-memory by tagging text with the target language.
// It exists as the offline stand-in for a real backend and is the only
// bundled provider with a native streaming mode.
type MockProvider struct {
	chunkDelay time.Duration
	closed     atomic.Bool
}

// NewMockProvider builds a mock provider. A non-positive chunkDelay disables
// the simulated inter-chunk latency.
func NewMockProvider(chunkDelay time.Duration) *MockProvider {
	return &MockProvider{chunkDelay: chunkDelay}
}

func (p *MockProvider) Name() string {
	return "mock"
}

func (p *MockProvider) SupportedLanguages() []string {
	return SupportedLanguageCodes()
}

func (p *MockProvider) Translate(ctx context.Context, req Request) (*Response, error) {
	if p.closed.Load() {
		return nil, ErrProviderClosed
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.chunkDelay > 0 {
		if err := sleepContext(ctx, p.chunkDelay); err != nil {
			return nil, err
		}
	}
	return &Response{
		Text:  mockTranslate(req.TargetLang, req.Text),
		Final: true,
	}, nil
}

func (p *MockProvider) TranslateStream(ctx context.Context, req Request) (*Stream, error) {
	if p.closed.Load() {
		return nil, ErrProviderClosed
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	text := req.Text
	target := language.NormalizeTag(req.TargetLang)
	ends := tokenEnds(text)
	delay := p.chunkDelay

	return newStream(ctx, func(ctx context.Context, s *Stream) {
		for i, end := range ends {
			if i > 0 && delay > 0 {
				if err := sleepContext(ctx, delay); err != nil {
					s.fail(err)
					return
				}
			}
			resp := Response{
				Text:  mockTranslate(target, text[:end]),
				Final: i == len(ends)-1,
			}
			if !s.emit(ctx, resp) {
				return
			}
		}
	}), nil
}

// Close is idempotent; further calls fail with ErrProviderClosed.
func (p *MockProvider) Close() error {
	p.closed.Store(true)
	return nil
}

func mockTranslate(targetLang, text string) string {
	return fmt.Sprintf("[%s] %s", targetLang, strings.TrimSpace(text))
}

// tokenEnds returns the byte offset just past each whitespace-delimited
// token, so text[:ends[i]] is the prefix covering the first i+1 tokens with
// original separators intact.
func tokenEnds(text string) []int {
	ends := make([]int, 0, 8)
	inToken := false
	for i, r := range text {
		if unicode.IsSpace(r) {
			if inToken {
				ends = append(ends, i)
			}
			inToken = false
			continue
		}
		inToken = true
	}
	if inToken {
		ends = append(ends, len(text))
	}
	return ends
}
