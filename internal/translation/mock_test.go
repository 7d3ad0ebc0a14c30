package translation

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"
)

func mustRequest(t *testing.T, text, source, target string) Request {
	t.Helper()
	req, err := NewRequest(text, source, target)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	return req
}

func collectStream(t *testing.T, stream *Stream) []Response {
	t.Helper()
	var chunks []Response
	for {
		resp, err := stream.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return chunks
			}
			t.Fatalf("recv: %v", err)
		}
		chunks = append(chunks, *resp)
	}
}

func TestMockTranslate_ReturnsFinalResponse(t *testing.T) {
	t.Parallel()

	provider := NewMockProvider(0)
	resp, err := provider.Translate(context.Background(), mustRequest(t, "Hello world", "en", "uk"))
	if err != nil {
		t.Fatalf("translate: %v", err)
	}
	if !resp.Final {
		t.Fatalf("expected one-shot response to be final")
	}
	if resp.Text != "[uk] Hello world" {
		t.Fatalf("unexpected translation: %q", resp.Text)
	}
}

func TestMockTranslate_RejectsInvalidRequest(t *testing.T) {
	t.Parallel()

	provider := NewMockProvider(0)
	if _, err := provider.Translate(context.Background(), Request{Text: "   ", SourceLang: "en", TargetLang: "uk"}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest for blank text, got %v", err)
	}
	if _, err := provider.Translate(context.Background(), Request{Text: "hi", SourceLang: "en"}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest for missing target, got %v", err)
	}
}

func TestMockStream_EmitsOneChunkPerToken(t *testing.T) {
	t.Parallel()

	provider := NewMockProvider(0)
	text := "one two  three\tfour"
	stream, err := provider.TranslateStream(context.Background(), mustRequest(t, text, "en", "de"))
	if err != nil {
		t.Fatalf("translate stream: %v", err)
	}
	defer stream.Close()

	chunks := collectStream(t, stream)
	if len(chunks) != 4 {
		t.Fatalf("expected 4 chunks for 4 tokens, got %d", len(chunks))
	}

	full := chunks[len(chunks)-1].Text
	for i, chunk := range chunks {
		wantFinal := i == len(chunks)-1
		if chunk.Final != wantFinal {
			t.Fatalf("chunk %d: final=%t, want %t", i, chunk.Final, wantFinal)
		}
		if !strings.HasPrefix(full, chunk.Text) {
			t.Fatalf("chunk %d text %q is not a prefix of %q", i, chunk.Text, full)
		}
		if i > 0 && len(chunk.Text) <= len(chunks[i-1].Text) {
			t.Fatalf("chunk %d did not grow: %q -> %q", i, chunks[i-1].Text, chunk.Text)
		}
	}

	// Interior separators survive prefix reassembly.
	if full != "[de] one two  three\tfour" {
		t.Fatalf("unexpected final chunk: %q", full)
	}
}

func TestMockStream_HelloWorldEndToEnd(t *testing.T) {
	t.Parallel()

	provider := NewMockProvider(0)
	stream, err := provider.TranslateStream(context.Background(), mustRequest(t, "Hello world", "en", "uk"))
	if err != nil {
		t.Fatalf("translate stream: %v", err)
	}
	defer stream.Close()

	chunks := collectStream(t, stream)
	want := []Response{
		{Text: "[uk] Hello", Final: false},
		{Text: "[uk] Hello world", Final: true},
	}
	if len(chunks) != len(want) {
		t.Fatalf("expected %d chunks, got %d: %+v", len(want), len(chunks), chunks)
	}
	for i := range want {
		if chunks[i] != want[i] {
			t.Fatalf("chunk %d: got %+v, want %+v", i, chunks[i], want[i])
		}
	}
}

func TestMockStream_CloseStopsDeliveries(t *testing.T) {
	t.Parallel()

	provider := NewMockProvider(10 * time.Millisecond)
	stream, err := provider.TranslateStream(context.Background(), mustRequest(t, "a b c d e", "en", "fr"))
	if err != nil {
		t.Fatalf("translate stream: %v", err)
	}

	first, err := stream.Recv()
	if err != nil {
		t.Fatalf("recv first chunk: %v", err)
	}
	if first.Final {
		t.Fatalf("did not expect first of five chunks to be final")
	}

	if err := stream.Close(); err != nil {
		t.Fatalf("close stream: %v", err)
	}
	if err := stream.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}

	for {
		resp, err := stream.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) || IsCancellation(err) {
				break
			}
			t.Fatalf("unexpected recv error after close: %v", err)
		}
		if resp.Final {
			t.Fatalf("observed a final chunk after cancellation: %+v", resp)
		}
	}
}

func TestMockStream_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	provider := NewMockProvider(20 * time.Millisecond)
	stream, err := provider.TranslateStream(ctx, mustRequest(t, "alpha beta gamma", "en", "es"))
	if err != nil {
		t.Fatalf("translate stream: %v", err)
	}
	defer stream.Close()

	if _, err := stream.Recv(); err != nil {
		t.Fatalf("recv first chunk: %v", err)
	}
	cancel()

	sawCancellation := false
	for {
		resp, err := stream.Recv()
		if err != nil {
			if IsCancellation(err) {
				sawCancellation = true
			} else if !errors.Is(err, io.EOF) {
				t.Fatalf("unexpected recv error: %v", err)
			}
			break
		}
		if resp.Final {
			t.Fatalf("observed a final chunk after cancellation: %+v", resp)
		}
	}
	if !sawCancellation {
		t.Fatalf("expected Recv to surface the cancellation")
	}
}

func TestMockStream_ExhaustedStreamStaysExhausted(t *testing.T) {
	t.Parallel()

	provider := NewMockProvider(0)
	stream, err := provider.TranslateStream(context.Background(), mustRequest(t, "solo", "en", "it"))
	if err != nil {
		t.Fatalf("translate stream: %v", err)
	}

	chunks := collectStream(t, stream)
	if len(chunks) != 1 || !chunks[0].Final {
		t.Fatalf("unexpected chunks: %+v", chunks)
	}

	// A second iteration does not restart the sequence.
	for i := 0; i < 3; i++ {
		if _, err := stream.Recv(); !errors.Is(err, io.EOF) {
			t.Fatalf("expected io.EOF on recv after exhaustion, got %v", err)
		}
	}
}

func TestMockProvider_UseAfterClose(t *testing.T) {
	t.Parallel()

	provider := NewMockProvider(0)
	if err := provider.Close(); err != nil {
		t.Fatalf("close provider: %v", err)
	}
	if err := provider.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}

	req := mustRequest(t, "hi", "en", "de")
	if _, err := provider.Translate(context.Background(), req); !errors.Is(err, ErrProviderClosed) {
		t.Fatalf("expected ErrProviderClosed from Translate, got %v", err)
	}
	if _, err := provider.TranslateStream(context.Background(), req); !errors.Is(err, ErrProviderClosed) {
		t.Fatalf("expected ErrProviderClosed from TranslateStream, got %v", err)
	}
}

func TestTokenEnds(t *testing.T) {
	t.Parallel()

	if got := tokenEnds(""); len(got) != 0 {
		t.Fatalf("expected no tokens in empty string, got %v", got)
	}
	if got := tokenEnds("  "); len(got) != 0 {
		t.Fatalf("expected no tokens in blank string, got %v", got)
	}

	text := " lead mid\ttail "
	ends := tokenEnds(text)
	if len(ends) != 3 {
		t.Fatalf("expected 3 tokens, got %v", ends)
	}
	if text[:ends[0]] != " lead" || text[:ends[1]] != " lead mid" || text[:ends[2]] != " lead mid\ttail" {
		t.Fatalf("unexpected prefixes from %v", ends)
	}
}
