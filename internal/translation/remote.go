package translation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"transbridge/internal/language"
)

const (
	// DefaultRemoteEndpoint points to a local LibreTranslate-compatible server.
	DefaultRemoteEndpoint = "http://127.0.0.1:5000"

	remoteRequestTimeout = 120 * time.Second
)

// RemoteProvider translates text by calling an HTTP translation endpoint
// with a LibreTranslate-shaped JSON payload. It has no native streaming
// mode and does not simulate one.
type RemoteProvider struct {
	endpointURL string
	apiKey      string
	client      *http.Client
	closed      atomic.Bool
}

// NewRemoteProvider builds a remote provider for the given endpoint. An
// empty endpoint falls back to DefaultRemoteEndpoint.
func NewRemoteProvider(endpoint, apiKey string) *RemoteProvider {
	return &RemoteProvider{
		endpointURL: translateURL(normalizeEndpoint(endpoint)),
		apiKey:      apiKey,
		client: &http.Client{
			Timeout: remoteRequestTimeout,
		},
	}
}

func (p *RemoteProvider) Name() string {
	return "remote"
}

func (p *RemoteProvider) SupportedLanguages() []string {
	return SupportedLanguageCodes()
}

func (p *RemoteProvider) Translate(ctx context.Context, req Request) (*Response, error) {
	if p.closed.Load() {
		return nil, ErrProviderClosed
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	body, err := json.Marshal(remoteTranslateRequest{
		Q:      req.Text,
		Source: language.NormalizeCode(req.SourceLang),
		Target: language.NormalizeCode(req.TargetLang),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal translation request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpointURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build translation request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.client.Do(httpReq)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, Transient(fmt.Errorf("send translation request: %w", err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, Transient(fmt.Errorf("read translation response: %w", err))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := remoteStatusError(resp.StatusCode, respBody)
		if isRetryableStatus(resp.StatusCode) {
			return nil, Transient(statusErr)
		}
		return nil, statusErr
	}

	var parsed remoteTranslateResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("decode translation response: %w", err)
	}
	translated := strings.TrimSpace(parsed.TranslatedText)
	if translated == "" {
		return nil, fmt.Errorf("translation response was empty")
	}

	return &Response{Text: translated, Final: true}, nil
}

// TranslateStream always fails: the wire protocol delivers whole-text
// replies only, and faking chunked delivery is out of contract.
func (p *RemoteProvider) TranslateStream(_ context.Context, req Request) (*Stream, error) {
	if p.closed.Load() {
		return nil, ErrProviderClosed
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("%w: %s", ErrStreamingUnsupported, p.Name())
}

// Close is idempotent; further calls fail with ErrProviderClosed.
func (p *RemoteProvider) Close() error {
	if p.closed.CompareAndSwap(false, true) {
		p.client.CloseIdleConnections()
	}
	return nil
}

type remoteTranslateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
}

type remoteTranslateResponse struct {
	TranslatedText string `json:"translatedText"`
}

type remoteErrorResponse struct {
	Error string `json:"error"`
}

func remoteStatusError(status int, body []byte) error {
	var payload remoteErrorResponse
	if err := json.Unmarshal(body, &payload); err == nil {
		if msg := strings.TrimSpace(payload.Error); msg != "" {
			return fmt.Errorf("translation endpoint status %d: %s", status, msg)
		}
	}
	return fmt.Errorf("translation endpoint status %d: %s", status, strings.TrimSpace(string(body)))
}

func isRetryableStatus(status int) bool {
	switch status {
	case http.StatusRequestTimeout, http.StatusTooManyRequests:
		return true
	}
	return status >= 500
}

func normalizeEndpoint(raw string) string {
	endpoint := strings.TrimSpace(raw)
	if endpoint == "" {
		return DefaultRemoteEndpoint
	}
	if !strings.Contains(endpoint, "://") {
		endpoint = "http://" + endpoint
	}

	parsed, err := url.Parse(endpoint)
	if err != nil || strings.TrimSpace(parsed.Host) == "" {
		return DefaultRemoteEndpoint
	}
	parsed.Path = strings.TrimRight(parsed.Path, "/")
	return parsed.String()
}

func translateURL(endpoint string) string {
	parsed, err := url.Parse(endpoint)
	if err != nil || strings.TrimSpace(parsed.Host) == "" {
		return DefaultRemoteEndpoint + "/translate"
	}
	path := strings.TrimRight(parsed.Path, "/")
	if !strings.HasSuffix(path, "/translate") {
		path += "/translate"
	}
	parsed.Path = path
	return parsed.String()
}
