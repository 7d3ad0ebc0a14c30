package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"transbridge/internal/auth"
	"transbridge/internal/logging"
	"transbridge/internal/translation"
)

func newTestServer(t *testing.T, opts Options) http.Handler {
	t.Helper()

	provider := translation.NewMockProvider(0)
	registry := translation.NewRegistry("mock")
	if err := registry.Register(provider); err != nil {
		t.Fatalf("register provider: %v", err)
	}
	translator := translation.NewTranslator(provider, translation.AdapterOptions{})
	t.Cleanup(func() { _ = translator.Close() })

	server := NewServer(translator, registry, logging.Nop(), opts)
	return server.buildEcho()
}

func decodeJSend(t *testing.T, body string) jsendResponse {
	t.Helper()
	var resp jsendResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("decode jsend body %q: %v", body, err)
	}
	return resp
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()

	handler := newTestServer(t, Options{})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	resp := decodeJSend(t, rec.Body.String())
	if resp.Status != "success" {
		t.Fatalf("jsend status = %q, want success", resp.Status)
	}
}

func TestTranslateEndpoint(t *testing.T) {
	t.Parallel()

	handler := newTestServer(t, Options{})

	body := `{"text": "Hello world", "source_lang": "en", "target_lang": "uk"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/translate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}
	resp := decodeJSend(t, rec.Body.String())
	if resp.Status != "success" {
		t.Fatalf("jsend status = %q, want success", resp.Status)
	}

	data, ok := resp.Data.(map[string]any)
	if !ok {
		t.Fatalf("unexpected data payload: %#v", resp.Data)
	}
	if got := data["translated_text"]; got != "[uk] Hello world" {
		t.Errorf("translated_text = %q, want %q", got, "[uk] Hello world")
	}
	if got := data["provider"]; got != "mock" {
		t.Errorf("provider = %q, want mock", got)
	}
}

func TestTranslateValidation(t *testing.T) {
	t.Parallel()

	handler := newTestServer(t, Options{})

	body := `{"text": "", "source_lang": "en", "target_lang": "uk"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/translate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	resp := decodeJSend(t, rec.Body.String())
	if resp.Status != "fail" {
		t.Fatalf("jsend status = %q, want fail", resp.Status)
	}
}

func TestTranslateStreamEndpoint(t *testing.T) {
	t.Parallel()

	handler := newTestServer(t, Options{})

	body := `{"text": "Hello world", "source_lang": "en", "target_lang": "uk"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/translate/stream", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != "text/event-stream" {
		t.Fatalf("content type = %q, want text/event-stream", got)
	}

	var chunks []streamChunk
	for _, line := range strings.Split(rec.Body.String(), "\n") {
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var chunk streamChunk
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &chunk); err != nil {
			t.Fatalf("decode SSE chunk %q: %v", line, err)
		}
		chunks = append(chunks, chunk)
	}

	if len(chunks) != 2 {
		t.Fatalf("chunks = %d, want 2 (%+v)", len(chunks), chunks)
	}
	if chunks[0].Text != "[uk] Hello" || chunks[0].Final {
		t.Errorf("unexpected first chunk: %+v", chunks[0])
	}
	if chunks[1].Text != "[uk] Hello world" || !chunks[1].Final {
		t.Errorf("unexpected final chunk: %+v", chunks[1])
	}
}

func TestBearerAuth(t *testing.T) {
	t.Parallel()

	hash, err := auth.HashToken("sesame")
	if err != nil {
		t.Fatalf("hash token: %v", err)
	}
	handler := newTestServer(t, Options{APITokenHash: hash})

	send := func(authorization string) *httptest.ResponseRecorder {
		body := `{"text": "hi", "source_lang": "en", "target_lang": "de"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/translate", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		if authorization != "" {
			req.Header.Set("Authorization", authorization)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	if rec := send(""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing token: status = %d, want 401", rec.Code)
	}
	if rec := send("Bearer wrong"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong token: status = %d, want 401", rec.Code)
	}
	if rec := send("Bearer sesame"); rec.Code != http.StatusOK {
		t.Fatalf("valid token: status = %d, want 200 (body: %s)", rec.Code, rec.Body.String())
	}

	// Health stays open for probes.
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("health with auth enabled: status = %d, want 200", rec.Code)
	}
}

func TestBearerTokenParsing(t *testing.T) {
	t.Parallel()

	cases := []struct {
		header string
		want   string
	}{
		{"Bearer abc", "abc"},
		{"bearer abc", "abc"},
		{"  Bearer   abc  ", "abc"},
		{"Basic abc", ""},
		{"Bearer", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := bearerToken(tc.header); got != tc.want {
			t.Errorf("bearerToken(%q) = %q, want %q", tc.header, got, tc.want)
		}
	}
}
