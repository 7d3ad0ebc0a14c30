package jobfile

import (
	"encoding/json"
	"strings"
	"testing"
)

const validJobJSON = `{
  "version": "v1",
  "target_lang": "UK",
  "provider": "mock",
  "items": [
    {"id": "a1", "text": "Hello world", "source_lang": "en"},
    {"id": "a2", "text": "Guten Tag", "source_lang": "DE_de"}
  ]
}`

func TestValidateJob(t *testing.T) {
	t.Parallel()

	job, err := ValidateJob(json.RawMessage(validJobJSON))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if job.Version != "v1" {
		t.Errorf("version = %q, want v1", job.Version)
	}
	if job.TargetLang != "uk" {
		t.Errorf("target_lang = %q, want normalized %q", job.TargetLang, "uk")
	}
	if job.Provider != "mock" {
		t.Errorf("provider = %q, want mock", job.Provider)
	}
	if len(job.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(job.Items))
	}
	if job.Items[1].SourceLang != "de-de" {
		t.Errorf("source_lang = %q, want normalized %q", job.Items[1].SourceLang, "de-de")
	}
}

func TestValidateJobRejections(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		payload string
		wantErr string
	}{
		{
			name:    "not json",
			payload: `{"version": "v1"`,
			wantErr: "decode job JSON",
		},
		{
			name:    "trailing data",
			payload: validJobJSON + `{"extra": true}`,
			wantErr: "trailing data",
		},
		{
			name:    "wrong version",
			payload: `{"version": "v2", "target_lang": "uk", "items": [{"id": "a", "text": "x", "source_lang": "en"}]}`,
			wantErr: "schema validation failed",
		},
		{
			name:    "missing items",
			payload: `{"version": "v1", "target_lang": "uk"}`,
			wantErr: "schema validation failed",
		},
		{
			name:    "empty items",
			payload: `{"version": "v1", "target_lang": "uk", "items": []}`,
			wantErr: "schema validation failed",
		},
		{
			name:    "unknown field",
			payload: `{"version": "v1", "target_lang": "uk", "mode": "fast", "items": [{"id": "a", "text": "x", "source_lang": "en"}]}`,
			wantErr: "schema validation failed",
		},
		{
			name:    "bad source lang",
			payload: `{"version": "v1", "target_lang": "uk", "items": [{"id": "a", "text": "x", "source_lang": "e1"}]}`,
			wantErr: "schema validation failed",
		},
		{
			name:    "blank text",
			payload: `{"version": "v1", "target_lang": "uk", "items": [{"id": "a", "text": "   ", "source_lang": "en"}]}`,
			wantErr: "text must not be blank",
		},
		{
			name:    "duplicate ids",
			payload: `{"version": "v1", "target_lang": "uk", "items": [{"id": "a", "text": "x", "source_lang": "en"}, {"id": "a", "text": "y", "source_lang": "en"}]}`,
			wantErr: "duplicate item id",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := ValidateJob(json.RawMessage(tc.payload))
			if err == nil {
				t.Fatalf("expected a validation failure")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("failure %v does not mention %q", err, tc.wantErr)
			}
		})
	}
}
