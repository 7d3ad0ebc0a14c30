package translation

import (
	"fmt"
	"strings"

	"transbridge/internal/language"
)

// Request describes one translation unit. Values are created per call and
// never mutated afterwards.
type Request struct {
	Text       string
	SourceLang string // ISO 639-1 or BCP-47 tag (for example: "en", "zh-hans")
	TargetLang string
}

// Response carries translated text. Final marks the terminal value of a
// streaming sequence; one-shot calls always return Final == true.
type Response struct {
	Text  string
	Final bool
}

// NewRequest builds a validated request with normalized language tags.
func NewRequest(text, sourceLang, targetLang string) (Request, error) {
	req := Request{
		Text:       text,
		SourceLang: language.NormalizeTag(sourceLang),
		TargetLang: language.NormalizeTag(targetLang),
	}
	if err := req.Validate(); err != nil {
		return Request{}, err
	}
	return req, nil
}

// Validate reports whether the request is well-formed.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return fmt.Errorf("%w: text is required", ErrInvalidRequest)
	}
	if language.NormalizeTag(r.SourceLang) == "" {
		return fmt.Errorf("%w: source language is required", ErrInvalidRequest)
	}
	if language.NormalizeTag(r.TargetLang) == "" {
		return fmt.Errorf("%w: target language is required", ErrInvalidRequest)
	}
	return nil
}
