package translation

import "context"

// Translator is the outward-facing composition root: callers depend on it,
// not on which concrete provider/adapter combination backs it.
type Translator struct {
	adapter *Adapter
}

// NewTranslator takes ownership of provider through a new resilience adapter.
func NewTranslator(provider Provider, opts AdapterOptions) *Translator {
	return &Translator{adapter: NewAdapter(provider, opts)}
}

func (t *Translator) Translate(ctx context.Context, req Request) (*Response, error) {
	return t.adapter.Translate(ctx, req)
}

func (t *Translator) TranslateStream(ctx context.Context, req Request) (*Stream, error) {
	return t.adapter.TranslateStream(ctx, req)
}

func (t *Translator) ProviderName() string {
	return t.adapter.Name()
}

func (t *Translator) SupportedLanguages() []string {
	return t.adapter.SupportedLanguages()
}

// Close releases the underlying provider; safe to call more than once.
func (t *Translator) Close() error {
	return t.adapter.Close()
}
