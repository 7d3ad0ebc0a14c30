package app

import (
	"fmt"
	"os"
	"strings"

	"transbridge/internal/cli"
	"transbridge/internal/config"
	"transbridge/internal/translation"
)

// buildRegistry loads configuration and registers every bundled provider.
func buildRegistry(envLoader *cli.EnvLoader) (*translation.Registry, *config.Config, error) {
	if envLoader != nil {
		if _, err := envLoader.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	registry := translation.NewRegistry(cfg.TranslationProvider)
	if err := registry.Register(translation.NewMockProvider(cfg.MockChunkDelay())); err != nil {
		return nil, nil, err
	}
	if err := registry.Register(translation.NewRemoteProvider(cfg.TranslationEndpoint, cfg.TranslationAPIKey)); err != nil {
		return nil, nil, err
	}

	return registry, cfg, nil
}

// buildTranslator resolves a provider (flag override wins over config) and
// wraps it in the resilience facade.
func buildTranslator(envLoader *cli.EnvLoader, providerOverride string) (*translation.Translator, *translation.Registry, *config.Config, error) {
	registry, cfg, err := buildRegistry(envLoader)
	if err != nil {
		return nil, nil, nil, err
	}

	provider, err := registry.Provider(strings.TrimSpace(providerOverride))
	if err != nil {
		return nil, nil, nil, err
	}

	translator := translation.NewTranslator(provider, translation.AdapterOptions{
		MaxAttempts: cfg.RetryMaxAttempts,
		BaseDelay:   cfg.RetryBaseDelay(),
	})
	return translator, registry, cfg, nil
}
