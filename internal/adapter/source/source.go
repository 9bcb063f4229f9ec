package source

import (
	"fmt"
	"log/slog"

	"github.com/mmcdole/holocron/internal/adapter"
	"github.com/mmcdole/holocron/internal/adapter/source/swapi"
	"github.com/mmcdole/holocron/internal/domain"
)

// NewClient creates the film source described by cfg.
// observer may be nil.
func NewClient(cfg *adapter.SourceConfig, observer swapi.Observer, logger *slog.Logger) (domain.FilmSource, error) {
	if cfg == nil {
		return nil, fmt.Errorf("source config is nil")
	}
	client, err := swapi.NewClient(cfg.BaseURL, swapi.Options{
		Timeout:   cfg.Timeout,
		Retries:   cfg.Retries,
		RateLimit: cfg.RateLimit,
		Burst:     cfg.Burst,
		Observer:  observer,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create film source: %w", err)
	}
	return client, nil
}

// NewClientFromConfig creates a film source from the application config
func NewClientFromConfig(cfg *adapter.Config, observer swapi.Observer, logger *slog.Logger) (domain.FilmSource, error) {
	return NewClient(&cfg.Source, observer, logger)
}
