package sources

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/Dateyes-glitch/sanctions-watch/internal/crawler"
	collyfetcher "github.com/Dateyes-glitch/sanctions-watch/internal/fetcher/colly"
	filefetcher "github.com/Dateyes-glitch/sanctions-watch/internal/fetcher/file"
)

type factory struct {
	build         func(crawler.Config, *zap.Logger) crawler.Source
	defaultConfig func() crawler.Config
}

var registry = map[string]factory{
	SourceEU:   {build: NewEU, defaultConfig: DefaultEUConfig},
	SourceOFAC: {build: NewOFAC, defaultConfig: DefaultOFACConfig},
	SourceUN:   {build: NewUN, defaultConfig: DefaultUNConfig},
	SourceUK:   {build: NewUK, defaultConfig: DefaultUKConfig},
}

// Names returns the registered source names in stable order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultConfig returns the stock configuration for a registered source.
func DefaultConfig(name string) (crawler.Config, error) {
	entry, ok := registry[name]
	if !ok {
		return crawler.Config{}, fmt.Errorf("unknown source %q", name)
	}
	return entry.defaultConfig(), nil
}

// New builds the parser for a registered source.
func New(name string, cfg crawler.Config, logger *zap.Logger) (crawler.Source, error) {
	entry, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown source %q", name)
	}
	return entry.build(cfg, logger), nil
}

// NewCrawler builds a ready-to-run crawler for a registered source.
// A configured mock file swaps the HTTP fetcher for a local one, which
// is how the end-to-end tests run without network access.
func NewCrawler(name string, cfg crawler.Config, logger *zap.Logger) (*crawler.Crawler, error) {
	source, err := New(name, cfg, logger)
	if err != nil {
		return nil, err
	}
	var fetcher crawler.Fetcher
	if mock := cfg.MockFile(); mock != "" {
		fetcher = filefetcher.New(mock)
	} else {
		fetcher = collyfetcher.New()
	}
	return crawler.New(source, cfg, fetcher, logger)
}
