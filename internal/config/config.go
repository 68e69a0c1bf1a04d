package config

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"marknav/internal/tree"
)

type Config struct {
	MarkupLanguages     []string `json:"markup_languages"`
	StylesheetLanguages []string `json:"stylesheet_languages"`
	ParserPoolSize      int      `json:"parser_pool_size"`
	SchedulerQueueSize  int      `json:"scheduler_queue_size"`
}

var defaultConfig = Config{
	MarkupLanguages: []string{
		"html", "xml", "xsl", "jade", "slim", "haml",
		"javascriptreact", "typescriptreact", "vue",
	},
	StylesheetLanguages: []string{"css", "scss", "sass", "less", "stylus"},
	ParserPoolSize:      2,
	SchedulerQueueSize:  16,
}

// Default returns the built-in configuration.
func Default() Config {
	cfg := defaultConfig
	cfg.MarkupLanguages = slices.Clone(defaultConfig.MarkupLanguages)
	cfg.StylesheetLanguages = slices.Clone(defaultConfig.StylesheetLanguages)
	return cfg
}

// Merge overlays the fields present in v onto c. v is anything that
// marshals to a JSON object, typically LSP initialization options.
func (c Config) Merge(v any) (Config, error) {
	cfg := c
	cfg.MarkupLanguages = slices.Clone(c.MarkupLanguages)
	cfg.StylesheetLanguages = slices.Clone(c.StylesheetLanguages)
	if v == nil {
		return cfg, nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return Config{}, fmt.Errorf("failed to marshal source: %w", err)
	}

	// only fields present in src will overwrite.
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal into Config: %w", err)
	}

	return cfg, nil
}

// LoadFromJSON reads JSON from r into a Config.
func LoadFromJSON(r io.Reader) (Config, error) {
	cfg := Default()

	decoder := json.NewDecoder(r)
	if err := decoder.Decode(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Syntax classifies a language id. ok is false for languages in neither
// list; structural commands leave such documents alone.
func (c Config) Syntax(languageID string) (syntax tree.Syntax, ok bool) {
	switch {
	case slices.Contains(c.StylesheetLanguages, languageID):
		return tree.Stylesheet, true
	case c.IsMarkup(languageID):
		return tree.Markup, true
	default:
		return tree.Markup, false
	}
}

// IsMarkup reports whether languageID is one of the configured markup languages.
func (c Config) IsMarkup(languageID string) bool {
	return slices.Contains(c.MarkupLanguages, languageID)
}
