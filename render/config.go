package render

import (
	"github.com/illuscio-dev/mimerender-go/encoding"
	"go.uber.org/zap"
)

/*
Config holds the per-negotiator settings.

Every field is optional on its own. Fields left unset can be filled from a shared
startup configuration with WithFallback, which replaces process-wide defaults: build
one Config when the process starts and hand it to every negotiator.

Default is required once fallbacks are applied, as soon as any renderer is declared.
*/
type Config struct {
	// Short name used when neither an override nor the Accept header picks a type.
	Default string `mapstructure:"default"`

	// Position of the handler argument holding an override short name. Negative
	// values count from the end, so -1 is the last argument. nil disables it.
	OverrideArgIndex *int `mapstructure:"override_arg_index"`

	// Query / form field holding an override short name, e.g. "format" for
	// "?format=xml". Empty disables it.
	OverrideInputKey string `mapstructure:"override_input_key"`

	// Character set appended to the response Content-Type. Empty leaves it off.
	Charset string `mapstructure:"charset"`

	// Engine used to encode renderer output that is not already a body. A default
	// engine is created when nil.
	Engine encoding.ContentEngine `mapstructure:"-"`

	// Logger for negotiation decisions. Defaults to a no-op logger.
	Logger *zap.Logger `mapstructure:"-"`
}

// ArgIndex returns a pointer to index, for Config.OverrideArgIndex.
func ArgIndex(index int) *int {
	return &index
}

// WithFallback returns a copy of config where each unset field is taken from
// fallback. Either side may be nil.
func (config *Config) WithFallback(fallback *Config) *Config {
	merged := &Config{}
	if config != nil {
		*merged = *config
	}
	if fallback == nil {
		return merged
	}

	if merged.Default == "" {
		merged.Default = fallback.Default
	}
	if merged.OverrideArgIndex == nil && fallback.OverrideArgIndex != nil {
		merged.OverrideArgIndex = ArgIndex(*fallback.OverrideArgIndex)
	}
	if merged.OverrideInputKey == "" {
		merged.OverrideInputKey = fallback.OverrideInputKey
	}
	if merged.Charset == "" {
		merged.Charset = fallback.Charset
	}
	if merged.Engine == nil {
		merged.Engine = fallback.Engine
	}
	if merged.Logger == nil {
		merged.Logger = fallback.Logger
	}

	return merged
}
