// Package config loads process-start settings: the fallback negotiation
// configuration, logger options and extra registry entries.
package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/illuscio-dev/mimerender-go/mimetype"
	"github.com/illuscio-dev/mimerender-go/render"
	"github.com/spf13/viper"
	"golang.org/x/xerrors"
)

// EnvPrefix prefixes every environment override, e.g. MIMERENDER_LOG_LEVEL=debug.
const EnvPrefix = "MIMERENDER"

// Settings is the root configuration.
type Settings struct {
	// Addr the example server listens on.
	Addr string `mapstructure:"addr"`

	// Negotiation is the fallback for every negotiator built by the process.
	Negotiation render.Config `mapstructure:"negotiation"`

	// Log holds logging configuration.
	Log LogConfig `mapstructure:"log"`

	// MimeTypes maps extra short names to their MIME types, canonical type first.
	MimeTypes map[string][]string `mapstructure:"mimetypes"`
}

// LogConfig defines logger settings.
type LogConfig struct {
	// Level: debug, info, warn, error
	Level string `mapstructure:"level"`
	// Format: console or json
	Format string `mapstructure:"format"`
	// Outputs: stdout, stderr, or file paths
	Outputs []string `mapstructure:"outputs"`

	Rotation    RotationConfig `mapstructure:"rotation"`
	Development bool           `mapstructure:"development"`
}

// RotationConfig controls log file rotation for file outputs.
type RotationConfig struct {
	Enable     bool   `mapstructure:"enable"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// Default returns Settings populated with defaults.
func Default() *Settings {
	return &Settings{
		Addr: ":8080",
		Negotiation: render.Config{
			Default: mimetype.ShortHTML,
		},
		Log: LogConfig{
			Level:   "info",
			Format:  "console",
			Outputs: []string{"stdout"},
			Rotation: RotationConfig{
				Filename:   "logs/mimerender.log",
				MaxSizeMB:  50,
				MaxBackups: 3,
				MaxAgeDays: 28,
				Compress:   true,
			},
		},
		MimeTypes: map[string][]string{},
	}
}

// Load reads settings from path when it is non-empty, otherwise from
// MIMERENDER_CONFIG or a mimerender.yaml in the usual places. A missing file in the
// usual places is not an error. Environment variables override the file, with "."
// replaced by "_": MIMERENDER_NEGOTIATION_DEFAULT=json.
func Load(path string) (*Settings, error) {
	settings := Default()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// Env only reaches keys viper knows about.
	v.SetDefault("addr", settings.Addr)
	v.SetDefault("negotiation.default", settings.Negotiation.Default)
	v.SetDefault("negotiation.override_input_key", settings.Negotiation.OverrideInputKey)
	v.SetDefault("negotiation.charset", settings.Negotiation.Charset)
	_ = v.BindEnv("negotiation.override_arg_index")
	v.SetDefault("log.level", settings.Log.Level)
	v.SetDefault("log.format", settings.Log.Format)
	v.SetDefault("log.outputs", settings.Log.Outputs)
	v.SetDefault("log.development", settings.Log.Development)
	v.SetDefault("log.rotation.enable", settings.Log.Rotation.Enable)
	v.SetDefault("log.rotation.filename", settings.Log.Rotation.Filename)
	v.SetDefault("log.rotation.max_size_mb", settings.Log.Rotation.MaxSizeMB)
	v.SetDefault("log.rotation.max_backups", settings.Log.Rotation.MaxBackups)
	v.SetDefault("log.rotation.max_age_days", settings.Log.Rotation.MaxAgeDays)
	v.SetDefault("log.rotation.compress", settings.Log.Rotation.Compress)

	if path == "" {
		path = os.Getenv(EnvPrefix + "_CONFIG")
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("mimerender")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".mimerender"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !xerrors.As(err, &notFound) {
			return nil, xerrors.Errorf("read config: %w", err)
		}
	}

	if err := v.Unmarshal(settings); err != nil {
		return nil, xerrors.Errorf("decode config: %w", err)
	}

	if err := settings.validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

func (settings *Settings) validate() error {
	switch strings.ToLower(strings.TrimSpace(settings.Log.Level)) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return xerrors.Errorf("invalid log.level: %q", settings.Log.Level)
	}

	if settings.Log.Format == "" {
		settings.Log.Format = "console"
	}
	if len(settings.Log.Outputs) == 0 {
		settings.Log.Outputs = []string{"stdout"}
	}

	for shortName, mimeTypes := range settings.MimeTypes {
		if len(mimeTypes) == 0 {
			return xerrors.Errorf("mimetypes.%v: no mime types listed", shortName)
		}
	}
	return nil
}

// RegisterMimeTypes adds the configured short names to registry in sorted order.
// The first failed registration is returned and the rest are skipped.
func (settings *Settings) RegisterMimeTypes(registry *mimetype.Registry) error {
	shortNames := make([]string, 0, len(settings.MimeTypes))
	for shortName := range settings.MimeTypes {
		shortNames = append(shortNames, shortName)
	}
	sort.Strings(shortNames)

	for _, shortName := range shortNames {
		listed := settings.MimeTypes[shortName]
		mimeTypes := make([]mimetype.MimeType, len(listed))
		for i, value := range listed {
			mimeTypes[i] = mimetype.MimeType(value)
		}

		if err := registry.Register(shortName, mimeTypes...); err != nil {
			return xerrors.Errorf("mimetypes.%v: %w", shortName, err)
		}
	}
	return nil
}

// MustLoad is Load that panics on error.
func MustLoad(path string) *Settings {
	settings, err := Load(path)
	if err != nil {
		panic(err)
	}
	return settings
}
