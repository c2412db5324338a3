// Package config loads funcatalog settings from defaults, an optional YAML
// file, FUNCATALOG_ environment variables and command-line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/phobologic/funcatalog/internal/builtin"
	"github.com/phobologic/funcatalog/internal/lang"
)

const (
	// AppName names the config directory and the environment prefix.
	AppName = "funcatalog"
	// FileName is the config file name without extension.
	FileName = "funcatalog"
	// EnvPrefix prefixes environment overrides, e.g. FUNCATALOG_LOG_LEVEL.
	EnvPrefix = "FUNCATALOG"
)

// Config is the resolved configuration.
type Config struct {
	Modules     []string `mapstructure:"modules"`
	Roots       []string `mapstructure:"roots"`
	Languages   []string `mapstructure:"languages"`
	Locale      string   `mapstructure:"locale"`
	Bundles     string   `mapstructure:"bundles"`
	MaxFileSize int64    `mapstructure:"max_file_size"`
	Log         Log      `mapstructure:"log"`
	Scan        Scan     `mapstructure:"scan"`
	Watch       Watch    `mapstructure:"watch"`
}

// Log configures the logger.
type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // console or json
}

// Scan configures the usage scanner.
type Scan struct {
	CacheSize int `mapstructure:"cache_size"` // 0 disables memoisation
}

// Watch configures the source watcher.
type Watch struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Modules:     builtin.IDs(),
		Roots:       []string{},
		Languages:   []string{},
		Locale:      "en",
		MaxFileSize: 1 << 20,
		Log:         Log{Level: "info", Format: "console"},
		Scan:        Scan{CacheSize: 1024},
		Watch:       Watch{Debounce: 500 * time.Millisecond},
	}
}

// LoadOptions controls where Load looks for settings.
type LoadOptions struct {
	// File is an explicit config file. It must exist.
	File string
	// SearchPaths are the directories searched for funcatalog.yaml when File
	// is empty. nil means DefaultSearchPaths.
	SearchPaths []string
	// Flags, when set, override file and environment values for the flags
	// the user changed.
	Flags *pflag.FlagSet
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"module":     "modules",
	"root":       "roots",
	"lang":       "languages",
	"locale":     "locale",
	"bundles":    "bundles",
	"log-level":  "log.level",
	"log-format": "log.format",
	"cache-size": "scan.cache_size",
	"debounce":   "watch.debounce",
}

// DefaultSearchPaths returns the current directory followed by the user
// config directory ($XDG_CONFIG_HOME/funcatalog or ~/.config/funcatalog).
func DefaultSearchPaths() []string {
	paths := []string{"."}
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, ".config")
		}
	}
	if dir != "" {
		paths = append(paths, filepath.Join(dir, AppName))
	}
	return paths
}

// Load resolves the configuration. It returns the path of the config file
// that was read, or "" when only defaults and overrides applied.
func Load(opts LoadOptions) (*Config, string, error) {
	v := viper.New()

	defaults := Default()
	v.SetDefault("modules", defaults.Modules)
	v.SetDefault("roots", defaults.Roots)
	v.SetDefault("languages", defaults.Languages)
	v.SetDefault("locale", defaults.Locale)
	v.SetDefault("bundles", defaults.Bundles)
	v.SetDefault("max_file_size", defaults.MaxFileSize)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.format", defaults.Log.Format)
	v.SetDefault("scan.cache_size", defaults.Scan.CacheSize)
	v.SetDefault("watch.debounce", defaults.Watch.Debounce)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.Flags != nil {
		for name, key := range flagKeys {
			if f := opts.Flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, "", fmt.Errorf("binding flag --%s: %w", name, err)
				}
			}
		}
	}

	resolved := ""
	if opts.File != "" {
		if _, err := os.Stat(opts.File); err != nil {
			return nil, "", fmt.Errorf("config file: %w", err)
		}
		v.SetConfigFile(opts.File)
		if err := v.ReadInConfig(); err != nil {
			return nil, "", fmt.Errorf("reading %s: %w", opts.File, err)
		}
		resolved = opts.File
	} else {
		search := opts.SearchPaths
		if search == nil {
			search = DefaultSearchPaths()
		}
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		for _, p := range search {
			v.AddConfigPath(p)
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, "", fmt.Errorf("reading config: %w", err)
			}
		} else {
			resolved = v.ConfigFileUsed()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		if resolved != "" {
			return nil, "", fmt.Errorf("%s: %w", resolved, err)
		}
		return nil, "", err
	}
	return &cfg, resolved, nil
}

// Validate checks values that the decoder cannot.
func (c *Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log.format: unsupported format %q", c.Log.Format)
	}
	for _, name := range c.Languages {
		if _, ok := lang.Languages[name]; !ok {
			return fmt.Errorf("languages: unsupported language %q", name)
		}
	}
	if c.Scan.CacheSize < 0 {
		return fmt.Errorf("scan.cache_size: must not be negative, got %d", c.Scan.CacheSize)
	}
	if c.Watch.Debounce <= 0 {
		return fmt.Errorf("watch.debounce: must be positive, got %s", c.Watch.Debounce)
	}
	if c.MaxFileSize <= 0 {
		return fmt.Errorf("max_file_size: must be positive, got %d", c.MaxFileSize)
	}
	return nil
}
