package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/tabnotation/notation/model"
)

// Config holds application configuration.
type Config struct {
	Document DocumentConfig `mapstructure:"document"`
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
}

// DocumentConfig tells which tab document to load and how to assemble it.
type DocumentConfig struct {
	Path         string `mapstructure:"path"`
	ReadySection bool   `mapstructure:"ready_section"`
	// RangeBegin and RangeEnd limit the tab to a range of bars; a negative
	// value means no limit.
	RangeBegin int `mapstructure:"range_begin"`
	RangeEnd   int `mapstructure:"range_end"`
}

// ServerConfig holds the query server settings.
type ServerConfig struct {
	Addr           string        `mapstructure:"addr"`
	ReloadDebounce time.Duration `mapstructure:"reload_debounce"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Source bool   `mapstructure:"source"`
}

// flagKeys maps command line flag names to configuration keys.
var flagKeys = map[string]string{
	"file":      "document.path",
	"ready":     "document.ready_section",
	"begin":     "document.range_begin",
	"end":       "document.range_end",
	"addr":      "server.addr",
	"log-level": "log.level",
}

// Load reads configuration from, in increasing priority: defaults, the
// config file, environment variables prefixed with NOTATION_ and the flags
// that were set on the command line. The config file is path if given,
// $NOTATION_CONFIG if set, or config.{yaml,toml} in ~/.config/notation.
// flags may be nil.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()

	v.SetDefault("document.path", "")
	v.SetDefault("document.ready_section", false)
	v.SetDefault("document.range_begin", -1)
	v.SetDefault("document.range_end", -1)
	v.SetDefault("server.addr", "localhost:8080")
	v.SetDefault("server.reload_debounce", 250*time.Millisecond)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.source", false)

	if path == "" {
		path = os.Getenv("NOTATION_CONFIG")
	}
	explicit := path != ""
	if explicit {
		v.SetConfigFile(path)
	} else {
		home, _ := os.UserHomeDir()
		v.AddConfigPath(filepath.Join(home, ".config", "notation"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("NOTATION")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Options returns the assembly options for the document.
func (d DocumentConfig) Options(logger *slog.Logger) model.Options {
	opts := model.Options{AddReadySection: d.ReadySection, Logger: logger}
	if d.RangeBegin >= 0 && d.RangeEnd >= 0 {
		opts.Range = &model.BarRange{Begin: d.RangeBegin, End: d.RangeEnd}
	}
	return opts
}

// Logger returns a text logger writing to w at the configured level.
func (l LogConfig) Logger(w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level, AddSource: l.Source})
	return slog.New(h), nil
}
