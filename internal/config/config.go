package config

import (
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
)

// EnvPrefix prefixes every environment variable the loader reads.
const EnvPrefix = "PTR89_"

type Config struct {
	Search SearchConfig `koanf:"search"`
	Log    LogConfig    `koanf:"log"`
	Cache  CacheConfig  `koanf:"cache"`
	HTTP   HTTPConfig   `koanf:"http"`
}

type SearchConfig struct {
	Base  string `koanf:"base"` // hex, optional 0x prefix
	Align int    `koanf:"align"`
	Limit int    `koanf:"limit"` // 0 means unlimited
	Jobs  int    `koanf:"jobs"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // text, json
}

type CacheConfig struct {
	Path string `koanf:"path"` // empty disables the cache
}

type HTTPConfig struct {
	Timeout time.Duration `koanf:"timeout"`
}

func defaults() map[string]any {
	return map[string]any{
		"search.base":  "A0000000",
		"search.align": 1,
		"search.limit": 100,
		"search.jobs":  runtime.NumCPU(),
		"log.level":    "info",
		"log.format":   "text",
		"cache.path":   "",
		"http.timeout": "30s",
	}
}

// Load builds the configuration. path names an optional YAML file;
// overrides, keyed like "search.base", win over every other source.
func Load(path string, overrides map[string]any) (*Config, error) {
	k := koanf.New(".")

	for key, v := range defaults() {
		if err := k.Set(key, v); err != nil {
			return nil, err
		}
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(
			strings.TrimPrefix(s, EnvPrefix)), "_", ".", -1)
	}), nil); err != nil {
		return nil, err
	}

	for key, v := range overrides {
		if err := k.Set(key, v); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

var (
	ErrInvalidBase  = errors.New("Invalid base address.")
	ErrInvalidAlign = errors.New("Invalid align value.")
	ErrInvalidLimit = errors.New("Invalid limit value.")
	ErrInvalidJobs  = errors.New("Invalid jobs value.")
)

// Validate rejects settings the search cannot run with.
func (c *Config) Validate() error {
	if _, err := ParseBase(c.Search.Base); err != nil {
		return err
	}
	if c.Search.Align <= 0 {
		return ErrInvalidAlign
	}
	if c.Search.Limit < 0 {
		return ErrInvalidLimit
	}
	if c.Search.Jobs < 1 {
		return ErrInvalidJobs
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil || c.Log.Level == "" {
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q", c.Log.Format)
	}
	if c.HTTP.Timeout < 0 {
		return fmt.Errorf("invalid http timeout %s", c.HTTP.Timeout)
	}
	return nil
}

// BaseAddr returns search.base as a number.
func (c *Config) BaseAddr() uint32 {
	v, _ := ParseBase(c.Search.Base)
	return v
}

// ParseBase parses a hex address with an optional 0x prefix.
func ParseBase(s string) (uint32, error) {
	s = strings.TrimSpace(s)
	if len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, ErrInvalidBase
	}
	return uint32(v), nil
}
