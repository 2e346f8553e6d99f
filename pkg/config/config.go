// Package config loads collatzgraph settings from a TOML file.
//
// The file is optional. Every field has a default, and command-line flags
// override whatever the file sets. A complete file looks like:
//
//	[graph]
//	k = 3
//	predecessors = 3
//	iterations = 4
//	pruning = 1
//	max_order = 10000
//	formats = ["csv"]
//
//	[cache]
//	backend = "redis"        # "file", "redis" or "none"
//	redis_addr = "localhost:6379"
//	namespace = "lab"
//	ttl = "168h"
//
//	[log]
//	level = "info"
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/collatzgraph/pkg/cache"
	"github.com/matzehuels/collatzgraph/pkg/errors"
	"github.com/matzehuels/collatzgraph/pkg/pipeline"
	"github.com/matzehuels/collatzgraph/pkg/predecessor"
)

const appName = "collatzgraph"

// Config is the decoded configuration file.
type Config struct {
	Graph GraphConfig `toml:"graph"`
	Cache CacheConfig `toml:"cache"`
	Log   LogConfig   `toml:"log"`
}

// GraphConfig holds build and render defaults.
type GraphConfig struct {
	K            int64    `toml:"k"`
	Predecessors int      `toml:"predecessors"`
	Iterations   int      `toml:"iterations"`
	Pruning      int      `toml:"pruning"`
	MaxOrder     int      `toml:"max_order"`
	Formats      []string `toml:"formats"`
}

// CacheConfig selects the cache backend.
type CacheConfig struct {
	Backend   string   `toml:"backend"`
	Dir       string   `toml:"dir"`
	RedisAddr string   `toml:"redis_addr"`
	RedisDB   int      `toml:"redis_db"`
	Password  string   `toml:"password"`
	Namespace string   `toml:"namespace"`
	TTL       Duration `toml:"ttl"`
}

// LogConfig sets the default log level.
type LogConfig struct {
	Level string `toml:"level"`
}

// Duration is a time.Duration written as a Go duration string ("90m").
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Graph: GraphConfig{
			K:            pipeline.DefaultK,
			Predecessors: pipeline.DefaultPredecessorCount,
			Iterations:   pipeline.DefaultIterationCount,
			Pruning:      pipeline.DefaultPruning,
			MaxOrder:     predecessor.DefaultMaxOrderIterations,
			Formats:      []string{pipeline.DefaultFormat},
		},
		Cache: CacheConfig{
			Backend:   cache.BackendFile,
			RedisAddr: cache.DefaultRedisAddr,
			TTL:       Duration{pipeline.DefaultTTL},
		},
		Log: LogConfig{Level: "info"},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/collatzgraph/config.toml, falling back
// to ~/.config when XDG_CONFIG_HOME is unset.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads the file at path over the defaults. An empty path means
// [DefaultPath], and a missing default file is not an error. Unknown keys
// are rejected so that typos do not pass silently.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig,
			"unknown key %q in %s", undecoded[0].String(), path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if err := errors.ValidateOddFactor(c.Graph.K); err != nil {
		return invalid("graph.k", err)
	}
	if err := errors.ValidatePositive("predecessors", c.Graph.Predecessors); err != nil {
		return invalid("graph.predecessors", err)
	}
	if err := errors.ValidatePositive("iterations", c.Graph.Iterations); err != nil {
		return invalid("graph.iterations", err)
	}
	if err := errors.ValidateNonNegative("pruning", c.Graph.Pruning); err != nil {
		return invalid("graph.pruning", err)
	}
	if err := errors.ValidatePositive("max_order", c.Graph.MaxOrder); err != nil {
		return invalid("graph.max_order", err)
	}
	if err := pipeline.ValidateFormats(c.Graph.Formats); err != nil {
		return invalid("graph.formats", err)
	}

	switch c.Cache.Backend {
	case cache.BackendNone, cache.BackendFile, cache.BackendRedis:
	default:
		return errors.New(errors.ErrCodeInvalidConfig,
			"cache.backend: %q (must be one of: file, redis, none)", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}

	if _, err := c.LogLevel(); err != nil {
		return invalid("log.level", err)
	}
	return nil
}

// LogLevel parses Log.Level.
func (c *Config) LogLevel() (log.Level, error) {
	return log.ParseLevel(c.Log.Level)
}

// CacheNamespace returns the key prefix for the configured namespace, or ""
// when none is set.
func (c *Config) CacheNamespace() string {
	if c.Cache.Namespace == "" {
		return ""
	}
	return c.Cache.Namespace + ":"
}

func invalid(key string, err error) error {
	return errors.New(errors.ErrCodeInvalidConfig, "%s: %s", key, errors.UserMessage(err))
}
