package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/collatzgraph/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[graph]
k = 5
iterations = 6
formats = ["json", "svg"]

[cache]
backend = "redis"
redis_addr = "cache.internal:6380"
namespace = "lab"
ttl = "90m"

[log]
level = "debug"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Graph.K != 5 || cfg.Graph.Iterations != 6 {
		t.Errorf("Graph = %+v", cfg.Graph)
	}
	// Unset keys keep their defaults.
	if cfg.Graph.Predecessors != Default().Graph.Predecessors {
		t.Errorf("Predecessors = %d, want default %d", cfg.Graph.Predecessors, Default().Graph.Predecessors)
	}
	if len(cfg.Graph.Formats) != 2 || cfg.Graph.Formats[1] != "svg" {
		t.Errorf("Formats = %v", cfg.Graph.Formats)
	}
	if cfg.Cache.Backend != "redis" || cfg.Cache.RedisAddr != "cache.internal:6380" {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Cache.TTL.Duration != 90*time.Minute {
		t.Errorf("TTL = %v, want 90m", cfg.Cache.TTL.Duration)
	}
	if cfg.CacheNamespace() != "lab:" {
		t.Errorf("CacheNamespace() = %q, want lab:", cfg.CacheNamespace())
	}
	if lvl, err := cfg.LogLevel(); err != nil || lvl != log.DebugLevel {
		t.Errorf("LogLevel() = %v, %v; want debug", lvl, err)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed", "[graph\nk = 3"},
		{"unknown key", "[graph]\nfactor = 3"},
		{"even k", "[graph]\nk = 4"},
		{"zero iterations", "[graph]\niterations = 0"},
		{"bad format", "[graph]\nformats = [\"pdf\"]"},
		{"bad backend", "[cache]\nbackend = \"memcached\""},
		{"bad ttl", "[cache]\nttl = \"soon\""},
		{"negative ttl", "[cache]\nttl = \"-1h\""},
		{"bad level", "[log]\nlevel = \"loud\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Load() error = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") with no file error = %v", err)
	}
	if cfg.Graph.K != Default().Graph.K {
		t.Errorf("K = %d, want default", cfg.Graph.K)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("Load() of an explicit missing file should fail")
	}
}

func TestDefaultPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	got, err := DefaultPath()
	if err != nil {
		t.Fatalf("DefaultPath() error = %v", err)
	}
	if want := filepath.Join(dir, "collatzgraph", "config.toml"); got != want {
		t.Errorf("DefaultPath() = %q, want %q", got, want)
	}
}
