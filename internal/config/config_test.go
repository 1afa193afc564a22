package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/trominoes/pkg/errors"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestParse(t *testing.T) {
	cfg := Default()
	data := []byte(`
[tile]
size = 64
palette = "grey"
formats = ["png", "json"]

[cache]
backend = "redis"
redis_addr = "cache:6379"
redis_db = 2

[server]
addr = ":9000"
allowed_origins = ["https://example.com"]
shutdown_timeout = "3s"
stream_delay = "15ms"
`)
	if err := Parse(data, &cfg); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if cfg.Tile.Size != 64 || cfg.Tile.Palette != "grey" || len(cfg.Tile.Formats) != 2 {
		t.Errorf("tile = %+v", cfg.Tile)
	}
	if cfg.Tile.CallTreeDepth != Default().Tile.CallTreeDepth {
		t.Error("absent key lost its default")
	}
	if cfg.Cache.Backend != BackendRedis || cfg.Cache.RedisAddr != "cache:6379" || cfg.Cache.RedisDB != 2 {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Cache.Prefix != "trominoes:" {
		t.Errorf("prefix default = %q", cfg.Cache.Prefix)
	}
	if cfg.Server.Addr != ":9000" || cfg.Server.ShutdownTimeout != 3*time.Second || cfg.Server.StreamDelay != 15*time.Millisecond {
		t.Errorf("server = %+v", cfg.Server)
	}
}

func TestParseMongo(t *testing.T) {
	cfg := Default()
	data := []byte("[cache]\nbackend = \"mongo\"\nmongo_uri = \"mongodb://db:27017\"\n")
	if err := Parse(data, &cfg); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Cache.Backend != BackendMongo || cfg.Cache.MongoURI != "mongodb://db:27017" {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Cache.MongoDatabase != "trominoes" {
		t.Errorf("mongo_database default = %q", cfg.Cache.MongoDatabase)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"syntax", "[tile\nsize = 4"},
		{"unknown key", "[tile]\nsise = 4"},
		{"unknown section", "[render]\nsize = 4"},
		{"bad size", "[tile]\nsize = 10"},
		{"bad palette", "[tile]\npalette = \"neon\""},
		{"bad format", "[tile]\nformats = [\"gif\"]"},
		{"bad backend", "[cache]\nbackend = \"memcached\""},
		{"bad max size", "[server]\nmax_size = 1000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			if err := Parse([]byte(tt.data), &cfg); err == nil {
				t.Error("Parse should fail")
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	// Missing default file falls back to defaults.
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load missing default: %v", err)
	}
	if cfg.Tile.Size != Default().Tile.Size {
		t.Errorf("Size = %d", cfg.Tile.Size)
	}

	// The default file is picked up from XDG_CONFIG_HOME.
	path := filepath.Join(dir, "trominoes", "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("[tile]\nsize = 128\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = Load("")
	if err != nil {
		t.Fatalf("Load default: %v", err)
	}
	if cfg.Tile.Size != 128 {
		t.Errorf("Size = %d, want 128", cfg.Tile.Size)
	}

	// An explicit path must exist.
	if _, err := Load(filepath.Join(dir, "nope.toml")); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Load(missing explicit) err = %v, want INVALID_INPUT", err)
	}
}

func TestPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	p, err := Path()
	if err != nil {
		t.Fatal(err)
	}
	if p != filepath.Join("/tmp/xdg", "trominoes", "config.toml") {
		t.Errorf("Path() = %q", p)
	}
}

func TestCacheDir(t *testing.T) {
	if got, _ := (CacheConfig{Dir: "/var/cache/t"}).CacheDir(); got != "/var/cache/t" {
		t.Errorf("explicit dir = %q", got)
	}
	t.Setenv("XDG_CACHE_HOME", "/tmp/cache")
	if got, _ := (CacheConfig{}).CacheDir(); got != filepath.Join("/tmp/cache", "trominoes") {
		t.Errorf("xdg dir = %q", got)
	}
}
