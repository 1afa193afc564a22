// Package config loads the trominoes configuration file.
//
// The file is TOML, read from $XDG_CONFIG_HOME/trominoes/config.toml
// (~/.config/trominoes/config.toml when XDG_CONFIG_HOME is unset) or from
// the path given with --config. A missing default file is not an error;
// every key is optional and command-line flags override file values.
//
//	[tile]
//	size = 32
//	palette = "vivid"
//	formats = ["svg", "png"]
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	# or: backend = "mongo", mongo_uri = "mongodb://localhost:27017"
//
//	[server]
//	addr = ":8080"
//	allowed_origins = ["https://example.com"]
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/trominoes/pkg/board"
	"github.com/matzehuels/trominoes/pkg/errors"
	"github.com/matzehuels/trominoes/pkg/palette"
	"github.com/matzehuels/trominoes/pkg/pipeline"
)

const appName = "trominoes"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
	BackendNone  = "none"
)

// Config is the whole configuration file.
type Config struct {
	Tile   TileConfig   `toml:"tile"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// TileConfig holds defaults for the tile and animate commands.
type TileConfig struct {
	Size          int      `toml:"size"`
	Palette       string   `toml:"palette"`
	Formats       []string `toml:"formats"`
	Output        string   `toml:"output"`
	CellSize      float64  `toml:"cell_size"`
	NoGridLines   bool     `toml:"no_grid_lines"`
	CallTreeDepth int      `toml:"call_tree_depth"`
}

// CacheConfig selects and configures the artifact cache.
type CacheConfig struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"` // File backend; empty uses the XDG cache dir
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
	Prefix        string `toml:"prefix"` // Redis key prefix
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string        `toml:"addr"`
	AllowedOrigins  []string      `toml:"allowed_origins"`
	MaxSize         int           `toml:"max_size"` // Largest board the API will tile
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
	StreamDelay     time.Duration `toml:"stream_delay"` // Pause between websocket fill events
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Tile: TileConfig{
			Size:          pipeline.DefaultSize,
			Palette:       pipeline.DefaultPalette,
			Formats:       []string{pipeline.FormatSVG},
			Output:        ".",
			CallTreeDepth: pipeline.DefaultCallTreeDepth,
		},
		Cache: CacheConfig{
			Backend:       BackendFile,
			RedisAddr:     "localhost:6379",
			MongoURI:      "mongodb://localhost:27017",
			MongoDatabase: appName,
			Prefix:        appName + ":",
		},
		Server: ServerConfig{
			Addr:            ":8080",
			MaxSize:         256,
			ShutdownTimeout: 10 * time.Second,
		},
	}
}

// Path returns the default configuration file path.
func Path() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads the configuration at path on top of the defaults. An empty
// path reads the default file and tolerates its absence; an explicit path
// must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := Path()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && !explicit {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "read config")
	}
	if err := Parse(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "config %s", path)
	}
	return cfg, nil
}

// Parse decodes TOML data into cfg, keeping existing values for absent
// keys, and validates the result. Unknown keys are rejected so typos do
// not pass silently.
func Parse(data []byte, cfg *Config) error {
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errors.New(errors.ErrCodeInvalidInput, "unknown keys: %s", strings.Join(keys, ", "))
	}
	return cfg.Validate()
}

// Validate checks values that flags would otherwise reject later with a
// less helpful message.
func (c Config) Validate() error {
	if err := board.ValidateSize(c.Tile.Size); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "tile.size")
	}
	if err := palette.Validate(c.Tile.Palette); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "tile.palette")
	}
	if err := pipeline.ValidateFormats(c.Tile.Formats); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "tile.formats")
	}
	switch c.Cache.Backend {
	case BackendFile, BackendRedis, BackendMongo, BackendNone:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "cache.backend must be one of: file, redis, mongo, none (got %q)", c.Cache.Backend)
	}
	if err := board.ValidateSize(c.Server.MaxSize); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "server.max_size")
	}
	return nil
}

// CacheDir returns the file cache directory: the configured one, or the
// XDG cache directory (~/.cache/trominoes/).
func (c CacheConfig) CacheDir() (string, error) {
	if c.Dir != "" {
		return c.Dir, nil
	}
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
