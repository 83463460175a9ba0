// Package config loads flowgraph settings from a TOML file and the
// environment.
//
// Precedence, lowest first: built-in defaults, the config file, FLOWGRAPH_*
// environment variables, command-line flags (applied by the caller). A
// missing config file is not an error.
//
//	[backend]
//	url = "http://localhost:8000"
//	timeout = "10s"
//
//	[drafts]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	ttl = "168h"
//
//	[server]
//	addr = ":8080"
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/flowgraph/pkg/cache"
)

// AppName names the config and cache directories.
const AppName = "flowgraph"

// Environment variables that override file settings.
const (
	EnvBackendURL = "FLOWGRAPH_BACKEND_URL"
	EnvDrafts     = "FLOWGRAPH_DRAFTS"
	EnvRedisAddr  = "FLOWGRAPH_REDIS_ADDR"
	EnvMongoURI   = "FLOWGRAPH_MONGO_URI"
	EnvAddr       = "FLOWGRAPH_ADDR"
	EnvRedisDB    = "FLOWGRAPH_REDIS_DB"
)

// Config is the complete configuration.
type Config struct {
	Backend Backend `toml:"backend"`
	Drafts  Drafts  `toml:"drafts"`
	Server  Server  `toml:"server"`
}

// Backend configures the graph backend client.
type Backend struct {
	URL     string   `toml:"url"`
	Timeout Duration `toml:"timeout"`
}

// Drafts configures where autosaved drafts are kept.
type Drafts struct {
	Backend         string   `toml:"backend"`
	Dir             string   `toml:"dir"`
	TTL             Duration `toml:"ttl"`
	RedisAddr       string   `toml:"redis_addr"`
	RedisPassword   string   `toml:"redis_password"`
	RedisDB         int      `toml:"redis_db"`
	MongoURI        string   `toml:"mongo_uri"`
	MongoDatabase   string   `toml:"mongo_database"`
	MongoCollection string   `toml:"mongo_collection"`
}

// Server configures the local HTTP surface.
type Server struct {
	Addr string `toml:"addr"`
}

// Duration is a time.Duration written as a string ("10s", "168h") in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	dir, _ := CacheDir()
	if dir != "" {
		dir = filepath.Join(dir, "drafts")
	}
	return Config{
		Backend: Backend{
			URL:     "http://localhost:8000",
			Timeout: Duration{10 * time.Second},
		},
		Drafts: Drafts{
			Backend:         cache.BackendFile,
			Dir:             dir,
			TTL:             Duration{7 * 24 * time.Hour},
			RedisAddr:       "localhost:6379",
			MongoURI:        "mongodb://localhost:27017",
			MongoDatabase:   AppName,
			MongoCollection: "drafts",
		},
		Server: Server{Addr: ":8080"},
	}
}

// Load reads the config file at path over the defaults and applies
// environment overrides. An empty path uses [Path].
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		p, err := Path()
		if err == nil {
			path = p
		}
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvBackendURL); v != "" {
		c.Backend.URL = v
	}
	if v := os.Getenv(EnvDrafts); v != "" {
		c.Drafts.Backend = v
	}
	if v := os.Getenv(EnvRedisAddr); v != "" {
		c.Drafts.RedisAddr = v
	}
	if v := os.Getenv(EnvMongoURI); v != "" {
		c.Drafts.MongoURI = v
	}
	if v := os.Getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(EnvRedisDB); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvRedisDB, err)
		}
		c.Drafts.RedisDB = db
	}
	return nil
}

// Validate checks settings that would otherwise fail late.
func (c Config) Validate() error {
	switch c.Drafts.Backend {
	case "", cache.BackendNone, cache.BackendFile, cache.BackendRedis, cache.BackendMongo:
	default:
		return fmt.Errorf("drafts.backend: unknown backend %q", c.Drafts.Backend)
	}
	if c.Backend.URL == "" {
		return errors.New("backend.url is required")
	}
	if c.Backend.Timeout.Duration < 0 || c.Drafts.TTL.Duration < 0 {
		return errors.New("durations must not be negative")
	}
	return nil
}

// CacheOptions converts the drafts section for cache.Open.
func (d Drafts) CacheOptions() cache.Options {
	return cache.Options{
		Backend: d.Backend,
		Dir:     d.Dir,
		Redis: cache.RedisOptions{
			Addr:     d.RedisAddr,
			Password: d.RedisPassword,
			DB:       d.RedisDB,
		},
		Mongo: cache.MongoOptions{
			URI:        d.MongoURI,
			Database:   d.MongoDatabase,
			Collection: d.MongoCollection,
		},
	}
}

// =============================================================================
// Paths
// =============================================================================

// Path returns the config file location ($XDG_CONFIG_HOME/flowgraph/config.toml).
func Path() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, "config.toml"), nil
}

// CacheDir returns the cache directory using XDG standard (~/.cache/flowgraph/).
func CacheDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}
