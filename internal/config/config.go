package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	DefaultAPIURL      = "http://localhost:8080/api"
	DefaultHTTPTimeout = 30 * time.Second
	DefaultCacheTTL    = 30 * time.Second
	stateDirName       = ".shopfront"
	configFileName     = "config.toml"
)

// Store backends for the persisted session.
const (
	StoreFile    = "file"
	StoreKeyring = "keyring"
	StoreRedis   = "redis"
	StoreMemory  = "memory"
)

type Config struct {
	APIURL string `toml:"api_url"`
	Store  string `toml:"store"`
	// StateDir holds state.json and the log file.
	StateDir string `toml:"state_dir"`
	// redis
	RedisAddr      string `toml:"redis_addr"`
	RedisPassword  string `toml:"redis_password"`
	RedisDB        int    `toml:"redis_db"`
	RedisNamespace string `toml:"redis_namespace"`
	// logging
	LogLevel    string `toml:"log_level"`
	LogFile     string `toml:"log_file"`
	LogToStdout bool   `toml:"log_to_stdout"`
	// http
	HTTPTimeout Duration `toml:"http_timeout"`
	CacheTTL    Duration `toml:"cache_ttl"`
	CacheSizeMB int      `toml:"cache_size_mb"`
}

// Duration lets TOML carry values like "30s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", string(text), err)
	}
	d.Duration = v
	return nil
}

// DefaultStateDir returns ~/.shopfront.
func DefaultStateDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, stateDirName), nil
}

// DefaultPath returns ~/.shopfront/config.toml.
func DefaultPath() (string, error) {
	dir, err := DefaultStateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

func defaults() *Config {
	return &Config{
		APIURL:         DefaultAPIURL,
		Store:          StoreFile,
		RedisAddr:      "localhost:6379",
		RedisNamespace: "default",
		LogLevel:       "info",
		HTTPTimeout:    Duration{DefaultHTTPTimeout},
		CacheTTL:       Duration{DefaultCacheTTL},
		CacheSizeMB:    8,
	}
}

// Load builds the config from defaults, the TOML file at path (if present),
// .env files and SHOPFRONT_* environment variables, in that order.
// An empty path means DefaultPath.
func Load(path string) (*Config, error) {
	// .env files are optional
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	cfg := defaults()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if !errors.Is(err, os.ErrNotExist) || explicit {
			return nil, fmt.Errorf("config.Load: %w", err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	if cfg.StateDir == "" {
		dir, err := DefaultStateDir()
		if err != nil {
			return nil, fmt.Errorf("config.Load: %w", err)
		}
		cfg.StateDir = dir
	}
	if cfg.LogFile == "" {
		cfg.LogFile = filepath.Join(cfg.StateDir, "shopfront.log")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("SHOPFRONT_API_URL"); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv("SHOPFRONT_STORE"); v != "" {
		cfg.Store = v
	}
	if v := os.Getenv("SHOPFRONT_STATE_DIR"); v != "" {
		cfg.StateDir = v
	}
	if v := os.Getenv("SHOPFRONT_REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("SHOPFRONT_REDIS_PASS"); v != "" {
		cfg.RedisPassword = v
	}
	if v := os.Getenv("SHOPFRONT_REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SHOPFRONT_REDIS_DB: %w", err)
		}
		cfg.RedisDB = db
	}
	if v := os.Getenv("SHOPFRONT_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	return nil
}

// Validate checks the fields that have a closed set of values.
func (c *Config) Validate() error {
	c.APIURL = strings.TrimRight(c.APIURL, "/")
	if c.APIURL == "" {
		return errors.New("api_url is empty")
	}
	switch strings.ToLower(c.Store) {
	case StoreFile, StoreKeyring, StoreRedis, StoreMemory:
		c.Store = strings.ToLower(c.Store)
	default:
		return fmt.Errorf("unknown store %q (want file, keyring, redis or memory)", c.Store)
	}
	if c.HTTPTimeout.Duration <= 0 {
		c.HTTPTimeout.Duration = DefaultHTTPTimeout
	}
	if c.CacheTTL.Duration < 0 {
		return fmt.Errorf("cache_ttl must not be negative: %s", c.CacheTTL)
	}
	if c.CacheSizeMB <= 0 {
		c.CacheSizeMB = 8
	}
	return nil
}
