// Package config loads npuzzle settings from a config file and the
// environment.
//
// Settings are read, in increasing priority, from built-in defaults,
// $XDG_CONFIG_HOME/npuzzle/config.toml (or the file passed to Load) and
// NPUZZLE_* environment variables, where a key such as redis.addr maps to
// NPUZZLE_REDIS_ADDR. Command-line flags override all three.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/matzehuels/npuzzle/pkg/cache"
	"github.com/matzehuels/npuzzle/pkg/solver"
)

const (
	appName        = "npuzzle"
	envPrefix      = "NPUZZLE"
	configFileName = "config"
	configFileType = "toml"
)

// Config keys.
const (
	KeyLogLevel           = "log.level"
	KeyCacheBackend       = "cache.backend"
	KeyCacheDir           = "cache.dir"
	KeyCacheTTL           = "cache.ttl"
	KeyRedisAddr          = "redis.addr"
	KeyRedisPassword      = "redis.password"
	KeyRedisDB            = "redis.db"
	KeyServerAddr         = "server.addr"
	KeyServerTimeout      = "server.timeout"
	KeySearchMaxExpansion = "search.max_expansions"
	KeySearchTimeout      = "search.timeout"
	KeySearchMaxShuffle   = "search.max_shuffle"
)

// Config is the resolved configuration.
type Config struct {
	Log    LogConfig    `mapstructure:"log"`
	Cache  CacheConfig  `mapstructure:"cache"`
	Redis  RedisConfig  `mapstructure:"redis"`
	Server ServerConfig `mapstructure:"server"`
	Search SearchConfig `mapstructure:"search"`

	// File is the config file that was read, empty if none was found.
	File string `mapstructure:"-"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type CacheConfig struct {
	Backend string        `mapstructure:"backend"`
	Dir     string        `mapstructure:"dir"`
	TTL     time.Duration `mapstructure:"ttl"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type ServerConfig struct {
	Addr    string        `mapstructure:"addr"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type SearchConfig struct {
	MaxExpansions int           `mapstructure:"max_expansions"`
	MaxShuffle    int           `mapstructure:"max_shuffle"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

// CacheOptions converts the cache and redis sections for cache.Open.
func (c *Config) CacheOptions() cache.Options {
	return cache.Options{
		Backend: c.Cache.Backend,
		Dir:     c.Cache.Dir,
		Redis: cache.RedisOptions{
			Addr:     c.Redis.Addr,
			Password: c.Redis.Password,
			DB:       c.Redis.DB,
		},
	}
}

// Load reads the configuration. An empty path searches the default config
// directory, where a missing file is not an error; an explicit path must
// exist.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType(configFileType)
		if dir, err := Dir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	cacheDir, _ := CacheDir()
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyCacheBackend, cache.BackendFile)
	v.SetDefault(KeyCacheDir, cacheDir)
	v.SetDefault(KeyCacheTTL, cache.TTLSolve)
	v.SetDefault(KeyRedisAddr, "localhost:6379")
	v.SetDefault(KeyRedisPassword, "")
	v.SetDefault(KeyRedisDB, 0)
	v.SetDefault(KeyServerAddr, ":8080")
	v.SetDefault(KeyServerTimeout, 30*time.Second)
	v.SetDefault(KeySearchMaxExpansion, 0)
	v.SetDefault(KeySearchTimeout, time.Duration(0))
	v.SetDefault(KeySearchMaxShuffle, solver.DefaultMaxShuffle)
}

func (c *Config) validate() error {
	switch c.Cache.Backend {
	case cache.BackendFile, cache.BackendRedis, cache.BackendNone:
	default:
		return fmt.Errorf("%s: unknown backend %q (want file, redis or none)", KeyCacheBackend, c.Cache.Backend)
	}
	if c.Search.MaxExpansions < 0 {
		return fmt.Errorf("%s: must not be negative", KeySearchMaxExpansion)
	}
	if c.Search.MaxShuffle < 0 {
		return fmt.Errorf("%s: must not be negative", KeySearchMaxShuffle)
	}
	if c.Server.Timeout < 0 || c.Search.Timeout < 0 || c.Cache.TTL < 0 {
		return fmt.Errorf("durations must not be negative")
	}
	return nil
}

// Dir returns the config directory (~/.config/npuzzle/ under XDG).
func Dir() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// CacheDir returns the default cache directory (~/.cache/npuzzle/ under XDG).
func CacheDir() (string, error) {
	if home := os.Getenv("XDG_CACHE_HOME"); home != "" {
		return filepath.Join(home, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
