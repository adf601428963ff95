package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all moodlog configuration.
type Config struct {
	Server   ServerConfig `yaml:"server"`
	Store    StoreConfig  `yaml:"store"`
	Log      LogConfig    `yaml:"log"`
	Timezone string       `yaml:"timezone"` // IANA name; empty means the system zone
	Client   ClientConfig `yaml:"client"`
}

type ServerConfig struct {
	Bind string `yaml:"bind"`
	Port int    `yaml:"port"`
}

type StoreConfig struct {
	Backend string `yaml:"backend"` // "csv" or "sqlite"
	Path    string `yaml:"path"`    // empty: resolved by store.DefaultPath
}

type LogConfig struct {
	Format string `yaml:"format"` // "console" or "json"
	Debug  bool   `yaml:"debug"`
}

type ClientConfig struct {
	ServerURL string `yaml:"server_url"` // when set, add, log and week talk to this server
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Bind: "127.0.0.1",
			Port: 37778,
		},
		Store: StoreConfig{
			Backend: "csv",
		},
		Log: LogConfig{
			Format: "console",
		},
	}
}

// DefaultPath returns ~/.moodlog/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".moodlog", "config.yaml"), nil
}

// Load layers defaults, the YAML file at path (missing is fine), a .env
// file in the working directory, and MOODLOG_* environment variables.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	// .env is optional; real environment variables win over it.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("load .env: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	if _, err := cfg.Location(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("MOODLOG_FILE"); v != "" {
		c.Store.Path = v
	}
	if v := os.Getenv("MOODLOG_BACKEND"); v != "" {
		c.Store.Backend = v
	}
	if v := os.Getenv("MOODLOG_BIND"); v != "" {
		c.Server.Bind = v
	}
	if v := os.Getenv("MOODLOG_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("MOODLOG_PORT: %w", err)
		}
		c.Server.Port = port
	}
	if v := os.Getenv("MOODLOG_TZ"); v != "" {
		c.Timezone = v
	}
	if v := os.Getenv("MOODLOG_LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
	if v := os.Getenv("MOODLOG_URL"); v != "" {
		c.Client.ServerURL = v
	}
	return nil
}

// ListenAddr returns the bind:port address string.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Bind, c.Server.Port)
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
