package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	API     APIConfig     `toml:"api"`
	Storage StorageConfig `toml:"storage"`
	Player  PlayerConfig  `toml:"player"`
	Admin   AdminConfig   `toml:"admin"`
}

// APIConfig contains backend connection settings and cache freshness windows.
type APIConfig struct {
	BaseURL             string `toml:"base_url"`
	CatalogCacheMinutes int    `toml:"catalog_cache_minutes"`
	UsersCacheMinutes   int    `toml:"users_cache_minutes"`
}

// StorageConfig contains local state database settings.
type StorageConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// PlayerConfig contains playback settings.
type PlayerConfig struct {
	Command string  `toml:"command"`
	Volume  float64 `toml:"volume"`
}

// AdminConfig contains credentials for the admin area.
type AdminConfig struct {
	Token string `toml:"token"`
}

// CatalogTTL returns the catalog cache freshness window.
func (c APIConfig) CatalogTTL() time.Duration {
	if c.CatalogCacheMinutes <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.CatalogCacheMinutes) * time.Minute
}

// UsersTTL returns the users cache freshness window.
func (c APIConfig) UsersTTL() time.Duration {
	if c.UsersCacheMinutes <= 0 {
		return 10 * time.Minute
	}
	return time.Duration(c.UsersCacheMinutes) * time.Minute
}

// LoadConfig reads and parses a TOML configuration file from the specified path,
// then applies .env and environment overrides.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	config.applyEnv()
	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded
// example config, with .env and environment overrides applied.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	config.applyEnv()
	return &config
}

// applyEnv loads a .env file when present and overrides settings from the
// environment. Environment values win over TOML.
func (c *Config) applyEnv() {
	godotenv.Load()

	if v := os.Getenv("TUNEDECK_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("TUNEDECK_STATE_PATH"); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv("TUNEDECK_ADMIN_TOKEN"); v != "" {
		c.Admin.Token = v
	}
	if v := os.Getenv("TUNEDECK_PLAYER_COMMAND"); v != "" {
		c.Player.Command = v
	}
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
