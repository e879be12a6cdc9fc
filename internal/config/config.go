// Package config provides configuration management for the application.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/amaumene/cinescope/internal/constants"
	"github.com/amaumene/cinescope/internal/gateway"
	"github.com/amaumene/cinescope/pkg/doh"
	"github.com/amaumene/cinescope/pkg/security"
)

const (
	// Default configuration file name
	defaultConfigFile = "config.json"
	// Default database path
	defaultDatabasePath = "./data/cinescope.db"
)

var ErrMissingCredentials = errors.New("TMDB_ACCESS_TOKEN or TMDB_API_KEY is required")

// Config holds the application configuration.
// Defaults are overridden by environment variables, then by the JSON file.
type Config struct {
	// TMDB
	TMDBAccessToken string `json:"TMDB_ACCESS_TOKEN"`
	TMDBAPIKey      string `json:"TMDB_API_KEY"`
	TMDBBaseURL     string `json:"TMDB_BASE_URL"`
	TMDBImageBase   string `json:"TMDB_IMAGE_BASE"`
	Language        string `json:"TMDB_LANGUAGE"`
	Region          string `json:"TMDB_REGION"`

	// Storage settings
	DatabasePath   string `json:"DATABASE_PATH"`
	ColorCacheSize int    `json:"COLOR_CACHE_SIZE"`
	RedisURL       string `json:"REDIS_URL"`

	// Paging cap, 0 for none
	MaxPages int `json:"MAX_PAGES"`

	// Transport
	DOHURL string `json:"DOH_URL"`

	// Shell API
	Host     string `json:"HOST"`
	Port     string `json:"PORT"`
	LogLevel string `json:"LOG_LEVEL"`
	GinMode  string `json:"GIN_MODE"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		TMDBBaseURL:    gateway.DefaultBaseURL,
		TMDBImageBase:  constants.DefaultImageBase,
		Language:       constants.DefaultLanguage,
		Region:         constants.DefaultRegion,
		DatabasePath:   defaultDatabasePath,
		ColorCacheSize: constants.DefaultColorCacheSize,
		DOHURL:         doh.DefaultEndpoint,
		Host:           constants.DefaultHost,
		Port:           constants.DefaultPort,
		LogLevel:       constants.DefaultLogLevel,
		GinMode:        "release",
	}
}

// Load reads configuration from environment variables and optional JSON file.
// Returns an error if the configuration is invalid.
func Load() (*Config, error) {
	cfg := Default()

	if err := cfg.loadFromEnv(); err != nil {
		return nil, err
	}

	// Load from config file if exists
	configFile := getEnvOrDefault("CONFIG_FILE", defaultConfigFile)
	if err := cfg.loadFromFile(configFile); err != nil {
		// Ignore file not found errors
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromEnv loads configuration from environment variables.
func (c *Config) loadFromEnv() error {
	strs := map[string]*string{
		"TMDB_ACCESS_TOKEN": &c.TMDBAccessToken,
		"TMDB_API_KEY":      &c.TMDBAPIKey,
		"TMDB_BASE_URL":     &c.TMDBBaseURL,
		"TMDB_IMAGE_BASE":   &c.TMDBImageBase,
		"TMDB_LANGUAGE":     &c.Language,
		"TMDB_REGION":       &c.Region,
		"DATABASE_PATH":     &c.DatabasePath,
		"REDIS_URL":         &c.RedisURL,
		"DOH_URL":           &c.DOHURL,
		"HOST":              &c.Host,
		"PORT":              &c.Port,
		"LOG_LEVEL":         &c.LogLevel,
		"GIN_MODE":          &c.GinMode,
	}
	for key, dst := range strs {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		"COLOR_CACHE_SIZE": &c.ColorCacheSize,
		"MAX_PAGES":        &c.MaxPages,
	}
	for key, dst := range ints {
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", key, v, err)
		}
		*dst = n
	}
	return nil
}

// loadFromFile loads configuration from a JSON file.
func (c *Config) loadFromFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}

	return json.Unmarshal(data, c)
}

// Validate checks the credentials and normalizes optional fields.
func (c *Config) Validate() error {
	v := security.NewAPIKeyValidator()

	c.TMDBAccessToken = v.SanitizeAccessToken(c.TMDBAccessToken)
	c.TMDBAPIKey = v.SanitizeAPIKey(c.TMDBAPIKey)

	switch {
	case c.TMDBAccessToken != "":
		if !v.IsValidAccessToken(c.TMDBAccessToken) {
			return errors.New("TMDB_ACCESS_TOKEN is malformed")
		}
	case c.TMDBAPIKey != "":
		if !v.IsValidTMDBKey(c.TMDBAPIKey) {
			return errors.New("TMDB_API_KEY is malformed")
		}
	default:
		return ErrMissingCredentials
	}

	if c.MaxPages < 0 {
		return fmt.Errorf("MAX_PAGES must not be negative, got %d", c.MaxPages)
	}
	if c.Port == "" {
		c.Port = constants.DefaultPort
	}
	return nil
}

// PageCap returns MaxPages as the optional cap the paging layer expects.
func (c *Config) PageCap() *int {
	if c.MaxPages <= 0 {
		return nil
	}
	n := c.MaxPages
	return &n
}

// Addr is the shell API listen address.
func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}

// getEnvOrDefault returns environment variable value or default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
