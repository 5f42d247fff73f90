// Package config provides configuration management for noteforge.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"
)

const (
	// DefaultPort is the default HTTP port for the server.
	DefaultPort = 38080

	// DefaultOpenAIBaseURL is the enrichment provider endpoint.
	// Any OpenAI-compatible chat-completions API works (proxies included).
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"

	// DefaultOpenAIModel is the model used for note analysis.
	DefaultOpenAIModel = "gpt-4o-mini"

	// DefaultAccessTokenTTL is the access token lifetime.
	DefaultAccessTokenTTL = 15 * time.Minute

	// DefaultRefreshTokenTTL is the refresh token lifetime.
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// Config holds the application configuration.
type Config struct {
	// HTTP settings
	Port int `json:"port"`

	// Database settings
	DatabaseDSN string `json:"database_dsn"`
	MaxConns    int    `json:"max_conns"`

	// Enrichment provider settings
	OpenAIAPIKey  string `json:"openai_api_key"`
	OpenAIBaseURL string `json:"openai_base_url"`
	OpenAIModel   string `json:"openai_model"`

	// Auth settings
	JWTSecret        string        `json:"jwt_secret"`
	JWTRefreshSecret string        `json:"jwt_refresh_secret"`
	AccessTokenTTL   time.Duration `json:"access_token_ttl_ns"`
	RefreshTokenTTL  time.Duration `json:"refresh_token_ttl_ns"`
}

var (
	globalConfig *Config
	configOnce   sync.Once
)

// DataDir returns the data directory path (~/.noteforge).
func DataDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".noteforge")
}

// SettingsPath returns the settings file path.
func SettingsPath() string {
	return filepath.Join(DataDir(), "settings.json")
}

// EnsureDataDir creates the data directory if it doesn't exist.
func EnsureDataDir() error {
	return os.MkdirAll(DataDir(), 0750)
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Port:            DefaultPort,
		MaxConns:        10,
		OpenAIBaseURL:   DefaultOpenAIBaseURL,
		OpenAIModel:     DefaultOpenAIModel,
		AccessTokenTTL:  DefaultAccessTokenTTL,
		RefreshTokenTTL: DefaultRefreshTokenTTL,
	}
}

// Load loads configuration from the settings file, merging with
// defaults, then applies environment overrides.
func Load() (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(SettingsPath())
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	if err == nil {
		// Load settings into a map to tolerate unknown fields.
		var settings map[string]interface{}
		if err := json.Unmarshal(data, &settings); err == nil {
			applySettings(cfg, settings)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func applySettings(cfg *Config, settings map[string]interface{}) {
	if v, ok := settings["NOTEFORGE_PORT"].(float64); ok && v > 0 {
		cfg.Port = int(v)
	}
	if v, ok := settings["DATABASE_DSN"].(string); ok && v != "" {
		cfg.DatabaseDSN = v
	}
	if v, ok := settings["DATABASE_MAX_CONNS"].(float64); ok && v > 0 {
		cfg.MaxConns = int(v)
	}
	if v, ok := settings["OPENAI_API_KEY"].(string); ok && v != "" {
		cfg.OpenAIAPIKey = v
	}
	if v, ok := settings["OPENAI_BASE_URL"].(string); ok && v != "" {
		cfg.OpenAIBaseURL = v
	}
	if v, ok := settings["OPENAI_MODEL"].(string); ok && v != "" {
		cfg.OpenAIModel = v
	}
	if v, ok := settings["NOTEFORGE_JWT_SECRET"].(string); ok && v != "" {
		cfg.JWTSecret = v
	}
	if v, ok := settings["NOTEFORGE_JWT_REFRESH_SECRET"].(string); ok && v != "" {
		cfg.JWTRefreshSecret = v
	}
	if v, ok := settings["ACCESS_TOKEN_TTL_MINUTES"].(float64); ok && v > 0 {
		cfg.AccessTokenTTL = time.Duration(v) * time.Minute
	}
	if v, ok := settings["REFRESH_TOKEN_TTL_HOURS"].(float64); ok && v > 0 {
		cfg.RefreshTokenTTL = time.Duration(v) * time.Hour
	}
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("NOTEFORGE_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			cfg.Port = p
		}
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		cfg.DatabaseDSN = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.OpenAIAPIKey = v
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		cfg.OpenAIBaseURL = v
	}
	if v := os.Getenv("OPENAI_MODEL"); v != "" {
		cfg.OpenAIModel = v
	}
	if v := os.Getenv("NOTEFORGE_JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}
	if v := os.Getenv("NOTEFORGE_JWT_REFRESH_SECRET"); v != "" {
		cfg.JWTRefreshSecret = v
	}
}

// Get returns the global configuration, loading it if necessary.
func Get() *Config {
	configOnce.Do(func() {
		var err error
		globalConfig, err = Load()
		if err != nil {
			globalConfig = Default()
		}
	})
	return globalConfig
}
