// Package config resolves runtime settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Environment variable names.
const (
	EnvGoogleAPIKey = "GOOGLE_API_KEY"
	EnvGeminiAPIKey = "GEMINI_API_KEY"
	EnvModel        = "SCENEGEN_MODEL"
	EnvTemperature  = "SCENEGEN_TEMPERATURE"
	EnvDB           = "SCENEGEN_DB"
	EnvWorkers      = "SCENEGEN_WORKERS"
	EnvChunkChars   = "SCENEGEN_CHUNK_CHARS"
)

// Defaults. They match the default tags on Config.
const (
	DefaultModel       = "gemini-2.5-flash"
	DefaultTemperature = 0.7
	DefaultDB          = "scenegen.db"
	DefaultWorkers     = 4
	DefaultChunkChars  = 4000
)

// Config holds resolved settings.
type Config struct {
	// APIKey is GOOGLE_API_KEY, or GEMINI_API_KEY when that is unset.
	APIKey      string  `envconfig:"GOOGLE_API_KEY"`
	Model       string  `envconfig:"SCENEGEN_MODEL" default:"gemini-2.5-flash"`
	Temperature float32 `envconfig:"SCENEGEN_TEMPERATURE" default:"0.7"`
	DBPath      string  `envconfig:"SCENEGEN_DB" default:"scenegen.db"`
	Workers     int     `envconfig:"SCENEGEN_WORKERS" default:"4"`
	ChunkChars  int     `envconfig:"SCENEGEN_CHUNK_CHARS" default:"4000"`

	GeminiAPIKey string `envconfig:"GEMINI_API_KEY" json:"-"`
}

// Load reads .env files and then resolves the configuration from the
// process environment. With no files it reads ./.env. Missing files are
// skipped; malformed ones are an error. Variables already set in the
// environment win over .env values.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromEnv()
}

// FromEnv resolves the configuration from the process environment.
func FromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.GeminiAPIKey = strings.TrimSpace(cfg.GeminiAPIKey)
	if cfg.APIKey == "" {
		cfg.APIKey = cfg.GeminiAPIKey
	}
	cfg.GeminiAPIKey = ""
	cfg.Model = orDefault(cfg.Model, DefaultModel)
	cfg.DBPath = orDefault(cfg.DBPath, DefaultDB)

	if cfg.Temperature < 0 || cfg.Temperature > 2 {
		return nil, fmt.Errorf("%s: want a number in [0, 2], got %v", EnvTemperature, cfg.Temperature)
	}
	if cfg.Workers <= 0 {
		return nil, fmt.Errorf("%s: want a positive integer, got %d", EnvWorkers, cfg.Workers)
	}
	if cfg.ChunkChars <= 0 {
		return nil, fmt.Errorf("%s: want a positive integer, got %d", EnvChunkChars, cfg.ChunkChars)
	}
	return &cfg, nil
}

// RequireAPIKey reports an error when no model API key is configured.
func (c *Config) RequireAPIKey() error {
	if c.APIKey == "" {
		return fmt.Errorf("no API key: set %s or %s", EnvGoogleAPIKey, EnvGeminiAPIKey)
	}
	return nil
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}
