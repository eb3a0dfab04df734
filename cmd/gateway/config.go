// In file: cmd/gateway/config.go
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/dileep-u-k/decision-gateway/internal/cache"
	"github.com/dileep-u-k/decision-gateway/internal/orchestrator"
)

const (
	defaultPort                = "8080"
	defaultConfigFile          = "config.yaml"
	defaultHealthCheckInterval = 5 * time.Minute

	cacheBackendMemory = "memory"
	cacheBackendRedis  = "redis"
)

// AppConfig holds all configuration for the gateway, loaded from the environment and config files.
type AppConfig struct {
	GeminiAPIKey string
	Port         string
	RedisAddr    string
	LogLevel     string
	LogFormat    string
	GinMode      string

	File FileConfig
}

// FileConfig mirrors config.yaml.
type FileConfig struct {
	Models   ModelsConfig   `yaml:"models"`
	Cache    CacheConfig    `yaml:"cache"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Server   ServerConfig   `yaml:"server"`
}

type ModelsConfig struct {
	Primary         string        `yaml:"primary"`
	Alternates      []string      `yaml:"alternates"`
	AttemptTimeout  time.Duration `yaml:"attempt_timeout"`
	Temperature     *float32      `yaml:"temperature"`
	MaxOutputTokens int           `yaml:"max_output_tokens"`
}

type CacheConfig struct {
	Backend    string        `yaml:"backend"`
	TTL        time.Duration `yaml:"ttl"`
	MaxEntries int           `yaml:"max_entries"`
}

type AnalysisConfig struct {
	RepairMalformedJSON bool `yaml:"repair_malformed_json"`
	InferProfile        bool `yaml:"infer_profile"`
}

type ServerConfig struct {
	CORSOrigins         []string      `yaml:"cors_origins"`
	HealthCheckInterval time.Duration `yaml:"health_check_interval"`
}

// LoadConfig loads all configuration from a .env file, environment variables, and config.yaml.
func LoadConfig() (*AppConfig, error) {
	// In Docker (GIN_MODE=release) configuration comes straight from the environment.
	if os.Getenv("GIN_MODE") != "release" {
		if err := godotenv.Load(); err != nil {
			log.Println("WARNING: No .env file found for local development.")
		}
	}

	cfg := &AppConfig{
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		Port:         envOr("PORT", defaultPort),
		RedisAddr:    os.Getenv("REDIS_ADDR"),
		LogLevel:     envOr("LOG_LEVEL", "info"),
		LogFormat:    os.Getenv("LOG_FORMAT"),
		GinMode:      os.Getenv("GIN_MODE"),
	}

	file, err := readFileConfig(envOr("CONFIG_FILE", defaultConfigFile))
	if err != nil {
		return nil, err
	}
	cfg.File = file

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// readFileConfig parses path and fills every unset value with its default.
// A missing file yields the defaults.
func readFileConfig(path string) (FileConfig, error) {
	var file FileConfig
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return FileConfig{}, fmt.Errorf("failed to read %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &file); err != nil {
			return FileConfig{}, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}
	file.applyDefaults()
	return file, nil
}

func (f *FileConfig) applyDefaults() {
	if f.Models.Primary == "" {
		f.Models.Primary = orchestrator.DefaultPrimaryModel
	}
	if f.Models.Alternates == nil {
		f.Models.Alternates = append([]string(nil), orchestrator.DefaultAlternateModels...)
	}
	if f.Models.AttemptTimeout <= 0 {
		f.Models.AttemptTimeout = orchestrator.DefaultAttemptTimeout
	}
	if f.Models.MaxOutputTokens <= 0 {
		f.Models.MaxOutputTokens = orchestrator.DefaultMaxOutputTokens
	}
	if f.Cache.Backend == "" {
		f.Cache.Backend = cacheBackendMemory
	}
	if f.Cache.TTL <= 0 {
		f.Cache.TTL = cache.DefaultTTL
	}
	if f.Cache.MaxEntries <= 0 {
		f.Cache.MaxEntries = cache.DefaultMaxEntries
	}
	if f.Server.HealthCheckInterval <= 0 {
		f.Server.HealthCheckInterval = defaultHealthCheckInterval
	}
}

func (c *AppConfig) validate() error {
	switch c.File.Cache.Backend {
	case cacheBackendMemory:
	case cacheBackendRedis:
		if c.RedisAddr == "" {
			return errors.New("cache.backend is redis but REDIS_ADDR is not set")
		}
	default:
		return fmt.Errorf("unknown cache.backend %q (want memory or redis)", c.File.Cache.Backend)
	}
	return nil
}

// Orchestrator returns the orchestrator settings described by the file.
func (f FileConfig) Orchestrator() orchestrator.Config {
	return orchestrator.Config{
		PrimaryModel:        f.Models.Primary,
		AlternateModels:     f.Models.Alternates,
		AttemptTimeout:      f.Models.AttemptTimeout,
		Temperature:         f.Models.Temperature,
		MaxOutputTokens:     f.Models.MaxOutputTokens,
		RepairMalformedJSON: f.Analysis.RepairMalformedJSON,
		InferProfile:        f.Analysis.InferProfile,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
