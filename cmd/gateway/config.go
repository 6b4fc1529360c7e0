// In file: cmd/gateway/config.go
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"time"

	"github.com/dileep-u-k/weather-agent/internal/planner"
	"github.com/dileep-u-k/weather-agent/internal/tools"
	"github.com/dileep-u-k/weather-agent/internal/weather"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultPort       = "3000"
	defaultConfigPath = "config.yaml"
)

// AppConfig holds all configuration for the gateway, loaded from the environment and config.yaml.
type AppConfig struct {
	Port      string          `yaml:"-"`
	RedisAddr string          `yaml:"-"`
	Providers ProvidersConfig `yaml:"providers"`
	Planner   PlannerConfig   `yaml:"planner"`
	Cache     CacheConfig     `yaml:"cache"`
}

// ProvidersConfig describes the upstream geocoding and weather services.
type ProvidersConfig struct {
	GeocoderURL    string `yaml:"geocoder_url"`
	ConditionsURL  string `yaml:"conditions_url"`
	UserAgent      string `yaml:"user_agent"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	// MaxRetries of 0 keeps provider calls single-shot.
	MaxRetries   int `yaml:"max_retries"`
	RetryDelayMS int `yaml:"retry_delay_ms"`
}

type PlannerConfig struct {
	DefaultTool string `yaml:"default_tool"`
	Model       string `yaml:"model"`
}

type CacheConfig struct {
	CoordinatesTTLHours int `yaml:"coordinates_ttl_hours"`
}

// WeatherConfig converts the provider section into the weather client's config.
func (p ProvidersConfig) WeatherConfig() weather.Config {
	return weather.Config{
		GeocoderURL:   p.GeocoderURL,
		ConditionsURL: p.ConditionsURL,
		UserAgent:     p.UserAgent,
		Timeout:       time.Duration(p.TimeoutSeconds) * time.Second,
	}
}

func defaultConfig() *AppConfig {
	return &AppConfig{
		Port: defaultPort,
		Providers: ProvidersConfig{
			GeocoderURL:    weather.DefaultGeocoderURL,
			ConditionsURL:  weather.DefaultConditionsURL,
			UserAgent:      weather.DefaultUserAgent,
			TimeoutSeconds: int(weather.DefaultTimeout / time.Second),
			RetryDelayMS:   500,
		},
		Planner: PlannerConfig{
			DefaultTool: tools.WeatherToolName,
			Model:       planner.DefaultModel,
		},
		Cache: CacheConfig{
			CoordinatesTTLHours: int(weather.DefaultCoordinatesTTL / time.Hour),
		},
	}
}

// LoadConfig loads configuration from a .env file, environment variables, and the YAML config file.
// A missing YAML file is not an error; the built-in defaults are used instead.
func LoadConfig() (*AppConfig, error) {
	// In release mode configuration comes from the real environment only.
	if os.Getenv("GIN_MODE") != "release" {
		if err := godotenv.Load(); err != nil {
			log.Println("WARNING: No .env file found for local development.")
		}
	}

	cfg := defaultConfig()

	path := os.Getenv("AGENT_CONFIG")
	if path == "" {
		path = defaultConfigPath
	}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Printf("WARNING: Config file %s not found, using defaults.", path)
	case err != nil:
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	if port := os.Getenv("PORT"); port != "" {
		cfg.Port = port
	}
	cfg.RedisAddr = os.Getenv("REDIS_ADDR")

	if cfg.Providers.MaxRetries < 0 {
		return nil, fmt.Errorf("providers.max_retries must not be negative, got %d", cfg.Providers.MaxRetries)
	}
	if cfg.Providers.TimeoutSeconds <= 0 {
		return nil, fmt.Errorf("providers.timeout_seconds must be positive, got %d", cfg.Providers.TimeoutSeconds)
	}
	return cfg, nil
}
