package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/shopsearch/internal/domain/pricing"
)

// Config holds the shopsearch API configuration.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Auth    AuthConfig    `yaml:"auth"`
	Catalog CatalogConfig `yaml:"catalog"`
	Search  SearchConfig  `yaml:"search"`
	Pricing PricingConfig `yaml:"pricing"`
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// CatalogConfig holds the catalog source.
type CatalogConfig struct {
	Source string      `yaml:"source"` // file, redis (default: file)
	Path   string      `yaml:"path"`
	Format string      `yaml:"format"` // json, yaml (default: from file extension)
	Redis  RedisConfig `yaml:"redis"`
}

// RedisConfig holds connection settings for a Redis or Valkey catalog source.
type RedisConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	Key              string   `yaml:"key"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// SearchConfig holds result limits and sidebar semantics.
type SearchConfig struct {
	// PriceCeiling is the sidebar slider maximum; a price_max at or above it means no limit.
	PriceCeiling float64 `yaml:"price_ceiling"`
	DefaultLimit int     `yaml:"default_limit"`
	MaxBatchSize int     `yaml:"max_batch_size"`
	BatchWorkers int     `yaml:"batch_workers"` // 0 = one per CPU
}

// PricingConfig holds the demand pricing policy.
type PricingConfig struct {
	EnabledByDefault    bool     `yaml:"enabled_by_default"`
	DemandCategories    []string `yaml:"demand_categories"`
	DemandBoost         float64  `yaml:"demand_boost"`
	RatingPivot         float64  `yaml:"rating_pivot"`
	RatingStep          float64  `yaml:"rating_step"`
	ClearanceBelow      float64  `yaml:"clearance_below"`
	ClearanceMultiplier float64  `yaml:"clearance_multiplier"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads, expands, defaults and validates the configuration at configPath.
func LoadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Catalog.Source == "" {
		c.Catalog.Source = "file"
	}
	if c.Catalog.Redis.Key == "" {
		c.Catalog.Redis.Key = "shopsearch:catalog"
	}
	if c.Catalog.Redis.ReadinessTimeout <= 0 {
		c.Catalog.Redis.ReadinessTimeout = 10
	}
	if c.Catalog.Path == "" {
		c.Catalog.Path = "data/products.json"
	}
	if c.Search.PriceCeiling <= 0 {
		c.Search.PriceCeiling = 300
	}
	if c.Search.DefaultLimit <= 0 {
		c.Search.DefaultLimit = 50
	}
	if c.Search.MaxBatchSize <= 0 {
		c.Search.MaxBatchSize = 100
	}
	if c.Pricing.DemandCategories == nil {
		c.Pricing.DemandCategories = []string{"Shoes", "Electronics"}
	}
	if c.Pricing.DemandBoost == 0 {
		c.Pricing.DemandBoost = 0.05
	}
	if c.Pricing.RatingPivot == 0 {
		c.Pricing.RatingPivot = 4.2
	}
	if c.Pricing.RatingStep == 0 {
		c.Pricing.RatingStep = 0.10
	}
	if c.Pricing.ClearanceBelow == 0 {
		c.Pricing.ClearanceBelow = 4.0
	}
	if c.Pricing.ClearanceMultiplier == 0 {
		c.Pricing.ClearanceMultiplier = 0.95
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Catalog.Source {
	case "", "file":
	case "redis":
		if len(c.Catalog.Redis.Addrs) == 0 {
			return fmt.Errorf("catalog.redis.addrs is required when catalog.source is redis")
		}
	default:
		return fmt.Errorf("catalog.source must be \"file\" or \"redis\", got %q", c.Catalog.Source)
	}
	switch c.Catalog.Format {
	case "", "json", "yaml":
		// ok
	default:
		return fmt.Errorf("catalog.format must be \"json\" or \"yaml\", got %q", c.Catalog.Format)
	}
	if c.Search.BatchWorkers < 0 {
		return fmt.Errorf("search.batch_workers must not be negative, got %d", c.Search.BatchWorkers)
	}
	if c.Pricing.ClearanceMultiplier < 0 {
		return fmt.Errorf("pricing.clearance_multiplier must not be negative, got %v", c.Pricing.ClearanceMultiplier)
	}
	if c.Pricing.RatingStep < 0 || c.Pricing.DemandBoost < 0 {
		return fmt.Errorf("pricing boosts must not be negative")
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}

// Policy converts the pricing section into a demand pricing policy.
func (p PricingConfig) Policy() pricing.Policy {
	return pricing.Policy{
		DemandCategories:    p.DemandCategories,
		DemandBoost:         p.DemandBoost,
		RatingPivot:         p.RatingPivot,
		RatingStep:          p.RatingStep,
		ClearanceBelow:      p.ClearanceBelow,
		ClearanceMultiplier: p.ClearanceMultiplier,
	}
}
