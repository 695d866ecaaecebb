// Package config provides configuration loading and validation.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/artpar/sportsgate/domain/plan"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

// DefaultAdminToken is used when no admin token is configured. Servers
// started with it log a warning.
const DefaultAdminToken = "dev-admin-token"

// DefaultDemoAPIKey is the public key seeded for the demo client.
const DefaultDemoAPIKey = "rz_demo_public_key"

// demoDisabled as demo.api_key turns the demo key off.
const demoDisabled = "-"

// Config is the root configuration structure.
type Config struct {
	Server   ServerConfig          `yaml:"server"`
	Upstream UpstreamConfig        `yaml:"upstream"`
	Cache    CacheConfig           `yaml:"cache"`
	Admin    AdminConfig           `yaml:"admin"`
	Plans    map[string]PlanConfig `yaml:"plans"`
	Demo     DemoConfig            `yaml:"demo"`
	Catalog  CatalogConfig         `yaml:"catalog"`
	Logging  LoggingConfig         `yaml:"logging"`
	Metrics  MetricsConfig         `yaml:"metrics"`
	OpenAPI  OpenAPIConfig         `yaml:"openapi"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// UpstreamConfig configures the fixtures source.
type UpstreamConfig struct {
	URL             string        `yaml:"url"` // empty disables upstream
	Timeout         time.Duration `yaml:"timeout"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	IdleConnTimeout time.Duration `yaml:"idle_conn_timeout"`
}

// CacheConfig configures the fixtures cache.
type CacheConfig struct {
	TTL time.Duration `yaml:"ttl"`
}

// AdminConfig configures the admin endpoints.
type AdminConfig struct {
	Token      string `yaml:"token"`
	BcryptCost int    `yaml:"bcrypt_cost"`
}

// PlanConfig configures the limits of one plan.
type PlanConfig struct {
	RateLimitPerMinute int   `yaml:"rate_limit_per_minute"`
	MonthlyQuota       int64 `yaml:"monthly_quota"`
}

// DemoConfig configures the demo key.
type DemoConfig struct {
	APIKey string `yaml:"api_key"` // "-" disables
}

// CatalogConfig configures the fallback catalog.
type CatalogConfig struct {
	Path  string `yaml:"path"` // empty uses the built-in catalog
	Watch bool   `yaml:"watch"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "console"
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"` // Enable /metrics endpoint
}

// OpenAPIConfig configures OpenAPI/Swagger documentation.
type OpenAPIConfig struct {
	Enabled bool `yaml:"enabled"` // Enable /swagger endpoints
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8000,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Upstream: UpstreamConfig{
			Timeout:         4 * time.Second,
			MaxIdleConns:    100,
			IdleConnTimeout: 90 * time.Second,
		},
		Cache: CacheConfig{TTL: 30 * time.Second},
		Admin: AdminConfig{
			Token:      DefaultAdminToken,
			BcryptCost: bcrypt.DefaultCost,
		},
		Plans: map[string]PlanConfig{
			plan.Free: {RateLimitPerMinute: 60, MonthlyQuota: 5000},
			plan.Pro:  {RateLimitPerMinute: 600, MonthlyQuota: 100000},
		},
		Demo:    DemoConfig{APIKey: DefaultDemoAPIKey},
		Catalog: CatalogConfig{Watch: true},
		Logging: LoggingConfig{Level: "info", Format: "json"},
		Metrics: MetricsConfig{Enabled: true},
		OpenAPI: OpenAPIConfig{Enabled: true},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (if
// any), then environment overrides, then validation.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}

		// Expand environment variables
		data = []byte(os.ExpandEnv(string(data)))

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, fmt.Errorf("environment: %w", err)
	}

	normalize(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// LoadDotEnv loads variables from .env style files into the process
// environment. Missing files are skipped; variables already set win.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// applyEnvOverrides applies SPORTSGATE_* environment variables to the config.
// The bare names accepted by earlier deployments (PORT, SPORTS_API_URL, ...)
// are honoured when the prefixed one is unset.
func applyEnvOverrides(cfg *Config) error {
	var errs []error
	str := func(dst *string, names ...string) {
		if v, ok := lookupEnv(names...); ok {
			*dst = v
		}
	}
	num := func(dst *int, names ...string) {
		if v, ok := lookupEnv(names...); ok {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", names[0], err))
				return
			}
			*dst = n
		}
	}
	num64 := func(dst *int64, names ...string) {
		if v, ok := lookupEnv(names...); ok {
			n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", names[0], err))
				return
			}
			*dst = n
		}
	}
	millis := func(dst *time.Duration, names ...string) {
		if v, ok := lookupEnv(names...); ok {
			n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", names[0], err))
				return
			}
			*dst = time.Duration(n) * time.Millisecond
		}
	}
	dur := func(dst *time.Duration, names ...string) {
		if v, ok := lookupEnv(names...); ok {
			d, err := time.ParseDuration(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", names[0], err))
				return
			}
			*dst = d
		}
	}
	flag := func(dst *bool, names ...string) {
		if v, ok := lookupEnv(names...); ok {
			*dst = parseBool(v)
		}
	}

	// Server configuration
	str(&cfg.Server.Host, "SPORTSGATE_HOST")
	num(&cfg.Server.Port, "SPORTSGATE_PORT", "PORT")
	dur(&cfg.Server.ReadTimeout, "SPORTSGATE_SERVER_READ_TIMEOUT")
	dur(&cfg.Server.WriteTimeout, "SPORTSGATE_SERVER_WRITE_TIMEOUT")

	// Upstream configuration
	str(&cfg.Upstream.URL, "SPORTSGATE_UPSTREAM_URL", "SPORTS_API_URL")
	millis(&cfg.Upstream.Timeout, "SPORTSGATE_UPSTREAM_TIMEOUT_MS", "SPORTS_API_TIMEOUT_MS")

	millis(&cfg.Cache.TTL, "SPORTSGATE_CACHE_TTL_MS", "CACHE_TTL_MS")

	// Admin configuration
	str(&cfg.Admin.Token, "SPORTSGATE_ADMIN_TOKEN", "ADMIN_TOKEN")
	num(&cfg.Admin.BcryptCost, "SPORTSGATE_ADMIN_BCRYPT_COST")

	// Plan limits
	free, pro := cfg.Plans[plan.Free], cfg.Plans[plan.Pro]
	num(&free.RateLimitPerMinute, "SPORTSGATE_RATE_LIMIT_FREE_PER_MIN", "RATE_LIMIT_FREE_PER_MIN")
	num(&pro.RateLimitPerMinute, "SPORTSGATE_RATE_LIMIT_PRO_PER_MIN", "RATE_LIMIT_PRO_PER_MIN")
	num64(&free.MonthlyQuota, "SPORTSGATE_MONTHLY_QUOTA_FREE", "MONTHLY_QUOTA_FREE")
	num64(&pro.MonthlyQuota, "SPORTSGATE_MONTHLY_QUOTA_PRO", "MONTHLY_QUOTA_PRO")
	if cfg.Plans == nil {
		cfg.Plans = map[string]PlanConfig{}
	}
	for id, p := range map[string]PlanConfig{plan.Free: free, plan.Pro: pro} {
		if _, ok := cfg.Plans[id]; ok || p != (PlanConfig{}) {
			cfg.Plans[id] = p
		}
	}

	str(&cfg.Demo.APIKey, "SPORTSGATE_DEMO_API_KEY", "DEMO_PUBLIC_API_KEY")

	// Catalog configuration
	str(&cfg.Catalog.Path, "SPORTSGATE_CATALOG_PATH")
	flag(&cfg.Catalog.Watch, "SPORTSGATE_CATALOG_WATCH")

	// Logging configuration
	str(&cfg.Logging.Level, "SPORTSGATE_LOG_LEVEL")
	str(&cfg.Logging.Format, "SPORTSGATE_LOG_FORMAT")

	flag(&cfg.Metrics.Enabled, "SPORTSGATE_METRICS_ENABLED")
	flag(&cfg.OpenAPI.Enabled, "SPORTSGATE_OPENAPI_ENABLED")

	return errors.Join(errs...)
}

// lookupEnv returns the first non-empty variable among names.
func lookupEnv(names ...string) (string, bool) {
	for _, n := range names {
		if v := os.Getenv(n); v != "" {
			return v, true
		}
	}
	return "", false
}

// parseBool parses a boolean from common string values.
func parseBool(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "true" || v == "1" || v == "yes" || v == "on"
}

// normalize lower-cases plan ids and trims free-form strings.
func normalize(cfg *Config) {
	plans := make(map[string]PlanConfig, len(cfg.Plans))
	for id, p := range cfg.Plans {
		plans[strings.ToLower(strings.TrimSpace(id))] = p
	}
	cfg.Plans = plans

	cfg.Upstream.URL = strings.TrimSpace(cfg.Upstream.URL)
	cfg.Demo.APIKey = strings.TrimSpace(cfg.Demo.APIKey)
	cfg.Logging.Level = strings.ToLower(strings.TrimSpace(cfg.Logging.Level))
	cfg.Logging.Format = strings.ToLower(strings.TrimSpace(cfg.Logging.Format))
}

// Validate checks cfg for values the server cannot run with.
func Validate(cfg *Config) error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be 1..65535, got %d", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout <= 0 || cfg.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server timeouts must be positive")
	}

	if cfg.Upstream.URL != "" {
		u, err := url.Parse(cfg.Upstream.URL)
		if err != nil {
			return fmt.Errorf("upstream.url: %w", err)
		}
		if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("upstream.url must be an absolute http(s) URL, got %q", cfg.Upstream.URL)
		}
	}
	if cfg.Upstream.Timeout <= 0 {
		return fmt.Errorf("upstream.timeout must be positive")
	}
	if cfg.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive")
	}

	if cfg.Admin.Token == "" {
		return fmt.Errorf("admin.token is required")
	}
	// bcrypt rejects longer secrets.
	if len(cfg.Admin.Token) > 72 {
		return fmt.Errorf("admin.token must be at most 72 bytes")
	}
	if cfg.Admin.BcryptCost < bcrypt.MinCost || cfg.Admin.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("admin.bcrypt_cost must be %d..%d, got %d", bcrypt.MinCost, bcrypt.MaxCost, cfg.Admin.BcryptCost)
	}

	if _, ok := cfg.Plans[plan.Free]; !ok {
		return fmt.Errorf("plans.free is required")
	}
	for id, p := range cfg.Plans {
		if id == "" {
			return fmt.Errorf("plan id is required")
		}
		if p.RateLimitPerMinute <= 0 {
			return fmt.Errorf("plans.%s.rate_limit_per_minute must be positive", id)
		}
		if p.MonthlyQuota < 0 {
			return fmt.Errorf("plans.%s.monthly_quota must not be negative", id)
		}
	}

	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("logging.format must be 'json' or 'console', got %q", cfg.Logging.Format)
	}

	return nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// PlanTable converts the configured plans to the domain table.
func (c *Config) PlanTable() plan.Table {
	t := make(plan.Table, len(c.Plans))
	for id, p := range c.Plans {
		t[id] = plan.Limits{RateLimitPerMinute: p.RateLimitPerMinute, MonthlyQuota: p.MonthlyQuota}
	}
	return t
}

// DemoAPIKey returns the demo key, or "" when disabled.
func (c *Config) DemoAPIKey() string {
	if c.Demo.APIKey == demoDisabled {
		return ""
	}
	return c.Demo.APIKey
}

// UsesDefaultAdminToken reports whether the admin token was left at its
// insecure default.
func (c *Config) UsesDefaultAdminToken() bool {
	return c.Admin.Token == DefaultAdminToken
}
