// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Service names accepted by Load
const (
	ServiceBackend   = "backend"
	ServiceSimulator = "simulator"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Security  SecurityConfig  `mapstructure:"security"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Store     StoreConfig     `mapstructure:"store"`
	Analytics AnalyticsConfig `mapstructure:"analytics"`
	Simulator SimulatorConfig `mapstructure:"simulator"`
	App       AppConfig       `mapstructure:"app"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// SecurityConfig represents cross-origin settings
type SecurityConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

// StoreConfig represents event store configuration
type StoreConfig struct {
	SeedSampleEvents bool `mapstructure:"seed_sample_events"`
}

// AnalyticsConfig represents how calendar days are evaluated
type AnalyticsConfig struct {
	// Timezone is an IANA name; "Local" uses the process time zone
	Timezone string `mapstructure:"timezone"`
}

// SimulatorConfig represents sensor simulator configuration
type SimulatorConfig struct {
	BackendURL      string                        `mapstructure:"backend_url"`
	IntervalMS      int                           `mapstructure:"interval_ms"`
	DeliveryTimeout time.Duration                 `mapstructure:"delivery_timeout"`
	AutoStart       bool                          `mapstructure:"auto_start"`
	Jitter          float64                       `mapstructure:"jitter"`
	RiskWeights     map[string]map[string]float64 `mapstructure:"risk_weights"`
}

// AppConfig represents application metadata
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	Debug       bool   `mapstructure:"debug"`
}

// Load loads configuration for the given service from an optional config file and
// environment variables
func Load(service string) (*Config, error) {
	if service != ServiceBackend && service != ServiceSimulator {
		return nil, fmt.Errorf("unknown service %q", service)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/perimeter-monitor")

	// Environment variable support
	v.SetEnvPrefix("PERIMETER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := bindEnv(v); err != nil {
		return nil, fmt.Errorf("failed to bind environment: %w", err)
	}

	setDefaults(v, service)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// The simulator starts on its own in production unless told otherwise
	if !v.IsSet("simulator.auto_start") {
		cfg.Simulator.AutoStart = cfg.IsProduction()
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// bindEnv maps the short deployment variable names onto config keys
func bindEnv(v *viper.Viper) error {
	bindings := map[string][]string{
		"server.port":              {"PERIMETER_SERVER_PORT", "PORT"},
		"simulator.backend_url":    {"PERIMETER_SIMULATOR_BACKEND_URL", "BACKEND_URL", "BACKEND_API"},
		"simulator.interval_ms":    {"PERIMETER_SIMULATOR_INTERVAL_MS", "SIMULATION_INTERVAL"},
		"security.allowed_origins": {"PERIMETER_SECURITY_ALLOWED_ORIGINS", "CORS_ORIGIN"},
		"app.environment":          {"PERIMETER_APP_ENVIRONMENT", "ENVIRONMENT"},
		"app.version":              {"PERIMETER_APP_VERSION", "API_VERSION"},
		"logging.level":            {"PERIMETER_LOGGING_LEVEL", "LOG_LEVEL"},
	}
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return err
		}
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper, service string) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	if service == ServiceSimulator {
		v.SetDefault("server.port", "5001")
	} else {
		v.SetDefault("server.port", "5000")
	}
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")

	// Security defaults
	v.SetDefault("security.allowed_origins", []string{
		"http://localhost:3000",
		"http://localhost:5173",
	})

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")
	v.SetDefault("logging.max_size", 100)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age", 28)
	v.SetDefault("logging.compress", true)

	// Store defaults
	v.SetDefault("store.seed_sample_events", true)

	// Analytics defaults
	v.SetDefault("analytics.timezone", "Local")

	// Simulator defaults
	v.SetDefault("simulator.backend_url", "http://localhost:5000/api/v1")
	v.SetDefault("simulator.interval_ms", 10000)
	v.SetDefault("simulator.delivery_timeout", "5s")
	v.SetDefault("simulator.jitter", 0.01)

	// App defaults
	if service == ServiceSimulator {
		v.SetDefault("app.name", "perimeter-simulator")
	} else {
		v.SetDefault("app.name", "perimeter-backend")
	}
	v.SetDefault("app.version", "v1")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.debug", false)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Server.Host == "" {
		return fmt.Errorf("server.host is required")
	}
	if config.Server.Port == "" {
		return fmt.Errorf("server.port is required")
	}

	// Validate environment
	validEnvs := []string{"development", "staging", "production", "test"}
	isValidEnv := false
	for _, env := range validEnvs {
		if config.App.Environment == env {
			isValidEnv = true
			break
		}
	}
	if !isValidEnv {
		return fmt.Errorf("app.environment must be one of: %v", validEnvs)
	}

	// Validate logging level
	validLevels := []string{"debug", "info", "warn", "error", "fatal"}
	isValidLevel := false
	for _, level := range validLevels {
		if config.Logging.Level == level {
			isValidLevel = true
			break
		}
	}
	if !isValidLevel {
		return fmt.Errorf("logging.level must be one of: %v", validLevels)
	}

	if config.Simulator.IntervalMS <= 0 {
		return fmt.Errorf("simulator.interval_ms must be positive")
	}
	if config.Simulator.DeliveryTimeout <= 0 {
		return fmt.Errorf("simulator.delivery_timeout must be positive")
	}
	if config.Simulator.Jitter < 0 {
		return fmt.Errorf("simulator.jitter must not be negative")
	}
	u, err := url.Parse(config.Simulator.BackendURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("simulator.backend_url must be an absolute URL")
	}

	if _, err := config.Location(); err != nil {
		return fmt.Errorf("analytics.timezone: %w", err)
	}

	return nil
}

// GetServerAddr returns the server address
func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

// Interval returns the simulator repeat period
func (c *Config) Interval() time.Duration {
	return time.Duration(c.Simulator.IntervalMS) * time.Millisecond
}

// Location returns the time zone used for calendar-day statistics
func (c *Config) Location() (*time.Location, error) {
	tz := c.Analytics.Timezone
	if tz == "" || strings.EqualFold(tz, "local") {
		return time.Local, nil
	}
	return time.LoadLocation(tz)
}

// IsProduction checks if the environment is production
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// IsDevelopment checks if the environment is development
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsDebugEnabled checks if debug mode is enabled
func (c *Config) IsDebugEnabled() bool {
	return c.App.Debug || c.IsDevelopment()
}
