package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Environment string           `yaml:"environment"` // "development" or "production"
	Server      ServerConfig     `yaml:"server"`
	Database    DatabaseConfig   `yaml:"database"`
	JWT         JWTConfig        `yaml:"jwt"`
	SMTP        SMTPConfig       `yaml:"smtp"`
	Newsletter  NewsletterConfig `yaml:"newsletter"`
	RateLimit   RateLimitConfig  `yaml:"rate_limit"`
	Log         LogConfig        `yaml:"log"`
	Scheduler   SchedulerConfig  `yaml:"scheduler"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// JWTConfig contains session token settings
type JWTConfig struct {
	Secret          string `yaml:"secret"`
	SessionTTLHours int    `yaml:"session_ttl_hours"`
}

// SMTPConfig contains email delivery settings, used only when the
// newsletter mode is "smtp"
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

// NewsletterConfig selects the campaign dispatch mode
type NewsletterConfig struct {
	Mode string `yaml:"mode"` // "simulate" (default) or "smtp"
}

// RateLimitConfig contains fixed-window limiter settings
type RateLimitConfig struct {
	AuthPerMinute        int `yaml:"auth_per_minute"`
	RegistrationsPerHour int `yaml:"registrations_per_hour"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	SweepExpiredOTPCodes string `yaml:"sweep_expired_otp_codes"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	if val := os.Getenv("APP_ENV"); val != "" {
		c.Environment = val
	}

	// Database
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	// JWT
	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.JWT.Secret = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	// SMTP
	if val := os.Getenv("SMTP_HOST"); val != "" {
		c.SMTP.Host = val
	}
	if val := os.Getenv("SMTP_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.SMTP.Port)
	}
	if val := os.Getenv("SMTP_USER"); val != "" {
		c.SMTP.User = val
	}
	if val := os.Getenv("SMTP_PASSWORD"); val != "" {
		c.SMTP.Password = val
	}
	if val := os.Getenv("SMTP_FROM"); val != "" {
		c.SMTP.From = val
	}

	// Newsletter
	if val := os.Getenv("NEWSLETTER_MODE"); val != "" {
		c.Newsletter.Mode = val
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Environment != "development" && c.Environment != "production" {
		return fmt.Errorf("invalid environment: %s", c.Environment)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}
	if c.JWT.SessionTTLHours == 0 {
		c.JWT.SessionTTLHours = 7 * 24
	}

	if c.Newsletter.Mode == "" {
		c.Newsletter.Mode = "simulate"
	}
	if c.Newsletter.Mode != "simulate" && c.Newsletter.Mode != "smtp" {
		return fmt.Errorf("invalid newsletter mode: %s", c.Newsletter.Mode)
	}
	if c.Newsletter.Mode == "smtp" {
		if c.SMTP.Host == "" {
			return fmt.Errorf("SMTP host is required for newsletter mode smtp")
		}
		if c.SMTP.Port <= 0 || c.SMTP.Port > 65535 {
			return fmt.Errorf("invalid SMTP port: %d", c.SMTP.Port)
		}
	}

	// Rate limit defaults: 5 auth actions per minute, 10 event
	// registrations per hour, both per IP.
	if c.RateLimit.AuthPerMinute == 0 {
		c.RateLimit.AuthPerMinute = 5
	}
	if c.RateLimit.RegistrationsPerHour == 0 {
		c.RateLimit.RegistrationsPerHour = 10
	}

	// Scheduler defaults
	if c.Scheduler.SweepExpiredOTPCodes == "" {
		c.Scheduler.SweepExpiredOTPCodes = "0 0 4 * * *" // 4 AM UTC
	}

	return nil
}

// IsProduction reports whether the server runs with production
// hardening (secure cookies).
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
