package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Auth     AuthConfig     `yaml:"auth"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Enrich   EnrichConfig   `yaml:"enrich"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

// GetHost returns the server host, with container detection
func (c ServerConfig) GetHost() string {
	// On ECS/container, listen on all interfaces
	if os.Getenv("ECS_CONTAINER_METADATA_URI") != "" || os.Getenv("AWS_EXECUTION_ENV") != "" {
		return "0.0.0.0"
	}
	// Allow override via environment
	if host := os.Getenv("SERVER_HOST"); host != "" {
		return host
	}
	return c.Host
}

// AuthConfig holds Google OAuth authentication configuration
type AuthConfig struct {
	GoogleClientID     string `yaml:"google_client_id"`
	GoogleClientSecret string `yaml:"google_client_secret"`
	RedirectURL        string `yaml:"redirect_url"`
	CookieName         string `yaml:"cookie_name"`
	CookieMaxAge       int    `yaml:"cookie_max_age"`
}

// AnalysisConfig holds mailbox fetch limits for an analysis run
type AnalysisConfig struct {
	MaxReceived    int `yaml:"max_received"`
	MaxSent        int `yaml:"max_sent"`
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// Timeout returns the configured per-run timeout as a duration
func (c AnalysisConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// DatabaseConfig holds Postgres configuration for token storage
type DatabaseConfig struct {
	URL     string `yaml:"url"`
	Enabled bool   `yaml:"enabled"`
}

// RedisConfig holds Redis configuration for analysis session state
type RedisConfig struct {
	Addr            string `yaml:"addr"`
	Password        string `yaml:"password"`
	DB              int    `yaml:"db"`
	SessionTTLHours int    `yaml:"session_ttl_hours"`
}

// SessionTTL returns the session expiry as a duration
func (c RedisConfig) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLHours) * time.Hour
}

// EnrichConfig holds Bedrock LLM enrichment configuration
type EnrichConfig struct {
	Enabled         bool   `yaml:"enabled"`
	Region          string `yaml:"region"`
	ModelID         string `yaml:"model_id"`
	AWSProfile      string `yaml:"aws_profile"`
	RequestsPerMin  int    `yaml:"requests_per_min"`
	RequestsPerDay  int    `yaml:"requests_per_day"`
	MaxSampleEmails int    `yaml:"max_sample_emails"`
	TimeoutSeconds  int    `yaml:"timeout_seconds"`
}

// Timeout returns the configured enrichment call timeout as a duration
func (c EnrichConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// GetAWSProfile returns the AWS profile, with environment variable override
func (c EnrichConfig) GetAWSProfile() string {
	if envProfile := os.Getenv("AWS_PROFILE_OVERRIDE"); envProfile != "" {
		if envProfile == "none" || envProfile == "iam" {
			return "" // Use default credential chain (IAM role)
		}
		return envProfile
	}
	// On ECS/Lambda, don't use a profile - use IAM role
	if os.Getenv("ECS_CONTAINER_METADATA_URI") != "" || os.Getenv("AWS_EXECUTION_ENV") != "" {
		return ""
	}
	return c.AWSProfile
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Set defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Auth.CookieName == "" {
		cfg.Auth.CookieName = "footprint_session"
	}
	if cfg.Auth.CookieMaxAge == 0 {
		cfg.Auth.CookieMaxAge = 86400
	}
	if cfg.Analysis.MaxReceived == 0 {
		cfg.Analysis.MaxReceived = 200
	}
	if cfg.Analysis.MaxSent == 0 {
		cfg.Analysis.MaxSent = 100
	}
	if cfg.Analysis.TimeoutSeconds == 0 {
		cfg.Analysis.TimeoutSeconds = 300
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
	if cfg.Redis.SessionTTLHours == 0 {
		cfg.Redis.SessionTTLHours = 24
	}
	if cfg.Enrich.Region == "" {
		cfg.Enrich.Region = "us-east-1"
	}
	if cfg.Enrich.ModelID == "" {
		cfg.Enrich.ModelID = "anthropic.claude-3-haiku-20240307-v1:0"
	}
	if cfg.Enrich.RequestsPerMin == 0 {
		cfg.Enrich.RequestsPerMin = 10
	}
	if cfg.Enrich.RequestsPerDay == 0 {
		cfg.Enrich.RequestsPerDay = 500
	}
	if cfg.Enrich.MaxSampleEmails == 0 {
		cfg.Enrich.MaxSampleEmails = 20
	}
	if cfg.Enrich.TimeoutSeconds == 0 {
		cfg.Enrich.TimeoutSeconds = 60
	}

	return &cfg, nil
}

// LoadFromEnv loads configuration with environment variable overrides.
// It automatically loads a .env file (if present) before reading env vars,
// so secrets can live in .env locally and in real env vars on ECS.
func LoadFromEnv(path string) (*Config, error) {
	// Load .env file if it exists (no error if missing)
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	// Override with environment variables if present
	if v := os.Getenv("GOOGLE_CLIENT_ID"); v != "" {
		cfg.Auth.GoogleClientID = v
	}
	if v := os.Getenv("GOOGLE_CLIENT_SECRET"); v != "" {
		cfg.Auth.GoogleClientSecret = v
	}
	if v := os.Getenv("OAUTH_REDIRECT_URL"); v != "" {
		cfg.Auth.RedirectURL = v
	}

	// Database override (critical for ECS deployment where config.yaml has local defaults)
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		cfg.Database.URL = dbURL
		if !cfg.Database.Enabled {
			cfg.Database.Enabled = true
		}
	}

	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}

	if v := os.Getenv("BEDROCK_REGION"); v != "" {
		cfg.Enrich.Region = v
	}
	if v := os.Getenv("BEDROCK_MODEL_ID"); v != "" {
		cfg.Enrich.ModelID = v
	}

	return cfg, nil
}
