package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Admin    AdminConfig    `yaml:"admin"`
	Session  SessionConfig  `yaml:"session"`
	Database DatabaseConfig `yaml:"database"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
	BrandName       string  `yaml:"brand_name"`
	Locale          string  `yaml:"locale"`
	Currency        string  `yaml:"currency"`
}

// AdminConfig holds the single shared administrator credential.
type AdminConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// SessionConfig controls the signed session cookie.
type SessionConfig struct {
	Secret       string        `yaml:"secret"`
	TTLHours     int           `yaml:"ttl_hours"`
	TTL          time.Duration `yaml:"-"` // Ignored by YAML parser
	CookieName   string        `yaml:"cookie_name"`
	SecureCookie bool          `yaml:"secure_cookie"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	Driver                    string `yaml:"driver"`
	DSN                       string `yaml:"dsn"`
	MaxOpenConns              int    `yaml:"max_open_conns"`
	MaxIdleConns              int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes    int    `yaml:"conn_max_lifetime_minutes"`
	LogLevel                  string `yaml:"log_level"`
	EnableExclusionConstraint bool   `yaml:"enable_exclusion_constraint"`
	SeedOnStart               bool   `yaml:"seed_on_start"`
}

// Load reads the configuration from the given path. Values from a .env file
// and from the process environment take precedence over the file.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err == nil {
		log.Printf("loaded environment overrides from .env")
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)
	return &cfg, nil
}

// Path returns the configuration file path, honouring CONFIG_PATH.
func Path() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return "./config/config.yaml" // Default path for local development
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("ADMIN_USERNAME"); v != "" {
		cfg.Admin.Username = v
	}
	if v := os.Getenv("ADMIN_PASSWORD"); v != "" {
		cfg.Admin.Password = v
	}
	if v := os.Getenv("SESSION_SECRET"); v != "" {
		cfg.Session.Secret = v
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		cfg.Database.DSN = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 30
	}
	if cfg.Server.BrandName == "" {
		cfg.Server.BrandName = "Rental Shop"
	}
	if cfg.Server.Locale == "" {
		cfg.Server.Locale = "en-US"
	}
	if cfg.Server.Currency == "" {
		cfg.Server.Currency = "THB"
	}

	if cfg.Session.TTLHours <= 0 {
		cfg.Session.TTLHours = 12
	}
	cfg.Session.TTL = time.Duration(cfg.Session.TTLHours) * time.Hour
	if cfg.Session.CookieName == "" {
		cfg.Session.CookieName = "rental_session"
	}
	if cfg.Session.Secret == "" {
		log.Printf("session.secret is not set; sessions will not survive a restart")
	}

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.DSN == "" && cfg.Database.Driver == "sqlite" {
		log.Printf("database.dsn is not set; defaulting to rental.db")
		cfg.Database.DSN = "rental.db"
	}
	if cfg.Database.LogLevel == "" {
		cfg.Database.LogLevel = "warn"
	}
}
